package tokenizer

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/spicery/latok/pkg/features"
	"go.uber.org/multierr"
)

// ErrEmptyFeatureSpec is returned for a feature spec with no criteria.
var ErrEmptyFeatureSpec = errors.New("feature spec has no criteria")

// OffsetSpec tests a token span against a pair of combos. Present must fire
// and Absent must not; either may be left zero.
type OffsetSpec struct {
	Present features.Combo
	Absent  features.Combo
}

// Present returns an OffsetSpec requiring any of rows.
func Present(rows ...[]features.Feature) OffsetSpec {
	return OffsetSpec{Present: features.MustCombo(rows...)}
}

// ParseOffsetSpec builds an OffsetSpec from feature names.
func ParseOffsetSpec(present, absent [][]string) (OffsetSpec, error) {
	var o OffsetSpec
	var err error
	if len(present) > 0 {
		if o.Present, err = features.ParseCombo(present); err != nil {
			return OffsetSpec{}, fmt.Errorf("present: %w", err)
		}
	}
	if len(absent) > 0 {
		if o.Absent, err = features.ParseCombo(absent); err != nil {
			return OffsetSpec{}, fmt.Errorf("absent: %w", err)
		}
	}
	return o, nil
}

// Defined reports whether either combo is set.
func (o OffsetSpec) Defined() bool {
	return !o.Present.IsZero() || !o.Absent.IsZero()
}

// MatchChar reports whether some single position in [start, end) has
// Present firing and Absent not firing.
func (o OffsetSpec) MatchChar(m *features.Matrix, start, end int) bool {
	if !o.Defined() {
		return false
	}
	for p := start; p < end; p++ {
		if !o.Present.IsZero() && !o.Present.EvalAt(m, p) {
			continue
		}
		if !o.Absent.IsZero() && o.Absent.EvalAt(m, p) {
			continue
		}
		return true
	}
	return false
}

// MatchRange reports whether Present fires somewhere in [start, end) and
// Absent fires nowhere in it.
func (o OffsetSpec) MatchRange(m *features.Matrix, start, end int) bool {
	if !o.Defined() {
		return false
	}
	present := o.Present.IsZero()
	for p := start; p < end; p++ {
		if !o.Absent.IsZero() && o.Absent.EvalAt(m, p) {
			return false
		}
		if !present && o.Present.EvalAt(m, p) {
			present = true
		}
	}
	return present
}

// FeatureSpec names a class of tokens. A token matches when every defined
// category matches: any char-aligned offset spec, any range offset spec,
// any regex, and any failing not-regex.
type FeatureSpec struct {
	Name       string
	Char       []OffsetSpec
	Range      []OffsetSpec
	Regexes    []*regexp.Regexp
	NotRegexes []*regexp.Regexp
}

// NewFeatureSpec compiles a feature spec, reporting every problem found.
func NewFeatureSpec(name string, char, rng []OffsetSpec, regexes, notRegexes []string) (FeatureSpec, error) {
	s := FeatureSpec{Name: name, Char: char, Range: rng}
	var err error
	compile := func(kind string, exprs []string) []*regexp.Regexp {
		var out []*regexp.Regexp
		for _, expr := range exprs {
			re, rerr := regexp.Compile(expr)
			if rerr != nil {
				err = multierr.Append(err, fmt.Errorf("feature %q: %s %q: %w", name, kind, expr, rerr))
				continue
			}
			out = append(out, re)
		}
		return out
	}
	s.Regexes = compile("regex", regexes)
	s.NotRegexes = compile("not_regex", notRegexes)
	err = multierr.Append(err, s.Validate())
	if err != nil {
		return FeatureSpec{}, err
	}
	return s, nil
}

// Validate checks that the spec has a name and at least one criterion.
func (s FeatureSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("feature spec has no name")
	}
	if len(s.Char) == 0 && len(s.Range) == 0 && len(s.Regexes) == 0 && len(s.NotRegexes) == 0 {
		return fmt.Errorf("feature %q: %w", s.Name, ErrEmptyFeatureSpec)
	}
	for i, o := range append(slicesClone(s.Char), s.Range...) {
		if !o.Defined() {
			return fmt.Errorf("feature %q: offset spec %d has neither present nor absent", s.Name, i)
		}
	}
	return nil
}

// Matches reports whether tok belongs to the class.
func (s FeatureSpec) Matches(tok *Token) bool {
	start, end := tok.Span.Start, tok.Span.End
	if len(s.Char) > 0 && !anyOffset(s.Char, func(o OffsetSpec) bool { return o.MatchChar(tok.matrix, start, end) }) {
		return false
	}
	if len(s.Range) > 0 && !anyOffset(s.Range, func(o OffsetSpec) bool { return o.MatchRange(tok.matrix, start, end) }) {
		return false
	}
	if len(s.Regexes) > 0 && !anyRegex(s.Regexes, tok.Text, true) {
		return false
	}
	if len(s.NotRegexes) > 0 && !anyRegex(s.NotRegexes, tok.Text, false) {
		return false
	}
	return len(s.Char)+len(s.Range)+len(s.Regexes)+len(s.NotRegexes) > 0
}

func anyOffset(specs []OffsetSpec, match func(OffsetSpec) bool) bool {
	for _, o := range specs {
		if match(o) {
			return true
		}
	}
	return false
}

// anyRegex reports whether some pattern's match result equals want.
func anyRegex(res []*regexp.Regexp, text string, want bool) bool {
	for _, re := range res {
		if re.MatchString(text) == want {
			return true
		}
	}
	return false
}

func slicesClone(s []OffsetSpec) []OffsetSpec {
	return append([]OffsetSpec(nil), s...)
}

// Abstraction pairs a feature spec with an optional replacement text.
type Abstraction struct {
	Spec        FeatureSpec
	Replacement Optional[string]
}

// Abstract returns an abstraction without a replacement.
func Abstract(spec FeatureSpec) Abstraction {
	return Abstraction{Spec: spec}
}

// Replace returns an abstraction that replaces matching tokens with repl.
func Replace(spec FeatureSpec, repl string) Abstraction {
	return Abstraction{Spec: spec, Replacement: Some(repl)}
}
