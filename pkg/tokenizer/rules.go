package tokenizer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spicery/latok/pkg/splitmask"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// RulesFile represents the structure of a YAML rules file. Every section is
// optional; sections present replace the corresponding part of the preset.
type RulesFile struct {
	Preset   string                  `yaml:"preset,omitempty"`
	Stages   []splitmask.StageConfig `yaml:"stages,omitempty"`
	Plan     []splitmask.StepConfig  `yaml:"plan,omitempty"`
	Features []FeatureRule           `yaml:"features,omitempty"`
	Options  *OptionsRule            `yaml:"options,omitempty"`
}

// FeatureRule represents a feature spec and its optional replacement. Ref
// names a reference spec to use instead of defining the criteria inline.
type FeatureRule struct {
	Name        string       `yaml:"name,omitempty"`
	Ref         string       `yaml:"ref,omitempty"`
	Char        []OffsetRule `yaml:"char,omitempty"`
	Range       []OffsetRule `yaml:"range,omitempty"`
	Regexes     []string     `yaml:"regexes,omitempty"`
	NotRegexes  []string     `yaml:"not_regexes,omitempty"`
	Replacement *string      `yaml:"replacement,omitempty"`
}

// OffsetRule represents an OffsetSpec.
type OffsetRule struct {
	Present splitmask.FeatureRows `yaml:"present,omitempty"`
	Absent  splitmask.FeatureRows `yaml:"absent,omitempty"`
}

// OptionsRule represents the tokenizer flags.
type OptionsRule struct {
	Lowercase   *bool `yaml:"lowercase,omitempty"`
	DropSymbols *bool `yaml:"drop_symbols,omitempty"`
	KeepEmojis  *bool `yaml:"keep_emojis,omitempty"`
	Replace     *bool `yaml:"replace,omitempty"`
}

// LoadRulesFile loads and parses a YAML rules file
func LoadRulesFile(filename string) (*RulesFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file '%s': %w", filename, err)
	}

	rules, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML in rules file '%s': %w", filename, err)
	}
	return rules, nil
}

// ParseRules parses YAML rules. Unknown keys are rejected.
func ParseRules(data []byte) (*RulesFile, error) {
	var rules RulesFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rules); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &rules, nil
}

// WriteRules writes rules as YAML.
func WriteRules(w io.Writer, rules *RulesFile) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rules); err != nil {
		return fmt.Errorf("failed to marshal rules to YAML: %w", err)
	}
	return enc.Close()
}

// ApplyRules builds a tokenizer from rules layered over their preset (the
// default preset when none is named). opts are applied last. All problems
// in the file are reported together.
func ApplyRules(rules *RulesFile, opts ...Option) (*Tokenizer, error) {
	name := rules.Preset
	if name == "" {
		name = PresetDefault
	}
	base, err := NewPreset(name)
	if err != nil {
		return nil, err
	}

	var all []Option

	// Apply stage and plan rules
	if len(rules.Stages) > 0 || len(rules.Plan) > 0 {
		cfg := base.Generator().Describe()
		if len(rules.Stages) > 0 {
			cfg.Stages = rules.Stages
		}
		if len(rules.Plan) > 0 {
			cfg.Plan = rules.Plan
		}
		g, gerr := cfg.Build()
		if gerr != nil {
			err = multierr.Append(err, gerr)
		} else {
			all = append(all, withGenerator(g))
		}
	}

	// Apply feature rules
	if len(rules.Features) > 0 {
		abs := make([]Abstraction, 0, len(rules.Features))
		for i, fr := range rules.Features {
			a, aerr := fr.build()
			if aerr != nil {
				err = multierr.Append(err, fmt.Errorf("features[%d]: %w", i, aerr))
				continue
			}
			abs = append(abs, a)
		}
		all = append(all, WithAbstractions(abs...))
	}

	// Apply option rules
	if o := rules.Options; o != nil {
		if o.Lowercase != nil {
			all = append(all, WithLowercase(*o.Lowercase))
		}
		if o.DropSymbols != nil {
			all = append(all, WithDropSymbols(*o.DropSymbols))
		}
		if o.KeepEmojis != nil {
			all = append(all, WithKeepEmojis(*o.KeepEmojis))
		}
		if o.Replace != nil {
			all = append(all, WithReplace(*o.Replace))
		}
	}

	if err != nil {
		return nil, err
	}
	t := base.Clone(append(all, opts...)...)
	t.logger.Debug("rules applied",
		slog.String("preset", name),
		slog.Int("stages", len(t.gen.Stages())),
		slog.Int("plan", len(t.gen.Plan())),
		slog.Int("features", len(t.abstractions)))
	return t, nil
}

func withGenerator(g *splitmask.Generator) Option {
	return func(t *Tokenizer) { t.gen = g }
}

func (fr FeatureRule) build() (Abstraction, error) {
	repl := optionalPtr(fr.Replacement)
	if fr.Ref != "" {
		if len(fr.Char)+len(fr.Range)+len(fr.Regexes)+len(fr.NotRegexes) > 0 {
			return Abstraction{}, fmt.Errorf("feature %q: ref cannot be combined with inline criteria", fr.Ref)
		}
		spec, ok := ReferenceSpec(fr.Ref)
		if !ok {
			return Abstraction{}, fmt.Errorf("feature %q: no reference spec with that name", fr.Ref)
		}
		if fr.Name != "" {
			spec.Name = fr.Name
		}
		return Abstraction{Spec: spec, Replacement: repl}, nil
	}

	var err error
	offsets := func(kind string, rules []OffsetRule) []OffsetSpec {
		out := make([]OffsetSpec, 0, len(rules))
		for i, r := range rules {
			o, oerr := ParseOffsetSpec(r.Present, r.Absent)
			if oerr != nil {
				err = multierr.Append(err, fmt.Errorf("feature %q: %s[%d]: %w", fr.Name, kind, i, oerr))
				continue
			}
			out = append(out, o)
		}
		return out
	}
	char := offsets("char", fr.Char)
	rng := offsets("range", fr.Range)
	if err != nil {
		return Abstraction{}, err
	}
	spec, err := NewFeatureSpec(fr.Name, char, rng, fr.Regexes, fr.NotRegexes)
	if err != nil {
		return Abstraction{}, err
	}
	return Abstraction{Spec: spec, Replacement: repl}, nil
}

// RulesFromTokenizer converts a tokenizer back into rules that ApplyRules
// rebuilds into an equivalent tokenizer.
func RulesFromTokenizer(t *Tokenizer) *RulesFile {
	cfg := t.gen.Describe()
	rules := &RulesFile{
		Stages: cfg.Stages,
		Plan:   cfg.Plan,
		Options: &OptionsRule{
			Lowercase:   Some(t.lowercase).ptr(),
			DropSymbols: Some(t.dropSymbols).ptr(),
			KeepEmojis:  Some(t.keepEmojis).ptr(),
			Replace:     Some(t.replace).ptr(),
		},
	}

	// Convert abstractions to feature rules
	for _, a := range t.abstractions {
		rules.Features = append(rules.Features, describeAbstraction(a))
	}
	return rules
}

// PresetRules returns the rules of the named preset.
func PresetRules(name string) (*RulesFile, error) {
	t, err := NewPreset(name)
	if err != nil {
		return nil, err
	}
	rules := RulesFromTokenizer(t)
	rules.Preset = name
	return rules, nil
}

func describeAbstraction(a Abstraction) FeatureRule {
	fr := FeatureRule{Name: a.Spec.Name, Replacement: a.Replacement.ptr()}
	describe := func(specs []OffsetSpec) []OffsetRule {
		var out []OffsetRule
		for _, o := range specs {
			out = append(out, OffsetRule{Present: o.Present.Names(), Absent: o.Absent.Names()})
		}
		return out
	}
	fr.Char = describe(a.Spec.Char)
	fr.Range = describe(a.Spec.Range)
	for _, re := range a.Spec.Regexes {
		fr.Regexes = append(fr.Regexes, re.String())
	}
	for _, re := range a.Spec.NotRegexes {
		fr.NotRegexes = append(fr.NotRegexes, re.String())
	}
	return fr
}
