package tokenizer

import (
	"iter"
	"log/slog"
	"slices"

	"github.com/spicery/latok/pkg/features"
	"github.com/spicery/latok/pkg/splitmask"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tokenizer splits text with a split mask generator, tags tokens with
// abstract features and normalises their text. A Tokenizer is immutable
// after construction and safe for concurrent use.
type Tokenizer struct {
	Splitter

	abstractions []Abstraction
	lowercase    bool
	dropSymbols  bool
	keepEmojis   bool
	replace      bool
	logger       *slog.Logger
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithClassifier replaces the character classifier used to build feature
// matrices.
func WithClassifier(c features.Classifier) Option {
	return func(t *Tokenizer) {
		if c != nil {
			t.classify = c
		}
	}
}

// WithAbstractions sets the feature specs to tag tokens with, in priority
// order.
func WithAbstractions(abs ...Abstraction) Option {
	return func(t *Tokenizer) { t.abstractions = slices.Clone(abs) }
}

// WithLowercase lowercases the text of emitted tokens.
func WithLowercase(on bool) Option {
	return func(t *Tokenizer) { t.lowercase = on }
}

// WithDropSymbols drops tokens made of symbols only.
func WithDropSymbols(on bool) Option {
	return func(t *Tokenizer) { t.dropSymbols = on }
}

// WithKeepEmojis keeps symbol-only tokens carrying an emoji when symbols are
// dropped. It is on by default.
func WithKeepEmojis(on bool) Option {
	return func(t *Tokenizer) { t.keepEmojis = on }
}

// WithReplace controls whether Tokenize substitutes replacements for
// abstract tokens. It is on by default.
func WithReplace(on bool) Option {
	return func(t *Tokenizer) { t.replace = on }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(t *Tokenizer) {
		if l != nil {
			t.logger = l
		}
	}
}

// New returns a Tokenizer driven by g. A nil g uses the simple pipeline.
func New(g *splitmask.Generator, opts ...Option) *Tokenizer {
	t := &Tokenizer{
		Splitter:   *NewSplitter(g),
		keepEmojis: true,
		replace:    true,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Clone returns a copy of t with opts applied.
func (t *Tokenizer) Clone(opts ...Option) *Tokenizer {
	c := *t
	c.abstractions = slices.Clone(t.abstractions)
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}

// Abstractions returns the configured abstractions.
func (t *Tokenizer) Abstractions() []Abstraction { return slices.Clone(t.abstractions) }

// Lowercase reports whether token text is lowercased.
func (t *Tokenizer) Lowercase() bool { return t.lowercase }

// DropSymbols reports whether symbol-only tokens are dropped.
func (t *Tokenizer) DropSymbols() bool { return t.dropSymbols }

// KeepEmojis reports whether emoji tokens survive symbol dropping.
func (t *Tokenizer) KeepEmojis() bool { return t.keepEmojis }

// Replace reports whether Tokenize applies replacements.
func (t *Tokenizer) Replace() bool { return t.replace }

// Overrides adjust a single Tokenize or Featurize call. Unset fields fall
// back to the tokenizer's configuration.
type Overrides struct {
	Lowercase    Optional[bool]
	DropSymbols  Optional[bool]
	KeepEmojis   Optional[bool]
	Replace      Optional[bool]
	Abstractions Optional[[]Abstraction]

	// DisableAbstractions turns off feature tagging, and with it all
	// replacements.
	DisableAbstractions bool
}

// CallOption sets a field of Overrides.
type CallOption func(*Overrides)

// OverrideLowercase overrides the lowercase setting for one call.
func OverrideLowercase(on bool) CallOption {
	return func(o *Overrides) { o.Lowercase = Some(on) }
}

// OverrideDropSymbols overrides symbol dropping for one call.
func OverrideDropSymbols(on bool) CallOption {
	return func(o *Overrides) { o.DropSymbols = Some(on) }
}

// OverrideKeepEmojis overrides emoji keeping for one call.
func OverrideKeepEmojis(on bool) CallOption {
	return func(o *Overrides) { o.KeepEmojis = Some(on) }
}

// OverrideReplace overrides replacement for one call. Featurize only
// replaces token text when this is set to true.
func OverrideReplace(on bool) CallOption {
	return func(o *Overrides) { o.Replace = Some(on) }
}

// OverrideAbstractions uses abs instead of the configured abstractions.
func OverrideAbstractions(abs ...Abstraction) CallOption {
	return func(o *Overrides) { o.Abstractions = Some(slices.Clone(abs)) }
}

// DisableAbstractions turns off feature tagging for one call.
func DisableAbstractions() CallOption {
	return func(o *Overrides) { o.DisableAbstractions = true }
}

// settings are the effective options of one call.
type settings struct {
	abstractions []Abstraction
	lowercase    bool
	dropSymbols  bool
	keepEmojis   bool
	replace      bool
}

// resolve merges the call options over the tokenizer configuration.
// Featurize passes replaceDefault false so tokens keep their source text
// unless replacement is requested explicitly.
func (t *Tokenizer) resolve(replaceDefault bool, opts []CallOption) settings {
	var o Overrides
	for _, opt := range opts {
		opt(&o)
	}
	s := settings{
		abstractions: o.Abstractions.Or(t.abstractions),
		lowercase:    o.Lowercase.Or(t.lowercase),
		dropSymbols:  o.DropSymbols.Or(t.dropSymbols),
		keepEmojis:   o.KeepEmojis.Or(t.keepEmojis),
		replace:      o.Replace.Or(replaceDefault),
	}
	if o.DisableAbstractions {
		s.abstractions = nil
		s.replace = false
	}
	return s
}

// Tokenize yields the token strings of text. Abstract tokens are replaced
// when replacement is on, symbol-only tokens are dropped when requested and
// the rest are lowercased when requested.
func (t *Tokenizer) Tokenize(text string, opts ...CallOption) iter.Seq[string] {
	s := t.resolve(t.replace, opts)
	return func(yield func(string) bool) {
		normalize := func(text string) string { return text }
		if s.lowercase {
			lower := cases.Lower(language.Und)
			normalize = lower.String
		}

		seg := t.segment(text)
		if len(s.abstractions) == 0 && !s.dropSymbols {
			for sp := range seg.spans() {
				if !yield(normalize(seg.text(sp))) {
					return
				}
			}
			return
		}

		for tok := range t.tokens(seg, s.abstractions) {
			var out string
			switch {
			case s.replace && tok.Replacement != nil:
				out = *tok.Replacement
			case s.dropSymbols && tok.SymbolOnly():
				if !s.keepEmojis || !tok.HasEmoji() {
					continue
				}
				out = normalize(tok.Text)
			default:
				out = normalize(tok.Text)
			}
			if !yield(out) {
				return
			}
		}
	}
}

// Featurize yields a Token for each token of text, tagged with the names of
// the matching abstractions. The replacement of the first matching
// abstraction is recorded on the token; its Text is only replaced under
// OverrideReplace(true).
func (t *Tokenizer) Featurize(text string, opts ...CallOption) iter.Seq[*Token] {
	s := t.resolve(false, opts)
	return func(yield func(*Token) bool) {
		for tok := range t.tokens(t.segment(text), s.abstractions) {
			if s.replace && tok.Replacement != nil {
				tok.Text = *tok.Replacement
			}
			if !yield(tok) {
				return
			}
		}
	}
}

// tokens materialises the tokens of seg and matches abs against each.
func (t *Tokenizer) tokens(seg segment, abs []Abstraction) iter.Seq[*Token] {
	return func(yield func(*Token) bool) {
		for sp := range seg.spans() {
			tok := &Token{
				Text:     seg.text(sp),
				Span:     sp,
				Features: seg.matrix.Sum(sp.Start, sp.End),
				matrix:   seg.matrix,
			}
			tagAbstractions(tok, abs)
			if !yield(tok) {
				return
			}
		}
	}
}

// tagAbstractions records every matching abstraction on tok. Only the first
// match decides the replacement.
func tagAbstractions(tok *Token, abs []Abstraction) {
	decided := false
	for _, a := range abs {
		if !a.Spec.Matches(tok) {
			continue
		}
		tok.Abstract = append(tok.Abstract, a.Spec.Name)
		if !decided {
			decided = true
			tok.Replacement = a.Replacement.ptr()
		}
	}
}
