package tokenizer

import (
	"encoding/json"
	"slices"

	"github.com/spicery/latok/pkg/features"
)

// Span is the half-open character range [Start, End) of a token in the
// source text. Offsets count code points, not bytes.
type Span struct {
	Start int
	End   int
}

// MarshalJSON implements custom JSON marshaling for Span.
func (s Span) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{s.Start, s.End})
}

// UnmarshalJSON implements custom JSON unmarshaling for Span.
func (s *Span) UnmarshalJSON(data []byte) error {
	var arr [2]int
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	s.Start, s.End = arr[0], arr[1]
	return nil
}

// Len returns the number of characters in the span.
func (s Span) Len() int { return s.End - s.Start }

// Token is a featurized token.
type Token struct {
	Text string `json:"text"`
	Span Span   `json:"span"`

	// Features counts, per feature, the characters of the span carrying it.
	Features features.Counts `json:"-"`

	// Abstract lists the names of the matching feature specs, in priority
	// order.
	Abstract []string `json:"abstract,omitempty"`

	// Replacement is the text substituted for the token, if any.
	Replacement *string `json:"replacement,omitempty"`

	matrix *features.Matrix
}

// MarshalJSON adds the nonzero feature counts, keyed by feature name.
func (t *Token) MarshalJSON() ([]byte, error) {
	type plain Token
	return json.Marshal(struct {
		*plain
		Counts map[string]int `json:"features,omitempty"`
	}{(*plain)(t), t.Features.Map()})
}

// Size returns the number of characters in the token.
func (t *Token) Size() int { return t.Span.Len() }

// Matrix returns the feature matrix of the whole source text.
func (t *Token) Matrix() *features.Matrix { return t.matrix }

// HasAbstract reports whether the named feature spec matched the token.
func (t *Token) HasAbstract(name string) bool {
	return slices.Contains(t.Abstract, name)
}

// SymbolOnly reports whether every character of the token is a symbol.
func (t *Token) SymbolOnly() bool {
	return t.Size() > 0 && t.Features[features.Symbol] == t.Size()
}

// HasEmoji reports whether any character carries an emoji feature.
func (t *Token) HasEmoji() bool {
	return t.Features.Any(features.EmojiFeatures...)
}

// Output returns the replacement if there is one, otherwise the text.
func (t *Token) Output() string {
	if t.Replacement != nil {
		return *t.Replacement
	}
	return t.Text
}
