// Package features classifies characters and builds the per-position
// feature matrix that split masks and feature specs are evaluated against.
package features

import (
	"errors"
	"fmt"
	"strings"
)

// Feature identifies one column of the feature matrix.
type Feature int

const (
	// Intrinsic features, computed from a single character.
	Alpha Feature = iota
	AlphaNumeric
	Numeric
	Lower
	Upper
	Space
	Symbol
	TwitterSpecial // '@' or '#'
	At
	Hash
	Colon
	Slash
	Period
	Apostrophe // ASCII apostrophe or right single quotation mark
	Emoji
	EmojiPresentation
	EmojiModifierBase
	EmojiComponent
	ExtendedPictographic

	// Contextual features, copied from a neighbouring character.
	PrevAlpha
	NextAlpha
	PrevAlphaNumeric
	NextAlphaNumeric
	PrevLower
	NextLower
	PrevSpace
	NextSpace
	PrevSymbol
	NextAt
	NextSlash
	AfterNextAlpha
	AfterNextSlash

	// Count is the number of features (matrix columns).
	Count
)

// ErrUnknownFeature is returned when a feature name cannot be resolved.
var ErrUnknownFeature = errors.New("unknown feature")

var featureNames = [Count]string{
	Alpha:                "alpha",
	AlphaNumeric:         "alpha_num",
	Numeric:              "num",
	Lower:                "lower",
	Upper:                "upper",
	Space:                "space",
	Symbol:               "symbol",
	TwitterSpecial:       "twitter",
	At:                   "at",
	Hash:                 "hash",
	Colon:                "colon",
	Slash:                "slash",
	Period:               "period",
	Apostrophe:           "apos",
	Emoji:                "emoji",
	EmojiPresentation:    "emoji_presentation",
	EmojiModifierBase:    "emoji_modifier_base",
	EmojiComponent:       "emoji_component",
	ExtendedPictographic: "extended_pictographic",
	PrevAlpha:            "prev_alpha",
	NextAlpha:            "next_alpha",
	PrevAlphaNumeric:     "prev_alpha_num",
	NextAlphaNumeric:     "next_alpha_num",
	PrevLower:            "prev_lower",
	NextLower:            "next_lower",
	PrevSpace:            "prev_space",
	NextSpace:            "next_space",
	PrevSymbol:           "prev_symbol",
	NextAt:               "next_at",
	NextSlash:            "next_slash",
	AfterNextAlpha:       "after_next_alpha",
	AfterNextSlash:       "after_next_slash",
}

var featuresByName = func() map[string]Feature {
	m := make(map[string]Feature, Count)
	for f, name := range featureNames {
		m[name] = Feature(f)
	}
	return m
}()

// String returns the canonical name of the feature.
func (f Feature) String() string {
	if f < 0 || f >= Count {
		return fmt.Sprintf("Feature(%d)", int(f))
	}
	return featureNames[f]
}

// Valid reports whether f names a matrix column.
func (f Feature) Valid() bool {
	return f >= 0 && f < Count
}

// Intrinsic reports whether f is computed from the character itself.
func (f Feature) Intrinsic() bool {
	return f >= Alpha && f <= ExtendedPictographic
}

// Parse resolves a feature name. Matching ignores case, and dashes are
// accepted in place of underscores.
func Parse(name string) (Feature, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	if f, ok := featuresByName[key]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownFeature, name)
}

// Names returns the canonical names of all features in column order.
func Names() []string {
	out := make([]string, Count)
	copy(out, featureNames[:])
	return out
}

// EmojiFeatures lists the emoji-related intrinsic features.
var EmojiFeatures = []Feature{Emoji, EmojiPresentation, EmojiModifierBase, EmojiComponent, ExtendedPictographic}

// Set is a set of features, typically the features of one matrix row.
type Set uint64

// SetOf returns the set containing fs.
func SetOf(fs ...Feature) Set {
	var s Set
	for _, f := range fs {
		s |= 1 << uint(f)
	}
	return s
}

// Has reports whether f is in the set.
func (s Set) Has(f Feature) bool {
	return s&(1<<uint(f)) != 0
}

// With returns the set extended by f.
func (s Set) With(f Feature) Set {
	return s | 1<<uint(f)
}

// Contains reports whether every feature of o is in s.
func (s Set) Contains(o Set) bool {
	return s&o == o
}

// Features lists the members of the set in column order.
func (s Set) Features() []Feature {
	var out []Feature
	for f := Feature(0); f < Count; f++ {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}
