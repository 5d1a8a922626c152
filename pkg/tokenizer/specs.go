package tokenizer

import (
	"fmt"
	"slices"
	"sort"

	"github.com/spicery/latok/pkg/features"
)

// MustFeatureSpec is like NewFeatureSpec but panics on error. It is used for
// the package-level reference specs.
func MustFeatureSpec(name string, char, rng []OffsetSpec, regexes, notRegexes []string) FeatureSpec {
	s, err := NewFeatureSpec(name, char, rng, regexes, notRegexes)
	if err != nil {
		panic(fmt.Sprintf("invalid feature spec: %v", err))
	}
	return s
}

func charSpec(name string, rows ...[]features.Feature) FeatureSpec {
	char := make([]OffsetSpec, len(rows))
	for i, row := range rows {
		char[i] = Present(row)
	}
	return MustFeatureSpec(name, char, nil, nil, nil)
}

// Reference feature specs.
var (
	TwitterFeature = charSpec("twitter",
		features.TwitterOffsets1A, features.TwitterOffsets1B, features.TwitterOffsets2A, features.TwitterOffsets2B)
	MentionFeature = charSpec("mention",
		features.MentionOffsets1A, features.MentionOffsets1B, features.MentionOffsets2A, features.MentionOffsets2B)
	HashtagFeature = charSpec("hashtag", features.HashtagOffsets1A, features.HashtagOffsets1B)
	EmojiFeature   = charSpec("emoji",
		[]features.Feature{features.Emoji},
		[]features.Feature{features.EmojiPresentation},
		[]features.Feature{features.EmojiModifierBase},
		[]features.Feature{features.EmojiComponent},
		[]features.Feature{features.ExtendedPictographic})
	EmailFeature     = charSpec("email", features.EmailOffsets)
	URLFeature       = charSpec("url", features.URLOffsets)
	NumericFeature   = charSpec("numeric", features.NumericOffsets)
	CamelCaseFeature = charSpec("camelcase", features.CamelCaseOffsets2)
	AposFeature      = charSpec("apos", features.EmbeddedAposOffsets)

	// SymbolsFeature matches tokens with a symbol and no letter or digit.
	SymbolsFeature = MustFeatureSpec("symbols", nil, []OffsetSpec{{
		Present: features.MustCombo(features.SymbolOffsets),
		Absent:  features.MustCombo([]features.Feature{features.Alpha}, []features.Feature{features.Numeric}),
	}}, nil, nil)
)

var referenceSpecs = map[string]FeatureSpec{}

func init() {
	for _, s := range []FeatureSpec{
		TwitterFeature, MentionFeature, HashtagFeature, EmojiFeature, EmailFeature,
		URLFeature, NumericFeature, CamelCaseFeature, AposFeature, SymbolsFeature,
	} {
		referenceSpecs[s.Name] = s
	}
}

// ReferenceSpec returns the reference feature spec with the given name.
func ReferenceSpec(name string) (FeatureSpec, bool) {
	s, ok := referenceSpecs[name]
	return s, ok
}

// ReferenceSpecNames lists the reference feature specs in name order.
func ReferenceSpecNames() []string {
	names := make([]string, 0, len(referenceSpecs))
	for name := range referenceSpecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultAbstractions are the abstractions of the default tokenizer.
func DefaultAbstractions() []Abstraction {
	return []Abstraction{
		Abstract(TwitterFeature),
		Replace(EmailFeature, "_EMAIL"),
		Replace(URLFeature, "_URL"),
		Abstract(CamelCaseFeature),
		Replace(NumericFeature, "_NUM"),
		Abstract(AposFeature),
		Replace(SymbolsFeature, "_SYM"),
	}
}

// TweetAbstractions replace mentions, hashtags, e-mail addresses, URLs and
// numbers with placeholders.
func TweetAbstractions() []Abstraction {
	return []Abstraction{
		Replace(MentionFeature, "_MENTION"),
		Replace(HashtagFeature, "_HASHTAG"),
		Replace(EmailFeature, "_EMAIL"),
		Replace(URLFeature, "_URL"),
		Replace(NumericFeature, "_NUM"),
	}
}

// AbstractionNames returns the spec names of abs, in priority order.
func AbstractionNames(abs []Abstraction) []string {
	names := make([]string, len(abs))
	for i, a := range abs {
		names[i] = a.Spec.Name
	}
	return names
}

// FilterAbstractions keeps the abstractions whose spec is named in names,
// preserving their order.
func FilterAbstractions(abs []Abstraction, names []string) []Abstraction {
	var out []Abstraction
	for _, a := range abs {
		if slices.Contains(names, a.Spec.Name) {
			out = append(out, a)
		}
	}
	return out
}
