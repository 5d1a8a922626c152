package tokenizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spicery/latok/pkg/splitmask"
)

// ErrUnknownPreset is returned for a preset name that is not defined.
var ErrUnknownPreset = errors.New("unknown preset")

// Preset names.
const (
	PresetSimple  = "simple"
	PresetGeneral = "general"
	PresetTweet   = "tweet"
	PresetMention = "mention"
	PresetDefault = "default"
)

type preset struct {
	generator func() *splitmask.Generator
	options   func() []Option
}

var presets = map[string]preset{
	PresetSimple:  {generator: splitmask.Simple},
	PresetGeneral: {generator: splitmask.General},
	PresetTweet: {generator: splitmask.Tweet, options: func() []Option {
		return []Option{WithAbstractions(TweetAbstractions()...), WithDropSymbols(true)}
	}},
	PresetMention: {generator: splitmask.Mention, options: func() []Option {
		return []Option{WithAbstractions(TweetAbstractions()...), WithDropSymbols(true)}
	}},
	PresetDefault: {generator: splitmask.Tweet, options: func() []Option {
		return []Option{WithAbstractions(DefaultAbstractions()...)}
	}},
}

// PresetNames lists the preset names.
func PresetNames() []string {
	return []string{PresetSimple, PresetGeneral, PresetTweet, PresetMention, PresetDefault}
}

func lookupPreset(name string) (preset, error) {
	p, ok := presets[strings.ToLower(name)]
	if !ok {
		return preset{}, fmt.Errorf("%w %q (want one of %s)", ErrUnknownPreset, name, strings.Join(PresetNames(), ", "))
	}
	return p, nil
}

// PresetGenerator returns the split mask generator of the named preset.
func PresetGenerator(name string) (*splitmask.Generator, error) {
	p, err := lookupPreset(name)
	if err != nil {
		return nil, err
	}
	return p.generator(), nil
}

// NewPreset returns the named preset tokenizer. opts are applied after the
// preset's own options.
func NewPreset(name string, opts ...Option) (*Tokenizer, error) {
	p, err := lookupPreset(name)
	if err != nil {
		return nil, err
	}
	var all []Option
	if p.options != nil {
		all = p.options()
	}
	return New(p.generator(), append(all, opts...)...), nil
}

// NewDefaultTokenizer returns the default tokenizer: the tweet pipeline with
// the default abstractions, keeping symbols and case.
func NewDefaultTokenizer(opts ...Option) *Tokenizer {
	t, err := NewPreset(PresetDefault, opts...)
	if err != nil {
		panic(fmt.Sprintf("Invalid default preset: %v", err))
	}
	return t
}
