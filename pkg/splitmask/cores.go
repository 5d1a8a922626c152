package splitmask

import "github.com/spicery/latok/pkg/features"

// Stage names used by the reference pipelines.
const (
	StageSplit   = "split"
	StageSplit1  = "split1"
	StageSplit2  = "split2"
	StageABlocks = "a_blocks"
	StageBlocks1 = "blocks1"
)

// Simple splits at whitespace, at every symbol and after every symbol.
func Simple() *Generator {
	return MustGenerator(
		[]Stage{NewMaskStage(StageSplit, NewMask(StageSplit, []features.Feature{features.Space}, []features.Feature{features.Symbol}, []features.Feature{features.PrevSymbol}))},
		[]Step{{Output: StageSplit}},
	)
}

// GeneralOptions tunes the general pipeline. The zero value disables every
// option; DefaultGeneralOptions enables all of them.
type GeneralOptions struct {
	// KeepEmbeddedApos protects words with an embedded apostrophe.
	KeepEmbeddedApos bool
	// SplitOnBlocks protects e-mail addresses, URLs and numbers.
	SplitOnBlocks bool
	// SplitPostBlocks re-adds splits before trailing symbols and at
	// twitter specials after the block protection.
	SplitPostBlocks bool
}

// DefaultGeneralOptions returns the options used by General.
func DefaultGeneralOptions() GeneralOptions {
	return GeneralOptions{KeepEmbeddedApos: true, SplitOnBlocks: true, SplitPostBlocks: true}
}

// General splits at whitespace, symbols and camel-case humps, keeping
// e-mail addresses, URLs, numbers and apostrophe words intact.
func General() *Generator {
	return BuildGeneral(DefaultGeneralOptions())
}

// BuildGeneral assembles the general pipeline with the given options.
func BuildGeneral(opts GeneralOptions) *Generator {
	return buildBlocked(opts, features.EmailOffsets, features.URLOffsets, features.NumericOffsets)
}

// Tweet is the general pipeline that also keeps @mentions and #hashtags
// intact.
func Tweet() *Generator {
	return buildBlocked(DefaultGeneralOptions(),
		features.TwitterOffsets1A, features.TwitterOffsets1B, features.TwitterOffsets2A, features.TwitterOffsets2B,
		features.EmailOffsets, features.URLOffsets, features.NumericOffsets)
}

// Mention is the general pipeline that keeps @mentions, but not hashtags,
// intact.
func Mention() *Generator {
	return buildBlocked(DefaultGeneralOptions(),
		features.MentionOffsets1A, features.MentionOffsets1B, features.MentionOffsets2A, features.MentionOffsets2B,
		features.EmailOffsets, features.URLOffsets, features.NumericOffsets)
}

func buildBlocked(opts GeneralOptions, blockRows ...[]features.Feature) *Generator {
	split1 := NewMaskStage(StageSplit1, NewMask(StageSplit1,
		[]features.Feature{features.Space},
		[]features.Feature{features.Symbol},
		[]features.Feature{features.PrevSymbol},
		features.CamelCaseOffsets1,
		features.CamelCaseOffsets2,
	))
	split2 := NewMaskStage(StageSplit2, NewMask(StageSplit2,
		[]features.Feature{features.Symbol, features.NextSpace},
		features.TwitterOffsets1A,
		features.TwitterOffsets1B,
		features.TwitterOffsets2A,
		features.TwitterOffsets2B,
	))
	aposEnd := NewMask("apos_end", []features.Feature{features.Space}, []features.Feature{features.Symbol})
	aBlocks := NewBlockStage(StageABlocks, NewMask(StageABlocks, features.EmbeddedAposOffsets), &aposEnd)
	blocks1 := NewBlockStage(StageBlocks1, NewMask(StageBlocks1, blockRows...), nil)

	stages := []Stage{split1}
	var plan []Step
	var blocks string
	switch {
	case opts.KeepEmbeddedApos && opts.SplitOnBlocks:
		stages = append(stages, aBlocks, blocks1)
		plan = append(plan, Step{Output: "blocks", Input: StageABlocks, CombineWith: StageBlocks1, Op: OpAnd})
		blocks = "blocks"
	case opts.KeepEmbeddedApos:
		stages = append(stages, aBlocks)
		blocks = StageABlocks
	case opts.SplitOnBlocks:
		stages = append(stages, blocks1)
		blocks = StageBlocks1
	}

	last := StageSplit1
	if blocks != "" {
		plan = append(plan, Step{Output: "stage1", Input: StageSplit1, CombineWith: blocks, Op: OpAnd})
		last = "stage1"
	}
	if opts.SplitPostBlocks {
		stages = append(stages, split2)
		plan = append(plan, Step{Output: "trim1", Input: last, CombineWith: StageSplit2, Op: OpOr})
	}
	if len(plan) == 0 {
		plan = append(plan, Step{Output: StageSplit1})
	}
	return MustGenerator(stages, plan)
}
