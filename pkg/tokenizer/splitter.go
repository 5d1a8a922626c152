package tokenizer

import (
	"iter"

	"github.com/spicery/latok/pkg/features"
	"github.com/spicery/latok/pkg/splitmask"
)

// Splitter carves text into trimmed token strings using a split mask
// generator. It has none of the tokenizer's normalisation or feature
// matching.
type Splitter struct {
	gen      *splitmask.Generator
	classify features.Classifier
}

// NewSplitter returns a Splitter driven by g. A nil g uses the simple
// pipeline.
func NewSplitter(g *splitmask.Generator) *Splitter {
	if g == nil {
		g = splitmask.Simple()
	}
	return &Splitter{gen: g, classify: features.Classify}
}

// Generator returns the split mask generator.
func (s *Splitter) Generator() *splitmask.Generator { return s.gen }

// Mask builds the feature matrix of text and its split vector.
func (s *Splitter) Mask(text string) (*features.Matrix, features.Vector) {
	m := features.Build([]rune(text), s.classify)
	return m, s.gen.Process(m)
}

// Split yields the non-empty tokens of text from left to right.
func (s *Splitter) Split(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		seg := s.segment(text)
		for sp := range seg.spans() {
			if !yield(seg.text(sp)) {
				return
			}
		}
	}
}

// segment is the per-call state of one text: its characters, feature matrix
// and split vector.
type segment struct {
	runes  []rune
	matrix *features.Matrix
	splits features.Vector
}

func (s *Splitter) segment(text string) segment {
	runes := []rune(text)
	m := features.Build(runes, s.classify)
	return segment{runes: runes, matrix: m, splits: s.gen.Process(m)}
}

func (seg segment) text(sp Span) string {
	return string(seg.runes[sp.Start:sp.End])
}

// spans yields the token spans between consecutive split positions with
// surrounding whitespace trimmed. All-whitespace spans are skipped.
func (seg segment) spans() iter.Seq[Span] {
	return func(yield func(Span) bool) {
		n := len(seg.runes)
		start := seg.splits.NextSet(0)
		for start >= 0 && start < n {
			end := seg.splits.NextSet(start + 1)
			if end < 0 {
				end = n
			}
			if sp, ok := seg.trim(start, end); ok && !yield(sp) {
				return
			}
			start = end
		}
	}
}

func (seg segment) trim(start, end int) (Span, bool) {
	for start < end && seg.matrix.Has(start, features.Space) {
		start++
	}
	for end > start && seg.matrix.Has(end-1, features.Space) {
		end--
	}
	return Span{Start: start, End: end}, start < end
}
