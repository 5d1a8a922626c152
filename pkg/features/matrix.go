package features

// contextual describes a feature copied from the character at a relative
// offset (-1 previous, +1 next, +2 after next).
type contextual struct {
	feature Feature
	source  Feature
	offset  int
}

var contextuals = []contextual{
	{PrevAlpha, Alpha, -1},
	{NextAlpha, Alpha, 1},
	{PrevAlphaNumeric, AlphaNumeric, -1},
	{NextAlphaNumeric, AlphaNumeric, 1},
	{PrevLower, Lower, -1},
	{NextLower, Lower, 1},
	{PrevSpace, Space, -1},
	{NextSpace, Space, 1},
	{PrevSymbol, Symbol, -1},
	{NextAt, At, 1},
	{NextSlash, Slash, 1},
	{AfterNextAlpha, Alpha, 2},
	{AfterNextSlash, Slash, 2},
}

// boundary is the feature set of the virtual character beyond either end of
// the text.
var boundary = SetOf(Space)

// Matrix holds one bit vector per feature over the positions of a text.
type Matrix struct {
	n    int
	cols [Count]Vector
}

// Build computes the feature matrix of text in a single pass, using classify
// for the intrinsic features (Classify when nil).
func Build(text []rune, classify Classifier) *Matrix {
	if classify == nil {
		classify = Classify
	}
	n := len(text)
	m := &Matrix{n: n}
	for f := range m.cols {
		m.cols[f] = NewVector(n)
	}

	prev := boundary
	for i, r := range text {
		cur := classify(r)
		for f := Alpha; f <= ExtendedPictographic; f++ {
			if cur.Has(f) {
				m.cols[f].Set(i)
			}
		}
		for _, c := range contextuals {
			switch c.offset {
			case -1:
				if prev.Has(c.source) {
					m.cols[c.feature].Set(i)
				}
			default:
				if cur.Has(c.source) {
					m.cols[c.feature].Set(i - c.offset)
				}
			}
		}
		prev = cur
	}

	// Positions whose forward neighbour lies past the end see the boundary.
	for _, c := range contextuals {
		if c.offset <= 0 || !boundary.Has(c.source) {
			continue
		}
		for i := max(n-c.offset, 0); i < n; i++ {
			m.cols[c.feature].Set(i)
		}
	}
	return m
}

// BuildString builds the matrix of s with the default classifier.
func BuildString(s string) *Matrix {
	return Build([]rune(s), Classify)
}

// Len returns the number of positions (characters).
func (m *Matrix) Len() int { return m.n }

// Column returns a copy of the column for f.
func (m *Matrix) Column(f Feature) Vector {
	return m.cols[f].Clone()
}

// Has reports whether feature f is set at position i.
func (m *Matrix) Has(i int, f Feature) bool {
	return m.cols[f].Get(i)
}

// Row returns the features set at position i.
func (m *Matrix) Row(i int) Set {
	var s Set
	for f := range m.cols {
		if m.cols[f].Get(i) {
			s = s.With(Feature(f))
		}
	}
	return s
}

// Counts holds one count per feature.
type Counts [Count]int

// Sum counts, per feature, the positions in [start, end) where it is set.
func (m *Matrix) Sum(start, end int) Counts {
	var c Counts
	for f := range m.cols {
		c[f] = m.cols[f].CountRange(start, end)
	}
	return c
}

// Any reports whether any of fs has a nonzero count.
func (c Counts) Any(fs ...Feature) bool {
	for _, f := range fs {
		if c[f] > 0 {
			return true
		}
	}
	return false
}

// Map returns the nonzero counts keyed by feature name.
func (c Counts) Map() map[string]int {
	out := make(map[string]int)
	for f, n := range c {
		if n != 0 {
			out[Feature(f).String()] = n
		}
	}
	return out
}
