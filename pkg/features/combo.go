package features

import (
	"fmt"
	"slices"
)

// Combo is an OR of AND-rows over features: it fires at a position when
// every feature of at least one row is set there. The zero Combo has no rows
// and never fires; IsZero distinguishes it from a configured combo.
type Combo struct {
	rows []Set
}

// NewCombo builds a combo from rows of features. Duplicate features within a
// row are collapsed. Every row must be non-empty.
func NewCombo(rows ...[]Feature) (Combo, error) {
	if len(rows) == 0 {
		return Combo{}, fmt.Errorf("combo has no rows")
	}
	c := Combo{rows: make([]Set, 0, len(rows))}
	for i, row := range rows {
		if len(row) == 0 {
			return Combo{}, fmt.Errorf("combo row %d is empty", i)
		}
		var s Set
		for _, f := range row {
			if !f.Valid() {
				return Combo{}, fmt.Errorf("combo row %d: %w %d", i, ErrUnknownFeature, int(f))
			}
			s = s.With(f)
		}
		c.rows = append(c.rows, s)
	}
	return c, nil
}

// MustCombo is like NewCombo but panics on error. It is meant for
// package-level definitions.
func MustCombo(rows ...[]Feature) Combo {
	c, err := NewCombo(rows...)
	if err != nil {
		panic("features: " + err.Error())
	}
	return c
}

// ParseCombo builds a combo from rows of feature names.
func ParseCombo(rows [][]string) (Combo, error) {
	parsed := make([][]Feature, 0, len(rows))
	for _, row := range rows {
		fs := make([]Feature, 0, len(row))
		for _, name := range row {
			f, err := Parse(name)
			if err != nil {
				return Combo{}, err
			}
			fs = append(fs, f)
		}
		parsed = append(parsed, fs)
	}
	return NewCombo(parsed...)
}

// IsZero reports whether the combo has no rows.
func (c Combo) IsZero() bool { return len(c.rows) == 0 }

// Rows returns the feature rows in column order.
func (c Combo) Rows() [][]Feature {
	out := make([][]Feature, len(c.rows))
	for i, s := range c.rows {
		out[i] = s.Features()
	}
	return out
}

// Names returns the rows as feature names.
func (c Combo) Names() [][]string {
	out := make([][]string, len(c.rows))
	for i, s := range c.rows {
		for _, f := range s.Features() {
			out[i] = append(out[i], f.String())
		}
	}
	return out
}

// Or returns a combo firing where either c or o fires.
func (c Combo) Or(o Combo) Combo {
	return Combo{rows: slices.Concat(c.rows, o.rows)}
}

// EvalAt reports whether the combo fires at position i.
func (c Combo) EvalAt(m *Matrix, i int) bool {
	row := m.Row(i)
	for _, s := range c.rows {
		if row.Contains(s) {
			return true
		}
	}
	return false
}

// Eval evaluates the combo at every position of m.
func (c Combo) Eval(m *Matrix) Vector {
	out := NewVector(m.n)
	acc := NewVector(m.n)
	for _, s := range c.rows {
		first := true
		for f := Feature(0); f < Count; f++ {
			if !s.Has(f) {
				continue
			}
			col := m.cols[f].words
			if first {
				copy(acc.words, col)
				first = false
				continue
			}
			for w := range acc.words {
				acc.words[w] &= col[w]
			}
		}
		for w := range out.words {
			out.words[w] |= acc.words[w]
		}
	}
	return out
}

// String renders the combo as "a+b|c".
func (c Combo) String() string {
	s := ""
	for i, row := range c.Names() {
		if i > 0 {
			s += "|"
		}
		for j, name := range row {
			if j > 0 {
				s += "+"
			}
			s += name
		}
	}
	return s
}
