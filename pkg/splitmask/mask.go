package splitmask

import (
	"fmt"

	"github.com/spicery/latok/pkg/features"
	"go.uber.org/multierr"
)

// Mask evaluates a combo over the matrix and post-processes the result. A
// mask with Links is a chain: each link is evaluated the same way and folded
// into the running result from left to right.
type Mask struct {
	Name  string
	Combo features.Combo
	// Roll cyclically shifts the combo result.
	Roll int
	// Transform runs after Roll.
	Transform Transform
	// Negate inverts the mask's own result before any links are applied.
	Negate bool
	Links  []Link
}

// Link is one step of a mask chain.
type Link struct {
	Combo     features.Combo
	Roll      int
	Transform Transform
	// Op folds the link result into the running result.
	Op Op
	// PriorRoll shifts the running result before combining.
	PriorRoll int
	// LinkRoll shifts the link result before combining.
	LinkRoll int
	// PostRoll and PostTransform run on the combined result.
	PostRoll      int
	PostTransform Transform
}

// NewMask returns a single-combo mask.
func NewMask(name string, rows ...[]features.Feature) Mask {
	return Mask{Name: name, Combo: features.MustCombo(rows...)}
}

// Validate reports configuration problems, naming the mask.
func (m Mask) Validate() error {
	var err error
	if m.Combo.IsZero() {
		err = multierr.Append(err, fmt.Errorf("mask %q: no feature rows", m.Name))
	}
	err = multierr.Append(err, validTransform(m.Name, m.Transform))
	for i, l := range m.Links {
		where := fmt.Sprintf("%s link %d", m.Name, i)
		if l.Combo.IsZero() {
			err = multierr.Append(err, fmt.Errorf("mask %q: no feature rows", where))
		}
		if !l.Op.binary() {
			err = multierr.Append(err, fmt.Errorf("mask %q: %w %q for a link", where, ErrInvalidOp, l.Op))
		}
		err = multierr.Append(err, validTransform(where, l.Transform))
		err = multierr.Append(err, validTransform(where, l.PostTransform))
	}
	return err
}

func validTransform(where string, t Transform) error {
	if _, err := ParseTransform(string(t)); err != nil {
		return fmt.Errorf("mask %q: %w", where, err)
	}
	return nil
}

// Eval computes the mask over m.
func (m Mask) Eval(mat *features.Matrix) features.Vector {
	v := evalCombo(mat, m.Combo, m.Roll, m.Transform)
	if m.Negate {
		v = v.Not()
	}
	for _, l := range m.Links {
		next := evalCombo(mat, l.Combo, l.Roll, l.Transform)
		prior := v
		if l.PriorRoll != 0 {
			prior = prior.Roll(l.PriorRoll)
		}
		if l.LinkRoll != 0 {
			next = next.Roll(l.LinkRoll)
		}
		v = Combine(prior, next, l.Op)
		if l.PostRoll != 0 {
			v = v.Roll(l.PostRoll)
		}
		v = l.PostTransform.Apply(v)
	}
	return v
}

func evalCombo(mat *features.Matrix, c features.Combo, roll int, t Transform) features.Vector {
	v := c.Eval(mat)
	if roll != 0 {
		v = v.Roll(roll)
	}
	return t.Apply(v)
}
