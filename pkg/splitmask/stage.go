package splitmask

import (
	"fmt"

	"github.com/spicery/latok/pkg/features"
	"go.uber.org/multierr"
)

// StageKind selects how a stage turns its masks into a vector.
type StageKind int

const (
	// MaskStage returns its mask result directly.
	MaskStage StageKind = iota
	// BlockStage protects the spans around its trigger positions.
	BlockStage
)

func (k StageKind) String() string {
	switch k {
	case MaskStage:
		return "mask"
	case BlockStage:
		return "block"
	}
	return fmt.Sprintf("StageKind(%d)", int(k))
}

// Stage is a named unit of the split pipeline.
type Stage struct {
	Name string
	Kind StageKind
	// Mask is the split mask of a MaskStage, or the trigger mask of a
	// BlockStage.
	Mask Mask
	// End gives the boundaries of a BlockStage. When nil, whitespace
	// positions are the boundaries.
	End *Mask
}

// NewMaskStage returns a stage producing m directly.
func NewMaskStage(name string, m Mask) Stage {
	return Stage{Name: name, Kind: MaskStage, Mask: m}
}

// NewBlockStage returns a stage protecting the spans around trigger. A nil
// end uses whitespace as the boundaries.
func NewBlockStage(name string, trigger Mask, end *Mask) Stage {
	return Stage{Name: name, Kind: BlockStage, Mask: trigger, End: end}
}

// Validate reports configuration problems, naming the stage.
func (s Stage) Validate() error {
	var err error
	if s.Name == "" {
		err = multierr.Append(err, fmt.Errorf("stage has no name"))
	}
	switch s.Kind {
	case MaskStage:
		if s.End != nil {
			err = multierr.Append(err, fmt.Errorf("stage %q: end mask on a mask stage", s.Name))
		}
	case BlockStage:
		if s.End != nil {
			err = multierr.Append(err, wrapStage(s.Name, s.End.Validate()))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("stage %q: unknown kind %d", s.Name, int(s.Kind)))
	}
	return multierr.Append(err, wrapStage(s.Name, s.Mask.Validate()))
}

func wrapStage(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("stage %q: %w", name, err)
}

// Operate evaluates the stage over m.
func (s Stage) Operate(m *features.Matrix) features.Vector {
	switch s.Kind {
	case BlockStage:
		triggers := s.Mask.Eval(m)
		if s.End == nil {
			return BlockMask(triggers, m.Column(features.Space))
		}
		ends := s.End.Eval(m).AndNot(triggers)
		return BlockMask(triggers, squeeze(ends))
	default:
		return s.Mask.Eval(m)
	}
}
