// Package splitmask turns a feature matrix into a split mask: a vector with
// a one at every position where a token starts.
package splitmask

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spicery/latok/pkg/features"
)

// ErrInvalidOp is returned for an unrecognised combine operator or transform.
var ErrInvalidOp = errors.New("invalid operator")

// Op combines two vectors. The "-not" forms negate the second operand. Not
// is only meaningful as a mask's own flag, where it negates the mask result.
type Op string

const (
	OpNone   Op = ""
	OpAnd    Op = "and"
	OpOr     Op = "or"
	OpXor    Op = "xor"
	OpAndNot Op = "and-not"
	OpOrNot  Op = "or-not"
	OpXorNot Op = "xor-not"
	OpNot    Op = "not"
)

// ParseOp resolves an operator name. Underscores are accepted for dashes.
func ParseOp(s string) (Op, error) {
	op := Op(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	switch op {
	case OpNone, OpAnd, OpOr, OpXor, OpAndNot, OpOrNot, OpXorNot, OpNot:
		return op, nil
	}
	return OpNone, fmt.Errorf("%w %q", ErrInvalidOp, s)
}

// binary reports whether op combines two vectors.
func (op Op) binary() bool {
	switch op {
	case OpAnd, OpOr, OpXor, OpAndNot, OpOrNot, OpXorNot:
		return true
	}
	return false
}

// Combine applies a binary operator to a and b. A non-binary op returns a.
func Combine(a, b features.Vector, op Op) features.Vector {
	switch op {
	case OpAnd:
		return a.And(b)
	case OpOr:
		return a.Or(b)
	case OpXor:
		return a.Xor(b)
	case OpAndNot:
		return a.AndNot(b)
	case OpOrNot:
		return a.Or(b.Not())
	case OpXorNot:
		return a.Xor(b.Not())
	}
	return a
}

// Transform is a named unary vector operation.
type Transform string

const (
	TransformNone Transform = ""
	// TransformNot negates the vector.
	TransformNot Transform = "not"
	// TransformRunStart keeps only the first position of each run of ones.
	TransformRunStart Transform = "run-start"
	// TransformRunEnd keeps only the last position of each run of ones.
	TransformRunEnd Transform = "run-end"
)

// ParseTransform resolves a transform name.
func ParseTransform(s string) (Transform, error) {
	t := Transform(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-"))
	switch t {
	case TransformNone, TransformNot, TransformRunStart, TransformRunEnd:
		return t, nil
	}
	return TransformNone, fmt.Errorf("%w: transform %q", ErrInvalidOp, s)
}

// Apply runs the transform on v.
func (t Transform) Apply(v features.Vector) features.Vector {
	switch t {
	case TransformNot:
		return v.Not()
	case TransformRunStart:
		out := features.NewVector(v.Len())
		for i := v.NextSet(0); i >= 0; i = v.NextSet(i + 1) {
			if !v.Get(i - 1) {
				out.Set(i)
			}
		}
		return out
	case TransformRunEnd:
		out := features.NewVector(v.Len())
		for i := v.NextSet(0); i >= 0; i = v.NextSet(i + 1) {
			if !v.Get(i + 1) {
				out.Set(i)
			}
		}
		return out
	}
	return v
}
