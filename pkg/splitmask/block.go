package splitmask

import "github.com/spicery/latok/pkg/features"

// BlockMask protects the spans that contain a trigger. The boundaries split
// the text into runs of non-boundary positions; every run holding at least
// one trigger is zeroed and all other positions, boundaries included, stay
// one. A run reaching the end of the text without a closing boundary is
// protected to the end. With no triggers the result is all ones.
func BlockMask(triggers, boundaries features.Vector) features.Vector {
	n := triggers.Len()
	out := features.Ones(n)
	if !triggers.Any() {
		return out
	}
	for start := 0; start < n; {
		b := boundaries.NextSet(start)
		stop := b
		if b < 0 {
			stop = n
		}
		if stop > start && triggers.AnyRange(start, stop) {
			out.ClearRange(start, stop)
		}
		if b < 0 {
			break
		}
		start = b + 1
	}
	return out
}

// squeeze extends each boundary run one position forward so that the first
// character after a run is a boundary too. Only positions 2 through n-2 can
// be added.
func squeeze(boundaries features.Vector) features.Vector {
	n := boundaries.Len()
	out := boundaries.Clone()
	for p := boundaries.NextSet(0); p >= 0; p = boundaries.NextSet(p + 1) {
		q := p + 1
		if q >= 2 && q <= n-2 && !boundaries.Get(q) {
			out.Set(q)
		}
	}
	return out
}
