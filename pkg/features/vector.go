package features

import (
	"fmt"
	"math/bits"
	"strings"
)

// Vector is a fixed-length boolean vector over text positions, stored as
// 64-bit words. Bits past Len are always zero.
//
// The binary operators return fresh vectors. Set and Clear write through to
// the underlying words, so a vector obtained from elsewhere should be cloned
// before it is modified.
type Vector struct {
	n     int
	words []uint64
}

// NewVector returns an all-zero vector of length n.
func NewVector(n int) Vector {
	if n < 0 {
		n = 0
	}
	return Vector{n: n, words: make([]uint64, (n+63)>>6)}
}

// Ones returns an all-one vector of length n.
func Ones(n int) Vector {
	v := NewVector(n)
	for i := range v.words {
		v.words[i] = ^uint64(0)
	}
	v.trim()
	return v
}

// VectorOf returns a vector of length n with the given positions set.
func VectorOf(n int, positions ...int) Vector {
	v := NewVector(n)
	for _, p := range positions {
		v.Set(p)
	}
	return v
}

// ParseVector builds a vector from a string of '0' and '1' characters.
// Any other character is ignored.
func ParseVector(s string) Vector {
	s = strings.Map(func(r rune) rune {
		if r == '0' || r == '1' {
			return r
		}
		return -1
	}, s)
	v := NewVector(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '1' {
			v.Set(i)
		}
	}
	return v
}

// trim clears the unused bits of the last word.
func (v Vector) trim() {
	if rem := uint(v.n & 63); rem != 0 {
		v.words[len(v.words)-1] &= (1 << rem) - 1
	}
}

// Len returns the number of positions.
func (v Vector) Len() int { return v.n }

// Get reports whether position i is set. Out-of-range positions read as zero.
func (v Vector) Get(i int) bool {
	if i < 0 || i >= v.n {
		return false
	}
	return v.words[i>>6]&(1<<uint(i&63)) != 0
}

// Set sets position i. Out-of-range positions are ignored.
func (v Vector) Set(i int) {
	if i < 0 || i >= v.n {
		return
	}
	v.words[i>>6] |= 1 << uint(i&63)
}

// Clear clears position i. Out-of-range positions are ignored.
func (v Vector) Clear(i int) {
	if i < 0 || i >= v.n {
		return
	}
	v.words[i>>6] &^= 1 << uint(i&63)
}

// ClearRange clears positions [lo, hi).
func (v Vector) ClearRange(lo, hi int) {
	lo, hi = v.clamp(lo, hi)
	for lo < hi {
		w := lo >> 6
		end := min((w+1)<<6, hi)
		v.words[w] &^= spanMask(uint(lo&63), uint(end-lo))
		lo = end
	}
}

// Clone returns an independent copy.
func (v Vector) Clone() Vector {
	words := make([]uint64, len(v.words))
	copy(words, v.words)
	return Vector{n: v.n, words: words}
}

// Equal reports whether both vectors have the same length and bits.
func (v Vector) Equal(o Vector) bool {
	if v.n != o.n {
		return false
	}
	for i, w := range v.words {
		if o.words[i] != w {
			return false
		}
	}
	return true
}

func (v Vector) binary(o Vector, op func(a, b uint64) uint64) Vector {
	if v.n != o.n {
		panic(fmt.Sprintf("features: vector length mismatch %d != %d", v.n, o.n))
	}
	out := NewVector(v.n)
	for i := range out.words {
		out.words[i] = op(v.words[i], o.words[i])
	}
	out.trim()
	return out
}

// And returns v AND o.
func (v Vector) And(o Vector) Vector {
	return v.binary(o, func(a, b uint64) uint64 { return a & b })
}

// Or returns v OR o.
func (v Vector) Or(o Vector) Vector {
	return v.binary(o, func(a, b uint64) uint64 { return a | b })
}

// Xor returns v XOR o.
func (v Vector) Xor(o Vector) Vector {
	return v.binary(o, func(a, b uint64) uint64 { return a ^ b })
}

// AndNot returns v AND NOT o.
func (v Vector) AndNot(o Vector) Vector {
	return v.binary(o, func(a, b uint64) uint64 { return a &^ b })
}

// Not returns the complement of v.
func (v Vector) Not() Vector {
	out := NewVector(v.n)
	for i, w := range v.words {
		out.words[i] = ^w
	}
	out.trim()
	return out
}

// Roll shifts v cyclically by k positions: bit i moves to (i+k) mod Len.
// Negative k rolls towards lower positions.
func (v Vector) Roll(k int) Vector {
	if v.n == 0 {
		return v.Clone()
	}
	k %= v.n
	if k < 0 {
		k += v.n
	}
	if k == 0 {
		return v.Clone()
	}
	out := NewVector(v.n)
	for i := v.NextSet(0); i >= 0; i = v.NextSet(i + 1) {
		out.Set((i + k) % v.n)
	}
	return out
}

// Count returns the number of set positions.
func (v Vector) Count() int {
	c := 0
	for _, w := range v.words {
		c += bits.OnesCount64(w)
	}
	return c
}

// CountRange returns the number of set positions in [lo, hi).
func (v Vector) CountRange(lo, hi int) int {
	lo, hi = v.clamp(lo, hi)
	c := 0
	for lo < hi {
		w := lo >> 6
		end := min((w+1)<<6, hi)
		c += bits.OnesCount64(v.words[w] & spanMask(uint(lo&63), uint(end-lo)))
		lo = end
	}
	return c
}

// Any reports whether any position is set.
func (v Vector) Any() bool {
	for _, w := range v.words {
		if w != 0 {
			return true
		}
	}
	return false
}

// AnyRange reports whether any position in [lo, hi) is set.
func (v Vector) AnyRange(lo, hi int) bool {
	p := v.NextSet(lo)
	return p >= 0 && p < hi
}

// NextSet returns the first set position at or after i, or -1.
func (v Vector) NextSet(i int) int {
	if i < 0 {
		i = 0
	}
	if i >= v.n {
		return -1
	}
	w := i >> 6
	if word := v.words[w] >> uint(i&63); word != 0 {
		return i + bits.TrailingZeros64(word)
	}
	for w++; w < len(v.words); w++ {
		if v.words[w] != 0 {
			return w<<6 + bits.TrailingZeros64(v.words[w])
		}
	}
	return -1
}

// Positions returns the set positions in increasing order.
func (v Vector) Positions() []int {
	out := make([]int, 0, v.Count())
	for i := v.NextSet(0); i >= 0; i = v.NextSet(i + 1) {
		out = append(out, i)
	}
	return out
}

// String renders the vector as a string of '0' and '1'.
func (v Vector) String() string {
	var sb strings.Builder
	sb.Grow(v.n)
	for i := 0; i < v.n; i++ {
		if v.Get(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// MarshalText renders the vector in the same form as String.
func (v Vector) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v Vector) clamp(lo, hi int) (int, int) {
	return max(lo, 0), min(hi, v.n)
}

// spanMask returns width one-bits starting at bit off (off+width <= 64).
func spanMask(off, width uint) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return ((1 << width) - 1) << off
}
