// Package densevec encodes dense vectors of unknown size with constant-time
// access to each component. Unlike a slice, the maximum dimension does not
// need to be known in advance: storage grows as indices are touched.
package densevec

import (
	"fmt"
	"strings"
)

const defaultCapacity = 10

// Vector is the read side shared by every float vector variant.
type Vector interface {
	// Get returns the k-th component.
	Get(k int) float64
	// DefinesIndex reports whether component i was ever written.
	DefinesIndex(i int) bool
	String() string
}

// UnitVector has value 1.0 at every component and stores nothing.
type UnitVector struct{}

// Get always returns 1.0
func (UnitVector) Get(k int) float64 { return 1.0 }

func (UnitVector) DefinesIndex(i int) bool { return true }

func (UnitVector) String() string { return "1.0..." }

// FloatVector is a vector in which arbitrary floats can be stored.
type FloatVector struct {
	val      []float64
	maxIndex int     // largest index actually written
	dflt     float64 // value of components never written
}

// NewFloatVector creates an empty vector with room for sizeHint components.
func NewFloatVector(sizeHint int) *FloatVector {
	return NewFloatVectorWithDefault(sizeHint, 0)
}

// NewFloatVectorWithDefault creates an empty vector whose unwritten
// components read as dflt.
func NewFloatVectorWithDefault(sizeHint int, dflt float64) *FloatVector {
	if sizeHint <= 0 {
		sizeHint = defaultCapacity
	}
	v := &FloatVector{
		val:      make([]float64, sizeHint),
		maxIndex: -1,
		dflt:     dflt,
	}
	if dflt != 0 {
		fill(v.val, dflt)
	}
	return v
}

// Size is the length of the smallest slice that could hold the written
// components: one past the highest index ever written.
func (v *FloatVector) Size() int {
	return v.maxIndex + 1
}

// Cap reports the current backing capacity.
func (v *FloatVector) Cap() int {
	return len(v.val)
}

// Clear sets every written component to zero. Capacity is unchanged.
func (v *FloatVector) Clear() {
	clear(v.val[:v.maxIndex+1])
}

func (v *FloatVector) DefinesIndex(i int) bool {
	return i <= v.maxIndex
}

// Get returns V[k], growing storage if k is past the current capacity.
func (v *FloatVector) Get(k int) float64 {
	v.growIfNeededTo(k)
	return v.val[k]
}

// Inc adds delta to V[k].
func (v *FloatVector) Inc(k int, delta float64) {
	v.growIfNeededTo(k)
	v.val[k] += delta
	v.maxIndex = max(v.maxIndex, k)
}

// Set stores x in V[k].
func (v *FloatVector) Set(k int, x float64) {
	v.growIfNeededTo(k)
	v.val[k] = x
	v.maxIndex = max(v.maxIndex, k)
}

func (v *FloatVector) growIfNeededTo(k int) {
	if k < 0 {
		panic(fmt.Sprintf("densevec: negative index %d", k))
	}
	if len(v.val) > k {
		return
	}
	n := max(2*len(v.val), k+1)
	tmp := make([]float64, n)
	copy(tmp, v.val[:v.maxIndex+1])
	fill(tmp[v.maxIndex+1:], v.dflt)
	v.val = tmp
}

func (v *FloatVector) String() string {
	var sb strings.Builder
	for i := 0; i <= v.maxIndex; i++ {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%g", v.val[i])
	}
	return sb.String()
}

func fill(s []float64, x float64) {
	for i := range s {
		s[i] = x
	}
}

// ObjVector is a vector of arbitrary values. Slots never written read as
// the zero value of T; Lookup tells them apart from written ones.
type ObjVector[T any] struct {
	val      []T
	set      []bool
	maxIndex int
}

// NewObjVector creates an empty object vector.
func NewObjVector[T any]() *ObjVector[T] {
	return &ObjVector[T]{
		val:      make([]T, defaultCapacity),
		set:      make([]bool, defaultCapacity),
		maxIndex: -1,
	}
}

// Size is one past the highest index ever written.
func (v *ObjVector[T]) Size() int {
	return v.maxIndex + 1
}

func (v *ObjVector[T]) DefinesIndex(i int) bool {
	return i <= v.maxIndex
}

// Get returns V[k], or the zero value when V[k] is unset.
func (v *ObjVector[T]) Get(k int) T {
	x, _ := v.Lookup(k)
	return x
}

// Lookup returns V[k] and whether it was ever stored.
func (v *ObjVector[T]) Lookup(k int) (T, bool) {
	v.growIfNeededTo(k)
	return v.val[k], v.set[k]
}

// Set stores x in V[k].
func (v *ObjVector[T]) Set(k int, x T) {
	v.growIfNeededTo(k)
	v.val[k] = x
	v.set[k] = true
	v.maxIndex = max(v.maxIndex, k)
}

func (v *ObjVector[T]) growIfNeededTo(k int) {
	if k < 0 {
		panic(fmt.Sprintf("densevec: negative index %d", k))
	}
	if len(v.val) > k {
		return
	}
	n := max(2*len(v.val), k+1)
	val := make([]T, n)
	set := make([]bool, n)
	copy(val, v.val[:v.maxIndex+1])
	copy(set, v.set[:v.maxIndex+1])
	v.val, v.set = val, set
}
