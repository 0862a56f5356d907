// Package types implements the primitive type lattice of spec.md §3: a
// closed set of scalar types plus one pointer variant per pointee, with
// size/alignment/promotion rules and a common-type join used by the
// semantic emitter.
package types

import "fmt"

// Kind enumerates the primitive (non-pointer) base types.
type Kind int

const (
	Void Kind = iota
	I8
	I16
	I32
	I64
	F32
	F64
)

// Type is either a base Kind or a pointer to one. Base == Void with
// Pointer == true models `void*`; Pointer == false, Base == Void models
// `void` itself, which has no pointer-to-void-of-void (spec.md §3).
type Type struct {
	Base    Kind
	Pointer bool
}

func Prim(k Kind) Type       { return Type{Base: k} }
func PtrTo(k Kind) Type      { return Type{Base: k, Pointer: true} }
func (t Type) IsPointer() bool { return t.Pointer }
func (t Type) IsVoid() bool    { return !t.Pointer && t.Base == Void }
func (t Type) IsFloat() bool   { return !t.Pointer && (t.Base == F32 || t.Base == F64) }
func (t Type) IsInt() bool {
	return !t.Pointer && (t.Base == I8 || t.Base == I16 || t.Base == I32 || t.Base == I64)
}
func (t Type) IsNumeric() bool { return t.IsInt() || t.IsFloat() }

var baseNames = map[Kind]string{
	Void: "void", I8: "i8", I16: "i16", I32: "i32", I64: "i64", F32: "f32", F64: "f64",
}

// baseSize holds size(T) in bytes for non-pointer base kinds, per spec.md §3.
var baseSize = map[Kind]int{
	Void: 0, I8: 1, I16: 2, I32: 4, I64: 8, F32: 4, F64: 8,
}

const PointerSize = 8
const PointerAlign = 8

func (t Type) String() string {
	if t.Pointer {
		return baseNames[t.Base] + "*"
	}
	return baseNames[t.Base]
}

// Size returns size(T) as defined in spec.md §3.
func (t Type) Size() int {
	if t.Pointer {
		return PointerSize
	}
	return baseSize[t.Base]
}

// Alignment returns alignment(T): size(T) for non-pointers, 8 for pointers.
func (t Type) Alignment() int {
	if t.Pointer {
		return PointerAlign
	}
	return baseSize[t.Base]
}

// Equal reports whether two types are identical (same base, same pointer-ness).
func (t Type) Equal(o Type) bool { return t.Base == o.Base && t.Pointer == o.Pointer }

// floatRank and intRank express "wider wins" for the common-type join.
var floatRank = map[Kind]int{F32: 0, F64: 1}
var intRank = map[Kind]int{I8: 0, I16: 1, I32: 2, I64: 3}

// Common computes the common type of two numeric types per spec.md §3: if
// either operand is float, the wider float wins; otherwise the wider
// integer wins. Common is commutative and idempotent (testable property 4).
// Common panics if either type is not numeric; callers must only invoke it
// on numeric operands (the emitter checks this before calling).
func Common(a, b Type) Type {
	if !a.IsNumeric() || !b.IsNumeric() {
		panic(fmt.Sprintf("types.Common: non-numeric operand %s or %s", a, b))
	}
	if a.IsFloat() || b.IsFloat() {
		af, aok := floatRank[pickFloat(a)]
		bf, bok := floatRank[pickFloat(b)]
		switch {
		case a.IsFloat() && b.IsFloat():
			if af >= bf {
				return a
			}
			return b
		case a.IsFloat() && !b.IsFloat():
			_ = aok
			return a
		default:
			_ = bok
			return b
		}
	}
	if intRank[a.Base] >= intRank[b.Base] {
		return a
	}
	return b
}

func pickFloat(t Type) Kind {
	if t.IsFloat() {
		return t.Base
	}
	return F64
}

// PointerCompatible reports whether two pointer types are compatible for
// implicit use in one context, and if so which type the usage should
// produce. Pointers are compatible only if identical, with void* compatible
// with any pointer. When exactly one side is void*, the result is the other
// (non-void) side, so PointerCompatible(voidPtr, intPtr) and
// PointerCompatible(intPtr, voidPtr) both succeed and both yield intPtr.
func PointerCompatible(have, want Type) (Type, bool) {
	if !have.Pointer || !want.Pointer {
		return Type{}, false
	}
	if have.Equal(want) {
		return have, true
	}
	if have.Base == Void {
		return want, true
	}
	if want.Base == Void {
		return have, true
	}
	return Type{}, false
}

// DefaultPromote applies the variadic default promotion of spec.md §4.4:
// i8/i16 widen to i32, f32 widens to f64. Every other type is unchanged.
func DefaultPromote(t Type) Type {
	if t.Pointer {
		return t
	}
	switch t.Base {
	case I8, I16:
		return Prim(I32)
	case F32:
		return Prim(F64)
	}
	return t
}
