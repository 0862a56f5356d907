package emit

import (
	"fmt"
	"math"

	"dltc/src/types"
)

// llvmType renders a types.Type as its LLVM textual form. void* has no
// direct LLVM counterpart; i8* is the conventional stand-in.
func llvmType(t types.Type) string {
	if t.Pointer {
		base := t.Base
		if base == types.Void {
			return "i8*"
		}
		return llvmBase(base) + "*"
	}
	if t.Base == types.Void {
		return "void"
	}
	return llvmBase(t.Base)
}

func llvmBase(k types.Kind) string {
	switch k {
	case types.I8:
		return "i8"
	case types.I16:
		return "i16"
	case types.I32:
		return "i32"
	case types.I64:
		return "i64"
	case types.F32:
		return "float"
	case types.F64:
		return "double"
	default:
		return "void"
	}
}

// hexFloat renders value as LLVM's canonical hex float literal: the IEEE-754
// bit pattern of the value widened to double, printed as 16 hex digits
// prefixed with "0x" (spec.md §4.4). A `float`-typed constant still widens
// to double first, matching LLVM's own textual contract; the round trip
// back through float32 recovers the original value exactly.
func hexFloat(value float64) string {
	bits := math.Float64bits(value)
	return fmt.Sprintf("0x%016X", bits)
}

// convert emits whatever instruction (if any) is needed to turn a value of
// type from into type to, per spec.md §4.4's type-conversion table, and
// returns the IR name of the converted value. Identity conversions emit
// nothing and return val unchanged.
func (fe *funcEmitter) convert(val string, from, to types.Type) string {
	if from.Equal(to) {
		return val
	}

	switch {
	case from.IsInt() && to.IsInt():
		if from.Size() < to.Size() {
			return fe.instr("sext %s %s to %s", llvmType(from), val, llvmType(to))
		}
		return fe.instr("trunc %s %s to %s", llvmType(from), val, llvmType(to))

	case from.IsFloat() && to.IsFloat():
		if from.Size() < to.Size() {
			return fe.instr("fpext %s %s to %s", llvmType(from), val, llvmType(to))
		}
		return fe.instr("fptrunc %s %s to %s", llvmType(from), val, llvmType(to))

	case from.IsInt() && to.IsFloat():
		return fe.instr("sitofp %s %s to %s", llvmType(from), val, llvmType(to))

	case from.IsFloat() && to.IsInt():
		return fe.instr("fptosi %s %s to %s", llvmType(from), val, llvmType(to))

	case from.Pointer && to.Pointer:
		return fe.instr("bitcast %s %s to %s", llvmType(from), val, llvmType(to))

	case from.IsInt() && to.Pointer:
		i64 := types.Prim(types.I64)
		widened := val
		if !from.Equal(i64) {
			widened = fe.convert(val, from, i64)
		}
		return fe.instr("inttoptr i64 %s to %s", widened, llvmType(to))

	case from.Pointer && to.IsInt():
		i64 := types.Prim(types.I64)
		asInt := fe.instr("ptrtoint %s %s to i64", llvmType(from), val)
		if to.Equal(i64) {
			return asInt
		}
		return fe.convert(asInt, i64, to)

	default:
		return val
	}
}
