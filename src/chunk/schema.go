// Package chunk implements the typed, tiled primitive buffer at the heart of
// the engine: six concrete chunk variants, the packing/scaling codecs that
// sit on top of them, and the visitor-based accessor/modifier/flagger/
// copier/caster vocabulary used to read and write them uniformly.
package chunk

import "fmt"

// Dtype identifies one of the six primitive storage widths a chunk can hold,
// and doubles as the "external type" a chunk advertises once packing,
// scaling or unsigned-widening has been applied.
type Dtype uint8

const (
	DtypeInvalid Dtype = iota
	DtypeByte
	DtypeShort
	DtypeInt
	DtypeLong
	DtypeFloat
	DtypeDouble
	dtypeMax
)

func (dt Dtype) String() string {
	switch dt {
	case DtypeByte:
		return "byte"
	case DtypeShort:
		return "short"
	case DtypeInt:
		return "int"
	case DtypeLong:
		return "long"
	case DtypeFloat:
		return "float"
	case DtypeDouble:
		return "double"
	default:
		return "invalid"
	}
}

// ValueBytes returns the width, in bytes, of one raw element of this dtype.
func (dt Dtype) ValueBytes() int {
	switch dt {
	case DtypeByte:
		return 1
	case DtypeShort:
		return 2
	case DtypeInt, DtypeFloat:
		return 4
	case DtypeLong, DtypeDouble:
		return 8
	default:
		panic(fmt.Sprintf("no byte width for dtype %v", dt))
	}
}

// isFloat reports whether dt is one of the two floating point storage types.
func (dt Dtype) isFloat() bool {
	return dt == DtypeFloat || dt == DtypeDouble
}

// isInteger reports whether dt is one of the four integer storage types.
func (dt Dtype) isInteger() bool {
	return dt == DtypeByte || dt == DtypeShort || dt == DtypeInt || dt == DtypeLong
}

// widenedUnsigned returns the external type an unsigned chunk of dt widens
// to, per spec: unsigned byte -> short, unsigned short -> int, unsigned int
// -> long. Unsigned long is an explicit non-goal and is treated as signed
// (widenedUnsigned is never called for DtypeLong).
func (dt Dtype) widenedUnsigned() Dtype {
	switch dt {
	case DtypeByte:
		return DtypeShort
	case DtypeShort:
		return DtypeInt
	case DtypeInt:
		return DtypeLong
	default:
		panic(fmt.Sprintf("dtype %v has no unsigned widening", dt))
	}
}
