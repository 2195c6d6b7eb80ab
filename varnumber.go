package tlv

/*
varnumber.go implements the NDN VarNumber and NonNegativeInteger wire
codecs: read a prefix byte, branch on its value, assemble a big-endian
integer from the following octets. The generic size helper below uses
golang.org/x/exp/constraints so callers holding any sized unsigned
integer type can ask for its encoded width without widening to uint64
by hand first.
*/

import "golang.org/x/exp/constraints"

const (
	varNumOneByteMax  = 252
	varNum3BytePrefix = 253
	varNum5BytePrefix = 254
	varNum9BytePrefix = 255
)

// SizeOfVarNumber reports how many bytes v would occupy when encoded
// as a VarNumber.
func SizeOfVarNumber(v uint64) int {
	switch {
	case v <= varNumOneByteMax:
		return 1
	case v <= 0xFFFF:
		return 3
	case v <= 0xFFFFFFFF:
		return 5
	default:
		return 9
	}
}

// SizeOfNonNegativeInteger reports the minimal big-endian width (1, 2,
// 4, or 8 bytes) needed to represent v.
func SizeOfNonNegativeInteger(v uint64) int {
	switch {
	case v <= 0xFF:
		return 1
	case v <= 0xFFFF:
		return 2
	case v <= 0xFFFFFFFF:
		return 4
	default:
		return 8
	}
}

// sizeOfUnsigned is a thin generic wrapper over SizeOfNonNegativeInteger
// for any unsigned integer constraint, so callers working with a
// concrete sized type need not round-trip through uint64 by hand.
func sizeOfUnsigned[T constraints.Unsigned](v T) int {
	return SizeOfNonNegativeInteger(uint64(v))
}

// varNumberAt reads one VarNumber from cur without distinguishing a
// truncation failure from end-of-input; both report ok=false. This is
// the shared engine behind both the throwing and non-throwing reader
// variants below.
func varNumberAt(cur byteCursor) (value uint64, ok bool) {
	b, has := cur.peekByte()
	if !has {
		return 0, false
	}
	cur.advance()

	var n int
	switch {
	case b < varNum3BytePrefix:
		return uint64(b), true
	case b == varNum3BytePrefix:
		n = 2
	case b == varNum5BytePrefix:
		n = 4
	default:
		n = 8
	}

	if cur.distanceToEnd() < n {
		return 0, false
	}
	var v uint64
	for i := 0; i < n; i++ {
		bb, has := cur.peekByte()
		if !has {
			return 0, false
		}
		cur.advance()
		v = v<<8 | uint64(bb)
	}
	return v, true
}

func readVarNumber(cur byteCursor) (uint64, error) {
	v, ok := varNumberAt(cur)
	if !ok {
		return 0, errTruncated
	}
	return v, nil
}

func tryReadVarNumber(cur byteCursor) (uint64, bool) { return varNumberAt(cur) }

func readType(cur byteCursor) (uint32, error) {
	v, err := readVarNumber(cur)
	if err != nil {
		return 0, err
	}
	if v > 0xFFFFFFFF {
		return 0, errTypeTooLarge
	}
	return uint32(v), nil
}

func tryReadType(cur byteCursor) (uint32, bool) {
	v, ok := varNumberAt(cur)
	if !ok || v > 0xFFFFFFFF {
		return 0, false
	}
	return uint32(v), true
}

func appendBigEndian(dst []byte, v uint64, n int) []byte {
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>(uint(i)*8)))
	}
	return dst
}

// appendVarNumber appends v's VarNumber encoding to dst and returns
// the grown slice.
func appendVarNumber(dst []byte, v uint64) []byte {
	switch {
	case v <= varNumOneByteMax:
		return append(dst, byte(v))
	case v <= 0xFFFF:
		return appendBigEndian(append(dst, varNum3BytePrefix), v, 2)
	case v <= 0xFFFFFFFF:
		return appendBigEndian(append(dst, varNum5BytePrefix), v, 4)
	default:
		return appendBigEndian(append(dst, varNum9BytePrefix), v, 8)
	}
}

// appendNonNegativeInteger appends v's minimal-width big-endian
// encoding to dst. Unlike VarNumber, there is never a prefix byte:
// width is implied by context, not self-describing.
func appendNonNegativeInteger(dst []byte, v uint64) []byte {
	return appendBigEndian(dst, v, SizeOfNonNegativeInteger(v))
}
