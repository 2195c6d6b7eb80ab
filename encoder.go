package tlv

/*
encoder.go implements Encoder, a thin façade over Wire that exposes
the append-only primitives TLV encoding actually needs: a small
wrapper type holding one underlying buffer/offset pair.
*/

import "golang.org/x/exp/constraints"

// Encoder appends TLV primitives to an internal Wire, growing it as
// needed.
type Encoder struct {
	wire *Wire
}

// NewEncoder returns an Encoder whose Wire starts with firstReserve
// bytes of capacity (or DefaultExpandSize, if firstReserve is
// non-positive).
func NewEncoder(firstReserve int) *Encoder {
	return &Encoder{wire: NewWireCapacity(firstReserve)}
}

// Wire returns the Encoder's underlying Wire.
func (e *Encoder) Wire() *Wire { return e.wire }

func (e *Encoder) AppendByte(v byte) (int, error) {
	if err := e.wire.WriteUint8(v); err != nil {
		return 0, err
	}
	return 1, nil
}

func (e *Encoder) AppendByteArray(p []byte) (int, error) {
	if err := e.wire.AppendArray(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// AppendVarNumber dispatches on the four VarNumber ranges, writing a
// one-byte value directly, or a prefix byte followed by a 2/4/8-byte
// big-endian value.
func (e *Encoder) AppendVarNumber(v uint64) (int, error) {
	switch {
	case v <= varNumOneByteMax:
		if err := e.wire.WriteUint8(byte(v)); err != nil {
			return 0, err
		}
		return 1, nil
	case v <= 0xFFFF:
		if err := e.wire.WriteUint8(varNum3BytePrefix); err != nil {
			return 0, err
		}
		if err := e.wire.WriteUint16(uint16(v)); err != nil {
			return 1, err
		}
		return 3, nil
	case v <= 0xFFFFFFFF:
		if err := e.wire.WriteUint8(varNum5BytePrefix); err != nil {
			return 0, err
		}
		if err := e.wire.WriteUint32(uint32(v)); err != nil {
			return 1, err
		}
		return 5, nil
	default:
		if err := e.wire.WriteUint8(varNum9BytePrefix); err != nil {
			return 0, err
		}
		if err := e.wire.WriteUint64(v); err != nil {
			return 1, err
		}
		return 9, nil
	}
}

// AppendNonNegInteger is the same four-way dispatch as AppendVarNumber
// but the 1-byte case writes only the byte: there is never a prefix,
// since a NonNegativeInteger's width is implied by context rather than
// self-describing.
func (e *Encoder) AppendNonNegInteger(v uint64) (int, error) {
	switch SizeOfNonNegativeInteger(v) {
	case 1:
		return e.AppendByte(byte(v))
	case 2:
		if err := e.wire.WriteUint16(uint16(v)); err != nil {
			return 0, err
		}
		return 2, nil
	case 4:
		if err := e.wire.WriteUint32(uint32(v)); err != nil {
			return 0, err
		}
		return 4, nil
	default:
		if err := e.wire.WriteUint64(v); err != nil {
			return 0, err
		}
		return 8, nil
	}
}

// AppendUnsigned appends v as a NonNegativeInteger for any unsigned
// integer type, so a caller holding a uint8/uint16/uint32 field need
// not widen it to uint64 by hand before calling AppendNonNegInteger.
// It reserves v's encoded width up front, so when the current segment
// is the last one and has fewer bytes left than that width, the write
// goes to a fresh segment instead of straddling a segment boundary.
func AppendUnsigned[T constraints.Unsigned](e *Encoder, v T) (int, error) {
	e.wire.Reserve(sizeOfUnsigned(v))
	return e.AppendNonNegInteger(uint64(v))
}

// AppendByteArrayBlock writes a full type-length-value element whose
// value is a plain byte array.
func (e *Encoder) AppendByteArrayBlock(typ uint32, value []byte) (int, error) {
	n1, err := e.AppendVarNumber(uint64(typ))
	if err != nil {
		return n1, err
	}
	n2, err := e.AppendVarNumber(uint64(len(value)))
	if err != nil {
		return n1 + n2, err
	}
	n3, err := e.AppendByteArray(value)
	return n1 + n2 + n3, err
}

// AppendBlock writes an already-built Block's wire image.
func (e *Encoder) AppendBlock(b Block) (int, error) {
	before := e.wire.Position()
	if err := e.wire.AppendBlock(b); err != nil {
		return 0, err
	}
	return e.wire.Position() - before, nil
}
