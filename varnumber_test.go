package tlv

import "testing"

func TestSizeOfVarNumber(t *testing.T) {
	tests := []struct {
		name string
		v    uint64
		want int
	}{
		{"zero", 0, 1},
		{"one byte max", 252, 1},
		{"three byte min", 253, 3},
		{"three byte max", 65535, 3},
		{"five byte min", 65536, 5},
		{"five byte max", 0xFFFFFFFF, 5},
		{"nine byte min", 0x100000000, 9},
		{"nine byte max", 0xFFFFFFFFFFFFFFFF, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SizeOfVarNumber(tt.v); got != tt.want {
				t.Errorf("SizeOfVarNumber(%d) = %d, want %d", tt.v, got, tt.want)
			}
		})
	}
}

func TestVarNumberRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 252, 253, 254, 255, 65535, 65536, 0xFFFFFFFF, 0x100000000, 0xFFFFFFFFFFFFFFFF}
	for _, v := range values {
		enc := appendVarNumber(nil, v)
		if len(enc) != SizeOfVarNumber(v) {
			t.Fatalf("appendVarNumber(%d) produced %d bytes, want %d", v, len(enc), SizeOfVarNumber(v))
		}
		cur := &sliceCursor{b: enc, i: 0, end: len(enc)}
		got, err := readVarNumber(cur)
		if err != nil {
			t.Fatalf("readVarNumber(%d) returned error %v", v, err)
		}
		if got != v {
			t.Errorf("round-trip VarNumber(%d) = %d", v, got)
		}
		if cur.i != len(enc) {
			t.Errorf("VarNumber(%d) left %d unread bytes", v, len(enc)-cur.i)
		}
	}
}

func TestReadVarNumberTruncated(t *testing.T) {
	cur := &sliceCursor{b: []byte{253, 0x01}, i: 0, end: 2}
	if _, err := readVarNumber(cur); err != errTruncated {
		t.Errorf("expected errTruncated, got %v", err)
	}
}

func TestSizeOfNonNegativeInteger(t *testing.T) {
	tests := []struct {
		v    uint64
		want int
	}{
		{0, 1}, {255, 1}, {256, 2}, {65535, 2}, {65536, 4},
		{0xFFFFFFFF, 4}, {0x100000000, 8},
	}
	for _, tt := range tests {
		if got := SizeOfNonNegativeInteger(tt.v); got != tt.want {
			t.Errorf("SizeOfNonNegativeInteger(%d) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestAppendNonNegativeIntegerNoPrefix(t *testing.T) {
	enc := appendNonNegativeInteger(nil, 1)
	if len(enc) != 1 || enc[0] != 1 {
		t.Errorf("appendNonNegativeInteger(1) = %v, want [1]", enc)
	}
}

func TestTryReadVarNumber(t *testing.T) {
	cur := &sliceCursor{b: []byte{253, 0x00}, i: 0, end: 2}
	if _, ok := tryReadVarNumber(cur); ok {
		t.Errorf("expected tryReadVarNumber to fail on truncated input")
	}
}
