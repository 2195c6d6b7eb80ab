package tlv

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEncoderAppendVarNumberDispatch(t *testing.T) {
	tests := []struct {
		name string
		v    uint64
		want []byte
	}{
		{"one byte", 252, []byte{252}},
		{"three byte", 300, []byte{253, 0x01, 0x2C}},
		{"five byte", 0x10000, []byte{254, 0x00, 0x01, 0x00, 0x00}},
		{"nine byte", 0x100000000, []byte{255, 0, 0, 0, 1, 0, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEncoder(0)
			n, err := e.AppendVarNumber(tt.v)
			if err != nil {
				t.Fatalf("AppendVarNumber: %v", err)
			}
			if n != len(tt.want) {
				t.Errorf("n = %d, want %d", n, len(tt.want))
			}
			got := e.Wire().GetBuffer().Bytes()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncoderAppendNonNegIntegerNeverHasPrefix(t *testing.T) {
	tests := []struct {
		v    uint64
		want []byte
	}{
		{1, []byte{1}},
		{256, []byte{0x01, 0x00}},
		{70000, []byte{0x00, 0x01, 0x11, 0x70}},
		{1 << 40, []byte{0, 0, 1, 0, 0, 0, 0, 0}},
	}
	for _, tt := range tests {
		e := NewEncoder(0)
		if _, err := e.AppendNonNegInteger(tt.v); err != nil {
			t.Fatalf("AppendNonNegInteger(%d): %v", tt.v, err)
		}
		got := e.Wire().GetBuffer().Bytes()
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("AppendNonNegInteger(%d) mismatch (-want +got):\n%s", tt.v, diff)
		}
	}
}

// TestEncoderAppendByteArrayBlockMatchesBlockEncoding reproduces the
// one-byte VarNumber case (type=0x05, value 0xAA 0xBB) through the
// Encoder rather than Block.
func TestEncoderAppendByteArrayBlockMatchesBlockEncoding(t *testing.T) {
	e := NewEncoder(0)
	n, err := e.AppendByteArrayBlock(0x05, []byte{0xAA, 0xBB})
	if err != nil {
		t.Fatalf("AppendByteArrayBlock: %v", err)
	}
	if n != 4 {
		t.Errorf("n = %d, want 4", n)
	}
	want := []byte{0x05, 0x02, 0xAA, 0xBB}
	got := e.Wire().GetBuffer().Bytes()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestEncoderAppendBlockRoundTrip(t *testing.T) {
	b := NewValueBlock(0x09, []byte{1, 2, 3})
	if err := b.Encode(); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	e := NewEncoder(0)
	n, err := e.AppendBlock(b)
	if err != nil {
		t.Fatalf("AppendBlock: %v", err)
	}
	wire, err := b.Wire()
	if err != nil {
		t.Fatalf("Wire: %v", err)
	}
	if n != len(wire) {
		t.Errorf("n = %d, want %d", n, len(wire))
	}
	if diff := cmp.Diff(wire, e.Wire().GetBuffer().Bytes()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestAppendUnsignedGenericWidths(t *testing.T) {
	e := NewEncoder(0)
	if _, err := AppendUnsigned(e, uint16(300)); err != nil {
		t.Fatalf("AppendUnsigned: %v", err)
	}
	want := []byte{0x01, 0x2C}
	if diff := cmp.Diff(want, e.Wire().GetBuffer().Bytes()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
