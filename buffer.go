package tlv

/*
buffer.go implements Buffer, the immutable byte-array root that Block
and Wire segments share. Go's garbage collector stands in for the
source model's manual reference counting: any number of Blocks may
hold a *Buffer, and the array they point at is only reclaimed once the
last such pointer goes away. The one place mutation is still allowed
is Wire's own tail-segment growth in wire.go, which operates on the
backing array directly because it alone, by construction, holds the
only reference to that particular Buffer at the time.
*/

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
)

// Buffer is a shared, read-only view of a byte array.
type Buffer struct {
	b []byte
}

// NewBuffer copies p into a new Buffer.
func NewBuffer(p []byte) *Buffer {
	cp := make([]byte, len(p))
	copy(cp, p)
	return &Buffer{b: cp}
}

// newBufferOwned wraps p without copying. Callers must not retain any
// other mutable reference to p's backing array.
func newBufferOwned(p []byte) *Buffer { return &Buffer{b: p} }

func (buf *Buffer) Len() int {
	if buf == nil {
		return 0
	}
	return len(buf.b)
}

// Bytes returns the buffer's contents. The returned slice must be
// treated as read-only by the caller.
func (buf *Buffer) Bytes() []byte {
	if buf == nil {
		return nil
	}
	return buf.b
}

// Fingerprint returns a non-cryptographic hash of the whole buffer.
// Block.Equal uses the same hash over an element's byte range
// (fingerprintRange) as a cheap pre-check before a byte comparison.
func (buf *Buffer) Fingerprint() uint64 {
	if buf == nil {
		return 0
	}
	return xxhash.Sum64(buf.b)
}

func (buf *Buffer) fingerprintRange(begin, end int) uint64 {
	return xxhash.Sum64(buf.b[begin:end])
}

func (buf *Buffer) rangeEqual(begin, end int, other *Buffer, obegin, oend int) bool {
	return bytes.Equal(buf.b[begin:end], other.b[obegin:oend])
}
