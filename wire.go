package tlv

/*
wire.go implements Wire, a segmented growable buffer with a write
cursor. Each segment wraps its own *Buffer; the chain itself is an
ordered slice (segments []*segment) rather than the source model's
singly-linked raw-pointer chain, which is how this package resolves
the dangling-reference hazard called out against that design: there is
no node a caller can hold past the point the Wire drops it, because
nothing outside this file ever sees a *segment.

The segment-chain-with-node-offsets shape (head/tail nodes, a default
block size) maps directly onto Wire's segments/position/current
fields. Segments are allocated directly, not taken from a pool.
*/

import (
	"encoding/binary"
	"net"
)

type segment struct {
	buf    *Buffer
	offset int // absolute byte offset of this segment's start within the Wire
}

func (s *segment) size() int     { return len(s.buf.b) }
func (s *segment) capacity() int { return cap(s.buf.b) }

func newSegment(capacity int) *segment {
	if capacity <= 0 {
		capacity = DefaultExpandSize
	}
	return &segment{buf: newBufferOwned(make([]byte, 0, capacity))}
}

// Wire is a segmented, growable byte buffer with a single write/read
// cursor (position). It is not safe for concurrent use from more than
// one goroutine without external synchronization.
type Wire struct {
	segments []*segment
	current  int
	position int

	typ     uint32
	hasType bool

	subWires []Wire
	iovec    net.Buffers
}

// NewWire returns an empty Wire with no segments allocated yet.
func NewWire() *Wire { return &Wire{} }

// NewWireCapacity returns a Wire with one segment pre-allocated to
// the given capacity.
func NewWireCapacity(capacity int) *Wire {
	return &Wire{segments: []*segment{newSegment(capacity)}, current: 0}
}

// NewWireFromBlock adopts an already-encoded Block as the Wire's
// initial (and only) segment, sharing its storage with the Block.
func NewWireFromBlock(b Block) (*Wire, error) {
	wire, err := b.Wire()
	if err != nil {
		return nil, err
	}
	trimmed := wire[:len(wire):len(wire)]
	seg := &segment{buf: newBufferOwned(trimmed)}
	return &Wire{segments: []*segment{seg}, current: 0, position: len(trimmed)}, nil
}

func (w *Wire) Position() int { return w.position }

func (w *Wire) Capacity() int {
	total := 0
	for _, s := range w.segments {
		total += s.capacity()
	}
	return total
}

func (w *Wire) Size() int {
	total := 0
	for _, s := range w.segments {
		total += s.size()
	}
	return total
}

func (w *Wire) HasWire() bool { return len(w.segments) > 0 }

func (w *Wire) CountSegments() int { return len(w.segments) }

// Type reports the TLV type this Wire represents, when it was
// produced as one element of a Parse() result.
func (w *Wire) Type() (uint32, bool) { return w.typ, w.hasType }

// findPosition returns the index of the segment containing absolute
// byte p and p's offset within that segment. It scans from the start
// of the chain, matching the source model's documented complexity
// even though the underlying slice would allow random access.
func (w *Wire) findPosition(p int) (idx, local int, err error) {
	base := 0
	for i, s := range w.segments {
		sz := s.size()
		if p <= base+sz {
			return i, p - base, nil
		}
		base += sz
	}
	return 0, 0, errOutOfRange
}

// SetPosition moves the cursor to an arbitrary byte offset within the
// Wire's current size.
func (w *Wire) SetPosition(p int) error {
	if p < 0 || p > w.Size() {
		return errOutOfRange
	}
	idx, _, err := w.findPosition(p)
	if err != nil {
		return err
	}
	w.position = p
	w.current = idx
	return nil
}

func (w *Wire) remainingInCurrent() int {
	s := w.segments[w.current]
	return s.offset + s.capacity() - w.position
}

// Expand allocates a new tail segment of the given size (or
// DefaultExpandSize, if alloc is non-positive), trims the prior
// tail's capacity down to its current size, and makes the new
// segment current.
func (w *Wire) Expand(alloc int) {
	if alloc <= 0 {
		alloc = DefaultExpandSize
	}
	trace(EventGrow, "Expand", alloc)

	if n := len(w.segments); n > 0 {
		last := w.segments[n-1]
		last.buf.b = last.buf.b[:len(last.buf.b):len(last.buf.b)]
	}
	ns := newSegment(alloc)
	if n := len(w.segments); n > 0 {
		last := w.segments[n-1]
		ns.offset = last.offset + last.size()
	}
	w.segments = append(w.segments, ns)
	w.current = len(w.segments) - 1
}

func (w *Wire) expandIfNeeded() {
	if len(w.segments) == 0 {
		w.Expand(DefaultExpandSize)
		return
	}
	cur := w.segments[w.current]
	if w.position == cur.offset+cur.capacity() {
		if w.current+1 < len(w.segments) {
			w.current++
		} else {
			w.Expand(DefaultExpandSize)
		}
	}
}

func (w *Wire) syncCurrent() {
	for w.current+1 < len(w.segments) &&
		w.position >= w.segments[w.current].offset+w.segments[w.current].capacity() {
		w.current++
	}
}

// Reserve prepares the cursor for a write of n bytes. It allocates a
// new segment only when the current one has fewer than n bytes left,
// fewer than ReserveHeadroom bytes left, and no next segment already
// exists; otherwise it only moves past a current segment that is
// full. A current segment with ReserveHeadroom or more bytes left is
// kept even when that is fewer than n.
func (w *Wire) Reserve(n int) {
	if len(w.segments) == 0 {
		w.segments = []*segment{newSegment(max(n, DefaultExpandSize))}
		w.current = 0
		return
	}
	remaining := w.remainingInCurrent()
	hasNext := w.current+1 < len(w.segments)
	if remaining < n && remaining < ReserveHeadroom && !hasNext {
		w.Expand(max(n, DefaultExpandSize))
	} else {
		w.expandIfNeeded()
	}
	w.syncCurrent()
}

func (w *Wire) writeBytes(p []byte) error {
	remain := len(p)
	off := 0
	for remain > 0 {
		w.Reserve(remain)
		cur := w.segments[w.current]
		room := cur.offset + cur.capacity() - w.position
		n := min(room, remain)
		localStart := w.position - cur.offset
		needLen := localStart + n
		if needLen > len(cur.buf.b) {
			cur.buf.b = cur.buf.b[:needLen]
		}
		copy(cur.buf.b[localStart:localStart+n], p[off:off+n])
		w.position += n
		off += n
		remain -= n
		w.syncCurrent()
	}
	return nil
}

func (w *Wire) WriteUint8(v uint8) error { return w.writeBytes([]byte{v}) }

func (w *Wire) WriteUint16(v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return w.writeBytes(b[:])
}

func (w *Wire) WriteUint32(v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return w.writeBytes(b[:])
}

func (w *Wire) WriteUint64(v uint64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return w.writeBytes(b[:])
}

// AppendArray writes p verbatim at the cursor.
func (w *Wire) AppendArray(p []byte) error { return w.writeBytes(p) }

// AppendBlock encodes b if necessary, finalizes the Wire at its
// current cursor (dropping anything past it), and links b's own wire
// image in as a new tail segment without copying its bytes.
func (w *Wire) AppendBlock(b Block) error {
	if err := b.Encode(); err != nil {
		return err
	}
	wire, err := b.Wire()
	if err != nil {
		return err
	}
	if err := w.Finalize(); err != nil {
		return err
	}
	trimmed := wire[:len(wire):len(wire)]
	seg := &segment{buf: newBufferOwned(trimmed), offset: w.position}
	w.segments = append(w.segments, seg)
	w.current = len(w.segments) - 1
	w.position += len(trimmed)
	return nil
}

// Finalize truncates the Wire at the cursor: the segment containing
// position has its size cut back to position's offset within it, and
// every segment after it is dropped.
func (w *Wire) Finalize() error {
	if len(w.segments) == 0 {
		return nil
	}
	idx, local, err := w.findPosition(w.position)
	if err != nil {
		return err
	}
	cur := w.segments[idx]
	cur.buf.b = cur.buf.b[:local:local]
	w.segments = w.segments[:idx+1]
	w.current = idx
	trace(EventFinalize, "Finalize", w.position)
	return nil
}

// ReadUint8 reads a single byte at an absolute position without
// moving the cursor.
func (w *Wire) ReadUint8(position int) (byte, error) {
	idx, local, err := w.findPosition(position)
	if err != nil {
		return 0, err
	}
	seg := w.segments[idx]
	if local >= seg.size() {
		return 0, errOutOfRange
	}
	return seg.buf.b[local], nil
}

// GetBuffer linearizes the whole Wire into a single contiguous Buffer.
func (w *Wire) GetBuffer() *Buffer {
	total := w.Size()
	out := make([]byte, 0, total)
	for _, s := range w.segments {
		out = append(out, s.buf.b...)
	}
	return newBufferOwned(out)
}

// SetIovec builds a scatter/gather view of the Wire's segments using
// net.Buffers, so the caller can hand it to net.Buffers.WriteTo
// without an intermediate copy.
func (w *Wire) SetIovec() {
	iov := make(net.Buffers, 0, len(w.segments))
	for _, s := range w.segments {
		iov = append(iov, s.buf.b)
	}
	w.iovec = iov
}

func (w *Wire) HasIovec() bool { return w.iovec != nil }

func (w *Wire) GetIovec() net.Buffers { return w.iovec }

// GetBufferFromIovec linearizes a previously built iovec, failing
// EmptyIovec if SetIovec was never called.
func (w *Wire) GetBufferFromIovec() (*Buffer, error) {
	if !w.HasIovec() {
		return nil, errEmptyIovec
	}
	total := 0
	for _, b := range w.iovec {
		total += len(b)
	}
	out := make([]byte, 0, total)
	for _, b := range w.iovec {
		out = append(out, b...)
	}
	return newBufferOwned(out), nil
}

type wireCursor struct {
	w   *Wire
	pos int
}

func (c *wireCursor) peekByte() (byte, bool) {
	if c.pos >= c.w.Size() {
		return 0, false
	}
	idx, local, err := c.w.findPosition(c.pos)
	if err != nil {
		return 0, false
	}
	return c.w.segments[idx].buf.b[local], true
}

func (c *wireCursor) advance() { c.pos++ }

func (c *wireCursor) distanceToEnd() int { return c.w.Size() - c.pos }

// Parse splits the Wire's full byte range into a sequence of
// sub-Wires, one per top-level TLV element, each correctly spanning a
// segment boundary when an element straddles one.
func (w *Wire) Parse() error {
	if w.subWires != nil {
		return nil
	}
	trace(EventParse, "Wire.Parse")
	total := w.Size()
	cur := &wireCursor{w: w}
	var subs []Wire
	for cur.pos < total {
		start := cur.pos
		typ, err := readType(cur)
		if err != nil {
			return wrapSyntax("Wire.Parse", start, TypeNone, err)
		}
		length, err := readVarNumber(cur)
		if err != nil {
			return wrapSyntax("Wire.Parse", start, typ, err)
		}
		valBegin := cur.pos
		valEnd := valBegin + int(length)
		if valEnd > total {
			return wrapSyntax("Wire.Parse", start, typ, errLengthExceeds)
		}
		sub, err := w.sliceWire(start, valEnd)
		if err != nil {
			return err
		}
		sub.typ, sub.hasType = typ, true
		subs = append(subs, sub)
		cur.pos = valEnd
	}
	w.subWires = subs
	return nil
}

// sliceWire builds a new Wire spanning [begin,end) of w, sharing
// storage with w's own segments rather than copying.
func (w *Wire) sliceWire(begin, end int) (Wire, error) {
	beginIdx, beginLocal, err := w.findPosition(begin)
	if err != nil {
		return Wire{}, err
	}
	endIdx, endLocal, err := w.findPosition(end)
	if err != nil {
		if end == w.Size() && len(w.segments) > 0 {
			endIdx = len(w.segments) - 1
			endLocal = w.segments[endIdx].size()
		} else {
			return Wire{}, err
		}
	}

	var segs []*segment
	if beginIdx == endIdx {
		s := w.segments[beginIdx]
		segs = append(segs, &segment{buf: newBufferOwned(s.buf.b[beginLocal:endLocal])})
	} else {
		first := w.segments[beginIdx]
		segs = append(segs, &segment{buf: newBufferOwned(first.buf.b[beginLocal:])})
		for i := beginIdx + 1; i < endIdx; i++ {
			mid := w.segments[i]
			segs = append(segs, &segment{buf: newBufferOwned(mid.buf.b[:])})
		}
		last := w.segments[endIdx]
		segs = append(segs, &segment{buf: newBufferOwned(last.buf.b[:endLocal])})
	}

	off := 0
	for _, sg := range segs {
		sg.offset = off
		off += sg.size()
	}
	return Wire{segments: segs, current: len(segs) - 1, position: off}, nil
}

// Elements returns the Wire's top-level parsed sub-Wires.
func (w *Wire) Elements() ([]Wire, error) {
	if err := w.Parse(); err != nil {
		return nil, err
	}
	return w.subWires, nil
}

// Find returns the first sub-Wire of the given type.
func (w *Wire) Find(typ uint32) (Wire, bool) {
	subs, err := w.Elements()
	if err != nil {
		return Wire{}, false
	}
	for _, s := range subs {
		if s.hasType && s.typ == typ {
			return s, true
		}
	}
	return Wire{}, false
}

// Get is like Find but returns NotFound instead of a bare ok=false.
func (w *Wire) Get(typ uint32) (Wire, error) {
	s, ok := w.Find(typ)
	if !ok {
		return Wire{}, errNotFound
	}
	return s, nil
}

// Copy exists only to mirror the source API's explicit reference
// bump: a Wire is already a reference type under ordinary Go pointer
// semantics, with its segments and their Buffers shared by any number
// of holders, so there is nothing for Copy to actually do.
func (w *Wire) Copy() *Wire { return w }
