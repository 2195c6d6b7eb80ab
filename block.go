package tlv

/*
block.go implements Block, the parsed TLV view. Its constructor set
and state machine (Empty -> Typed -> Valued -> Wired) follow a packet
interface with an offset-tracked buffer and lazy, memoized
sub-element parsing; the sub-element walk in Parse pairs a type read
with a length read the same way, generalized to the VarNumber codec in
varnumber.go.

Parse's memoization cell (parseState) is the "interior mutability,
single-writer memoization cell" the design notes ask for: once any
handle to a particular Block has parsed its children, every copy of
that handle observes the same sub-element slice, because they all
share the same *parseState pointer.
*/

import (
	"bytes"
	"io"
	"sync"
)

type parseState struct {
	mu     sync.Mutex
	parsed bool
	subs   []Block
	err    error
}

// Block is a parsed Type-Length-Value element. It is a small value
// type: copying a Block is cheap and shares the underlying Buffer and
// parse memoization with the original.
type Block struct {
	buf                  *Buffer
	begin, end           int
	valueBegin, valueEnd int

	typ uint32

	// rawValue holds an explicit value set via NewValueBlock, used only
	// when the block has a value but no wire image yet. hasRawValue
	// tracks whether one was set at all, since append([]byte(nil),
	// value...) collapses a zero-length value to nil and would
	// otherwise make it indistinguishable from "no value set".
	rawValue    []byte
	hasRawValue bool

	state *parseState
}

// NewBlock returns an empty Block (type == TypeNone).
func NewBlock() Block {
	return Block{typ: TypeNone, state: &parseState{}}
}

// NewTypedBlock returns a Block with only its type set. Sub-elements
// may be added with PushBack/Insert; encoded without any, it becomes a
// zero-length (T, L=0) element.
func NewTypedBlock(typ uint32) Block {
	return Block{typ: typ, state: &parseState{}}
}

// NewValueBlock returns a Block carrying an explicit value with no
// wire image yet. A zero-length value is a valid, distinct value (not
// the same as a typed-only block with no value at all).
func NewValueBlock(typ uint32, value []byte) Block {
	v := append([]byte(nil), value...)
	return Block{typ: typ, rawValue: v, hasRawValue: true, state: &parseState{}}
}

// BlockFromBuffer parses a Block spanning the whole of buf.
func BlockFromBuffer(buf *Buffer) (Block, error) {
	return BlockFromBufferRange(buf, 0, buf.Len(), true)
}

// BlockFromBufferRange parses the TLV header at [begin,end) of buf.
// When verifyLength is true, the declared Length must exactly match
// end-headerLen or LengthMismatch is returned.
func BlockFromBufferRange(buf *Buffer, begin, end int, verifyLength bool) (Block, error) {
	if buf == nil || begin < 0 || end > buf.Len() || begin > end {
		return Block{}, errOutOfRange
	}
	cur := &sliceCursor{b: buf.b, i: begin, end: end}
	typ, err := readType(cur)
	if err != nil {
		return Block{}, wrapSyntax("BlockFromBufferRange", begin, TypeNone, err)
	}
	length, err := readVarNumber(cur)
	if err != nil {
		return Block{}, wrapSyntax("BlockFromBufferRange", begin, typ, err)
	}
	valueBegin := cur.i
	valueEnd := end
	if verifyLength && length != uint64(valueEnd-valueBegin) {
		return Block{}, wrapSyntax("BlockFromBufferRange", begin, typ, errLengthMismatch)
	}
	if !verifyLength && int(length) < valueEnd-valueBegin {
		valueEnd = valueBegin + int(length)
	}
	return Block{
		buf: buf, begin: begin, end: end,
		valueBegin: valueBegin, valueEnd: valueEnd,
		typ: typ, state: &parseState{},
	}, nil
}

// BlockFromBytes parses a single TLV out of the front of p, which may
// carry trailing bytes belonging to a sibling element. The returned
// Block owns a private copy bounded exactly to its own T+L+V span.
func BlockFromBytes(p []byte) (Block, error) {
	cur := &sliceCursor{b: p, i: 0, end: len(p)}
	typ, err := readType(cur)
	if err != nil {
		return Block{}, wrapSyntax("BlockFromBytes", 0, TypeNone, err)
	}
	length, err := readVarNumber(cur)
	if err != nil {
		return Block{}, wrapSyntax("BlockFromBytes", 0, typ, err)
	}
	headerLen := cur.i
	if length > uint64(len(p)-headerLen) {
		return Block{}, wrapSyntax("BlockFromBytes", 0, typ, errLengthExceeds)
	}
	total := headerLen + int(length)
	buf := NewBuffer(p[:total])
	return Block{
		buf: buf, begin: 0, end: total,
		valueBegin: headerLen, valueEnd: total,
		typ: typ, state: &parseState{},
	}, nil
}

// BlockFromParent parses a sub-range of an already-parsed Block's own
// Buffer, sharing storage with the parent.
func BlockFromParent(parent Block, begin, end int) (Block, error) {
	if parent.buf == nil {
		return Block{}, errOutOfRange
	}
	return BlockFromBufferRange(parent.buf, begin, end, true)
}

// BlockFromStream reads one TLV from r, blocking until the declared
// Length arrives or the stream ends. It fails Oversize if the
// declared length exceeds MaxPacketSize.
func BlockFromStream(r byteReader) (Block, error) {
	cur := &streamCursor{r: r}
	if _, ok := cur.peekByte(); !ok {
		return Block{}, io.EOF
	}
	typ, err := readType(cur)
	if err != nil {
		return Block{}, wrapSyntax("BlockFromStream", 0, TypeNone, err)
	}
	length, err := readVarNumber(cur)
	if err != nil {
		return Block{}, wrapSyntax("BlockFromStream", 0, typ, err)
	}
	if length > MaxPacketSize {
		return Block{}, wrapSyntax("BlockFromStream", 0, typ, errOversize)
	}
	if length == 0 {
		return NewTypedBlock(typ), nil
	}
	value := make([]byte, length)
	for i := range value {
		b, ok := cur.peekByte()
		if !ok {
			return Block{}, wrapSyntax("BlockFromStream", 0, typ, errTruncated)
		}
		cur.advance()
		value[i] = b
	}
	return NewValueBlock(typ, value), nil
}

// TryBlockFromBuffer peeks at the TLV header beginning at offset
// without allocating an error on failure.
func TryBlockFromBuffer(buf *Buffer, offset int) (Block, bool) {
	if buf == nil || offset < 0 || offset > buf.Len() {
		return Block{}, false
	}
	cur := &sliceCursor{b: buf.b, i: offset, end: buf.Len()}
	typ, ok := tryReadType(cur)
	if !ok {
		return Block{}, false
	}
	length, ok := tryReadVarNumber(cur)
	if !ok {
		return Block{}, false
	}
	valueBegin := cur.i
	valueEnd := valueBegin + int(length)
	if valueEnd > buf.Len() {
		return Block{}, false
	}
	return Block{
		buf: buf, begin: offset, end: valueEnd,
		valueBegin: valueBegin, valueEnd: valueEnd,
		typ: typ, state: &parseState{},
	}, true
}

func (b Block) Type() uint32 { return b.typ }

func (b Block) Empty() bool { return b.typ == TypeNone }

func (b Block) HasWire() bool { return b.buf != nil }

func (b Block) HasValue() bool { return b.HasWire() || b.hasRawValue }

func (b Block) Value() []byte {
	if b.HasWire() {
		return b.buf.b[b.valueBegin:b.valueEnd]
	}
	return b.rawValue
}

func (b Block) ValueSize() int { return len(b.Value()) }

// Wire returns the element's full T+L+V byte image.
func (b Block) Wire() ([]byte, error) {
	if !b.HasWire() {
		return nil, errNoWire
	}
	return b.buf.b[b.begin:b.end], nil
}

// Size reports the element's encoded byte length.
func (b Block) Size() int {
	switch {
	case b.HasWire():
		return b.end - b.begin
	case b.hasRawValue:
		return SizeOfVarNumber(uint64(b.typ)) + SizeOfVarNumber(uint64(len(b.rawValue))) + len(b.rawValue)
	case b.Empty():
		return 0
	default:
		// Typed-only, or holding sub-elements not yet encoded: the size
		// Encode would produce.
		n := 0
		if b.state != nil {
			for _, e := range b.state.subs {
				n += e.Size()
			}
		}
		return SizeOfVarNumber(uint64(b.typ)) + SizeOfVarNumber(uint64(n)) + n
	}
}

// Reset clears the receiver back to an empty Block, discarding type,
// value, and any parsed sub-elements.
func (b *Block) Reset() {
	b.buf = nil
	b.rawValue = nil
	b.hasRawValue = false
	b.typ = TypeNone
	b.begin, b.end, b.valueBegin, b.valueEnd = 0, 0, 0, 0
	b.state = &parseState{}
}

// ResetWire drops the wire image only, retaining the block's type and
// already-materialized sub-elements so further PushBack/Insert/Erase
// calls and a subsequent Encode can rebuild it.
func (b *Block) ResetWire() {
	b.buf = nil
	b.begin, b.end, b.valueBegin, b.valueEnd = 0, 0, 0, 0
	b.rawValue = nil
	b.hasRawValue = false
}

// Parse splits the block's value into its immediate sub-elements. It
// is idempotent and a no-op when the block has no wire image, an
// empty value, or has already been parsed.
func (b *Block) Parse() error {
	if !b.HasWire() || b.valueBegin == b.valueEnd {
		return nil
	}
	st := b.state
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.parsed {
		return st.err
	}
	subs, err := parseSubBlocks(b.buf, b.valueBegin, b.valueEnd)
	if err != nil {
		st.err = err
		return err
	}
	st.subs, st.parsed = subs, true
	trace(EventParse, "Block.Parse", b.typ, len(subs))
	return nil
}

func parseSubBlocks(buf *Buffer, begin, end int) ([]Block, error) {
	var subs []Block
	pos := begin
	for pos < end {
		cur := &sliceCursor{b: buf.b, i: pos, end: end}
		typ, err := readType(cur)
		if err != nil {
			return nil, wrapSyntax("Parse", pos, TypeNone, err)
		}
		length, err := readVarNumber(cur)
		if err != nil {
			return nil, wrapSyntax("Parse", pos, typ, err)
		}
		valBegin := cur.i
		valEnd := valBegin + int(length)
		if valEnd > end {
			return nil, wrapSyntax("Parse", pos, typ, errLengthExceeds)
		}
		subs = append(subs, Block{
			buf: buf, begin: pos, end: valEnd,
			valueBegin: valBegin, valueEnd: valEnd,
			typ: typ, state: &parseState{},
		})
		pos = valEnd
	}
	return subs, nil
}

// Elements returns the block's immediate sub-elements, parsing them
// first if necessary. A parse failure yields a nil slice.
func (b *Block) Elements() []Block {
	if err := b.Parse(); err != nil {
		return nil
	}
	return b.state.subs
}

func (b *Block) ElementsSize() int { return len(b.Elements()) }

// Find returns the first sub-element of the given type.
func (b *Block) Find(typ uint32) (Block, bool) {
	for _, e := range b.Elements() {
		if e.typ == typ {
			return e, true
		}
	}
	return Block{}, false
}

// Get is like Find but returns NotFound instead of a bare ok=false.
func (b *Block) Get(typ uint32) (Block, error) {
	e, ok := b.Find(typ)
	if !ok {
		return Block{}, errNotFound
	}
	return e, nil
}

func (b *Block) ensureSubsForMutation() {
	_ = b.Parse()
	if b.state.subs == nil {
		b.state.subs = []Block{}
	}
	b.state.parsed = true
}

// PushBack appends child as a new last sub-element and drops any
// existing wire image, since the encoded form is now stale.
func (b *Block) PushBack(child Block) {
	b.ensureSubsForMutation()
	b.state.subs = append(b.state.subs, child)
	b.ResetWire()
}

// Insert places child at index i among the sub-elements.
func (b *Block) Insert(i int, child Block) {
	b.ensureSubsForMutation()
	subs := append(b.state.subs, Block{})
	copy(subs[i+1:], subs[i:])
	subs[i] = child
	b.state.subs = subs
	b.ResetWire()
}

// Erase removes the sub-element at index i.
func (b *Block) Erase(i int) {
	b.ensureSubsForMutation()
	b.state.subs = append(b.state.subs[:i], b.state.subs[i+1:]...)
	b.ResetWire()
}

// EraseRange removes sub-elements [i,j).
func (b *Block) EraseRange(i, j int) {
	b.ensureSubsForMutation()
	b.state.subs = append(b.state.subs[:i], b.state.subs[j:]...)
	b.ResetWire()
}

// BlockFromValue reinterprets the block's own value as a single
// nested TLV, failing LengthMismatch if it is not exactly one.
func (b Block) BlockFromValue() (Block, error) {
	if !b.HasWire() {
		return Block{}, errNoWire
	}
	return BlockFromBufferRange(b.buf, b.valueBegin, b.valueEnd, true)
}

func (b Block) wireOrValueBytes() []byte {
	if b.HasWire() {
		return b.buf.b[b.begin:b.end]
	}
	return b.Value()
}

// Equal reports whether b and other encode to the same bytes.
func (b Block) Equal(other Block) bool {
	if b.Size() != other.Size() {
		return false
	}
	if b.HasWire() && other.HasWire() {
		if b.buf.fingerprintRange(b.begin, b.end) != other.buf.fingerprintRange(other.begin, other.end) {
			return false
		}
		return b.buf.rangeEqual(b.begin, b.end, other.buf, other.begin, other.end)
	}
	return bytes.Equal(b.wireOrValueBytes(), other.wireOrValueBytes())
}

func (b Block) NotEqual(other Block) bool { return !b.Equal(other) }

// Encode renders T, L, and V into a fresh Buffer when the block has
// none yet. It is a no-op if the block already has a wire image.
func (b *Block) Encode() error {
	if b.HasWire() {
		return nil
	}
	if b.Empty() {
		return errEmpty
	}

	var body []byte
	switch {
	case b.hasRawValue:
		body = b.rawValue
	case len(b.state.subs) > 0:
		for i := range b.state.subs {
			child := &b.state.subs[i]
			if err := child.Encode(); err != nil {
				return err
			}
			wire, err := child.Wire()
			if err != nil {
				return err
			}
			body = append(body, wire...)
		}
	default:
		// Typed-only: no explicit value and no sub-elements, so the
		// element's value is empty. This still encodes successfully,
		// as a minimal T, L=0 element.
	}

	hdr := getScratch()
	defer putScratch(hdr)
	*hdr = appendVarNumber((*hdr)[:0], uint64(b.typ))
	*hdr = appendVarNumber(*hdr, uint64(len(body)))

	out := make([]byte, 0, len(*hdr)+len(body))
	out = append(out, *hdr...)
	valueBegin := len(out)
	out = append(out, body...)

	b.buf = newBufferOwned(out)
	b.begin, b.end = 0, len(out)
	b.valueBegin, b.valueEnd = valueBegin, len(out)
	trace(EventEncode, "Block.Encode", len(body), out)
	return nil
}
