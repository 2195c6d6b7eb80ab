package tlv

/*
pool.go implements a sync.Pool of scratch byte slices used to build
TLV headers without allocating on every Block.Encode call.
*/

import "sync"

var scratchPool = sync.Pool{
	New: func() any { b := make([]byte, 0, 16); return &b },
}

func getScratch() *[]byte { return scratchPool.Get().(*[]byte) }

func putScratch(p *[]byte) {
	*p = (*p)[:0]
	scratchPool.Put(p)
}
