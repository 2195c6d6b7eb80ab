package tlv

import (
	"testing"

	"github.com/creachadair/taskgroup"
)

// TestBlockParseConcurrent exercises Parse's memoization cell from
// many goroutines sharing one Block handle, matching the way
// creachadair-ffs uses taskgroup.New to fan out and join concurrent
// work against a single shared value.
func TestBlockParseConcurrent(t *testing.T) {
	buf := NewBuffer([]byte{0x06, 0x07, 0x07, 0x02, 0x01, 0x02, 0x08, 0x01, 0x03})
	outer, err := BlockFromBuffer(buf)
	if err != nil {
		t.Fatalf("BlockFromBuffer: %v", err)
	}

	const n = 32
	results := make([]int, n)
	g := taskgroup.New(nil)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := outer.Parse(); err != nil {
				return err
			}
			results[i] = outer.ElementsSize()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	for i, got := range results {
		if got != 2 {
			t.Errorf("goroutine %d: ElementsSize() = %d, want 2", i, got)
		}
	}
}
