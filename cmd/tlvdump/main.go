// Command tlvdump reads a stream of concatenated TLV elements and
// prints their type/length/value structure, recursing into nested
// elements. It exists as a diagnostic companion to the tlv package,
// not as an encoding engine of its own.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/hadesarch/ndntlv"
)

func main() {
	flag.Parse()

	var r io.Reader = os.Stdin
	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, "tlvdump:", err)
			os.Exit(1)
		}
		defer f.Close()
		r = f
	}

	br := bufio.NewReader(r)
	for {
		b, err := tlv.BlockFromStream(br)
		if err != nil {
			if err == io.EOF {
				return
			}
			fmt.Fprintln(os.Stderr, "tlvdump:", err)
			os.Exit(1)
		}
		dump(b, 0)
	}
}

func dump(b tlv.Block, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	fmt.Printf("%stype=%d size=%d value_size=%d\n", indent, b.Type(), b.Size(), b.ValueSize())
	// A block read from a stream carries its value without a wire
	// image, and Elements only parses blocks that have one.
	if err := b.Encode(); err != nil {
		return
	}
	for _, child := range b.Elements() {
		dump(child, depth+1)
	}
}
