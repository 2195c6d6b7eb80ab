package tlv

/*
common.go contains small stdlib aliases used throughout this package,
named close to their call sites so frequently used stdlib functions
don't need a full import qualifier at every use.
*/

import (
	"encoding/hex"
	"strconv"
)

var (
	itoa   func(int) string    = strconv.Itoa
	hexstr func([]byte) string = hex.EncodeToString
)

func bool2str(b bool) (s string) {
	if s = `false`; b {
		s = `true`
	}
	return
}
