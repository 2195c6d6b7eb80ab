//go:build !tlv_debug

package tlv

/*
trc_off.go is the no-op build of the debug tracer, compiled in by
default so that tracing costs nothing unless a caller opts in with
"-tags tlv_debug".
*/

func trace(_ EventType, _ string, _ ...any) {}
