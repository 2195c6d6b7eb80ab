package tlv

/*
evt.go contains EventType constants for the debug tracer in
trc_on.go/trc_off.go. This type and its constants are only
meaningful when the package is built with "-tags tlv_debug"; otherwise
they may be ignored. The bitmask covers the handful of lifecycle
points this engine actually has, rather than a larger general-purpose
event taxonomy.
*/

type EventType int

const (
	EventNone     EventType = 0
	EventParse    EventType = 1 << 0 // Block.Parse / Wire.Parse
	EventEncode   EventType = 1 << 1 // Block.Encode
	EventGrow     EventType = 1 << 2 // Wire segment allocation
	EventFinalize EventType = 1 << 3 // Wire.Finalize
	EventAll      EventType = EventParse | EventEncode | EventGrow | EventFinalize
)
