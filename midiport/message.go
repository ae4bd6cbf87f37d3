// Package midiport wraps MIDI port discovery and I/O for the DDJ-FLX4.
//
// The library core consumes the Input and Output interfaces only; the
// gomidi-backed implementations in this package are the default transport,
// but callers may substitute their own (for tests, recording, or bridging).
package midiport

// Kind identifies the two wire message kinds the controller uses.
type Kind uint8

const (
	// KindNote is a note-on style message used for pads, tabs, jog touch
	// and named buttons. Value is the velocity; 0 means release.
	KindNote Kind = iota
	// KindControlChange carries a 7-bit value for continuous controls,
	// encoders and VU meters.
	KindControlChange
)

// Message is one raw wire message in either direction.
type Message struct {
	Kind    Kind
	Channel uint8 // 0-15
	Number  uint8 // note or controller number, 0-127
	Value   uint8 // velocity or controller value, 0-127
}

// Input is a source of pending raw messages from the device.
type Input interface {
	// Drain removes and returns up to max currently pending messages.
	// It never blocks; an empty slice means nothing is pending.
	Drain(max int) []Message
	Close() error
}

// Output sends raw messages to the device. Implementations need not be
// safe for concurrent use; callers serialize sends.
type Output interface {
	Send(Message) error
	Close() error
}
