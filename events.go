package flx4

// EventType tags the concrete event kinds emitted by the controller.
type EventType string

const (
	EventPad      EventType = "pad"
	EventTab      EventType = "tab"
	EventButton   EventType = "button"
	EventKnob     EventType = "knob"
	EventJog      EventType = "jog"
	EventJogTouch EventType = "jog_touch"
	EventBrowse   EventType = "browse"
)

// DeckGlobal is the deck value for controls not tied to deck 1 or 2
// (FX, mixer and browse section).
const DeckGlobal = 0

// Surface identifies which part of a jog wheel was turned.
type Surface string

const (
	SurfaceTop  Surface = "top"  // platter surface
	SurfaceSide Surface = "side" // outer ring
)

// Event is the closed set of interactions decoded from the controller.
// All events are dispatched on the background listener goroutine, so keep
// callbacks fast or hand heavy work off to another goroutine.
type Event interface {
	Type() EventType
	isEvent()
}

// PadEvent reports a performance pad press or release.
type PadEvent struct {
	Deck     int  // 1 or 2
	Pad      int  // pad index 0-7, left to right
	Pressed  bool // true on press, false on release
	Velocity int  // raw MIDI velocity, 0-127
}

// TabEvent reports a pad-mode tab key (HOT CUE / PAD FX / BEAT JUMP /
// SAMPLER) press or release.
type TabEvent struct {
	Deck    int // 1 or 2
	Tab     int // 0 = HOT CUE, 1 = PAD FX, 2 = BEAT JUMP, 3 = SAMPLER
	Pressed bool
}

// ButtonEvent reports a named button press or release.
type ButtonEvent struct {
	Name    string // e.g. "PLAY_PAUSE", "CUE", "BEAT_SYNC"
	Deck    int    // 1, 2, or DeckGlobal
	Shifted bool   // SHIFT was held at the time of the event
	Pressed bool
}

// KnobEvent reports an absolute knob or fader movement.
//
// For "TEMPO" the value ranges -1.0 (slowest) to +1.0 (fastest) with 0.0
// at center. All other controls range 0.0-1.0.
type KnobEvent struct {
	Name  string  // e.g. "CH_FADER", "CROSSFADER", "EQ_HI"
	Deck  int     // 1, 2, or DeckGlobal
	Value float64 // normalized value
	Raw   int     // raw 14-bit (0-16383) or 7-bit (0-127) value
}

// JogEvent reports a jog wheel rotation.
type JogEvent struct {
	Deck      int
	Surface   Surface
	Direction int // +1 clockwise, -1 counter-clockwise
	Velocity  int // magnitude of the turn, usually 1
}

// JogTouchEvent reports the jog wheel platter being touched or released.
type JogTouchEvent struct {
	Deck    int
	Touched bool
}

// BrowseEvent reports a browse encoder turn.
type BrowseEvent struct {
	Steps   int  // positive = clockwise, negative = counter-clockwise
	Shifted bool // SHIFT was held during the turn
}

func (PadEvent) Type() EventType      { return EventPad }
func (TabEvent) Type() EventType      { return EventTab }
func (ButtonEvent) Type() EventType   { return EventButton }
func (KnobEvent) Type() EventType     { return EventKnob }
func (JogEvent) Type() EventType      { return EventJog }
func (JogTouchEvent) Type() EventType { return EventJogTouch }
func (BrowseEvent) Type() EventType   { return EventBrowse }

func (PadEvent) isEvent()      {}
func (TabEvent) isEvent()      {}
func (ButtonEvent) isEvent()   {}
func (KnobEvent) isEvent()     {}
func (JogEvent) isEvent()      {}
func (JogTouchEvent) isEvent() {}
func (BrowseEvent) isEvent()   {}
