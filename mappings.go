package flx4

// MIDI address tables for the Pioneer DDJ-FLX4. Input tables decode incoming
// messages; the derived reverse tables address LEDs. The layout is fixed by
// the device firmware and never changes at runtime.

// Named button identifiers.
const (
	ButtonPlayPause    = "PLAY_PAUSE"
	ButtonCue          = "CUE"
	ButtonCueLoopCall  = "CUE_LOOP_CALL"
	ButtonIn           = "IN"
	ButtonOut          = "OUT"
	ButtonBeat4Exit    = "BEAT_4_EXIT"
	ButtonCueLoopLeft  = "CUE_LOOP_LEFT"
	ButtonCueLoopRight = "CUE_LOOP_RIGHT"
	ButtonBeatSync     = "BEAT_SYNC"
	ButtonBeatSyncLong = "BEAT_SYNC_LONG"
	ButtonShift        = "SHIFT"
	ButtonFXBeatLeft   = "FX_BEAT_LEFT"
	ButtonFXBeatRight  = "FX_BEAT_RIGHT"
	ButtonFXOnOff      = "FX_ON_OFF"
	ButtonFXChSelect   = "FX_CH_SELECT"
	ButtonFXSelect     = "FX_SELECT"
	ButtonMasterCue    = "MASTER_CUE"
	ButtonBrowseLoad   = "BROWSE_LOAD"
	ButtonBrowsePress  = "BROWSE_PRESS"
)

// Knob and fader identifiers.
const (
	ControlTempo          = "TEMPO"
	ControlTrim           = "TRIM"
	ControlEQHi           = "EQ_HI"
	ControlEQMid          = "EQ_MID"
	ControlEQLow          = "EQ_LOW"
	ControlCFX            = "CFX"
	ControlChFader        = "CH_FADER"
	ControlFXLevel        = "FX_LEVEL"
	ControlMasterLevel    = "MASTER_LEVEL"
	ControlHeadphoneMix   = "HEADPHONE_MIX"
	ControlHeadphoneLevel = "HEADPHONE_LEVEL"
	ControlMicLevel       = "MIC_LEVEL"
	ControlSmartFader     = "SMART_FADER"
	ControlCrossfader     = "CROSSFADER"
	ControlMonoStereo     = "MONO_STEREO"
)

// PadMode selects which pad-mode bank an LED command addresses.
type PadMode string

const (
	PadModeHotCue   PadMode = "HOT_CUE"
	PadModePadFX1   PadMode = "PAD_FX_1"
	PadModePadFX2   PadMode = "PAD_FX_2"
	PadModeBeatJump PadMode = "BEAT_JUMP"
	PadModeSampler  PadMode = "SAMPLER"
	PadModeKeyboard PadMode = "KEYBOARD"
	PadModeBeatLoop PadMode = "BEAT_LOOP"
	PadModeKeyShift PadMode = "KEY_SHIFT"
)

// addr is one wire address: channel 0-15 plus note or controller number.
// Addresses are only unique within a message kind.
type addr struct {
	ch  uint8
	num uint8
}

type padSlot struct {
	deck int
	pad  int
}

type tabSlot struct {
	deck int
	tab  int
}

type buttonSlot struct {
	name    string
	deck    int // DeckGlobal for FX, mixer and browse buttons
	shifted bool
}

type jogSlot struct {
	deck    int
	surface Surface
}

// knobSlot describes one absolute control. lsb is the paired low-byte CC
// for 14-bit controls and unused for 7-bit ones.
type knobSlot struct {
	name string
	deck int
	lsb  uint8
}

// registry holds the immutable address tables, built once at init and
// shared read-only by the decoder and the LED encoder.
type registry struct {
	pads     map[addr]padSlot
	tabs     map[addr]tabSlot
	jogTouch map[addr]int
	buttons  map[addr]buttonSlot
	jogs     map[addr]jogSlot
	browse   map[addr]bool // value is the shifted flag
	knobMSB  map[addr]knobSlot
	knobLSB  map[addr]addr // low-byte address -> paired high-byte address
	knob7    map[addr]knobSlot

	buttonLED   map[buttonSlot]addr
	padChannels map[int][2]uint8 // deck -> (normal channel, shifted channel)
	padModes    map[PadMode]uint8
	tabNotes    map[int]uint8
}

// levelMeterCC is sent on channel 0 for deck 1 and channel 1 for deck 2.
const levelMeterCC = 2

var defaultRegistry = newRegistry()

func newRegistry() *registry {
	r := &registry{
		pads:     make(map[addr]padSlot, 16),
		tabs:     make(map[addr]tabSlot, 8),
		jogTouch: map[addr]int{{0, 54}: 1, {1, 54}: 2},
		buttons:  make(map[addr]buttonSlot, 48),
		jogs: map[addr]jogSlot{
			{0, 34}: {deck: 1, surface: SurfaceTop},
			{0, 33}: {deck: 1, surface: SurfaceSide},
			{1, 34}: {deck: 2, surface: SurfaceTop},
			{1, 33}: {deck: 2, surface: SurfaceSide},
		},
		browse: map[addr]bool{
			{6, 64}:  false,
			{6, 100}: true,
		},
		knobMSB: make(map[addr]knobSlot, 24),
		knobLSB: make(map[addr]addr, 24),
		knob7: map[addr]knobSlot{
			{6, 109}: {name: ControlMonoStereo, deck: DeckGlobal},
		},
		padChannels: map[int][2]uint8{1: {7, 8}, 2: {9, 10}},
		padModes: map[PadMode]uint8{
			PadModeHotCue:   0,
			PadModePadFX1:   16,
			PadModePadFX2:   32,
			PadModeBeatJump: 48,
			PadModeSampler:  64,
			PadModeKeyboard: 80,
			PadModeBeatLoop: 96,
			PadModeKeyShift: 112,
		},
		tabNotes: map[int]uint8{0: 27, 1: 30, 2: 32, 3: 34},
	}

	for i := 0; i < 8; i++ {
		r.pads[addr{7, uint8(48 + i)}] = padSlot{deck: 1, pad: i}
		r.pads[addr{9, uint8(48 + i)}] = padSlot{deck: 2, pad: i}
	}

	for deck, ch := range map[int]uint8{1: 0, 2: 1} {
		for tab, note := range r.tabNotes {
			r.tabs[addr{ch, note}] = tabSlot{deck: deck, tab: tab}
		}
	}

	// Deck buttons use channel 0 for deck 1 and channel 1 for deck 2.
	deckButtons := []struct {
		note    uint8
		name    string
		shifted bool
	}{
		{11, ButtonPlayPause, false},
		{14, ButtonPlayPause, true},
		{12, ButtonCue, false},
		{72, ButtonCue, true},
		{84, ButtonCueLoopCall, false},
		{16, ButtonIn, false},
		{76, ButtonIn, true},
		{17, ButtonOut, false},
		{78, ButtonOut, true},
		{77, ButtonBeat4Exit, false},
		{80, ButtonBeat4Exit, true},
		{81, ButtonCueLoopLeft, false},
		{62, ButtonCueLoopLeft, true},
		{83, ButtonCueLoopRight, false},
		{61, ButtonCueLoopRight, true},
		{88, ButtonBeatSync, false},
		{92, ButtonBeatSyncLong, false},
		{96, ButtonBeatSync, true},
		{63, ButtonShift, false},
		{104, ButtonShift, true},
	}
	for deck, ch := range map[int]uint8{1: 0, 2: 1} {
		for _, b := range deckButtons {
			r.buttons[addr{ch, b.note}] = buttonSlot{name: b.name, deck: deck, shifted: b.shifted}
		}
	}

	// FX, mixer and browse buttons.
	for a, b := range map[addr]buttonSlot{
		{4, 99}:  {ButtonFXBeatLeft, DeckGlobal, false},
		{4, 100}: {ButtonFXBeatLeft, DeckGlobal, true},
		{4, 74}:  {ButtonFXBeatRight, DeckGlobal, false},
		{4, 102}: {ButtonFXBeatRight, DeckGlobal, true},
		{4, 75}:  {ButtonFXOnOff, DeckGlobal, false},
		{4, 107}: {ButtonFXOnOff, DeckGlobal, true},
		{4, 71}:  {ButtonFXChSelect, 1, false},
		{5, 71}:  {ButtonFXChSelect, 2, false},
		{4, 67}:  {ButtonFXSelect, 1, false},
		{5, 67}:  {ButtonFXSelect, 2, false},
		{6, 99}:  {ButtonMasterCue, DeckGlobal, false},
		{6, 120}: {ButtonMasterCue, DeckGlobal, true},
		{6, 70}:  {ButtonBrowseLoad, 1, false},
		{6, 66}:  {ButtonBrowseLoad, 1, true},
		{6, 71}:  {ButtonBrowseLoad, 2, false},
		{6, 104}: {ButtonBrowseLoad, 2, true},
		{6, 65}:  {ButtonBrowsePress, DeckGlobal, false},
		{6, 122}: {ButtonBrowsePress, DeckGlobal, true},
	} {
		r.buttons[a] = b
	}

	// 14-bit controls: high-byte CC plus paired low-byte CC.
	deckKnobs := []struct {
		msb  uint8
		name string
		lsb  uint8
	}{
		{0, ControlTempo, 32},
		{2, ControlTrim, 34},
		{4, ControlEQHi, 36},
		{7, ControlEQMid, 39},
		{11, ControlEQLow, 43},
		{15, ControlCFX, 47},
		{19, ControlChFader, 51},
	}
	for deck, ch := range map[int]uint8{1: 0, 2: 1} {
		for _, k := range deckKnobs {
			r.knobMSB[addr{ch, k.msb}] = knobSlot{name: k.name, deck: deck, lsb: k.lsb}
		}
	}
	for a, k := range map[addr]knobSlot{
		{4, 2}:  {ControlFXLevel, DeckGlobal, 34},
		{6, 5}:  {ControlMasterLevel, DeckGlobal, 37},
		{6, 12}: {ControlHeadphoneMix, DeckGlobal, 44},
		{6, 13}: {ControlHeadphoneLevel, DeckGlobal, 45},
		{6, 23}: {ControlMicLevel, DeckGlobal, 55},
		{6, 24}: {ControlSmartFader, DeckGlobal, 56},
		{6, 31}: {ControlCrossfader, DeckGlobal, 63},
	} {
		r.knobMSB[a] = k
	}
	for a, k := range r.knobMSB {
		r.knobLSB[addr{a.ch, k.lsb}] = a
	}

	// Button LEDs reuse the input addresses.
	r.buttonLED = make(map[buttonSlot]addr, len(r.buttons))
	for a, b := range r.buttons {
		r.buttonLED[b] = a
	}

	return r
}

// lsbPartner resolves a low-byte address to its paired high-byte address.
func (r *registry) lsbPartner(a addr) (addr, bool) {
	msb, ok := r.knobLSB[a]
	return msb, ok
}

// ledAddress resolves a named button LED to its wire address.
func (r *registry) ledAddress(name string, deck int, shifted bool) (addr, bool) {
	a, ok := r.buttonLED[buttonSlot{name: name, deck: deck, shifted: shifted}]
	return a, ok
}
