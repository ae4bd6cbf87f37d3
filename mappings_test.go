package flx4

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNoteTablesDisjoint(t *testing.T) {
	r := defaultRegistry
	seen := make(map[addr]string)

	claim := func(a addr, table string) {
		prev, dup := seen[a]
		require.False(t, dup, "address %+v in both %s and %s", a, prev, table)
		seen[a] = table
	}

	for a := range r.pads {
		claim(a, "pads")
	}
	for a := range r.tabs {
		claim(a, "tabs")
	}
	for a := range r.jogTouch {
		claim(a, "jogTouch")
	}
	for a := range r.buttons {
		claim(a, "buttons")
	}
}

func TestButtonLEDRoundTrip(t *testing.T) {
	r := defaultRegistry
	require.Len(t, r.buttonLED, len(r.buttons))

	for slot, want := range r.buttonLED {
		a, ok := r.ledAddress(slot.name, slot.deck, slot.shifted)
		require.True(t, ok)
		require.Equal(t, want, a)

		back, ok := r.buttons[a]
		require.True(t, ok, "LED address %+v must resolve on the note input table", a)
		require.Equal(t, slot, back)
	}
}

func TestLSBPartner(t *testing.T) {
	r := defaultRegistry
	require.Len(t, r.knobLSB, len(r.knobMSB))

	for lsbAddr, msbAddr := range r.knobLSB {
		slot, ok := r.knobMSB[msbAddr]
		require.True(t, ok)
		require.Equal(t, msbAddr.ch, lsbAddr.ch, "pair must share a channel")
		require.Equal(t, slot.lsb, lsbAddr.num)

		got, ok := r.lsbPartner(lsbAddr)
		require.True(t, ok)
		require.Equal(t, msbAddr, got)
	}

	_, ok := r.lsbPartner(addr{15, 0})
	require.False(t, ok)
}

func TestPadModeOffsets(t *testing.T) {
	r := defaultRegistry
	require.Len(t, r.padModes, 8)

	seen := make(map[uint8]bool)
	for _, offset := range r.padModes {
		require.Zero(t, offset%16, "offset %d", offset)
		require.False(t, seen[offset])
		seen[offset] = true
	}
	require.EqualValues(t, 0, r.padModes[PadModeHotCue])
	require.EqualValues(t, 112, r.padModes[PadModeKeyShift])
}

func TestKnobTableShape(t *testing.T) {
	r := defaultRegistry

	// Each deck carries the same seven 14-bit controls.
	for _, deck := range []int{1, 2} {
		names := make(map[string]bool)
		for _, slot := range r.knobMSB {
			if slot.deck == deck {
				names[slot.name] = true
			}
		}
		require.Len(t, names, 7, "deck %d", deck)
	}

	// Globals are keyed with DeckGlobal only.
	for a, slot := range r.knobMSB {
		if slot.deck != 1 && slot.deck != 2 {
			require.Equal(t, DeckGlobal, slot.deck, "address %+v", a)
		}
	}
	for _, slot := range r.knob7 {
		require.Equal(t, DeckGlobal, slot.deck)
	}
}
