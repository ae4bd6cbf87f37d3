package flx4

import "github.com/TRC-Loop/flx4go/midiport"

// pairKey identifies the MSB/LSB buffer of one 14-bit control. The name
// disambiguates controls sharing a channel.
type pairKey struct {
	ch   uint8
	name string
}

type pairState struct {
	msb uint8
	lsb uint8
}

// decoder turns raw messages into domain events. It owns the 14-bit
// reassembly buffers and is only ever driven from the listener goroutine.
type decoder struct {
	reg   *registry
	pairs map[pairKey]*pairState

	// onValue records the latest normalized value of a knob or fader; it
	// is the decoder's only externally visible mutation.
	onValue func(name string, deck int, value float64)
}

func newDecoder(reg *registry, onValue func(string, int, float64)) *decoder {
	return &decoder{
		reg:     reg,
		pairs:   make(map[pairKey]*pairState),
		onValue: onValue,
	}
}

// decode consumes one raw message and produces at most one event.
// Messages with unknown addresses are dropped.
func (d *decoder) decode(m midiport.Message) (Event, bool) {
	switch m.Kind {
	case midiport.KindNote:
		return d.decodeNote(m)
	case midiport.KindControlChange:
		return d.decodeControl(m)
	}
	return nil, false
}

func (d *decoder) decodeNote(m midiport.Message) (Event, bool) {
	a := addr{m.Channel, m.Number}
	pressed := m.Value > 0

	if p, ok := d.reg.pads[a]; ok {
		return PadEvent{Deck: p.deck, Pad: p.pad, Pressed: pressed, Velocity: int(m.Value)}, true
	}
	if t, ok := d.reg.tabs[a]; ok {
		return TabEvent{Deck: t.deck, Tab: t.tab, Pressed: pressed}, true
	}
	if deck, ok := d.reg.jogTouch[a]; ok {
		return JogTouchEvent{Deck: deck, Touched: pressed}, true
	}
	if b, ok := d.reg.buttons[a]; ok {
		return ButtonEvent{Name: b.name, Deck: b.deck, Shifted: b.shifted, Pressed: pressed}, true
	}
	return nil, false
}

func (d *decoder) decodeControl(m midiport.Message) (Event, bool) {
	a := addr{m.Channel, m.Number}
	raw := int(m.Value)

	if j, ok := d.reg.jogs[a]; ok {
		direction := -1
		if raw > 64 {
			direction = 1
		}
		velocity := raw - 64
		if velocity < 0 {
			velocity = -velocity
		}
		return JogEvent{Deck: j.deck, Surface: j.surface, Direction: direction, Velocity: velocity}, true
	}

	if shifted, ok := d.reg.browse[a]; ok {
		steps := raw
		if raw > 64 {
			steps = -(128 - raw)
		}
		return BrowseEvent{Steps: steps, Shifted: shifted}, true
	}

	if k, ok := d.reg.knobMSB[a]; ok {
		// High byte: buffer it, emit nothing until a low byte arrives.
		d.pair(m.Channel, k.name).msb = m.Value
		return nil, false
	}

	if msbAddr, ok := d.reg.lsbPartner(a); ok {
		k := d.reg.knobMSB[msbAddr]
		st := d.pair(m.Channel, k.name)
		st.lsb = m.Value

		// The high byte defaults to zero if it has never been seen;
		// the device's message order is not guaranteed either way.
		full := int(st.msb)<<7 | int(st.lsb)
		value := normalize14(k.name, full)
		d.onValue(k.name, k.deck, value)
		return KnobEvent{Name: k.name, Deck: k.deck, Value: value, Raw: full}, true
	}

	if k, ok := d.reg.knob7[a]; ok {
		value := float64(raw) / 127.0
		d.onValue(k.name, k.deck, value)
		return KnobEvent{Name: k.name, Deck: k.deck, Value: value, Raw: raw}, true
	}

	return nil, false
}

func (d *decoder) pair(ch uint8, name string) *pairState {
	key := pairKey{ch: ch, name: name}
	st, ok := d.pairs[key]
	if !ok {
		st = &pairState{}
		d.pairs[key] = st
	}
	return st
}

// normalize14 maps a 14-bit raw value to its normalized range. TEMPO is
// centered at 8192 and spans -1.0 to +1.0; everything else spans 0.0-1.0.
func normalize14(name string, raw int) float64 {
	if name == ControlTempo {
		v := (float64(raw) - 8192) / 8192
		if v < -1 {
			v = -1
		}
		if v > 1 {
			v = 1
		}
		return v
	}
	return float64(raw) / 16383.0
}
