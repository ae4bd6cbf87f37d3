package flx4

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/TRC-Loop/flx4go/midiport"
)

const (
	ledOff uint8 = 0x00
	ledOn  uint8 = 0x7F
)

// LEDController drives the pads, buttons and VU meters over the output
// port. It is stateless; a mutex serializes sends so it is safe to use from
// multiple goroutines. Accessed via Controller.LEDs.
type LEDController struct {
	out midiport.Output
	reg *registry
	mu  sync.Mutex
}

func newLEDController(out midiport.Output, reg *registry) *LEDController {
	return &LEDController{out: out, reg: reg}
}

func (l *LEDController) note(ch, note, velocity uint8) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out.Send(midiport.Message{Kind: midiport.KindNote, Channel: ch, Number: note, Value: velocity})
}

func (l *LEDController) cc(ch, control, value uint8) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out.Send(midiport.Message{Kind: midiport.KindControlChange, Channel: ch, Number: control, Value: value})
}

func onOff(on bool) uint8 {
	if on {
		return ledOn
	}
	return ledOff
}

// SetPad sets a single performance pad LED.
func (l *LEDController) SetPad(deck, pad int, on bool, mode PadMode, shifted bool) error {
	if deck != 1 && deck != 2 {
		return fmt.Errorf("flx4: deck must be 1 or 2, got %d", deck)
	}
	if pad < 0 || pad > 7 {
		return fmt.Errorf("flx4: pad must be 0-7, got %d", pad)
	}
	offset, ok := l.reg.padModes[mode]
	if !ok {
		return fmt.Errorf("flx4: unknown pad mode %q", mode)
	}
	channels := l.reg.padChannels[deck]
	ch := channels[0]
	if shifted {
		ch = channels[1]
	}
	return l.note(ch, offset+uint8(pad), onOff(on))
}

// SetAllPads sets all 8 pads on deck to the same state.
func (l *LEDController) SetAllPads(deck int, on bool, mode PadMode, shifted bool) error {
	for i := 0; i < 8; i++ {
		if err := l.SetPad(deck, i, on, mode, shifted); err != nil {
			return err
		}
	}
	return nil
}

// ClearPads turns off all pads on deck in mode, both normal and shifted.
func (l *LEDController) ClearPads(deck int, mode PadMode) error {
	if err := l.SetAllPads(deck, false, mode, false); err != nil {
		return err
	}
	return l.SetAllPads(deck, false, mode, true)
}

// SetButton sets a named button LED. deck is 1 or 2 for deck buttons and
// DeckGlobal for the FX, mixer and browse section.
func (l *LEDController) SetButton(name string, on bool, deck int, shifted bool) error {
	a, ok := l.reg.ledAddress(name, deck, shifted)
	if !ok {
		return fmt.Errorf("flx4: unknown button %q with deck=%d, shifted=%t", name, deck, shifted)
	}
	return l.note(a.ch, a.num, onOff(on))
}

// SetTab sets a pad-mode tab button LED. tab is 0-3 (HOT CUE, PAD FX,
// BEAT JUMP, SAMPLER).
func (l *LEDController) SetTab(deck, tab int, on bool) error {
	if deck != 1 && deck != 2 {
		return fmt.Errorf("flx4: deck must be 1 or 2, got %d", deck)
	}
	note, ok := l.reg.tabNotes[tab]
	if !ok {
		return fmt.Errorf("flx4: tab must be 0-3, got %d", tab)
	}
	return l.note(deckChannel(deck), note, onOff(on))
}

// SetLevelMeter sets the channel VU meter from a normalized level in
// [0, 1]. The controller maps the value to its green/orange/red segments.
func (l *LEDController) SetLevelMeter(deck int, level float64) error {
	if deck != 1 && deck != 2 {
		return fmt.Errorf("flx4: deck must be 1 or 2, got %d", deck)
	}
	if level < 0 || level > 1 {
		return fmt.Errorf("flx4: level must be 0.0-1.0, got %g", level)
	}
	return l.cc(deckChannel(deck), levelMeterCC, uint8(level*127))
}

// SetLevelMeterRaw sets the channel VU meter from a raw 0-127 value.
func (l *LEDController) SetLevelMeterRaw(deck, value int) error {
	if deck != 1 && deck != 2 {
		return fmt.Errorf("flx4: deck must be 1 or 2, got %d", deck)
	}
	if value < 0 || value > 127 {
		return fmt.Errorf("flx4: value must be 0-127, got %d", value)
	}
	return l.cc(deckChannel(deck), levelMeterCC, uint8(value))
}

// AllOff turns off every controllable LED. Button combinations that do not
// resolve for a given deck are skipped rather than aborting the sweep.
func (l *LEDController) AllOff() error {
	for deck := 1; deck <= 2; deck++ {
		if err := l.SetLevelMeter(deck, 0); err != nil {
			return err
		}
		for mode := range l.reg.padModes {
			if err := l.ClearPads(deck, mode); err != nil {
				return err
			}
		}
		for tab := 0; tab < 4; tab++ {
			if err := l.SetTab(deck, tab, false); err != nil {
				return err
			}
		}
	}
	for b := range l.reg.buttonLED {
		// Resolution cannot fail here, but send errors on individual
		// buttons do not stop the sweep.
		_ = l.SetButton(b.name, false, b.deck, b.shifted)
	}
	return nil
}

func deckChannel(deck int) uint8 {
	if deck == 1 {
		return 0
	}
	return 1
}

// ---------------------------------------------------------------------------
// Built-in animations
// ---------------------------------------------------------------------------

// AnimateWave sweeps a single lit pad across both decks in sync.
func (l *LEDController) AnimateWave(duration, speed time.Duration) error {
	end := time.Now().Add(duration)
	pos := 0
	for time.Now().Before(end) {
		for deck := 1; deck <= 2; deck++ {
			for i := 0; i < 8; i++ {
				if err := l.SetPad(deck, i, i == pos%8, PadModeHotCue, false); err != nil {
					return err
				}
			}
		}
		pos++
		time.Sleep(speed)
	}
	return l.AllOff()
}

// AnimateKnightRider bounces a lit pad left-right on both decks while the
// VU meters follow.
func (l *LEDController) AnimateKnightRider(duration, speed time.Duration) error {
	end := time.Now().Add(duration)
	for time.Now().Before(end) {
		for _, i := range knightRiderSteps {
			if !time.Now().Before(end) {
				break
			}
			if err := l.lightColumn(i, float64(i)/7); err != nil {
				return err
			}
			time.Sleep(speed)
		}
	}
	return l.AllOff()
}

var knightRiderSteps = []int{0, 1, 2, 3, 4, 5, 6, 7, 6, 5, 4, 3, 2, 1}

func (l *LEDController) lightColumn(col int, level float64) error {
	for deck := 1; deck <= 2; deck++ {
		for j := 0; j < 8; j++ {
			if err := l.SetPad(deck, j, j == col, PadModeHotCue, false); err != nil {
				return err
			}
		}
		if err := l.SetLevelMeter(deck, level); err != nil {
			return err
		}
	}
	return nil
}

// AnimateBreathing pulses the pads and VU meters in and out together.
// cycle is the length of one full breath.
func (l *LEDController) AnimateBreathing(duration, cycle time.Duration) error {
	const steps = 40
	end := time.Now().Add(duration)
	delay := cycle / (steps * 2)
	for time.Now().Before(end) {
		for phase := 0; phase < steps*2; phase++ {
			if !time.Now().Before(end) {
				break
			}
			t := float64(phase) / steps
			level := t
			if t > 1 {
				level = 2 - t
			}
			numPads := int(level * 8)
			for deck := 1; deck <= 2; deck++ {
				if err := l.SetLevelMeter(deck, level); err != nil {
					return err
				}
				for p := 0; p < 8; p++ {
					if err := l.SetPad(deck, p, p < numPads, PadModeHotCue, false); err != nil {
						return err
					}
				}
			}
			time.Sleep(delay)
		}
	}
	return l.AllOff()
}

// AnimatePingPong sends a lit pad from deck 1 through deck 2 and back.
func (l *LEDController) AnimatePingPong(duration, speed time.Duration) error {
	end := time.Now().Add(duration)
	for time.Now().Before(end) {
		for i := 0; i < 8 && time.Now().Before(end); i++ {
			for j := 0; j < 8; j++ {
				if err := l.SetPad(1, j, j == i, PadModeHotCue, false); err != nil {
					return err
				}
			}
			if err := l.SetLevelMeter(1, float64(i)/7); err != nil {
				return err
			}
			time.Sleep(speed)
		}
		for i := 0; i < 8 && time.Now().Before(end); i++ {
			for j := 0; j < 8; j++ {
				if err := l.SetPad(1, j, false, PadModeHotCue, false); err != nil {
					return err
				}
				if err := l.SetPad(2, j, j == i, PadModeHotCue, false); err != nil {
					return err
				}
			}
			if err := l.SetLevelMeter(1, 1-float64(i)/7); err != nil {
				return err
			}
			if err := l.SetLevelMeter(2, float64(i)/7); err != nil {
				return err
			}
			time.Sleep(speed)
		}
		for i := 7; i >= 0 && time.Now().Before(end); i-- {
			for j := 0; j < 8; j++ {
				if err := l.SetPad(2, j, j == i, PadModeHotCue, false); err != nil {
					return err
				}
			}
			if err := l.SetLevelMeter(2, float64(i)/7); err != nil {
				return err
			}
			time.Sleep(speed)
		}
		for deck := 1; deck <= 2; deck++ {
			if err := l.SetLevelMeter(deck, 0); err != nil {
				return err
			}
		}
	}
	return l.AllOff()
}

// AnimateSparkle twinkles random pads and transport buttons on and off.
func (l *LEDController) AnimateSparkle(duration, speed time.Duration) error {
	type lit struct {
		pad     bool
		deck    int
		padIdx  int
		btnName string
	}
	deckButtons := []struct {
		name string
		deck int
	}{
		{ButtonPlayPause, 1}, {ButtonPlayPause, 2},
		{ButtonCue, 1}, {ButtonCue, 2},
		{ButtonBeatSync, 1}, {ButtonBeatSync, 2},
	}

	end := time.Now().Add(duration)
	var active []lit
	off := func(item lit) error {
		if item.pad {
			return l.SetPad(item.deck, item.padIdx, false, PadModeHotCue, false)
		}
		return l.SetButton(item.btnName, false, item.deck, false)
	}

	for time.Now().Before(end) {
		deck := 1 + rand.Intn(2)
		pad := rand.Intn(8)
		if err := l.SetPad(deck, pad, true, PadModeHotCue, false); err != nil {
			return err
		}
		active = append(active, lit{pad: true, deck: deck, padIdx: pad})

		if rand.Float64() > 0.65 {
			b := deckButtons[rand.Intn(len(deckButtons))]
			if err := l.SetButton(b.name, true, b.deck, false); err != nil {
				return err
			}
			active = append(active, lit{deck: b.deck, btnName: b.name})
		}

		for len(active) > 10 {
			if err := off(active[0]); err != nil {
				return err
			}
			active = active[1:]
		}
		time.Sleep(speed)
	}

	for _, item := range active {
		if err := off(item); err != nil {
			return err
		}
	}
	return nil
}

// AnimateRainbowChase moves a group of four lit pads across both decks with
// opposing VU meters.
func (l *LEDController) AnimateRainbowChase(duration, speed time.Duration) error {
	end := time.Now().Add(duration)
	offset := 0
	for time.Now().Before(end) {
		for deck := 1; deck <= 2; deck++ {
			for i := 0; i < 8; i++ {
				pos := (i + offset + (deck-1)*4) % 16
				if err := l.SetPad(deck, i, pos < 4, PadModeHotCue, false); err != nil {
					return err
				}
			}
		}
		meter := float64(abs(8-offset%16)) / 8
		if err := l.SetLevelMeter(1, meter); err != nil {
			return err
		}
		if err := l.SetLevelMeter(2, 1-meter); err != nil {
			return err
		}
		offset++
		time.Sleep(speed)
	}
	return l.AllOff()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
