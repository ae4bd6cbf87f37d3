package midiport

import (
	"fmt"
	"strings"
	"sync"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // register rtmidi driver
)

// ErrPortNotFound is returned when no MIDI port matches the requested keyword.
var ErrPortNotFound = fmt.Errorf("midiport: no matching MIDI port")

// maxQueued bounds the pending-message queue; if the consumer stalls,
// the oldest messages are dropped first.
const maxQueued = 1024

// InputNames returns the names of all available MIDI input ports.
func InputNames() []string {
	ins := midi.GetInPorts()
	names := make([]string, 0, len(ins))
	for _, in := range ins {
		names = append(names, in.String())
	}
	return names
}

// OutputNames returns the names of all available MIDI output ports.
func OutputNames() []string {
	outs := midi.GetOutPorts()
	names := make([]string, 0, len(outs))
	for _, out := range outs {
		names = append(names, out.String())
	}
	return names
}

// CloseDriver releases the underlying MIDI driver. Call once at process
// shutdown, after all ports are closed.
func CloseDriver() {
	midi.CloseDriver()
}

func findIn(keyword string) (drivers.In, error) {
	for _, in := range midi.GetInPorts() {
		if strings.Contains(in.String(), keyword) {
			return in, nil
		}
	}
	return nil, fmt.Errorf("%w: no input port matching %q (available: %v)",
		ErrPortNotFound, keyword, InputNames())
}

func findOut(keyword string) (drivers.Out, error) {
	for _, out := range midi.GetOutPorts() {
		if strings.Contains(out.String(), keyword) {
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: no output port matching %q (available: %v)",
		ErrPortNotFound, keyword, OutputNames())
}

type input struct {
	in   drivers.In
	stop func()

	mu    sync.Mutex
	queue []Message
}

// OpenInput opens the first MIDI input port whose name contains keyword and
// starts buffering its messages until drained.
func OpenInput(keyword string) (Input, error) {
	in, err := findIn(keyword)
	if err != nil {
		return nil, err
	}
	p := &input{in: in}
	stop, err := midi.ListenTo(in, p.onMessage)
	if err != nil {
		return nil, fmt.Errorf("midiport: listen on %q: %w", in.String(), err)
	}
	p.stop = stop
	return p, nil
}

func (p *input) onMessage(msg midi.Message, _ int32) {
	var ch, key, vel uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		p.push(Message{Kind: KindNote, Channel: ch, Number: key, Value: vel})
	case msg.GetNoteEnd(&ch, &key):
		// Covers both note-off and note-on with velocity 0.
		p.push(Message{Kind: KindNote, Channel: ch, Number: key})
	case msg.GetControlChange(&ch, &key, &vel):
		p.push(Message{Kind: KindControlChange, Channel: ch, Number: key, Value: vel})
	}
}

func (p *input) push(m Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) >= maxQueued {
		p.queue = p.queue[1:]
	}
	p.queue = append(p.queue, m)
}

func (p *input) Drain(max int) []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) == 0 {
		return nil
	}
	n := len(p.queue)
	if max > 0 && n > max {
		n = max
	}
	batch := make([]Message, n)
	copy(batch, p.queue[:n])
	p.queue = append(p.queue[:0], p.queue[n:]...)
	return batch
}

func (p *input) Close() error {
	p.stop()
	return p.in.Close()
}

type output struct {
	out  drivers.Out
	send func(midi.Message) error
}

// OpenOutput opens the first MIDI output port whose name contains keyword.
func OpenOutput(keyword string) (Output, error) {
	out, err := findOut(keyword)
	if err != nil {
		return nil, err
	}
	send, err := midi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("midiport: open sender for %q: %w", out.String(), err)
	}
	return &output{out: out, send: send}, nil
}

func (p *output) Send(m Message) error {
	switch m.Kind {
	case KindNote:
		return p.send(midi.NoteOn(m.Channel, m.Number, m.Value))
	case KindControlChange:
		return p.send(midi.ControlChange(m.Channel, m.Number, m.Value))
	}
	return fmt.Errorf("midiport: unknown message kind %d", m.Kind)
}

func (p *output) Close() error {
	return p.out.Close()
}
