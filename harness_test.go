package flx4

import (
	"sync"

	"github.com/TRC-Loop/flx4go/midiport"
)

// fakeInput queues messages for the listener loop to drain.
type fakeInput struct {
	mu     sync.Mutex
	queue  []midiport.Message
	closed int
}

func (f *fakeInput) feed(msgs ...midiport.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, msgs...)
}

func (f *fakeInput) Drain(max int) []midiport.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.queue)
	if max > 0 && n > max {
		n = max
	}
	batch := make([]midiport.Message, n)
	copy(batch, f.queue[:n])
	f.queue = f.queue[n:]
	return batch
}

func (f *fakeInput) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeInput) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// fakeOutput records every sent message.
type fakeOutput struct {
	mu     sync.Mutex
	sent   []midiport.Message
	closed int
}

func (f *fakeOutput) Send(m midiport.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, m)
	return nil
}

func (f *fakeOutput) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeOutput) messages() []midiport.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]midiport.Message, len(f.sent))
	copy(out, f.sent)
	return out
}

func (f *fakeOutput) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
}

func note(ch, num, vel uint8) midiport.Message {
	return midiport.Message{Kind: midiport.KindNote, Channel: ch, Number: num, Value: vel}
}

func cc(ch, num, val uint8) midiport.Message {
	return midiport.Message{Kind: midiport.KindControlChange, Channel: ch, Number: num, Value: val}
}
