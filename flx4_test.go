package flx4

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestController(t *testing.T) (*Controller, *fakeInput, *fakeOutput) {
	t.Helper()
	in := &fakeInput{}
	out := &fakeOutput{}
	c, err := Open(WithTransport(in, out))
	require.NoError(t, err)
	return c, in, out
}

func TestEndToEndTempo(t *testing.T) {
	c, in, _ := openTestController(t)

	var mu sync.Mutex
	var events []KnobEvent
	c.OnKnob(func(e KnobEvent) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	}, FilterName(ControlTempo), FilterDeck(1))

	c.Start()
	defer c.Stop()

	in.feed(cc(0, 0, 100), cc(0, 32, 0))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(events) == 1
	}, time.Second, time.Millisecond)

	mu.Lock()
	got := events[0]
	mu.Unlock()
	require.Equal(t, ControlTempo, got.Name)
	require.Equal(t, 1, got.Deck)
	require.Equal(t, 12800, got.Raw)
	require.InDelta(t, 0.5625, got.Value, 1e-12)

	v, ok := c.GetValue(ControlTempo, 1)
	require.True(t, ok)
	require.InDelta(t, 0.5625, v, 1e-12)
}

func TestGetValueUnknown(t *testing.T) {
	c, _, _ := openTestController(t)
	_, ok := c.GetValue(ControlChFader, 1)
	require.False(t, ok)
}

func TestEventOrderPreserved(t *testing.T) {
	c, in, _ := openTestController(t)

	var mu sync.Mutex
	var pads []int
	c.OnPad(func(e PadEvent) {
		mu.Lock()
		pads = append(pads, e.Pad)
		mu.Unlock()
	}, FilterDeck(1), FilterPressed(true))

	c.Start()
	defer c.Stop()

	for i := 0; i < 8; i++ {
		in.feed(note(7, uint8(48+i), 127))
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(pads) == 8
	}, time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, pads)
}

func TestSubscriberPanicKeepsListenerAlive(t *testing.T) {
	c, in, _ := openTestController(t)

	var mu sync.Mutex
	var survived int
	id := c.OnPad(func(PadEvent) { panic("bad subscriber") })
	c.OnPad(func(PadEvent) {
		mu.Lock()
		survived++
		mu.Unlock()
	})

	c.Start()
	defer c.Stop()

	in.feed(note(7, 48, 127), note(7, 48, 0))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return survived == 2
	}, time.Second, time.Millisecond)

	select {
	case err := <-c.Errors():
		require.ErrorContains(t, err, id.String())
	case <-time.After(time.Second):
		t.Fatal("expected a subscriber failure report")
	}
}

func TestStartStopIdempotent(t *testing.T) {
	c, in, out := openTestController(t)

	c.Start()
	c.Start() // no-op

	c.Stop()
	require.Equal(t, 1, in.closeCount())
	require.Equal(t, 1, out.closed)

	c.Stop() // no-op, releases nothing twice
	require.Equal(t, 1, in.closeCount())

	// Restart is not supported.
	c.Start()
	in.feed(note(7, 48, 127))
	time.Sleep(20 * time.Millisecond)
	require.NotEmpty(t, in.queue, "a stopped controller must not drain input")
}

func TestStopBeforeStartIsNoOp(t *testing.T) {
	c, in, _ := openTestController(t)
	c.Stop()
	require.Zero(t, in.closeCount())
}
