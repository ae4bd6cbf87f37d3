// Package flx4 is a Go library for the Pioneer DDJ-FLX4 DJ controller.
//
// It decodes the controller's MIDI protocol into typed events, dispatches
// them to filtered subscribers, and drives the controller's LEDs:
//
//	c, err := flx4.Open()
//	if err != nil {
//		log.Fatal(err)
//	}
//	c.OnPad(func(e flx4.PadEvent) {
//		if e.Pressed {
//			c.LEDs.SetPad(e.Deck, e.Pad, true, flx4.PadModeHotCue, false)
//		}
//	}, flx4.FilterDeck(1))
//	c.Start()
//	defer c.Stop()
package flx4

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TRC-Loop/flx4go/midiport"
)

const (
	// DefaultPortKeyword is the substring used to locate the
	// controller's MIDI ports.
	DefaultPortKeyword = "FLX4"

	pollInterval = time.Millisecond
	drainBatch   = 128
	stopTimeout  = 2 * time.Second
)

type options struct {
	keyword string
	log     *zap.SugaredLogger
	in      midiport.Input
	out     midiport.Output
}

// Option configures a Controller at Open time.
type Option func(*options)

// WithPortKeyword overrides the substring used to locate the MIDI ports.
func WithPortKeyword(keyword string) Option {
	return func(o *options) { o.keyword = keyword }
}

// WithLogger sets the logger used for lifecycle and diagnostic messages.
// The default is a no-op logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(o *options) { o.log = log }
}

// WithTransport supplies the input and output directly, skipping port
// discovery. Intended for tests and custom transports.
func WithTransport(in midiport.Input, out midiport.Output) Option {
	return func(o *options) {
		o.in = in
		o.out = out
	}
}

type lifecycle int

const (
	stateIdle lifecycle = iota
	stateRunning
	stateStopped
)

type valueKey struct {
	name string
	deck int
}

// Controller is the high-level interface to a DDJ-FLX4. Open both locates
// the device's MIDI ports and prepares the LED controller; Start launches
// the listener goroutine that feeds subscriber callbacks.
type Controller struct {
	// LEDs drives the pads, buttons and VU meters.
	LEDs *LEDController

	in   midiport.Input
	out  midiport.Output
	log  *zap.SugaredLogger
	reg  *registry
	disp *dispatcher
	dec  *decoder

	mu     sync.Mutex
	values map[valueKey]float64
	state  lifecycle
	quit   chan struct{}
	done   chan struct{}
}

// Open connects to the controller. Without WithTransport it opens the
// first MIDI input and output ports whose names contain the port keyword
// and fails, listing the available ports, when either is missing.
func Open(opts ...Option) (*Controller, error) {
	o := options{
		keyword: DefaultPortKeyword,
		log:     zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	in, out := o.in, o.out
	if in == nil || out == nil {
		var err error
		if in, err = midiport.OpenInput(o.keyword); err != nil {
			return nil, err
		}
		if out, err = midiport.OpenOutput(o.keyword); err != nil {
			_ = in.Close()
			return nil, err
		}
	}

	reg := defaultRegistry
	c := &Controller{
		in:     in,
		out:    out,
		log:    o.log,
		reg:    reg,
		disp:   newDispatcher(o.log),
		values: make(map[valueKey]float64),
	}
	c.dec = newDecoder(reg, c.storeValue)
	c.LEDs = newLEDController(out, reg)
	return c, nil
}

// storeValue is the decoder's latest-value hook; it runs on the listener
// goroutine.
func (c *Controller) storeValue(name string, deck int, value float64) {
	c.mu.Lock()
	c.values[valueKey{name: name, deck: deck}] = value
	c.mu.Unlock()
}

// GetValue returns the last known normalized value of a knob or fader and
// whether one has been observed since the controller was opened. deck is
// DeckGlobal for global controls.
func (c *Controller) GetValue(name string, deck int) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[valueKey{name: name, deck: deck}]
	return v, ok
}

// Errors exposes subscriber failures. Reports are dropped when the buffer
// is full; every failure is also logged.
func (c *Controller) Errors() <-chan error {
	return c.disp.errs
}

// ---------------------------------------------------------------------------
// Callback registration
// ---------------------------------------------------------------------------

// OnPad registers a callback for performance pad events.
func (c *Controller) OnPad(fn func(PadEvent), filters ...FilterOption) uuid.UUID {
	return c.disp.subscribe(EventPad, buildFilter(filters), func(ev Event) { fn(ev.(PadEvent)) })
}

// OnTab registers a callback for pad-mode tab key events.
func (c *Controller) OnTab(fn func(TabEvent), filters ...FilterOption) uuid.UUID {
	return c.disp.subscribe(EventTab, buildFilter(filters), func(ev Event) { fn(ev.(TabEvent)) })
}

// OnButton registers a callback for named button events.
func (c *Controller) OnButton(fn func(ButtonEvent), filters ...FilterOption) uuid.UUID {
	return c.disp.subscribe(EventButton, buildFilter(filters), func(ev Event) { fn(ev.(ButtonEvent)) })
}

// OnKnob registers a callback for absolute knob and fader events.
func (c *Controller) OnKnob(fn func(KnobEvent), filters ...FilterOption) uuid.UUID {
	return c.disp.subscribe(EventKnob, buildFilter(filters), func(ev Event) { fn(ev.(KnobEvent)) })
}

// OnJog registers a callback for jog wheel rotation events.
func (c *Controller) OnJog(fn func(JogEvent), filters ...FilterOption) uuid.UUID {
	return c.disp.subscribe(EventJog, buildFilter(filters), func(ev Event) { fn(ev.(JogEvent)) })
}

// OnJogTouch registers a callback for jog wheel touch events.
func (c *Controller) OnJogTouch(fn func(JogTouchEvent), filters ...FilterOption) uuid.UUID {
	return c.disp.subscribe(EventJogTouch, buildFilter(filters), func(ev Event) { fn(ev.(JogTouchEvent)) })
}

// OnBrowse registers a callback for browse encoder events.
func (c *Controller) OnBrowse(fn func(BrowseEvent), filters ...FilterOption) uuid.UUID {
	return c.disp.subscribe(EventBrowse, buildFilter(filters), func(ev Event) { fn(ev.(BrowseEvent)) })
}

// OnAny registers a callback that fires for every event regardless of
// type, after the type-specific callbacks for that event.
func (c *Controller) OnAny(fn func(Event)) uuid.UUID {
	return c.disp.subscribeAll(fn)
}

// ---------------------------------------------------------------------------
// Listener lifecycle
// ---------------------------------------------------------------------------

// Start launches the background listener goroutine. Calling Start on a
// running controller is a no-op; a stopped controller cannot be restarted.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != stateIdle {
		return
	}
	c.state = stateRunning
	c.quit = make(chan struct{})
	c.done = make(chan struct{})
	go c.loop(c.quit, c.done)
	c.log.Infow("listener started")
}

// loop drains pending messages in bounded batches and dispatches the
// decoded events. All decoding and dispatch happens here, so events are
// processed strictly in arrival order.
func (c *Controller) loop(quit, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-quit:
			return
		default:
		}
		for _, m := range c.in.Drain(drainBatch) {
			if ev, ok := c.dec.decode(m); ok {
				c.disp.dispatch(ev)
			}
		}
		time.Sleep(pollInterval)
	}
}

// Stop asks the listener goroutine to exit, waits briefly for it, and
// closes the MIDI ports. Safe to call from any goroutine; calling Stop
// when not running is a no-op, so the ports are released exactly once.
// The LEDController is unusable afterwards.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.state != stateRunning {
		c.mu.Unlock()
		return
	}
	c.state = stateStopped
	quit, done := c.quit, c.done
	c.mu.Unlock()

	close(quit)
	select {
	case <-done:
	case <-time.After(stopTimeout):
		c.log.Warnw("listener did not exit in time, closing ports anyway")
	}

	if err := c.in.Close(); err != nil {
		c.log.Warnw("closing input port", "error", err)
	}
	if err := c.out.Close(); err != nil {
		c.log.Warnw("closing output port", "error", err)
	}
	c.log.Infow("listener stopped")
}
