package flx4

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// errorBuffer bounds the diagnostics channel; further reports are dropped
// (they are still logged).
const errorBuffer = 16

// subscription pairs a callback with a sparse filter. Every field named in
// the filter must equal the corresponding event field for the callback to
// run; fields the event does not have never match.
type subscription struct {
	id     uuid.UUID
	filter map[string]any
	fn     func(Event)
}

// dispatcher routes events to registered callbacks. Registration order is
// invocation order; match-all callbacks run after the type-specific ones.
type dispatcher struct {
	log  *zap.SugaredLogger
	errs chan error

	mu    sync.Mutex
	typed map[EventType][]subscription
	all   []subscription
}

func newDispatcher(log *zap.SugaredLogger) *dispatcher {
	return &dispatcher{
		log:   log,
		errs:  make(chan error, errorBuffer),
		typed: make(map[EventType][]subscription),
	}
}

func (d *dispatcher) subscribe(t EventType, filter map[string]any, fn func(Event)) uuid.UUID {
	id := uuid.New()
	d.mu.Lock()
	d.typed[t] = append(d.typed[t], subscription{id: id, filter: filter, fn: fn})
	d.mu.Unlock()
	return id
}

func (d *dispatcher) subscribeAll(fn func(Event)) uuid.UUID {
	id := uuid.New()
	d.mu.Lock()
	d.all = append(d.all, subscription{id: id, fn: fn})
	d.mu.Unlock()
	return id
}

// dispatch runs all matching callbacks for one event synchronously. The
// lock is only held while snapshotting the lists, never across a callback,
// so callbacks are free to register new subscriptions.
func (d *dispatcher) dispatch(ev Event) {
	d.mu.Lock()
	typed := make([]subscription, len(d.typed[ev.Type()]))
	copy(typed, d.typed[ev.Type()])
	all := make([]subscription, len(d.all))
	copy(all, d.all)
	d.mu.Unlock()

	for _, s := range typed {
		if matches(ev, s.filter) {
			d.invoke(s, ev)
		}
	}
	for _, s := range all {
		d.invoke(s, ev)
	}
}

// invoke isolates callback failures: a panicking subscriber is reported and
// dispatch continues with the next one.
func (d *dispatcher) invoke(s subscription, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Errorw("subscriber panicked",
				"subscription", s.id.String(),
				"event", string(ev.Type()),
				"panic", r,
			)
			err := fmt.Errorf("flx4: subscriber %s panicked on %s event: %v", s.id, ev.Type(), r)
			select {
			case d.errs <- err:
			default:
			}
		}
	}()
	s.fn(ev)
}

func matches(ev Event, filter map[string]any) bool {
	for name, want := range filter {
		got, ok := eventField(ev, name)
		if !ok || got != want {
			return false
		}
	}
	return true
}

// eventField looks up an event field by filter name. The second result is
// false when the event kind has no such field.
func eventField(ev Event, name string) (any, bool) {
	switch e := ev.(type) {
	case PadEvent:
		switch name {
		case "deck":
			return e.Deck, true
		case "pad":
			return e.Pad, true
		case "pressed":
			return e.Pressed, true
		}
	case TabEvent:
		switch name {
		case "deck":
			return e.Deck, true
		case "tab":
			return e.Tab, true
		case "pressed":
			return e.Pressed, true
		}
	case ButtonEvent:
		switch name {
		case "name":
			return e.Name, true
		case "deck":
			return e.Deck, true
		case "shifted":
			return e.Shifted, true
		case "pressed":
			return e.Pressed, true
		}
	case KnobEvent:
		switch name {
		case "name":
			return e.Name, true
		case "deck":
			return e.Deck, true
		}
	case JogEvent:
		switch name {
		case "deck":
			return e.Deck, true
		case "surface":
			return e.Surface, true
		}
	case JogTouchEvent:
		switch name {
		case "deck":
			return e.Deck, true
		}
	case BrowseEvent:
		switch name {
		case "shifted":
			return e.Shifted, true
		}
	}
	return nil, false
}

// FilterOption narrows a subscription to events whose fields equal the
// given values. Options naming a field the event kind does not have make
// the subscription match nothing.
type FilterOption func(map[string]any)

// FilterDeck matches events on the given deck (or DeckGlobal).
func FilterDeck(deck int) FilterOption {
	return func(f map[string]any) { f["deck"] = deck }
}

// FilterPad matches pad events for one pad index.
func FilterPad(pad int) FilterOption {
	return func(f map[string]any) { f["pad"] = pad }
}

// FilterTab matches tab events for one tab index.
func FilterTab(tab int) FilterOption {
	return func(f map[string]any) { f["tab"] = tab }
}

// FilterName matches button or knob events by control name.
func FilterName(name string) FilterOption {
	return func(f map[string]any) { f["name"] = name }
}

// FilterPressed matches presses (true) or releases (false) only.
func FilterPressed(pressed bool) FilterOption {
	return func(f map[string]any) { f["pressed"] = pressed }
}

// FilterShifted matches shifted or unshifted interactions only.
func FilterShifted(shifted bool) FilterOption {
	return func(f map[string]any) { f["shifted"] = shifted }
}

// FilterSurface matches jog events on one wheel surface.
func FilterSurface(surface Surface) FilterOption {
	return func(f map[string]any) { f["surface"] = surface }
}

func buildFilter(opts []FilterOption) map[string]any {
	if len(opts) == 0 {
		return nil
	}
	f := make(map[string]any, len(opts))
	for _, opt := range opts {
		opt(f)
	}
	return f
}
