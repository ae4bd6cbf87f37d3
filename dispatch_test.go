package flx4

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testDispatcher() *dispatcher {
	return newDispatcher(zap.NewNop().Sugar())
}

func TestDispatchFilterMatching(t *testing.T) {
	d := testDispatcher()

	var filtered, unfiltered []KnobEvent
	d.subscribe(EventKnob, map[string]any{"name": ControlChFader, "deck": 1}, func(ev Event) {
		filtered = append(filtered, ev.(KnobEvent))
	})
	d.subscribe(EventKnob, nil, func(ev Event) {
		unfiltered = append(unfiltered, ev.(KnobEvent))
	})

	d.dispatch(KnobEvent{Name: ControlChFader, Deck: 1, Value: 0.5})
	d.dispatch(KnobEvent{Name: ControlChFader, Deck: 2, Value: 0.5})
	d.dispatch(KnobEvent{Name: ControlCrossfader, Deck: DeckGlobal, Value: 0.5})

	require.Len(t, filtered, 1)
	require.Equal(t, 1, filtered[0].Deck)
	require.Len(t, unfiltered, 3)
}

func TestDispatchFilterFieldAbsentNeverMatches(t *testing.T) {
	d := testDispatcher()

	called := false
	// Browse events have no deck field, so a deck filter can never match.
	d.subscribe(EventBrowse, map[string]any{"deck": 1}, func(Event) { called = true })
	d.dispatch(BrowseEvent{Steps: 1})
	require.False(t, called)
}

func TestDispatchOrdering(t *testing.T) {
	d := testDispatcher()

	var order []string
	d.subscribe(EventPad, nil, func(Event) { order = append(order, "first") })
	d.subscribe(EventPad, nil, func(Event) { order = append(order, "second") })
	d.subscribeAll(func(Event) { order = append(order, "any") })

	d.dispatch(PadEvent{Deck: 1, Pad: 0, Pressed: true})
	require.Equal(t, []string{"first", "second", "any"}, order)
}

func TestDispatchAnyReceivesEveryType(t *testing.T) {
	d := testDispatcher()

	var types []EventType
	d.subscribeAll(func(ev Event) { types = append(types, ev.Type()) })

	d.dispatch(PadEvent{})
	d.dispatch(TabEvent{})
	d.dispatch(ButtonEvent{})
	d.dispatch(KnobEvent{})
	d.dispatch(JogEvent{})
	d.dispatch(JogTouchEvent{})
	d.dispatch(BrowseEvent{})

	require.Equal(t, []EventType{
		EventPad, EventTab, EventButton, EventKnob, EventJog, EventJogTouch, EventBrowse,
	}, types)
}

func TestDispatchPanicIsolation(t *testing.T) {
	d := testDispatcher()

	id := d.subscribe(EventPad, nil, func(Event) { panic("boom") })
	survived := false
	d.subscribe(EventPad, nil, func(Event) { survived = true })

	require.NotPanics(t, func() {
		d.dispatch(PadEvent{Deck: 1, Pressed: true})
	})
	require.True(t, survived, "later subscribers must still run")

	select {
	case err := <-d.errs:
		require.ErrorContains(t, err, id.String())
		require.ErrorContains(t, err, "pad")
	default:
		t.Fatal("expected a subscriber failure report")
	}
}

func TestDispatchRegistrationDuringCallback(t *testing.T) {
	d := testDispatcher()

	registered := false
	d.subscribe(EventPad, nil, func(Event) {
		if !registered {
			registered = true
			d.subscribe(EventPad, nil, func(Event) {})
		}
	})

	// Must not deadlock: the registry lock is not held across callbacks.
	d.dispatch(PadEvent{})
	d.dispatch(PadEvent{})
	require.True(t, registered)
}

func TestSubscriptionIDsUnique(t *testing.T) {
	d := testDispatcher()
	a := d.subscribe(EventPad, nil, func(Event) {})
	b := d.subscribe(EventPad, nil, func(Event) {})
	c := d.subscribeAll(func(Event) {})
	require.NotEqual(t, a, b)
	require.NotEqual(t, b, c)
	require.NotEqual(t, a, c)
}
