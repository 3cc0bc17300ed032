package termgrid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPumpFIFOOrder(t *testing.T) {
	p := newEventPump()
	p.push(Event{Type: EventKey, Ch: 'a'})
	p.push(Event{Type: EventKey, Ch: 'b'})
	p.push(Event{Type: EventKey, Ch: 'c'})

	assert.Equal(t, 'a', p.pop().Ch)
	assert.Equal(t, 'b', p.pop().Ch)
	assert.Equal(t, 'c', p.pop().Ch)
}

func TestPumpCoalescesConsecutiveResize(t *testing.T) {
	p := newEventPump()
	p.push(Event{Type: EventKey, Ch: 'a'})
	p.push(Event{Type: EventResize, Width: 10, Height: 10})
	p.push(Event{Type: EventResize, Width: 20, Height: 20})
	p.push(Event{Type: EventKey, Ch: 'b'})

	ev := p.pop()
	assert.Equal(t, 'a', ev.Ch)

	ev = p.pop()
	require.Equal(t, EventResize, ev.Type)
	assert.Equal(t, 20, ev.Width)
	assert.Equal(t, 20, ev.Height)

	ev = p.pop()
	assert.Equal(t, 'b', ev.Ch)
}

func TestPumpDoesNotCoalesceResizeAcrossOtherEvents(t *testing.T) {
	p := newEventPump()
	p.push(Event{Type: EventResize, Width: 10, Height: 10})
	p.push(Event{Type: EventKey, Ch: 'x'})
	p.push(Event{Type: EventResize, Width: 20, Height: 20})

	assert.Equal(t, EventResize, p.pop().Type)
	assert.Equal(t, 'x', p.pop().Ch)
	assert.Equal(t, EventResize, p.pop().Type)
}

func TestPumpInterruptDeduplicates(t *testing.T) {
	p := newEventPump()
	p.pushInterrupt()
	p.pushInterrupt()
	p.pushInterrupt()

	ev, ok := p.tryPop()
	require.True(t, ok)
	assert.Equal(t, EventInterrupt, ev.Type)

	_, ok = p.tryPop()
	assert.False(t, ok, "a second interrupt should not have been queued")
}

func TestPumpTryPopNonBlocking(t *testing.T) {
	p := newEventPump()
	_, ok := p.tryPop()
	assert.False(t, ok)

	p.push(Event{Type: EventKey, Ch: 'z'})
	ev, ok := p.tryPop()
	require.True(t, ok)
	assert.Equal(t, 'z', ev.Ch)
}

func TestPumpPopBlocksUntilPush(t *testing.T) {
	p := newEventPump()
	done := make(chan Event, 1)
	go func() { done <- p.pop() }()

	select {
	case <-done:
		t.Fatal("pop returned before any event was pushed")
	case <-time.After(20 * time.Millisecond):
	}

	p.push(Event{Type: EventKey, Ch: 'q'})
	select {
	case ev := <-done:
		assert.Equal(t, 'q', ev.Ch)
	case <-time.After(time.Second):
		t.Fatal("pop did not unblock after push")
	}
}

func TestPumpPushAfterDrainIsNoop(t *testing.T) {
	p := newEventPump()
	p.drain()
	p.push(Event{Type: EventKey, Ch: 'a'})
	_, ok := p.tryPop()
	assert.False(t, ok)
}

func TestPumpPopUnblocksOnDrain(t *testing.T) {
	p := newEventPump()
	done := make(chan Event, 1)
	go func() { done <- p.pop() }()

	select {
	case <-done:
		t.Fatal("pop returned before drain")
	case <-time.After(20 * time.Millisecond):
	}

	p.drain()
	select {
	case ev := <-done:
		assert.Equal(t, EventInterrupt, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("pop did not unblock after drain")
	}
}
