package termgrid

import "sync"

// eventPump is the single queue PollEvent drains. Producers are the
// backend's decoded-input feed, the resize notifier, Interrupt(), and fatal
// backend errors. The queue has no capacity limit: push never blocks and
// never drops an event while the pump is open. Delivery is strictly FIFO
// in enqueue order; consecutive
// Resize events are coalesced into the most recent one so a flurry of
// SIGWINCH deliveries doesn't pile up behind slow consumers.
type eventPump struct {
	mu      sync.Mutex
	items   []Event
	notify  chan struct{}
	closed  bool
}

func newEventPump() *eventPump {
	return &eventPump{notify: make(chan struct{}, 1)}
}

func (p *eventPump) push(ev Event) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	if ev.Type == EventResize && len(p.items) > 0 && p.items[len(p.items)-1].Type == EventResize {
		p.items[len(p.items)-1] = ev
	} else {
		p.items = append(p.items, ev)
	}
	p.mu.Unlock()
	p.wake()
}

// pushInterrupt posts a single Interrupt event, de-duplicated: if one is
// already queued, this call is a no-op rather than piling up interrupts.
func (p *eventPump) pushInterrupt() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	for _, ev := range p.items {
		if ev.Type == EventInterrupt {
			p.mu.Unlock()
			return
		}
	}
	p.items = append(p.items, Event{Type: EventInterrupt})
	p.mu.Unlock()
	p.wake()
}

func (p *eventPump) wake() {
	select {
	case p.notify <- struct{}{}:
	default:
	}
}

// pop blocks until an event is available, returning it in the order it was
// pushed (P6). Once drain has been called and the queue is empty, pop
// stops blocking and returns an Interrupt on every subsequent call, so a
// goroutine parked in PollEvent across Close() is guaranteed to wake.
func (p *eventPump) pop() Event {
	for {
		p.mu.Lock()
		if len(p.items) > 0 {
			ev := p.items[0]
			p.items = p.items[1:]
			p.mu.Unlock()
			return ev
		}
		if p.closed {
			p.mu.Unlock()
			return Event{Type: EventInterrupt}
		}
		p.mu.Unlock()
		<-p.notify
	}
}

// tryPop returns (ev, true) without blocking if an event is already queued.
func (p *eventPump) tryPop() (Event, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.items) == 0 {
		return Event{}, false
	}
	ev := p.items[0]
	p.items = p.items[1:]
	return ev, true
}

// drain marks the pump closed and wakes any blocked pop with a final
// Interrupt so PollEvent doesn't hang forever past Close (Draining state
// in spec §4.G).
func (p *eventPump) drain() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.wake()
}
