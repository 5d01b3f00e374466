// Package bus fans journaled events out to in-process subscribers.
//
// Publish never blocks: a subscriber whose buffer is full is dropped and its
// channel closed. Dropped subscribers resume from the journal using the last
// sequence they saw.
package bus

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/louisbranch/flightsurety/internal/platform/logging"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 256

// ErrSubscriberDropped reports that a subscriber fell behind and was removed.
var ErrSubscriberDropped = errors.New("subscriber dropped: buffer full")

// Filter selects the events a subscriber receives. A nil filter receives all.
type Filter func(event.Event) bool

// Subscription is a live feed of published events.
type Subscription struct {
	id      uint64
	ch      chan event.Event
	filter  Filter
	bus     *Bus
	dropped atomic.Bool
	once    sync.Once
}

// Events returns the receive channel. It is closed on Close or drop.
func (s *Subscription) Events() <-chan event.Event {
	return s.ch
}

// Err returns ErrSubscriberDropped once the subscription was dropped.
func (s *Subscription) Err() error {
	if s.dropped.Load() {
		return ErrSubscriberDropped
	}
	return nil
}

// Close unsubscribes. Safe to call more than once.
func (s *Subscription) Close() {
	s.bus.remove(s.id)
}

func (s *Subscription) closeChannel() {
	s.once.Do(func() { close(s.ch) })
}

// Bus is an in-order, non-blocking event fan-out.
type Bus struct {
	mu     sync.Mutex
	subs   map[uint64]*Subscription
	nextID uint64
	buffer int
	closed bool
	logger *logging.Logger
}

// New creates a bus with the given per-subscriber buffer.
func New(buffer int, logger *logging.Logger) *Bus {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Bus{
		subs:   make(map[uint64]*Subscription),
		buffer: buffer,
		logger: logger.Named("bus"),
	}
}

// Subscribe registers a subscriber. Subscribing to a closed bus returns a
// subscription whose channel is already closed.
func (b *Bus) Subscribe(filter Filter) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	sub := &Subscription{
		id:     b.nextID,
		ch:     make(chan event.Event, b.buffer),
		filter: filter,
		bus:    b,
	}
	if b.closed {
		sub.closeChannel()
		return sub
	}
	b.subs[sub.id] = sub
	return sub
}

// Publish delivers events, in order, to every matching subscriber.
func (b *Bus) Publish(events []event.Event) {
	if len(events) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, sub := range b.subs {
		for _, evt := range events {
			if sub.filter != nil && !sub.filter(evt) {
				continue
			}
			select {
			case sub.ch <- evt:
				continue
			default:
			}
			sub.dropped.Store(true)
			sub.closeChannel()
			delete(b.subs, id)
			b.logger.Warn("dropping slow subscriber",
				logging.Uint64("subscriber", id),
				logging.Uint64("seq", evt.Seq),
			)
			break
		}
	}
}

// Len returns the number of live subscribers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close closes every subscription and refuses new ones.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for id, sub := range b.subs {
		sub.closeChannel()
		delete(b.subs, id)
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if sub, ok := b.subs[id]; ok {
		sub.closeChannel()
		delete(b.subs, id)
	}
}
