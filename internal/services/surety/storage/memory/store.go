// Package memory keeps the surety journal in process memory. Events are
// sealed exactly as the sqlite journal seals them, so integrity checks and
// replay behave the same.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/storage"
	"github.com/louisbranch/flightsurety/internal/services/surety/storage/integrity"
)

// Store is an in-memory event journal.
type Store struct {
	mu      sync.RWMutex
	keyring *integrity.Keyring
	events  []event.Event
}

// New creates an empty journal sealed with keyring.
func New(keyring *integrity.Keyring) (*Store, error) {
	if keyring == nil {
		return nil, fmt.Errorf("event integrity keyring is required")
	}
	return &Store{keyring: keyring}, nil
}

// AppendEvents seals and appends a batch. Either every event is stored or
// none is.
func (s *Store) AppendEvents(ctx context.Context, events []event.Event) ([]event.Event, error) {
	if len(events) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := ""
	if n := len(s.events); n > 0 {
		prev = s.events[n-1].ChainHash
	}
	base := uint64(len(s.events))
	stored := make([]event.Event, len(events))
	for i, evt := range events {
		sealed, err := integrity.Seal(s.keyring, evt, base+uint64(i)+1, prev)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		prev = sealed.ChainHash
		stored[i] = sealed
	}
	s.events = append(s.events, stored...)
	return stored, nil
}

// ReplayEvents calls fn for each event after afterSeq, in order.
func (s *Store) ReplayEvents(ctx context.Context, afterSeq uint64, fn func(event.Event) error) error {
	s.mu.RLock()
	var tail []event.Event
	if afterSeq < uint64(len(s.events)) {
		tail = append(tail, s.events[afterSeq:]...)
	}
	s.mu.RUnlock()

	for _, evt := range tail {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(evt); err != nil {
			return err
		}
	}
	return nil
}

// ListEvents returns a filtered page of events after req.AfterSeq.
func (s *Store) ListEvents(ctx context.Context, req storage.ListEventsRequest) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	match, err := storage.CompileFilter(req)
	if err != nil {
		return nil, err
	}
	limit := storage.NormalizeLimit(req.Limit)

	s.mu.RLock()
	defer s.mu.RUnlock()
	var page []event.Event
	for i := req.AfterSeq; i < uint64(len(s.events)) && len(page) < limit; i++ {
		if evt := s.events[i]; match(evt) {
			page = append(page, evt)
		}
	}
	return page, nil
}

// GetEventBySeq returns the event at seq.
func (s *Store) GetEventBySeq(ctx context.Context, seq uint64) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if seq == 0 || seq > uint64(len(s.events)) {
		return event.Event{}, storage.ErrNotFound
	}
	return s.events[seq-1], nil
}

// VerifyEventIntegrity walks the whole chain.
func (s *Store) VerifyEventIntegrity(ctx context.Context) error {
	verifier := integrity.NewChainVerifier(s.keyring)
	return s.ReplayEvents(ctx, 0, verifier.Verify)
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
