package storage

import (
	"context"

	apperrors "github.com/louisbranch/flightsurety/internal/platform/errors"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/storage/filter"
)

// ErrNotFound indicates a requested journal record is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// DefaultPageSize bounds ListEvents when the caller does not pass a limit.
const DefaultPageSize = 100

// MaxPageSize caps any ListEvents page.
const MaxPageSize = 1000

// ListEventsRequest selects a page of journaled events.
type ListEventsRequest struct {
	AfterSeq uint64
	Limit    int
	// Filter is an AIP-160 expression over the event envelope.
	Filter string
}

// EventStore is the journal contract implemented by every backend.
type EventStore interface {
	AppendEvents(ctx context.Context, events []event.Event) ([]event.Event, error)
	ReplayEvents(ctx context.Context, afterSeq uint64, fn func(event.Event) error) error
	ListEvents(ctx context.Context, req ListEventsRequest) ([]event.Event, error)
	GetEventBySeq(ctx context.Context, seq uint64) (event.Event, error)
	VerifyEventIntegrity(ctx context.Context) error
	Close() error
}

// NormalizeLimit clamps a requested page size.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultPageSize
	case limit > MaxPageSize:
		return MaxPageSize
	default:
		return limit
	}
}

// CompileFilter parses req.Filter for in-memory evaluation. An empty filter
// matches everything.
func CompileFilter(req ListEventsRequest) (filter.Predicate, error) {
	return filter.ParsePredicate(req.Filter)
}
