package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/flightsurety/internal/platform/errors"
	"github.com/louisbranch/flightsurety/internal/platform/logging"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/aggregate"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/command"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/payout"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
)

const tracerName = "github.com/louisbranch/flightsurety/internal/services/surety/domain/engine"

var (
	// ErrCommandRegistryRequired indicates a missing command registry.
	ErrCommandRegistryRequired = errors.New("command registry is required")
	// ErrEventRegistryRequired indicates a missing event registry.
	ErrEventRegistryRequired = errors.New("event registry is required")
	// ErrJournalRequired indicates a missing journal.
	ErrJournalRequired = errors.New("event journal is required")
)

// EventJournal persists events. AppendEvents stores a batch atomically and
// returns it with sequence and integrity fields assigned.
type EventJournal interface {
	AppendEvents(ctx context.Context, events []event.Event) ([]event.Event, error)
}

// EventSource streams journaled events in sequence order.
type EventSource interface {
	ReplayEvents(ctx context.Context, afterSeq uint64, fn func(event.Event) error) error
}

// Publisher receives events after they are journaled and folded.
type Publisher interface {
	Publish(events []event.Event)
}

// Payer releases withdrawn value to a passenger.
type Payer interface {
	Release(ctx context.Context, passenger principal.Principal, amount principal.Amount) error
}

// PayerFunc adapts a function to Payer.
type PayerFunc func(ctx context.Context, passenger principal.Principal, amount principal.Amount) error

// Release calls f.
func (f PayerFunc) Release(ctx context.Context, passenger principal.Principal, amount principal.Amount) error {
	return f(ctx, passenger, amount)
}

// Options configures a Handler.
type Options struct {
	Registries aggregate.Registries
	Journal    EventJournal
	Publisher  Publisher
	Payer      Payer
	Logger     *logging.Logger
	Tracer     trace.Tracer
	Now        func() time.Time
}

// Result captures execution outcomes.
type Result struct {
	Decision command.Decision
	// Events are the journaled events, with sequence numbers.
	Events []event.Event
}

// Handler serializes command execution against the consortium state.
type Handler struct {
	mu        sync.RWMutex
	state     aggregate.State
	commands  *command.Registry
	events    *event.Registry
	journal   EventJournal
	publisher Publisher
	payer     Payer
	logger    *logging.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// New creates a handler over an empty state. Call Replay to load history.
func New(opts Options) (*Handler, error) {
	if opts.Registries.Commands == nil {
		return nil, ErrCommandRegistryRequired
	}
	if opts.Registries.Events == nil {
		return nil, ErrEventRegistryRequired
	}
	if opts.Journal == nil {
		return nil, ErrJournalRequired
	}
	h := &Handler{
		state:     aggregate.NewState(),
		commands:  opts.Registries.Commands,
		events:    opts.Registries.Events,
		journal:   opts.Journal,
		publisher: opts.Publisher,
		payer:     opts.Payer,
		logger:    opts.Logger.Named("engine"),
		tracer:    opts.Tracer,
		now:       opts.Now,
	}
	if h.tracer == nil {
		h.tracer = otel.Tracer(tracerName)
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h, nil
}

// Replay folds every journaled event after the current state.
func (h *Handler) Replay(ctx context.Context, source EventSource) (int, error) {
	ctx, span := h.tracer.Start(ctx, "engine.Replay")
	defer span.End()

	h.mu.Lock()
	defer h.mu.Unlock()
	count := 0
	err := source.ReplayEvents(ctx, h.state.LastSeq, func(evt event.Event) error {
		if _, ok := h.events.Definition(evt.Type); !ok {
			return fmt.Errorf("replay seq %d: %w: %s", evt.Seq, event.ErrTypeUnknown, evt.Type)
		}
		h.state = aggregate.Fold(h.state, evt)
		count++
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return count, fmt.Errorf("replay events: %w", err)
	}
	span.SetAttributes(attribute.Int("surety.replayed", count))
	h.logger.Info("journal replayed", logging.Int("events", count), logging.Uint64("last_seq", h.state.LastSeq))
	return count, nil
}

// Bootstrap assigns the owner and first airline on an empty journal. It is a
// no-op once an owner exists.
func (h *Handler) Bootstrap(ctx context.Context, owner, firstAirline principal.Principal) error {
	payloadJSON, err := event.CanonicalJSON(aggregate.GenesisPayload{Owner: owner, FirstAirline: firstAirline})
	if err != nil {
		return fmt.Errorf("encode genesis: %w", err)
	}
	_, err = h.execute(ctx, command.Command{
		Type:        aggregate.CommandTypeGenesis,
		ActorID:     owner,
		PayloadJSON: payloadJSON,
	}, true)
	return err
}

// Execute runs a command. A domain rejection is returned as an
// *errors.Error carrying the rejection code, alongside the decision.
func (h *Handler) Execute(ctx context.Context, cmd command.Command) (Result, error) {
	return h.execute(ctx, cmd, false)
}

func (h *Handler) execute(ctx context.Context, cmd command.Command, internal bool) (Result, error) {
	ctx, span := h.tracer.Start(ctx, "engine.Execute", trace.WithAttributes(
		attribute.String("surety.command", string(cmd.Type)),
		attribute.String("surety.actor", string(cmd.ActorID)),
	))
	defer span.End()

	validated, err := h.commands.ValidateForDecision(cmd)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Result{}, apperrors.Wrap(apperrors.CodeInvalidArgument, err.Error(), err)
	}
	cmd = validated
	if def, _ := h.commands.Definition(cmd.Type); def.Internal && !internal {
		return Result{}, apperrors.New(apperrors.CodeInvalidArgument, "command type is internal: "+string(cmd.Type))
	}

	h.mu.Lock()
	decision := aggregate.Decide(h.state, cmd, h.now)
	if decision.Rejected() {
		h.mu.Unlock()
		rejection := decision.Rejections[0]
		span.SetAttributes(attribute.String("surety.rejection", rejection.Code))
		h.logger.Info("command rejected",
			logging.String("command", string(cmd.Type)),
			logging.String("actor", string(cmd.ActorID)),
			logging.String("code", rejection.Code),
			logging.String("reason", rejection.Message),
		)
		return Result{Decision: decision}, apperrors.WithMetadata(apperrors.Code(rejection.Code), rejection.Message, rejection.Metadata)
	}

	stored, err := h.commit(ctx, decision.Events)
	if err != nil {
		h.mu.Unlock()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.logger.Error("commit failed", logging.String("command", string(cmd.Type)), logging.Error(err))
		return Result{Decision: decision}, apperrors.Wrap(apperrors.CodeUnknown, "commit events", err)
	}
	h.mu.Unlock()

	span.SetAttributes(attribute.Int("surety.events", len(stored)))
	h.logger.Debug("command accepted",
		logging.String("command", string(cmd.Type)),
		logging.String("actor", string(cmd.ActorID)),
		logging.Int("events", len(stored)),
	)
	h.release(ctx, stored)
	decision.Events = stored
	return Result{Decision: decision, Events: stored}, nil
}

// commit validates, journals, folds and publishes events. Callers hold h.mu.
func (h *Handler) commit(ctx context.Context, events []event.Event) ([]event.Event, error) {
	if len(events) == 0 {
		return nil, nil
	}
	vetted := make([]event.Event, 0, len(events))
	for _, evt := range events {
		validated, err := h.events.ValidateForAppend(evt)
		if err != nil {
			return nil, err
		}
		vetted = append(vetted, validated)
	}
	stored, err := h.journal.AppendEvents(ctx, vetted)
	if err != nil {
		return nil, fmt.Errorf("append events: %w", err)
	}
	for _, evt := range stored {
		h.state = aggregate.Fold(h.state, evt)
	}
	if h.publisher != nil {
		h.publisher.Publish(stored)
	}
	return stored, nil
}

// release pays out withdrawals that are already journaled and folded.
// A failed release is logged; the withdrawal stays recorded.
func (h *Handler) release(ctx context.Context, events []event.Event) {
	if h.payer == nil {
		return
	}
	for _, evt := range events {
		if evt.Type != payout.EventTypeWithdrawn {
			continue
		}
		var payload payout.WithdrawnPayload
		if err := decodePayload(evt, &payload); err != nil {
			h.logger.Error("decode withdrawal", logging.Uint64("seq", evt.Seq), logging.Error(err))
			continue
		}
		if err := h.payer.Release(ctx, payload.Passenger, payload.Amount); err != nil {
			h.logger.Error("release payout",
				logging.String("passenger", string(payload.Passenger)),
				logging.String("amount", payload.Amount.String()),
				logging.Uint64("seq", evt.Seq),
				logging.Error(err),
			)
		}
	}
}
