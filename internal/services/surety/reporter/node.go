// Package reporter runs oracle reporter nodes against the surety service.
//
// A node registers once, learns its index set, then follows oracle.request
// events and answers the ones addressed to one of its indexes.
package reporter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	apperrors "github.com/louisbranch/flightsurety/internal/platform/errors"
	"github.com/louisbranch/flightsurety/internal/platform/logging"
	"github.com/louisbranch/flightsurety/internal/services/surety/api/grpc/suretyv1"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/flight"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/oracle"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
)

// requestFilter selects the events a node follows.
var requestFilter = fmt.Sprintf("type = %q", oracle.EventTypeRequest)

const (
	defaultRetryBackoff  = 500 * time.Millisecond
	defaultRetryMaxDelay = 10 * time.Second
)

// Oracle is the slice of the surety client a node uses.
type Oracle interface {
	Principal() principal.Principal
	Reporter(ctx context.Context, id principal.Principal) (suretyv1.ReporterResponse, error)
	RegisterReporter(ctx context.Context, fee principal.Amount) ([]int, error)
	SubmitResponse(ctx context.Context, key flight.Key, index int, status flight.Status) ([]event.Event, error)
	Subscribe(ctx context.Context, afterSeq uint64, filterExpr string, fn func(event.Event) error) (uint64, error)
}

// Config controls a node.
type Config struct {
	// Fee is attached to registration. Zero means oracle.RegistrationFee.
	Fee principal.Amount
	// AfterSeq is where the request feed starts.
	AfterSeq      uint64
	RetryBackoff  time.Duration
	RetryMaxDelay time.Duration
}

func (c Config) normalized() Config {
	if c.Fee == 0 {
		c.Fee = oracle.RegistrationFee
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = defaultRetryBackoff
	}
	if c.RetryMaxDelay < c.RetryBackoff {
		c.RetryMaxDelay = max(defaultRetryMaxDelay, c.RetryBackoff)
	}
	return c
}

// Node is one simulated oracle reporter.
type Node struct {
	oracle   Oracle
	strategy Strategy
	cfg      Config
	logger   *logging.Logger
	indexes  []int
	answered int
}

// New creates a node.
func New(oracle Oracle, strategy Strategy, cfg Config, logger *logging.Logger) *Node {
	return &Node{
		oracle:   oracle,
		strategy: strategy,
		cfg:      cfg.normalized(),
		logger:   logger.Named("reporter").With(logging.String("reporter", string(oracle.Principal()))),
	}
}

// Indexes returns the node's index set once registered.
func (n *Node) Indexes() []int {
	return slices.Clone(n.indexes)
}

// Answered counts the reports that produced events.
func (n *Node) Answered() int {
	return n.answered
}

// Register registers the node, or adopts the index set of an earlier
// registration of the same principal.
func (n *Node) Register(ctx context.Context) error {
	existing, err := n.oracle.Reporter(ctx, n.oracle.Principal())
	switch {
	case err == nil:
		n.indexes = existing.Indexes
		n.logger.Info("reporter already registered", logging.Any("indexes", n.indexes))
		return nil
	case apperrors.CodeOf(err) != apperrors.CodeNotFound:
		return fmt.Errorf("look up reporter: %w", err)
	}

	indexes, err := n.oracle.RegisterReporter(ctx, n.cfg.Fee)
	if err != nil {
		return fmt.Errorf("register reporter: %w", err)
	}
	n.indexes = indexes
	n.logger.Info("reporter registered", logging.Any("indexes", n.indexes))
	return nil
}

// Run registers if needed and answers requests until ctx ends. Broken
// streams are resumed after the last request seen.
func (n *Node) Run(ctx context.Context) error {
	if n.indexes == nil {
		if err := n.Register(ctx); err != nil {
			return err
		}
	}

	after := n.cfg.AfterSeq
	delay := n.cfg.RetryBackoff
	for {
		last, err := n.oracle.Subscribe(ctx, after, requestFilter, func(evt event.Event) error {
			return n.Handle(ctx, evt)
		})
		if last > after {
			after = last
			delay = n.cfg.RetryBackoff
		}
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			n.logger.Warn("request stream ended", logging.Uint64("after_seq", after), logging.Duration("retry_in", delay), logging.Error(err))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
		delay = min(delay*2, n.cfg.RetryMaxDelay)
	}
}

// Handle answers one oracle.request event when it addresses the node.
// Submission failures are logged and skipped so one bad request does not
// stop the feed.
func (n *Node) Handle(ctx context.Context, evt event.Event) error {
	if evt.Type != oracle.EventTypeRequest {
		return nil
	}
	var request oracle.OracleRequestPayload
	if err := json.Unmarshal(evt.PayloadJSON, &request); err != nil {
		n.logger.Warn("skip malformed request", logging.Uint64("seq", evt.Seq), logging.Error(err))
		return nil
	}
	if !slices.Contains(n.indexes, request.Index) {
		return nil
	}

	status := n.strategy.Status(request.Flight, request.Index)
	events, err := n.oracle.SubmitResponse(ctx, request.Flight, request.Index, status)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return err
		}
		n.logger.Warn("submit response failed",
			logging.String("flight", request.Flight.String()),
			logging.Int("index", request.Index),
			logging.Error(err),
		)
		return nil
	}
	if len(events) == 0 {
		n.logger.Debug("response discarded", logging.String("flight", request.Flight.String()), logging.String("status", status.String()))
		return nil
	}
	n.answered++
	n.logger.Info("response recorded",
		logging.String("flight", request.Flight.String()),
		logging.Int("index", request.Index),
		logging.String("status", status.String()),
		logging.Bool("resolved", slices.ContainsFunc(events, func(e event.Event) bool { return e.Type == oracle.EventTypeFlightStatusInfo })),
	)
	return nil
}
