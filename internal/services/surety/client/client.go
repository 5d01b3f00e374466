// Package client is a typed Go client for the surety gRPC service. A Client
// acts as one principal; every call carries that identity in metadata.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	apperrors "github.com/louisbranch/flightsurety/internal/platform/errors"
	"github.com/louisbranch/flightsurety/internal/platform/requestctx"
	grpcmeta "github.com/louisbranch/flightsurety/internal/services/surety/api/grpc/metadata"
	"github.com/louisbranch/flightsurety/internal/services/surety/api/grpc/suretyv1"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/access"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/airline"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/command"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/flight"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/funding"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/insurance"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/oracle"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/payout"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
)

// Client calls SuretyService as one principal.
type Client struct {
	rpc    suretyv1.SuretyServiceClient
	caller requestctx.Caller
}

// New creates a client acting as actor over conn.
func New(conn grpc.ClientConnInterface, actor principal.Principal) *Client {
	return &Client{
		rpc:    suretyv1.NewSuretyServiceClient(conn),
		caller: requestctx.Caller{Principal: string(actor)},
	}
}

// As returns a client sharing the connection but acting as actor.
func (c *Client) As(actor principal.Principal) *Client {
	clone := *c
	clone.caller.Principal = string(actor)
	return &clone
}

// Via returns a client whose calls are relayed by relay.
func (c *Client) Via(relay principal.Principal) *Client {
	clone := *c
	clone.caller.Relay = string(relay)
	return &clone
}

// WithLocale returns a client requesting messages in locale.
func (c *Client) WithLocale(locale string) *Client {
	clone := *c
	clone.caller.Locale = locale
	return &clone
}

// Principal returns the acting principal.
func (c *Client) Principal() principal.Principal {
	return principal.Principal(c.caller.Principal)
}

func (c *Client) outgoing(ctx context.Context) context.Context {
	return grpcmeta.AppendCaller(ctx, c.caller)
}

// translateError rebuilds domain errors from gRPC status details so callers
// can switch on errors.CodeOf.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if domainErr := apperrors.FromGRPCStatus(err); domainErr != nil {
		return domainErr
	}
	return err
}

// UserMessage returns the localized message the server attached to err, or
// err's text when there is none.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if st, ok := status.FromError(err); ok {
		for _, detail := range st.Details() {
			if msg, ok := detail.(*errdetails.LocalizedMessage); ok && msg.GetMessage() != "" {
				return msg.GetMessage()
			}
		}
	}
	return err.Error()
}

func (c *Client) call(ctx context.Context, method func(context.Context, *structpb.Struct, ...grpc.CallOption) (*structpb.Struct, error), req, resp any) error {
	in, err := suretyv1.Encode(req)
	if err != nil {
		return err
	}
	out, err := method(c.outgoing(ctx), in)
	if err != nil {
		return translateError(err)
	}
	return suretyv1.Decode(out, resp)
}

// Execute submits a raw command and returns the journaled events.
func (c *Client) Execute(ctx context.Context, cmdType command.Type, value principal.Amount, payload any) ([]event.Event, error) {
	req := suretyv1.CommandRequest{Type: string(cmdType), Value: value}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		req.Payload = data
	}
	var resp suretyv1.CommandResponse
	if err := c.call(ctx, c.rpc.ExecuteCommand, req, &resp); err != nil {
		return nil, err
	}
	return toDomain(resp.Events)
}

func toDomain(wire []suretyv1.Event) ([]event.Event, error) {
	events := make([]event.Event, 0, len(wire))
	for _, w := range wire {
		evt, err := w.Domain()
		if err != nil {
			return nil, err
		}
		events = append(events, evt)
	}
	return events, nil
}

// SetOperational flips the operational switch. Owner only.
func (c *Client) SetOperational(ctx context.Context, operational bool) error {
	_, err := c.Execute(ctx, access.CommandTypeSetOperational, 0, access.SetOperationalPayload{Operational: operational})
	return err
}

// AuthorizeCaller allows caller to relay commands. Owner only.
func (c *Client) AuthorizeCaller(ctx context.Context, caller principal.Principal) error {
	_, err := c.Execute(ctx, access.CommandTypeAuthorizeCaller, 0, access.CallerPayload{Caller: caller})
	return err
}

// DeauthorizeCaller revokes a relay. Owner only.
func (c *Client) DeauthorizeCaller(ctx context.Context, caller principal.Principal) error {
	_, err := c.Execute(ctx, access.CommandTypeDeauthorizeCaller, 0, access.CallerPayload{Caller: caller})
	return err
}

// Nominate proposes candidate for membership.
func (c *Client) Nominate(ctx context.Context, candidate principal.Principal) ([]event.Event, error) {
	return c.Execute(ctx, airline.CommandTypeNominate, 0, airline.CandidatePayload{Candidate: candidate})
}

// Vote approves a nominated candidate.
func (c *Client) Vote(ctx context.Context, candidate principal.Principal) ([]event.Event, error) {
	return c.Execute(ctx, airline.CommandTypeVote, 0, airline.CandidatePayload{Candidate: candidate})
}

// Fund adds amount to the caller's airline funding.
func (c *Client) Fund(ctx context.Context, amount principal.Amount) ([]event.Event, error) {
	return c.Execute(ctx, funding.CommandTypeFund, amount, nil)
}

// RegisterFlight registers a flight of the calling airline.
func (c *Client) RegisterFlight(ctx context.Context, code string, scheduledAt int64) (flight.Key, error) {
	if _, err := c.Execute(ctx, insurance.CommandTypeRegisterFlight, 0, insurance.RegisterFlightPayload{Code: code, ScheduledAt: scheduledAt}); err != nil {
		return flight.Key{}, err
	}
	return flight.Key{Airline: c.Principal(), Code: code, ScheduledAt: scheduledAt}.Normalize(), nil
}

// BuyPolicy buys a policy on key for premium.
func (c *Client) BuyPolicy(ctx context.Context, key flight.Key, premium principal.Amount) error {
	_, err := c.Execute(ctx, insurance.CommandTypeBuyPolicy, premium, insurance.FlightPayload{Flight: key})
	return err
}

// RegisterPassenger registers the caller as a passenger.
func (c *Client) RegisterPassenger(ctx context.Context) error {
	_, err := c.Execute(ctx, insurance.CommandTypeRegisterPassenger, 0, nil)
	return err
}

// RegisterReporter registers the caller as an oracle reporter and returns
// its assigned indexes.
func (c *Client) RegisterReporter(ctx context.Context, fee principal.Amount) ([]int, error) {
	if _, err := c.Execute(ctx, oracle.CommandTypeRegisterReporter, fee, nil); err != nil {
		return nil, err
	}
	reporter, err := c.Reporter(ctx, c.Principal())
	if err != nil {
		return nil, err
	}
	return reporter.Indexes, nil
}

// RequestFlightStatus opens (or reissues) a status request for key and
// returns the requested index.
func (c *Client) RequestFlightStatus(ctx context.Context, key flight.Key) (int, error) {
	events, err := c.Execute(ctx, oracle.CommandTypeRequestStatus, 0, oracle.RequestStatusPayload{Flight: key})
	if err != nil {
		return 0, err
	}
	for _, evt := range events {
		if evt.Type != oracle.EventTypeRequest {
			continue
		}
		var payload oracle.OracleRequestPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return 0, fmt.Errorf("decode request event: %w", err)
		}
		return payload.Index, nil
	}
	return 0, fmt.Errorf("no oracle request emitted for %s", key)
}

// SubmitResponse reports status for key at index.
func (c *Client) SubmitResponse(ctx context.Context, key flight.Key, index int, status flight.Status) ([]event.Event, error) {
	return c.Execute(ctx, oracle.CommandTypeSubmitResponse, 0, oracle.SubmitResponsePayload{Flight: key, Index: index, Status: status})
}

// Withdraw pays out the caller's credit on key and returns the amount.
func (c *Client) Withdraw(ctx context.Context, key flight.Key) (principal.Amount, error) {
	events, err := c.Execute(ctx, payout.CommandTypeWithdraw, 0, payout.WithdrawPayload{Flight: key})
	if err != nil {
		return 0, err
	}
	for _, evt := range events {
		if evt.Type != payout.EventTypeWithdrawn {
			continue
		}
		var payload payout.WithdrawnPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return 0, fmt.Errorf("decode withdrawal: %w", err)
		}
		return payload.Amount, nil
	}
	return 0, nil
}

// Status returns the operational switch, journal head and escrow.
func (c *Client) Status(ctx context.Context) (suretyv1.StatusResponse, error) {
	var resp suretyv1.StatusResponse
	err := c.call(ctx, c.rpc.GetStatus, struct{}{}, &resp)
	return resp, err
}

// Airline describes an airline.
func (c *Client) Airline(ctx context.Context, id principal.Principal) (suretyv1.AirlineResponse, error) {
	var resp suretyv1.AirlineResponse
	err := c.call(ctx, c.rpc.GetAirline, suretyv1.AirlineRequest{Airline: id}, &resp)
	return resp, err
}

// Flight describes a registered flight.
func (c *Client) Flight(ctx context.Context, key flight.Key) (suretyv1.FlightResponse, error) {
	var resp suretyv1.FlightResponse
	err := c.call(ctx, c.rpc.GetFlight, suretyv1.FlightRequest{Flight: key}, &resp)
	return resp, err
}

// Policy describes passenger's policy on key. An empty passenger means the caller.
func (c *Client) Policy(ctx context.Context, passenger principal.Principal, key flight.Key) (suretyv1.PolicyResponse, error) {
	var resp suretyv1.PolicyResponse
	err := c.call(ctx, c.rpc.GetPolicy, suretyv1.PolicyRequest{Passenger: passenger, Flight: key}, &resp)
	return resp, err
}

// Reporter describes a registered reporter.
func (c *Client) Reporter(ctx context.Context, id principal.Principal) (suretyv1.ReporterResponse, error) {
	var resp suretyv1.ReporterResponse
	err := c.call(ctx, c.rpc.GetReporter, suretyv1.ReporterRequest{Reporter: id}, &resp)
	return resp, err
}

// IsPassengerRegistered reports whether passenger registered itself.
func (c *Client) IsPassengerRegistered(ctx context.Context, passenger principal.Principal) (bool, error) {
	var resp suretyv1.PassengerResponse
	err := c.call(ctx, c.rpc.GetPassenger, suretyv1.PassengerRequest{Passenger: passenger}, &resp)
	return resp.Registered, err
}

// ListEvents returns one page of the journal.
func (c *Client) ListEvents(ctx context.Context, req suretyv1.ListEventsRequest) ([]event.Event, error) {
	var resp suretyv1.ListEventsResponse
	if err := c.call(ctx, c.rpc.ListEvents, req, &resp); err != nil {
		return nil, err
	}
	return toDomain(resp.Events)
}

// Subscribe streams events after afterSeq matching filterExpr and calls fn
// for each. It returns when ctx ends, fn fails or the stream breaks; the
// returned sequence is the last event handed to fn.
func (c *Client) Subscribe(ctx context.Context, afterSeq uint64, filterExpr string, fn func(event.Event) error) (uint64, error) {
	in, err := suretyv1.Encode(suretyv1.SubscribeRequest{AfterSeq: afterSeq, Filter: filterExpr})
	if err != nil {
		return afterSeq, err
	}
	stream, err := c.rpc.SubscribeEvents(c.outgoing(ctx), in)
	if err != nil {
		return afterSeq, translateError(err)
	}
	last := afterSeq
	for {
		msg, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return last, nil
			}
			return last, translateError(err)
		}
		var wire suretyv1.Event
		if err := suretyv1.Decode(msg, &wire); err != nil {
			return last, err
		}
		evt, err := wire.Domain()
		if err != nil {
			return last, err
		}
		if err := fn(evt); err != nil {
			return last, err
		}
		last = evt.Seq
	}
}
