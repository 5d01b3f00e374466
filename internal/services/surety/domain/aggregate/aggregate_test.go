package aggregate

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

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

func fixedNow() time.Time { return time.Unix(1_700_000_000, 0).UTC() }

type harness struct {
	t          *testing.T
	registries Registries
	state      State
	seq        uint64
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	registries, err := BuildRegistries()
	if err != nil {
		t.Fatalf("build registries: %v", err)
	}
	h := &harness{t: t, registries: registries, state: NewState()}
	h.mustAccept(command.Command{
		Type:        CommandTypeGenesis,
		ActorID:     "owner",
		PayloadJSON: mustJSON(t, GenesisPayload{Owner: "owner", FirstAirline: "air-1"}),
	})
	return h
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func (h *harness) execute(cmd command.Command) command.Decision {
	h.t.Helper()
	cmd, err := h.registries.Commands.ValidateForDecision(cmd)
	if err != nil {
		h.t.Fatalf("validate %s: %v", cmd.Type, err)
	}
	decision := Decide(h.state, cmd, fixedNow)
	for _, evt := range decision.Events {
		evt, err := h.registries.Events.ValidateForAppend(evt)
		if err != nil {
			h.t.Fatalf("validate event %s: %v", evt.Type, err)
		}
		h.seq++
		evt.Seq = h.seq
		h.state = Fold(h.state, evt)
	}
	return decision
}

func (h *harness) mustAccept(cmd command.Command) command.Decision {
	h.t.Helper()
	decision := h.execute(cmd)
	if decision.Rejected() {
		h.t.Fatalf("%s rejected: %+v", cmd.Type, decision.Rejections)
	}
	return decision
}

func (h *harness) mustReject(cmd command.Command, code string) {
	h.t.Helper()
	before := h.seq
	decision := h.execute(cmd)
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != code {
		h.t.Fatalf("%s decision = %+v, want %s", cmd.Type, decision, code)
	}
	if h.seq != before {
		h.t.Fatal("rejected command appended events")
	}
}

func eventTypes(decision command.Decision) []event.Type {
	types := make([]event.Type, 0, len(decision.Events))
	for _, evt := range decision.Events {
		types = append(types, evt.Type)
	}
	return types
}

func TestGenesis(t *testing.T) {
	h := newHarness(t)
	if !h.state.IsOperational() {
		t.Fatal("expected operational after genesis")
	}
	if !h.state.IsAirlineRegistered("air-1") {
		t.Fatal("expected first airline registered")
	}
	decision := h.mustAccept(command.Command{
		Type:        CommandTypeGenesis,
		ActorID:     "intruder",
		PayloadJSON: mustJSON(t, GenesisPayload{Owner: "intruder", FirstAirline: "air-x"}),
	})
	if len(decision.Events) != 0 || h.state.Access.Owner != "owner" {
		t.Fatal("genesis must only apply once")
	}
}

func TestCommandsBeforeGenesisRejected(t *testing.T) {
	decision := Decide(NewState(), command.Command{Type: airline.CommandTypeNominate, ActorID: "air-1", PayloadJSON: []byte(`{"candidate":"air-2"}`)}, fixedNow)
	if !decision.Rejected() || decision.Rejections[0].Code != rejectionCodeNotOperational {
		t.Fatalf("decision = %+v", decision)
	}
}

func TestOperationalSwitchBlocksMutations(t *testing.T) {
	h := newHarness(t)
	h.mustAccept(command.Command{Type: access.CommandTypeSetOperational, ActorID: "owner", PayloadJSON: []byte(`{"operational":false}`)})

	h.mustReject(command.Command{Type: airline.CommandTypeNominate, ActorID: "air-1", PayloadJSON: []byte(`{"candidate":"air-2"}`)}, "NOT_OPERATIONAL")
	h.mustReject(command.Command{Type: funding.CommandTypeFund, ActorID: "air-1", Value: principal.Unit}, "NOT_OPERATIONAL")
	h.mustReject(command.Command{Type: oracle.CommandTypeRegisterReporter, ActorID: "r1", Value: oracle.RegistrationFee}, "NOT_OPERATIONAL")
	h.mustReject(command.Command{Type: access.CommandTypeSetOperational, ActorID: "air-1", PayloadJSON: []byte(`{"operational":true}`)}, "UNAUTHORIZED")

	h.mustAccept(command.Command{Type: access.CommandTypeSetOperational, ActorID: "owner", PayloadJSON: []byte(`{"operational":true}`)})
	h.mustAccept(command.Command{Type: airline.CommandTypeNominate, ActorID: "air-1", PayloadJSON: []byte(`{"candidate":"air-2"}`)})
}

func TestRelayAuthorization(t *testing.T) {
	h := newHarness(t)
	nominate := command.Command{Type: airline.CommandTypeNominate, ActorID: "air-1", RelayID: "app", PayloadJSON: []byte(`{"candidate":"air-2"}`)}
	h.mustReject(nominate, "UNAUTHORIZED")

	h.mustAccept(command.Command{Type: access.CommandTypeAuthorizeCaller, ActorID: "owner", PayloadJSON: []byte(`{"caller":"app"}`)})
	decision := h.mustAccept(nominate)
	if decision.Events[0].RelayID != "app" {
		t.Fatalf("relay not recorded: %+v", decision.Events[0])
	}
}

func TestSelfVoteReportedBeforeLevel(t *testing.T) {
	h := newHarness(t)
	for i := 2; i <= airline.BootstrapThreshold; i++ {
		h.mustAccept(command.Command{Type: airline.CommandTypeNominate, ActorID: "air-1", PayloadJSON: []byte(fmt.Sprintf(`{"candidate":"air-%d"}`, i))})
	}
	h.mustAccept(command.Command{Type: airline.CommandTypeNominate, ActorID: "air-1", PayloadJSON: []byte(`{"candidate":"air-5"}`)})
	h.mustReject(command.Command{Type: airline.CommandTypeVote, ActorID: "air-5", PayloadJSON: []byte(`{"candidate":"air-5"}`)}, "INVALID_VOTER")
}

// registerReportersFor registers reporters until n of them hold idx and
// returns those reporters.
func (h *harness) registerReportersFor(idx, n int) []principal.Principal {
	h.t.Helper()
	var holders []principal.Principal
	for i := 0; len(holders) < n; i++ {
		if i > 500 {
			h.t.Fatalf("could not find %d reporters holding index %d", n, idx)
		}
		id := principal.Principal(fmt.Sprintf("oracle-%03d", i))
		h.mustAccept(command.Command{Type: oracle.CommandTypeRegisterReporter, ActorID: id, Value: oracle.RegistrationFee})
		reporter, _ := h.state.Reporter(id)
		if reporter.HasIndex(idx) {
			holders = append(holders, id)
		}
	}
	return holders
}

func TestEndToEndLateAirlinePayout(t *testing.T) {
	h := newHarness(t)

	// Airline A is nominated during bootstrap and funded to the threshold.
	decision := h.mustAccept(command.Command{Type: airline.CommandTypeNominate, ActorID: "air-1", PayloadJSON: []byte(`{"candidate":"air-a"}`)})
	if got := eventTypes(decision); len(got) != 1 || got[0] != airline.EventTypeRegistered {
		t.Fatalf("nominate events = %v", got)
	}
	decision = h.mustAccept(command.Command{Type: funding.CommandTypeFund, ActorID: "air-a", Value: funding.ActivationThreshold})
	if got := eventTypes(decision); len(got) != 2 || got[1] != airline.EventTypeActivated {
		t.Fatalf("fund events = %v", got)
	}
	if !h.state.IsAirlineActivated("air-a") || !h.state.IsAirlineFunded("air-a") {
		t.Fatal("airline A should be activated and funded")
	}

	h.mustAccept(command.Command{
		Type:        insurance.CommandTypeRegisterFlight,
		ActorID:     "air-a",
		PayloadJSON: mustJSON(t, insurance.RegisterFlightPayload{Code: "F1", ScheduledAt: 1_700_003_600}),
	})
	key := flight.Key{Airline: "air-a", Code: "F1", ScheduledAt: 1_700_003_600}
	flightJSON := mustJSON(t, insurance.FlightPayload{Flight: key})

	h.mustAccept(command.Command{Type: insurance.CommandTypeBuyPolicy, ActorID: "pax-p", Value: principal.Unit, PayloadJSON: flightJSON})
	h.mustAccept(command.Command{Type: oracle.CommandTypeRequestStatus, ActorID: "pax-p", PayloadJSON: flightJSON})
	view, ok := h.state.Flight(key)
	if !ok || view.Phase != oracle.PhaseRequesting {
		t.Fatalf("flight view = %+v", view)
	}

	reporters := h.registerReportersFor(view.RequestedIndex, oracle.MinimumQuorum)
	for i, reporter := range reporters {
		decision = h.mustAccept(command.Command{
			Type:        oracle.CommandTypeSubmitResponse,
			ActorID:     reporter,
			PayloadJSON: mustJSON(t, oracle.SubmitResponsePayload{Flight: key, Index: view.RequestedIndex, Status: flight.StatusLateAirline}),
		})
		if i < len(reporters)-1 {
			if got := eventTypes(decision); len(got) != 1 {
				t.Fatalf("report %d events = %v", i, got)
			}
		}
	}
	want := []event.Type{oracle.EventTypeReport, oracle.EventTypeFlightStatusInfo, payout.EventTypePolicyCredited, payout.EventTypeInsureesCredited}
	got := eventTypes(decision)
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("final report events = %v, want %v", got, want)
	}

	status, _ := h.state.FlightStatus(key)
	if status != flight.StatusLateAirline {
		t.Fatalf("status = %s", status)
	}
	policy, _ := h.state.Policy("pax-p", key)
	if policy.CreditedAmount != principal.Unit*3/2 || policy.Withdrawn {
		t.Fatalf("policy = %+v", policy)
	}

	withdrawJSON := mustJSON(t, payout.WithdrawPayload{Flight: key})
	h.mustAccept(command.Command{Type: payout.CommandTypeWithdraw, ActorID: "pax-p", PayloadJSON: withdrawJSON})
	policy, _ = h.state.Policy("pax-p", key)
	if policy.CreditedAmount != 0 || !policy.Withdrawn {
		t.Fatalf("policy after withdraw = %+v", policy)
	}
	h.mustReject(command.Command{Type: payout.CommandTypeWithdraw, ActorID: "pax-p", PayloadJSON: withdrawJSON}, "NOTHING_TO_WITHDRAW")

	wantEscrow := funding.ActivationThreshold + principal.Unit + oracle.RegistrationFee*principal.Amount(len(h.state.Oracle.Reporters)) - principal.Unit*3/2
	if got := h.state.EscrowBalance(); got != wantEscrow {
		t.Fatalf("escrow = %s, want %s", got, wantEscrow)
	}

	// Late reports and re-requests change nothing.
	late := h.execute(command.Command{
		Type:        oracle.CommandTypeSubmitResponse,
		ActorID:     reporters[0],
		PayloadJSON: mustJSON(t, oracle.SubmitResponsePayload{Flight: key, Index: view.RequestedIndex, Status: flight.StatusOnTime}),
	})
	if late.Rejected() || len(late.Events) != 0 {
		t.Fatalf("late report = %+v", late)
	}
	h.mustReject(command.Command{Type: oracle.CommandTypeRequestStatus, ActorID: "pax-p", PayloadJSON: flightJSON}, "ALREADY_RESOLVED")
	h.mustReject(command.Command{Type: insurance.CommandTypeBuyPolicy, ActorID: "pax-q", Value: 1, PayloadJSON: flightJSON}, "FLIGHT_FINALIZED")
}

func TestNonAirlineFinalizationCreditsNothing(t *testing.T) {
	for _, status := range []flight.Status{flight.StatusOnTime, flight.StatusUnknown, flight.StatusLateWeather} {
		t.Run(status.String(), func(t *testing.T) {
			h := newHarness(t)
			h.mustAccept(command.Command{Type: funding.CommandTypeFund, ActorID: "air-1", Value: funding.ActivationThreshold})
			h.mustAccept(command.Command{
				Type:        insurance.CommandTypeRegisterFlight,
				ActorID:     "air-1",
				PayloadJSON: mustJSON(t, insurance.RegisterFlightPayload{Code: "OT1", ScheduledAt: 1_700_003_600}),
			})
			key := flight.Key{Airline: "air-1", Code: "OT1", ScheduledAt: 1_700_003_600}
			flightJSON := mustJSON(t, insurance.FlightPayload{Flight: key})
			h.mustAccept(command.Command{Type: insurance.CommandTypeBuyPolicy, ActorID: "pax-1", Value: principal.Unit, PayloadJSON: flightJSON})
			h.mustAccept(command.Command{Type: oracle.CommandTypeRequestStatus, ActorID: "pax-1", PayloadJSON: flightJSON})
			view, _ := h.state.Flight(key)

			var last command.Decision
			for _, reporter := range h.registerReportersFor(view.RequestedIndex, oracle.MinimumQuorum) {
				last = h.mustAccept(command.Command{
					Type:        oracle.CommandTypeSubmitResponse,
					ActorID:     reporter,
					PayloadJSON: mustJSON(t, oracle.SubmitResponsePayload{Flight: key, Index: view.RequestedIndex, Status: status}),
				})
			}
			if got := eventTypes(last); len(got) != 2 || got[1] != oracle.EventTypeFlightStatusInfo {
				t.Fatalf("events = %v", got)
			}
			view, _ = h.state.Flight(key)
			if view.Phase != oracle.PhaseResolved || !view.Finalized || view.Status != status {
				t.Fatalf("flight = %+v", view)
			}
			policy, _ := h.state.Policy("pax-1", key)
			if policy.CreditedAmount != 0 {
				t.Fatalf("credited = %s, want 0", policy.CreditedAmount)
			}
			h.mustReject(command.Command{Type: payout.CommandTypeWithdraw, ActorID: "pax-1", PayloadJSON: mustJSON(t, payout.WithdrawPayload{Flight: key})}, "NOTHING_TO_WITHDRAW")
		})
	}
}

func TestReplayRebuildsState(t *testing.T) {
	h := newHarness(t)
	var journal []event.Event
	record := func(cmd command.Command) {
		cmd, _ = h.registries.Commands.ValidateForDecision(cmd)
		decision := Decide(h.state, cmd, fixedNow)
		for _, evt := range decision.Events {
			h.seq++
			evt.Seq = h.seq
			h.state = Fold(h.state, evt)
			journal = append(journal, evt)
		}
	}
	record(command.Command{Type: airline.CommandTypeNominate, ActorID: "air-1", PayloadJSON: []byte(`{"candidate":"air-2"}`)})
	record(command.Command{Type: funding.CommandTypeFund, ActorID: "air-2", Value: principal.Units(12)})

	replayed := NewState()
	replayed = Fold(replayed, event.Event{Type: access.EventTypeOwnerAssigned, Seq: 1, PayloadJSON: []byte(`{"owner":"owner"}`)})
	replayed = Fold(replayed, event.Event{Type: airline.EventTypeRegistered, Seq: 2, PayloadJSON: []byte(`{"airline":"air-1","via":"genesis"}`)})
	for _, evt := range journal {
		replayed = Fold(replayed, evt)
	}
	view, _ := replayed.Airline("air-2")
	if view.Status != airline.StatusActivated || view.Funded != principal.Units(12) {
		t.Fatalf("replayed airline = %+v", view)
	}
	if replayed.LastSeq != h.state.LastSeq {
		t.Fatalf("last seq = %d, want %d", replayed.LastSeq, h.state.LastSeq)
	}
}
