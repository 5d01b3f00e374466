package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/louisbranch/flightsurety/internal/platform/logging"
	"github.com/louisbranch/flightsurety/internal/services/surety/api/grpc/suretyv1"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/aggregate"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/airline"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/flight"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/oracle"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
	"github.com/louisbranch/flightsurety/internal/services/surety/storage"
)

type fakeState struct {
	operational bool
	lastSeq     uint64
	escrow      principal.Amount
	airlines    map[principal.Principal]aggregate.AirlineView
	flights     map[flight.Key]aggregate.FlightView
	policies    map[string]aggregate.PolicyView
	reporters   map[principal.Principal]oracle.Reporter
	passengers  map[principal.Principal]bool
}

func (f *fakeState) IsOperational() bool                      { return f.operational }
func (f *fakeState) LastSeq() uint64                          { return f.lastSeq }
func (f *fakeState) EscrowBalance() principal.Amount          { return f.escrow }
func (f *fakeState) IsAirlineFunded(principal.Principal) bool { return false }
func (f *fakeState) IsPassengerRegistered(p principal.Principal) bool {
	return f.passengers[p]
}

func (f *fakeState) Airline(id principal.Principal) (aggregate.AirlineView, bool) {
	v, ok := f.airlines[id]
	return v, ok
}

func (f *fakeState) Flight(key flight.Key) (aggregate.FlightView, bool) {
	v, ok := f.flights[key]
	return v, ok
}

func (f *fakeState) Policy(passenger principal.Principal, key flight.Key) (aggregate.PolicyView, bool) {
	v, ok := f.policies[string(passenger)+"|"+key.String()]
	return v, ok
}

func (f *fakeState) Reporter(id principal.Principal) (oracle.Reporter, bool) {
	v, ok := f.reporters[id]
	return v, ok
}

type fakeJournal struct {
	events []event.Event
	err    error
	last   storage.ListEventsRequest
}

func (f *fakeJournal) ListEvents(_ context.Context, req storage.ListEventsRequest) ([]event.Event, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	var out []event.Event
	for _, evt := range f.events {
		if evt.Seq > req.AfterSeq {
			out = append(out, evt)
		}
	}
	return out, nil
}

func newTestRouter(state *fakeState, journal *fakeJournal) http.Handler {
	return NewRouter(state, journal, logging.NewNop()).Routes()
}

func serve(t *testing.T, h http.Handler, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestGetStatus(t *testing.T) {
	h := newTestRouter(&fakeState{operational: true, lastSeq: 7, escrow: principal.Units(11)}, &fakeJournal{})

	rec := serve(t, h, "/api/v1/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	got := decodeBody[suretyv1.StatusResponse](t, rec)
	if !got.Operational || got.LastSeq != 7 || got.Escrow != principal.Units(11) {
		t.Fatalf("status = %+v", got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
}

func TestGetAirline(t *testing.T) {
	state := &fakeState{airlines: map[principal.Principal]aggregate.AirlineView{
		"air-1": {ID: "air-1", Status: airline.StatusActivated, Funded: principal.Units(10)},
	}}
	h := newTestRouter(state, &fakeJournal{})

	tests := []struct {
		name     string
		path     string
		header   map[string]string
		wantCode int
		wantErr  string
		wantMsg  string
	}{
		{name: "found", path: "/api/v1/airlines/air-1", wantCode: http.StatusOK},
		{name: "unknown", path: "/api/v1/airlines/air-9", wantCode: http.StatusNotFound, wantErr: "UNKNOWN_AIRLINE", wantMsg: "air-9"},
		{
			name:     "localized",
			path:     "/api/v1/airlines/air-9",
			header:   map[string]string{"Accept-Language": "pt-BR,pt;q=0.9"},
			wantCode: http.StatusNotFound,
			wantErr:  "UNKNOWN_AIRLINE",
			wantMsg:  "air-9",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, h, tt.path, tt.header)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantErr == "" {
				got := decodeBody[suretyv1.AirlineResponse](t, rec)
				if !got.Activated || !got.Registered || got.Funded != principal.Units(10) {
					t.Fatalf("airline = %+v", got)
				}
				return
			}
			got := decodeBody[ErrorResponse](t, rec)
			if got.Code != tt.wantErr {
				t.Fatalf("code = %q, want %q", got.Code, tt.wantErr)
			}
			if !strings.Contains(got.Message, tt.wantMsg) {
				t.Fatalf("message %q does not mention %q", got.Message, tt.wantMsg)
			}
		})
	}
}

func TestGetFlightAndPolicy(t *testing.T) {
	key := flight.Key{Airline: "air-1", Code: "ND1309", ScheduledAt: 1700000000}
	state := &fakeState{
		flights: map[flight.Key]aggregate.FlightView{
			key: {Key: key, Status: flight.StatusLateAirline, Finalized: true, Phase: oracle.PhaseResolved, Policies: 1},
		},
		policies: map[string]aggregate.PolicyView{
			"pax-1|" + key.String(): {Passenger: "pax-1", Flight: key, Premium: principal.Units(1), CreditedAmount: principal.Amount(1_500_000_000)},
		},
	}
	h := newTestRouter(state, &fakeJournal{})

	rec := serve(t, h, "/api/v1/flights/air-1/nd1309/1700000000", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("flight status = %d: %s", rec.Code, rec.Body.String())
	}
	gotFlight := decodeBody[suretyv1.FlightResponse](t, rec)
	if gotFlight.Flight != key || !gotFlight.Finalized || gotFlight.StatusCode != uint8(flight.StatusLateAirline) {
		t.Fatalf("flight = %+v", gotFlight)
	}

	rec = serve(t, h, "/api/v1/flights/air-1/ND1309/1700000000/policies/pax-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("policy status = %d: %s", rec.Code, rec.Body.String())
	}
	gotPolicy := decodeBody[suretyv1.PolicyResponse](t, rec)
	if gotPolicy.CreditedAmount != principal.Amount(1_500_000_000) {
		t.Fatalf("policy = %+v", gotPolicy)
	}

	rec = serve(t, h, "/api/v1/flights/air-1/ND1309/soon", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad time status = %d", rec.Code)
	}
	rec = serve(t, h, "/api/v1/flights/air-1/ND1310/1700000000", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown flight status = %d", rec.Code)
	}
	if got := decodeBody[ErrorResponse](t, rec); got.Code != "UNKNOWN_FLIGHT" {
		t.Fatalf("unknown flight code = %q", got.Code)
	}
}

func TestGetReporterAndPassenger(t *testing.T) {
	state := &fakeState{
		reporters:  map[principal.Principal]oracle.Reporter{"rep-1": {ID: "rep-1", Indexes: []int{1, 4, 7}, Fee: principal.Units(1)}},
		passengers: map[principal.Principal]bool{"pax-1": true},
	}
	h := newTestRouter(state, &fakeJournal{})

	rec := serve(t, h, "/api/v1/reporters/rep-1", nil)
	got := decodeBody[suretyv1.ReporterResponse](t, rec)
	if len(got.Indexes) != 3 || got.Indexes[1] != 4 {
		t.Fatalf("reporter = %+v", got)
	}
	if rec := serve(t, h, "/api/v1/reporters/rep-2", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown reporter status = %d", rec.Code)
	}

	for passenger, want := range map[string]bool{"pax-1": true, "pax-2": false} {
		rec := serve(t, h, "/api/v1/passengers/"+passenger, nil)
		if got := decodeBody[suretyv1.PassengerResponse](t, rec); got.Registered != want {
			t.Fatalf("%s registered = %v, want %v", passenger, got.Registered, want)
		}
	}
}

func TestListEvents(t *testing.T) {
	journal := &fakeJournal{events: []event.Event{
		{Seq: 1, Type: "access.owner_assigned"},
		{Seq: 2, Type: "airline.registered"},
		{Seq: 3, Type: "funding.account_funded"},
	}}
	h := newTestRouter(&fakeState{}, journal)

	rec := serve(t, h, `/api/v1/events?after_seq=1&limit=5&filter=type+%3D+%22airline.registered%22`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	got := decodeBody[suretyv1.ListEventsResponse](t, rec)
	if len(got.Events) != 2 || got.NextSeq != 3 {
		t.Fatalf("page = %+v", got)
	}
	if journal.last.AfterSeq != 1 || journal.last.Limit != 5 || journal.last.Filter != `type = "airline.registered"` {
		t.Fatalf("request = %+v", journal.last)
	}

	for _, path := range []string{
		"/api/v1/events?after_seq=-1",
		"/api/v1/events?limit=many",
		"/api/v1/events?filter=" + "nope+%3D%3D",
	} {
		if rec := serve(t, h, path, nil); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s status = %d, want 400", path, rec.Code)
		}
	}
}

func TestListEventsJournalFailure(t *testing.T) {
	h := newTestRouter(&fakeState{}, &fakeJournal{err: errors.New("disk gone")})

	rec := serve(t, h, "/api/v1/events", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if got := decodeBody[ErrorResponse](t, rec); got.Code != "UNKNOWN" {
		t.Fatalf("code = %q", got.Code)
	}
}

func TestHealth(t *testing.T) {
	h := newTestRouter(&fakeState{lastSeq: 3}, &fakeJournal{})
	rec := serve(t, h, "/healthz", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("health = %d %s", rec.Code, rec.Body.String())
	}
}
