package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	apperrors "github.com/louisbranch/flightsurety/internal/platform/errors"
	platformgrpc "github.com/louisbranch/flightsurety/internal/platform/grpc"
	"github.com/louisbranch/flightsurety/internal/platform/id"
	"github.com/louisbranch/flightsurety/internal/platform/logging"
	grpcmeta "github.com/louisbranch/flightsurety/internal/services/surety/api/grpc/metadata"
	"github.com/louisbranch/flightsurety/internal/services/surety/api/grpc/surety"
	"github.com/louisbranch/flightsurety/internal/services/surety/api/grpc/suretyv1"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/aggregate"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/airline"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/bus"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/engine"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/flight"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/funding"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/oracle"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/payout"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/principal"
	"github.com/louisbranch/flightsurety/internal/services/surety/storage/integrity"
	"github.com/louisbranch/flightsurety/internal/services/surety/storage/memory"
)

const bufSize = 1 << 20

type testEnv struct {
	engine *engine.Handler
	owner  *Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	keyring, err := integrity.NewKeyring(map[string][]byte{"k1": []byte("test-secret")}, "k1")
	if err != nil {
		t.Fatalf("keyring: %v", err)
	}
	store, err := memory.New(keyring)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	registries, err := aggregate.BuildRegistries()
	if err != nil {
		t.Fatalf("registries: %v", err)
	}
	events := bus.New(bus.DefaultBuffer, logging.NewNop())
	t.Cleanup(events.Close)

	handler, err := engine.New(engine.Options{
		Registries: registries,
		Journal:    store,
		Publisher:  events,
		Logger:     logging.NewNop(),
		Now:        func() time.Time { return time.Unix(1_700_000_000, 0).UTC() },
	})
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	if err := handler.Bootstrap(ctx, "owner", "air-1"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	listener := bufconn.Listen(bufSize)
	server := grpc.NewServer(platformgrpc.DefaultServerOptions(
		grpc.ChainUnaryInterceptor(grpcmeta.UnaryServerInterceptor(id.NewID)),
		grpc.ChainStreamInterceptor(grpcmeta.StreamServerInterceptor(id.NewID)),
	)...)
	platformgrpc.RegisterHealth(server, suretyv1.ServiceName)
	suretyv1.RegisterSuretyServiceServer(server, surety.NewServer(handler, store, events, logging.NewNop()))
	go func() {
		_ = server.Serve(listener)
	}()
	t.Cleanup(server.Stop)

	conn, err := platformgrpc.DialWithHealth(ctx, nil, "passthrough:///bufnet", time.Second, t.Logf,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return &testEnv{engine: handler, owner: New(conn, "owner")}
}

func TestFlightDelayLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	air := env.owner.As("air-1")
	pax := env.owner.As("pax-1")

	events, err := air.Fund(ctx, funding.ActivationThreshold)
	if err != nil {
		t.Fatalf("fund: %v", err)
	}
	if len(events) != 2 || events[1].Type != airline.EventTypeActivated {
		t.Fatalf("fund events = %+v", events)
	}

	key, err := air.RegisterFlight(ctx, "nd1309", 1_700_050_000)
	if err != nil {
		t.Fatalf("register flight: %v", err)
	}
	if key.Code != "ND1309" {
		t.Fatalf("key = %+v", key)
	}
	if err := pax.RegisterPassenger(ctx); err != nil {
		t.Fatalf("register passenger: %v", err)
	}
	if ok, err := pax.IsPassengerRegistered(ctx, ""); err != nil || !ok {
		t.Fatalf("passenger registered = %v, %v", ok, err)
	}
	if err := pax.BuyPolicy(ctx, key, principal.Unit); err != nil {
		t.Fatalf("buy policy: %v", err)
	}

	index, err := pax.RequestFlightStatus(ctx, key)
	if err != nil {
		t.Fatalf("request status: %v", err)
	}

	var holders []*Client
	for i := 0; len(holders) < oracle.MinimumQuorum; i++ {
		if i > 500 {
			t.Fatalf("no quorum for index %d", index)
		}
		node := env.owner.As(principal.Principal(fmt.Sprintf("node-%03d", i)))
		indexes, err := node.RegisterReporter(ctx, oracle.RegistrationFee)
		if err != nil {
			t.Fatalf("register reporter: %v", err)
		}
		for _, idx := range indexes {
			if idx == index {
				holders = append(holders, node)
				break
			}
		}
	}
	for _, node := range holders {
		if _, err := node.SubmitResponse(ctx, key, index, flight.StatusLateAirline); err != nil {
			t.Fatalf("submit response: %v", err)
		}
	}

	view, err := pax.Flight(ctx, key)
	if err != nil {
		t.Fatalf("flight: %v", err)
	}
	if !view.Finalized || view.StatusCode != uint8(flight.StatusLateAirline) {
		t.Fatalf("flight = %+v", view)
	}
	policy, err := pax.Policy(ctx, "", key)
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	want := payout.PayoutFor(principal.Unit)
	if policy.CreditedAmount != want {
		t.Fatalf("credited = %s, want %s", policy.CreditedAmount, want)
	}

	amount, err := pax.Withdraw(ctx, key)
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if amount != want {
		t.Fatalf("withdrawn = %s, want %s", amount, want)
	}
	_, err = pax.Withdraw(ctx, key)
	if apperrors.CodeOf(err) != apperrors.CodeNothingToWithdraw {
		t.Fatalf("second withdraw err = %v", err)
	}
}

func TestErrorsCarryDomainCodes(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	tests := []struct {
		name string
		call func() error
		want apperrors.Code
		text string
	}{
		{
			name: "unknown airline",
			call: func() error {
				_, err := env.owner.As("stranger").Fund(ctx, principal.Unit)
				return err
			},
			want: apperrors.CodeUnknownAirline,
			text: "stranger",
		},
		{
			name: "owner only",
			call: func() error { return env.owner.As("air-1").SetOperational(ctx, false) },
			want: apperrors.CodeUnauthorized,
		},
		{
			name: "missing principal",
			call: func() error {
				_, err := env.owner.As("").Status(ctx)
				if err != nil {
					return err
				}
				_, err = env.owner.As("").Fund(ctx, principal.Unit)
				return err
			},
			want: apperrors.CodeUnauthorized,
		},
		{
			name: "unknown command",
			call: func() error {
				_, err := env.owner.Execute(ctx, "airline.bribe", 0, nil)
				return err
			},
			want: apperrors.CodeInvalidArgument,
		},
		{
			name: "localized",
			call: func() error {
				_, err := env.owner.As("stranger").WithLocale("pt-BR").Fund(ctx, principal.Unit)
				return err
			},
			want: apperrors.CodeUnknownAirline,
			text: "companhia",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if got := apperrors.CodeOf(err); got != tt.want {
				t.Fatalf("code = %q, want %q (err %v)", got, tt.want, err)
			}
			if tt.text == "" {
				return
			}
			if msg := UserMessage(err); !strings.Contains(msg, tt.text) {
				t.Fatalf("message %q does not mention %q", msg, tt.text)
			}
		})
	}
}

func TestOperationalSwitchBlocksCommands(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	if err := env.owner.SetOperational(ctx, false); err != nil {
		t.Fatalf("pause: %v", err)
	}
	st, err := env.owner.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.Operational {
		t.Fatal("expected paused consortium")
	}
	_, err = env.owner.As("air-1").Fund(ctx, principal.Unit)
	if apperrors.CodeOf(err) != apperrors.CodeNotOperational {
		t.Fatalf("fund while paused err = %v", err)
	}
	if err := env.owner.SetOperational(ctx, true); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if _, err := env.owner.As("air-1").Fund(ctx, principal.Unit); err != nil {
		t.Fatalf("fund after resume: %v", err)
	}
}

func TestListEventsPagesTheJournal(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	if _, err := env.owner.As("air-1").Fund(ctx, principal.Unit); err != nil {
		t.Fatalf("fund: %v", err)
	}

	all, err := env.owner.ListEvents(ctx, suretyv1.ListEventsRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) == 0 || all[0].Seq != 1 || all[len(all)-1].Type != funding.EventTypeAccountFunded {
		t.Fatalf("events = %+v", all)
	}
	funded, err := env.owner.ListEvents(ctx, suretyv1.ListEventsRequest{Filter: `type = "funding.account_funded"`})
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(funded) != 1 {
		t.Fatalf("filtered events = %+v", funded)
	}
	if _, err := env.owner.ListEvents(ctx, suretyv1.ListEventsRequest{Filter: "nope =="}); apperrors.CodeOf(err) != apperrors.CodeInvalidArgument {
		t.Fatalf("bad filter err = %v", err)
	}
}

func TestSubscribeCatchesUpThenFollows(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	env := newTestEnv(t)
	head := env.engine.LastSeq()

	errDone := errors.New("done")
	received := make(chan event.Event, 16)
	result := make(chan error, 1)
	go func() {
		_, err := env.owner.Subscribe(ctx, 0, "", func(evt event.Event) error {
			received <- evt
			if evt.Type == funding.EventTypeAccountFunded {
				return errDone
			}
			return nil
		})
		result <- err
	}()

	var seqs []uint64
	for len(seqs) < int(head) {
		select {
		case evt := <-received:
			seqs = append(seqs, evt.Seq)
		case <-ctx.Done():
			t.Fatalf("catch-up timed out after %v", seqs)
		}
	}

	if _, err := env.owner.As("air-1").Fund(ctx, principal.Unit); err != nil {
		t.Fatalf("fund: %v", err)
	}
	select {
	case err := <-result:
		if !errors.Is(err, errDone) {
			t.Fatalf("subscribe err = %v", err)
		}
	case <-ctx.Done():
		t.Fatal("live event never arrived")
	}
	close(received)
	for evt := range received {
		seqs = append(seqs, evt.Seq)
	}
	for i, seq := range seqs {
		if seq != uint64(i+1) {
			t.Fatalf("seqs = %v, want contiguous from 1", seqs)
		}
	}
}
