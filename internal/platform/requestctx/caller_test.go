package requestctx

import (
	"context"
	"testing"
)

func TestCallerRoundTrip(t *testing.T) {
	want := Caller{Principal: "pax-1", Relay: "app", RequestID: "req-1", Locale: "pt-BR"}
	got := CallerFromContext(WithCaller(context.Background(), want))
	if got != want {
		t.Fatalf("CallerFromContext = %+v, want %+v", got, want)
	}
}

func TestCallerFromContextEmpty(t *testing.T) {
	if got := CallerFromContext(context.Background()); got != (Caller{}) {
		t.Fatalf("expected zero caller, got %+v", got)
	}
}

func TestCallerFromContextNil(t *testing.T) {
	//nolint:staticcheck // nil context is part of the contract.
	if got := CallerFromContext(nil); got != (Caller{}) {
		t.Fatalf("expected zero caller for nil context, got %+v", got)
	}
}

func TestWithCallerNilContext(t *testing.T) {
	//nolint:staticcheck // nil context is part of the contract.
	ctx := WithCaller(nil, Caller{Principal: "owner"})
	if got := CallerFromContext(ctx); got.Principal != "owner" {
		t.Fatalf("principal = %q", got.Principal)
	}
}
