package integrity

import (
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
)

func TestNewKeyringValidation(t *testing.T) {
	tests := []struct {
		name   string
		keys   map[string][]byte
		active string
	}{
		{name: "no keys", keys: nil, active: "v1"},
		{name: "no active", keys: map[string][]byte{"v1": []byte("s")}, active: " "},
		{name: "unknown active", keys: map[string][]byte{"v1": []byte("s")}, active: "v2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewKeyring(tt.keys, tt.active); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseKeyring(t *testing.T) {
	k, err := ParseKeyring("v1=alpha, v2=beta", "v2")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if k.ActiveKeyID() != "v2" {
		t.Fatalf("active = %q", k.ActiveKeyID())
	}
	if _, err := ParseKeyring("v1", "v1"); err == nil {
		t.Fatal("expected error for entry without secret")
	}
	if _, err := ParseKeyring("v1=alpha,v1=beta", "v1"); err == nil {
		t.Fatal("expected error for duplicate key id")
	}
	if _, err := ParseKeyring("v1=alpha,v2=beta", ""); err == nil {
		t.Fatal("expected error for ambiguous active key")
	}
	single, err := ParseKeyring("solo=alpha", "")
	if err != nil {
		t.Fatalf("parse single: %v", err)
	}
	if single.ActiveKeyID() != "solo" {
		t.Fatalf("active = %q, want solo", single.ActiveKeyID())
	}
}

func TestSignAndVerifyAcrossRotation(t *testing.T) {
	old, err := ParseKeyring("v1=alpha", "v1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sig, keyID, err := old.SignChainHash("abc")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	rotated, err := ParseKeyring("v1=alpha,v2=beta", "v2")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := rotated.VerifyChainHash("abc", sig, keyID); err != nil {
		t.Fatalf("verify old signature: %v", err)
	}
	if err := rotated.VerifyChainHash("abd", sig, keyID); err == nil {
		t.Fatal("expected mismatch for altered chain hash")
	}
	if err := rotated.VerifyChainHash("abc", sig, "v9"); err == nil {
		t.Fatal("expected unknown key error")
	}
}

func testEvent(entityID string) event.Event {
	return event.Event{
		Type:        "airline.nominated",
		Timestamp:   time.Unix(1_700_000_000, 0).UTC(),
		ActorID:     "air-1",
		EntityType:  "airline",
		EntityID:    entityID,
		PayloadJSON: []byte(`{"airline":"` + entityID + `"}`),
	}
}

func TestSealAndVerifyChain(t *testing.T) {
	k, err := ParseKeyring("v1=alpha", "v1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var sealed []event.Event
	prev := ""
	for i, id := range []string{"air-2", "air-3", "air-4"} {
		evt, err := Seal(k, testEvent(id), uint64(i+1), prev)
		if err != nil {
			t.Fatalf("seal: %v", err)
		}
		prev = evt.ChainHash
		sealed = append(sealed, evt)
	}

	verifier := NewChainVerifier(k)
	for _, evt := range sealed {
		if err := verifier.Verify(evt); err != nil {
			t.Fatalf("verify seq %d: %v", evt.Seq, err)
		}
	}
	if verifier.LastSeq() != 3 {
		t.Fatalf("last seq = %d", verifier.LastSeq())
	}

	tampered := append([]event.Event(nil), sealed...)
	tampered[1].PayloadJSON = []byte(`{"airline":"air-x"}`)
	verifier = NewChainVerifier(k)
	var verifyErr error
	for _, evt := range tampered {
		if verifyErr = verifier.Verify(evt); verifyErr != nil {
			break
		}
	}
	if verifyErr == nil || !strings.Contains(verifyErr.Error(), "event hash mismatch seq=2") {
		t.Fatalf("err = %v", verifyErr)
	}

	verifier = NewChainVerifier(k)
	if err := verifier.Verify(sealed[1]); err == nil || !strings.Contains(err.Error(), "sequence gap") {
		t.Fatalf("err = %v", err)
	}
}
