package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/storage"
	"github.com/louisbranch/flightsurety/internal/services/surety/storage/integrity"
)

var _ storage.EventStore = (*Store)(nil)

func testKeyring(t *testing.T) *integrity.Keyring {
	t.Helper()
	keyring, err := integrity.ParseKeyring("v1=test-secret", "v1")
	if err != nil {
		t.Fatalf("keyring: %v", err)
	}
	return keyring
}

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	store, err := Open(path, testKeyring(t))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testEvent(i int, evtType event.Type) event.Event {
	return event.Event{
		Type:        evtType,
		Timestamp:   time.Unix(1_700_000_000+int64(i), 123_456_789).UTC(),
		ActorID:     fmt.Sprintf("actor-%d", i),
		RelayID:     "app",
		RequestID:   fmt.Sprintf("req-%d", i),
		EntityType:  "flight",
		EntityID:    fmt.Sprintf("air-1/SU%d/1700000000", i),
		PayloadJSON: []byte(fmt.Sprintf(`{"n":%d}`, i)),
	}
}

func TestOpenRequiresPathAndKeyring(t *testing.T) {
	if _, err := Open(" ", testKeyring(t)); err == nil {
		t.Fatal("expected path error")
	}
	if _, err := Open(filepath.Join(t.TempDir(), "j.db"), nil); err == nil {
		t.Fatal("expected keyring error")
	}
}

func TestAppendAndReadBack(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "journal.db"))
	ctx := context.Background()

	stored, err := store.AppendEvents(ctx, []event.Event{testEvent(1, "insurance.flight_registered"), testEvent(2, "oracle.request")})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if stored[0].Seq != 1 || stored[1].Seq != 2 || stored[1].PrevHash != stored[0].ChainHash {
		t.Fatalf("stored = %+v", stored)
	}

	got, err := store.GetEventBySeq(ctx, 2)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Hash != stored[1].Hash || got.RelayID != "app" || string(got.PayloadJSON) != `{"n":2}` {
		t.Fatalf("got = %+v", got)
	}
	if !got.Timestamp.Equal(stored[1].Timestamp) {
		t.Fatalf("timestamp = %v, want %v", got.Timestamp, stored[1].Timestamp)
	}
	if _, err := store.GetEventBySeq(ctx, 9); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	if err := store.VerifyEventIntegrity(ctx); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestReopenContinuesChain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	first, err := Open(path, testKeyring(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := first.AppendEvents(ctx, []event.Event{testEvent(1, "airline.nominated")}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := openTestStore(t, path)
	stored, err := second.AppendEvents(ctx, []event.Event{testEvent(2, "airline.voted")})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if stored[0].Seq != 2 {
		t.Fatalf("seq = %d", stored[0].Seq)
	}
	if err := second.VerifyEventIntegrity(ctx); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestVerifyDetectsTamperedRow(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "journal.db"))
	ctx := context.Background()
	if _, err := store.AppendEvents(ctx, []event.Event{testEvent(1, "a.b"), testEvent(2, "a.b")}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := store.sqlDB.ExecContext(ctx, "UPDATE events SET payload_json = ? WHERE seq = 1", []byte(`{"n":9}`)); err != nil {
		t.Fatalf("tamper: %v", err)
	}
	if err := store.VerifyEventIntegrity(ctx); err == nil {
		t.Fatal("expected integrity error")
	}
}

func TestListEventsWithFilter(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "journal.db"))
	ctx := context.Background()
	var batch []event.Event
	for i := 1; i <= 5; i++ {
		evtType := event.Type("oracle.report")
		if i == 3 {
			evtType = "oracle.flight_status_info"
		}
		batch = append(batch, testEvent(i, evtType))
	}
	if _, err := store.AppendEvents(ctx, batch); err != nil {
		t.Fatalf("append: %v", err)
	}

	page, err := store.ListEvents(ctx, storage.ListEventsRequest{Filter: `type = "oracle.report" AND seq >= 2`, Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 || page[0].Seq != 2 || page[1].Seq != 4 {
		t.Fatalf("page = %+v", page)
	}

	var replayed []uint64
	if err := store.ReplayEvents(ctx, 3, func(evt event.Event) error {
		replayed = append(replayed, evt.Seq)
		return nil
	}); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if fmt.Sprint(replayed) != "[4 5]" {
		t.Fatalf("replayed = %v", replayed)
	}
}
