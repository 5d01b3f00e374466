package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/louisbranch/flightsurety/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/flightsurety/internal/services/surety/domain/event"
	"github.com/louisbranch/flightsurety/internal/services/surety/storage"
	"github.com/louisbranch/flightsurety/internal/services/surety/storage/filter"
	"github.com/louisbranch/flightsurety/internal/services/surety/storage/integrity"
	"github.com/louisbranch/flightsurety/internal/services/surety/storage/sqlite/migrations"
)

const eventColumns = `seq, event_hash, prev_event_hash, chain_hash, signature_key_id, event_signature,
	timestamp, event_type, actor_id, relay_id, request_id, entity_type, entity_id, payload_json`

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store is a SQLite-backed event journal.
type Store struct {
	sqlDB   *sql.DB
	keyring *integrity.Keyring
}

// Open opens the journal at path and applies embedded migrations.
func Open(path string, keyring *integrity.Keyring) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if keyring == nil {
		return nil, fmt.Errorf("event integrity keyring is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.EventsFS, "events"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, keyring: keyring}, nil
}

// Close closes the underlying SQLite database. It is nil-safe.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// AppendEvents atomically appends a batch. Sequence numbers are allocated
// contiguously and the first event links to the last stored one.
func (s *Store) AppendEvents(ctx context.Context, events []event.Event) ([]event.Event, error) {
	if len(events) == 0 {
		return nil, nil
	}
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var lastSeq int64
	var prevChainHash string
	err = tx.QueryRowContext(ctx, "SELECT seq, chain_hash FROM events ORDER BY seq DESC LIMIT 1").Scan(&lastSeq, &prevChainHash)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load previous event: %w", err)
	}

	stored := make([]event.Event, len(events))
	for i, evt := range events {
		sealed, err := integrity.Seal(s.keyring, evt, uint64(lastSeq)+uint64(i)+1, prevChainHash)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO events (`+eventColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			int64(sealed.Seq), sealed.Hash, sealed.PrevHash, sealed.ChainHash, sealed.SignatureKeyID, sealed.Signature,
			toMillis(sealed.Timestamp), string(sealed.Type), sealed.ActorID, sealed.RelayID, sealed.RequestID,
			sealed.EntityType, sealed.EntityID, sealed.PayloadJSON,
		); err != nil {
			if isConstraintError(err) {
				return nil, fmt.Errorf("append event %d: duplicate event hash: %w", i, err)
			}
			return nil, fmt.Errorf("append event %d: %w", i, err)
		}
		prevChainHash = sealed.ChainHash
		stored[i] = sealed
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return stored, nil
}

// ReplayEvents streams events after afterSeq in pages.
func (s *Store) ReplayEvents(ctx context.Context, afterSeq uint64, fn func(event.Event) error) error {
	for {
		page, err := s.ListEvents(ctx, storage.ListEventsRequest{AfterSeq: afterSeq, Limit: storage.MaxPageSize})
		if err != nil {
			return err
		}
		if len(page) == 0 {
			return nil
		}
		for _, evt := range page {
			if err := fn(evt); err != nil {
				return err
			}
			afterSeq = evt.Seq
		}
	}
}

// ListEvents returns a filtered page ordered by sequence ascending.
func (s *Store) ListEvents(ctx context.Context, req storage.ListEventsRequest) ([]event.Event, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	cond, err := filter.ParseEventFilter(req.Filter)
	if err != nil {
		return nil, err
	}

	query := "SELECT " + eventColumns + " FROM events WHERE seq > ?"
	params := []any{int64(req.AfterSeq)}
	if cond.Clause != "" {
		query += " AND " + cond.Clause
		params = append(params, cond.Params...)
	}
	query += " ORDER BY seq LIMIT ?"
	params = append(params, storage.NormalizeLimit(req.Limit))

	rows, err := s.sqlDB.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		evt, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// GetEventBySeq retrieves a specific event by sequence number.
func (s *Store) GetEventBySeq(ctx context.Context, seq uint64) (event.Event, error) {
	if err := s.ready(ctx); err != nil {
		return event.Event{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM events WHERE seq = ?", int64(seq))
	evt, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return event.Event{}, storage.ErrNotFound
		}
		return event.Event{}, err
	}
	return evt, nil
}

// VerifyEventIntegrity walks the whole chain and checks every signature.
func (s *Store) VerifyEventIntegrity(ctx context.Context) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	verifier := integrity.NewChainVerifier(s.keyring)
	return s.ReplayEvents(ctx, 0, verifier.Verify)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (event.Event, error) {
	var (
		evt       event.Event
		seq       int64
		millis    int64
		eventType string
		payload   []byte
	)
	if err := row.Scan(&seq, &evt.Hash, &evt.PrevHash, &evt.ChainHash, &evt.SignatureKeyID, &evt.Signature,
		&millis, &eventType, &evt.ActorID, &evt.RelayID, &evt.RequestID, &evt.EntityType, &evt.EntityID, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return event.Event{}, err
		}
		return event.Event{}, fmt.Errorf("scan event: %w", err)
	}
	evt.Seq = uint64(seq)
	evt.Timestamp = fromMillis(millis)
	evt.Type = event.Type(eventType)
	evt.PayloadJSON = payload
	return evt, nil
}

func isConstraintError(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
