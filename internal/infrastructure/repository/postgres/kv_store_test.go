package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/match-roulette/internal/platform/kvstore"
)

func newMockKVStore(t *testing.T) (*KVStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewKVStore(sqlx.NewDb(db, "postgres")), mock
}

func TestKVStore_GetFound(t *testing.T) {
	store, mock := newMockKVStore(t)
	updatedAt := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(selectKVEntryQuery)).
		WithArgs("filterLists").
		WillReturnRows(sqlmock.NewRows([]string{"key", "value", "updated_at"}).
			AddRow("filterLists", []byte(`[{"id":"German","isSelected":true}]`), updatedAt))

	got, ok, err := store.Get(context.Background(), " filterLists ")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatalf("expected entry to exist")
	}
	if string(got) != `[{"id":"German","isSelected":true}]` {
		t.Fatalf("unexpected value: %s", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestKVStore_GetMissing(t *testing.T) {
	store, mock := newMockKVStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectKVEntryQuery)).
		WithArgs("filterLists").
		WillReturnRows(sqlmock.NewRows([]string{"key", "value", "updated_at"}))

	got, ok, err := store.Get(context.Background(), "filterLists")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok || got != nil {
		t.Fatalf("expected missing entry, got ok=%t value=%s", ok, got)
	}
}

func TestKVStore_GetQueryError(t *testing.T) {
	store, mock := newMockKVStore(t)

	boom := errors.New("connection reset")
	mock.ExpectQuery(regexp.QuoteMeta(selectKVEntryQuery)).
		WithArgs("filterLists").
		WillReturnError(boom)

	if _, _, err := store.Get(context.Background(), "filterLists"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped query error, got %v", err)
	}
}

func TestKVStore_SetUpserts(t *testing.T) {
	store, mock := newMockKVStore(t)
	now := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	value := []byte(`[{"id":"English","isSelected":true}]`)
	mock.ExpectExec(regexp.QuoteMeta(upsertKVEntryQuery)).
		WithArgs("filterLists", value, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.Set(context.Background(), "filterLists", value); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestKVStore_RejectsEmptyKey(t *testing.T) {
	store, _ := newMockKVStore(t)

	if _, _, err := store.Get(context.Background(), " "); !errors.Is(err, kvstore.ErrEmptyKey) {
		t.Fatalf("expected ErrEmptyKey, got %v", err)
	}
	if err := store.Set(context.Background(), "", nil); !errors.Is(err, kvstore.ErrEmptyKey) {
		t.Fatalf("expected ErrEmptyKey, got %v", err)
	}
}
