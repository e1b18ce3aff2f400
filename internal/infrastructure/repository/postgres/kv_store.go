package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/match-roulette/internal/platform/kvstore"
)

const (
	selectKVEntryQuery = `SELECT key, value, updated_at FROM kv_entries WHERE key = $1 LIMIT 1`
	upsertKVEntryQuery = `INSERT INTO kv_entries (key, value, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (key)
DO UPDATE SET
    value = EXCLUDED.value,
    updated_at = EXCLUDED.updated_at`
)

type kvEntryTableModel struct {
	Key       string    `db:"key"`
	Value     []byte    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// KVStore keeps preference values in the kv_entries table.
type KVStore struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewKVStore(db *sqlx.DB) *KVStore {
	return &KVStore{db: db, now: time.Now}
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, kvstore.ErrEmptyKey
	}

	var row kvEntryTableModel
	if err := s.db.GetContext(ctx, &row, selectKVEntryQuery, key); err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get kv entry %q: %w", key, err)
	}

	return row.Value, true, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return kvstore.ErrEmptyKey
	}

	if _, err := s.db.ExecContext(ctx, upsertKVEntryQuery, key, value, s.now().UTC()); err != nil {
		return fmt.Errorf("upsert kv entry %q: %w", key, err)
	}

	return nil
}
