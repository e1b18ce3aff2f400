package kv

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/match-roulette/internal/domain/leaguefilter"
	"github.com/riskibarqy/match-roulette/internal/platform/kvstore"
	"github.com/riskibarqy/match-roulette/internal/platform/logging"
	"github.com/riskibarqy/match-roulette/internal/usecase"
)

// FilterRepository keeps the league filter as one JSON array under
// leaguefilter.StorageKey.
type FilterRepository struct {
	store  kvstore.Store
	logger *logging.Logger
}

func NewFilterRepository(store kvstore.Store, logger *logging.Logger) *FilterRepository {
	if logger == nil {
		logger = logging.Default()
	}

	return &FilterRepository{
		store:  store,
		logger: logger,
	}
}

// Load is LoadStored with Default() substituted for a missing or unusable
// value. The settings screen edits this filter.
func (r *FilterRepository) Load(ctx context.Context) (leaguefilter.Filter, error) {
	filter, err := r.LoadStored(ctx)
	if err != nil || filter == nil {
		return leaguefilter.Default(), err
	}
	return filter, nil
}

// LoadStored returns the filter exactly as saved, or nil when the key is
// missing, unparsable or invalid. The catalog loader builds its league query
// from this, so a first run asks for every league.
func (r *FilterRepository) LoadStored(ctx context.Context) (leaguefilter.Filter, error) {
	raw, ok, err := r.store.Get(ctx, leaguefilter.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("%w: read league filter: %w", usecase.ErrPersistence, err)
	}
	if !ok {
		return nil, nil
	}

	var entries []leaguefilter.Entry
	if err := sonic.Unmarshal(raw, &entries); err != nil {
		r.logger.WarnContext(ctx, "stored league filter is unreadable", "error", err)
		return nil, nil
	}

	filter := leaguefilter.Filter(entries)
	if err := filter.Validate(); err != nil {
		r.logger.WarnContext(ctx, "stored league filter is invalid", "error", err)
		return nil, nil
	}

	r.logger.DebugContext(ctx, "loaded league filter", "leagues", len(filter))
	return filter, nil
}

func (r *FilterRepository) Save(ctx context.Context, filter leaguefilter.Filter) error {
	if err := filter.Validate(); err != nil {
		return fmt.Errorf("%w: %w", usecase.ErrInvalidInput, err)
	}

	raw, err := sonic.Marshal([]leaguefilter.Entry(filter))
	if err != nil {
		return fmt.Errorf("%w: encode league filter: %w", usecase.ErrPersistence, err)
	}

	if err := r.store.Set(ctx, leaguefilter.StorageKey, raw); err != nil {
		return fmt.Errorf("%w: write league filter: %w", usecase.ErrPersistence, err)
	}

	return nil
}
