package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/match-roulette/internal/domain/leaguefilter"
	"github.com/riskibarqy/match-roulette/internal/domain/team"
	"github.com/riskibarqy/match-roulette/internal/platform/logging"
)

// CatalogReloader is the part of RouletteService the filter flow drives.
type CatalogReloader interface {
	LoadWithFilter(ctx context.Context, kind team.Kind, filter leaguefilter.Filter) (BoardSnapshot, error)
	Reset(ctx context.Context, kind team.Kind) error
}

type SaveResult struct {
	Filter    leaguefilter.Filter
	Persisted bool
	Reloaded  bool
	Board     BoardSnapshot
}

type FilterService struct {
	repo    leaguefilter.Repository
	catalog CatalogReloader
	logger  *logging.Logger
}

func NewFilterService(repo leaguefilter.Repository, catalog CatalogReloader, logger *logging.Logger) *FilterService {
	if logger == nil {
		logger = logging.Default()
	}
	return &FilterService{
		repo:    repo,
		catalog: catalog,
		logger:  logger,
	}
}

// Get returns the stored filter, or the defaults when nothing usable is stored.
func (s *FilterService) Get(ctx context.Context) leaguefilter.Filter {
	ctx, span := startUsecaseSpan(ctx, "usecase.FilterService.Get")
	defer span.End()

	filter, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "load league filter failed, using defaults", "error", err)
		return leaguefilter.Default()
	}
	if len(filter) == 0 {
		return leaguefilter.Default()
	}
	return filter
}

// BeginEdit clears the club board's selections and returns the filter to edit.
func (s *FilterService) BeginEdit(ctx context.Context) (leaguefilter.Filter, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FilterService.BeginEdit")
	defer span.End()

	if err := s.catalog.Reset(ctx, team.KindClub); err != nil {
		return nil, fmt.Errorf("reset club board: %w", err)
	}
	return s.Get(ctx), nil
}

func (s *FilterService) SelectAll(filter leaguefilter.Filter, selected bool) leaguefilter.Filter {
	return filter.SetAll(selected)
}

// Toggle sets one league's selection in the filter being edited. Nothing is
// persisted until Save.
func (s *FilterService) Toggle(filter leaguefilter.Filter, id string, selected bool) (leaguefilter.Filter, error) {
	out, err := filter.Toggle(id, selected)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return out, nil
}

// Save persists filter and reloads the club catalog with it. A write failure
// is reported through SaveResult.Persisted; the reload still runs.
func (s *FilterService) Save(ctx context.Context, filter leaguefilter.Filter) (SaveResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FilterService.Save")
	defer span.End()

	if err := filter.ValidateForSave(); err != nil {
		return SaveResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	result := SaveResult{Filter: filter.Clone()}
	if err := s.repo.Save(ctx, filter); err != nil {
		s.logger.ErrorContext(ctx, "persist league filter failed", "error", err)
	} else {
		result.Persisted = true
	}

	board, err := s.catalog.LoadWithFilter(ctx, team.KindClub, filter)
	if err != nil {
		s.logger.WarnContext(ctx, "reload after filter save failed", "error", err)
	} else {
		result.Reloaded = true
	}
	result.Board = board

	return result, nil
}
