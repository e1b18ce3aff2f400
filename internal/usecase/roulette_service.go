package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/match-roulette/internal/domain/leaguefilter"
	"github.com/riskibarqy/match-roulette/internal/domain/roulette"
	"github.com/riskibarqy/match-roulette/internal/domain/team"
	"github.com/riskibarqy/match-roulette/internal/platform/logging"
	"github.com/sourcegraph/conc"
)

// PlaceholderName is shown for a slot with no team.
const PlaceholderName = "Empty"

// TeamFetcher downloads the full team list of one kind.
type TeamFetcher interface {
	FetchTeams(ctx context.Context, kind team.Kind, leagueQuery string) ([]team.Team, error)
}

// Slot is one of the three positions in a player's panel.
type Slot struct {
	Position int
	Index    int
	Team     *team.Team
}

func (s Slot) Filled() bool {
	return s.Team != nil
}

func (s Slot) Name() string {
	if s.Team == nil {
		return PlaceholderName
	}
	return s.Team.Name
}

type PlayerPanel struct {
	Player    roulette.Player
	Selection roulette.Selection
	Slots     []Slot
}

// BoardSnapshot is a consistent copy of one board for the display layer.
type BoardSnapshot struct {
	Kind        team.Kind
	CatalogSize int
	LoadedAt    time.Time
	Multiplayer bool
	Players     []PlayerPanel
}

type board struct {
	kind    team.Kind
	tickets atomic.Uint64

	mu          sync.RWMutex
	catalog     []team.Team
	selections  [2]roulette.Selection
	multiplayer bool
	applied     uint64
	loadedAt    time.Time
}

// replace installs a fetched catalog unless a load with a later ticket has
// already been applied.
func (b *board) replace(ticket uint64, teams []team.Team, now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ticket <= b.applied {
		return false
	}

	b.catalog = teams
	b.selections = [2]roulette.Selection{}
	b.applied = ticket
	b.loadedAt = now
	return true
}

func (b *board) snapshotLocked() BoardSnapshot {
	players := roulette.Players()
	if !b.multiplayer {
		players = players[:1]
	}

	panels := make([]PlayerPanel, 0, len(players))
	for _, player := range players {
		selection := b.selections[player.Index()].Clone()
		slots := make([]Slot, roulette.SpinSize)
		for pos := range slots {
			slots[pos] = Slot{Position: pos, Index: -1}
			if pos >= len(selection) {
				continue
			}
			idx := selection[pos]
			if idx < 0 || idx >= len(b.catalog) {
				continue
			}
			item := b.catalog[idx]
			slots[pos].Index = idx
			slots[pos].Team = &item
		}
		panels = append(panels, PlayerPanel{
			Player:    player,
			Selection: selection,
			Slots:     slots,
		})
	}

	return BoardSnapshot{
		Kind:        b.kind,
		CatalogSize: len(b.catalog),
		LoadedAt:    b.loadedAt,
		Multiplayer: b.multiplayer,
		Players:     panels,
	}
}

func (b *board) snapshot() BoardSnapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshotLocked()
}

// RouletteService owns the club and international boards: their catalogs and
// both players' selections.
type RouletteService struct {
	fetcher TeamFetcher
	filters leaguefilter.Repository
	picker  roulette.Picker
	logger  *logging.Logger
	boards  map[team.Kind]*board
	now     func() time.Time
}

func NewRouletteService(
	fetcher TeamFetcher,
	filters leaguefilter.Repository,
	picker roulette.Picker,
	logger *logging.Logger,
) *RouletteService {
	if logger == nil {
		logger = logging.Default()
	}
	if picker == nil {
		picker = roulette.NewRandomPicker(0)
	}

	boards := make(map[team.Kind]*board, len(team.Kinds()))
	for _, kind := range team.Kinds() {
		boards[kind] = &board{kind: kind}
	}

	return &RouletteService{
		fetcher: fetcher,
		filters: filters,
		picker:  picker,
		logger:  logger,
		boards:  boards,
		now:     time.Now,
	}
}

// Load fetches the catalog for kind and, when this is the newest completed
// request, replaces the board's catalog and clears both selections. A failed
// fetch leaves the board untouched.
func (s *RouletteService) Load(ctx context.Context, kind team.Kind) (BoardSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RouletteService.Load")
	defer span.End()

	var filter leaguefilter.Filter
	if kind == team.KindClub {
		filter = s.currentFilter(ctx)
	}
	return s.load(ctx, kind, filter)
}

// LoadWithFilter is Load with the league filter supplied by the caller
// instead of read from the repository.
func (s *RouletteService) LoadWithFilter(ctx context.Context, kind team.Kind, filter leaguefilter.Filter) (BoardSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RouletteService.LoadWithFilter")
	defer span.End()

	return s.load(ctx, kind, filter)
}

func (s *RouletteService) load(ctx context.Context, kind team.Kind, filter leaguefilter.Filter) (BoardSnapshot, error) {
	b, err := s.board(kind)
	if err != nil {
		return BoardSnapshot{}, err
	}

	query := ""
	if kind == team.KindClub {
		query = BuildLeagueQuery(filter)
	}

	ticket := b.tickets.Add(1)
	teams, err := s.fetcher.FetchTeams(ctx, kind, query)
	if err != nil {
		s.logger.WarnContext(ctx, "catalog load failed, keeping previous catalog",
			"kind", kind,
			"ticket", ticket,
			"error", err,
		)
		return b.snapshot(), fmt.Errorf("load %s catalog: %w", kind, err)
	}

	if !b.replace(ticket, teams, s.now()) {
		s.logger.DebugContext(ctx, "discarded stale catalog response", "kind", kind, "ticket", ticket)
		return b.snapshot(), nil
	}

	s.logger.InfoContext(ctx, "catalog loaded",
		"kind", kind,
		"ticket", ticket,
		"teams", len(teams),
		"leagues", query,
	)
	return b.snapshot(), nil
}

// LoadAll loads every board concurrently.
func (s *RouletteService) LoadAll(ctx context.Context) error {
	var (
		wg   conc.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, kind := range team.Kinds() {
		wg.Go(func() {
			if _, err := s.Load(ctx, kind); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	return errors.Join(errs...)
}

// SpinResult is a player's new selection and the board it was applied to.
type SpinResult struct {
	Selection roulette.Selection
	Board     BoardSnapshot
}

// Spin replaces player's selection with SpinSize distinct random catalog
// indices. When the catalog is too small the previous selection is kept.
// The returned board is read under the same lock as the spin.
func (s *RouletteService) Spin(ctx context.Context, kind team.Kind, player roulette.Player) (SpinResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RouletteService.Spin")
	defer span.End()

	if !player.Valid() {
		return SpinResult{}, fmt.Errorf("%w: unknown player %d", ErrInvalidInput, int(player))
	}
	b, err := s.board(kind)
	if err != nil {
		return SpinResult{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	picked, err := s.picker.Pick(len(b.catalog), roulette.SpinSize)
	if err != nil {
		s.logger.WarnContext(ctx, "spin rejected",
			"kind", kind,
			"player", player.String(),
			"catalog_size", len(b.catalog),
			"error", err,
		)
		return SpinResult{}, fmt.Errorf("spin %s for %s: %w", kind, player, err)
	}

	selection := roulette.Selection(picked)
	if err := selection.Validate(len(b.catalog)); err != nil {
		s.logger.ErrorContext(ctx, "picker returned unusable selection",
			"kind", kind,
			"player", player.String(),
			"selection", picked,
			"error", err,
		)
		return SpinResult{}, fmt.Errorf("spin %s for %s: %w", kind, player, err)
	}

	b.selections[player.Index()] = selection
	return SpinResult{
		Selection: selection.Clone(),
		Board:     b.snapshotLocked(),
	}, nil
}

// Reset clears both players' selections.
func (s *RouletteService) Reset(ctx context.Context, kind team.Kind) error {
	_, span := startUsecaseSpan(ctx, "usecase.RouletteService.Reset")
	defer span.End()

	b, err := s.board(kind)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.selections = [2]roulette.Selection{}
	b.mu.Unlock()

	return nil
}

// SetMultiplayer controls whether player two's panel is part of the board.
func (s *RouletteService) SetMultiplayer(ctx context.Context, kind team.Kind, enabled bool) (BoardSnapshot, error) {
	_, span := startUsecaseSpan(ctx, "usecase.RouletteService.SetMultiplayer")
	defer span.End()

	b, err := s.board(kind)
	if err != nil {
		return BoardSnapshot{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.multiplayer = enabled
	return b.snapshotLocked(), nil
}

func (s *RouletteService) Board(ctx context.Context, kind team.Kind) (BoardSnapshot, error) {
	_, span := startUsecaseSpan(ctx, "usecase.RouletteService.Board")
	defer span.End()

	b, err := s.board(kind)
	if err != nil {
		return BoardSnapshot{}, err
	}
	return b.snapshot(), nil
}

// Catalog returns a copy of the current catalog for kind.
func (s *RouletteService) Catalog(ctx context.Context, kind team.Kind) ([]team.Team, error) {
	_, span := startUsecaseSpan(ctx, "usecase.RouletteService.Catalog")
	defer span.End()

	b, err := s.board(kind)
	if err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]team.Team, len(b.catalog))
	copy(out, b.catalog)
	return out, nil
}

func (s *RouletteService) board(kind team.Kind) (*board, error) {
	b, ok := s.boards[kind]
	if !ok {
		return nil, fmt.Errorf("%w: board=%s", ErrNotFound, kind)
	}
	return b, nil
}

// currentFilter returns the saved filter, or nil when none is usable. A nil
// filter renders an empty leagues parameter.
func (s *RouletteService) currentFilter(ctx context.Context) leaguefilter.Filter {
	if s.filters == nil {
		return nil
	}

	filter, err := s.filters.LoadStored(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "league filter unavailable, loading without league query", "error", err)
		return nil
	}
	return filter
}
