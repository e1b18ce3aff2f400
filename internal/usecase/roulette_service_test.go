package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/match-roulette/internal/domain/leaguefilter"
	"github.com/riskibarqy/match-roulette/internal/domain/roulette"
	"github.com/riskibarqy/match-roulette/internal/domain/team"
	leaguefiltermock "github.com/riskibarqy/match-roulette/internal/mocks/domain/leaguefilter"
	roulettemock "github.com/riskibarqy/match-roulette/internal/mocks/domain/roulette"
	"github.com/stretchr/testify/mock"
)

type fetchCall struct {
	kind  team.Kind
	query string
}

type stubFetcher struct {
	mu    sync.Mutex
	calls []fetchCall
	fn    func(call int, kind team.Kind, query string) ([]team.Team, error)
}

func (f *stubFetcher) FetchTeams(_ context.Context, kind team.Kind, query string) ([]team.Team, error) {
	f.mu.Lock()
	call := len(f.calls)
	f.calls = append(f.calls, fetchCall{kind: kind, query: query})
	f.mu.Unlock()

	return f.fn(call, kind, query)
}

func (f *stubFetcher) Calls() []fetchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]fetchCall, len(f.calls))
	copy(out, f.calls)
	return out
}

func makeTeams(kind team.Kind, prefix string, n int) []team.Team {
	out := make([]team.Team, 0, n)
	for i := 0; i < n; i++ {
		item := team.Team{
			Kind:   kind,
			Name:   fmt.Sprintf("%s-%d", prefix, i),
			Logo:   fmt.Sprintf("https://cdn.example.com/%s-%d.png", prefix, i),
			Rating: 4,
		}
		if kind == team.KindClub {
			item.League = "German"
		}
		out = append(out, item)
	}
	return out
}

func staticFetcher(teams []team.Team) *stubFetcher {
	return &stubFetcher{fn: func(int, team.Kind, string) ([]team.Team, error) {
		return teams, nil
	}}
}

func TestRouletteService_LoadClubUsesStoredFilter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := leaguefiltermock.NewRepository(t)
	repo.On("LoadStored", mock.Anything).Return(leaguefilter.Filter{
		{ID: "German", IsSelected: true},
		{ID: "Spanish", IsSelected: false},
	}, nil).Once()

	fetcher := staticFetcher(makeTeams(team.KindClub, "club", 5))
	loadedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	service := NewRouletteService(fetcher, repo, roulette.NewRandomPicker(1), nil)
	service.now = func() time.Time { return loadedAt }

	snapshot, err := service.Load(ctx, team.KindClub)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snapshot.CatalogSize != 5 {
		t.Fatalf("unexpected catalog size: %d", snapshot.CatalogSize)
	}
	if !snapshot.LoadedAt.Equal(loadedAt) {
		t.Fatalf("unexpected loaded at: %s", snapshot.LoadedAt)
	}

	calls := fetcher.Calls()
	if len(calls) != 1 || calls[0].kind != team.KindClub || calls[0].query != "German" {
		t.Fatalf("unexpected fetch calls: %+v", calls)
	}
}

func TestRouletteService_LoadClubWithoutStoredFilterSendsEmptyQuery(t *testing.T) {
	t.Parallel()

	cases := map[string]func(repo *leaguefiltermock.Repository){
		"nothing stored": func(repo *leaguefiltermock.Repository) {
			repo.On("LoadStored", mock.Anything).Return(leaguefilter.Filter(nil), nil).Once()
		},
		"read failure": func(repo *leaguefiltermock.Repository) {
			repo.On("LoadStored", mock.Anything).Return(leaguefilter.Filter(nil), errors.New("disk gone")).Once()
		},
	}
	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			repo := leaguefiltermock.NewRepository(t)
			setup(repo)

			fetcher := staticFetcher(makeTeams(team.KindClub, "club", 3))
			service := NewRouletteService(fetcher, repo, nil, nil)

			if _, err := service.Load(context.Background(), team.KindClub); err != nil {
				t.Fatalf("load: %v", err)
			}

			calls := fetcher.Calls()
			if len(calls) != 1 || calls[0].query != "" {
				t.Fatalf("unexpected fetch calls: %+v", calls)
			}
			repo.AssertNotCalled(t, "Load", mock.Anything)
		})
	}
}

func TestRouletteService_LoadInternationalSkipsFilter(t *testing.T) {
	t.Parallel()

	repo := leaguefiltermock.NewRepository(t)
	fetcher := staticFetcher(makeTeams(team.KindInternational, "intl", 4))
	service := NewRouletteService(fetcher, repo, nil, nil)

	if _, err := service.Load(context.Background(), team.KindInternational); err != nil {
		t.Fatalf("load: %v", err)
	}

	calls := fetcher.Calls()
	if len(calls) != 1 || calls[0].query != "" {
		t.Fatalf("unexpected fetch calls: %+v", calls)
	}
	repo.AssertNotCalled(t, "LoadStored", mock.Anything)
}

func TestRouletteService_ReloadClearsSelections(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fetcher := staticFetcher(makeTeams(team.KindInternational, "intl", 6))
	service := NewRouletteService(fetcher, nil, roulette.NewRandomPicker(7), nil)

	if _, err := service.Load(ctx, team.KindInternational); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := service.Spin(ctx, team.KindInternational, roulette.PlayerOne); err != nil {
		t.Fatalf("spin: %v", err)
	}

	snapshot, err := service.Load(ctx, team.KindInternational)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !snapshot.Players[0].Selection.Empty() {
		t.Fatalf("expected selection cleared after reload, got %v", snapshot.Players[0].Selection)
	}
}

func TestRouletteService_FailedLoadKeepsPreviousState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fetcher := &stubFetcher{fn: func(call int, kind team.Kind, _ string) ([]team.Team, error) {
		if call == 0 {
			return makeTeams(kind, "intl", 5), nil
		}
		return nil, fmt.Errorf("%w: connection refused", ErrNetwork)
	}}
	service := NewRouletteService(fetcher, nil, roulette.NewRandomPicker(3), nil)

	if _, err := service.Load(ctx, team.KindInternational); err != nil {
		t.Fatalf("first load: %v", err)
	}
	spun, err := service.Spin(ctx, team.KindInternational, roulette.PlayerOne)
	if err != nil {
		t.Fatalf("spin: %v", err)
	}
	selection := spun.Selection

	snapshot, err := service.Load(ctx, team.KindInternational)
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	if snapshot.CatalogSize != 5 {
		t.Fatalf("expected previous catalog to stay, got size %d", snapshot.CatalogSize)
	}
	got := snapshot.Players[0].Selection
	if len(got) != len(selection) {
		t.Fatalf("expected selection kept: got=%v want=%v", got, selection)
	}
	for i := range got {
		if got[i] != selection[i] {
			t.Fatalf("expected selection kept: got=%v want=%v", got, selection)
		}
	}
}

func TestRouletteService_StaleResponseIsDiscarded(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})
	fetcher := &stubFetcher{fn: func(call int, kind team.Kind, _ string) ([]team.Team, error) {
		if call == 0 {
			close(started)
			<-release
			return makeTeams(kind, "old", 4), nil
		}
		return makeTeams(kind, "new", 7), nil
	}}
	service := NewRouletteService(fetcher, nil, nil, nil)

	done := make(chan error, 1)
	go func() {
		_, err := service.Load(ctx, team.KindInternational)
		done <- err
	}()

	<-started
	if _, err := service.Load(ctx, team.KindInternational); err != nil {
		t.Fatalf("second load: %v", err)
	}
	close(release)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("first load: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("first load did not finish")
	}

	catalog, err := service.Catalog(ctx, team.KindInternational)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(catalog) != 7 || catalog[0].Name != "new-0" {
		t.Fatalf("expected newest catalog to win, got %d teams starting with %q", len(catalog), catalog[0].Name)
	}
}

func TestRouletteService_SpinAndResetScenario(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	picker := roulettemock.NewPicker(t)
	picker.On("Pick", 5, roulette.SpinSize).Return([]int{1, 3, 4}, nil).Once()

	fetcher := staticFetcher(makeTeams(team.KindClub, "club", 5))
	service := NewRouletteService(fetcher, nil, picker, nil)

	if _, err := service.Load(ctx, team.KindClub); err != nil {
		t.Fatalf("load: %v", err)
	}
	spun, err := service.Spin(ctx, team.KindClub, roulette.PlayerOne)
	if err != nil {
		t.Fatalf("spin: %v", err)
	}
	selection := spun.Selection
	if len(selection) != 3 || selection[0] != 1 || selection[1] != 3 || selection[2] != 4 {
		t.Fatalf("unexpected selection: %v", selection)
	}
	if spun.Board.CatalogSize != 5 || len(spun.Board.Players) != 1 {
		t.Fatalf("unexpected board with spin: %+v", spun.Board)
	}
	if got := spun.Board.Players[0].Slots[2]; got.Name() != "club-4" || got.Index != 4 {
		t.Fatalf("spin board missing the new selection: %+v", got)
	}

	snapshot, err := service.Board(ctx, team.KindClub)
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	slots := snapshot.Players[0].Slots
	if slots[1].Name() != "club-3" || slots[1].Index != 3 {
		t.Fatalf("unexpected slot: %+v", slots[1])
	}

	if err := service.Reset(ctx, team.KindClub); err != nil {
		t.Fatalf("reset: %v", err)
	}
	snapshot, err = service.SetMultiplayer(ctx, team.KindClub, true)
	if err != nil {
		t.Fatalf("set multiplayer: %v", err)
	}
	if len(snapshot.Players) != 2 {
		t.Fatalf("expected two panels, got %d", len(snapshot.Players))
	}
	for _, panel := range snapshot.Players {
		if !panel.Selection.Empty() {
			t.Fatalf("expected %s empty after reset, got %v", panel.Player, panel.Selection)
		}
		for _, slot := range panel.Slots {
			if slot.Filled() || slot.Name() != PlaceholderName {
				t.Fatalf("expected placeholder slot, got %+v", slot)
			}
		}
	}
}

func TestRouletteService_SpinRejectsUnusablePick(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	picker := roulettemock.NewPicker(t)
	picker.On("Pick", 5, roulette.SpinSize).Return([]int{0, 1, 2}, nil).Once()
	picker.On("Pick", 5, roulette.SpinSize).Return([]int{2, 2, 4}, nil).Once()
	picker.On("Pick", 5, roulette.SpinSize).Return([]int{1, 2, 5}, nil).Once()

	service := NewRouletteService(staticFetcher(makeTeams(team.KindClub, "club", 5)), nil, picker, nil)
	if _, err := service.Load(ctx, team.KindClub); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := service.Spin(ctx, team.KindClub, roulette.PlayerOne); err != nil {
		t.Fatalf("spin: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := service.Spin(ctx, team.KindClub, roulette.PlayerOne); err == nil {
			t.Fatalf("expected spin %d to be rejected", i)
		}
	}

	snapshot, err := service.Board(ctx, team.KindClub)
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	got := snapshot.Players[0].Selection
	if len(got) != 3 || got[0] != 0 || got[1] != 1 || got[2] != 2 {
		t.Fatalf("expected first selection kept, got %v", got)
	}
}

func TestRouletteService_SpinInsufficientCatalog(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fetcher := &stubFetcher{fn: func(call int, kind team.Kind, _ string) ([]team.Team, error) {
		if call == 0 {
			return makeTeams(kind, "intl", 3), nil
		}
		return makeTeams(kind, "small", 2), nil
	}}
	service := NewRouletteService(fetcher, nil, roulette.NewRandomPicker(11), nil)

	if _, err := service.Spin(ctx, team.KindInternational, roulette.PlayerTwo); !errors.Is(err, roulette.ErrInsufficientCatalog) {
		t.Fatalf("expected ErrInsufficientCatalog on empty catalog, got %v", err)
	}

	if _, err := service.Load(ctx, team.KindInternational); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := service.Spin(ctx, team.KindInternational, roulette.PlayerTwo); err != nil {
		t.Fatalf("spin: %v", err)
	}
	if _, err := service.Load(ctx, team.KindInternational); err != nil {
		t.Fatalf("reload: %v", err)
	}

	if _, err := service.Spin(ctx, team.KindInternational, roulette.PlayerOne); !errors.Is(err, roulette.ErrInsufficientCatalog) {
		t.Fatalf("expected ErrInsufficientCatalog, got %v", err)
	}
	snapshot, err := service.SetMultiplayer(ctx, team.KindInternational, true)
	if err != nil {
		t.Fatalf("set multiplayer: %v", err)
	}
	if !snapshot.Players[0].Selection.Empty() {
		t.Fatalf("expected player one untouched, got %v", snapshot.Players[0].Selection)
	}
}

func TestRouletteService_RejectsUnknownPlayerAndKind(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service := NewRouletteService(staticFetcher(nil), nil, nil, nil)

	if _, err := service.Spin(ctx, team.KindClub, roulette.Player(3)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := service.Board(ctx, team.Kind("futsal")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := service.Load(ctx, team.Kind("futsal")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on load, got %v", err)
	}
}

func TestRouletteService_LoadAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fetcher := &stubFetcher{fn: func(_ int, kind team.Kind, _ string) ([]team.Team, error) {
		if kind == team.KindInternational {
			return nil, fmt.Errorf("%w: bad json", ErrDecode)
		}
		return makeTeams(kind, "club", 4), nil
	}}
	service := NewRouletteService(fetcher, nil, nil, nil)

	err := service.LoadAll(ctx)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected joined ErrDecode, got %v", err)
	}
	if len(fetcher.Calls()) != 2 {
		t.Fatalf("expected both boards fetched, got %+v", fetcher.Calls())
	}

	club, err := service.Board(ctx, team.KindClub)
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	if club.CatalogSize != 4 {
		t.Fatalf("expected club catalog loaded, got %d", club.CatalogSize)
	}
}
