package httpapi

import (
	"time"

	"github.com/riskibarqy/match-roulette/internal/domain/leaguefilter"
	"github.com/riskibarqy/match-roulette/internal/domain/team"
	"github.com/riskibarqy/match-roulette/internal/usecase"
)

type leagueEntryDTO struct {
	ID         string `json:"id" validate:"required,max=64"`
	IsSelected bool   `json:"isSelected"`
}

type saveFiltersRequest struct {
	Leagues []leagueEntryDTO `json:"leagues" validate:"required,min=1,max=64,dive"`
}

type selectAllRequest struct {
	Leagues  []leagueEntryDTO `json:"leagues" validate:"required,min=1,max=64,dive"`
	Selected *bool            `json:"selected" validate:"required"`
}

type toggleLeagueRequest struct {
	Leagues    []leagueEntryDTO `json:"leagues" validate:"required,min=1,max=64,dive"`
	IsSelected *bool            `json:"isSelected" validate:"required"`
}

type multiplayerRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type filterDTO struct {
	Leagues     []leagueEntryDTO `json:"leagues"`
	AllSelected bool             `json:"allSelected"`
	CanSave     bool             `json:"canSave"`
}

type saveResultDTO struct {
	Filter    filterDTO `json:"filter"`
	Persisted bool      `json:"persisted"`
	Reloaded  bool      `json:"reloaded"`
	Board     boardDTO  `json:"board"`
}

type teamDTO struct {
	Name   string  `json:"name"`
	Logo   string  `json:"logo"`
	League string  `json:"league,omitempty"`
	Rating float64 `json:"rating"`
}

type slotDTO struct {
	Position int      `json:"position"`
	Filled   bool     `json:"filled"`
	Index    *int     `json:"index,omitempty"`
	Name     string   `json:"name"`
	Team     *teamDTO `json:"team,omitempty"`
}

type playerPanelDTO struct {
	Player    int       `json:"player"`
	Label     string    `json:"label"`
	Selection []int     `json:"selection"`
	Slots     []slotDTO `json:"slots"`
}

type boardDTO struct {
	Kind        string           `json:"kind"`
	CatalogSize int              `json:"catalogSize"`
	LoadedAt    *time.Time       `json:"loadedAt,omitempty"`
	Multiplayer bool             `json:"multiplayer"`
	Players     []playerPanelDTO `json:"players"`
}

func filterFromDTO(items []leagueEntryDTO) leaguefilter.Filter {
	out := make(leaguefilter.Filter, 0, len(items))
	for _, item := range items {
		out = append(out, leaguefilter.Entry{ID: item.ID, IsSelected: item.IsSelected})
	}
	return out
}

func filterToDTO(filter leaguefilter.Filter) filterDTO {
	items := make([]leagueEntryDTO, 0, len(filter))
	for _, item := range filter {
		items = append(items, leagueEntryDTO{ID: item.ID, IsSelected: item.IsSelected})
	}
	return filterDTO{
		Leagues:     items,
		AllSelected: filter.AllSelected(),
		CanSave:     filter.AnySelected(),
	}
}

func teamToDTO(item team.Team) teamDTO {
	return teamDTO{
		Name:   item.Name,
		Logo:   item.Logo,
		League: item.League,
		Rating: item.Rating,
	}
}

func boardToDTO(snapshot usecase.BoardSnapshot) boardDTO {
	out := boardDTO{
		Kind:        string(snapshot.Kind),
		CatalogSize: snapshot.CatalogSize,
		Multiplayer: snapshot.Multiplayer,
		Players:     make([]playerPanelDTO, 0, len(snapshot.Players)),
	}
	if !snapshot.LoadedAt.IsZero() {
		loadedAt := snapshot.LoadedAt.UTC()
		out.LoadedAt = &loadedAt
	}

	for _, panel := range snapshot.Players {
		selection := make([]int, 0, len(panel.Selection))
		selection = append(selection, panel.Selection...)

		slots := make([]slotDTO, 0, len(panel.Slots))
		for _, slot := range panel.Slots {
			item := slotDTO{
				Position: slot.Position,
				Filled:   slot.Filled(),
				Name:     slot.Name(),
			}
			if slot.Team != nil {
				index := slot.Index
				resolved := teamToDTO(*slot.Team)
				item.Index = &index
				item.Team = &resolved
			}
			slots = append(slots, item)
		}

		out.Players = append(out.Players, playerPanelDTO{
			Player:    int(panel.Player),
			Label:     panel.Player.String(),
			Selection: selection,
			Slots:     slots,
		})
	}

	return out
}
