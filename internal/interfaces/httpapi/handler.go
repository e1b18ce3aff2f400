package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/match-roulette/internal/domain/roulette"
	"github.com/riskibarqy/match-roulette/internal/domain/team"
	"github.com/riskibarqy/match-roulette/internal/platform/logging"
	"github.com/riskibarqy/match-roulette/internal/usecase"
)

const maxRequestBodyBytes = 64 << 10

type Handler struct {
	rouletteService *usecase.RouletteService
	filterService   *usecase.FilterService
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	rouletteService *usecase.RouletteService,
	filterService *usecase.FilterService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		rouletteService: rouletteService,
		filterService:   filterService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBoard")
	defer span.End()

	kind, err := boardKindFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	snapshot, err := h.rouletteService.Board(ctx, kind)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, boardToDTO(snapshot))
}

func (h *Handler) ListBoardTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListBoardTeams")
	defer span.End()

	kind, err := boardKindFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teams, err := h.rouletteService.Catalog(ctx, kind)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, item := range teams {
		items = append(items, teamToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ReloadBoard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReloadBoard")
	defer span.End()

	kind, err := boardKindFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	snapshot, err := h.rouletteService.Load(ctx, kind)
	if err != nil {
		h.logger.WarnContext(ctx, "reload board failed", "kind", kind, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, boardToDTO(snapshot))
}

func (h *Handler) SpinBoard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SpinBoard")
	defer span.End()

	kind, err := boardKindFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	player, err := roulette.ParsePlayer(r.PathValue("player"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	result, err := h.rouletteService.Spin(ctx, kind, player)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, boardToDTO(result.Board))
}

func (h *Handler) ResetBoard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResetBoard")
	defer span.End()

	kind, err := boardKindFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.rouletteService.Reset(ctx, kind); err != nil {
		writeError(ctx, w, err)
		return
	}

	snapshot, err := h.rouletteService.Board(ctx, kind)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, boardToDTO(snapshot))
}

func (h *Handler) SetBoardMultiplayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetBoardMultiplayer")
	defer span.End()

	kind, err := boardKindFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req multiplayerRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	snapshot, err := h.rouletteService.SetMultiplayer(ctx, kind, *req.Enabled)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, boardToDTO(snapshot))
}

func (h *Handler) GetFilters(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFilters")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, filterToDTO(h.filterService.Get(ctx)))
}

func (h *Handler) BeginFilterEdit(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BeginFilterEdit")
	defer span.End()

	filter, err := h.filterService.BeginEdit(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, filterToDTO(filter))
}

func (h *Handler) SelectAllLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SelectAllLeagues")
	defer span.End()

	var req selectAllRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	filter := h.filterService.SelectAll(filterFromDTO(req.Leagues), *req.Selected)
	writeSuccess(ctx, w, http.StatusOK, filterToDTO(filter))
}

func (h *Handler) ToggleLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ToggleLeague")
	defer span.End()

	var req toggleLeagueRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	filter, err := h.filterService.Toggle(filterFromDTO(req.Leagues), r.PathValue("id"), *req.IsSelected)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, filterToDTO(filter))
}

func (h *Handler) SaveFilters(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveFilters")
	defer span.End()

	var req saveFiltersRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.filterService.Save(ctx, filterFromDTO(req.Leagues))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, saveResultDTO{
		Filter:    filterToDTO(result.Filter),
		Persisted: result.Persisted,
		Reloaded:  result.Reloaded,
		Board:     boardToDTO(result.Board),
	})
}

func (h *Handler) decodeRequest(ctx context.Context, w http.ResponseWriter, r *http.Request, payload any) error {
	decoder := jsoniter.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return h.validateRequest(ctx, payload)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func boardKindFromPath(r *http.Request) (team.Kind, error) {
	kind, err := team.ParseKind(r.PathValue("kind"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", usecase.ErrNotFound, err)
	}
	return kind, nil
}
