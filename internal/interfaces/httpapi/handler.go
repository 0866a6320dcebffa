package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/brawl-tracker/internal/platform/logging"
	"github.com/riskibarqy/brawl-tracker/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	playerService        *usecase.PlayerService
	leaderboardService   *usecase.LeaderboardService
	compareService       *usecase.CompareService
	metaService          *usecase.MetaService
	searchHistoryService *usecase.SearchHistoryService
	coachService         *usecase.CoachService
	logger               *logging.Logger
	validator            *validator.Validate
}

func NewHandler(
	playerService *usecase.PlayerService,
	leaderboardService *usecase.LeaderboardService,
	compareService *usecase.CompareService,
	metaService *usecase.MetaService,
	searchHistoryService *usecase.SearchHistoryService,
	coachService *usecase.CoachService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		playerService:        playerService,
		leaderboardService:   leaderboardService,
		compareService:       compareService,
		metaService:          metaService,
		searchHistoryService: searchHistoryService,
		coachService:         coachService,
		logger:               logger.Named("handler"),
		validator:            validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := jsoniter.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// forceRefresh accepts refresh=1|true on read routes.
func forceRefresh(r *http.Request) bool {
	switch r.URL.Query().Get("refresh") {
	case "1", "true", "yes":
		return true
	}
	return false
}
