package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/brawl-tracker/internal/domain/leaderboard"
	"github.com/riskibarqy/brawl-tracker/internal/usecase"
)

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	boardType := leaderboard.Type(strings.ToLower(strings.TrimSpace(r.PathValue("type"))))
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: limit must be an integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	board, err := h.leaderboardService.GetBoard(ctx, boardType, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "get leaderboard failed", "type", boardType, "limit", limit, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, boardToDTO(board))
}
