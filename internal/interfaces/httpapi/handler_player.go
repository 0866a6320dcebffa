package httpapi

import (
	"net/http"

	"github.com/riskibarqy/brawl-tracker/internal/usecase"
)

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	tag := r.PathValue("tag")
	bundle, err := h.playerService.GetPlayerBundle(ctx, tag, forceRefresh(r))
	if err != nil {
		h.logger.WarnContext(ctx, "get player bundle failed", "tag", tag, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerBundleToDTO(bundle))
}

func (h *Handler) GetPlayerRanked(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerRanked")
	defer span.End()

	tag := r.PathValue("tag")
	lookup, err := h.playerService.GetRankedLookup(ctx, tag, forceRefresh(r))
	if err != nil {
		h.logger.WarnContext(ctx, "ranked lookup failed", "tag", tag, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rankedLookupToDTO(lookup))
}

func (h *Handler) ComparePlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ComparePlayers")
	defer span.End()

	query := r.URL.Query()
	left, right := query.Get("left"), query.Get("right")
	comparison, err := h.compareService.Compare(ctx, left, right)
	if err != nil {
		h.logger.WarnContext(ctx, "compare players failed", "left", left, "right", right, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, comparisonToDTO(comparison))
}

func (h *Handler) CoachTips(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CoachTips")
	defer span.End()

	var req coachRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	var (
		advice usecase.CoachAdvice
		err    error
	)
	switch {
	case len(req.Player) > 0 && string(req.Player) != "null":
		advice, err = h.coachFromPayload(req.Player)
	case req.Tag != "":
		advice, err = h.coachService.TipsForTag(ctx, req.Tag)
	default:
		err = errMissingCoachInput
	}
	if err != nil {
		h.logger.WarnContext(ctx, "coach tips failed", "tag", req.Tag, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, coachDTO{Model: advice.Model, Tips: advice.Tips})
}
