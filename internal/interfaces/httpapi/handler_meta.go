package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/brawl-tracker/internal/domain/metatier"
)

func (h *Handler) ListBrawlers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListBrawlers")
	defer span.End()

	items, err := h.metaService.ListBrawlers(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list brawlers failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, catalogBrawlersToDTO(items))
}

func (h *Handler) GetTierList(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTierList")
	defer span.End()

	items, err := h.metaService.GetTierList(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get tier list failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, ratedBrawlersToDTO(items))
}

func (h *Handler) ListMetaTiers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMetaTiers")
	defer span.End()

	mode := r.URL.Query().Get("mode")
	items, err := h.metaService.ListTiers(ctx, mode)
	if err != nil {
		h.logger.WarnContext(ctx, "list meta tiers failed", "mode", mode, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]metaTierDTO, 0, len(items))
	for _, item := range items {
		out = append(out, metaTierToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) UpsertMetaTier(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertMetaTier")
	defer span.End()

	var req upsertMetaTierRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	saved, err := h.metaService.UpsertTier(ctx, metatier.Entry{
		BrawlerName: req.BrawlerName,
		Tier:        metatier.Tier(strings.ToUpper(req.Tier)),
		Mode:        req.Mode,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "upsert meta tier failed", "brawler", req.BrawlerName, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, metaTierToDTO(saved))
}

func (h *Handler) DeleteMetaTier(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMetaTier")
	defer span.End()

	entryID := strings.TrimSpace(r.PathValue("id"))
	if err := h.metaService.DeleteTier(ctx, entryID); err != nil {
		h.logger.WarnContext(ctx, "delete meta tier failed", "id", entryID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"id": entryID, "status": "deleted"})
}
