package httpapi

import "net/http"

func (h *Handler) ListSearchHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSearchHistory")
	defer span.End()

	result := h.searchHistoryService.List(ctx, r.URL.Query().Get("sessionId"))
	writeSuccess(ctx, w, http.StatusOK, searchHistoryToDTO(result))
}

func (h *Handler) RecordSearch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordSearch")
	defer span.End()

	var req recordSearchRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.searchHistoryService.Record(ctx, req.SessionID, req.Tag, req.PlayerName)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, searchHistoryToDTO(result))
}
