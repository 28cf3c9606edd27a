package server

import (
	"net/http"

	"VocaRank/core/search"
	"VocaRank/logger"
)

// SearchHandler serves GET /api/search.
func (h *APIHandler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	params := search.Params{
		Query:       values.Get("q"),
		MaxEntries:  queryInt(values, "maxEntries", 0),
		StartAt:     queryInt(values, "startAt", 0),
		MinDistance: queryInt(values, "minDistance", search.DefaultMinDistance),
		MaxDistance: queryInt(values, "maxDistance", search.DefaultMaxDistance),
	}

	result, err := h.search.Search(r.Context(), params)
	if err != nil {
		logger.Error("search query failed", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "search query failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
