package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"VocaRank/config"
	"VocaRank/core/ingest"
	"VocaRank/core/ranking"
	"VocaRank/core/search"
	"VocaRank/logger"
	"VocaRank/repository"
)

// APIHandler 处理所有API请求
type APIHandler struct {
	rankings *ranking.Engine
	search   *search.Engine
	ingest   *ingest.Service
	views    repository.ViewsRepository
	cfg      *config.Config
}

// NewAPIHandler 创建新的API处理器
func NewAPIHandler(
	rankings *ranking.Engine,
	searchEngine *search.Engine,
	ingestService *ingest.Service,
	views repository.ViewsRepository,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		rankings: rankings,
		search:   searchEngine,
		ingest:   ingestService,
		views:    views,
		cfg:      cfg,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// Permissive query parsing helpers: anything unparseable falls back to the
// default instead of erroring, so stale query strings never break the page.

func queryInt(values url.Values, name string, fallback int) int {
	raw := values.Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func queryInt64Ptr(values url.Values, name string) *int64 {
	raw := values.Get(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func queryBool(values url.Values, name string) bool {
	switch strings.ToLower(values.Get(name)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// queryIDList parses a comma-separated id list, skipping invalid entries.
func queryIDList(values url.Values, name string) []int64 {
	raw := values.Get(name)
	if raw == "" {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// GetTimestampsHandler returns the views metadata ledger, the authoritative
// list of days we have data for.
func (h *APIHandler) GetTimestampsHandler(w http.ResponseWriter, r *http.Request) {
	timestamps, err := h.views.ListTimestamps(r.Context())
	if err != nil {
		logger.Error("failed to list views timestamps", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to list timestamps")
		return
	}
	writeJSON(w, http.StatusOK, timestamps)
}
