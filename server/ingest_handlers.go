package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"VocaRank/core/ingest"
	"VocaRank/logger"
	"VocaRank/model"

	"github.com/gorilla/mux"
)

// IngestBatchHandler serves POST /api/ingest/batch. One request is one
// logical batch: a single transaction and a single cache purge.
func (h *APIHandler) IngestBatchHandler(w http.ResponseWriter, r *http.Request) {
	var batch ingest.Batch
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid batch payload")
		return
	}

	if err := h.ingest.IngestBatch(r.Context(), &batch); err != nil {
		logger.Error("batch ingest failed", logger.String("batch", batch.ID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "batch ingest failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"batch": batch.ID})
}

// IngestSongHandler serves POST /api/ingest/songs.
func (h *APIHandler) IngestSongHandler(w http.ResponseWriter, r *http.Request) {
	var song model.Song
	if err := json.NewDecoder(r.Body).Decode(&song); err != nil {
		writeError(w, http.StatusBadRequest, "invalid song payload")
		return
	}

	if err := h.ingest.InsertSong(r.Context(), &song); err != nil {
		logger.Error("song ingest failed", logger.Int64("song", song.ID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "song ingest failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"id": song.ID})
}

// IngestArtistHandler serves POST /api/ingest/artists.
func (h *APIHandler) IngestArtistHandler(w http.ResponseWriter, r *http.Request) {
	var artist model.Artist
	if err := json.NewDecoder(r.Body).Decode(&artist); err != nil {
		writeError(w, http.StatusBadRequest, "invalid artist payload")
		return
	}

	if err := h.ingest.InsertArtist(r.Context(), &artist); err != nil {
		logger.Error("artist ingest failed", logger.Int64("artist", artist.ID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "artist ingest failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"id": artist.ID})
}

// IngestViewsHandler serves POST /api/ingest/views.
func (h *APIHandler) IngestViewsHandler(w http.ResponseWriter, r *http.Request) {
	var snapshot ingest.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snapshot); err != nil {
		writeError(w, http.StatusBadRequest, "invalid snapshot payload")
		return
	}

	if err := h.ingest.InsertViewSnapshot(r.Context(), snapshot); err != nil {
		logger.Error("snapshot ingest failed",
			logger.Int64("song", snapshot.SongID),
			logger.String("timestamp", snapshot.Timestamp),
			logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "snapshot ingest failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"timestamp": snapshot.Timestamp})
}

// IngestTimestampHandler serves POST /api/ingest/timestamps.
func (h *APIHandler) IngestTimestampHandler(w http.ResponseWriter, r *http.Request) {
	var ts model.ViewsTimestamp
	if err := json.NewDecoder(r.Body).Decode(&ts); err != nil {
		writeError(w, http.StatusBadRequest, "invalid timestamp payload")
		return
	}

	if err := h.ingest.InsertViewsTimestamp(r.Context(), ts); err != nil {
		logger.Error("timestamp ingest failed", logger.String("timestamp", ts.Timestamp), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "timestamp ingest failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"timestamp": ts.Timestamp})
}

// SongExistsHandler serves GET /api/ingest/songs/{id}/exists.
func (h *APIHandler) SongExistsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid song id")
		return
	}

	exists, err := h.ingest.SongExists(r.Context(), id)
	if err != nil {
		logger.Error("song existence check failed", logger.Int64("song", id), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "existence check failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

// ArtistExistsHandler serves GET /api/ingest/artists/{id}/exists.
func (h *APIHandler) ArtistExistsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid artist id")
		return
	}

	exists, err := h.ingest.ArtistExists(r.Context(), id)
	if err != nil {
		logger.Error("artist existence check failed", logger.Int64("artist", id), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "existence check failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}
