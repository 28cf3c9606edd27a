package server

import (
	"net/http"
	"net/url"

	"VocaRank/core/ranking"
	"VocaRank/logger"
	"VocaRank/model"
)

// filterParamsFromQuery builds the shared ranking parameter set from a query
// string. Unknown enum values silently drop that filter axis.
func filterParamsFromQuery(values url.Values) ranking.FilterParams {
	return ranking.FilterParams{
		Timestamp:        values.Get("timestamp"),
		TimePeriodOffset: queryInt(values, "timePeriodOffset", 0),
		ChangeOffset:     queryInt(values, "changeOffset", 0),
		DaysOffset:       queryInt(values, "daysOffset", 0),
		ViewType:         model.ParseViewType(values.Get("viewType")),
		SongType:         model.ParseSongType(values.Get("songType")),
		ArtistType:       model.ParseArtistType(values.Get("artistType")),
		ArtistCategory:   model.ParseArtistCategory(values.Get("artistCategory")),
		PublishDate:      values.Get("publishDate"),
		IncludeArtists:   queryIDList(values, "includeArtists"),
		IncludeSongs:     queryIDList(values, "includeSongs"),
		SingleVideo:      queryBool(values, "singleVideo"),
		OrderBy:          ranking.ParseOrderBy(values.Get("orderBy")),
		Direction:        ranking.ParseDirection(values.Get("direction")),
		MinViews:         queryInt64Ptr(values, "minViews"),
		MaxViews:         queryInt64Ptr(values, "maxViews"),
		MaxEntries:       queryInt(values, "maxEntries", 0),
		StartAt:          queryInt(values, "startAt", 0),
	}
}

// SongRankingsHandler serves GET /api/rankings/songs.
func (h *APIHandler) SongRankingsHandler(w http.ResponseWriter, r *http.Request) {
	params := ranking.SongRankingsFilterParams{
		FilterParams: filterParamsFromQuery(r.URL.Query()),
	}

	result, err := h.rankings.FilterSongRankings(r.Context(), params)
	if err != nil {
		logger.Error("song rankings query failed", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "rankings query failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ArtistRankingsHandler serves GET /api/rankings/artists.
func (h *APIHandler) ArtistRankingsHandler(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	params := ranking.ArtistRankingsFilterParams{
		FilterParams:          filterParamsFromQuery(values),
		CombineSimilarArtists: queryBool(values, "combineSimilarArtists"),
	}

	result, err := h.rankings.FilterArtistRankings(r.Context(), params)
	if err != nil {
		logger.Error("artist rankings query failed", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "rankings query failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
