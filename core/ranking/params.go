package ranking

import (
	"strings"

	"VocaRank/model"
)

// DefaultMaxEntries is the page size cap applied when the caller asks for
// nothing, zero, or more than the configured cap.
const DefaultMaxEntries = 50

// OrderBy selects the ranking sort key.
type OrderBy int

const (
	OrderByViews OrderBy = iota
	OrderByPublishDate
	OrderByAdditionDate
)

// ParseOrderBy is permissive: unknown values fall back to Views.
func ParseOrderBy(value string) OrderBy {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "publishdate", "publish_date":
		return OrderByPublishDate
	case "additiondate", "addition_date":
		return OrderByAdditionDate
	default:
		return OrderByViews
	}
}

// Direction selects the sort direction. The zero value is Descending, the
// ranking page default.
type Direction int

const (
	Descending Direction = iota
	Ascending
)

// ParseDirection is permissive: unknown values fall back to Descending.
func ParseDirection(value string) Direction {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "ascending", "asc":
		return Ascending
	default:
		return Descending
	}
}

// FilterParams is the validated parameter set shared by song and artist
// ranking queries. Nil pointer fields mean "no filter on that axis";
// unrecognized values are dropped during parsing, never rejected.
type FilterParams struct {
	// Timestamp is the target day (YYYY-MM-DD). Empty means the most recent
	// day in the views metadata ledger.
	Timestamp string `json:"timestamp,omitempty"`
	// TimePeriodOffset, in days: when set, report period-relative views
	// (views at timestamp minus views at timestamp-offset) instead of the
	// cumulative total.
	TimePeriodOffset int `json:"timePeriodOffset,omitempty"`
	// ChangeOffset, in days: when set, also rank at timestamp-offset to
	// derive each entry's placement change.
	ChangeOffset int `json:"changeOffset,omitempty"`
	// DaysOffset shifts the nominal timestamp backward before anything else,
	// letting a caller browse history while "timestamp" keeps meaning today.
	DaysOffset int `json:"daysOffset,omitempty"`

	ViewType       *model.ViewType       `json:"viewType,omitempty"` // nil = combined
	SongType       *model.SongType       `json:"songType,omitempty"`
	ArtistType     *model.ArtistType     `json:"artistType,omitempty"`
	ArtistCategory *model.ArtistCategory `json:"artistCategory,omitempty"`
	// PublishDate is a prefix match ("2023" or "2023-02").
	PublishDate    string  `json:"publishDate,omitempty"`
	IncludeArtists []int64 `json:"includeArtists,omitempty"`
	IncludeSongs   []int64 `json:"includeSongs,omitempty"`
	// SingleVideo counts only the single highest-viewed video per
	// (song, platform, day) instead of summing all videos.
	SingleVideo bool `json:"singleVideo,omitempty"`

	OrderBy   OrderBy   `json:"orderBy"`
	Direction Direction `json:"direction"`
	MinViews  *int64    `json:"minViews,omitempty"`
	MaxViews  *int64    `json:"maxViews,omitempty"`

	MaxEntries int `json:"maxEntries"`
	StartAt    int `json:"startAt"`
}

// Normalize clamps numeric fields into their valid ranges. cap bounds the
// page size; non-positive cap falls back to DefaultMaxEntries.
func (p *FilterParams) Normalize(cap int) {
	if cap <= 0 {
		cap = DefaultMaxEntries
	}
	if p.MaxEntries <= 0 || p.MaxEntries > cap {
		p.MaxEntries = cap
	}
	if p.StartAt < 0 {
		p.StartAt = 0
	}
	if p.TimePeriodOffset < 0 {
		p.TimePeriodOffset = 0
	}
	if p.ChangeOffset < 0 {
		p.ChangeOffset = 0
	}
	if p.DaysOffset < 0 {
		p.DaysOffset = 0
	}
}

// SongRankingsFilterParams parameterizes one song ranking query.
type SongRankingsFilterParams struct {
	FilterParams
}

// ArtistRankingsFilterParams parameterizes one artist ranking query.
type ArtistRankingsFilterParams struct {
	FilterParams
	// CombineSimilarArtists merges an artist into its base artist before
	// aggregation, so a voicebank variant's views count toward the
	// canonical identity.
	CombineSimilarArtists bool `json:"combineSimilarArtists,omitempty"`
}
