package ranking

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"VocaRank/cache"
	"VocaRank/logger"
	"VocaRank/model"
	"VocaRank/repository"
)

const (
	songRankingsCachePrefix   = "rankings:songs"
	artistRankingsCachePrefix = "rankings:artists"
)

// Engine is the ranking filter engine. It compiles a parameter object into
// repository reads and computes ordering, placement change and pagination.
// All reads are pure; two runs over the same data yield identical results.
type Engine struct {
	rankings repository.RankingRepository
	songs    repository.SongRepository
	artists  repository.ArtistRepository
	views    repository.ViewsRepository
	store    cache.Store
	cacheTTL time.Duration
	pageCap  int
}

// NewEngine creates a ranking engine. store may be nil to disable caching
// (tests construct isolated engines this way).
func NewEngine(
	rankings repository.RankingRepository,
	songs repository.SongRepository,
	artists repository.ArtistRepository,
	views repository.ViewsRepository,
	store cache.Store,
	cacheTTL time.Duration,
	pageCap int,
) *Engine {
	return &Engine{
		rankings: rankings,
		songs:    songs,
		artists:  artists,
		views:    views,
		store:    store,
		cacheTTL: cacheTTL,
		pageCap:  pageCap,
	}
}

// SongRankingsResult is the page returned by FilterSongRankings.
type SongRankingsResult struct {
	TotalCount int               `json:"totalCount"`
	Timestamp  string            `json:"timestamp"`
	Items      []SongRankingItem `json:"items"`
}

// SongRankingItem is one placed entry of a song ranking page.
type SongRankingItem struct {
	Placement         int                   `json:"placement"`
	Change            model.PlacementChange `json:"change"`
	PreviousPlacement int                   `json:"previousPlacement"`
	Views             int64                 `json:"views"`
	Song              *model.Song           `json:"song"`
}

// ArtistRankingsResult is the page returned by FilterArtistRankings.
type ArtistRankingsResult struct {
	TotalCount int                 `json:"totalCount"`
	Timestamp  string              `json:"timestamp"`
	Items      []ArtistRankingItem `json:"items"`
}

// ArtistRankingItem is one placed entry of an artist ranking page.
type ArtistRankingItem struct {
	Placement         int                   `json:"placement"`
	Change            model.PlacementChange `json:"change"`
	PreviousPlacement int                   `json:"previousPlacement"`
	Views             int64                 `json:"views"`
	Artist            *model.Artist         `json:"artist"`
}

// rankedEntry is one entity in the fully filtered, aggregated, ordered set,
// before pagination and materialization.
type rankedEntry struct {
	id           int64
	views        int64
	publishDate  time.Time
	additionDate time.Time
}

// FilterSongRankings runs one song ranking query.
func (e *Engine) FilterSongRankings(ctx context.Context, params SongRankingsFilterParams) (*SongRankingsResult, error) {
	params.Normalize(e.pageCap)

	key := cache.Key(songRankingsCachePrefix, params)
	if cached, ok := e.cacheGet(ctx, key); ok {
		var result SongRankingsResult
		if err := json.Unmarshal(cached, &result); err == nil {
			return &result, nil
		}
	}

	timestamp, err := e.resolveTimestamp(ctx, params.Timestamp, params.DaysOffset)
	if err != nil {
		return nil, err
	}

	result := &SongRankingsResult{Timestamp: timestamp, Items: []SongRankingItem{}}
	if timestamp == "" {
		return result, nil
	}

	entries, err := e.songEntries(ctx, params.FilterParams, timestamp)
	if err != nil {
		return nil, err
	}
	result.TotalCount = len(entries)

	var previous map[int64]int
	if params.ChangeOffset > 0 {
		prevEntries, err := e.songEntries(ctx, params.FilterParams, shiftDays(timestamp, -params.ChangeOffset))
		if err != nil {
			return nil, err
		}
		previous = indexByID(prevEntries)
	}

	page := paginate(entries, params.StartAt, params.MaxEntries)
	songs, err := e.songs.GetByIDs(ctx, entryIDs(page))
	if err != nil {
		return nil, err
	}

	for i, entry := range page {
		placement := params.StartAt + i + 1
		change, previousPlacement := placementChange(placement, entry.id, previous)
		result.Items = append(result.Items, SongRankingItem{
			Placement:         placement,
			Change:            change,
			PreviousPlacement: previousPlacement,
			Views:             entry.views,
			Song:              songs[entry.id],
		})
	}

	e.cacheSet(ctx, key, result)
	return result, nil
}

// FilterArtistRankings runs one artist ranking query.
func (e *Engine) FilterArtistRankings(ctx context.Context, params ArtistRankingsFilterParams) (*ArtistRankingsResult, error) {
	params.Normalize(e.pageCap)

	key := cache.Key(artistRankingsCachePrefix, params)
	if cached, ok := e.cacheGet(ctx, key); ok {
		var result ArtistRankingsResult
		if err := json.Unmarshal(cached, &result); err == nil {
			return &result, nil
		}
	}

	timestamp, err := e.resolveTimestamp(ctx, params.Timestamp, params.DaysOffset)
	if err != nil {
		return nil, err
	}

	result := &ArtistRankingsResult{Timestamp: timestamp, Items: []ArtistRankingItem{}}
	if timestamp == "" {
		return result, nil
	}

	entries, err := e.artistEntries(ctx, params, timestamp)
	if err != nil {
		return nil, err
	}
	result.TotalCount = len(entries)

	var previous map[int64]int
	if params.ChangeOffset > 0 {
		prevEntries, err := e.artistEntries(ctx, params, shiftDays(timestamp, -params.ChangeOffset))
		if err != nil {
			return nil, err
		}
		previous = indexByID(prevEntries)
	}

	page := paginate(entries, params.StartAt, params.MaxEntries)
	artists, err := e.artists.GetByIDs(ctx, entryIDs(page))
	if err != nil {
		return nil, err
	}

	for i, entry := range page {
		placement := params.StartAt + i + 1
		change, previousPlacement := placementChange(placement, entry.id, previous)
		result.Items = append(result.Items, ArtistRankingItem{
			Placement:         placement,
			Change:            change,
			PreviousPlacement: previousPlacement,
			Views:             entry.views,
			Artist:            artists[entry.id],
		})
	}

	e.cacheSet(ctx, key, result)
	return result, nil
}

// songEntries computes the complete ordered entry set for one timestamp:
// aggregation, optional period subtraction, view bounds and the
// deterministic sort. Pagination is the caller's business.
func (e *Engine) songEntries(ctx context.Context, p FilterParams, timestamp string) ([]rankedEntry, error) {
	rows, err := e.rankings.SongViews(ctx, snapshotFilter(p, timestamp))
	if err != nil {
		return nil, err
	}

	entries := make([]rankedEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rankedEntry{
			id:           row.SongID,
			views:        row.Views,
			publishDate:  row.PublishDate,
			additionDate: row.AdditionDate,
		})
	}

	if p.TimePeriodOffset > 0 {
		prevRows, err := e.rankings.SongViews(ctx, snapshotFilter(p, shiftDays(timestamp, -p.TimePeriodOffset)))
		if err != nil {
			return nil, err
		}
		prevViews := make(map[int64]int64, len(prevRows))
		for _, row := range prevRows {
			prevViews[row.SongID] = row.Views
		}
		// An entity absent from the earlier period subtracts 0: all of its
		// views count as new this period.
		for i := range entries {
			entries[i].views -= prevViews[entries[i].id]
		}
	}

	entries = applyViewBounds(entries, p.MinViews, p.MaxViews)
	sortEntries(entries, p.OrderBy, p.Direction)
	return entries, nil
}

// artistEntries is the artist flavor of songEntries. Credits are grouped by
// artist id, or by base artist id when merging is requested; the merge
// happens before aggregation so a merged group's sum is correct.
func (e *Engine) artistEntries(ctx context.Context, p ArtistRankingsFilterParams, timestamp string) ([]rankedEntry, error) {
	rows, err := e.rankings.ArtistCredits(ctx, snapshotFilter(p.FilterParams, timestamp))
	if err != nil {
		return nil, err
	}
	groups := groupCredits(rows, p.CombineSimilarArtists)

	if p.TimePeriodOffset > 0 {
		prevRows, err := e.rankings.ArtistCredits(ctx, snapshotFilter(p.FilterParams, shiftDays(timestamp, -p.TimePeriodOffset)))
		if err != nil {
			return nil, err
		}
		prevGroups := groupCredits(prevRows, p.CombineSimilarArtists)
		prevViews := make(map[int64]int64, len(prevGroups))
		for _, g := range prevGroups {
			prevViews[g.entry.id] = g.entry.views
		}
		for i := range groups {
			groups[i].entry.views -= prevViews[groups[i].entry.id]
		}
	}

	entries := make([]rankedEntry, 0, len(groups))
	if p.OrderBy != OrderByViews {
		// A merge target that never appears as a credit itself carries a
		// variant's dates; fix them up before sorting on a date key.
		if err := e.fillArtistDates(ctx, groups); err != nil {
			return nil, err
		}
	}
	for _, g := range groups {
		entries = append(entries, g.entry)
	}

	entries = applyViewBounds(entries, p.MinViews, p.MaxViews)
	sortEntries(entries, p.OrderBy, p.Direction)
	return entries, nil
}

// creditGroup is one (possibly merged) artist identity under aggregation.
type creditGroup struct {
	entry rankedEntry
	// self records whether the dates were taken from the group's own artist
	// row rather than from a merged variant.
	self bool
}

// groupCredits folds per-(artist, song) credit rows into per-identity sums.
// With combine set, a variant's credits move to its base artist; a song is
// counted once per group even when several member artists appear on it.
func groupCredits(rows []repository.ArtistCreditRow, combine bool) []*creditGroup {
	groups := make(map[int64]*creditGroup)
	order := make([]int64, 0)
	seen := make(map[[2]int64]bool)

	for _, row := range rows {
		id := row.ArtistID
		if combine && row.BaseArtistID != nil && *row.BaseArtistID != row.ArtistID {
			id = *row.BaseArtistID
		}

		g, ok := groups[id]
		if !ok {
			g = &creditGroup{entry: rankedEntry{id: id}}
			groups[id] = g
			order = append(order, id)
		}
		if row.ArtistID == id && !g.self {
			g.self = true
			g.entry.publishDate = row.PublishDate
			g.entry.additionDate = row.AdditionDate
		} else if !g.self && g.entry.publishDate.IsZero() {
			g.entry.publishDate = row.PublishDate
			g.entry.additionDate = row.AdditionDate
		}

		pair := [2]int64{id, row.SongID}
		if seen[pair] {
			continue
		}
		seen[pair] = true
		g.entry.views += row.Views
	}

	result := make([]*creditGroup, 0, len(groups))
	for _, id := range order {
		result = append(result, groups[id])
	}
	return result
}

// fillArtistDates replaces variant-borrowed dates with the merge target's
// own dates for groups that never saw a self row.
func (e *Engine) fillArtistDates(ctx context.Context, groups []*creditGroup) error {
	missing := make([]int64, 0)
	for _, g := range groups {
		if !g.self {
			missing = append(missing, g.entry.id)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	artists, err := e.artists.GetByIDs(ctx, missing)
	if err != nil {
		return err
	}
	for _, g := range groups {
		if g.self {
			continue
		}
		if artist, ok := artists[g.entry.id]; ok {
			g.entry.publishDate = artist.PublishDate
			g.entry.additionDate = artist.AdditionDate
		}
	}
	return nil
}

// resolveTimestamp picks the effective snapshot day: the explicit timestamp
// when it parses, else the most recent ledger entry, shifted back by
// daysOffset. Returns "" when there is no data at all.
func (e *Engine) resolveTimestamp(ctx context.Context, explicit string, daysOffset int) (string, error) {
	timestamp := explicit
	if timestamp != "" {
		if _, err := time.Parse(model.TimestampLayout, timestamp); err != nil {
			// Garbage timestamps are ignored, not rejected.
			timestamp = ""
		}
	}
	if timestamp == "" {
		latest, err := e.views.LatestTimestamp(ctx)
		if err != nil {
			return "", err
		}
		timestamp = latest
	}
	if timestamp == "" {
		return "", nil
	}
	if daysOffset > 0 {
		timestamp = shiftDays(timestamp, -daysOffset)
	}
	return timestamp, nil
}

func snapshotFilter(p FilterParams, timestamp string) repository.SnapshotFilter {
	return repository.SnapshotFilter{
		Timestamp:         timestamp,
		ViewType:          p.ViewType,
		SongType:          p.SongType,
		ArtistType:        p.ArtistType,
		ArtistCategory:    p.ArtistCategory,
		PublishDatePrefix: p.PublishDate,
		IncludeSongIDs:    p.IncludeSongs,
		IncludeArtistIDs:  p.IncludeArtists,
		SingleVideo:       p.SingleVideo,
	}
}

// shiftDays moves a calendar-day timestamp by delta days.
func shiftDays(timestamp string, delta int) string {
	day, err := time.Parse(model.TimestampLayout, timestamp)
	if err != nil {
		return timestamp
	}
	return day.AddDate(0, 0, delta).Format(model.TimestampLayout)
}

func applyViewBounds(entries []rankedEntry, minViews, maxViews *int64) []rankedEntry {
	if minViews == nil && maxViews == nil {
		return entries
	}
	filtered := entries[:0]
	for _, entry := range entries {
		if minViews != nil && entry.views < *minViews {
			continue
		}
		if maxViews != nil && entry.views > *maxViews {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}

// sortEntries orders the entry set deterministically. Ties always break by
// entity id ascending so that two ranking runs are comparable.
func sortEntries(entries []rankedEntry, orderBy OrderBy, direction Direction) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		var less, equal bool
		switch orderBy {
		case OrderByPublishDate:
			less = a.publishDate.Before(b.publishDate)
			equal = a.publishDate.Equal(b.publishDate)
		case OrderByAdditionDate:
			less = a.additionDate.Before(b.additionDate)
			equal = a.additionDate.Equal(b.additionDate)
		default:
			less = a.views < b.views
			equal = a.views == b.views
		}
		if equal {
			return a.id < b.id
		}
		if direction == Ascending {
			return less
		}
		return !less
	})
}

func paginate(entries []rankedEntry, startAt, maxEntries int) []rankedEntry {
	if startAt >= len(entries) {
		return nil
	}
	end := startAt + maxEntries
	if end > len(entries) {
		end = len(entries)
	}
	return entries[startAt:end]
}

func entryIDs(entries []rankedEntry) []int64 {
	ids := make([]int64, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.id)
	}
	return ids
}

func indexByID(entries []rankedEntry) map[int64]int {
	index := make(map[int64]int, len(entries))
	for i, entry := range entries {
		index[entry.id] = i
	}
	return index
}

// placementChange compares the current placement against the entity's rank
// in the earlier run. An entity with no prior rank is treated as unchanged.
// Direction is uniform for songs and artists: a smaller index now means UP.
func placementChange(placement int, id int64, previous map[int64]int) (model.PlacementChange, int) {
	if previous == nil {
		return model.PlacementSame, placement
	}
	prevIndex, ok := previous[id]
	if !ok {
		return model.PlacementSame, placement
	}
	previousPlacement := prevIndex + 1
	switch {
	case placement < previousPlacement:
		return model.PlacementUp, previousPlacement
	case placement > previousPlacement:
		return model.PlacementDown, previousPlacement
	default:
		return model.PlacementSame, previousPlacement
	}
}

func (e *Engine) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if e.store == nil {
		return nil, false
	}
	value, ok, err := e.store.Get(ctx, key)
	if err != nil {
		logger.Warn("rankings cache read failed", logger.String("key", key), logger.ErrorField(err))
		return nil, false
	}
	return value, ok
}

func (e *Engine) cacheSet(ctx context.Context, key string, result interface{}) {
	if e.store == nil {
		return
	}
	body, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := e.store.Set(ctx, key, body, e.cacheTTL); err != nil {
		logger.Warn("rankings cache write failed", logger.String("key", key), logger.ErrorField(err))
	}
}
