package search

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"VocaRank/cache"
	"VocaRank/logger"
	"VocaRank/model"
	"VocaRank/repository"
)

const searchCachePrefix = "search"

// Default edit-distance bounds.
const (
	DefaultMinDistance = 0
	DefaultMaxDistance = 500
)

// Entity kinds of a search result item.
const (
	KindSong   = "song"
	KindArtist = "artist"
)

// Params parameterizes one search query.
type Params struct {
	Query       string `json:"query"`
	MaxEntries  int    `json:"maxEntries"`
	StartAt     int    `json:"startAt"`
	MinDistance int    `json:"minimumDistance"`
	MaxDistance int    `json:"maximumDistance"`
}

// Normalize clamps numeric fields. cap bounds the page size.
func (p *Params) Normalize(cap int) {
	if cap <= 0 {
		cap = 50
	}
	if p.MaxEntries <= 0 || p.MaxEntries > cap {
		p.MaxEntries = cap
	}
	if p.StartAt < 0 {
		p.StartAt = 0
	}
	if p.MinDistance < 0 {
		p.MinDistance = DefaultMinDistance
	}
	if p.MaxDistance <= 0 {
		p.MaxDistance = DefaultMaxDistance
	}
}

// Result is the page returned by Search.
type Result struct {
	TotalCount int    `json:"totalCount"`
	Items      []Item `json:"items"`
}

// Item is one search hit: a song or an artist with its best match distance.
type Item struct {
	Placement int           `json:"placement"`
	Kind      string        `json:"kind"`
	Distance  int           `json:"distance"`
	Song      *model.Song   `json:"song,omitempty"`
	Artist    *model.Artist `json:"artist,omitempty"`
}

// Engine fuzzy-matches a text query against every localized name of every
// song and artist, merging both kinds into one ranked list.
type Engine struct {
	songs    repository.SongRepository
	artists  repository.ArtistRepository
	store    cache.Store
	cacheTTL time.Duration
	pageCap  int
}

// NewEngine creates a search engine. store may be nil to disable caching.
func NewEngine(songs repository.SongRepository, artists repository.ArtistRepository, store cache.Store, cacheTTL time.Duration, pageCap int) *Engine {
	return &Engine{songs: songs, artists: artists, store: store, cacheTTL: cacheTTL, pageCap: pageCap}
}

// match is one entity with the best (lowest) distance among its names.
type match struct {
	kind     string
	id       int64
	distance int
}

// Search runs one fuzzy search query.
func (e *Engine) Search(ctx context.Context, params Params) (*Result, error) {
	params.Normalize(e.pageCap)

	key := cache.Key(searchCachePrefix, params)
	if e.store != nil {
		if cached, ok, err := e.store.Get(ctx, key); err == nil && ok {
			var result Result
			if err := json.Unmarshal(cached, &result); err == nil {
				return &result, nil
			}
		} else if err != nil {
			logger.Warn("search cache read failed", logger.String("key", key), logger.ErrorField(err))
		}
	}

	songNames, err := e.songs.ListNames(ctx)
	if err != nil {
		return nil, err
	}
	artistNames, err := e.artists.ListNames(ctx)
	if err != nil {
		return nil, err
	}

	matches := collectMatches(params, songNames, KindSong)
	matches = append(matches, collectMatches(params, artistNames, KindArtist)...)

	// Distance ascending; ties by entity id ascending, then songs first.
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		if a.id != b.id {
			return a.id < b.id
		}
		return a.kind == KindSong && b.kind == KindArtist
	})

	result := &Result{TotalCount: len(matches), Items: []Item{}}

	page := paginateMatches(matches, params.StartAt, params.MaxEntries)
	if err := e.materialize(ctx, page, params.StartAt, result); err != nil {
		return nil, err
	}

	if e.store != nil {
		if body, err := json.Marshal(result); err == nil {
			if err := e.store.Set(ctx, key, body, e.cacheTTL); err != nil {
				logger.Warn("search cache write failed", logger.String("key", key), logger.ErrorField(err))
			}
		}
	}
	return result, nil
}

// collectMatches scores every name and keeps each entity's best distance
// within the query bounds. Deduplication is by entity id, not by name.
func collectMatches(params Params, names []repository.EntityName, kind string) []match {
	query := strings.ToLower(params.Query)
	best := make(map[int64]int)

	for _, name := range names {
		distance := nameDistance(query, name.Name)
		if existing, ok := best[name.ID]; !ok || distance < existing {
			best[name.ID] = distance
		}
	}

	matches := make([]match, 0, len(best))
	for id, distance := range best {
		if distance < params.MinDistance || distance > params.MaxDistance {
			continue
		}
		matches = append(matches, match{kind: kind, id: id, distance: distance})
	}
	return matches
}

// nameDistance scores one name against the lowercased query: 0 for a
// case-insensitive substring hit, else the edit distance.
func nameDistance(lowerQuery, name string) int {
	lowerName := strings.ToLower(name)
	if lowerQuery != "" && strings.Contains(lowerName, lowerQuery) {
		return 0
	}
	return levenshtein(lowerQuery, lowerName)
}

func paginateMatches(matches []match, startAt, maxEntries int) []match {
	if startAt >= len(matches) {
		return nil
	}
	end := startAt + maxEntries
	if end > len(matches) {
		end = len(matches)
	}
	return matches[startAt:end]
}

func (e *Engine) materialize(ctx context.Context, page []match, startAt int, result *Result) error {
	songIDs := make([]int64, 0)
	artistIDs := make([]int64, 0)
	for _, m := range page {
		if m.kind == KindSong {
			songIDs = append(songIDs, m.id)
		} else {
			artistIDs = append(artistIDs, m.id)
		}
	}

	songs, err := e.songs.GetByIDs(ctx, songIDs)
	if err != nil {
		return err
	}
	artists, err := e.artists.GetByIDs(ctx, artistIDs)
	if err != nil {
		return err
	}

	for i, m := range page {
		item := Item{
			Placement: startAt + i + 1,
			Kind:      m.kind,
			Distance:  m.distance,
		}
		if m.kind == KindSong {
			item.Song = songs[m.id]
		} else {
			item.Artist = artists[m.id]
		}
		result.Items = append(result.Items, item)
	}
	return nil
}
