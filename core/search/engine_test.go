package search

import (
	"context"
	"testing"
	"time"

	"VocaRank/model"
	"VocaRank/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubSongRepo struct {
	names []repository.EntityName
	songs map[int64]*model.Song
}

func (s *stubSongRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := s.songs[id]
	return ok, nil
}
func (s *stubSongRepo) Upsert(context.Context, *model.Song) error { return nil }
func (s *stubSongRepo) GetByID(_ context.Context, id int64) (*model.Song, error) {
	return s.songs[id], nil
}
func (s *stubSongRepo) GetByIDs(_ context.Context, ids []int64) (map[int64]*model.Song, error) {
	result := make(map[int64]*model.Song, len(ids))
	for _, id := range ids {
		if song, ok := s.songs[id]; ok {
			result[id] = song
		}
	}
	return result, nil
}
func (s *stubSongRepo) ListNames(context.Context) ([]repository.EntityName, error) {
	return s.names, nil
}
func (s *stubSongRepo) WithTx(*gorm.DB) repository.SongRepository { return s }

type stubArtistRepo struct {
	names   []repository.EntityName
	artists map[int64]*model.Artist
}

func (s *stubArtistRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := s.artists[id]
	return ok, nil
}
func (s *stubArtistRepo) Upsert(context.Context, *model.Artist) error { return nil }
func (s *stubArtistRepo) GetByID(_ context.Context, id int64) (*model.Artist, error) {
	return s.artists[id], nil
}
func (s *stubArtistRepo) GetByIDs(_ context.Context, ids []int64) (map[int64]*model.Artist, error) {
	result := make(map[int64]*model.Artist, len(ids))
	for _, id := range ids {
		if artist, ok := s.artists[id]; ok {
			result[id] = artist
		}
	}
	return result, nil
}
func (s *stubArtistRepo) ListNames(context.Context) ([]repository.EntityName, error) {
	return s.names, nil
}
func (s *stubArtistRepo) WithTx(*gorm.DB) repository.ArtistRepository { return s }

func newTestEngine(songs *stubSongRepo, artists *stubArtistRepo) *Engine {
	if songs.songs == nil {
		songs.songs = make(map[int64]*model.Song)
		for _, n := range songs.names {
			songs.songs[n.ID] = &model.Song{ID: n.ID}
		}
	}
	if artists.artists == nil {
		artists.artists = make(map[int64]*model.Artist)
		for _, n := range artists.names {
			artists.artists[n.ID] = &model.Artist{ID: n.ID}
		}
	}
	return NewEngine(songs, artists, nil, time.Minute, 50)
}

func TestSearchSubstringBeatsEditDistance(t *testing.T) {
	songs := &stubSongRepo{names: []repository.EntityName{
		{ID: 1, Name: "Melt"},
		{ID: 2, Name: "Meltdown"},
		{ID: 3, Name: "Molt"},
	}}
	engine := newTestEngine(songs, &stubArtistRepo{})

	result, err := engine.Search(context.Background(), Params{Query: "melt", MaxDistance: 5})
	require.NoError(t, err)

	require.Equal(t, 3, result.TotalCount)
	// Substring hits score 0 regardless of length; "Molt" is one edit away.
	assert.Equal(t, int64(1), result.Items[0].Song.ID)
	assert.Equal(t, 0, result.Items[0].Distance)
	assert.Equal(t, int64(2), result.Items[1].Song.ID)
	assert.Equal(t, 0, result.Items[1].Distance)
	assert.Equal(t, int64(3), result.Items[2].Song.ID)
	assert.Equal(t, 1, result.Items[2].Distance)
}

func TestSearchDeduplicatesByEntity(t *testing.T) {
	// Two localized names of the same song both match; one result, scored by
	// the better name.
	songs := &stubSongRepo{names: []repository.EntityName{
		{ID: 1, Name: "千本桜"},
		{ID: 1, Name: "Senbonzakura"},
	}}
	engine := newTestEngine(songs, &stubArtistRepo{})

	result, err := engine.Search(context.Background(), Params{Query: "senbonzakura"})
	require.NoError(t, err)

	require.Equal(t, 1, result.TotalCount)
	assert.Equal(t, 0, result.Items[0].Distance)
}

func TestSearchMergesSongsAndArtists(t *testing.T) {
	songs := &stubSongRepo{names: []repository.EntityName{{ID: 1, Name: "Miku Miku ni Shite Ageru"}}}
	artists := &stubArtistRepo{names: []repository.EntityName{{ID: 5, Name: "Hatsune Miku"}}}
	engine := newTestEngine(songs, artists)

	result, err := engine.Search(context.Background(), Params{Query: "miku"})
	require.NoError(t, err)

	require.Equal(t, 2, result.TotalCount)
	// Both are substring hits; the tie breaks by id.
	assert.Equal(t, KindSong, result.Items[0].Kind)
	require.NotNil(t, result.Items[0].Song)
	assert.Equal(t, KindArtist, result.Items[1].Kind)
	require.NotNil(t, result.Items[1].Artist)
	assert.Equal(t, 1, result.Items[0].Placement)
	assert.Equal(t, 2, result.Items[1].Placement)
}

func TestSearchDistanceBounds(t *testing.T) {
	songs := &stubSongRepo{names: []repository.EntityName{
		{ID: 1, Name: "Melt"},
		{ID: 2, Name: "Molt"},
		{ID: 3, Name: "completely unrelated"},
	}}
	engine := newTestEngine(songs, &stubArtistRepo{})

	// MinDistance 1 drops the exact hit, MaxDistance 3 drops the far one.
	result, err := engine.Search(context.Background(), Params{
		Query:       "melt",
		MinDistance: 1,
		MaxDistance: 3,
	})
	require.NoError(t, err)

	require.Equal(t, 1, result.TotalCount)
	assert.Equal(t, int64(2), result.Items[0].Song.ID)
}

func TestSearchPagination(t *testing.T) {
	songs := &stubSongRepo{names: []repository.EntityName{
		{ID: 1, Name: "tell your world"},
		{ID: 2, Name: "tell me"},
		{ID: 3, Name: "tell"},
	}}
	engine := newTestEngine(songs, &stubArtistRepo{})

	result, err := engine.Search(context.Background(), Params{Query: "tell", MaxEntries: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalCount)
	require.Len(t, result.Items, 2)

	result, err = engine.Search(context.Background(), Params{Query: "tell", MaxEntries: 2, StartAt: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalCount)
	require.Len(t, result.Items, 1)
	assert.Equal(t, 3, result.Items[0].Placement)
}

func TestParamsNormalize(t *testing.T) {
	p := Params{MaxEntries: 9999, StartAt: -1, MinDistance: -5}
	p.Normalize(50)
	assert.Equal(t, 50, p.MaxEntries)
	assert.Equal(t, 0, p.StartAt)
	assert.Equal(t, DefaultMinDistance, p.MinDistance)
	assert.Equal(t, DefaultMaxDistance, p.MaxDistance)
}
