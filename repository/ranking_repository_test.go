package repository

import (
	"strings"
	"testing"

	"VocaRank/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}

func TestBuildViewsSourceCombined(t *testing.T) {
	source, args := buildViewsSource(SnapshotFilter{Timestamp: "2024-05-01"})
	assert.Contains(t, source, "views_totals")
	assert.Equal(t, []interface{}{"2024-05-01"}, args)
}

func TestBuildViewsSourcePlatform(t *testing.T) {
	vt := model.ViewTypeNiconico
	source, args := buildViewsSource(SnapshotFilter{Timestamp: "2024-05-01", ViewType: &vt})
	assert.Contains(t, source, "views_breakdowns")
	assert.Contains(t, source, "SUM(views)")
	assert.Equal(t, []interface{}{"2024-05-01", int(model.ViewTypeNiconico)}, args)
}

func TestBuildViewsSourceSingleVideo(t *testing.T) {
	source, args := buildViewsSource(SnapshotFilter{Timestamp: "2024-05-01", SingleVideo: true})
	// One MAX per platform, then summed across platforms.
	assert.Contains(t, source, "MAX(views)")
	assert.Contains(t, source, "GROUP BY song_id, view_type")
	assert.Equal(t, []interface{}{"2024-05-01"}, args)

	vt := model.ViewTypeYouTube
	source, args = buildViewsSource(SnapshotFilter{Timestamp: "2024-05-01", SingleVideo: true, ViewType: &vt})
	assert.Contains(t, source, "MAX(views)")
	assert.NotContains(t, source, "SUM")
	assert.Equal(t, []interface{}{"2024-05-01", int(model.ViewTypeYouTube)}, args)
}

func TestBuildSongViewsQueryNoFilters(t *testing.T) {
	query, args := buildSongViewsQuery(SnapshotFilter{Timestamp: "2024-05-01"})
	assert.NotContains(t, query, "WHERE s.")
	assert.Equal(t, []interface{}{"2024-05-01"}, args)
}

func TestBuildSongViewsQueryFilters(t *testing.T) {
	st := model.SongTypeOriginal
	f := SnapshotFilter{
		Timestamp:         "2024-05-01",
		SongType:          &st,
		PublishDatePrefix: "2023-02",
		IncludeSongIDs:    []int64{1, 2, 3},
	}
	query, args := buildSongViewsQuery(f)

	assert.Contains(t, query, "s.song_type = ?")
	assert.Contains(t, query, "LIKE ?")
	assert.Contains(t, query, "s.id IN (?, ?, ?)")

	// Source args first, then predicate args in declaration order.
	require.Len(t, args, 6)
	assert.Equal(t, "2024-05-01", args[0])
	assert.Equal(t, int(model.SongTypeOriginal), args[1])
	assert.Equal(t, "2023-02%", args[2])
	assert.Equal(t, []interface{}{int64(1), int64(2), int64(3)}, args[3:])
}

func TestBuildSongViewsQueryArtistAxesUseExists(t *testing.T) {
	at := model.ArtistTypeVocaloid
	ac := model.ArtistCategoryVocalist
	f := SnapshotFilter{
		Timestamp:        "2024-05-01",
		ArtistType:       &at,
		ArtistCategory:   &ac,
		IncludeArtistIDs: []int64{42},
	}
	query, args := buildSongViewsQuery(f)

	// Artist axes restrict which songs qualify without duplicating song rows.
	assert.Contains(t, query, "EXISTS (SELECT 1 FROM songs_artists sa")
	assert.Contains(t, query, "sa.artist_id IN (?)")
	assert.Contains(t, query, "sa.category = ?")
	assert.Contains(t, query, "a.artist_type = ?")
	assert.Equal(t, []interface{}{"2024-05-01", int64(42), int(ac), int(at)}, args)
}

func TestBuildArtistCreditsQuery(t *testing.T) {
	f := SnapshotFilter{Timestamp: "2024-05-01", PublishDatePrefix: "2007"}
	query, args := buildArtistCreditsQuery(f)

	assert.Contains(t, query, "JOIN songs_artists sa ON sa.song_id = s.id")
	assert.Contains(t, query, "JOIN artists a ON a.id = sa.artist_id")
	// For artist rankings the publish date axis filters the artist, not the song.
	assert.Contains(t, query, "a.publish_date")
	assert.NotContains(t, query, "s.publish_date, '%Y")
	assert.Equal(t, []interface{}{"2024-05-01", "2007%"}, args)
}

func TestBuildQueriesNeverInterpolateValues(t *testing.T) {
	f := SnapshotFilter{
		Timestamp:         "2024-05-01",
		PublishDatePrefix: "2023' OR '1'='1",
		IncludeSongIDs:    []int64{1},
	}
	query, _ := buildSongViewsQuery(f)
	assert.False(t, strings.Contains(query, "2023"), "filter values must only appear as bound arguments")
}
