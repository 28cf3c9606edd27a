package server

import (
	"net/url"
	"testing"

	"VocaRank/core/ranking"
	"VocaRank/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryHelpers(t *testing.T) {
	values := url.Values{
		"n":    {"42"},
		"bad":  {"forty-two"},
		"yes":  {"true"},
		"no":   {"0"},
		"ids":  {"1, 2,skip,3"},
		"big":  {"9000000000"},
		"none": {""},
	}

	assert.Equal(t, 42, queryInt(values, "n", 7))
	assert.Equal(t, 7, queryInt(values, "bad", 7))
	assert.Equal(t, 7, queryInt(values, "absent", 7))

	assert.True(t, queryBool(values, "yes"))
	assert.False(t, queryBool(values, "no"))
	assert.False(t, queryBool(values, "absent"))

	// Invalid entries in an id list are skipped, not fatal.
	assert.Equal(t, []int64{1, 2, 3}, queryIDList(values, "ids"))
	assert.Nil(t, queryIDList(values, "none"))

	big := queryInt64Ptr(values, "big")
	require.NotNil(t, big)
	assert.Equal(t, int64(9000000000), *big)
	assert.Nil(t, queryInt64Ptr(values, "bad"))
	assert.Nil(t, queryInt64Ptr(values, "absent"))
}

func TestFilterParamsFromQuery(t *testing.T) {
	values := url.Values{
		"timestamp":        {"2024-05-01"},
		"timePeriodOffset": {"30"},
		"changeOffset":     {"1"},
		"viewType":         {"YouTube"},
		"songType":         {"Original"},
		"artistCategory":   {"Producer"},
		"publishDate":      {"2023"},
		"includeSongs":     {"1,2"},
		"singleVideo":      {"true"},
		"orderBy":          {"publishDate"},
		"direction":        {"asc"},
		"minViews":         {"1000"},
		"maxEntries":       {"25"},
		"startAt":          {"50"},
	}

	p := filterParamsFromQuery(values)

	assert.Equal(t, "2024-05-01", p.Timestamp)
	assert.Equal(t, 30, p.TimePeriodOffset)
	assert.Equal(t, 1, p.ChangeOffset)
	require.NotNil(t, p.ViewType)
	assert.Equal(t, model.ViewTypeYouTube, *p.ViewType)
	require.NotNil(t, p.SongType)
	assert.Equal(t, model.SongTypeOriginal, *p.SongType)
	require.NotNil(t, p.ArtistCategory)
	assert.Equal(t, model.ArtistCategoryProducer, *p.ArtistCategory)
	assert.Nil(t, p.ArtistType)
	assert.Equal(t, "2023", p.PublishDate)
	assert.Equal(t, []int64{1, 2}, p.IncludeSongs)
	assert.True(t, p.SingleVideo)
	assert.Equal(t, ranking.OrderByPublishDate, p.OrderBy)
	assert.Equal(t, ranking.Ascending, p.Direction)
	require.NotNil(t, p.MinViews)
	assert.Equal(t, int64(1000), *p.MinViews)
	assert.Nil(t, p.MaxViews)
	assert.Equal(t, 25, p.MaxEntries)
	assert.Equal(t, 50, p.StartAt)
}

func TestFilterParamsFromQueryDropsUnknownEnums(t *testing.T) {
	values := url.Values{
		"viewType": {"Vimeo"},
		"songType": {"Ballad"},
		"orderBy":  {"popularity"},
	}

	p := filterParamsFromQuery(values)

	// Unknown enum values drop the filter axis rather than failing the request.
	assert.Nil(t, p.ViewType)
	assert.Nil(t, p.SongType)
	assert.Equal(t, ranking.OrderByViews, p.OrderBy)
}
