package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderBy(t *testing.T) {
	assert.Equal(t, OrderByViews, ParseOrderBy("views"))
	assert.Equal(t, OrderByPublishDate, ParseOrderBy("publishDate"))
	assert.Equal(t, OrderByPublishDate, ParseOrderBy("publish_date"))
	assert.Equal(t, OrderByAdditionDate, ParseOrderBy("ADDITIONDATE"))

	// Unknown values fall back instead of erroring.
	assert.Equal(t, OrderByViews, ParseOrderBy(""))
	assert.Equal(t, OrderByViews, ParseOrderBy("popularity"))
}

func TestParseDirection(t *testing.T) {
	assert.Equal(t, Ascending, ParseDirection("asc"))
	assert.Equal(t, Ascending, ParseDirection("Ascending"))
	assert.Equal(t, Descending, ParseDirection("desc"))
	assert.Equal(t, Descending, ParseDirection(""))
	assert.Equal(t, Descending, ParseDirection("sideways"))
}

func TestNormalizeClampsPageSize(t *testing.T) {
	p := FilterParams{MaxEntries: 500}
	p.Normalize(50)
	assert.Equal(t, 50, p.MaxEntries)

	p = FilterParams{MaxEntries: 0}
	p.Normalize(50)
	assert.Equal(t, 50, p.MaxEntries)

	p = FilterParams{MaxEntries: 10}
	p.Normalize(50)
	assert.Equal(t, 10, p.MaxEntries)

	// Non-positive cap falls back to the built-in default.
	p = FilterParams{MaxEntries: 1000}
	p.Normalize(0)
	assert.Equal(t, DefaultMaxEntries, p.MaxEntries)
}

func TestNormalizeClampsNegatives(t *testing.T) {
	p := FilterParams{StartAt: -3, TimePeriodOffset: -1, ChangeOffset: -7, DaysOffset: -2}
	p.Normalize(50)
	assert.Equal(t, 0, p.StartAt)
	assert.Equal(t, 0, p.TimePeriodOffset)
	assert.Equal(t, 0, p.ChangeOffset)
	assert.Equal(t, 0, p.DaysOffset)
}
