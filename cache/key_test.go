package cache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type keyParams struct {
	Timestamp  string `json:"timestamp,omitempty"`
	MaxEntries int    `json:"maxEntries"`
}

func TestKeyIsDeterministic(t *testing.T) {
	a := Key("rankings:songs", keyParams{Timestamp: "2024-05-01", MaxEntries: 50})
	b := Key("rankings:songs", keyParams{Timestamp: "2024-05-01", MaxEntries: 50})
	assert.Equal(t, a, b)
}

func TestKeyVariesWithParams(t *testing.T) {
	a := Key("rankings:songs", keyParams{Timestamp: "2024-05-01", MaxEntries: 50})
	b := Key("rankings:songs", keyParams{Timestamp: "2024-05-02", MaxEntries: 50})
	c := Key("rankings:songs", keyParams{Timestamp: "2024-05-01", MaxEntries: 25})
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestKeyVariesWithPrefixAndContext(t *testing.T) {
	params := keyParams{Timestamp: "2024-05-01", MaxEntries: 50}

	songs := Key("rankings:songs", params)
	artists := Key("rankings:artists", params)
	assert.NotEqual(t, songs, artists)
	assert.True(t, strings.HasPrefix(songs, "rankings:songs:"))
	assert.True(t, strings.HasPrefix(artists, "rankings:artists:"))

	plain := Key("search", params)
	localized := Key("search", params, "ja")
	assert.NotEqual(t, plain, localized)
}
