package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnumByName(t *testing.T) {
	st := ParseSongType("Remix")
	require.NotNil(t, st)
	assert.Equal(t, SongTypeRemix, *st)

	// Case-insensitive.
	vt := ParseViewType("niconico")
	require.NotNil(t, vt)
	assert.Equal(t, ViewTypeNiconico, *vt)

	at := ParseArtistType("synthesizerv")
	require.NotNil(t, at)
	assert.Equal(t, ArtistTypeSynthesizerV, *at)
}

func TestParseEnumByDiscriminant(t *testing.T) {
	st := ParseSongType("1")
	require.NotNil(t, st)
	assert.Equal(t, SongTypeRemix, *st)

	ac := ParseArtistCategory("0")
	require.NotNil(t, ac)
	assert.Equal(t, ArtistCategoryVocalist, *ac)
}

func TestParseEnumUnknownIsNil(t *testing.T) {
	assert.Nil(t, ParseSongType(""))
	assert.Nil(t, ParseSongType("Ballad"))
	assert.Nil(t, ParseSongType("99"))
	assert.Nil(t, ParseViewType("-1"))
	assert.Nil(t, ParseArtistCategory("Listener"))
}

func TestEnumString(t *testing.T) {
	assert.Equal(t, "Original", SongTypeOriginal.String())
	assert.Equal(t, "bilibili", ViewTypeBilibili.String())
	assert.Equal(t, "UTAU", ArtistTypeUTAU.String())
	assert.Equal(t, "Unknown", SongType(99).String())
}

func TestLocalizedNameFallback(t *testing.T) {
	song := Song{Names: []SongName{
		{NameType: NameTypeOriginal, Name: "千本桜"},
		{NameType: NameTypeRomaji, Name: "Senbonzakura"},
	}}

	assert.Equal(t, "Senbonzakura", song.Name(NameTypeRomaji))
	// Missing localization falls back to the Original name.
	assert.Equal(t, "千本桜", song.Name(NameTypeEnglish))

	artist := Artist{Names: []ArtistName{
		{NameType: NameTypeOriginal, Name: "初音ミク"},
	}}
	assert.Equal(t, "初音ミク", artist.Name(NameTypeEnglish))
}
