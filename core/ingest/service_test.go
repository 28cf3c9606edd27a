package ingest

import (
	"testing"

	"VocaRank/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSong(id int64) model.Song {
	return model.Song{
		ID: id,
		Names: []model.SongName{
			{NameType: model.NameTypeOriginal, Name: "曲名"},
			{NameType: model.NameTypeEnglish, Name: "Song Title"},
		},
	}
}

func validArtist(id int64) model.Artist {
	return model.Artist{
		ID: id,
		Names: []model.ArtistName{
			{NameType: model.NameTypeOriginal, Name: "初音ミク"},
		},
	}
}

func TestValidateBatchAcceptsValidBatch(t *testing.T) {
	batch := &Batch{
		Songs:   []model.Song{validSong(1)},
		Artists: []model.Artist{validArtist(10)},
		Snapshots: []Snapshot{
			{SongID: 1, Timestamp: "2024-05-01", Total: 100},
		},
		Timestamps: []model.ViewsTimestamp{{Timestamp: "2024-05-01"}},
	}
	require.NoError(t, validateBatch(batch))
}

func TestValidateBatchRejectsSongWithoutOriginalName(t *testing.T) {
	song := model.Song{
		ID:    1,
		Names: []model.SongName{{NameType: model.NameTypeEnglish, Name: "Only English"}},
	}
	err := validateBatch(&Batch{Songs: []model.Song{song}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no Original name")
}

func TestValidateBatchRejectsArtistWithoutOriginalName(t *testing.T) {
	artist := model.Artist{
		ID:    10,
		Names: []model.ArtistName{{NameType: model.NameTypeRomaji, Name: "Hatsune Miku"}},
	}
	err := validateBatch(&Batch{Artists: []model.Artist{artist}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no Original name")
}

func TestValidateBatchRejectsBaseArtistSelfReference(t *testing.T) {
	artist := validArtist(10)
	self := artist.ID
	artist.BaseArtistID = &self

	err := validateBatch(&Batch{Artists: []model.Artist{artist}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "references itself")
}

func TestValidateBatchRejectsBadTimestamps(t *testing.T) {
	err := validateBatch(&Batch{Snapshots: []Snapshot{
		{SongID: 1, Timestamp: "05/01/2024"},
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid timestamp")

	err = validateBatch(&Batch{Timestamps: []model.ViewsTimestamp{
		{Timestamp: "2024-5-1"},
	}})
	require.Error(t, err)
}

func TestBatchEmpty(t *testing.T) {
	assert.True(t, (&Batch{}).empty())
	assert.False(t, (&Batch{Songs: []model.Song{validSong(1)}}).empty())
	assert.False(t, (&Batch{Timestamps: []model.ViewsTimestamp{{Timestamp: "2024-05-01"}}}).empty())
}
