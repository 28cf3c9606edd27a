package repository

import (
	"context"
	"fmt"

	"VocaRank/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EntityName is one localized name of a song or artist, used by the search
// engine which matches against every name of every entity.
type EntityName struct {
	ID   int64
	Name string
}

// SongRepository defines the interface for song data operations.
type SongRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
	Upsert(ctx context.Context, song *model.Song) error
	GetByID(ctx context.Context, id int64) (*model.Song, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.Song, error)
	ListNames(ctx context.Context) ([]EntityName, error)
	WithTx(tx *gorm.DB) SongRepository
}

// gormSongRepository implements SongRepository with GORM.
type gormSongRepository struct {
	db *gorm.DB
}

// NewGormSongRepository creates a new instance of gormSongRepository.
func NewGormSongRepository(db *gorm.DB) SongRepository {
	return &gormSongRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *gormSongRepository) WithTx(tx *gorm.DB) SongRepository {
	return &gormSongRepository{db: tx}
}

func (r *gormSongRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Song{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check song existence for ID %d: %w", id, err)
	}
	return count > 0, nil
}

// Upsert writes a song and replaces its owned rows (names, video ids, artist
// links). Keyed by id, so re-ingesting the same song is idempotent.
func (r *gormSongRepository) Upsert(ctx context.Context, song *model.Song) error {
	db := r.db.WithContext(ctx)

	err := db.Clauses(clause.OnConflict{UpdateAll: true}).
		Omit(clause.Associations).
		Create(song).Error
	if err != nil {
		return fmt.Errorf("failed to upsert song %d: %w", song.ID, err)
	}

	// Owned rows are replaced wholesale; the row counts are tiny.
	if err := db.Where("song_id = ?", song.ID).Delete(&model.SongName{}).Error; err != nil {
		return fmt.Errorf("failed to clear names for song %d: %w", song.ID, err)
	}
	if err := db.Where("song_id = ?", song.ID).Delete(&model.SongVideo{}).Error; err != nil {
		return fmt.Errorf("failed to clear video ids for song %d: %w", song.ID, err)
	}
	if err := db.Where("song_id = ?", song.ID).Delete(&model.SongArtist{}).Error; err != nil {
		return fmt.Errorf("failed to clear artist links for song %d: %w", song.ID, err)
	}

	for i := range song.Names {
		song.Names[i].SongID = song.ID
	}
	if len(song.Names) > 0 {
		if err := db.Create(&song.Names).Error; err != nil {
			return fmt.Errorf("failed to insert names for song %d: %w", song.ID, err)
		}
	}
	for i := range song.Videos {
		song.Videos[i].SongID = song.ID
	}
	if len(song.Videos) > 0 {
		if err := db.Create(&song.Videos).Error; err != nil {
			return fmt.Errorf("failed to insert video ids for song %d: %w", song.ID, err)
		}
	}
	for i := range song.Artists {
		song.Artists[i].SongID = song.ID
		song.Artists[i].Artist = nil
	}
	if len(song.Artists) > 0 {
		if err := db.Create(&song.Artists).Error; err != nil {
			return fmt.Errorf("failed to insert artist links for song %d: %w", song.ID, err)
		}
	}

	return nil
}

// GetByID retrieves a fully materialized song, or nil when not found.
func (r *gormSongRepository) GetByID(ctx context.Context, id int64) (*model.Song, error) {
	songs, err := r.GetByIDs(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	return songs[id], nil
}

// GetByIDs materializes songs with their names, video ids and artists.
func (r *gormSongRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.Song, error) {
	result := make(map[int64]*model.Song, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var songs []model.Song
	err := r.db.WithContext(ctx).
		Preload("Names").
		Preload("Videos").
		Preload("Artists").
		Preload("Artists.Artist").
		Preload("Artists.Artist.Names").
		Preload("Artists.Artist.Thumbnails").
		Where("id IN ?", ids).
		Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load songs: %w", err)
	}

	for i := range songs {
		result[songs[i].ID] = &songs[i]
	}
	return result, nil
}

// ListNames returns every localized name of every song.
func (r *gormSongRepository) ListNames(ctx context.Context) ([]EntityName, error) {
	var rows []model.SongName
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list song names: %w", err)
	}

	names := make([]EntityName, 0, len(rows))
	for _, row := range rows {
		names = append(names, EntityName{ID: row.SongID, Name: row.Name})
	}
	return names, nil
}
