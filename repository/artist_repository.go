package repository

import (
	"context"
	"fmt"

	"VocaRank/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArtistRepository defines the interface for artist data operations.
type ArtistRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
	Upsert(ctx context.Context, artist *model.Artist) error
	GetByID(ctx context.Context, id int64) (*model.Artist, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.Artist, error)
	ListNames(ctx context.Context) ([]EntityName, error)
	WithTx(tx *gorm.DB) ArtistRepository
}

// gormArtistRepository implements ArtistRepository with GORM.
type gormArtistRepository struct {
	db *gorm.DB
}

// NewGormArtistRepository creates a new instance of gormArtistRepository.
func NewGormArtistRepository(db *gorm.DB) ArtistRepository {
	return &gormArtistRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *gormArtistRepository) WithTx(tx *gorm.DB) ArtistRepository {
	return &gormArtistRepository{db: tx}
}

func (r *gormArtistRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Artist{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check artist existence for ID %d: %w", id, err)
	}
	return count > 0, nil
}

// Upsert writes an artist and replaces its owned rows (names, thumbnails).
// Keyed by id, so re-ingesting the same artist is idempotent.
func (r *gormArtistRepository) Upsert(ctx context.Context, artist *model.Artist) error {
	if artist.BaseArtistID != nil && *artist.BaseArtistID == artist.ID {
		return fmt.Errorf("artist %d references itself as base artist", artist.ID)
	}

	db := r.db.WithContext(ctx)

	err := db.Clauses(clause.OnConflict{UpdateAll: true}).
		Omit(clause.Associations).
		Create(artist).Error
	if err != nil {
		return fmt.Errorf("failed to upsert artist %d: %w", artist.ID, err)
	}

	if err := db.Where("artist_id = ?", artist.ID).Delete(&model.ArtistName{}).Error; err != nil {
		return fmt.Errorf("failed to clear names for artist %d: %w", artist.ID, err)
	}
	if err := db.Where("artist_id = ?", artist.ID).Delete(&model.ArtistThumbnail{}).Error; err != nil {
		return fmt.Errorf("failed to clear thumbnails for artist %d: %w", artist.ID, err)
	}

	for i := range artist.Names {
		artist.Names[i].ArtistID = artist.ID
	}
	if len(artist.Names) > 0 {
		if err := db.Create(&artist.Names).Error; err != nil {
			return fmt.Errorf("failed to insert names for artist %d: %w", artist.ID, err)
		}
	}
	for i := range artist.Thumbnails {
		artist.Thumbnails[i].ArtistID = artist.ID
	}
	if len(artist.Thumbnails) > 0 {
		if err := db.Create(&artist.Thumbnails).Error; err != nil {
			return fmt.Errorf("failed to insert thumbnails for artist %d: %w", artist.ID, err)
		}
	}

	return nil
}

// GetByID retrieves a fully materialized artist, or nil when not found.
func (r *gormArtistRepository) GetByID(ctx context.Context, id int64) (*model.Artist, error) {
	artists, err := r.GetByIDs(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	return artists[id], nil
}

// GetByIDs materializes artists with their names and thumbnails.
func (r *gormArtistRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.Artist, error) {
	result := make(map[int64]*model.Artist, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var artists []model.Artist
	err := r.db.WithContext(ctx).
		Preload("Names").
		Preload("Thumbnails").
		Where("id IN ?", ids).
		Find(&artists).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load artists: %w", err)
	}

	for i := range artists {
		result[artists[i].ID] = &artists[i]
	}
	return result, nil
}

// ListNames returns every localized name of every artist.
func (r *gormArtistRepository) ListNames(ctx context.Context) ([]EntityName, error) {
	var rows []model.ArtistName
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list artist names: %w", err)
	}

	names := make([]EntityName, 0, len(rows))
	for _, row := range rows {
		names = append(names, EntityName{ID: row.ArtistID, Name: row.Name})
	}
	return names, nil
}
