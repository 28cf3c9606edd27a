package repository

import (
	"context"
	"fmt"

	"VocaRank/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ViewsRepository maintains the append-only view snapshots and the
// views_metadata ledger of days we have data for.
type ViewsRepository interface {
	// ReplaceSnapshot upserts one song's full snapshot for one day: the total
	// plus every breakdown row, replacing whatever was written for that
	// (song, timestamp) pair before.
	ReplaceSnapshot(ctx context.Context, songID int64, timestamp string, total int64, breakdown []model.ViewsBreakdown) error
	UpsertTimestamp(ctx context.Context, ts *model.ViewsTimestamp) error
	// LatestTimestamp returns the most recent day in the ledger, "" when the
	// ledger is empty.
	LatestTimestamp(ctx context.Context) (string, error)
	ListTimestamps(ctx context.Context) ([]model.ViewsTimestamp, error)
	WithTx(tx *gorm.DB) ViewsRepository
}

// gormViewsRepository implements ViewsRepository with GORM.
type gormViewsRepository struct {
	db *gorm.DB
}

// NewGormViewsRepository creates a new instance of gormViewsRepository.
func NewGormViewsRepository(db *gorm.DB) ViewsRepository {
	return &gormViewsRepository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *gormViewsRepository) WithTx(tx *gorm.DB) ViewsRepository {
	return &gormViewsRepository{db: tx}
}

func (r *gormViewsRepository) ReplaceSnapshot(ctx context.Context, songID int64, timestamp string, total int64, breakdown []model.ViewsBreakdown) error {
	db := r.db.WithContext(ctx)

	totalRow := model.ViewsTotal{SongID: songID, Timestamp: timestamp, Total: total}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "song_id"}, {Name: "timestamp"}},
		DoUpdates: clause.AssignmentColumns([]string{"total"}),
	}).Create(&totalRow).Error
	if err != nil {
		return fmt.Errorf("failed to upsert views total for song %d at %s: %w", songID, timestamp, err)
	}

	// Replace the breakdown wholesale so rows removed upstream do not linger.
	err = db.Where("song_id = ? AND timestamp = ?", songID, timestamp).
		Delete(&model.ViewsBreakdown{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear views breakdown for song %d at %s: %w", songID, timestamp, err)
	}

	if len(breakdown) > 0 {
		for i := range breakdown {
			breakdown[i].SongID = songID
			breakdown[i].Timestamp = timestamp
		}
		if err := db.Create(&breakdown).Error; err != nil {
			return fmt.Errorf("failed to insert views breakdown for song %d at %s: %w", songID, timestamp, err)
		}
	}

	return nil
}

func (r *gormViewsRepository) UpsertTimestamp(ctx context.Context, ts *model.ViewsTimestamp) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "timestamp"}},
		DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
	}).Create(ts).Error
	if err != nil {
		return fmt.Errorf("failed to upsert views timestamp %s: %w", ts.Timestamp, err)
	}
	return nil
}

func (r *gormViewsRepository) LatestTimestamp(ctx context.Context) (string, error) {
	var ts model.ViewsTimestamp
	err := r.db.WithContext(ctx).Order("timestamp DESC").First(&ts).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", fmt.Errorf("failed to query latest views timestamp: %w", err)
	}
	return ts.Timestamp, nil
}

func (r *gormViewsRepository) ListTimestamps(ctx context.Context) ([]model.ViewsTimestamp, error) {
	timestamps := make([]model.ViewsTimestamp, 0)
	err := r.db.WithContext(ctx).Order("timestamp ASC").Find(&timestamps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list views timestamps: %w", err)
	}
	return timestamps, nil
}
