package ingest

import (
	"context"
	"fmt"
	"time"

	"VocaRank/cache"
	"VocaRank/logger"
	"VocaRank/model"
	"VocaRank/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Snapshot is one scraped (song, day) view snapshot: the total plus its
// per-platform, per-video breakdown.
type Snapshot struct {
	SongID    int64                  `json:"songId"`
	Timestamp string                 `json:"timestamp"`
	Total     int64                  `json:"total"`
	Breakdown []model.ViewsBreakdown `json:"breakdown"`
}

// Batch is one logical write batch from the scraper. Everything in a batch
// is written inside one transaction and the result cache is purged once.
type Batch struct {
	ID         string                 `json:"id,omitempty"`
	Songs      []model.Song           `json:"songs,omitempty"`
	Artists    []model.Artist         `json:"artists,omitempty"`
	Snapshots  []Snapshot             `json:"snapshots,omitempty"`
	Timestamps []model.ViewsTimestamp `json:"timestamps,omitempty"`
}

func (b *Batch) empty() bool {
	return len(b.Songs) == 0 && len(b.Artists) == 0 && len(b.Snapshots) == 0 && len(b.Timestamps) == 0
}

// Service accepts newly scraped songs, artists and view snapshots and writes
// them into the store. All writes are idempotent upserts; re-ingesting the
// same day replaces it.
type Service struct {
	db      *gorm.DB
	songs   repository.SongRepository
	artists repository.ArtistRepository
	views   repository.ViewsRepository
	store   cache.Store
}

// NewService creates an ingestion service writing through the given
// repositories. store may be nil to disable cache purging.
func NewService(db *gorm.DB, songs repository.SongRepository, artists repository.ArtistRepository, views repository.ViewsRepository, store cache.Store) *Service {
	return &Service{db: db, songs: songs, artists: artists, views: views, store: store}
}

// SongExists reports whether a song has been ingested before.
func (s *Service) SongExists(ctx context.Context, id int64) (bool, error) {
	return s.songs.Exists(ctx, id)
}

// ArtistExists reports whether an artist has been ingested before.
func (s *Service) ArtistExists(ctx context.Context, id int64) (bool, error) {
	return s.artists.Exists(ctx, id)
}

// InsertSong upserts one song as a batch of one.
func (s *Service) InsertSong(ctx context.Context, song *model.Song) error {
	return s.IngestBatch(ctx, &Batch{Songs: []model.Song{*song}})
}

// InsertArtist upserts one artist as a batch of one.
func (s *Service) InsertArtist(ctx context.Context, artist *model.Artist) error {
	return s.IngestBatch(ctx, &Batch{Artists: []model.Artist{*artist}})
}

// InsertViewSnapshot upserts one (song, day) snapshot as a batch of one.
func (s *Service) InsertViewSnapshot(ctx context.Context, snapshot Snapshot) error {
	return s.IngestBatch(ctx, &Batch{Snapshots: []Snapshot{snapshot}})
}

// InsertViewsTimestamp upserts one ledger entry as a batch of one.
func (s *Service) InsertViewsTimestamp(ctx context.Context, ts model.ViewsTimestamp) error {
	return s.IngestBatch(ctx, &Batch{Timestamps: []model.ViewsTimestamp{ts}})
}

// IngestBatch writes one scraped batch inside a single transaction, then
// purges the result cache exactly once. A reader never observes a
// partially-written snapshot.
func (s *Service) IngestBatch(ctx context.Context, batch *Batch) error {
	if batch.empty() {
		return nil
	}
	if batch.ID == "" {
		batch.ID = uuid.NewString()
	}
	if err := validateBatch(batch); err != nil {
		return err
	}

	start := time.Now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		songs := s.songs.WithTx(tx)
		artists := s.artists.WithTx(tx)
		views := s.views.WithTx(tx)

		// Artists first: song-artist links reference them.
		for i := range batch.Artists {
			if err := artists.Upsert(ctx, &batch.Artists[i]); err != nil {
				return err
			}
		}
		for i := range batch.Songs {
			if err := songs.Upsert(ctx, &batch.Songs[i]); err != nil {
				return err
			}
		}
		for _, snapshot := range batch.Snapshots {
			if err := views.ReplaceSnapshot(ctx, snapshot.SongID, snapshot.Timestamp, snapshot.Total, snapshot.Breakdown); err != nil {
				return err
			}
		}
		for i := range batch.Timestamps {
			if err := views.UpsertTimestamp(ctx, &batch.Timestamps[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to ingest batch %s: %w", batch.ID, err)
	}

	// One purge per logical batch, never per row.
	if s.store != nil {
		if err := s.store.Purge(ctx); err != nil {
			logger.Warn("result cache purge failed after ingest",
				logger.String("batch", batch.ID), logger.ErrorField(err))
		}
	}

	logger.Info("ingested batch",
		logger.String("batch", batch.ID),
		logger.Int("songs", len(batch.Songs)),
		logger.Int("artists", len(batch.Artists)),
		logger.Int("snapshots", len(batch.Snapshots)),
		logger.Int("timestamps", len(batch.Timestamps)),
		logger.Duration("elapsed", time.Since(start)))
	return nil
}

// validateBatch enforces the data-model invariants that upserts cannot
// express: the Original name requirement, base-artist self references and
// snapshot timestamp format.
func validateBatch(batch *Batch) error {
	for i := range batch.Songs {
		if !hasOriginalSongName(batch.Songs[i].Names) {
			return fmt.Errorf("song %d has no Original name", batch.Songs[i].ID)
		}
	}
	for i := range batch.Artists {
		artist := &batch.Artists[i]
		if artist.BaseArtistID != nil && *artist.BaseArtistID == artist.ID {
			return fmt.Errorf("artist %d references itself as base artist", artist.ID)
		}
		if !hasOriginalArtistName(artist.Names) {
			return fmt.Errorf("artist %d has no Original name", artist.ID)
		}
	}
	for _, snapshot := range batch.Snapshots {
		if _, err := time.Parse(model.TimestampLayout, snapshot.Timestamp); err != nil {
			return fmt.Errorf("snapshot for song %d has invalid timestamp %q", snapshot.SongID, snapshot.Timestamp)
		}
	}
	for _, ts := range batch.Timestamps {
		if _, err := time.Parse(model.TimestampLayout, ts.Timestamp); err != nil {
			return fmt.Errorf("views timestamp %q is invalid", ts.Timestamp)
		}
	}
	return nil
}

func hasOriginalSongName(names []model.SongName) bool {
	for _, n := range names {
		if n.NameType == model.NameTypeOriginal {
			return true
		}
	}
	return false
}

func hasOriginalArtistName(names []model.ArtistName) bool {
	for _, n := range names {
		if n.NameType == model.NameTypeOriginal {
			return true
		}
	}
	return false
}
