package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"VocaRank/model"
)

// SnapshotFilter is the typed filter a ranking query is compiled from. All
// fields are optional except Timestamp; nil/zero means "no restriction on
// that axis". The SQL below is assembled from a fixed set of parameterized
// predicate fragments, never from interpolated values.
type SnapshotFilter struct {
	Timestamp         string
	ViewType          *model.ViewType // nil = combined
	SongType          *model.SongType
	ArtistType        *model.ArtistType
	ArtistCategory    *model.ArtistCategory
	PublishDatePrefix string
	IncludeSongIDs    []int64
	IncludeArtistIDs  []int64
	// SingleVideo counts only the highest-viewed video per (song, platform)
	// instead of summing all of a song's videos on that platform.
	SingleVideo bool
}

// SongViewsRow is one song's aggregated view count at the filter's timestamp.
type SongViewsRow struct {
	SongID       int64
	Views        int64
	PublishDate  time.Time
	AdditionDate time.Time
}

// ArtistCreditRow credits one song's aggregated views to one artist on that
// song. Rows are per (artist, song) so that the engine can merge an artist
// into its base artist before aggregating, deduplicating per song.
type ArtistCreditRow struct {
	ArtistID     int64
	BaseArtistID *int64
	SongID       int64
	Views        int64
	PublishDate  time.Time
	AdditionDate time.Time
}

// RankingRepository runs the aggregation read queries the ranking filter
// engine is built on. Both methods are pure reads.
type RankingRepository interface {
	SongViews(ctx context.Context, f SnapshotFilter) ([]SongViewsRow, error)
	ArtistCredits(ctx context.Context, f SnapshotFilter) ([]ArtistCreditRow, error)
}

// mysqlRankingRepository implements RankingRepository with hand-built SQL on
// the shared *sql.DB.
type mysqlRankingRepository struct {
	DB *sql.DB
}

// NewMySQLRankingRepository creates a new instance of mysqlRankingRepository.
func NewMySQLRankingRepository(db *sql.DB) RankingRepository {
	return &mysqlRankingRepository{DB: db}
}

func (r *mysqlRankingRepository) SongViews(ctx context.Context, f SnapshotFilter) ([]SongViewsRow, error) {
	query, args := buildSongViewsQuery(f)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query song views at %s: %w", f.Timestamp, err)
	}
	defer rows.Close()

	result := make([]SongViewsRow, 0)
	for rows.Next() {
		var row SongViewsRow
		if err := rows.Scan(&row.SongID, &row.Views, &row.PublishDate, &row.AdditionDate); err != nil {
			return nil, fmt.Errorf("failed to scan song views row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during song views iteration: %w", err)
	}
	return result, nil
}

func (r *mysqlRankingRepository) ArtistCredits(ctx context.Context, f SnapshotFilter) ([]ArtistCreditRow, error) {
	query, args := buildArtistCreditsQuery(f)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query artist credits at %s: %w", f.Timestamp, err)
	}
	defer rows.Close()

	result := make([]ArtistCreditRow, 0)
	for rows.Next() {
		var row ArtistCreditRow
		var base sql.NullInt64
		if err := rows.Scan(&row.ArtistID, &base, &row.SongID, &row.Views, &row.PublishDate, &row.AdditionDate); err != nil {
			return nil, fmt.Errorf("failed to scan artist credit row: %w", err)
		}
		if base.Valid {
			b := base.Int64
			row.BaseArtistID = &b
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during artist credits iteration: %w", err)
	}
	return result, nil
}

// buildViewsSource returns the per-song view aggregation subquery for one
// timestamp, honoring the platform restriction and singleVideo.
func buildViewsSource(f SnapshotFilter) (string, []interface{}) {
	switch {
	case f.SingleVideo && f.ViewType != nil:
		return `SELECT song_id, MAX(views) AS views FROM views_breakdowns
			WHERE timestamp = ? AND view_type = ? GROUP BY song_id`,
			[]interface{}{f.Timestamp, int(*f.ViewType)}
	case f.SingleVideo:
		return `SELECT song_id, SUM(platform_max) AS views FROM (
				SELECT song_id, view_type, MAX(views) AS platform_max
				FROM views_breakdowns WHERE timestamp = ?
				GROUP BY song_id, view_type
			) per_platform GROUP BY song_id`,
			[]interface{}{f.Timestamp}
	case f.ViewType != nil:
		return `SELECT song_id, SUM(views) AS views FROM views_breakdowns
			WHERE timestamp = ? AND view_type = ? GROUP BY song_id`,
			[]interface{}{f.Timestamp, int(*f.ViewType)}
	default:
		// Combined totals are precomputed per snapshot.
		return `SELECT song_id, total AS views FROM views_totals WHERE timestamp = ?`,
			[]interface{}{f.Timestamp}
	}
}

// condSet collects optional WHERE fragments with their arguments.
type condSet struct {
	conds []string
	args  []interface{}
}

func (c *condSet) add(cond string, args ...interface{}) {
	c.conds = append(c.conds, cond)
	c.args = append(c.args, args...)
}

func (c *condSet) where() string {
	if len(c.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.conds, " AND ")
}

// placeholders returns "?, ?, ..." for an IN clause of n values.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func int64Args(ids []int64) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

func buildSongViewsQuery(f SnapshotFilter) (string, []interface{}) {
	source, args := buildViewsSource(f)

	var c condSet
	if f.SongType != nil {
		c.add("s.song_type = ?", int(*f.SongType))
	}
	if f.PublishDatePrefix != "" {
		c.add("DATE_FORMAT(s.publish_date, '%Y-%m-%d') LIKE ?", f.PublishDatePrefix+"%")
	}
	if len(f.IncludeSongIDs) > 0 {
		c.add("s.id IN ("+placeholders(len(f.IncludeSongIDs))+")", int64Args(f.IncludeSongIDs)...)
	}

	// Artist-side axes restrict which songs qualify, via an EXISTS on the
	// song-artist relation.
	if f.ArtistType != nil || f.ArtistCategory != nil || len(f.IncludeArtistIDs) > 0 {
		var a condSet
		a.add("sa.song_id = s.id")
		if len(f.IncludeArtistIDs) > 0 {
			a.add("sa.artist_id IN ("+placeholders(len(f.IncludeArtistIDs))+")", int64Args(f.IncludeArtistIDs)...)
		}
		if f.ArtistCategory != nil {
			a.add("sa.category = ?", int(*f.ArtistCategory))
		}
		if f.ArtistType != nil {
			a.add("a.artist_type = ?", int(*f.ArtistType))
		}
		c.add("EXISTS (SELECT 1 FROM songs_artists sa JOIN artists a ON a.id = sa.artist_id WHERE "+
			strings.Join(a.conds, " AND ")+")", a.args...)
	}

	query := "SELECT s.id, v.views, s.publish_date, s.addition_date FROM (" + source + ") v" +
		" JOIN songs s ON s.id = v.song_id" + c.where()
	return query, append(args, c.args...)
}

func buildArtistCreditsQuery(f SnapshotFilter) (string, []interface{}) {
	source, args := buildViewsSource(f)

	var c condSet
	if f.ArtistCategory != nil {
		c.add("sa.category = ?", int(*f.ArtistCategory))
	}
	if f.ArtistType != nil {
		c.add("a.artist_type = ?", int(*f.ArtistType))
	}
	if f.SongType != nil {
		c.add("s.song_type = ?", int(*f.SongType))
	}
	if f.PublishDatePrefix != "" {
		// For artist rankings the publish date axis filters the artist.
		c.add("DATE_FORMAT(a.publish_date, '%Y-%m-%d') LIKE ?", f.PublishDatePrefix+"%")
	}
	if len(f.IncludeArtistIDs) > 0 {
		c.add("a.id IN ("+placeholders(len(f.IncludeArtistIDs))+")", int64Args(f.IncludeArtistIDs)...)
	}
	if len(f.IncludeSongIDs) > 0 {
		c.add("s.id IN ("+placeholders(len(f.IncludeSongIDs))+")", int64Args(f.IncludeSongIDs)...)
	}

	query := "SELECT a.id, a.base_artist_id, s.id, v.views, a.publish_date, a.addition_date FROM (" + source + ") v" +
		" JOIN songs s ON s.id = v.song_id" +
		" JOIN songs_artists sa ON sa.song_id = s.id" +
		" JOIN artists a ON a.id = sa.artist_id" + c.where()
	return query, append(args, c.args...)
}
