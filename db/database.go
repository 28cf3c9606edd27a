package db

import (
	"database/sql"
	"fmt"
	"log"

	"VocaRank/config"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database.")
	return nil
}

// InitDB initializes the database schema, creating tables if they don't exist.
// The same tables are also described by the gorm models; this bootstrap keeps
// a fresh database usable without running the migrate command first.
func InitDB() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS songs (
			id BIGINT PRIMARY KEY,
			song_type INT NOT NULL,
			publish_date DATE,
			addition_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			thumbnail VARCHAR(767),
			maxres_thumbnail VARCHAR(767),
			average_color VARCHAR(16),
			light_color VARCHAR(16),
			dark_color VARCHAR(16),
			fandom_url VARCHAR(767),
			INDEX idx_songs_publish (publish_date),
			INDEX idx_songs_addition (addition_date)
		);`,
		`CREATE TABLE IF NOT EXISTS songs_names (
			song_id BIGINT NOT NULL,
			name_type INT NOT NULL,
			name VARCHAR(512) NOT NULL,
			PRIMARY KEY (song_id, name_type),
			INDEX idx_song_name (name(191)),
			CONSTRAINT fk_songs_names_song FOREIGN KEY (song_id) REFERENCES songs(id)
		);`,
		`CREATE TABLE IF NOT EXISTS songs_video_ids (
			song_id BIGINT NOT NULL,
			view_type INT NOT NULL,
			video_id VARCHAR(64) NOT NULL,
			PRIMARY KEY (song_id, view_type, video_id),
			CONSTRAINT fk_songs_videos_song FOREIGN KEY (song_id) REFERENCES songs(id)
		);`,
		`CREATE TABLE IF NOT EXISTS artists (
			id BIGINT PRIMARY KEY,
			artist_type INT NOT NULL,
			publish_date DATE,
			addition_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			average_color VARCHAR(16),
			light_color VARCHAR(16),
			dark_color VARCHAR(16),
			base_artist_id BIGINT,
			INDEX idx_artists_type (artist_type),
			INDEX idx_artists_base (base_artist_id)
		);`,
		`CREATE TABLE IF NOT EXISTS artists_names (
			artist_id BIGINT NOT NULL,
			name_type INT NOT NULL,
			name VARCHAR(512) NOT NULL,
			PRIMARY KEY (artist_id, name_type),
			INDEX idx_artist_name (name(191)),
			CONSTRAINT fk_artists_names_artist FOREIGN KEY (artist_id) REFERENCES artists(id)
		);`,
		`CREATE TABLE IF NOT EXISTS artists_thumbnails (
			artist_id BIGINT NOT NULL,
			thumbnail_type INT NOT NULL,
			url VARCHAR(767),
			PRIMARY KEY (artist_id, thumbnail_type),
			CONSTRAINT fk_artists_thumbs_artist FOREIGN KEY (artist_id) REFERENCES artists(id)
		);`,
		`CREATE TABLE IF NOT EXISTS songs_artists (
			song_id BIGINT NOT NULL,
			artist_id BIGINT NOT NULL,
			category INT NOT NULL,
			PRIMARY KEY (song_id, artist_id),
			INDEX idx_songs_artists_artist (artist_id),
			CONSTRAINT fk_songs_artists_song FOREIGN KEY (song_id) REFERENCES songs(id),
			CONSTRAINT fk_songs_artists_artist FOREIGN KEY (artist_id) REFERENCES artists(id)
		);`,
		`CREATE TABLE IF NOT EXISTS views_totals (
			song_id BIGINT NOT NULL,
			timestamp VARCHAR(10) NOT NULL,
			total BIGINT NOT NULL,
			PRIMARY KEY (song_id, timestamp),
			INDEX idx_views_totals_ts (timestamp),
			CONSTRAINT fk_views_totals_song FOREIGN KEY (song_id) REFERENCES songs(id)
		);`,
		`CREATE TABLE IF NOT EXISTS views_breakdowns (
			song_id BIGINT NOT NULL,
			timestamp VARCHAR(10) NOT NULL,
			view_type INT NOT NULL,
			video_id VARCHAR(64) NOT NULL,
			views BIGINT NOT NULL,
			PRIMARY KEY (song_id, timestamp, view_type, video_id),
			INDEX idx_views_breakdowns_ts (timestamp),
			CONSTRAINT fk_views_breakdowns_song FOREIGN KEY (song_id) REFERENCES songs(id)
		);`,
		`CREATE TABLE IF NOT EXISTS views_metadata (
			timestamp VARCHAR(10) PRIMARY KEY,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
	}

	for _, stmt := range statements {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	log.Println("Database schema initialized successfully (or already exists).")
	return nil
}

// CloseDB closes the database connection.
func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
