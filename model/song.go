package model

import (
	"database/sql"
	"time"
)

// Song 表示一首被追踪的歌曲（一个MV可能在多个平台有多个视频）
type Song struct {
	ID              int64          `gorm:"primaryKey;autoIncrement:false" json:"id"`
	SongType        SongType       `gorm:"not null" json:"songType"`
	PublishDate     time.Time      `gorm:"type:date;index" json:"publishDate"`
	AdditionDate    time.Time      `gorm:"index" json:"additionDate"`
	Thumbnail       string         `gorm:"size:767" json:"thumbnail"`
	MaxresThumbnail string         `gorm:"size:767" json:"maxresThumbnail"`
	AverageColor    string         `gorm:"size:16" json:"averageColor"`
	LightColor      string         `gorm:"size:16" json:"lightColor"`
	DarkColor       string         `gorm:"size:16" json:"darkColor"`
	FandomURL       sql.NullString `gorm:"size:767" json:"fandomUrl"`

	Names   []SongName   `gorm:"foreignKey:SongID" json:"names"`
	Videos  []SongVideo  `gorm:"foreignKey:SongID" json:"videos"`
	Artists []SongArtist `gorm:"foreignKey:SongID" json:"artists"`
}

func (Song) TableName() string {
	return "songs"
}

// Name returns the localized name for the given type, falling back to the
// Original name. Every song owns at least its Original name.
func (s *Song) Name(nameType NameType) string {
	var original string
	for _, n := range s.Names {
		if n.NameType == nameType {
			return n.Name
		}
		if n.NameType == NameTypeOriginal {
			original = n.Name
		}
	}
	return original
}

// SongName 歌曲的本地化名称，每种类型至多一个
type SongName struct {
	SongID   int64    `gorm:"primaryKey;autoIncrement:false" json:"-"`
	NameType NameType `gorm:"primaryKey" json:"nameType"`
	Name     string   `gorm:"size:512;not null;index:idx_song_name,length:191" json:"name"`
}

func (SongName) TableName() string {
	return "songs_names"
}

// SongVideo 歌曲在某平台上的一个视频ID
type SongVideo struct {
	SongID   int64    `gorm:"primaryKey;autoIncrement:false" json:"-"`
	ViewType ViewType `gorm:"primaryKey" json:"viewType"`
	VideoID  string   `gorm:"primaryKey;size:64" json:"videoId"`
}

func (SongVideo) TableName() string {
	return "songs_video_ids"
}

// SongArtist 歌曲与艺术家的多对多关联，附带该歌曲范围内的参与类别
type SongArtist struct {
	SongID   int64          `gorm:"primaryKey;autoIncrement:false" json:"-"`
	ArtistID int64          `gorm:"primaryKey;autoIncrement:false;index" json:"artistId"`
	Category ArtistCategory `gorm:"not null" json:"category"`

	Artist *Artist `gorm:"foreignKey:ArtistID" json:"artist,omitempty"`
}

func (SongArtist) TableName() string {
	return "songs_artists"
}
