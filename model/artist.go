package model

import "time"

// Artist 表示一位参与者（歌声合成器、P主、画师等）
type Artist struct {
	ID           int64      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ArtistType   ArtistType `gorm:"not null;index" json:"artistType"`
	PublishDate  time.Time  `gorm:"type:date;index" json:"publishDate"`
	AdditionDate time.Time  `gorm:"index" json:"additionDate"`
	AverageColor string     `gorm:"size:16" json:"averageColor"`
	LightColor   string     `gorm:"size:16" json:"lightColor"`
	DarkColor    string     `gorm:"size:16" json:"darkColor"`

	// BaseArtistID is a weak single-hop reference to the canonical identity
	// this artist is a variant of. Never a self reference, never chained.
	BaseArtistID *int64 `gorm:"index" json:"baseArtistId,omitempty"`

	Names      []ArtistName      `gorm:"foreignKey:ArtistID" json:"names"`
	Thumbnails []ArtistThumbnail `gorm:"foreignKey:ArtistID" json:"thumbnails"`
}

func (Artist) TableName() string {
	return "artists"
}

// Name returns the localized name for the given type, falling back to the
// Original name.
func (a *Artist) Name(nameType NameType) string {
	var original string
	for _, n := range a.Names {
		if n.NameType == nameType {
			return n.Name
		}
		if n.NameType == NameTypeOriginal {
			original = n.Name
		}
	}
	return original
}

// ArtistName 艺术家的本地化名称
type ArtistName struct {
	ArtistID int64    `gorm:"primaryKey;autoIncrement:false" json:"-"`
	NameType NameType `gorm:"primaryKey" json:"nameType"`
	Name     string   `gorm:"size:512;not null;index:idx_artist_name,length:191" json:"name"`
}

func (ArtistName) TableName() string {
	return "artists_names"
}

// ArtistThumbnail 按分辨率类型保存的头像
type ArtistThumbnail struct {
	ArtistID      int64         `gorm:"primaryKey;autoIncrement:false" json:"-"`
	ThumbnailType ThumbnailType `gorm:"primaryKey" json:"thumbnailType"`
	URL           string        `gorm:"size:767" json:"url"`
}

func (ArtistThumbnail) TableName() string {
	return "artists_thumbnails"
}
