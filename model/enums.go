package model

import (
	"strconv"
	"strings"
)

// Closed enum types stored as integer discriminants. The integer values are
// part of the on-disk schema and must not be reordered.

// SongType 歌曲类型
type SongType int

const (
	SongTypeOriginal SongType = iota
	SongTypeRemix
	SongTypeOther
)

var songTypeNames = map[SongType]string{
	SongTypeOriginal: "Original",
	SongTypeRemix:    "Remix",
	SongTypeOther:    "Other",
}

func (t SongType) String() string {
	if name, ok := songTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// ParseSongType resolves a query value (name or integer id) to a SongType.
// Unknown values return nil, which callers treat as "no filter".
func ParseSongType(value string) *SongType {
	return parseEnum(value, songTypeNames)
}

// ArtistType 艺术家类型
type ArtistType int

const (
	ArtistTypeVocaloid ArtistType = iota
	ArtistTypeCeVIO
	ArtistTypeSynthesizerV
	ArtistTypeIllustrator
	ArtistTypeCoverArtist
	ArtistTypeAnimator
	ArtistTypeProducer
	ArtistTypeOtherVocalist
	ArtistTypeOtherVoiceSynthesizer
	ArtistTypeOtherIndividual
	ArtistTypeOtherGroup
	ArtistTypeUTAU
)

var artistTypeNames = map[ArtistType]string{
	ArtistTypeVocaloid:              "Vocaloid",
	ArtistTypeCeVIO:                 "CeVIO",
	ArtistTypeSynthesizerV:          "SynthesizerV",
	ArtistTypeIllustrator:           "Illustrator",
	ArtistTypeCoverArtist:           "CoverArtist",
	ArtistTypeAnimator:              "Animator",
	ArtistTypeProducer:              "Producer",
	ArtistTypeOtherVocalist:         "OtherVocalist",
	ArtistTypeOtherVoiceSynthesizer: "OtherVoiceSynthesizer",
	ArtistTypeOtherIndividual:       "OtherIndividual",
	ArtistTypeOtherGroup:            "OtherGroup",
	ArtistTypeUTAU:                  "UTAU",
}

func (t ArtistType) String() string {
	if name, ok := artistTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

func ParseArtistType(value string) *ArtistType {
	return parseEnum(value, artistTypeNames)
}

// ArtistCategory 艺术家在某首歌中的参与类别
type ArtistCategory int

const (
	ArtistCategoryVocalist ArtistCategory = iota
	ArtistCategoryProducer
)

var artistCategoryNames = map[ArtistCategory]string{
	ArtistCategoryVocalist: "Vocalist",
	ArtistCategoryProducer: "Producer",
}

func (c ArtistCategory) String() string {
	if name, ok := artistCategoryNames[c]; ok {
		return name
	}
	return "Unknown"
}

func ParseArtistCategory(value string) *ArtistCategory {
	return parseEnum(value, artistCategoryNames)
}

// NameType 本地化名称类型，每个实体每种类型至多一个
type NameType int

const (
	NameTypeOriginal NameType = iota
	NameTypeJapanese
	NameTypeEnglish
	NameTypeRomaji
)

var nameTypeNames = map[NameType]string{
	NameTypeOriginal: "Original",
	NameTypeJapanese: "Japanese",
	NameTypeEnglish:  "English",
	NameTypeRomaji:   "Romaji",
}

func (t NameType) String() string {
	if name, ok := nameTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

func ParseNameType(value string) *NameType {
	return parseEnum(value, nameTypeNames)
}

// ViewType 视频平台
type ViewType int

const (
	ViewTypeYouTube ViewType = iota
	ViewTypeNiconico
	ViewTypeBilibili
)

var viewTypeNames = map[ViewType]string{
	ViewTypeYouTube:  "YouTube",
	ViewTypeNiconico: "Niconico",
	ViewTypeBilibili: "bilibili",
}

func (t ViewType) String() string {
	if name, ok := viewTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// ParseViewType resolves a platform filter. nil means "combined".
func ParseViewType(value string) *ViewType {
	return parseEnum(value, viewTypeNames)
}

// ThumbnailType 艺术家头像分辨率
type ThumbnailType int

const (
	ThumbnailTypeOriginal ThumbnailType = iota
	ThumbnailTypeMedium
	ThumbnailTypeSmall
	ThumbnailTypeTiny
)

var thumbnailTypeNames = map[ThumbnailType]string{
	ThumbnailTypeOriginal: "Original",
	ThumbnailTypeMedium:   "Medium",
	ThumbnailTypeSmall:    "Small",
	ThumbnailTypeTiny:     "Tiny",
}

func (t ThumbnailType) String() string {
	if name, ok := thumbnailTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

func ParseThumbnailType(value string) *ThumbnailType {
	return parseEnum(value, thumbnailTypeNames)
}

// PlacementChange describes how an entity's rank moved between two runs.
// Not persisted, so it is serialized by name rather than discriminant.
type PlacementChange string

const (
	PlacementUp   PlacementChange = "UP"
	PlacementSame PlacementChange = "SAME"
	PlacementDown PlacementChange = "DOWN"
)

// parseEnum accepts either the display name (case-insensitive) or the integer
// discriminant. Anything else yields nil.
func parseEnum[T ~int](value string, names map[T]string) *T {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for id, name := range names {
		if strings.EqualFold(name, value) {
			v := id
			return &v
		}
	}
	if n, err := strconv.Atoi(value); err == nil {
		v := T(n)
		if _, ok := names[v]; ok {
			return &v
		}
	}
	return nil
}
