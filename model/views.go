package model

import "time"

// TimestampLayout is the calendar-day granularity used for view snapshots.
const TimestampLayout = "2006-01-02"

// ViewsTotal 某歌曲在某一天的累计总播放量快照
type ViewsTotal struct {
	SongID    int64  `gorm:"primaryKey;autoIncrement:false" json:"songId"`
	Timestamp string `gorm:"primaryKey;size:10" json:"timestamp"`
	Total     int64  `gorm:"not null" json:"total"`
}

func (ViewsTotal) TableName() string {
	return "views_totals"
}

// ViewsBreakdown 快照总量按平台和视频ID的拆分
type ViewsBreakdown struct {
	SongID    int64    `gorm:"primaryKey;autoIncrement:false" json:"songId"`
	Timestamp string   `gorm:"primaryKey;size:10" json:"timestamp"`
	ViewType  ViewType `gorm:"primaryKey" json:"viewType"`
	VideoID   string   `gorm:"primaryKey;size:64" json:"videoId"`
	Views     int64    `gorm:"not null" json:"views"`
}

func (ViewsBreakdown) TableName() string {
	return "views_breakdowns"
}

// ViewsTimestamp 快照日期台账，是"我们有哪些天的数据"的权威列表
type ViewsTimestamp struct {
	Timestamp string    `gorm:"primaryKey;size:10" json:"timestamp"`
	UpdatedAt time.Time `gorm:"not null" json:"updated"`
}

func (ViewsTimestamp) TableName() string {
	return "views_metadata"
}
