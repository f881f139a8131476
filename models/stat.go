package models

import "time"

// SocialStat is one normalized (connection, platform, metric, window)
// observation produced by a collection run. Rows are immutable once written;
// the raw provider entry is kept verbatim for audit and debugging.
type SocialStat struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	ConnectionID uint      `gorm:"index;not null" json:"connection_id"`
	Platform     string    `gorm:"size:16;not null" json:"platform"`
	MetricName   string    `gorm:"size:64;not null" json:"metric_name"`
	MetricValue  float64   `json:"metric_value"`
	PeriodStart  time.Time `json:"period_start"`
	PeriodEnd    time.Time `json:"period_end"`
	RawPayload   string    `gorm:"type:text" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
