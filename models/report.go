package models

import "time"

// Report period granularities.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// Report is a named statistics configuration plus its collection history.
// The connection and metric sets are immutable snapshots taken at creation
// time; later changes to the user's connections do not alter a report.
type Report struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index;not null" json:"user_id"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	ConnectionIDs []uint    `gorm:"serializer:json;type:text" json:"connection_ids"`
	MetricIDs     []string  `gorm:"serializer:json;type:text" json:"metric_ids"`
	PeriodType    string    `gorm:"size:16;default:'daily'" json:"period_type"`
	LastSync      time.Time `json:"last_sync"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ValidPeriodType reports whether s is one of the supported granularities.
func ValidPeriodType(s string) bool {
	switch s {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return true
	}
	return false
}
