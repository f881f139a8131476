package models

import (
	"time"

	"gorm.io/gorm"
)

// Connection represents one linked Facebook page, optionally carrying the
// Instagram business account tied to that page. A connection without an
// Instagram account only ever yields Facebook metrics.
type Connection struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"index;not null" json:"user_id"`
	PageID             string    `gorm:"size:64;not null" json:"page_id"`
	PageName           string    `gorm:"size:255" json:"page_name"`
	AccessToken        string    `gorm:"size:512;not null" json:"-"`
	InstagramAccountID string    `gorm:"size:64" json:"instagram_account_id"`
	InstagramUsername  string    `gorm:"size:255" json:"instagram_username"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ListConnections returns all connections linked by the given user.
func ListConnections(db *gorm.DB, userID uint) ([]Connection, error) {
	var conns []Connection
	if err := db.Where("user_id = ?", userID).Order("id ASC").Find(&conns).Error; err != nil {
		return nil, err
	}
	return conns, nil
}

// ReplaceConnections overwrites the user's connection set: the previous rows
// are deleted and the new set inserted in a single transaction, so repeated
// authorization flows never accumulate duplicates. Concurrent saves for the
// same user resolve as last write wins.
func ReplaceConnections(db *gorm.DB, userID uint, conns []Connection) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&Connection{}).Error; err != nil {
			return err
		}
		if len(conns) == 0 {
			return nil
		}
		for i := range conns {
			conns[i].ID = 0
			conns[i].UserID = userID
		}
		return tx.Create(&conns).Error
	})
}

// RemoveConnections deletes every connection linked by the user.
func RemoveConnections(db *gorm.DB, userID uint) error {
	return db.Where("user_id = ?", userID).Delete(&Connection{}).Error
}
