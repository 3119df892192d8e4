package entities

import (
	"time"
)

type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys
const (
	// Rebrickable API settings
	SettingKeyAPIToken          = "rebrickable_api_token"
	SettingKeyDefaultCategoryID = "default_category_id"

	// Set re-sync settings
	SettingKeySetSyncEnabled     = "set_sync_enabled"
	SettingKeySetSyncSchedule    = "set_sync_schedule"
	SettingKeySetSyncLastAt      = "set_sync_last_at"
	SettingKeySetSyncLastStatus  = "set_sync_last_status"
	SettingKeySetSyncLastMessage = "set_sync_last_message"
)
