// Package settingsstore exposes typed accessors over the key/value
// settings table. Priority: database > environment > default.
package settingsstore

import (
	"os"
	"strconv"

	"github.com/mrlokans/brickstock/internal/database/settings"
	"github.com/mrlokans/brickstock/internal/entities"
)

const (
	envAPIToken          = "REBRICKABLE_TOKEN"
	envDefaultCategoryID = "BRICKSTOCK_CATEGORY_ID"
)

type SettingsStore struct {
	repo *settings.Repository
}

func New(repo *settings.Repository) *SettingsStore {
	return &SettingsStore{repo: repo}
}

// GetAPIToken returns the Rebrickable API token, or "" when unset.
func (s *SettingsStore) GetAPIToken() string {
	setting, err := s.repo.GetSetting(entities.SettingKeyAPIToken)
	if err == nil && setting.Value != "" {
		return setting.Value
	}
	return os.Getenv(envAPIToken)
}

func (s *SettingsStore) SetAPIToken(token string) error {
	return s.repo.SetSetting(entities.SettingKeyAPIToken, token)
}

// GetDefaultCategoryID returns the configured root category id for
// imports, or nil when unset or unparsable. Whether the id still
// resolves to an existing category is the caller's concern.
func (s *SettingsStore) GetDefaultCategoryID() *uint {
	raw := ""
	setting, err := s.repo.GetSetting(entities.SettingKeyDefaultCategoryID)
	if err == nil && setting.Value != "" {
		raw = setting.Value
	} else {
		raw = os.Getenv(envDefaultCategoryID)
	}
	if raw == "" {
		return nil
	}

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}
	v := uint(id)
	return &v
}

func (s *SettingsStore) SetDefaultCategoryID(id uint) error {
	return s.repo.SetSetting(entities.SettingKeyDefaultCategoryID, strconv.FormatUint(uint64(id), 10))
}

func (s *SettingsStore) ClearDefaultCategoryID() error {
	return s.repo.DeleteSetting(entities.SettingKeyDefaultCategoryID)
}

// SetSyncConfig holds the periodic re-sync configuration.
type SetSyncConfig struct {
	Enabled  bool
	Schedule string
}

const defaultSetSyncSchedule = "0 4 * * 0" // weekly, Sunday 04:00

// GetSetSyncConfig returns the scheduled re-sync configuration.
func (s *SettingsStore) GetSetSyncConfig() SetSyncConfig {
	cfg := SetSyncConfig{Schedule: defaultSetSyncSchedule}

	if setting, err := s.repo.GetSetting(entities.SettingKeySetSyncEnabled); err == nil {
		cfg.Enabled = setting.Value == "true"
	}
	if setting, err := s.repo.GetSetting(entities.SettingKeySetSyncSchedule); err == nil && setting.Value != "" {
		cfg.Schedule = setting.Value
	}

	return cfg
}

func (s *SettingsStore) SetSetSyncEnabled(enabled bool) error {
	return s.repo.SetSetting(entities.SettingKeySetSyncEnabled, strconv.FormatBool(enabled))
}

func (s *SettingsStore) SetSetSyncSchedule(schedule string) error {
	return s.repo.SetSetting(entities.SettingKeySetSyncSchedule, schedule)
}

// RecordSetSyncResult stores the outcome of the last scheduled re-sync.
func (s *SettingsStore) RecordSetSyncResult(at, status, message string) {
	_ = s.repo.SetSetting(entities.SettingKeySetSyncLastAt, at)
	_ = s.repo.SetSetting(entities.SettingKeySetSyncLastStatus, status)
	_ = s.repo.SetSetting(entities.SettingKeySetSyncLastMessage, message)
}
