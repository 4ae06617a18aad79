package models

import (
	"time"

	"github.com/aqarcrm/backend/internal/domain/settings"
)

// SettingModel is the persistence model for configuration entries.
type SettingModel struct {
	Key       string    `gorm:"size:128;primaryKey"`
	Value     string    `gorm:"size:1024;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for SettingModel
func (SettingModel) TableName() string {
	return "settings"
}

// ToDomain converts the persistence model to the domain entity
func (m *SettingModel) ToDomain() *settings.Setting {
	return &settings.Setting{
		Key:       m.Key,
		Value:     m.Value,
		UpdatedAt: m.UpdatedAt,
	}
}
