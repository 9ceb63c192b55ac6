package repository

import (
	"smart-inventory-api/internal/model"

	"gorm.io/gorm"
)

type SettingsRepository interface {
	// Get returns the singleton row, creating it with defaults on first read.
	Get() (*model.SystemSettings, error)
	Save(settings *model.SystemSettings) error
}

type settingsRepo struct {
	db *gorm.DB
}

func NewSettingsRepo(db *gorm.DB) SettingsRepository {
	return &settingsRepo{db}
}

func (r *settingsRepo) Get() (*model.SystemSettings, error) {
	var settings model.SystemSettings
	err := r.db.First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		settings = model.DefaultSystemSettings()
		if err := r.db.Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepo) Save(settings *model.SystemSettings) error {
	return r.db.Save(settings).Error
}
