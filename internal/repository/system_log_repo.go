package repository

import (
	"time"

	"smart-inventory-api/internal/model"

	"gorm.io/gorm"
)

type SystemLogRepository interface {
	Record(email, action, status string) error
	FindAll() ([]model.SystemLog, error)
}

type systemLogRepo struct {
	db *gorm.DB
}

func NewSystemLogRepo(db *gorm.DB) SystemLogRepository {
	return &systemLogRepo{db}
}

func (r *systemLogRepo) Record(email, action, status string) error {
	entry := model.SystemLog{
		Email:  email,
		Action: action,
		Date:   time.Now(),
		Status: status,
	}
	return r.db.Create(&entry).Error
}

func (r *systemLogRepo) FindAll() ([]model.SystemLog, error) {
	var logs []model.SystemLog
	err := r.db.Order("date DESC").Find(&logs).Error
	return logs, err
}
