package model

import "time"

// SystemLog records login attempts.
type SystemLog struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	Email  string    `gorm:"type:varchar(255);not null" json:"email"`
	Action string    `gorm:"type:varchar(50);default:'login'" json:"action"`
	Date   time.Time `gorm:"index" json:"date"`
	Status string    `gorm:"type:varchar(20);not null" json:"status"` // success | failure
}

const (
	LogStatusSuccess = "success"
	LogStatusFailure = "failure"
)
