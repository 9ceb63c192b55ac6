package model

import (
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	SeverityWarning  Severity = "Warning"
	SeverityCritical Severity = "Critical"
)

// Alert type labels paired with each severity.
const (
	AlertTypeLowStock = "Low Stock"
	AlertTypeNoStock  = "No Stock"
)

// Alert lifecycle / aging labels. Anything other than Resolved counts as an
// open alert for dedup purposes.
const (
	AlertStatusNew      = "New"
	AlertStatusOlder    = "Older"
	AlertStatusResolved = "Resolved"
)

// StoredAlert is the archival record of a stock alert. Immutable once
// created except for the status label and the per-role read flags.
type StoredAlert struct {
	BaseModel
	AlertID  string   `gorm:"type:varchar(20);uniqueIndex;not null" json:"alertId"` // e.g. ALT-6
	Type     string   `gorm:"type:varchar(50);not null" json:"type"`
	Name     string   `gorm:"type:varchar(255);not null;index" json:"name"` // product name snapshot
	Severity Severity `gorm:"type:varchar(20);not null" json:"severity"`
	Stock    int      `json:"stock"` // stock snapshot at creation
	Status   string   `gorm:"type:varchar(30);default:'New'" json:"status"`

	ReadByAdmin   bool `gorm:"default:false" json:"-"`
	ReadByManager bool `gorm:"default:false" json:"-"`
	ReadByStaff   bool `gorm:"default:false" json:"-"`
}

func (StoredAlert) TableName() string {
	return "stored_alerts"
}

// ReadBy reports one role's read flag.
func (a *StoredAlert) ReadBy(role Role) bool {
	switch role {
	case RoleAdmin:
		return a.ReadByAdmin
	case RoleManager:
		return a.ReadByManager
	case RoleStaff:
		return a.ReadByStaff
	}
	return false
}

// StoredAlertResponse is the API shape, with the read flags nested the way
// clients consume them.
type StoredAlertResponse struct {
	ID        uuid.UUID       `json:"id"`
	AlertID   string          `json:"alertId"`
	Type      string          `json:"type"`
	Name      string          `json:"name"`
	Severity  Severity        `json:"severity"`
	Stock     int             `json:"stock"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	ReadBy    map[string]bool `json:"readBy"`
}

func (a *StoredAlert) ToResponse() StoredAlertResponse {
	return StoredAlertResponse{
		ID:        a.ID,
		AlertID:   a.AlertID,
		Type:      a.Type,
		Name:      a.Name,
		Severity:  a.Severity,
		Stock:     a.Stock,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
		ReadBy: map[string]bool{
			"admin":   a.ReadByAdmin,
			"manager": a.ReadByManager,
			"staff":   a.ReadByStaff,
		},
	}
}

// ToAlertResponses converts a slice preserving order.
func ToAlertResponses(alerts []StoredAlert) []StoredAlertResponse {
	out := make([]StoredAlertResponse, len(alerts))
	for i := range alerts {
		out[i] = alerts[i].ToResponse()
	}
	return out
}
