package model

import (
	"time"

	"github.com/google/uuid"
)

// StockStatus is derived from the current stock level, never stored.
type StockStatus string

const (
	StatusNoStock  StockStatus = "No Stock"
	StatusLowStock StockStatus = "Low Stock"
	StatusInStock  StockStatus = "In Stock"
)

type Product struct {
	BaseModel
	SKU      string  `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku"`
	Name     string  `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Category string  `gorm:"type:varchar(100)" json:"category"`
	Price    float64 `gorm:"default:0" json:"price" validate:"gte=0"`
	Stock    int     `gorm:"default:0" json:"stock" validate:"gte=0"`
	Supplier string  `gorm:"type:varchar(255)" json:"supplier"`

	// Owned history: exactly one entry per committed stock mutation
	StockHistory []StockHistoryEntry `json:"stock_history,omitempty"`
}

// Status classifies the current stock against the configured low threshold.
func (p *Product) Status(lowThreshold int) StockStatus {
	switch {
	case p.Stock == 0:
		return StatusNoStock
	case p.Stock <= lowThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// StockHistoryEntry records one stock mutation and the resulting level.
type StockHistoryEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Date      time.Time `json:"date"`
	Change    int       `json:"change"`
	Stock     int       `json:"stock"` // level after the change
}

func (StockHistoryEntry) TableName() string {
	return "stock_history"
}
