package model

import (
	"time"

	"github.com/google/uuid"
)

type TransactionStatus string

const (
	TxPending          TransactionStatus = "Pending"
	TxCompleted        TransactionStatus = "Completed"
	TxRequiresApproval TransactionStatus = "Requires Approval"
)

// Transaction is a sale record. UnitPrice is a snapshot of the product
// price at sale time; Discount and Tax are percentages.
type Transaction struct {
	BaseModel
	CustomerName string            `gorm:"type:varchar(255);not null" json:"customer_name" validate:"required"`
	StaffName    string            `gorm:"type:varchar(255);not null" json:"staff_name" validate:"required"`
	ProductID    uuid.UUID         `gorm:"type:uuid;not null" json:"product_id" validate:"uuid_required"`
	Product      Product           `json:"product" validate:"-"`
	Quantity     int               `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	UnitPrice    float64           `gorm:"not null" json:"unit_price"`
	Discount     float64           `gorm:"default:0" json:"discount" validate:"gte=0"`
	Tax          float64           `gorm:"default:0" json:"tax" validate:"gte=0"`
	Total        float64           `gorm:"not null" json:"total"`
	Date         time.Time         `gorm:"index" json:"date"`
	Status       TransactionStatus `gorm:"type:varchar(30);default:'Pending'" json:"status"`
}
