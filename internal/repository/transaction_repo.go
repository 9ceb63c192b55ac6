package repository

import (
	"time"

	"smart-inventory-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	Create(tx *gorm.DB, transaction *model.Transaction) error
	FindAll() ([]model.Transaction, error)
	FindByID(id uuid.UUID) (*model.Transaction, error)
	UpdateStatus(id uuid.UUID, status model.TransactionStatus) (*model.Transaction, error)
	// TodayTotal sums completed transactions dated today.
	TodayTotal(now time.Time) (float64, error)
	FindCompleted() ([]model.Transaction, error)
	CountByStatus(status model.TransactionStatus) (int64, error)
	GetDashboardStats(lowThreshold int) (*DashboardStats, error)
}

// DashboardStats for the overview cards
type DashboardStats struct {
	TotalProducts    int64   `json:"total_products"`
	LowStockCount    int64   `json:"low_stock_count"`
	TotalValuation   float64 `json:"total_valuation"`
	PendingApprovals int64   `json:"pending_approvals"`
	TodaySales       float64 `json:"today_sales"`
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) Create(tx *gorm.DB, transaction *model.Transaction) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(transaction).Error
}

func (r *transactionRepo) FindAll() ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("Product").Order("date DESC").Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.Preload("Product").First(&transaction, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) UpdateStatus(id uuid.UUID, status model.TransactionStatus) (*model.Transaction, error) {
	res := r.db.Model(&model.Transaction{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(id)
}

func (r *transactionRepo) TodayTotal(now time.Time) (float64, error) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)

	var total float64
	err := r.db.Model(&model.Transaction{}).
		Where("status = ? AND date >= ? AND date < ?", model.TxCompleted, start, end).
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	return total, err
}

func (r *transactionRepo) FindCompleted() ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("Product").
		Where("status = ?", model.TxCompleted).
		Order("date ASC").
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) CountByStatus(status model.TransactionStatus) (int64, error) {
	var count int64
	err := r.db.Model(&model.Transaction{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *transactionRepo) GetDashboardStats(lowThreshold int) (*DashboardStats, error) {
	var stats DashboardStats

	if err := r.db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Product{}).Where("stock <= ?", lowThreshold).Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Product{}).Select("COALESCE(SUM(stock * price), 0)").Scan(&stats.TotalValuation).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Transaction{}).Where("status = ?", model.TxRequiresApproval).Count(&stats.PendingApprovals).Error; err != nil {
		return nil, err
	}

	today, err := r.TodayTotal(time.Now())
	if err != nil {
		return nil, err
	}
	stats.TodaySales = today

	return &stats, nil
}
