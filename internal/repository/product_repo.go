package repository

import (
	"time"

	"smart-inventory-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(tx *gorm.DB, product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	FindByName(name string) (*model.Product, error)
	FindLatestSKU() (string, error)
	FindLowStock(threshold int) ([]model.Product, error)
	Update(tx *gorm.DB, product *model.Product) error
	// AdjustStock applies a guarded atomic increment inside tx. It reports
	// false when the product is missing or the change would go below zero.
	AdjustStock(tx *gorm.DB, id uuid.UUID, change int) (bool, error)
	AppendHistory(tx *gorm.DB, id uuid.UUID, change, resulting int, at time.Time) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(tx *gorm.DB, product *model.Product) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("StockHistory").Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("StockHistory").First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "sku = ?", sku).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByName matches case-insensitively; product names are unique that way.
func (r *productRepo) FindByName(name string) (*model.Product, error) {
	var product model.Product
	err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindLatestSKU returns the SKU of the most recently created product, or ""
// when the catalog is empty.
func (r *productRepo) FindLatestSKU() (string, error) {
	var product model.Product
	err := r.db.Order("created_at DESC").First(&product).Error
	if err == gorm.ErrRecordNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return product.SKU, nil
}

func (r *productRepo) FindLowStock(threshold int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("stock <= ?", threshold).Order("stock ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) Update(tx *gorm.DB, product *model.Product) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Save(product).Error
}

func (r *productRepo) AdjustStock(tx *gorm.DB, id uuid.UUID, change int) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	// Guarded increment at the storage layer so concurrent sales cannot
	// lose updates or drive stock negative.
	res := tx.Model(&model.Product{}).
		Where("id = ? AND stock + ? >= 0", id, change).
		Update("stock", gorm.Expr("stock + ?", change))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *productRepo) AppendHistory(tx *gorm.DB, id uuid.UUID, change, resulting int, at time.Time) error {
	if tx == nil {
		tx = r.db
	}
	entry := model.StockHistoryEntry{
		ProductID: id,
		Date:      at,
		Change:    change,
		Stock:     resulting,
	}
	return tx.Create(&entry).Error
}
