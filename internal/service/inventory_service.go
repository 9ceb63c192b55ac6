package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"smart-inventory-api/internal/apperr"
	"smart-inventory-api/internal/model"
	"smart-inventory-api/internal/repository"
	"smart-inventory-api/internal/ws"
	"smart-inventory-api/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// skuPrefix and skuBase seed auto-generated SKUs: the first product gets
// WIR-2001, each one after continues from the latest SKU's number.
const (
	skuPrefix = "WIR"
	skuBase   = 2000
)

// SaleRequest records one sale. Discount and Tax are percentages.
type SaleRequest struct {
	CustomerName string    `json:"customerName" validate:"required"`
	StaffName    string    `json:"staffName" validate:"required"`
	ProductID    uuid.UUID `json:"productId" validate:"uuid_required"`
	Quantity     int       `json:"quantity" validate:"required,gt=0"`
	Discount     float64   `json:"discount" validate:"gte=0"`
	Tax          float64   `json:"tax" validate:"gte=0"`
}

type InventoryService interface {
	CreateProduct(req *model.Product) (*model.Product, error)
	UpdateProduct(id uuid.UUID, req *model.Product) (*model.Product, error)
	// AdjustStock applies a signed stock change (manual adjustment).
	AdjustStock(id uuid.UUID, change int) (*model.Product, error)
	// RecordSale deducts stock atomically and stores the transaction.
	RecordSale(req *SaleRequest) (*model.Transaction, error)
	GetAllProducts() ([]model.Product, error)
	GetLowStockProducts() ([]model.Product, error)
	GetAllTransactions() ([]model.Transaction, error)
	UpdateTransactionStatus(id uuid.UUID, status model.TransactionStatus) (*model.Transaction, error)
}

type inventoryService struct {
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	settings        SettingsService
	alerts          AlertService
	db              *gorm.DB
	wsHub           *ws.Hub
}

func NewInventoryService(pRepo repository.ProductRepository, tRepo repository.TransactionRepository, settings SettingsService, alerts AlertService, db *gorm.DB, hub *ws.Hub) InventoryService {
	return &inventoryService{
		productRepo:     pRepo,
		transactionRepo: tRepo,
		settings:        settings,
		alerts:          alerts,
		db:              db,
		wsHub:           hub,
	}
}

func (s *inventoryService) CreateProduct(req *model.Product) (*model.Product, error) {
	if err := validator.Validate(req); err != nil {
		return nil, apperr.New(apperr.Validation, err.Error())
	}

	// Product names are unique ignoring case.
	if existing, _ := s.productRepo.FindByName(req.Name); existing != nil {
		return nil, apperr.New(apperr.Conflict, "A product with this name already exists.")
	}

	if req.SKU == "" {
		sku, err := s.nextSKU()
		if err != nil {
			return nil, apperr.Wrap(apperr.Storage, "Failed to generate SKU", err)
		}
		req.SKU = sku
	} else if existing, _ := s.productRepo.FindBySKU(req.SKU); existing != nil {
		return nil, apperr.New(apperr.Conflict, "A product with this SKU already exists.")
	}

	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.Create(tx, req); err != nil {
			return err
		}
		// Setting the initial level counts as a stock mutation.
		return s.productRepo.AppendHistory(tx, req.ID, req.Stock, req.Stock, now)
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to create product", err)
	}

	s.afterStockChange(req, 0, req.Stock, now, "product_created")
	return req, nil
}

func (s *inventoryService) UpdateProduct(id uuid.UUID, req *model.Product) (*model.Product, error) {
	if err := validator.Validate(req); err != nil {
		return nil, apperr.New(apperr.Validation, err.Error())
	}

	var updated *model.Product
	var oldStock int
	now := time.Now()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Product
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			return err
		}
		oldStock = existing.Stock

		existing.Name = req.Name
		existing.Category = req.Category
		existing.Price = req.Price
		existing.Supplier = req.Supplier
		if req.SKU != "" {
			existing.SKU = req.SKU
		}

		// Write the stock change as a guarded increment rather than
		// trusting the in-memory value.
		delta := req.Stock - oldStock
		existing.Stock = oldStock
		if err := s.productRepo.Update(tx, &existing); err != nil {
			return err
		}
		if delta != 0 {
			ok, err := s.productRepo.AdjustStock(tx, id, delta)
			if err != nil {
				return err
			}
			if !ok {
				return apperr.New(apperr.Validation, "Stock cannot go below zero")
			}
			existing.Stock = oldStock + delta
			if err := s.productRepo.AppendHistory(tx, id, delta, existing.Stock, now); err != nil {
				return err
			}
		}

		updated = &existing
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "Product not found")
	}
	if err != nil {
		if apperr.KindOf(err) != apperr.Storage {
			return nil, err
		}
		return nil, apperr.Wrap(apperr.Storage, "Failed to update product", err)
	}

	if updated.Stock != oldStock {
		s.afterStockChange(updated, oldStock, updated.Stock, now, "product_updated")
	}
	return updated, nil
}

func (s *inventoryService) AdjustStock(id uuid.UUID, change int) (*model.Product, error) {
	var updated *model.Product
	var oldStock int
	now := time.Now()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Product
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			return err
		}
		oldStock = existing.Stock

		ok, err := s.productRepo.AdjustStock(tx, id, change)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Newf(apperr.Validation, "Only %d item(s) available", existing.Stock)
		}
		existing.Stock = oldStock + change
		if err := s.productRepo.AppendHistory(tx, id, change, existing.Stock, now); err != nil {
			return err
		}

		updated = &existing
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "Product not found")
	}
	if err != nil {
		if apperr.KindOf(err) != apperr.Storage {
			return nil, err
		}
		return nil, apperr.Wrap(apperr.Storage, "Failed to adjust stock", err)
	}

	s.afterStockChange(updated, oldStock, updated.Stock, now, "stock_adjusted")
	return updated, nil
}

func (s *inventoryService) RecordSale(req *SaleRequest) (*model.Transaction, error) {
	if err := validator.Validate(req); err != nil {
		return nil, apperr.New(apperr.Validation, err.Error())
	}

	var transaction *model.Transaction
	var product model.Product
	var oldStock int
	now := time.Now()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, "id = ?", req.ProductID).Error; err != nil {
			return err
		}
		oldStock = product.Stock

		// Atomic decrement guards against concurrent sales overselling.
		ok, err := s.productRepo.AdjustStock(tx, product.ID, -req.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Newf(apperr.Validation, "Only %d item(s) available", product.Stock)
		}
		product.Stock = oldStock - req.Quantity
		if err := s.productRepo.AppendHistory(tx, product.ID, -req.Quantity, product.Stock, now); err != nil {
			return err
		}

		subtotal := product.Price * float64(req.Quantity)
		discountAmount := subtotal * (req.Discount / 100)
		taxAmount := (subtotal - discountAmount) * (req.Tax / 100)
		total := subtotal - discountAmount + taxAmount

		transaction = &model.Transaction{
			CustomerName: req.CustomerName,
			StaffName:    req.StaffName,
			ProductID:    product.ID,
			Quantity:     req.Quantity,
			UnitPrice:    product.Price,
			Discount:     req.Discount,
			Tax:          req.Tax,
			Total:        total,
			Date:         now,
			Status:       model.TxPending,
		}
		return s.transactionRepo.Create(tx, transaction)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "Product not found")
	}
	if err != nil {
		if apperr.KindOf(err) != apperr.Storage {
			return nil, err
		}
		return nil, apperr.Wrap(apperr.Storage, "Failed to record transaction", err)
	}

	s.afterStockChange(&product, oldStock, product.Stock, now, "transaction_created")
	transaction.Product = product
	return transaction, nil
}

func (s *inventoryService) GetAllProducts() ([]model.Product, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to fetch products", err)
	}
	return products, nil
}

func (s *inventoryService) GetLowStockProducts() ([]model.Product, error) {
	thresholds, err := s.settings.Thresholds()
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to load thresholds", err)
	}
	products, err := s.productRepo.FindLowStock(thresholds.Low)
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to fetch low stock products", err)
	}
	return products, nil
}

func (s *inventoryService) GetAllTransactions() ([]model.Transaction, error) {
	transactions, err := s.transactionRepo.FindAll()
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to fetch transactions", err)
	}
	return transactions, nil
}

func (s *inventoryService) UpdateTransactionStatus(id uuid.UUID, status model.TransactionStatus) (*model.Transaction, error) {
	switch status {
	case model.TxPending, model.TxCompleted, model.TxRequiresApproval:
	default:
		return nil, apperr.New(apperr.Validation, "Invalid transaction status")
	}
	transaction, err := s.transactionRepo.UpdateStatus(id, status)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "Transaction not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to update transaction", err)
	}
	return transaction, nil
}

// afterStockChange runs the ledger's post-commit duties: notify the alert
// engine exactly once and broadcast the movement. Never called for failed
// mutations.
func (s *inventoryService) afterStockChange(product *model.Product, previous, current int, at time.Time, action string) {
	if s.alerts != nil {
		s.alerts.OnStockChanged(product.Name, previous, current, at)
	}
	go s.wsHub.BroadcastJSON(map[string]interface{}{
		"type":   "stock_update",
		"action": action,
		"product": map[string]interface{}{
			"id":        product.ID,
			"sku":       product.SKU,
			"name":      product.Name,
			"old_stock": previous,
			"new_stock": current,
			"price":     product.Price,
		},
	})
}

// nextSKU continues the numeric suffix of the most recent SKU.
func (s *inventoryService) nextSKU() (string, error) {
	last, err := s.productRepo.FindLatestSKU()
	if err != nil {
		return "", err
	}
	next := skuBase
	if strings.HasPrefix(last, skuPrefix+"-") {
		if n, perr := strconv.Atoi(strings.TrimPrefix(last, skuPrefix+"-")); perr == nil {
			next = n
		}
	}
	return fmt.Sprintf("%s-%d", skuPrefix, next+1), nil
}
