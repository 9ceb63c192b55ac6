package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"smart-inventory-api/internal/model"
	"smart-inventory-api/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a named in-memory sqlite database, unique per test so
// parallel tests never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Product{}, &model.StockHistoryEntry{}, &model.StoredAlert{},
		&model.Transaction{}, &model.User{}, &model.SystemSettings{},
		&model.SystemLog{},
	))
	require.NoError(t, db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_alerts_open_name ON stored_alerts (name) WHERE status <> 'Resolved'`,
	).Error)

	return db
}

// fixture bundles the wired services most tests need.
type fixture struct {
	db       *gorm.DB
	products repository.ProductRepository
	alerts   repository.AlertRepository
	txs      repository.TransactionRepository
	users    repository.UserRepository
	logs     repository.SystemLogRepository

	settingsSvc SettingsService
	alertSvc    AlertService
	invSvc      InventoryService

	notifier *stubNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newTestDB(t)
	f := &fixture{
		db:       db,
		products: repository.NewProductRepo(db),
		alerts:   repository.NewAlertRepo(db),
		txs:      repository.NewTransactionRepo(db),
		users:    repository.NewUserRepo(db),
		logs:     repository.NewSystemLogRepo(db),
		notifier: &stubNotifier{},
	}
	f.settingsSvc = NewSettingsService(repository.NewSettingsRepo(db), f.users)
	f.alertSvc = NewAlertService(f.alerts, f.products, f.settingsSvc, f.notifier, nil)
	f.invSvc = NewInventoryService(f.products, f.txs, f.settingsSvc, f.alertSvc, db, nil)
	return f
}

func (f *fixture) createProduct(t *testing.T, name string, price float64, stock int) *model.Product {
	t.Helper()
	product, err := f.invSvc.CreateProduct(&model.Product{
		Name:     name,
		Category: "Wiring",
		Price:    price,
		Stock:    stock,
		Supplier: "Acme Supply",
	})
	require.NoError(t, err)
	return product
}

// stubNotifier records alert emails without talking to SMTP.
type stubNotifier struct {
	mu    sync.Mutex
	calls []stubAlertEmail
}

type stubAlertEmail struct {
	Recipients []string
	Product    string
	Severity   string
	Stock      int
}

func (s *stubNotifier) SendStockAlert(recipients []string, productName string, severity string, stock int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, stubAlertEmail{
		Recipients: recipients,
		Product:    productName,
		Severity:   severity,
		Stock:      stock,
	})
	return nil
}

func (s *stubNotifier) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// stubCodeSender records verification codes without talking to SMTP.
type stubCodeSender struct {
	mu    sync.Mutex
	codes []string
}

func (s *stubCodeSender) SendVerificationCode(to, fullName, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes = append(s.codes, code)
	return nil
}
