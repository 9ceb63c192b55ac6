package service

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"smart-inventory-api/internal/apperr"
	"smart-inventory-api/internal/model"
	"smart-inventory-api/internal/repository"
	"smart-inventory-api/internal/ws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notifier delivers alert emails. Satisfied by *mailer.Mailer.
type Notifier interface {
	SendStockAlert(recipients []string, productName string, severity string, stock int) error
}

// RecordAlertRequest carries one observed stock condition. Type and
// Severity default from the stock level when the caller omits them.
type RecordAlertRequest struct {
	Name       string         `json:"name"`
	Stock      int            `json:"stock"`
	Type       string         `json:"type"`
	Severity   model.Severity `json:"severity"`
	OccurredAt time.Time      `json:"createdAt"`
}

type MarkAllReadResult struct {
	Matched  int64
	Modified int64
}

// ComputedAlert is the non-persisted alert view derived from live stock.
type ComputedAlert struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Type      string         `json:"type"`
	Severity  model.Severity `json:"severity"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
	Stock     int            `json:"stock"`
}

type AlertService interface {
	// Classify is pure: derives a severity from a stock level and the
	// configured thresholds. ok is false above the low threshold.
	Classify(stock int, t model.Thresholds) (severity model.Severity, ok bool)
	// RecordAlert creates a stored alert or returns the open duplicate.
	// created reports which happened.
	RecordAlert(req *RecordAlertRequest) (alert *model.StoredAlert, created bool, err error)
	// OnStockChanged is the inventory ledger's callback, invoked exactly
	// once per committed stock mutation.
	OnStockChanged(productName string, previousStock, newStock int, at time.Time)
	ListAll() ([]model.StoredAlert, error)
	ListUnread(roleName string) ([]model.StoredAlert, error)
	MarkRead(id uuid.UUID, roleName string) (*model.StoredAlert, error)
	MarkAllRead(roleName string) (*MarkAllReadResult, error)
	Resolve(id uuid.UUID) (*model.StoredAlert, error)
	ComputedAlerts() ([]ComputedAlert, error)
}

type alertService struct {
	alertRepo   repository.AlertRepository
	productRepo repository.ProductRepository
	settings    SettingsService
	notifier    Notifier
	wsHub       *ws.Hub
}

func NewAlertService(alertRepo repository.AlertRepository, productRepo repository.ProductRepository, settings SettingsService, notifier Notifier, hub *ws.Hub) AlertService {
	return &alertService{
		alertRepo:   alertRepo,
		productRepo: productRepo,
		settings:    settings,
		notifier:    notifier,
		wsHub:       hub,
	}
}

func (s *alertService) Classify(stock int, t model.Thresholds) (model.Severity, bool) {
	switch {
	case stock == 0:
		return model.SeverityCritical, true
	case stock <= t.Low:
		return model.SeverityWarning, true
	default:
		return "", false
	}
}

func (s *alertService) RecordAlert(req *RecordAlertRequest) (*model.StoredAlert, bool, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, false, apperr.New(apperr.Validation, "Product name is required")
	}
	if req.Stock < 0 {
		return nil, false, apperr.New(apperr.Validation, "Stock cannot be negative")
	}

	now := time.Now()
	occurredAt := req.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}

	severity := req.Severity
	if severity == "" {
		if req.Stock == 0 {
			severity = model.SeverityCritical
		} else {
			severity = model.SeverityWarning
		}
	}
	alertType := req.Type
	if alertType == "" {
		if req.Stock == 0 {
			alertType = model.AlertTypeNoStock
		} else {
			alertType = model.AlertTypeLowStock
		}
	}

	// Dedup: one open alert per product name. Creation is idempotent while
	// that alert stays unresolved.
	existing, err := s.alertRepo.FindOpenByName(req.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperr.Wrap(apperr.Storage, "Failed to look up alerts", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		nextID, err := s.nextAlertID()
		if err != nil {
			return nil, false, apperr.Wrap(apperr.Storage, "Failed to allocate alert id", err)
		}

		alert := &model.StoredAlert{
			AlertID:  nextID,
			Type:     alertType,
			Name:     req.Name,
			Severity: severity,
			Stock:    req.Stock,
			Status:   ageStatus(now, occurredAt),
		}
		alert.CreatedAt = occurredAt

		if err := s.alertRepo.Create(alert); err != nil {
			// The partial unique index on (name, unresolved) turns the
			// lookup-then-insert race into a conflict here; the concurrent
			// winner is the alert to return.
			if winner, ferr := s.alertRepo.FindOpenByName(req.Name); ferr == nil && winner != nil {
				return winner, false, nil
			}
			// Otherwise a concurrent create for another product took the
			// display id; allocate the next one and try again.
			lastErr = err
			continue
		}

		// Best-effort side effects, never before the insert and never
		// rolling it back.
		go s.notify(alert)

		return alert, true, nil
	}
	return nil, false, apperr.Wrap(apperr.Storage, "Failed to save alert", lastErr)
}

func (s *alertService) OnStockChanged(productName string, previousStock, newStock int, at time.Time) {
	thresholds, err := s.settings.Thresholds()
	if err != nil {
		log.Println("alerts: failed to load thresholds:", err)
		return
	}
	severity, ok := s.Classify(newStock, thresholds)
	if !ok {
		return
	}
	alertType := model.AlertTypeLowStock
	if severity == model.SeverityCritical {
		alertType = model.AlertTypeNoStock
	}
	if _, _, err := s.RecordAlert(&RecordAlertRequest{
		Name:       productName,
		Stock:      newStock,
		Type:       alertType,
		Severity:   severity,
		OccurredAt: at,
	}); err != nil {
		log.Printf("alerts: failed to record alert for %q (%d -> %d): %v", productName, previousStock, newStock, err)
	}
}

func (s *alertService) ListAll() ([]model.StoredAlert, error) {
	alerts, err := s.alertRepo.FindAll()
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to fetch alerts", err)
	}
	return alerts, nil
}

func (s *alertService) ListUnread(roleName string) ([]model.StoredAlert, error) {
	role, ok := model.ParseRole(roleName)
	if !ok {
		return nil, apperr.New(apperr.Validation, "Invalid role")
	}
	alerts, err := s.alertRepo.FindUnread(role)
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to fetch unread alerts", err)
	}
	return alerts, nil
}

func (s *alertService) MarkRead(id uuid.UUID, roleName string) (*model.StoredAlert, error) {
	role, ok := model.ParseRole(roleName)
	if !ok {
		return nil, apperr.New(apperr.Validation, "Invalid role")
	}
	alert, err := s.alertRepo.MarkRead(id, role)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "Alert not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to mark alert as read", err)
	}
	return alert, nil
}

func (s *alertService) MarkAllRead(roleName string) (*MarkAllReadResult, error) {
	role, ok := model.ParseRole(roleName)
	if !ok {
		return nil, apperr.New(apperr.Validation, "Invalid role")
	}
	affected, err := s.alertRepo.MarkAllRead(role)
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to mark alerts as read", err)
	}
	// An UPDATE guarded by flag=false matches exactly the rows it modifies.
	return &MarkAllReadResult{Matched: affected, Modified: affected}, nil
}

func (s *alertService) Resolve(id uuid.UUID) (*model.StoredAlert, error) {
	alert, err := s.alertRepo.UpdateStatus(id, model.AlertStatusResolved)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "Alert not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to resolve alert", err)
	}
	return alert, nil
}

func (s *alertService) ComputedAlerts() ([]ComputedAlert, error) {
	thresholds, err := s.settings.Thresholds()
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to load thresholds", err)
	}
	products, err := s.productRepo.FindLowStock(thresholds.Low)
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Error fetching alerts", err)
	}

	alerts := make([]ComputedAlert, len(products))
	for i, p := range products {
		alertType := model.AlertTypeLowStock
		severity := model.SeverityWarning
		if p.Stock == 0 {
			alertType = model.AlertTypeNoStock
			severity = model.SeverityCritical
		}
		alerts[i] = ComputedAlert{
			ID:        p.ID,
			Name:      p.Name,
			Type:      alertType,
			Severity:  severity,
			Status:    model.AlertStatusNew,
			CreatedAt: p.UpdatedAt,
			Stock:     p.Stock,
		}
	}
	return alerts, nil
}

// nextAlertID parses the numeric suffix of the greatest display id and
// increments it, starting at ALT-1.
func (s *alertService) nextAlertID() (string, error) {
	last, err := s.alertRepo.FindLatest()
	if err != nil {
		return "", err
	}
	next := 1
	if last != nil {
		parts := strings.Split(last.AlertID, "-")
		if n, perr := strconv.Atoi(parts[len(parts)-1]); perr == nil {
			next = n + 1
		}
	}
	return fmt.Sprintf("ALT-%d", next), nil
}

// ageStatus labels an alert by whole days between now and when the
// condition occurred.
func ageStatus(now, occurredAt time.Time) string {
	days := int(now.Sub(occurredAt).Hours() / 24)
	switch {
	case days < 1:
		return model.AlertStatusNew
	case days == 1:
		return "1 day ago"
	case days <= 6:
		return fmt.Sprintf("%d days ago", days)
	case days <= 13:
		return "1 week ago"
	default:
		return model.AlertStatusOlder
	}
}

// notify emails the configured recipients and pushes a websocket event.
// Failures are logged, never surfaced to the caller of the mutation.
func (s *alertService) notify(alert *model.StoredAlert) {
	recipients, err := s.settings.ResolveRecipients()
	if err != nil {
		log.Println("alerts: failed to resolve recipients:", err)
	} else if s.notifier != nil && len(recipients) > 0 {
		if err := s.notifier.SendStockAlert(recipients, alert.Name, string(alert.Severity), alert.Stock); err != nil {
			log.Println("alerts: failed to send alert email:", err)
		}
	}

	s.wsHub.BroadcastJSON(map[string]interface{}{
		"type":  "alert_created",
		"alert": alert.ToResponse(),
	})
}
