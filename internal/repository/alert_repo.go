package repository

import (
	"smart-inventory-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AlertRepository interface {
	Create(alert *model.StoredAlert) error
	FindAll() ([]model.StoredAlert, error)
	FindByID(id uuid.UUID) (*model.StoredAlert, error)
	// FindOpenByName returns the unresolved alert for a product name, if any.
	FindOpenByName(name string) (*model.StoredAlert, error)
	// FindLatest returns the alert holding the greatest numeric display id,
	// nil when none exist.
	FindLatest() (*model.StoredAlert, error)
	FindUnread(role model.Role) ([]model.StoredAlert, error)
	MarkRead(id uuid.UUID, role model.Role) (*model.StoredAlert, error)
	// MarkAllRead flips one role's flag on every alert where it is still
	// false and returns the matched/modified count.
	MarkAllRead(role model.Role) (int64, error)
	UpdateStatus(id uuid.UUID, status string) (*model.StoredAlert, error)
}

type alertRepo struct {
	db *gorm.DB
}

func NewAlertRepo(db *gorm.DB) AlertRepository {
	return &alertRepo{db}
}

// readColumn maps a role to its read-flag column. Roles are validated at
// the service boundary before they reach here.
func readColumn(role model.Role) string {
	switch role {
	case model.RoleAdmin:
		return "read_by_admin"
	case model.RoleManager:
		return "read_by_manager"
	default:
		return "read_by_staff"
	}
}

func (r *alertRepo) Create(alert *model.StoredAlert) error {
	return r.db.Create(alert).Error
}

func (r *alertRepo) FindAll() ([]model.StoredAlert, error) {
	var alerts []model.StoredAlert
	err := r.db.Order("created_at DESC").Find(&alerts).Error
	return alerts, err
}

func (r *alertRepo) FindByID(id uuid.UUID) (*model.StoredAlert, error) {
	var alert model.StoredAlert
	if err := r.db.First(&alert, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *alertRepo) FindOpenByName(name string) (*model.StoredAlert, error) {
	var alert model.StoredAlert
	err := r.db.
		Where("name = ? AND status <> ?", name, model.AlertStatusResolved).
		Order("created_at DESC").
		First(&alert).Error
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *alertRepo) FindLatest() (*model.StoredAlert, error) {
	var alert model.StoredAlert
	// Display ids share the ALT- prefix, so length-then-lexical order is
	// numeric order on the suffix. Creation time cannot be used here:
	// clients may backdate createdAt, and the head id must never regress.
	err := r.db.Order("LENGTH(alert_id) DESC, alert_id DESC").First(&alert).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *alertRepo) FindUnread(role model.Role) ([]model.StoredAlert, error) {
	var alerts []model.StoredAlert
	err := r.db.
		Where(readColumn(role)+" = ?", false).
		Order("created_at DESC").
		Find(&alerts).Error
	return alerts, err
}

func (r *alertRepo) MarkRead(id uuid.UUID, role model.Role) (*model.StoredAlert, error) {
	res := r.db.Model(&model.StoredAlert{}).
		Where("id = ?", id).
		Update(readColumn(role), true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(id)
}

func (r *alertRepo) MarkAllRead(role model.Role) (int64, error) {
	col := readColumn(role)
	res := r.db.Model(&model.StoredAlert{}).
		Where(col+" = ?", false).
		Update(col, true)
	return res.RowsAffected, res.Error
}

func (r *alertRepo) UpdateStatus(id uuid.UUID, status string) (*model.StoredAlert, error) {
	res := r.db.Model(&model.StoredAlert{}).
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
