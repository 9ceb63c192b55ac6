package service

import (
	"strings"

	"smart-inventory-api/internal/apperr"
	"smart-inventory-api/internal/model"
	"smart-inventory-api/internal/repository"
)

// UpdateSettingsRequest merges into the singleton; nil fields keep their
// current value.
type UpdateSettingsRequest struct {
	BusinessName           *string  `json:"business_name"`
	Address                *string  `json:"address"`
	Currency               *string  `json:"currency"`
	Language               *string  `json:"language"`
	CriticalStockThreshold *int     `json:"critical_stock_threshold"`
	LowStockThreshold      *int     `json:"low_stock_threshold"`
	WarningStockThreshold  *int     `json:"warning_stock_threshold"`
	Recipients             []string `json:"recipients"`
}

type SettingsService interface {
	Get() (*model.SystemSettings, error)
	Update(req *UpdateSettingsRequest) (*model.SystemSettings, error)
	Thresholds() (model.Thresholds, error)
	// ResolveRecipients expands role-group names (admins/managers/staff)
	// into user email addresses; entries containing '@' pass through.
	ResolveRecipients() ([]string, error)
}

type settingsService struct {
	settingsRepo repository.SettingsRepository
	userRepo     repository.UserRepository
}

func NewSettingsService(settingsRepo repository.SettingsRepository, userRepo repository.UserRepository) SettingsService {
	return &settingsService{settingsRepo: settingsRepo, userRepo: userRepo}
}

func (s *settingsService) Get() (*model.SystemSettings, error) {
	settings, err := s.settingsRepo.Get()
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to load settings", err)
	}
	return settings, nil
}

func (s *settingsService) Update(req *UpdateSettingsRequest) (*model.SystemSettings, error) {
	settings, err := s.settingsRepo.Get()
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to load settings", err)
	}

	if req.BusinessName != nil {
		settings.BusinessName = *req.BusinessName
	}
	if req.Address != nil {
		settings.Address = *req.Address
	}
	if req.Currency != nil {
		settings.Currency = *req.Currency
	}
	if req.Language != nil {
		settings.Language = *req.Language
	}
	if req.CriticalStockThreshold != nil {
		settings.CriticalStockThreshold = *req.CriticalStockThreshold
	}
	if req.LowStockThreshold != nil {
		settings.LowStockThreshold = *req.LowStockThreshold
	}
	if req.WarningStockThreshold != nil {
		settings.WarningStockThreshold = *req.WarningStockThreshold
	}
	if req.Recipients != nil {
		settings.Recipients = req.Recipients
	}

	if settings.CriticalStockThreshold < 0 || settings.LowStockThreshold < 0 || settings.WarningStockThreshold < 0 {
		return nil, apperr.New(apperr.Validation, "Thresholds must be non-negative integers")
	}
	if settings.CriticalStockThreshold > settings.LowStockThreshold ||
		settings.LowStockThreshold > settings.WarningStockThreshold {
		return nil, apperr.New(apperr.Validation, "Thresholds must satisfy critical <= low <= warning")
	}

	if err := s.settingsRepo.Save(settings); err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to save settings", err)
	}
	return settings, nil
}

func (s *settingsService) Thresholds() (model.Thresholds, error) {
	settings, err := s.settingsRepo.Get()
	if err != nil {
		return model.Thresholds{}, err
	}
	return settings.Thresholds(), nil
}

func (s *settingsService) ResolveRecipients() ([]string, error) {
	settings, err := s.settingsRepo.Get()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []string
	add := func(addr string) {
		addr = strings.TrimSpace(addr)
		if addr == "" || seen[addr] {
			return
		}
		seen[addr] = true
		out = append(out, addr)
	}

	for _, entry := range settings.Recipients {
		if strings.Contains(entry, "@") {
			add(entry)
			continue
		}
		role, ok := groupRole(entry)
		if !ok {
			continue
		}
		users, err := s.userRepo.FindByRole(role)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			add(u.Email)
		}
	}
	return out, nil
}

// groupRole maps a recipient group name to a role.
func groupRole(entry string) (model.Role, bool) {
	switch strings.ToLower(strings.TrimSpace(entry)) {
	case "admins", "admin":
		return model.RoleAdmin, true
	case "managers", "manager":
		return model.RoleManager, true
	case "staff":
		return model.RoleStaff, true
	default:
		return "", false
	}
}
