package service

import (
	"testing"

	"smart-inventory-api/internal/apperr"
	"smart-inventory-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestSettingsLazyDefaults(t *testing.T) {
	f := newFixture(t)

	settings, err := f.settingsSvc.Get()
	require.NoError(t, err)
	assert.Equal(t, 5, settings.CriticalStockThreshold)
	assert.Equal(t, 10, settings.LowStockThreshold)
	assert.Equal(t, 15, settings.WarningStockThreshold)
	assert.Equal(t, []string{"admins", "managers", "staff"}, settings.Recipients)

	// A second read returns the same row, not another insert.
	again, err := f.settingsSvc.Get()
	require.NoError(t, err)
	assert.Equal(t, settings.ID, again.ID)
}

func TestSettingsPartialUpdate(t *testing.T) {
	f := newFixture(t)

	updated, err := f.settingsSvc.Update(&UpdateSettingsRequest{
		LowStockThreshold: intPtr(8),
	})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.LowStockThreshold)
	// Untouched fields keep their values.
	assert.Equal(t, 5, updated.CriticalStockThreshold)
	assert.Equal(t, 15, updated.WarningStockThreshold)

	thresholds, err := f.settingsSvc.Thresholds()
	require.NoError(t, err)
	assert.Equal(t, model.Thresholds{Critical: 5, Low: 8, Warning: 15}, thresholds)
}

func TestSettingsThresholdValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.settingsSvc.Update(&UpdateSettingsRequest{
		LowStockThreshold: intPtr(-1),
	})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	// critical must not exceed low.
	_, err = f.settingsSvc.Update(&UpdateSettingsRequest{
		CriticalStockThreshold: intPtr(12),
	})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	// Rejected updates leave the row untouched.
	settings, err := f.settingsSvc.Get()
	require.NoError(t, err)
	assert.Equal(t, 5, settings.CriticalStockThreshold)
	assert.Equal(t, 10, settings.LowStockThreshold)
}

func TestResolveRecipients(t *testing.T) {
	f := newFixture(t)

	seedUser := func(email string, role model.Role) {
		user := &model.User{Email: email, FullName: "Test User", Role: role}
		require.NoError(t, user.SetPassword("password"))
		require.NoError(t, f.users.Create(user))
	}
	seedUser("admin@example.com", model.RoleAdmin)
	seedUser("manager@example.com", model.RoleManager)
	seedUser("staff@example.com", model.RoleStaff)

	_, err := f.settingsSvc.Update(&UpdateSettingsRequest{
		Recipients: []string{"admins", "managers", "extra@example.com", "admins"},
	})
	require.NoError(t, err)

	recipients, err := f.settingsSvc.ResolveRecipients()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"admin@example.com", "manager@example.com", "extra@example.com",
	}, recipients)
}
