package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"smart-inventory-api/internal/model"
	"smart-inventory-api/internal/repository"
	"smart-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) *fiber.App {
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

	productRepo := repository.NewProductRepo(db)
	alertRepo := repository.NewAlertRepo(db)
	userRepo := repository.NewUserRepo(db)
	settingsSvc := service.NewSettingsService(repository.NewSettingsRepo(db), userRepo)
	alertSvc := service.NewAlertService(alertRepo, productRepo, settingsSvc, nil, nil)

	alertHandler := NewAlertHandler(alertSvc)

	app := fiber.New()
	app.Post("/stored-alerts", alertHandler.CreateStoredAlert)
	app.Get("/stored-alerts", alertHandler.GetStoredAlerts)
	app.Get("/stored-alerts/unread", alertHandler.GetUnreadAlerts)
	app.Put("/stored-alerts/mark-all-read", alertHandler.MarkAllRead)
	app.Put("/stored-alerts/:id/read", alertHandler.MarkRead)
	app.Put("/stored-alerts/:id/resolve", alertHandler.ResolveAlert)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]interface{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func TestCreateStoredAlertStatusCodes(t *testing.T) {
	app := newTestApp(t)

	payload := map[string]interface{}{"name": "Copper Wire", "stock": 3}

	resp, body := doJSON(t, app, "POST", "/stored-alerts", payload)
	assert.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, "ALT-1", body["alertId"])

	// Same product again: 200 with the existing alert.
	resp, body = doJSON(t, app, "POST", "/stored-alerts", payload)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "Alert already exists for this product", body["message"])
	alert, ok := body["alert"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ALT-1", alert["alertId"])
}

func TestCreateStoredAlertValidation(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, "POST", "/stored-alerts", map[string]interface{}{"name": "", "stock": 3})
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "Product name is required", body["message"])

	resp, _ = doJSON(t, app, "POST", "/stored-alerts", map[string]interface{}{"name": "Copper Wire", "stock": -2})
	assert.Equal(t, 400, resp.StatusCode)
}

func TestUnreadInvalidRole(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, "GET", "/stored-alerts/unread?role=guest", nil)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "Invalid role", body["message"])
}

func TestMarkAllReadCounts(t *testing.T) {
	app := newTestApp(t)

	doJSON(t, app, "POST", "/stored-alerts", map[string]interface{}{"name": "Copper Wire", "stock": 3})
	doJSON(t, app, "POST", "/stored-alerts", map[string]interface{}{"name": "Breaker Box", "stock": 0})

	resp, body := doJSON(t, app, "PUT", "/stored-alerts/mark-all-read", map[string]interface{}{"role": "manager"})
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(2), body["matchedCount"])
	assert.Equal(t, float64(2), body["modifiedCount"])

	resp, body = doJSON(t, app, "PUT", "/stored-alerts/mark-all-read", map[string]interface{}{"role": "manager"})
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(0), body["matchedCount"])
}

func TestMarkReadUnknownAlert(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, "PUT", "/stored-alerts/0b5fbb46-64a1-4be0-8263-bbc4b27a3a4e/read", map[string]interface{}{"role": "admin"})
	assert.Equal(t, 404, resp.StatusCode)

	resp, _ = doJSON(t, app, "PUT", "/stored-alerts/not-a-uuid/read", map[string]interface{}{"role": "admin"})
	assert.Equal(t, 400, resp.StatusCode)
}

func TestResolveReturnsAlert(t *testing.T) {
	app := newTestApp(t)

	_, created := doJSON(t, app, "POST", "/stored-alerts", map[string]interface{}{"name": "Copper Wire", "stock": 3})
	id := created["id"].(string)

	resp, body := doJSON(t, app, "PUT", "/stored-alerts/"+id+"/resolve", nil)
	assert.Equal(t, 200, resp.StatusCode)
	alert, ok := body["alert"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Resolved", alert["status"])
}
