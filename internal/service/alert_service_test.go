package service

import (
	"fmt"
	"testing"
	"time"

	"smart-inventory-api/internal/apperr"
	"smart-inventory-api/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	f := newFixture(t)
	thresholds := model.Thresholds{Critical: 5, Low: 10, Warning: 15}

	tests := []struct {
		stock    int
		severity model.Severity
		ok       bool
	}{
		{0, model.SeverityCritical, true},
		{1, model.SeverityWarning, true},
		{5, model.SeverityWarning, true},
		{10, model.SeverityWarning, true},
		{11, "", false},
		{15, "", false},
		{100, "", false},
	}
	for _, tt := range tests {
		severity, ok := f.alertSvc.Classify(tt.stock, thresholds)
		assert.Equal(t, tt.ok, ok, "stock %d", tt.stock)
		assert.Equal(t, tt.severity, severity, "stock %d", tt.stock)
	}
}

func TestRecordAlertDefaults(t *testing.T) {
	f := newFixture(t)

	alert, created, err := f.alertSvc.RecordAlert(&RecordAlertRequest{Name: "Copper Wire", Stock: 4})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "ALT-1", alert.AlertID)
	assert.Equal(t, model.SeverityWarning, alert.Severity)
	assert.Equal(t, model.AlertTypeLowStock, alert.Type)
	assert.Equal(t, model.AlertStatusNew, alert.Status)

	critical, created, err := f.alertSvc.RecordAlert(&RecordAlertRequest{Name: "Breaker Box", Stock: 0})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, model.SeverityCritical, critical.Severity)
	assert.Equal(t, model.AlertTypeNoStock, critical.Type)
}

func TestRecordAlertValidation(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.alertSvc.RecordAlert(&RecordAlertRequest{Name: "  ", Stock: 3})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, _, err = f.alertSvc.RecordAlert(&RecordAlertRequest{Name: "Copper Wire", Stock: -1})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	alerts, err := f.alertSvc.ListAll()
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

// A product that keeps sliding (12 -> 8 -> 0) keeps its original open alert
// until someone resolves it; resolution re-arms creation.
func TestRecordAlertDedupUntilResolved(t *testing.T) {
	f := newFixture(t)

	first, created, err := f.alertSvc.RecordAlert(&RecordAlertRequest{Name: "Copper Wire", Stock: 8})
	require.NoError(t, err)
	require.True(t, created)

	// Stock falls to zero: still the same open alert.
	dup, created, err := f.alertSvc.RecordAlert(&RecordAlertRequest{Name: "Copper Wire", Stock: 0})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, dup.ID)

	alerts, err := f.alertSvc.ListAll()
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	_, err = f.alertSvc.Resolve(first.ID)
	require.NoError(t, err)

	second, created, err := f.alertSvc.RecordAlert(&RecordAlertRequest{Name: "Copper Wire", Stock: 0})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "ALT-2", second.AlertID)
}

func TestAlertIDSequence(t *testing.T) {
	f := newFixture(t)

	// Past ALT-9 the suffix gains a digit; the sequence must keep counting
	// from ALT-10, not wrap back to a lexically "greater" single digit.
	for i := 1; i <= 11; i++ {
		alert, created, err := f.alertSvc.RecordAlert(&RecordAlertRequest{
			Name:  fmt.Sprintf("Product %d", i),
			Stock: 2,
		})
		require.NoError(t, err)
		require.True(t, created)
		assert.Equal(t, fmt.Sprintf("ALT-%d", i), alert.AlertID)
	}
}

// Backdated createdAt values must not disturb id allocation: the next id
// always follows the greatest assigned suffix, not the newest timestamp.
func TestAlertIDSequenceWithBackdatedAlerts(t *testing.T) {
	f := newFixture(t)

	now := time.Now()
	cases := []struct {
		name string
		at   time.Time
	}{
		{"Copper Wire", now},
		{"Breaker Box", now.Add(-24 * time.Hour)},
		{"Conduit Pipe", now.Add(-48 * time.Hour)},
	}
	for i, tc := range cases {
		alert, created, err := f.alertSvc.RecordAlert(&RecordAlertRequest{
			Name:       tc.name,
			Stock:      2,
			OccurredAt: tc.at,
		})
		require.NoError(t, err)
		require.True(t, created)
		assert.Equal(t, fmt.Sprintf("ALT-%d", i+1), alert.AlertID)
	}
}

func TestOnStockChangedRecordsOncePerCondition(t *testing.T) {
	f := newFixture(t)

	// Defaults put the low threshold at 10.
	f.alertSvc.OnStockChanged("Copper Wire", 12, 8, time.Now())
	f.alertSvc.OnStockChanged("Copper Wire", 8, 0, time.Now())

	alerts, err := f.alertSvc.ListAll()
	require.NoError(t, err)
	assert.Len(t, alerts, 1)

	// Above the threshold nothing is recorded.
	f.alertSvc.OnStockChanged("Breaker Box", 20, 15, time.Now())
	alerts, err = f.alertSvc.ListAll()
	require.NoError(t, err)
	assert.Len(t, alerts, 1)
}

func TestMarkAllReadPerRole(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 2; i++ {
		_, _, err := f.alertSvc.RecordAlert(&RecordAlertRequest{Name: fmt.Sprintf("Product %d", i), Stock: 3})
		require.NoError(t, err)
	}

	result, err := f.alertSvc.MarkAllRead("admin")
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Matched)
	assert.Equal(t, int64(2), result.Modified)

	unreadAdmin, err := f.alertSvc.ListUnread("admin")
	require.NoError(t, err)
	assert.Empty(t, unreadAdmin)

	// Other roles keep their own flags.
	unreadManager, err := f.alertSvc.ListUnread("manager")
	require.NoError(t, err)
	assert.Len(t, unreadManager, 2)

	// Second pass matches nothing.
	result, err = f.alertSvc.MarkAllRead("admin")
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Matched)
	assert.Equal(t, int64(0), result.Modified)
}

func TestMarkReadSingleAlert(t *testing.T) {
	f := newFixture(t)

	alert, _, err := f.alertSvc.RecordAlert(&RecordAlertRequest{Name: "Copper Wire", Stock: 3})
	require.NoError(t, err)

	updated, err := f.alertSvc.MarkRead(alert.ID, "staff")
	require.NoError(t, err)
	assert.True(t, updated.ReadByStaff)
	assert.False(t, updated.ReadByAdmin)

	_, err = f.alertSvc.MarkRead(uuid.New(), "staff")
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestInvalidRoleRejectedWithoutMutation(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.alertSvc.RecordAlert(&RecordAlertRequest{Name: "Copper Wire", Stock: 3})
	require.NoError(t, err)

	_, err = f.alertSvc.ListUnread("guest")
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = f.alertSvc.MarkAllRead("guest")
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	unread, err := f.alertSvc.ListUnread("admin")
	require.NoError(t, err)
	assert.Len(t, unread, 1)
}

func TestAgeStatus(t *testing.T) {
	now := time.Now()
	tests := []struct {
		age  time.Duration
		want string
	}{
		{0, model.AlertStatusNew},
		{23 * time.Hour, model.AlertStatusNew},
		{25 * time.Hour, "1 day ago"},
		{3 * 24 * time.Hour, "3 days ago"},
		{8 * 24 * time.Hour, "1 week ago"},
		{13 * 24 * time.Hour, "1 week ago"},
		{20 * 24 * time.Hour, model.AlertStatusOlder},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ageStatus(now, now.Add(-tt.age)), "age %v", tt.age)
	}
}

func TestComputedAlerts(t *testing.T) {
	f := newFixture(t)

	f.createProduct(t, "Copper Wire", 150, 0)
	f.createProduct(t, "Breaker Box", 900, 7)
	f.createProduct(t, "Conduit Pipe", 80, 50)

	computed, err := f.alertSvc.ComputedAlerts()
	require.NoError(t, err)
	require.Len(t, computed, 2)

	// Ordered by stock ascending.
	assert.Equal(t, "Copper Wire", computed[0].Name)
	assert.Equal(t, model.SeverityCritical, computed[0].Severity)
	assert.Equal(t, model.AlertTypeNoStock, computed[0].Type)
	assert.Equal(t, "Breaker Box", computed[1].Name)
	assert.Equal(t, model.SeverityWarning, computed[1].Severity)
}
