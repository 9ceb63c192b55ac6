package service

import (
	"testing"
	"time"

	"smart-inventory-api/internal/apperr"
	"smart-inventory-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saleOn(date time.Time, total float64) model.Transaction {
	return model.Transaction{
		CustomerName: "Juan Dela Cruz",
		StaffName:    "Maria Santos",
		Quantity:     1,
		Total:        total,
		Date:         date,
		Status:       model.TxCompleted,
	}
}

func TestBucketSalesDaily(t *testing.T) {
	day1 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC)

	points := bucketSales([]model.Transaction{
		saleOn(day1, 100),
		saleOn(day1.Add(2*time.Hour), 50),
		saleOn(day2, 25),
	}, "daily")

	require.Len(t, points, 2)
	assert.Equal(t, "2025-03-10", points[0].Label)
	assert.Equal(t, 150.0, points[0].TotalSales)
	assert.Equal(t, "2025-03-11", points[1].Label)
	assert.Equal(t, 25.0, points[1].TotalSales)
}

func TestBucketSalesWeeklyAndMonthly(t *testing.T) {
	week1 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) // ISO week 11
	week2 := time.Date(2025, 3, 17, 9, 0, 0, 0, time.UTC) // ISO week 12
	april := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)

	weekly := bucketSales([]model.Transaction{
		saleOn(week1, 100), saleOn(week2, 40),
	}, "weekly")
	require.Len(t, weekly, 2)
	assert.Equal(t, "Week 11, 2025", weekly[0].Label)
	assert.Equal(t, "Week 12, 2025", weekly[1].Label)

	monthly := bucketSales([]model.Transaction{
		saleOn(week1, 100), saleOn(week2, 40), saleOn(april, 10),
	}, "monthly")
	require.Len(t, monthly, 2)
	assert.Equal(t, "Mar 2025", monthly[0].Label)
	assert.Equal(t, 140.0, monthly[0].TotalSales)
	assert.Equal(t, "Apr 2025", monthly[1].Label)
}

func TestGetSalesTrendInvalidPeriod(t *testing.T) {
	f := newFixture(t)
	svc := NewDashboardService(f.txs, f.settingsSvc)

	_, err := svc.GetSalesTrend("hourly")
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestGetStats(t *testing.T) {
	f := newFixture(t)
	svc := NewDashboardService(f.txs, f.settingsSvc)

	f.createProduct(t, "Copper Wire", 100, 4) // low stock at default threshold
	f.createProduct(t, "Breaker Box", 900, 40)

	sale, err := f.invSvc.RecordSale(&SaleRequest{
		CustomerName: "Juan Dela Cruz",
		StaffName:    "Maria Santos",
		ProductID:    mustProduct(t, f, "Breaker Box").ID,
		Quantity:     2,
	})
	require.NoError(t, err)
	_, err = f.invSvc.UpdateTransactionStatus(sale.ID, model.TxCompleted)
	require.NoError(t, err)

	stats, err := svc.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.LowStockCount)
	// 4*100 + 38*900
	assert.InDelta(t, 34600.0, stats.TotalValuation, 0.001)
	assert.InDelta(t, 1800.0, stats.TodaySales, 0.001)

	today, err := svc.GetTodaySales()
	require.NoError(t, err)
	assert.InDelta(t, 1800.0, today, 0.001)
}

func mustProduct(t *testing.T, f *fixture, name string) *model.Product {
	t.Helper()
	product, err := f.products.FindByName(name)
	require.NoError(t, err)
	return product
}
