package service

import (
	"fmt"
	"time"

	"smart-inventory-api/internal/apperr"
	"smart-inventory-api/internal/model"
	"smart-inventory-api/internal/repository"
)

// TrendPoint is one bucket of the sales trend chart. The label field keeps
// the shape the dashboard chart consumes.
type TrendPoint struct {
	Label      string  `json:"_id"`
	TotalSales float64 `json:"totalSales"`
}

type DashboardService interface {
	GetStats() (*repository.DashboardStats, error)
	GetTodaySales() (float64, error)
	// GetSalesTrend buckets completed sales by day, ISO week, or month.
	GetSalesTrend(period string) ([]TrendPoint, error)
}

type dashboardService struct {
	txRepo   repository.TransactionRepository
	settings SettingsService
}

func NewDashboardService(txRepo repository.TransactionRepository, settings SettingsService) DashboardService {
	return &dashboardService{txRepo: txRepo, settings: settings}
}

func (s *dashboardService) GetStats() (*repository.DashboardStats, error) {
	thresholds, err := s.settings.Thresholds()
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to load thresholds", err)
	}
	stats, err := s.txRepo.GetDashboardStats(thresholds.Low)
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to fetch dashboard stats", err)
	}
	return stats, nil
}

func (s *dashboardService) GetTodaySales() (float64, error) {
	total, err := s.txRepo.TodayTotal(time.Now())
	if err != nil {
		return 0, apperr.Wrap(apperr.Storage, "Failed to fetch today's sales", err)
	}
	return total, nil
}

func (s *dashboardService) GetSalesTrend(period string) ([]TrendPoint, error) {
	switch period {
	case "", "daily", "weekly", "monthly":
	default:
		return nil, apperr.New(apperr.Validation, "Invalid period")
	}

	transactions, err := s.txRepo.FindCompleted()
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to fetch sales trend", err)
	}
	return bucketSales(transactions, period), nil
}

// bucketSales groups completed transactions into labeled buckets,
// preserving chronological order (input is sorted by date ascending).
func bucketSales(transactions []model.Transaction, period string) []TrendPoint {
	totals := make(map[string]float64)
	var order []string

	for _, tx := range transactions {
		label := trendLabel(tx.Date, period)
		if _, seen := totals[label]; !seen {
			order = append(order, label)
		}
		totals[label] += tx.Total
	}

	points := make([]TrendPoint, len(order))
	for i, label := range order {
		points[i] = TrendPoint{Label: label, TotalSales: totals[label]}
	}
	return points
}

func trendLabel(date time.Time, period string) string {
	switch period {
	case "weekly":
		year, week := date.ISOWeek()
		return fmt.Sprintf("Week %d, %d", week, year)
	case "monthly":
		return date.Format("Jan 2006")
	default:
		return date.Format("2006-01-02")
	}
}
