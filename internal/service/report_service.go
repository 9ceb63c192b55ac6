package service

import (
	"bytes"
	"fmt"

	"smart-inventory-api/internal/apperr"
	"smart-inventory-api/internal/model"
	"smart-inventory-api/internal/repository"

	"github.com/xuri/excelize/v2"
)

type ReportService interface {
	// BuildLiveExport produces an xlsx workbook with Products, completed
	// Transactions, and Alerts sheets for external analysis tools.
	BuildLiveExport() ([]byte, error)
}

type reportService struct {
	productRepo repository.ProductRepository
	txRepo      repository.TransactionRepository
	alertRepo   repository.AlertRepository
}

func NewReportService(productRepo repository.ProductRepository, txRepo repository.TransactionRepository, alertRepo repository.AlertRepository) ReportService {
	return &reportService{productRepo: productRepo, txRepo: txRepo, alertRepo: alertRepo}
}

func (s *reportService) BuildLiveExport() ([]byte, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to fetch live data", err)
	}
	transactions, err := s.txRepo.FindCompleted()
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to fetch live data", err)
	}
	alerts, err := s.alertRepo.FindAll()
	if err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to fetch live data", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeProductsSheet(f, products); err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to build export", err)
	}
	if err := writeTransactionsSheet(f, transactions); err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to build export", err)
	}
	if err := writeAlertsSheet(f, alerts); err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to build export", err)
	}

	// Drop the default sheet so the workbook opens on Products.
	f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, apperr.Wrap(apperr.Storage, "Failed to write export", err)
	}
	return buf.Bytes(), nil
}

func writeProductsSheet(f *excelize.File, products []model.Product) error {
	const sheet = "Products"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"Name", "SKU", "Stock", "Price"}); err != nil {
		return err
	}
	for i, p := range products {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{p.Name, p.SKU, p.Stock, p.Price}); err != nil {
			return err
		}
	}
	return nil
}

func writeTransactionsSheet(f *excelize.File, transactions []model.Transaction) error {
	const sheet = "Transactions"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []interface{}{"TransactionID", "ProductName", "SKU", "Quantity", "UnitPrice", "Total", "Status", "Date"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, t := range transactions {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{
			t.ID.String(),
			t.Product.Name,
			t.Product.SKU,
			t.Quantity,
			t.UnitPrice,
			t.Total,
			string(t.Status),
			t.Date,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeAlertsSheet(f *excelize.File, alerts []model.StoredAlert) error {
	const sheet = "Alerts"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []interface{}{"AlertID", "Name", "Stock", "Type", "Severity", "Status", "CreatedAt"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, a := range alerts {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{
			a.AlertID,
			a.Name,
			a.Stock,
			a.Type,
			string(a.Severity),
			a.Status,
			a.CreatedAt,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
