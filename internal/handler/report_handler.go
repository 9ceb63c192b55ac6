package handler

import (
	"smart-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// LiveExport handles GET /reports/live-export and streams the workbook as a
// download.
func (h *ReportHandler) LiveExport(c *fiber.Ctx) error {
	data, err := h.service.BuildLiveExport()
	if err != nil {
		return fail(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="live_export_report.xlsx"`)
	return c.Send(data)
}
