package handler

import (
	"go-retail-pos/internal/middleware"
	"go-retail-pos/internal/report"
	"go-retail-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// Generate serves a sales or stock report as an attachment
// GET /api/v1/reports/:type?start=YYYY-MM-DD&end=YYYY-MM-DD&format=pdf|excel
func (h *ReportHandler) Generate(c *fiber.Ctx) error {
	kind, ok := report.ParseKind(c.Params("type"))
	if !ok {
		return badRequest(c, "Invalid report type")
	}
	format, ok := report.ParseFormat(c.Query("format"))
	if !ok {
		return badRequest(c, "Invalid export format, use pdf or excel")
	}
	start, end, err := service.ParseDateRange(c.Query("start"), c.Query("end"))
	if err != nil {
		return fail(c, err)
	}

	file, err := h.service.Export(middleware.CurrentIdentity(c), kind, format, start, end)
	if err != nil {
		return fail(c, err)
	}

	c.Attachment(file.Name)
	c.Set(fiber.HeaderContentType, file.ContentType)
	return c.Send(file.Data)
}
