package handlers

import (
	"github.com/almaxtex/inventory-backend/internal/dto"
	"github.com/almaxtex/inventory-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) Distribution(c *fiber.Ctx) error {
	column := c.Query("column")
	if column == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "column query parameter is required",
		})
	}

	resp, err := h.reportService.ColumnDistribution(c.Context(), c.Params("name"), column)
	if err != nil {
		return tableError(c, err)
	}
	return c.JSON(resp)
}

func (h *ReportHandler) Export(c *fiber.Ctx) error {
	table := c.Params("name")
	data, err := h.reportService.Export(c.Context(), table)
	if err != nil {
		return tableError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="Rapor_`+table+`.xlsx"`)
	return c.Send(data)
}
