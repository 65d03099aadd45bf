package handlers

import (
	"errors"
	"io"

	"github.com/almaxtex/inventory-backend/internal/dto"
	"github.com/almaxtex/inventory-backend/internal/identity"
	"github.com/almaxtex/inventory-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ImportHandler struct {
	importService *services.ImportService
}

func NewImportHandler(importService *services.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// Upload accepts a multipart workbook under the "file" field and loads
// every sheet as a table.
func (h *ImportHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "A workbook file is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to open uploaded file",
		})
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to read uploaded file",
		})
	}

	resp, err := h.importService.Import(c.Context(), identity.Username(c), fileHeader.Filename, data)
	if err != nil {
		if errors.Is(err, services.ErrMalformedWorkbook) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		// Some sheets may have partially imported; include what landed.
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
			"result":  resp,
		})
	}

	return c.JSON(resp)
}
