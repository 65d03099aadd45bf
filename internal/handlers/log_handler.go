package handlers

import (
	"strconv"

	"github.com/almaxtex/inventory-backend/internal/audit"
	"github.com/almaxtex/inventory-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
)

type LogHandler struct {
	audit *audit.Logger
}

func NewLogHandler(auditLog *audit.Logger) *LogHandler {
	return &LogHandler{audit: auditLog}
}

// Tail returns the most recent audit rows, newest first. The n query
// parameter caps the count; default 100.
func (h *LogHandler) Tail(c *fiber.Ctx) error {
	n := 100
	if raw := c.Query("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "n must be a non-negative integer",
			})
		}
		n = parsed
	}

	entries, err := h.audit.Tail(n)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to read audit log",
		})
	}
	return c.JSON(fiber.Map{"count": len(entries), "entries": entries})
}
