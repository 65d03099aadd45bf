package handlers

import (
	"time"

	"github.com/almaxtex/inventory-backend/internal/dto"
	"github.com/almaxtex/inventory-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	store store.Store
}

func NewHealthHandler(st store.Store) *HealthHandler {
	return &HealthHandler{store: st}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	storeStatus := "ok"
	collections, err := h.store.ListCollections(c.Context())
	if err != nil {
		storeStatus = "unhealthy: " + err.Error()
	}

	return c.JSON(dto.HealthResponse{
		Status:     "ok",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Store:      storeStatus,
		TableCount: len(collections),
	})
}
