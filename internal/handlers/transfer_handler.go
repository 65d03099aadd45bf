package handlers

import (
	"errors"
	"time"

	"github.com/almaxtex/inventory-backend/internal/dto"
	"github.com/almaxtex/inventory-backend/internal/identity"
	"github.com/almaxtex/inventory-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type TransferHandler struct {
	transferService *services.TransferService
	locationService *services.LocationService
}

func NewTransferHandler(transferService *services.TransferService, locationService *services.LocationService) *TransferHandler {
	return &TransferHandler{transferService: transferService, locationService: locationService}
}

func (h *TransferHandler) Transfer(c *fiber.Ctx) error {
	var req dto.TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.transferService.Transfer(c.Context(), identity.Username(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReturnBeforeSend),
			errors.Is(err, services.ErrBadDate),
			errors.Is(err, services.ErrNoRecordsChosen),
			errors.Is(err, services.ErrUnknownLocation):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrTableNotFound), errors.Is(err, services.ErrRecordNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
				"result":  resp,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
			"result":  resp,
		})
	}

	return c.JSON(resp)
}

func (h *TransferHandler) DueReport(c *fiber.Ctx) error {
	resp, err := h.transferService.DueReport(c.Context(), time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to build due report",
		})
	}
	return c.JSON(resp)
}

func (h *TransferHandler) ListLocations(c *fiber.Ctx) error {
	locations, err := h.locationService.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list locations",
		})
	}
	return c.JSON(dto.LocationListResponse{Locations: locations})
}

func (h *TransferHandler) AddLocation(c *fiber.Ctx) error {
	var req dto.AddLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.locationService.Add(c.Context(), req.Name); err != nil {
		switch {
		case errors.Is(err, services.ErrLocationExists):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrEmptyLocation):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to add location",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "Location added"})
}

func (h *TransferHandler) RemoveLocation(c *fiber.Ctx) error {
	if err := h.locationService.Remove(c.Context(), c.Params("name")); err != nil {
		if errors.Is(err, services.ErrLocationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to remove location",
		})
	}
	return c.JSON(dto.MessageResponse{Message: "Location removed"})
}
