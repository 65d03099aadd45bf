package handlers

import (
	"errors"

	"github.com/almaxtex/inventory-backend/internal/dto"
	"github.com/almaxtex/inventory-backend/internal/identity"
	"github.com/almaxtex/inventory-backend/internal/services"
	"github.com/almaxtex/inventory-backend/internal/tables"
	"github.com/gofiber/fiber/v2"
)

type TableHandler struct {
	tableService *services.TableService
}

func NewTableHandler(tableService *services.TableService) *TableHandler {
	return &TableHandler{tableService: tableService}
}

func (h *TableHandler) List(c *fiber.Ctx) error {
	names, err := h.tableService.ListTables(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list tables",
		})
	}
	return c.JSON(dto.TableListResponse{Tables: names})
}

func (h *TableHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTableRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.tableService.CreateTable(c.Context(), req.Name); err != nil {
		switch {
		case errors.Is(err, tables.ErrAlreadyExists):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, tables.ErrInvalidName), errors.Is(err, tables.ErrReservedName):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create table",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "Table created"})
}

func (h *TableHandler) View(c *fiber.Ctx) error {
	table := c.Params("name")
	rows, err := h.tableService.View(c.Context(), table)
	if err != nil {
		return tableError(c, err)
	}
	return c.JSON(dto.RowsResponse{Table: table, Count: len(rows), Rows: rows})
}

func (h *TableHandler) Columns(c *fiber.Ctx) error {
	cols, err := h.tableService.Columns(c.Context(), c.Params("name"))
	if err != nil {
		return tableError(c, err)
	}
	return c.JSON(fiber.Map{"columns": cols})
}

func (h *TableHandler) Search(c *fiber.Ctx) error {
	table := c.Params("name")
	rows, err := h.tableService.Search(c.Context(), table, c.Query("field"), c.Query("q"))
	if err != nil {
		return tableError(c, err)
	}
	return c.JSON(dto.RowsResponse{Table: table, Count: len(rows), Rows: rows})
}

func (h *TableHandler) Add(c *fiber.Ctx) error {
	var req dto.AddRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	id, err := h.tableService.Add(c.Context(), identity.Username(c), c.Params("name"), &req)
	if err != nil {
		if errors.Is(err, services.ErrNoFields) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return tableError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.AddRecordResponse{ID: id})
}

func (h *TableHandler) BulkUpdate(c *fiber.Ctx) error {
	var req dto.BulkUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	updated, err := h.tableService.BulkUpdate(c.Context(), identity.Username(c), c.Params("name"), req.Rows)
	if err != nil {
		return tableError(c, err)
	}
	return c.JSON(dto.BulkUpdateResponse{Updated: updated})
}

func (h *TableHandler) DeleteRecords(c *fiber.Ctx) error {
	var req dto.DeleteRecordsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	deleted, err := h.tableService.DeleteRecords(c.Context(), identity.Username(c), c.Params("name"), req.IDs)
	if err != nil {
		// Partial completion is possible; report how far the loop got.
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
			"deleted": deleted,
		})
	}
	return c.JSON(dto.DeleteRecordsResponse{Deleted: deleted, Requested: len(req.IDs)})
}

func (h *TableHandler) Drop(c *fiber.Ctx) error {
	var req dto.DropTableRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	deleted, err := h.tableService.DropTable(c.Context(), identity.Username(c), c.Params("name"), req.Confirm)
	if err != nil {
		if errors.Is(err, services.ErrConfirmMismatch) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return tableError(c, err)
	}
	return c.JSON(dto.DropTableResponse{Deleted: deleted})
}

func tableError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrTableNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}
