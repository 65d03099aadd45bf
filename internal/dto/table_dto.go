package dto

import "github.com/almaxtex/inventory-backend/internal/store"

type CreateTableRequest struct {
	Name string `json:"name"`
}

type TableListResponse struct {
	Tables []string `json:"tables"`
}

type RowsResponse struct {
	Table string           `json:"table"`
	Count int              `json:"count"`
	Rows  []store.Document `json:"rows"`
}

type AddRecordRequest struct {
	// ID is optional; when set, the record is written under that exact
	// identifier, overwriting any existing document.
	ID     string            `json:"id,omitempty"`
	Fields map[string]string `json:"fields"`
}

type AddRecordResponse struct {
	ID string `json:"id"`
}

type BulkUpdateRequest struct {
	Rows []EditedRow `json:"rows"`
}

type EditedRow struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
}

type BulkUpdateResponse struct {
	Updated int `json:"updated"`
}

type DeleteRecordsRequest struct {
	IDs []string `json:"ids"`
}

type DeleteRecordsResponse struct {
	Deleted   int `json:"deleted"`
	Requested int `json:"requested"`
}

type DropTableRequest struct {
	// Confirm must equal the table name exactly.
	Confirm string `json:"confirm"`
}

type DropTableResponse struct {
	Deleted int `json:"deleted"`
}

type ImportResponse struct {
	File   string        `json:"file"`
	Rows   int           `json:"rows"`
	Sheets []SheetResult `json:"sheets"`
}

type SheetResult struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
}

type DistributionResponse struct {
	Table  string         `json:"table"`
	Column string         `json:"column"`
	Total  int            `json:"total"`
	Counts map[string]int `json:"counts"`
}
