package dto

import "github.com/almaxtex/inventory-backend/internal/models"

type TransferRequest struct {
	Table       string   `json:"table"`
	RecordIDs   []string `json:"record_ids"`
	Destination string   `json:"destination"`
	SendDate    string   `json:"send_date"`
	ReturnDate  string   `json:"return_date"`
}

type TransferResponse struct {
	Transferred  int `json:"transferred"`
	DurationDays int `json:"duration_days"`
}

type DueReportResponse struct {
	Overdue  []models.TransferLogEntry `json:"overdue"`
	DueToday []models.TransferLogEntry `json:"due_today"`
	DueSoon  []models.TransferLogEntry `json:"due_soon"`
}

type LocationListResponse struct {
	Locations []string `json:"locations"`
}

type AddLocationRequest struct {
	Name string `json:"name"`
}
