package models

import "strings"

// Reserved collections hold system state and never appear in table listings.
const (
	CollectionUsers     = "_users"
	CollectionTokens    = "_auth_tokens"
	CollectionTransfers = "_transfers"
	CollectionConfig    = "_config"
)

// Config documents inside CollectionConfig.
const (
	ConfigDocTables    = "tables"
	ConfigDocLocations = "locations"
)

// RecordDateFormat is the stamp written into Kayit_Tarihi on insert.
const RecordDateFormat = "02.01.2006"

// TransferDateFormat is the wire format for send/return dates.
const TransferDateFormat = "2006-01-02"

// FieldLocation is the record field mutated by a transfer.
const FieldLocation = "Lokasyon"

// InventoryFields is the fixed form field set of the add-record screen.
// Records may carry arbitrary extra fields beyond these.
var InventoryFields = []string{
	"Seri No",
	"Departman",
	"Lokasyon",
	"Kullanıcı",
	"Kullanıcı PC ID",
	"Kullanıcı PC Adı",
	"Versiyon",
	"Son Durum",
	"Notlar",
	"İçerik",
}

// IsReservedCollection reports whether a collection name belongs to system
// state rather than user inventory tables.
func IsReservedCollection(name string) bool {
	return strings.HasPrefix(name, "_")
}

// TransferLogEntry is an immutable audit record of one record's location
// change. Entries are written once and never mutated or deleted.
type TransferLogEntry struct {
	RecordID   string `json:"record_id" firestore:"record_id"`
	Table      string `json:"table" firestore:"table"`
	FromLoc    string `json:"from_location" firestore:"from_location"`
	ToLoc      string `json:"to_location" firestore:"to_location"`
	SendDate   string `json:"send_date" firestore:"send_date"`
	ReturnDate string `json:"return_date" firestore:"return_date"`
	Duration   int    `json:"duration_days" firestore:"duration_days"`
	Operator   string `json:"operator" firestore:"operator"`
	CreatedAt  string `json:"created_at" firestore:"created_at"`
}

// Fields returns the entry as a store document payload.
func (e TransferLogEntry) Fields() map[string]any {
	return map[string]any{
		"record_id":     e.RecordID,
		"table":         e.Table,
		"from_location": e.FromLoc,
		"to_location":   e.ToLoc,
		"send_date":     e.SendDate,
		"return_date":   e.ReturnDate,
		"duration_days": e.Duration,
		"operator":      e.Operator,
		"created_at":    e.CreatedAt,
	}
}
