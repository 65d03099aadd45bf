package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/almaxtex/inventory-backend/internal/audit"
	"github.com/almaxtex/inventory-backend/internal/dto"
	"github.com/almaxtex/inventory-backend/internal/models"
	"github.com/almaxtex/inventory-backend/internal/store"
	"github.com/almaxtex/inventory-backend/internal/tables"
)

var (
	ErrReturnBeforeSend = errors.New("expected return date precedes send date")
	ErrBadDate          = errors.New("date must be formatted as YYYY-MM-DD")
	ErrNoRecordsChosen  = errors.New("no records selected for transfer")
	ErrUnknownLocation  = errors.New("destination is not a defined location")
	ErrRecordNotFound   = errors.New("record not found")
)

// dueSoonWindow is how far ahead of today a return date still counts as
// "due soon".
const dueSoonWindow = 3

// TransferService moves records between locations, logging every move as
// an immutable transfer entry.
type TransferService struct {
	store     store.Store
	registry  *tables.Registry
	locations *LocationService
	audit     *audit.Logger
}

func NewTransferService(st store.Store, registry *tables.Registry, locations *LocationService, auditLog *audit.Logger) *TransferService {
	return &TransferService{store: st, registry: registry, locations: locations, audit: auditLog}
}

// Transfer updates each selected record's location and appends one log
// entry per record. The pair of writes goes through a single atomic
// batch, so a record is never moved without its log entry. Validation
// happens before any write; a mid-loop failure aborts the remaining
// records and reports how many completed.
func (s *TransferService) Transfer(ctx context.Context, actor string, req *dto.TransferRequest) (*dto.TransferResponse, error) {
	if len(req.RecordIDs) == 0 {
		return nil, ErrNoRecordsChosen
	}

	exists, err := s.registry.Exists(ctx, req.Table)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrTableNotFound
	}

	known, err := s.locations.Contains(ctx, req.Destination)
	if err != nil {
		return nil, err
	}
	if !known {
		return nil, ErrUnknownLocation
	}

	send, err := time.Parse(models.TransferDateFormat, req.SendDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadDate, req.SendDate)
	}
	ret, err := time.Parse(models.TransferDateFormat, req.ReturnDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadDate, req.ReturnDate)
	}
	if ret.Before(send) {
		return nil, ErrReturnBeforeSend
	}
	duration := int(ret.Sub(send).Hours() / 24)

	transferred := 0
	for _, id := range req.RecordIDs {
		doc, err := s.store.Get(ctx, req.Table, id)
		if errors.Is(err, store.ErrNotFound) {
			return s.result(actor, req, transferred, duration, fmt.Errorf("%w: %s", ErrRecordNotFound, id))
		}
		if err != nil {
			return s.result(actor, req, transferred, duration, fmt.Errorf("failed to load record %s: %w", id, err))
		}

		from := ""
		if v, ok := doc.Fields[models.FieldLocation]; ok {
			from = fmt.Sprint(v)
		}

		entry := models.TransferLogEntry{
			RecordID:   id,
			Table:      req.Table,
			FromLoc:    from,
			ToLoc:      req.Destination,
			SendDate:   req.SendDate,
			ReturnDate: req.ReturnDate,
			Duration:   duration,
			Operator:   actor,
			CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		}

		batch := s.store.NewBatch()
		batch.SetMerge(req.Table, id, map[string]any{models.FieldLocation: req.Destination})
		batch.Add(models.CollectionTransfers, entry.Fields())
		if err := batch.Commit(ctx); err != nil {
			return s.result(actor, req, transferred, duration, fmt.Errorf("transfer of record %s failed: %w", id, err))
		}
		transferred++
	}

	return s.result(actor, req, transferred, duration, nil)
}

// DueReport classifies every historical log entry against today. Purely a
// read; stored state is untouched.
func (s *TransferService) DueReport(ctx context.Context, today time.Time) (*dto.DueReportResponse, error) {
	docs, err := s.store.Stream(ctx, models.CollectionTransfers, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to stream transfer log: %w", err)
	}

	// Bucket by the caller's calendar date; return dates parse to UTC
	// midnight, so the comparison day must too.
	y, m, d := today.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	resp := &dto.DueReportResponse{
		Overdue:  []models.TransferLogEntry{},
		DueToday: []models.TransferLogEntry{},
		DueSoon:  []models.TransferLogEntry{},
	}

	for _, doc := range docs {
		entry := entryFromFields(doc.Fields)
		ret, err := time.Parse(models.TransferDateFormat, entry.ReturnDate)
		if err != nil {
			continue
		}

		switch {
		case ret.Before(day):
			resp.Overdue = append(resp.Overdue, entry)
		case ret.Equal(day):
			resp.DueToday = append(resp.DueToday, entry)
		case !ret.After(day.AddDate(0, 0, dueSoonWindow)):
			resp.DueSoon = append(resp.DueSoon, entry)
		}
	}
	return resp, nil
}

func (s *TransferService) result(actor string, req *dto.TransferRequest, transferred, duration int, err error) (*dto.TransferResponse, error) {
	if err != nil {
		s.record(audit.CategoryError, "web_transfer",
			fmt.Sprintf("Transfer hatası: %s -> %s", req.Table, req.Destination), err.Error())
		if transferred > 0 {
			return &dto.TransferResponse{Transferred: transferred, DurationDays: duration}, err
		}
		return nil, err
	}

	s.record(audit.CategoryUpdate, "web_transfer",
		fmt.Sprintf("%d kayıt transfer edildi: %s -> %s", transferred, req.Table, req.Destination),
		fmt.Sprintf("Gönderim: %s, Dönüş: %s, Süre: %d gün, İşlemi yapan: %s", req.SendDate, req.ReturnDate, duration, actor))
	return &dto.TransferResponse{Transferred: transferred, DurationDays: duration}, nil
}

func entryFromFields(fields map[string]any) models.TransferLogEntry {
	str := func(key string) string {
		if v, ok := fields[key].(string); ok {
			return v
		}
		return ""
	}
	duration := 0
	switch v := fields["duration_days"].(type) {
	case int:
		duration = v
	case int64:
		duration = int(v)
	case float64:
		duration = int(v)
	}
	return models.TransferLogEntry{
		RecordID:   str("record_id"),
		Table:      str("table"),
		FromLoc:    str("from_location"),
		ToLoc:      str("to_location"),
		SendDate:   str("send_date"),
		ReturnDate: str("return_date"),
		Duration:   duration,
		Operator:   str("operator"),
		CreatedAt:  str("created_at"),
	}
}

func (s *TransferService) record(category, function, message, detail string) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(category, function, message, detail)
}
