package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/almaxtex/inventory-backend/internal/dto"
	"github.com/almaxtex/inventory-backend/internal/models"
	"github.com/almaxtex/inventory-backend/internal/store"
	"github.com/almaxtex/inventory-backend/internal/tables"
)

func newTransferFixture(t *testing.T) (*TransferService, store.Store) {
	t.Helper()
	ctx := context.Background()

	st := store.NewMemoryStore()
	reg := tables.NewRegistry(st)
	if err := reg.Create(ctx, "Makineler"); err != nil {
		t.Fatalf("create table: %v", err)
	}

	locations := NewLocationService(st)
	for _, loc := range []string{"Depo", "Atölye"} {
		if err := locations.Add(ctx, loc); err != nil {
			t.Fatalf("add location: %v", err)
		}
	}

	seed := []map[string]any{
		{"Seri No": "A-100", models.FieldLocation: "Atölye"},
		{"Seri No": "A-101", models.FieldLocation: "Atölye"},
	}
	for i, fields := range seed {
		id := []string{"rec-1", "rec-2"}[i]
		if err := st.Set(ctx, "Makineler", id, fields); err != nil {
			t.Fatalf("seed record: %v", err)
		}
	}

	return NewTransferService(st, reg, locations, nil), st
}

func TestTransferMovesRecordsAndLogs(t *testing.T) {
	svc, st := newTransferFixture(t)
	ctx := context.Background()

	resp, err := svc.Transfer(ctx, "operator", &dto.TransferRequest{
		Table:       "Makineler",
		RecordIDs:   []string{"rec-1", "rec-2"},
		Destination: "Depo",
		SendDate:    "2024-01-01",
		ReturnDate:  "2024-01-08",
	})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if resp.Transferred != 2 {
		t.Fatalf("expected 2 transferred records, got %d", resp.Transferred)
	}
	if resp.DurationDays != 7 {
		t.Fatalf("expected 7 day duration, got %d", resp.DurationDays)
	}

	for _, id := range []string{"rec-1", "rec-2"} {
		doc, err := st.Get(ctx, "Makineler", id)
		if err != nil {
			t.Fatalf("get %s: %v", id, err)
		}
		if doc.Fields[models.FieldLocation] != "Depo" {
			t.Fatalf("record %s not moved: %v", id, doc.Fields[models.FieldLocation])
		}
		// The move must not clobber the rest of the record.
		if doc.Fields["Seri No"] == nil {
			t.Fatalf("record %s lost its fields: %v", id, doc.Fields)
		}
	}

	logs, err := st.Stream(ctx, models.CollectionTransfers, 0)
	if err != nil {
		t.Fatalf("stream log: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(logs))
	}
	for _, doc := range logs {
		entry := entryFromFields(doc.Fields)
		if entry.FromLoc != "Atölye" || entry.ToLoc != "Depo" {
			t.Fatalf("bad log route: %+v", entry)
		}
		if entry.Duration != 7 {
			t.Fatalf("bad log duration: %+v", entry)
		}
		if entry.Operator != "operator" {
			t.Fatalf("bad log operator: %+v", entry)
		}
	}
}

func TestTransferValidation(t *testing.T) {
	svc, st := newTransferFixture(t)
	ctx := context.Background()

	base := dto.TransferRequest{
		Table:       "Makineler",
		RecordIDs:   []string{"rec-1"},
		Destination: "Depo",
		SendDate:    "2024-01-08",
		ReturnDate:  "2024-01-01",
	}

	if _, err := svc.Transfer(ctx, "operator", &base); !errors.Is(err, ErrReturnBeforeSend) {
		t.Fatalf("expected ErrReturnBeforeSend, got %v", err)
	}

	req := base
	req.SendDate = "01.01.2024"
	if _, err := svc.Transfer(ctx, "operator", &req); !errors.Is(err, ErrBadDate) {
		t.Fatalf("expected ErrBadDate, got %v", err)
	}

	req = base
	req.RecordIDs = nil
	if _, err := svc.Transfer(ctx, "operator", &req); !errors.Is(err, ErrNoRecordsChosen) {
		t.Fatalf("expected ErrNoRecordsChosen, got %v", err)
	}

	req = base
	req.Destination = "Mars"
	if _, err := svc.Transfer(ctx, "operator", &req); !errors.Is(err, ErrUnknownLocation) {
		t.Fatalf("expected ErrUnknownLocation, got %v", err)
	}

	req = base
	req.Table = "Yok"
	if _, err := svc.Transfer(ctx, "operator", &req); !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("expected ErrTableNotFound, got %v", err)
	}

	// Failed validation must leave records and log untouched.
	doc, err := st.Get(ctx, "Makineler", "rec-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc.Fields[models.FieldLocation] != "Atölye" {
		t.Fatalf("record moved despite rejected requests: %v", doc.Fields)
	}
	logs, _ := st.Stream(ctx, models.CollectionTransfers, 0)
	if len(logs) != 0 {
		t.Fatalf("rejected requests wrote %d log entries", len(logs))
	}
}

func TestTransferStopsAtMissingRecord(t *testing.T) {
	svc, st := newTransferFixture(t)
	ctx := context.Background()

	resp, err := svc.Transfer(ctx, "operator", &dto.TransferRequest{
		Table:       "Makineler",
		RecordIDs:   []string{"rec-1", "ghost", "rec-2"},
		Destination: "Depo",
		SendDate:    "2024-01-01",
		ReturnDate:  "2024-01-02",
	})
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if resp == nil || resp.Transferred != 1 {
		t.Fatalf("expected partial result of 1, got %+v", resp)
	}

	// rec-1 moved before the failure, rec-2 never reached.
	doc, _ := st.Get(ctx, "Makineler", "rec-1")
	if doc.Fields[models.FieldLocation] != "Depo" {
		t.Fatalf("rec-1 should have moved: %v", doc.Fields)
	}
	doc, _ = st.Get(ctx, "Makineler", "rec-2")
	if doc.Fields[models.FieldLocation] != "Atölye" {
		t.Fatalf("rec-2 should not have moved: %v", doc.Fields)
	}
}

func TestDueReportBuckets(t *testing.T) {
	svc, st := newTransferFixture(t)
	ctx := context.Background()

	today := time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)
	entries := map[string]string{
		"geciken":  "2024-03-05",
		"bugun":    "2024-03-10",
		"yaklasan": "2024-03-12",
		"uzak":     "2024-03-20",
	}
	for id, ret := range entries {
		entry := models.TransferLogEntry{
			RecordID:   id,
			Table:      "Makineler",
			ToLoc:      "Depo",
			SendDate:   "2024-03-01",
			ReturnDate: ret,
			Operator:   "operator",
		}
		if _, err := st.Add(ctx, models.CollectionTransfers, entry.Fields()); err != nil {
			t.Fatalf("seed log: %v", err)
		}
	}

	// The same calendar date must bucket identically regardless of the
	// caller's zone; shortly after local midnight in UTC+3 the UTC clock
	// still reads the previous day.
	todays := map[string]time.Time{
		"utc":       today,
		"utc-plus3": time.Date(2024, 3, 10, 1, 30, 0, 0, time.FixedZone("UTC+3", 3*60*60)),
	}
	for name, now := range todays {
		resp, err := svc.DueReport(ctx, now)
		if err != nil {
			t.Fatalf("%s: due report: %v", name, err)
		}
		if len(resp.Overdue) != 1 || resp.Overdue[0].RecordID != "geciken" {
			t.Fatalf("%s: bad overdue bucket: %+v", name, resp.Overdue)
		}
		if len(resp.DueToday) != 1 || resp.DueToday[0].RecordID != "bugun" {
			t.Fatalf("%s: bad due-today bucket: %+v", name, resp.DueToday)
		}
		if len(resp.DueSoon) != 1 || resp.DueSoon[0].RecordID != "yaklasan" {
			t.Fatalf("%s: bad due-soon bucket: %+v", name, resp.DueSoon)
		}
	}
}
