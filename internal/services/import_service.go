package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/almaxtex/inventory-backend/internal/audit"
	"github.com/almaxtex/inventory-backend/internal/dto"
	"github.com/almaxtex/inventory-backend/internal/store"
	"github.com/almaxtex/inventory-backend/internal/tables"
	"github.com/xuri/excelize/v2"
)

// emptyPlaceholder replaces blank cells so downstream consumers never see
// a null field.
const emptyPlaceholder = "None"

var ErrMalformedWorkbook = errors.New("workbook could not be read")

// ImportService loads a multi-sheet workbook into the store, one
// collection per sheet, flushing writes in fixed-size atomic batches.
type ImportService struct {
	store     store.Store
	registry  *tables.Registry
	audit     *audit.Logger
	batchSize int
}

func NewImportService(st store.Store, registry *tables.Registry, auditLog *audit.Logger, batchSize int) *ImportService {
	// The chunking policy must stay strictly below the store's hard
	// per-commit limit; anything else falls back to the default.
	if batchSize <= 0 || batchSize >= store.MaxBatchWrites {
		batchSize = 400
	}
	return &ImportService{store: st, registry: registry, audit: auditLog, batchSize: batchSize}
}

// Import parses the workbook and writes every non-empty row as a new
// auto-ID document in a collection named after its sheet. Sheets are
// processed sequentially and independently: a mid-sheet write failure
// abandons that sheet's remaining rows (committed batches stay put, no
// rollback) and the next sheet still runs. Re-importing the same file
// duplicates rows, since identifiers are store-assigned.
func (s *ImportService) Import(ctx context.Context, actor, filename string, data []byte) (*dto.ImportResponse, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		s.record(audit.CategoryError, "web_upload", "Dosya okunamadı: "+filename, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrMalformedWorkbook, err)
	}
	defer func() { _ = f.Close() }()

	resp := &dto.ImportResponse{File: filename}
	var sheetErrs []error

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			sheetErrs = append(sheetErrs, fmt.Errorf("sheet %q: %w", sheet, err))
			continue
		}

		records := cleanSheet(rows)
		written, err := s.writeSheet(ctx, sheet, records)
		if written > 0 {
			if regErr := s.registry.Register(ctx, sheet); regErr != nil {
				slog.Error("failed to register imported table", "function", "web_upload", "error", regErr.Error())
			}
		}
		if err != nil {
			sheetErrs = append(sheetErrs, fmt.Errorf("sheet %q: %w", sheet, err))
		}

		resp.Sheets = append(resp.Sheets, dto.SheetResult{Name: sheet, Rows: written})
		resp.Rows += written
	}

	if len(sheetErrs) > 0 {
		joined := errors.Join(sheetErrs...)
		s.record(audit.CategoryError, "web_upload", "Excel Yükleme Hatası: "+filename, joined.Error())
		return resp, joined
	}

	s.record(audit.CategoryInfo, "web_upload", "Excel Yüklendi", fmt.Sprintf("Dosya: %s, Kayıt: %d, İşlemi yapan: %s", filename, resp.Rows, actor))
	return resp, nil
}

func (s *ImportService) writeSheet(ctx context.Context, sheet string, records []map[string]any) (int, error) {
	written := 0
	batch := s.store.NewBatch()

	for _, record := range records {
		batch.Add(sheet, record)
		if batch.Len() >= s.batchSize {
			if err := batch.Commit(ctx); err != nil {
				return written, err
			}
			written += s.batchSize
			batch = s.store.NewBatch()
		}
	}

	if batch.Len() > 0 {
		pending := batch.Len()
		if err := batch.Commit(ctx); err != nil {
			return written, err
		}
		written += pending
	}
	return written, nil
}

// cleanSheet normalizes one sheet's grid: all-empty columns are dropped,
// then all-empty rows, remaining blanks become the placeholder, and
// header names are trimmed. Headerless columns that still carry data are
// kept under a positional name.
func cleanSheet(rows [][]string) []map[string]any {
	if len(rows) < 2 {
		return nil
	}
	header := rows[0]
	data := rows[1:]

	width := len(header)
	for _, row := range data {
		if len(row) > width {
			width = len(row)
		}
	}

	keep := make([]int, 0, width)
	for col := 0; col < width; col++ {
		empty := true
		for _, row := range data {
			if cellAt(row, col) != "" {
				empty = false
				break
			}
		}
		if !empty {
			keep = append(keep, col)
		}
	}

	names := make([]string, len(keep))
	for i, col := range keep {
		name := strings.TrimSpace(cellAt(header, col))
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", col)
		}
		names[i] = name
	}

	records := make([]map[string]any, 0, len(data))
	for _, row := range data {
		empty := true
		for _, col := range keep {
			if cellAt(row, col) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}

		record := make(map[string]any, len(keep))
		for i, col := range keep {
			value := cellAt(row, col)
			if value == "" {
				value = emptyPlaceholder
			}
			record[names[i]] = value
		}
		records = append(records, record)
	}
	return records
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func (s *ImportService) record(category, function, message, detail string) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(category, function, message, detail)
}
