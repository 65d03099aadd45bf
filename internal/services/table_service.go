package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/almaxtex/inventory-backend/internal/audit"
	"github.com/almaxtex/inventory-backend/internal/dto"
	"github.com/almaxtex/inventory-backend/internal/models"
	"github.com/almaxtex/inventory-backend/internal/store"
	"github.com/almaxtex/inventory-backend/internal/tables"
)

var (
	ErrTableNotFound   = errors.New("table not found")
	ErrConfirmMismatch = errors.New("confirmation does not match the table name")
	ErrNoFields        = errors.New("record has no fields")
)

// TableService backs the view/search/add/update/delete screens. Every
// operation targets exactly one table.
type TableService struct {
	store    store.Store
	registry *tables.Registry
	audit    *audit.Logger
}

func NewTableService(st store.Store, registry *tables.Registry, auditLog *audit.Logger) *TableService {
	return &TableService{store: st, registry: registry, audit: auditLog}
}

func (s *TableService) ListTables(ctx context.Context) ([]string, error) {
	return s.registry.List(ctx)
}

func (s *TableService) CreateTable(ctx context.Context, name string) error {
	return s.registry.Create(ctx, name)
}

// Columns returns the field names of the first document, for the search
// screen's column picker. Schemas are implicit, so this is best-effort;
// a still-empty table falls back to the fixed form field set so the add
// screen has something to render.
func (s *TableService) Columns(ctx context.Context, table string) ([]string, error) {
	if err := s.requireTable(ctx, table); err != nil {
		return nil, err
	}
	docs, err := s.store.Stream(ctx, table, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %q: %w", table, err)
	}
	if len(docs) == 0 {
		return append([]string(nil), models.InventoryFields...), nil
	}
	cols := make([]string, 0, len(docs[0].Fields))
	for name := range docs[0].Fields {
		cols = append(cols, name)
	}
	return cols, nil
}

// View streams every document of a table with its identifier attached.
func (s *TableService) View(ctx context.Context, table string) ([]store.Document, error) {
	if err := s.requireTable(ctx, table); err != nil {
		return nil, err
	}
	docs, err := s.store.Stream(ctx, table, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to stream table %q: %w", table, err)
	}
	return docs, nil
}

// Search is a client-side linear scan: fetch everything, then match the
// chosen field case-insensitively by substring. An empty query returns
// the unfiltered table.
func (s *TableService) Search(ctx context.Context, table, field, query string) ([]store.Document, error) {
	docs, err := s.View(ctx, table)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return docs, nil
	}

	needle := strings.ToLower(query)
	matched := make([]store.Document, 0, len(docs))
	for _, doc := range docs {
		value, ok := doc.Fields[field]
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(fmt.Sprint(value)), needle) {
			matched = append(matched, doc)
		}
	}
	return matched, nil
}

// Add writes one record. A caller-supplied identifier overwrites any
// existing document under that identifier; otherwise the store assigns
// one. The insert date is stamped into Kayit_Tarihi.
func (s *TableService) Add(ctx context.Context, actor, table string, req *dto.AddRecordRequest) (string, error) {
	if err := s.requireTable(ctx, table); err != nil {
		return "", err
	}
	if len(req.Fields) == 0 {
		return "", ErrNoFields
	}

	fields := make(map[string]any, len(req.Fields)+1)
	for k, v := range req.Fields {
		fields[k] = v
	}
	fields["Kayit_Tarihi"] = time.Now().Format(models.RecordDateFormat)

	id := req.ID
	if id != "" {
		if err := s.store.Set(ctx, table, id, fields); err != nil {
			return "", fmt.Errorf("failed to add record: %w", err)
		}
	} else {
		var err error
		id, err = s.store.Add(ctx, table, fields)
		if err != nil {
			return "", fmt.Errorf("failed to add record: %w", err)
		}
	}

	s.record(audit.CategoryAdd, "web_add_new", "Yeni Kayıt Eklendi", "Tablo: "+table+", İşlemi yapan: "+actor)
	return id, nil
}

// BulkUpdate merges every edited row back by identifier, changed or not.
// Merge semantics: fields absent from a row are left untouched.
func (s *TableService) BulkUpdate(ctx context.Context, actor, table string, rows []dto.EditedRow) (int, error) {
	if err := s.requireTable(ctx, table); err != nil {
		return 0, err
	}

	updated := 0
	for _, row := range rows {
		if row.ID == "" {
			continue
		}
		fields := make(map[string]any, len(row.Fields))
		for k, v := range row.Fields {
			fields[k] = v
		}
		if err := s.store.SetMerge(ctx, table, row.ID, fields); err != nil {
			return updated, fmt.Errorf("failed to update record %s: %w", row.ID, err)
		}
		updated++
	}

	s.record(audit.CategoryUpdate, "web_modify_bulk", "Tablo Düzenlendi: "+table,
		fmt.Sprintf("Etkilenen Kayıt Sayısı: %d, İşlemi yapan: %s", updated, actor))
	return updated, nil
}

// DeleteRecords issues one delete per identifier, no batching. A failure
// aborts the remainder; already-deleted records stay deleted.
func (s *TableService) DeleteRecords(ctx context.Context, actor, table string, ids []string) (int, error) {
	if err := s.requireTable(ctx, table); err != nil {
		return 0, err
	}

	deleted := 0
	for _, id := range ids {
		if err := s.store.Delete(ctx, table, id); err != nil {
			return deleted, fmt.Errorf("failed to delete record %s: %w", id, err)
		}
		deleted++
	}

	s.record(audit.CategoryDelete, "web_remove_bulk",
		fmt.Sprintf("%d Kayıt Silindi", deleted), "Tablo: "+table+", İşlemi yapan: "+actor)
	return deleted, nil
}

// DropTable deletes every document of a table one at a time, then removes
// the table from the registry. The operator must retype the table name.
func (s *TableService) DropTable(ctx context.Context, actor, table, confirm string) (int, error) {
	if confirm != table {
		return 0, ErrConfirmMismatch
	}
	if err := s.requireTable(ctx, table); err != nil {
		return 0, err
	}

	docs, err := s.store.Stream(ctx, table, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to stream table %q: %w", table, err)
	}

	deleted := 0
	for _, doc := range docs {
		if err := s.store.Delete(ctx, table, doc.ID); err != nil {
			return deleted, fmt.Errorf("failed to delete record %s: %w", doc.ID, err)
		}
		deleted++
	}

	if err := s.registry.Drop(ctx, table); err != nil && !errors.Is(err, tables.ErrNotFound) {
		return deleted, err
	}

	s.record(audit.CategoryDelete, "web_drop_table",
		"Tablo Silindi: "+table, fmt.Sprintf("Silinen Kayıt Sayısı: %d, İşlemi yapan: %s", deleted, actor))
	return deleted, nil
}

func (s *TableService) requireTable(ctx context.Context, table string) error {
	if models.IsReservedCollection(table) {
		return ErrTableNotFound
	}
	exists, err := s.registry.Exists(ctx, table)
	if err != nil {
		return err
	}
	if !exists {
		return ErrTableNotFound
	}
	return nil
}

func (s *TableService) record(category, function, message, detail string) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(category, function, message, detail)
}
