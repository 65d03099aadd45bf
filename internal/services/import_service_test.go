package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/almaxtex/inventory-backend/internal/store"
	"github.com/almaxtex/inventory-backend/internal/tables"
	"github.com/xuri/excelize/v2"
)

type sheetDef struct {
	name string
	rows [][]any
}

func buildWorkbook(t *testing.T, sheets []sheetDef) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else {
			if _, err := f.NewSheet(sheet.name); err != nil {
				t.Fatalf("new sheet: %v", err)
			}
		}
		for r, row := range sheet.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetSheetRow(sheet.name, cell, &row); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("serialize workbook: %v", err)
	}
	return buf.Bytes()
}

func newImportFixture(batchSize int) (*ImportService, store.Store, *tables.Registry) {
	st := store.NewMemoryStore()
	reg := tables.NewRegistry(st)
	return NewImportService(st, reg, nil, batchSize), st, reg
}

func TestImportTwoSheetWorkbook(t *testing.T) {
	svc, st, _ := newImportFixture(400)
	ctx := context.Background()

	data := buildWorkbook(t, []sheetDef{
		{name: "Makineler", rows: [][]any{
			{"Seri No", "Departman", "Lokasyon"},
			{"A-100", "Dikim", "Depo"},
			{"A-101", "Kesim", "Atölye"},
			{"A-102", "Dikim", "Depo"},
		}},
		{name: "Parçalar", rows: [][]any{
			{"Parça No", "Adet"},
			{"P-1", "12"},
		}},
	})

	resp, err := svc.Import(ctx, "tester", "envanter.xlsx", data)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if resp.Rows != 4 {
		t.Fatalf("expected 4 imported rows, got %d", resp.Rows)
	}
	if len(resp.Sheets) != 2 || resp.Sheets[0].Rows != 3 || resp.Sheets[1].Rows != 1 {
		t.Fatalf("unexpected per-sheet counts: %+v", resp.Sheets)
	}

	docs, _ := st.Stream(ctx, "Makineler", 0)
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents in Makineler, got %d", len(docs))
	}
	docs, _ = st.Stream(ctx, "Parçalar", 0)
	if len(docs) != 1 {
		t.Fatalf("expected 1 document in Parçalar, got %d", len(docs))
	}
}

func TestImportCleansGrid(t *testing.T) {
	svc, st, _ := newImportFixture(400)
	ctx := context.Background()

	// Column C is entirely empty, the third data row is entirely empty,
	// and one cell is blank.
	data := buildWorkbook(t, []sheetDef{
		{name: "Makineler", rows: [][]any{
			{" Seri No ", "Departman", ""},
			{"A-100", "", ""},
			{"A-101", "Kesim", ""},
			{"", "", ""},
		}},
	})

	resp, err := svc.Import(ctx, "tester", "kirli.xlsx", data)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if resp.Rows != 2 {
		t.Fatalf("expected the empty row to be dropped, got %d rows", resp.Rows)
	}

	docs, _ := st.Stream(ctx, "Makineler", 0)
	for _, doc := range docs {
		if len(doc.Fields) != 2 {
			t.Fatalf("expected the empty column to be dropped, got %v", doc.Fields)
		}
		// Headers are trimmed; blanks become the placeholder.
		if _, ok := doc.Fields["Seri No"]; !ok {
			t.Fatalf("header not normalized: %v", doc.Fields)
		}
		for name, value := range doc.Fields {
			if value == "" || value == nil {
				t.Fatalf("field %q is empty after import", name)
			}
		}
	}

	found := false
	for _, doc := range docs {
		if doc.Fields["Departman"] == "None" {
			found = true
		}
	}
	if !found {
		t.Fatalf("blank cell was not replaced with placeholder: %v", docs)
	}
}

func TestImportFlushesInChunks(t *testing.T) {
	svc, st, _ := newImportFixture(2)
	ctx := context.Background()

	rows := [][]any{{"Seri No"}}
	for i := 0; i < 5; i++ {
		rows = append(rows, []any{fmt.Sprintf("A-%d", i)})
	}
	data := buildWorkbook(t, []sheetDef{{name: "Makineler", rows: rows}})

	resp, err := svc.Import(ctx, "tester", "parcali.xlsx", data)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if resp.Rows != 5 {
		t.Fatalf("expected 5 rows across chunked batches, got %d", resp.Rows)
	}

	docs, _ := st.Stream(ctx, "Makineler", 0)
	if len(docs) != 5 {
		t.Fatalf("expected 5 documents, got %d", len(docs))
	}
}

func TestImportRegistersTables(t *testing.T) {
	svc, _, reg := newImportFixture(400)
	ctx := context.Background()

	data := buildWorkbook(t, []sheetDef{
		{name: "Makineler", rows: [][]any{{"Seri No"}, {"A-100"}}},
	})
	if _, err := svc.Import(ctx, "tester", "f.xlsx", data); err != nil {
		t.Fatalf("import: %v", err)
	}

	names, err := reg.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 1 || names[0] != "Makineler" {
		t.Fatalf("imported table not registered: %v", names)
	}
}

func TestImportDuplicatesOnRerun(t *testing.T) {
	svc, st, _ := newImportFixture(400)
	ctx := context.Background()

	data := buildWorkbook(t, []sheetDef{
		{name: "Makineler", rows: [][]any{{"Seri No"}, {"A-100"}}},
	})
	for i := 0; i < 2; i++ {
		if _, err := svc.Import(ctx, "tester", "f.xlsx", data); err != nil {
			t.Fatalf("import %d: %v", i, err)
		}
	}

	// Identifiers are store-assigned, so re-importing duplicates rows.
	docs, _ := st.Stream(ctx, "Makineler", 0)
	if len(docs) != 2 {
		t.Fatalf("expected duplicated rows on rerun, got %d", len(docs))
	}
}

func TestImportMalformedWorkbookFailsBeforeWrites(t *testing.T) {
	svc, st, _ := newImportFixture(400)
	ctx := context.Background()

	_, err := svc.Import(ctx, "tester", "bozuk.xlsx", []byte("this is not a workbook"))
	if !errors.Is(err, ErrMalformedWorkbook) {
		t.Fatalf("expected ErrMalformedWorkbook, got %v", err)
	}

	names, _ := st.ListCollections(ctx)
	if len(names) != 0 {
		t.Fatalf("malformed workbook still wrote collections: %v", names)
	}
}

func TestImportSkipsHeaderOnlySheets(t *testing.T) {
	svc, st, _ := newImportFixture(400)
	ctx := context.Background()

	data := buildWorkbook(t, []sheetDef{
		{name: "Bos", rows: [][]any{{"Seri No", "Departman"}}},
	})
	resp, err := svc.Import(ctx, "tester", "bos.xlsx", data)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if resp.Rows != 0 {
		t.Fatalf("expected no rows from a header-only sheet, got %d", resp.Rows)
	}

	names, _ := st.ListCollections(ctx)
	if len(names) != 0 {
		t.Fatalf("header-only sheet created collections: %v", names)
	}
}
