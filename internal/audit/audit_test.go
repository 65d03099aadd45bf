package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func newTestLogger(t *testing.T) (*Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loglar.xlsx")
	return NewLogger(path), path
}

func TestRecordCreatesWorkbookWithHeader(t *testing.T) {
	logger, path := newTestLogger(t)

	if err := logger.Record(CategoryAdd, "web_add_new", "Kayıt eklendi", "Tablo: Makineler"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("workbook not created: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus one row, got %d rows", len(rows))
	}
	for i, want := range []string{"Tarih_Saat", "İşlem_Türü", "Fonksiyon", "Mesaj", "Teknik_Detay"} {
		if rows[0][i] != want {
			t.Fatalf("header mismatch: %v", rows[0])
		}
	}
	if rows[1][1] != CategoryAdd || rows[1][2] != "web_add_new" {
		t.Fatalf("unexpected first row: %v", rows[1])
	}
}

func TestRecordDefaultsEmptyDetail(t *testing.T) {
	logger, path := newTestLogger(t)

	if err := logger.Record(CategoryInfo, "web_upload", "Excel Yüklendi", ""); err != nil {
		t.Fatalf("record: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, _ := f.GetRows("Sheet1")
	if rows[1][4] != "-" {
		t.Fatalf("empty detail not replaced: %v", rows[1])
	}
}

func TestAppendGrowsExistingWorkbook(t *testing.T) {
	logger, _ := newTestLogger(t)

	for i := 0; i < 3; i++ {
		msg := fmt.Sprintf("mesaj %d", i)
		if err := logger.Record(CategoryUpdate, "web_modify_bulk", msg, "-"); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	entries, err := logger.Tail(0)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	// Newest first.
	if entries[0].Message != "mesaj 2" || entries[2].Message != "mesaj 0" {
		t.Fatalf("wrong ordering: %+v", entries)
	}
}

func TestTailLimitsAndMissingFile(t *testing.T) {
	logger, _ := newTestLogger(t)

	entries, err := logger.Tail(10)
	if err != nil {
		t.Fatalf("tail on missing file: %v", err)
	}
	if entries != nil {
		t.Fatalf("expected no entries before first record, got %+v", entries)
	}

	for i := 0; i < 5; i++ {
		if err := logger.Record(CategoryError, "web_remove_bulk", fmt.Sprintf("hata %d", i), "-"); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	entries, err = logger.Tail(2)
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "hata 4" || entries[1].Message != "hata 3" {
		t.Fatalf("wrong tail window: %+v", entries)
	}
	if entries[0].Category != CategoryError {
		t.Fatalf("category lost on round trip: %+v", entries[0])
	}
}
