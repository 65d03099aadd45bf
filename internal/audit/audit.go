// Package audit appends operation records to an xlsx workbook on local
// disk, parallel to the document store. The file is created on first use
// and only ever grows; rows are never rewritten.
package audit

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
)

// Operation categories, matching the historical log file contents.
const (
	CategoryAdd    = "EKLEME"
	CategoryUpdate = "GÜNCELLEME"
	CategoryDelete = "SİLME"
	CategoryInfo   = "BİLGİ"
	CategoryError  = "HATA"
)

const (
	sheetName       = "Sheet1"
	timestampFormat = "02.01.2006 15:04:05"
)

var header = []string{"Tarih_Saat", "İşlem_Türü", "Fonksiyon", "Mesaj", "Teknik_Detay"}

// Entry is one audit row.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Category  string    `json:"category"`
	Function  string    `json:"function"`
	Message   string    `json:"message"`
	Detail    string    `json:"detail"`
}

// Logger serializes appends to the audit workbook.
type Logger struct {
	mu   sync.Mutex
	path string
}

func NewLogger(path string) *Logger {
	return &Logger{path: path}
}

// Record appends one entry. The detail column defaults to "-" when empty,
// so the workbook never holds blank cells.
func (l *Logger) Record(category, function, message, detail string) error {
	if detail == "" {
		detail = "-"
	}
	return l.Append(Entry{
		Timestamp: time.Now(),
		Category:  category,
		Function:  function,
		Message:   message,
		Detail:    detail,
	})
}

func (l *Logger) Append(e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, created, err := l.open()
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	next := 2
	if !created {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			return fmt.Errorf("failed to read audit sheet: %w", err)
		}
		next = len(rows) + 1
	}

	cell, err := excelize.CoordinatesToCellName(1, next)
	if err != nil {
		return err
	}
	row := []any{e.Timestamp.Format(timestampFormat), e.Category, e.Function, e.Message, e.Detail}
	if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
		return fmt.Errorf("failed to append audit row: %w", err)
	}

	if err := f.SaveAs(l.path); err != nil {
		return fmt.Errorf("failed to save audit workbook: %w", err)
	}
	return nil
}

// Tail returns the most recent n entries, newest first. n <= 0 returns
// everything.
func (l *Logger) Tail(n int) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		return nil, nil
	}

	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read audit sheet: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	data := rows[1:]
	if n > 0 && len(data) > n {
		data = data[len(data)-n:]
	}

	entries := make([]Entry, 0, len(data))
	for i := len(data) - 1; i >= 0; i-- {
		entries = append(entries, entryFromRow(data[i]))
	}
	return entries, nil
}

func (l *Logger) open() (*excelize.File, bool, error) {
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		f := excelize.NewFile()
		cell, _ := excelize.CoordinatesToCellName(1, 1)
		cols := make([]any, len(header))
		for i, h := range header {
			cols[i] = h
		}
		if err := f.SetSheetRow(sheetName, cell, &cols); err != nil {
			return nil, false, fmt.Errorf("failed to write audit header: %w", err)
		}
		return f, true, nil
	}

	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open audit workbook: %w", err)
	}
	return f, false, nil
}

func entryFromRow(row []string) Entry {
	var e Entry
	if len(row) > 0 {
		if t, err := time.ParseInLocation(timestampFormat, row[0], time.Local); err == nil {
			e.Timestamp = t
		}
	}
	if len(row) > 1 {
		e.Category = row[1]
	}
	if len(row) > 2 {
		e.Function = row[2]
	}
	if len(row) > 3 {
		e.Message = row[3]
	}
	if len(row) > 4 {
		e.Detail = row[4]
	}
	return e
}
