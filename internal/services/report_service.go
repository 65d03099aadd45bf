package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/almaxtex/inventory-backend/internal/dto"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Rapor"

// ReportService builds the analysis screen's numbers and the table
// export workbook.
type ReportService struct {
	tables *TableService
}

func NewReportService(tables *TableService) *ReportService {
	return &ReportService{tables: tables}
}

// ColumnDistribution counts the distinct values of one column across a
// table. Missing fields count under the "-" bucket, so every record is
// represented.
func (s *ReportService) ColumnDistribution(ctx context.Context, table, column string) (*dto.DistributionResponse, error) {
	docs, err := s.tables.View(ctx, table)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, doc := range docs {
		value := "-"
		if v, ok := doc.Fields[column]; ok {
			value = fmt.Sprint(v)
		}
		counts[value]++
	}

	return &dto.DistributionResponse{
		Table:  table,
		Column: column,
		Total:  len(docs),
		Counts: counts,
	}, nil
}

// Export renders the whole table as a single-sheet workbook. Columns are
// the sorted union of every document's field names, since schemas vary
// row to row.
func (s *ReportService) Export(ctx context.Context, table string) ([]byte, error) {
	docs, err := s.tables.View(ctx, table)
	if err != nil {
		return nil, err
	}

	columnSet := make(map[string]struct{})
	for _, doc := range docs {
		for name := range doc.Fields {
			columnSet[name] = struct{}{}
		}
	}
	columns := make([]string, 0, len(columnSet))
	for name := range columnSet {
		columns = append(columns, name)
	}
	sort.Strings(columns)

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create report sheet: %w", err)
	}
	f.SetActiveSheet(index)

	header := make([]any, 0, len(columns)+1)
	header = append(header, "Dokuman_ID")
	for _, name := range columns {
		header = append(header, name)
	}
	cell, _ := excelize.CoordinatesToCellName(1, 1)
	if err := f.SetSheetRow(exportSheet, cell, &header); err != nil {
		return nil, fmt.Errorf("failed to write report header: %w", err)
	}

	for i, doc := range docs {
		row := make([]any, 0, len(columns)+1)
		row = append(row, doc.ID)
		for _, name := range columns {
			if v, ok := doc.Fields[name]; ok {
				row = append(row, fmt.Sprint(v))
			} else {
				row = append(row, "-")
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write report row: %w", err)
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize report: %w", err)
	}
	return buf.Bytes(), nil
}
