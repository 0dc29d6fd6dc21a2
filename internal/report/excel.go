package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"expensebot/internal/domain"
)

const (
	sheetExpenses = "Expenses"
	sheetSummary  = "Summary"

	// NoGroup labels rows without a resolvable group, including stale
	// references to deleted groups.
	NoGroup = "No group"
)

// Row is one spreadsheet line. Date is carried as the literal string that
// lands in the cell, so already-formatted input passes through untouched.
type Row struct {
	Date   string
	Amount float64
	Reason string
	Group  string
}

// BuildRows projects expenses into spreadsheet rows, resolving group names
// through the given map.
func BuildRows(expenses []domain.Expense, names map[domain.GroupID]string) []Row {
	rows := make([]Row, 0, len(expenses))
	for _, e := range expenses {
		group := NoGroup
		if e.GroupID != "" {
			if name, ok := names[e.GroupID]; ok {
				group = name
			}
		}
		rows = append(rows, Row{
			Date:   e.Date.Format("2006-01-02"),
			Amount: e.Amount,
			Reason: e.Reason,
			Group:  group,
		})
	}
	return rows
}

// Render produces an xlsx workbook with an Expenses sheet and a Summary
// sheet. The average is zero when there are no rows.
func Render(rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetExpenses); err != nil {
		return nil, fmt.Errorf("report: rename sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("report: header style: %w", err)
	}

	if err := f.SetSheetRow(sheetExpenses, "A1", &[]interface{}{"Date", "Amount", "Reason", "Group"}); err != nil {
		return nil, fmt.Errorf("report: header row: %w", err)
	}
	if err := f.SetCellStyle(sheetExpenses, "A1", "D1", header); err != nil {
		return nil, fmt.Errorf("report: header row: %w", err)
	}

	var total float64
	for i, r := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetExpenses, cell, &[]interface{}{r.Date, r.Amount, r.Reason, r.Group}); err != nil {
			return nil, fmt.Errorf("report: row %d: %w", i+2, err)
		}
		total += r.Amount
	}
	_ = f.SetColWidth(sheetExpenses, "A", "A", 12)
	_ = f.SetColWidth(sheetExpenses, "C", "D", 24)

	if _, err := f.NewSheet(sheetSummary); err != nil {
		return nil, fmt.Errorf("report: summary sheet: %w", err)
	}

	mean := 0.0
	if len(rows) > 0 {
		mean = total / float64(len(rows))
	}
	summary := [][]interface{}{
		{"Metric", "Value"},
		{"Total Expenses", len(rows)},
		{"Total Amount", total},
		{"Average Amount", mean},
	}
	for i, line := range summary {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheetSummary, cell, &line); err != nil {
			return nil, fmt.Errorf("report: summary row %d: %w", i+1, err)
		}
	}
	if err := f.SetCellStyle(sheetSummary, "A1", "B1", header); err != nil {
		return nil, fmt.Errorf("report: summary header: %w", err)
	}
	_ = f.SetColWidth(sheetSummary, "A", "B", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("report: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
