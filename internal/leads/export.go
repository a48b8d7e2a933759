package leads

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	ExportFilename   = "labgrowth_leads.xlsx"
	leadsSheet       = "Leads"
	selectionsSheet  = "Selections"
	exportTimeLayout = "2006-01-02 15:04"
)

var (
	leadHeaders      = []any{"Created", "Name", "Email", "Lab", "Phone", "Goal", "Source"}
	selectionHeaders = []any{"Created", "Name", "Email", "Bundle", "Months", "Final price"}
)

// WriteWorkbook writes leads and selections as two sheets of an XLSX file.
func WriteWorkbook(w io.Writer, leads []Lead, selections []SelectionListItem) error {
	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	if err := xl.SetSheetName(xl.GetSheetName(0), leadsSheet); err != nil {
		return fmt.Errorf("rename leads sheet: %w", err)
	}
	if _, err := xl.NewSheet(selectionsSheet); err != nil {
		return fmt.Errorf("create selections sheet: %w", err)
	}

	header, err := xl.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	leadRows := make([][]any, 0, len(leads))
	for _, l := range leads {
		leadRows = append(leadRows, []any{formatTime(l.CreatedAt), l.Name, l.Email, l.LabName, l.Phone, l.GoalID, l.Source})
	}
	if err := writeSheet(xl, leadsSheet, leadHeaders, leadRows, header); err != nil {
		return err
	}

	selectionRows := make([][]any, 0, len(selections))
	for _, s := range selections {
		selectionRows = append(selectionRows, []any{formatTime(s.CreatedAt), s.Name, s.Email, s.BundleKey, s.Months, s.FinalPrice})
	}
	if err := writeSheet(xl, selectionsSheet, selectionHeaders, selectionRows, header); err != nil {
		return err
	}

	if err := xl.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(xl *excelize.File, sheet string, headers []any, rows [][]any, headerStyle int) error {
	if err := xl.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return fmt.Errorf("resolve %s header range: %w", sheet, err)
	}
	if err := xl.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("resolve %s row %d: %w", sheet, i, err)
		}
		if err := xl.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i, err)
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(exportTimeLayout)
}
