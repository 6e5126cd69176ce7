// Package export writes tabular reports as XLSX workbooks with excelize.
package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Column describes one spreadsheet column
type Column struct {
	Header string
	Width  float64
	Money  bool
}

// Sheet is one worksheet of rows under a header line
type Sheet struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// WriteXLSX writes the sheets as a workbook to w
func WriteXLSX(w io.Writer, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return errors.New("export: no sheets")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "#9CA3AF", Style: 1}},
	})
	if err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("export: money style: %w", err)
	}

	for i, sheet := range sheets {
		name := sheet.Name
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}

		if err := writeSheet(f, name, sheet, headerStyle, moneyStyle); err != nil {
			return fmt.Errorf("export: sheet %s: %w", name, err)
		}
	}

	return f.Write(w)
}

func writeSheet(f *excelize.File, name string, sheet Sheet, headerStyle, moneyStyle int) error {
	headers := make([]any, len(sheet.Columns))
	for i, c := range sheet.Columns {
		headers[i] = c.Header
	}
	if err := f.SetSheetRow(name, "A1", &headers); err != nil {
		return err
	}

	for r, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return err
		}
	}

	if len(sheet.Columns) == 0 {
		return nil
	}

	last, err := excelize.ColumnNumberToName(len(sheet.Columns))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", last+"1", headerStyle); err != nil {
		return err
	}

	for i, c := range sheet.Columns {
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		width := c.Width
		if width == 0 {
			width = 16
		}
		if err := f.SetColWidth(name, colName, colName, width); err != nil {
			return err
		}
		if c.Money && len(sheet.Rows) > 0 {
			if err := f.SetCellStyle(name, colName+"2", fmt.Sprintf("%s%d", colName, len(sheet.Rows)+1), moneyStyle); err != nil {
				return err
			}
		}
	}

	return f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
