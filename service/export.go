package service

import (
	"fmt"

	"github.com/mispasmin-creator/Store-FMS-sub001/model"
	"github.com/xuri/excelize/v2"
)

// ExportColumn pairs a spreadsheet header with the canonical row field it
// reads from.
type ExportColumn struct {
	Header string
	Field  string
}

// BuildWorkbook renders a projection into a single-sheet xlsx workbook for
// download. Values are written as the projector produced them: strings stay
// strings, numbers stay numbers.
func BuildWorkbook(title string, columns []ExportColumn, rows []model.Row) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", title); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(title, cell, col.Header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		if err := f.SetCellStyle(title, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to style header: %w", err)
		}
	}

	for r, row := range rows {
		for c, col := range columns {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, fmt.Errorf("failed to address cell: %w", err)
			}
			value := row[col.Field]
			if value == nil {
				value = ""
			}
			if err := f.SetCellValue(title, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}
