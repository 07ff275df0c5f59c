package tabfile

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/idveil/idveil/internal/table"
)

func loadXLSX(path string) ([]*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var tables []*table.Table
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		if len(rows) == 0 {
			tables = append(tables, table.New(sheet, nil))
			continue
		}
		header := rows[0]
		if err := checkColumns(header); err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		t := table.New(sheet, header)
		for _, rec := range rows[1:] {
			row := table.Row{}
			for i, col := range header {
				if i < len(rec) {
					row[col] = rec[i]
				}
			}
			t.AppendRow(row)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func writeXLSX(path string, tables []*table.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, t := range tables {
		sheet := t.Name
		if sheet == "" {
			sheet = "Sheet1"
		}
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("name sheet %s: %w", sheet, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("add sheet %s: %w", sheet, err)
		}
		for c, col := range t.Columns {
			cell, err := excelize.CoordinatesToCellName(c+1, 1)
			if err != nil {
				return fmt.Errorf("sheet %s: %w", sheet, err)
			}
			if err := f.SetCellValue(sheet, cell, col); err != nil {
				return fmt.Errorf("write header %s: %w", sheet, err)
			}
		}
		for r, row := range t.Rows {
			for c, col := range t.Columns {
				val := row[col]
				if val == "" {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+2)
				if err != nil {
					return fmt.Errorf("sheet %s: %w", sheet, err)
				}
				if err := f.SetCellValue(sheet, cell, val); err != nil {
					return fmt.Errorf("write cell %s!%s: %w", sheet, cell, err)
				}
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
