package tabfile

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/idveil/idveil/internal/table"
)

func loadCSV(path string) ([]*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse csv: no header row")
	}

	header := records[0]
	if err := checkColumns(header); err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	t := table.New("", header)
	for _, rec := range records[1:] {
		row := table.Row{}
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		t.AppendRow(row)
	}
	return []*table.Table{t}, nil
}

func writeCSV(path string, tables []*table.Table) error {
	if len(tables) != 1 {
		return fmt.Errorf("csv output holds exactly one table, got %d", len(tables))
	}
	t := tables[0]

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		f.Close()
		return fmt.Errorf("write csv header: %w", err)
	}
	rec := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			rec[i] = row[col]
		}
		if err := w.Write(rec); err != nil {
			f.Close()
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush csv: %w", err)
	}
	return f.Close()
}
