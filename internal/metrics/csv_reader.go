package metrics

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// ReadCSV reads a results CSV written by WriteCSV. The header becomes the
// table's column list and blank cells are treated as missing fields.
func ReadCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open results CSV: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	t := NewTable("", header)
	rowCount := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row %d: %w", rowCount+2, err)
		}

		r := make(Record, len(header))
		for i, col := range header {
			if i < len(row) && row[i] != "" {
				r[col] = row[i]
			}
		}
		if v, ok := r[FieldIPVersion]; ok && t.IPVersion == "" {
			t.IPVersion = v
		}

		t.Append(r)
		rowCount++
	}

	return t, nil
}
