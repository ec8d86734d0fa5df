package metrics

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
)

// WriteCSV writes the table to path, replacing any existing file. An empty
// table writes nothing and leaves a previous file untouched; the returned
// bool reports whether a file was written.
func WriteCSV(path string, t *Table) (bool, error) {
	if t.Len() == 0 {
		return false, nil
	}

	file, err := os.Create(path)
	if err != nil {
		return false, fmt.Errorf("create CSV file: %w", err)
	}

	buf := bufio.NewWriter(file)
	w := csv.NewWriter(buf)

	if err := w.Write(t.Columns); err != nil {
		file.Close()
		return false, fmt.Errorf("write CSV header: %w", err)
	}
	for i, r := range t.Records {
		if err := w.Write(t.Row(r)); err != nil {
			file.Close()
			return false, fmt.Errorf("write CSV record %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		file.Close()
		return false, fmt.Errorf("flush CSV: %w", err)
	}
	if err := buf.Flush(); err != nil {
		file.Close()
		return false, fmt.Errorf("flush CSV: %w", err)
	}
	if err := file.Close(); err != nil {
		return false, fmt.Errorf("close CSV file: %w", err)
	}
	return true, nil
}
