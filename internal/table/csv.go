package table

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ReadCSV parses CSV content into a table. The first row is the header; all
// cell values stay strings until a declared data type re-types them.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv content has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	t := New(header...)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		row := make(Row, len(header))
		for i, column := range header {
			row[column] = record[i]
		}
		t.Append(row)
	}
	return t, nil
}
