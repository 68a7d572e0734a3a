package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"suba-radar/models"
)

// CSVSource reads the dataset from a CSV export of the spreadsheet.
type CSVSource struct {
	path      string
	delimiter rune
}

// NewCSVSource creates a CSVSource. A zero delimiter means ','.
func NewCSVSource(path string, delimiter rune) *CSVSource {
	if delimiter == 0 {
		delimiter = ','
	}
	return &CSVSource{path: path, delimiter: delimiter}
}

// Load reads every data row. A missing header column aborts the load.
func (s *CSVSource) Load(ctx context.Context) ([]*models.RawSnapshot, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", s.path, err)
	}
	defer f.Close()

	return readCSV(ctx, f, s.delimiter)
}

func readCSV(ctx context.Context, r io.Reader, delimiter rune) ([]*models.RawSnapshot, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1

	first, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &models.DataIntegrityError{Reason: "empty file"}
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	h, err := readHeader(first)
	if err != nil {
		return nil, err
	}

	var rows []*models.RawSnapshot
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row %d: %w", n, err)
		}
		if blank(rec) {
			continue
		}
		rows = append(rows, h.toRaw(rec, n))
	}
	return rows, nil
}
