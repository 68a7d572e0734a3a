package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"suba-radar/models"
)

// CSVWriter writes a formatted dashboard table to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu   sync.Mutex
	file *os.File
}

// NewCSVWriter creates (or truncates) the CSV file at the given path.
// Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}
	return &CSVWriter{file: f}, nil
}

// WriteTable writes the header and every row. metric names the metric column.
func (c *CSVWriter) WriteTable(metric string, rows []models.TableRow) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return WriteTable(c.file, metric, rows)
}

// Close closes the underlying file.
func (c *CSVWriter) Close() error {
	return c.file.Close()
}

// WriteTable encodes a table as CSV using the spreadsheet's column names.
func WriteTable(w io.Writer, metric string, rows []models.TableRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		models.ColDate, models.ColAccount, metric, models.ColFollowers, models.ColCategories,
	}); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for _, r := range rows {
		if err := cw.Write([]string{r.Date, r.Account, r.Metric, r.FollowersMax, r.Categories}); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
