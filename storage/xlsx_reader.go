package storage

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"suba-radar/models"
)

// XLSXSource reads the dataset from an Excel workbook.
type XLSXSource struct {
	path  string
	sheet string
}

// NewXLSXSource creates an XLSXSource. An empty sheet selects the first one.
func NewXLSXSource(path, sheet string) *XLSXSource {
	return &XLSXSource{path: path, sheet: sheet}
}

// Load reads raw cell values so numbers keep their stored precision. Date
// cells stored as serial numbers are converted to ISO timestamps.
func (s *XLSXSource) Load(ctx context.Context) ([]*models.RawSnapshot, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open %q: %w", s.path, err)
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	grid, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("xlsx: read sheet %q: %w", sheet, err)
	}
	if len(grid) == 0 {
		return nil, &models.DataIntegrityError{Reason: fmt.Sprintf("sheet %q is empty", sheet)}
	}

	h, err := readHeader(grid[0])
	if err != nil {
		return nil, err
	}
	dateIdx := h[strings.ToLower(models.ColDate)]

	rows := make([]*models.RawSnapshot, 0, len(grid)-1)
	for i, rec := range grid[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if blank(rec) {
			continue
		}
		if dateIdx < len(rec) {
			rec[dateIdx] = serialToDate(rec[dateIdx])
		}
		rows = append(rows, h.toRaw(rec, i+1))
	}
	return rows, nil
}

// serialToDate rewrites an Excel serial date; any other value is returned as is.
func serialToDate(v string) string {
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil || serial <= 0 {
		return v
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return v
	}
	return t.Format("2006-01-02 15:04:05")
}
