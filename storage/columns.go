package storage

import (
	"strings"

	"suba-radar/models"
)

type header map[string]int

// readHeader maps column names to indices and fails on missing required columns.
func readHeader(row []string) (header, error) {
	h := make(header, len(row))
	for idx, name := range row {
		name = strings.TrimPrefix(name, "\ufeff")
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := h[key]; !dup {
			h[key] = idx
		}
	}

	var missing []string
	for _, col := range models.RequiredColumns {
		if _, ok := h[strings.ToLower(col)]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &models.DataIntegrityError{
			Column: strings.Join(missing, ", "),
			Reason: "required column missing",
		}
	}
	return h, nil
}

func (h header) valueAt(row []string, column string) string {
	idx, ok := h[strings.ToLower(column)]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// toRaw builds a RawSnapshot from one data row. rowNum is 1-based.
func (h header) toRaw(row []string, rowNum int) *models.RawSnapshot {
	return &models.RawSnapshot{
		Row:             rowNum,
		Date:            h.valueAt(row, models.ColDate),
		Account:         h.valueAt(row, models.ColAccount),
		FollowersMax:    models.ParseRawValue(h.valueAt(row, models.ColFollowers)),
		FollowersGrowth: models.ParseRawValue(h.valueAt(row, models.ColGrowth)),
		EngagementRate:  models.ParseRawValue(h.valueAt(row, models.ColEngagement)),
		Categories:      h.valueAt(row, models.ColCategories),
		Verified:        h.valueAt(row, models.ColVerified),
		IsBrand:         h.valueAt(row, models.ColIsBrand),
		Cluster:         h.valueAt(row, models.ColCluster),
	}
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
