package services

import (
	"math"
	"strconv"
	"strings"
	"time"

	"suba-radar/models"
	"suba-radar/utils"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02/01/2006",
	"02/01/2006 15:04:05",
}

// Normalizer turns RawSnapshots into Snapshots that satisfy the table invariants.
type Normalizer struct {
	logger *utils.Logger
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize converts every raw row, preserving count and order. The first
// malformed row aborts the load with a *models.DataIntegrityError.
func (n *Normalizer) Normalize(raw []*models.RawSnapshot) ([]*models.Snapshot, error) {
	result := make([]*models.Snapshot, 0, len(raw))
	var missingReach, uncategorised int

	for i, r := range raw {
		row := r.Row
		if row == 0 {
			row = i + 1
		}

		date, err := parseDate(r.Date)
		if err != nil {
			return nil, integrityError(row, models.ColDate, r.Date, err.Error())
		}

		if r.FollowersMax.Kind == models.Missing {
			missingReach++
		}
		followers, err := parseReach(r.FollowersMax)
		if err != nil {
			return nil, integrityError(row, models.ColFollowers, r.FollowersMax.String(), err.Error())
		}

		growth, err := parseFraction(r.FollowersGrowth)
		if err != nil {
			return nil, integrityError(row, models.ColGrowth, r.FollowersGrowth.String(), err.Error())
		}

		er, err := parseFraction(r.EngagementRate)
		if err != nil {
			return nil, integrityError(row, models.ColEngagement, r.EngagementRate.String(), err.Error())
		}

		verified, err := ParseFlag(r.Verified)
		if err != nil {
			return nil, integrityError(row, models.ColVerified, r.Verified, err.Error())
		}

		isBrand, err := ParseFlag(r.IsBrand)
		if err != nil {
			return nil, integrityError(row, models.ColIsBrand, r.IsBrand, err.Error())
		}

		s := &models.Snapshot{
			Date:            date,
			Account:         strings.TrimSpace(r.Account),
			FollowersMax:    followers,
			FollowersGrowth: growth,
			EngagementRate:  er,
			Categories:      strings.TrimSpace(r.Categories),
			Verified:        verified,
			IsBrand:         isBrand,
			Cluster:         strings.TrimSpace(r.Cluster),
		}
		if !s.HasCategories() {
			uncategorised++
		}

		result = append(result, s)
	}

	n.logger.Info("[normalizer] Normalized %d rows (%d without categories, %d with missing reach)",
		len(result), uncategorised, missingReach)
	return result, nil
}

func integrityError(row int, column, value, reason string) *models.DataIntegrityError {
	return &models.DataIntegrityError{Row: row, Column: column, Value: value, Reason: reason}
}

// parseDate accepts the layouts spreadsheets commonly export and drops the
// time of day.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errString("missing date")
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, errString("unrecognised date format")
}

// parseFraction reads a ratio. Text such as "5%" or "5,3%" is a percentage and
// is divided by 100; numbers are assumed to be fractions already.
func parseFraction(v models.RawValue) (float64, error) {
	switch v.Kind {
	case models.Missing:
		return 0, nil
	case models.Number:
		if math.IsNaN(v.Number) || math.IsInf(v.Number, 0) {
			return 0, errString("not a finite number")
		}
		return v.Number, nil
	}

	text := strings.TrimSpace(v.Text)
	if !strings.HasSuffix(text, "%") {
		return 0, errString("expected a number or a percentage")
	}
	text = strings.TrimSpace(strings.TrimSuffix(text, "%"))
	text = strings.Replace(text, ",", ".", 1)
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, errString("malformed percentage")
	}
	return f / 100, nil
}

func parseReach(v models.RawValue) (float64, error) {
	switch v.Kind {
	case models.Missing:
		return 0, nil
	case models.Text:
		return 0, errString("expected a number")
	}
	if math.IsNaN(v.Number) {
		return 0, nil
	}
	if math.IsInf(v.Number, 0) {
		return 0, errString("not a finite number")
	}
	if v.Number < 0 {
		return 0, errString("follower count cannot be negative")
	}
	return v.Number, nil
}

// ParseFlag reads the boolean-like literals found in the dataset. An empty
// cell is false.
func ParseFlag(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "false", "0", "no", "n", "não", "nao", "falso", "f":
		return false, nil
	case "true", "1", "yes", "y", "sim", "s", "verdadeiro", "v", "t":
		return true, nil
	}
	return false, errString("unrecognised flag value")
}

type errString string

func (e errString) Error() string { return string(e) }
