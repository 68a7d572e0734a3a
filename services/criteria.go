package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"suba-radar/models"
)

// Query parameter names understood by CriteriaFromQuery.
const (
	ParamStart    = "start"
	ParamEnd      = "end"
	ParamFromIdx  = "from_idx"
	ParamToIdx    = "to_idx"
	ParamAccount  = "account"
	ParamCategory = "category"
	ParamVerified = "verified"
	ParamBrand    = "brand"
	ParamCluster  = "cluster"
)

// CriteriaFromQuery builds Criteria from repeated query parameters.
// from_idx/to_idx pick dates from opts.Dates like the range slider and win
// over start/end. Blank values are ignored.
func CriteriaFromQuery(q map[string][]string, opts models.FilterOptions) (models.Criteria, error) {
	var c models.Criteria
	var err error

	if c.Start, err = queryDate(q, ParamStart); err != nil {
		return c, err
	}
	if c.End, err = queryDate(q, ParamEnd); err != nil {
		return c, err
	}

	from, hasFrom, err := queryInt(q, ParamFromIdx)
	if err != nil {
		return c, err
	}
	to, hasTo, err := queryInt(q, ParamToIdx)
	if err != nil {
		return c, err
	}
	if hasFrom || hasTo {
		if !hasFrom {
			from = 0
		}
		if !hasTo {
			to = len(opts.Dates) - 1
		}
		c.Start, c.End = opts.DateRange(from, to)
	}

	c.Accounts = queryStrings(q, ParamAccount)
	c.Categories = queryStrings(q, ParamCategory)
	c.Clusters = queryStrings(q, ParamCluster)

	if c.Verified, err = queryFlags(q, ParamVerified); err != nil {
		return c, err
	}
	if c.IsBrand, err = queryFlags(q, ParamBrand); err != nil {
		return c, err
	}
	return c, nil
}

func queryStrings(q map[string][]string, key string) []string {
	var out []string
	for _, v := range q[key] {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func queryDate(q map[string][]string, key string) (time.Time, error) {
	v := lastValue(q, key)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: want YYYY-MM-DD", key, v)
	}
	return t, nil
}

func queryInt(q map[string][]string, key string) (int, bool, error) {
	v := lastValue(q, key)
	if v == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s %q: want an integer", key, v)
	}
	return n, true, nil
}

func queryFlags(q map[string][]string, key string) ([]bool, error) {
	var out []bool
	for _, v := range queryStrings(q, key) {
		b, err := ParseFlag(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		out = append(out, b)
	}
	return out, nil
}

func lastValue(q map[string][]string, key string) string {
	values := q[key]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[len(values)-1])
}
