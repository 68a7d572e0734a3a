package models

import "time"

// EmptyCategory is the filter value that selects rows without category data.
const EmptyCategory = "Vazio"

// Snapshot is one account's normalised metrics for one calendar date.
// Growth and engagement are fractions (0.05 == 5%).
type Snapshot struct {
	Date            time.Time
	Account         string
	FollowersMax    float64
	FollowersGrowth float64
	EngagementRate  float64
	Categories      string
	Verified        bool
	IsBrand         bool
	Cluster         string
}

// HasCategories reports whether the row carries any category data.
func (s *Snapshot) HasCategories() bool {
	return s.Categories != ""
}

// Raw converts a normalised snapshot back into source form.
// Normalising the result yields an identical snapshot.
func (s *Snapshot) Raw() *RawSnapshot {
	raw := &RawSnapshot{
		Date:            s.Date.Format("2006-01-02"),
		Account:         s.Account,
		FollowersMax:    NumberValue(s.FollowersMax),
		FollowersGrowth: NumberValue(s.FollowersGrowth),
		EngagementRate:  NumberValue(s.EngagementRate),
		Categories:      s.Categories,
		Verified:        "false",
		IsBrand:         "false",
		Cluster:         s.Cluster,
	}
	if s.Verified {
		raw.Verified = "true"
	}
	if s.IsBrand {
		raw.IsBrand = "true"
	}
	return raw
}

// RawSnapshot holds one unprocessed row exactly as a source produced it.
type RawSnapshot struct {
	Row             int
	Date            string
	Account         string
	FollowersMax    RawValue
	FollowersGrowth RawValue
	EngagementRate  RawValue
	Categories      string
	Verified        string
	IsBrand         string
	Cluster         string
}

// Criteria selects a subset of the table. Zero Start/End are open bounds and
// empty slices place no restriction on their field.
type Criteria struct {
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Accounts   []string  `json:"accounts,omitempty"`
	Categories []string  `json:"categories,omitempty"`
	Verified   []bool    `json:"verified,omitempty"`
	IsBrand    []bool    `json:"is_brand,omitempty"`
	Clusters   []string  `json:"clusters,omitempty"`
}
