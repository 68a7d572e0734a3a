package services

import (
	"sort"

	"suba-radar/models"
)

// CategoryRow pairs a snapshot with one of its category tokens.
type CategoryRow struct {
	Category string
	Snapshot *models.Snapshot
}

// ExpandCategories emits one CategoryRow per (row, token) pair. Rows without
// categories are dropped.
func ExpandCategories(rows []*models.Snapshot) []CategoryRow {
	out := make([]CategoryRow, 0, len(rows))
	for _, r := range rows {
		for _, c := range SplitCategories(r.Categories) {
			out = append(out, CategoryRow{Category: c, Snapshot: r})
		}
	}
	return out
}

type accumulator struct {
	er, followers float64
	n             int
}

func (a *accumulator) add(s *models.Snapshot) {
	a.er += s.EngagementRate
	a.followers += s.FollowersMax
	a.n++
}

func finish(acc map[string]*accumulator) map[string]models.Aggregate {
	out := make(map[string]models.Aggregate, len(acc))
	for key, a := range acc {
		out[key] = models.Aggregate{
			Key:            key,
			MeanEngagement: a.er / float64(a.n),
			MeanFollowers:  a.followers / float64(a.n),
			Count:          a.n,
		}
	}
	return out
}

// ByAccount computes mean engagement rate and mean followers per account.
func ByAccount(rows []*models.Snapshot) map[string]models.Aggregate {
	acc := make(map[string]*accumulator)
	for _, r := range rows {
		a, ok := acc[r.Account]
		if !ok {
			a = &accumulator{}
			acc[r.Account] = a
		}
		a.add(r)
	}
	return finish(acc)
}

// ByCategory computes the same means per category token over the expanded rows.
func ByCategory(rows []*models.Snapshot) map[string]models.Aggregate {
	acc := make(map[string]*accumulator)
	for _, cr := range ExpandCategories(rows) {
		a, ok := acc[cr.Category]
		if !ok {
			a = &accumulator{}
			acc[cr.Category] = a
		}
		a.add(cr.Snapshot)
	}
	return finish(acc)
}

// SortedByKey flattens an aggregate map in key order.
func SortedByKey(m map[string]models.Aggregate) []models.Aggregate {
	out := flatten(m)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// SortedByEngagement flattens an aggregate map, highest mean engagement first.
func SortedByEngagement(m map[string]models.Aggregate) []models.Aggregate {
	out := flatten(m)
	sort.Slice(out, func(i, j int) bool {
		if out[i].MeanEngagement != out[j].MeanEngagement {
			return out[i].MeanEngagement > out[j].MeanEngagement
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func flatten(m map[string]models.Aggregate) []models.Aggregate {
	out := make([]models.Aggregate, 0, len(m))
	for _, a := range m {
		out = append(out, a)
	}
	return out
}
