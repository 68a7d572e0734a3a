package services

import (
	"suba-radar/models"
	"suba-radar/utils"
)

// FilterEngine selects the rows of a table that satisfy a Criteria.
//
// Criteria combine with AND; the values inside one criterion combine with OR.
// An empty criterion, whether unset or explicitly empty, places no restriction.
type FilterEngine struct {
	logger *utils.Logger
}

// NewFilterEngine creates a FilterEngine with the given logger.
func NewFilterEngine(logger *utils.Logger) *FilterEngine {
	return &FilterEngine{logger: logger}
}

// Apply returns a new slice with the matching rows. The table is not modified.
func (f *FilterEngine) Apply(table []*models.Snapshot, c models.Criteria) []*models.Snapshot {
	p := newPredicate(c)
	result := make([]*models.Snapshot, 0, len(table))
	for _, row := range table {
		if p.match(row) {
			result = append(result, row)
		}
	}

	f.logger.Debug("[filter] %d of %d rows match", len(result), len(table))
	return result
}

type predicate struct {
	c models.Criteria

	accounts     map[string]struct{}
	categories   map[string]struct{}
	includeEmpty bool
	verified     map[bool]struct{}
	isBrand      map[bool]struct{}
	clusters     map[string]struct{}
}

func newPredicate(c models.Criteria) *predicate {
	p := &predicate{
		c:        c,
		accounts: stringSet(c.Accounts),
		verified: boolSet(c.Verified),
		isBrand:  boolSet(c.IsBrand),
		clusters: stringSet(c.Clusters),
	}
	if len(c.Categories) > 0 {
		p.categories = make(map[string]struct{}, len(c.Categories))
		for _, cat := range c.Categories {
			if cat == models.EmptyCategory {
				p.includeEmpty = true
			}
			p.categories[cat] = struct{}{}
		}
	}
	return p
}

func (p *predicate) match(row *models.Snapshot) bool {
	if !p.c.Start.IsZero() && row.Date.Before(p.c.Start) {
		return false
	}
	if !p.c.End.IsZero() && row.Date.After(p.c.End) {
		return false
	}
	if !contains(p.accounts, row.Account) {
		return false
	}
	if p.categories != nil && !p.matchCategories(row) {
		return false
	}
	if p.verified != nil {
		if _, ok := p.verified[row.Verified]; !ok {
			return false
		}
	}
	if p.isBrand != nil {
		if _, ok := p.isBrand[row.IsBrand]; !ok {
			return false
		}
	}
	return contains(p.clusters, row.Cluster)
}

func (p *predicate) matchCategories(row *models.Snapshot) bool {
	if !row.HasCategories() {
		return p.includeEmpty
	}
	for _, token := range SplitCategories(row.Categories) {
		if _, ok := p.categories[token]; ok {
			return true
		}
	}
	return false
}

// contains treats a nil set as "everything".
func contains(set map[string]struct{}, v string) bool {
	if set == nil {
		return true
	}
	_, ok := set[v]
	return ok
}

func stringSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func boolSet(values []bool) map[bool]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[bool]struct{}, 2)
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
