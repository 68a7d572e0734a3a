package services

import (
	"testing"

	"suba-radar/models"
)

func accountsOf(rows []*models.Snapshot) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Account+"@"+r.Date.Format("01-02"))
	}
	return out
}

func TestFilterNoCriteriaReturnsWholeTable(t *testing.T) {
	f := NewFilterEngine(newTestLogger())
	table := sampleTable()

	got := f.Apply(table, DefaultCriteria(table))
	if len(got) != len(table) {
		t.Errorf("expected %d rows, got %d", len(table), len(got))
	}
}

func TestFilterEmptySelectionIsNoRestriction(t *testing.T) {
	f := NewFilterEngine(newTestLogger())
	table := sampleTable()

	c := DefaultCriteria(table)
	c.Accounts = []string{}
	c.Categories = []string{}
	c.Verified = []bool{}
	c.IsBrand = []bool{}
	c.Clusters = []string{}

	if got := f.Apply(table, c); len(got) != len(table) {
		t.Errorf("explicitly empty selections should not restrict: got %d rows, want %d", len(got), len(table))
	}
}

func TestFilterDateBoundsAreInclusive(t *testing.T) {
	f := NewFilterEngine(newTestLogger())
	c := models.Criteria{Start: day("2024-01-01"), End: day("2024-01-08")}

	got := f.Apply(sampleTable(), c)
	if len(got) != 4 {
		t.Fatalf("expected 4 rows between 01-01 and 01-08 inclusive, got %v", accountsOf(got))
	}
	for _, r := range got {
		if r.Date.After(day("2024-01-08")) {
			t.Errorf("row outside range: %v", r.Date)
		}
	}

	single := f.Apply(sampleTable(), models.Criteria{Start: day("2024-01-15"), End: day("2024-01-15")})
	if len(single) != 2 {
		t.Errorf("single-day range: got %d rows, want 2", len(single))
	}
}

func TestFilterCategoriesOrWithin(t *testing.T) {
	f := NewFilterEngine(newTestLogger())
	c := models.Criteria{Categories: []string{"Moda", "Viagem"}}

	got := f.Apply(sampleTable(), c)
	if len(got) != 4 {
		t.Fatalf("expected 4 rows, got %v", accountsOf(got))
	}
	for _, r := range got {
		hit := false
		for _, tok := range SplitCategories(r.Categories) {
			if tok == "Moda" || tok == "Viagem" {
				hit = true
			}
		}
		if !hit {
			t.Errorf("row %s has none of the selected categories: %q", r.Account, r.Categories)
		}
	}
}

func TestFilterCategoryTokenNotSubstring(t *testing.T) {
	f := NewFilterEngine(newTestLogger())
	got := f.Apply(sampleTable(), models.Criteria{Categories: []string{"Mod"}})
	if len(got) != 0 {
		t.Errorf("partial token should not match, got %v", accountsOf(got))
	}
}

func TestFilterEmptySentinel(t *testing.T) {
	f := NewFilterEngine(newTestLogger())
	table := sampleTable()

	without := f.Apply(table, models.Criteria{Categories: []string{"Fitness"}})
	for _, r := range without {
		if !r.HasCategories() {
			t.Errorf("uncategorised row %s included without the sentinel", r.Account)
		}
	}
	if len(without) != 1 {
		t.Errorf("Fitness only: got %v", accountsOf(without))
	}

	with := f.Apply(table, models.Criteria{Categories: []string{"Fitness", models.EmptyCategory}})
	if len(with) != 2 {
		t.Fatalf("Fitness + sentinel: got %v", accountsOf(with))
	}
	if with[0].Account != "caio" || with[1].Account != "duda" {
		t.Errorf("unexpected rows %v", accountsOf(with))
	}

	only := f.Apply(table, models.Criteria{Categories: []string{models.EmptyCategory}})
	if len(only) != 1 || only[0].Account != "caio" {
		t.Errorf("sentinel only: got %v", accountsOf(only))
	}
}

func TestFilterFlagsAndClusters(t *testing.T) {
	f := NewFilterEngine(newTestLogger())
	table := sampleTable()

	verified := f.Apply(table, models.Criteria{Verified: []bool{true}})
	if len(verified) != 2 {
		t.Errorf("verified: got %v", accountsOf(verified))
	}

	brands := f.Apply(table, models.Criteria{IsBrand: []bool{true}, Clusters: []string{"Macro"}})
	if len(brands) != 2 {
		t.Errorf("brand+macro: got %v", accountsOf(brands))
	}

	both := f.Apply(table, models.Criteria{Verified: []bool{true, false}})
	if len(both) != len(table) {
		t.Errorf("both flag values should match everything, got %d", len(both))
	}

	none := f.Apply(table, models.Criteria{IsBrand: []bool{true}, Clusters: []string{"Nano"}})
	if len(none) != 0 {
		t.Errorf("contradictory criteria should match nothing, got %v", accountsOf(none))
	}
}

func TestFilterUnknownValueMatchesNothing(t *testing.T) {
	f := NewFilterEngine(newTestLogger())
	got := f.Apply(sampleTable(), models.Criteria{Accounts: []string{"ghost"}})
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil result, got %v", got)
	}
}

func TestFilterDoesNotMutateTable(t *testing.T) {
	f := NewFilterEngine(newTestLogger())
	table := sampleTable()
	first := table[0]

	_ = f.Apply(table, models.Criteria{Accounts: []string{"bia"}})
	if len(table) != 6 || table[0] != first {
		t.Error("Apply modified the base table")
	}
}

func TestFilterMonotonic(t *testing.T) {
	f := NewFilterEngine(newTestLogger())
	table := sampleTable()

	loose := models.Criteria{
		Accounts:   []string{"ana", "bia", "caio"},
		Categories: []string{"Moda", "Viagem", models.EmptyCategory},
		Clusters:   []string{"Micro", "Macro", "Nano"},
	}
	tight := models.Criteria{
		Start:      day("2024-01-08"),
		Accounts:   []string{"ana", "bia"},
		Categories: []string{"Viagem", models.EmptyCategory},
		Clusters:   []string{"Macro"},
	}

	looseSet := make(map[*models.Snapshot]bool)
	for _, r := range f.Apply(table, loose) {
		looseSet[r] = true
	}
	tightRows := f.Apply(table, tight)
	if len(tightRows) == 0 {
		t.Fatal("tight criteria should still match bia on 01-15")
	}
	for _, r := range tightRows {
		if !looseSet[r] {
			t.Errorf("row %s@%v matched tighter criteria but not looser", r.Account, r.Date)
		}
	}
}
