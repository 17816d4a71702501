package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestApplyFullFilterIsIdentity(t *testing.T) {
	store := sampleStore()

	view := store.Apply(store.FullFilter())

	if view.Len() != store.Len() {
		t.Fatalf("Expected %d rows, got %d", store.Len(), view.Len())
	}
	for i, row := range view.rows {
		if int(row) != i {
			t.Errorf("Row %d: expected dataset order, got index %d", i, row)
		}
	}

	kpis, err := ComputeKPIs(view)
	if err != nil {
		t.Fatal(err)
	}
	if kpis.RecordCount != store.Len() {
		t.Errorf("RecordCount: expected %d, got %d", store.Len(), kpis.RecordCount)
	}
}

func TestApplyEmptySetYieldsEmptyView(t *testing.T) {
	store := sampleStore()

	cases := map[string]func(*FilterSpec){
		"year":          func(f *FilterSpec) { f.Years = nil },
		"seniority":     func(f *FilterSpec) { f.Seniorities = []string{} },
		"contract_type": func(f *FilterSpec) { f.ContractTypes = nil },
		"company_size":  func(f *FilterSpec) { f.CompanySizes = []string{} },
	}
	for name, drop := range cases {
		t.Run(name, func(t *testing.T) {
			spec := store.FullFilter()
			drop(&spec)

			view := store.Apply(spec)
			if !view.Empty() {
				t.Fatalf("Expected empty view, got %d rows", view.Len())
			}
			if _, err := ComputeKPIs(view); err != ErrEmptyView {
				t.Errorf("Expected ErrEmptyView, got %v", err)
			}
		})
	}
}

func TestApplyCombinesColumnsWithAnd(t *testing.T) {
	store := sampleStore()

	spec := store.FullFilter()
	spec.Seniorities = []string{"SE"}
	spec.Years = []int{2024}

	got := store.Apply(spec).Records(0, 0)
	if len(got) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(got))
	}
	if got[0].SalaryUSD != 90000 || got[1].SalaryUSD != 170000 {
		t.Errorf("Unexpected rows or order: %+v", got)
	}
}

func TestApplyIgnoresUnknownValues(t *testing.T) {
	store := sampleStore()

	spec := store.FullFilter()
	spec.CompanySizes = []string{"XL"}

	if view := store.Apply(spec); !view.Empty() {
		t.Errorf("Expected no rows for unknown company size, got %d", view.Len())
	}
}

func TestMaxSalaryMonotonicUnderWidening(t *testing.T) {
	store := sampleStore()

	narrow := store.FullFilter()
	narrow.Seniorities = []string{"MI"}
	wide := store.FullFilter()
	wide.Seniorities = []string{"MI", "EX"}

	n, err := ComputeKPIs(store.Apply(narrow))
	if err != nil {
		t.Fatal(err)
	}
	w, err := ComputeKPIs(store.Apply(wide))
	if err != nil {
		t.Fatal(err)
	}
	if w.MaxSalary < n.MaxSalary {
		t.Errorf("Widening lowered max salary: %f < %f", w.MaxSalary, n.MaxSalary)
	}
}

func TestViewRecordsPagination(t *testing.T) {
	view := sampleStore().All()

	page := view.Records(1, 2)
	if len(page) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(page))
	}
	if page[0].Role != "Data Engineer" || page[1].ResidenceCountryCode != "DEU" {
		t.Errorf("Unexpected page: %+v", page)
	}

	if tail := view.Records(5, 10); len(tail) != 1 {
		t.Errorf("Expected 1 trailing record, got %d", len(tail))
	}
	if past := view.Records(50, 10); len(past) != 0 {
		t.Errorf("Expected no records past the end, got %d", len(past))
	}
	if rest := view.Records(1, math.MaxInt); len(rest) != 5 {
		t.Errorf("Expected 5 records with an unbounded limit, got %d", len(rest))
	}
}

func TestWithRole(t *testing.T) {
	view := sampleStore().All()

	if got := view.WithRole("Data Scientist").Len(); got != 3 {
		t.Errorf("Expected 3 Data Scientist rows, got %d", got)
	}
	if !view.WithRole("Astronaut").Empty() {
		t.Error("Expected no rows for unknown role")
	}
	if !(View{}).WithRole("Data Scientist").Empty() {
		t.Error("Expected zero view to stay empty")
	}
}

func TestOptions(t *testing.T) {
	opts := sampleStore().Options()

	if diff := cmp.Diff([]int{2022, 2023, 2024}, opts.Years); diff != "" {
		t.Errorf("Years mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"EN", "EX", "MI", "SE"}, opts.Seniorities); diff != "" {
		t.Errorf("Seniorities mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"CT", "FL", "FT"}, opts.ContractTypes); diff != "" {
		t.Errorf("ContractTypes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"L", "M", "S"}, opts.CompanySizes); diff != "" {
		t.Errorf("CompanySizes mismatch (-want +got):\n%s", diff)
	}
}

func TestParseYear(t *testing.T) {
	if y, err := ParseYear(" 2024 "); err != nil || y != 2024 {
		t.Errorf("Expected 2024, got %d (%v)", y, err)
	}
	if _, err := ParseYear("last"); err == nil {
		t.Error("Expected error for a non-numeric year")
	}
	if _, err := ParseYear("4294969320"); !errors.Is(err, ErrYearRange) {
		t.Errorf("Expected ErrYearRange, got %v", err)
	}
}

func TestApplyIgnoresUnrepresentableYears(t *testing.T) {
	store := sampleStore()
	spec := store.FullFilter()

	// 4294969320 wraps to 2024 when narrowed to int32.
	spec.Years = []int{4294969320}
	if got := store.Apply(spec).Len(); got != 0 {
		t.Errorf("Expected no rows, got %d", got)
	}
}
