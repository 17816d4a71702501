package engine

import (
	"salarydash/internal/models"
	"sort"
	"strings"
)

// ColumnStore holds the salary dataset in Struct-of-Arrays format.
// It is never modified after LoadColumnar returns.
type ColumnStore struct {
	// Data Columns (Flat Arrays)
	Years    []int32
	Salaries []float64

	// Dictionary Encoded IDs (0..N)
	SeniorityIDs []int32
	ContractIDs  []int32
	SizeIDs      []int32
	RoleIDs      []int32
	RemoteIDs    []int32
	CountryIDs   []int32

	// Dictionaries (ID -> String), in first-seen order
	SeniorityDict []string
	ContractDict  []string
	SizeDict      []string
	RoleDict      []string
	RemoteDict    []string
	CountryDict   []string
}

// Len returns the number of rows.
func (cs *ColumnStore) Len() int {
	return len(cs.Salaries)
}

// Record materializes row i.
func (cs *ColumnStore) Record(i int) models.Record {
	return models.Record{
		Year:                 int(cs.Years[i]),
		Seniority:            cs.SeniorityDict[cs.SeniorityIDs[i]],
		ContractType:         cs.ContractDict[cs.ContractIDs[i]],
		CompanySize:          cs.SizeDict[cs.SizeIDs[i]],
		Role:                 cs.RoleDict[cs.RoleIDs[i]],
		RemoteType:           cs.RemoteDict[cs.RemoteIDs[i]],
		ResidenceCountryCode: cs.CountryDict[cs.CountryIDs[i]],
		SalaryUSD:            cs.Salaries[i],
	}
}

// Options lists the distinct values of every filterable column, sorted.
func (cs *ColumnStore) Options() models.FilterOptions {
	seen := make(map[int32]struct{})
	years := make([]int, 0)
	for _, y := range cs.Years {
		if _, ok := seen[y]; !ok {
			seen[y] = struct{}{}
			years = append(years, int(y))
		}
	}
	sort.Ints(years)

	return models.FilterOptions{
		Years:         years,
		Seniorities:   sortedCopy(cs.SeniorityDict),
		ContractTypes: sortedCopy(cs.ContractDict),
		CompanySizes:  sortedCopy(cs.SizeDict),
	}
}

// FullFilter returns the FilterSpec that selects every row.
func (cs *ColumnStore) FullFilter() FilterSpec {
	opts := cs.Options()
	return FilterSpec{
		Years:         opts.Years,
		Seniorities:   opts.Seniorities,
		ContractTypes: opts.ContractTypes,
		CompanySizes:  opts.CompanySizes,
	}
}

func sortedCopy(dict []string) []string {
	out := make([]string, len(dict))
	copy(out, dict)
	sort.Strings(out)
	return out
}

// dictEncoder assigns dense IDs to strings in first-seen order.
type dictEncoder struct {
	ids  map[string]int32
	list []string
}

func newDictEncoder() *dictEncoder {
	return &dictEncoder{ids: make(map[string]int32)}
}

func (d *dictEncoder) encode(s string) int32 {
	if id, ok := d.ids[s]; ok {
		return id
	}
	// s may alias an arrow buffer; the dictionary keeps its own copy.
	s = strings.Clone(s)
	id := int32(len(d.list))
	d.list = append(d.list, s)
	d.ids[s] = id
	return id
}
