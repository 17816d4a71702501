package engine

import (
	"errors"
	"fmt"
	"math"
	"salarydash/internal/models"
	"strconv"
	"strings"
)

// ErrYearRange is returned for years the year column cannot hold.
var ErrYearRange = errors.New("year out of range")

// ParseYear parses one year filter value.
func ParseYear(s string) (int, error) {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	if !yearInRange(int64(y)) {
		return 0, fmt.Errorf("%w: %d", ErrYearRange, y)
	}
	return y, nil
}

func yearInRange(y int64) bool {
	return y >= math.MinInt32 && y <= math.MaxInt32
}

// FilterSpec holds the allowed values of each filterable column.
// A row passes when every column value is in its set; an empty set
// passes nothing.
type FilterSpec struct {
	Years         []int    `json:"year"`
	Seniorities   []string `json:"seniority"`
	ContractTypes []string `json:"contract_type"`
	CompanySizes  []string `json:"company_size"`
}

// View is an order-preserving selection of rows from a ColumnStore.
// It holds row indices only, the store is shared.
type View struct {
	store *ColumnStore
	rows  []int32
}

// All returns a view over every row.
func (cs *ColumnStore) All() View {
	rows := make([]int32, cs.Len())
	for i := range rows {
		rows[i] = int32(i)
	}
	return View{store: cs, rows: rows}
}

// Apply returns the rows matching spec, in dataset order.
func (cs *ColumnStore) Apply(spec FilterSpec) View {
	if len(spec.Years) == 0 || len(spec.Seniorities) == 0 ||
		len(spec.ContractTypes) == 0 || len(spec.CompanySizes) == 0 {
		return View{store: cs, rows: []int32{}}
	}

	years := make(map[int32]struct{}, len(spec.Years))
	for _, y := range spec.Years {
		// An unrepresentable year matches nothing rather than a wrapped one.
		if yearInRange(int64(y)) {
			years[int32(y)] = struct{}{}
		}
	}
	seniority := allowMask(cs.SeniorityDict, spec.Seniorities)
	contract := allowMask(cs.ContractDict, spec.ContractTypes)
	size := allowMask(cs.SizeDict, spec.CompanySizes)

	rows := make([]int32, 0, cs.Len())
	for i := range cs.Salaries {
		if !seniority[cs.SeniorityIDs[i]] || !contract[cs.ContractIDs[i]] || !size[cs.SizeIDs[i]] {
			continue
		}
		if _, ok := years[cs.Years[i]]; !ok {
			continue
		}
		rows = append(rows, int32(i))
	}
	return View{store: cs, rows: rows}
}

// allowMask turns an allow list into a lookup indexed by dictionary ID.
// Values absent from the dictionary match nothing.
func allowMask(dict []string, allowed []string) []bool {
	set := make(map[string]struct{}, len(allowed))
	for _, s := range allowed {
		set[s] = struct{}{}
	}
	mask := make([]bool, len(dict))
	for id, s := range dict {
		_, mask[id] = set[s]
	}
	return mask
}

func (v View) Len() int { return len(v.rows) }

func (v View) Empty() bool { return len(v.rows) == 0 }

// WithRole narrows the view to rows whose role equals role.
func (v View) WithRole(role string) View {
	rows := []int32{}
	if v.store == nil {
		return View{rows: rows}
	}
	rid := int32(-1)
	for id, r := range v.store.RoleDict {
		if r == role {
			rid = int32(id)
			break
		}
	}
	if rid < 0 {
		return View{store: v.store, rows: rows}
	}
	for _, i := range v.rows {
		if v.store.RoleIDs[i] == rid {
			rows = append(rows, i)
		}
	}
	return View{store: v.store, rows: rows}
}

// Records returns up to limit rows starting at offset.
func (v View) Records(offset, limit int) []models.Record {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(v.rows) {
		return []models.Record{}
	}
	end := len(v.rows)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	out := make([]models.Record, 0, end-offset)
	for _, i := range v.rows[offset:end] {
		out = append(out, v.store.Record(int(i)))
	}
	return out
}
