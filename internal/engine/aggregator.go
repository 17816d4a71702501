package engine

import (
	"errors"
	"fmt"
	"math"
	"salarydash/internal/models"
	"slices"
	"sort"
)

const (
	DefaultTopRoles      = 10
	DefaultHistogramBins = 30
	DefaultCountryRole   = "Data Scientist"
)

var (
	// ErrEmptyView is returned by aggregates that need at least one row.
	ErrEmptyView = errors.New("no records match the selected filters")
	// ErrNoRoleData is returned when no row of the view has the requested role.
	ErrNoRoleData = errors.New("no records for role")
)

// Options tunes Aggregate. Zero values fall back to the defaults.
type Options struct {
	TopRoles      int
	HistogramBins int
	CountryRole   string
}

func (o Options) withDefaults() Options {
	if o.TopRoles <= 0 {
		o.TopRoles = DefaultTopRoles
	}
	if o.HistogramBins <= 0 {
		o.HistogramBins = DefaultHistogramBins
	}
	if o.CountryRole == "" {
		o.CountryRole = DefaultCountryRole
	}
	return o
}

// Aggregate recomputes every dashboard result for the view.
// An empty view yields Empty=true and no aggregates.
func (v View) Aggregate(opts Options) *models.DashboardData {
	opts = opts.withDefaults()

	kpis, err := ComputeKPIs(v)
	if err != nil {
		return &models.DashboardData{Empty: true, Message: err.Error()}
	}

	topRoles := TopRolesByMeanSalary(v, opts.TopRoles)
	data := &models.DashboardData{
		KPIs:        &kpis,
		Insights:    BuildInsights(kpis, topRoles),
		TopRoles:    topRoles,
		Histogram:   SalaryHistogram(v, opts.HistogramBins),
		RemoteTypes: RemoteTypeDistribution(v),
		CountryRole: opts.CountryRole,
	}

	countries, err := MeanSalaryByCountry(v, opts.CountryRole)
	if err != nil {
		data.CountryMessage = err.Error()
	} else {
		data.CountrySalary = countries
	}
	return data
}

// ComputeKPIs returns mean, max, count and most frequent role.
// On an empty view it returns ErrEmptyView with MostFrequentRole set to models.NoRole.
func ComputeKPIs(v View) (models.KPIs, error) {
	if v.Empty() {
		return models.KPIs{MostFrequentRole: models.NoRole}, ErrEmptyView
	}
	cs := v.store

	var sum float64
	maxSalary := math.Inf(-1)
	roleCounts := make([]int, len(cs.RoleDict))
	for _, i := range v.rows {
		s := cs.Salaries[i]
		sum += s
		if s > maxSalary {
			maxSalary = s
		}
		roleCounts[cs.RoleIDs[i]]++
	}

	return models.KPIs{
		MeanSalary:       sum / float64(len(v.rows)),
		MaxSalary:        maxSalary,
		RecordCount:      len(v.rows),
		MostFrequentRole: mode(cs.RoleDict, roleCounts),
	}, nil
}

// mode picks the highest count; ties go to the lexicographically smallest value.
func mode(dict []string, counts []int) string {
	best := -1
	for id, c := range counts {
		if c == 0 {
			continue
		}
		if best < 0 || c > counts[best] || (c == counts[best] && dict[id] < dict[best]) {
			best = id
		}
	}
	if best < 0 {
		return models.NoRole
	}
	return dict[best]
}

// TopRolesByMeanSalary returns the n roles with the highest mean salary,
// sorted ascending so the best paid role is last.
func TopRolesByMeanSalary(v View, n int) []models.RoleSalary {
	if n <= 0 {
		n = DefaultTopRoles
	}
	out := make([]models.RoleSalary, 0)
	if v.Empty() {
		return out
	}
	cs := v.store

	sums := make([]float64, len(cs.RoleDict))
	counts := make([]int, len(cs.RoleDict))
	for _, i := range v.rows {
		rid := cs.RoleIDs[i]
		sums[rid] += cs.Salaries[i]
		counts[rid]++
	}
	for rid, c := range counts {
		if c > 0 {
			out = append(out, models.RoleSalary{Role: cs.RoleDict[rid], MeanSalary: sums[rid] / float64(c)})
		}
	}

	// Rank best first, role name breaks ties.
	sort.Slice(out, func(i, j int) bool {
		if out[i].MeanSalary != out[j].MeanSalary {
			return out[i].MeanSalary > out[j].MeanSalary
		}
		return out[i].Role < out[j].Role
	})
	if len(out) > n {
		out = out[:n]
	}
	slices.Reverse(out)
	return out
}

// RemoteTypeDistribution counts rows per remote type, most common first.
// Equal counts keep the order in which the types first appear in the view.
func RemoteTypeDistribution(v View) []models.RemoteCount {
	out := make([]models.RemoteCount, 0)
	if v.Empty() {
		return out
	}
	cs := v.store

	counts := make([]int, len(cs.RemoteDict))
	order := make([]int32, 0, len(cs.RemoteDict))
	for _, i := range v.rows {
		id := cs.RemoteIDs[i]
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
	}
	for _, id := range order {
		out = append(out, models.RemoteCount{RemoteType: cs.RemoteDict[id], Count: counts[id]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// MeanSalaryByCountry averages salary per residence country for one role,
// ordered by country code. It returns ErrNoRoleData when the role has no rows.
func MeanSalaryByCountry(v View, role string) ([]models.CountrySalary, error) {
	rv := v.WithRole(role)
	if rv.Empty() {
		return nil, fmt.Errorf("%w %q", ErrNoRoleData, role)
	}
	cs := rv.store

	sums := make([]float64, len(cs.CountryDict))
	counts := make([]int, len(cs.CountryDict))
	for _, i := range rv.rows {
		cid := cs.CountryIDs[i]
		sums[cid] += cs.Salaries[i]
		counts[cid]++
	}

	out := make([]models.CountrySalary, 0)
	for cid, c := range counts {
		if c > 0 {
			out = append(out, models.CountrySalary{Country: cs.CountryDict[cid], MeanSalary: sums[cid] / float64(c)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Country < out[j].Country })
	return out, nil
}

// SalaryHistogram splits [min, max] salary of the view into equal-width bins.
func SalaryHistogram(v View, bins int) []models.HistogramBin {
	if v.Empty() {
		return nil
	}
	if bins <= 0 {
		bins = DefaultHistogramBins
	}
	cs := v.store

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, i := range v.rows {
		s := cs.Salaries[i]
		lo = math.Min(lo, s)
		hi = math.Max(hi, s)
	}
	if lo == hi {
		return []models.HistogramBin{{Lower: lo, Upper: hi, Count: len(v.rows)}}
	}

	width := (hi - lo) / float64(bins)
	out := make([]models.HistogramBin, bins)
	for b := range out {
		out[b].Lower = lo + float64(b)*width
		out[b].Upper = lo + float64(b+1)*width
	}
	out[bins-1].Upper = hi

	for _, i := range v.rows {
		b := int((cs.Salaries[i] - lo) / width)
		if b >= bins {
			b = bins - 1
		}
		out[b].Count++
	}
	return out
}

// BuildInsights derives the headline facts from already computed results.
// topRoles must be ascending, as returned by TopRolesByMeanSalary.
func BuildInsights(kpis models.KPIs, topRoles []models.RoleSalary) *models.Insights {
	in := &models.Insights{SalarySpread: kpis.MaxSalary - kpis.MeanSalary}
	if len(topRoles) > 0 {
		best := topRoles[len(topRoles)-1]
		in.TopRole = best.Role
		in.TopRoleMeanSalary = best.MeanSalary
	}
	return in
}
