package report

import (
	"bytes"
	"strings"
	"testing"

	"salarydash/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyAndCount(t *testing.T) {
	assert.Equal(t, "$1,234,568", Money(1234567.8))
	assert.Equal(t, "$950", Money(950))
	assert.Equal(t, "12,345", Count(12345))
}

func TestWrite(t *testing.T) {
	data := &models.DashboardData{
		KPIs: &models.KPIs{MeanSalary: 120000, MaxSalary: 300000, RecordCount: 4, MostFrequentRole: "Data Scientist"},
		Insights: &models.Insights{
			TopRole: "Head of Data", TopRoleMeanSalary: 300000, SalarySpread: 180000,
		},
		TopRoles: []models.RoleSalary{
			{Role: "Data Analyst", MeanSalary: 40000},
			{Role: "Head of Data", MeanSalary: 300000},
		},
		Histogram: []models.HistogramBin{
			{Lower: 40000, Upper: 170000, Count: 3},
			{Lower: 170000, Upper: 300000, Count: 1},
		},
		RemoteTypes:    []models.RemoteCount{{RemoteType: "remote", Count: 3}, {RemoteType: "onsite", Count: 1}},
		CountryRole:    "Data Scientist",
		CountryMessage: `no records for role "Data Scientist"`,
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, data))
	out := buf.String()

	assert.Contains(t, out, "$120,000")
	assert.Contains(t, out, "$300,000")
	assert.Contains(t, out, "Head of Data ($300,000)")
	assert.Contains(t, out, "$180,000")
	assert.Contains(t, out, "3 (75.0%)")
	assert.Contains(t, out, `no records for role "Data Scientist"`)

	hist := out[strings.Index(out, "Salary distribution"):]
	assert.Contains(t, hist, "$40,000 - $170,000")
	assert.Contains(t, hist, strings.Repeat("█", barWidth)+" 3")
	assert.Contains(t, hist, strings.Repeat("█", barWidth/3)+" 1")

	top := out[strings.Index(out, "Top roles"):]
	assert.Less(t, strings.Index(top, "Head of Data"), strings.Index(top, "Data Analyst"), "best paid role first")
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, &models.DashboardData{Empty: true, Message: "no records match the selected filters"}))

	assert.Contains(t, buf.String(), "no records match the selected filters")
	assert.NotContains(t, buf.String(), "Overview")
}
