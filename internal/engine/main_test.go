package engine

import (
	"salarydash/internal/models"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func rec(year int, seniority, contract, size, role, remote, country string, usd float64) models.Record {
	return models.Record{
		Year:                 year,
		Seniority:            seniority,
		ContractType:         contract,
		CompanySize:          size,
		Role:                 role,
		RemoteType:           remote,
		ResidenceCountryCode: country,
		SalaryUSD:            usd,
	}
}

// buildStore encodes records the same way the loader does.
func buildStore(records []models.Record) *ColumnStore {
	cs := &ColumnStore{}
	sen, con, size := newDictEncoder(), newDictEncoder(), newDictEncoder()
	role, remote, country := newDictEncoder(), newDictEncoder(), newDictEncoder()

	for _, r := range records {
		cs.Years = append(cs.Years, int32(r.Year))
		cs.Salaries = append(cs.Salaries, r.SalaryUSD)
		cs.SeniorityIDs = append(cs.SeniorityIDs, sen.encode(r.Seniority))
		cs.ContractIDs = append(cs.ContractIDs, con.encode(r.ContractType))
		cs.SizeIDs = append(cs.SizeIDs, size.encode(r.CompanySize))
		cs.RoleIDs = append(cs.RoleIDs, role.encode(r.Role))
		cs.RemoteIDs = append(cs.RemoteIDs, remote.encode(r.RemoteType))
		cs.CountryIDs = append(cs.CountryIDs, country.encode(r.ResidenceCountryCode))
	}

	cs.SeniorityDict = sen.list
	cs.ContractDict = con.list
	cs.SizeDict = size.list
	cs.RoleDict = role.list
	cs.RemoteDict = remote.list
	cs.CountryDict = country.list
	return cs
}

// sampleStore is a small mixed dataset shared by the filter and aggregate tests.
func sampleStore() *ColumnStore {
	return buildStore([]models.Record{
		rec(2023, "SE", "FT", "M", "Data Scientist", "remote", "USA", 150000),
		rec(2023, "MI", "FT", "L", "Data Engineer", "onsite", "USA", 120000),
		rec(2024, "SE", "CT", "S", "Data Scientist", "remote", "DEU", 90000),
		rec(2024, "EN", "FT", "M", "Data Analyst", "hybrid", "BRA", 40000),
		rec(2022, "EX", "FL", "L", "Head of Data", "remote", "USA", 300000),
		rec(2024, "SE", "FT", "M", "Data Scientist", "onsite", "USA", 170000),
	})
}
