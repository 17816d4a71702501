package models

// NoRole is reported as the most frequent role when nothing matched.
const NoRole = "-"

type DashboardData struct {
	Empty   bool   `json:"empty"`
	Message string `json:"message,omitempty"`

	KPIs           *KPIs           `json:"kpis,omitempty"`
	Insights       *Insights       `json:"insights,omitempty"`
	TopRoles       []RoleSalary    `json:"top_roles,omitempty"`
	Histogram      []HistogramBin  `json:"salary_histogram,omitempty"`
	RemoteTypes    []RemoteCount   `json:"remote_types,omitempty"`
	CountryRole    string          `json:"country_role,omitempty"`
	CountryMessage string          `json:"country_message,omitempty"`
	CountrySalary  []CountrySalary `json:"country_salary,omitempty"`
}

type KPIs struct {
	MeanSalary       float64 `json:"mean_salary"`
	MaxSalary        float64 `json:"max_salary"`
	RecordCount      int     `json:"record_count"`
	MostFrequentRole string  `json:"most_frequent_role"`
}

type Insights struct {
	TopRole           string  `json:"top_role"`
	TopRoleMeanSalary float64 `json:"top_role_mean_salary"`
	SalarySpread      float64 `json:"salary_spread"`
}

type RoleSalary struct {
	Role       string  `json:"role"`
	MeanSalary float64 `json:"mean_salary"`
}

type RemoteCount struct {
	RemoteType string `json:"remote_type"`
	Count      int    `json:"count"`
}

type CountrySalary struct {
	Country    string  `json:"residence_country_code"`
	MeanSalary float64 `json:"mean_salary"`
}

// HistogramBin covers [Lower, Upper); the last bin also includes Upper.
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

type FilterOptions struct {
	Years         []int    `json:"year"`
	Seniorities   []string `json:"seniority"`
	ContractTypes []string `json:"contract_type"`
	CompanySizes  []string `json:"company_size"`
}

type Record struct {
	Year                 int     `json:"year"`
	Seniority            string  `json:"seniority"`
	ContractType         string  `json:"contract_type"`
	CompanySize          string  `json:"company_size"`
	Role                 string  `json:"role"`
	RemoteType           string  `json:"remote_type"`
	ResidenceCountryCode string  `json:"residence_country_code"`
	SalaryUSD            float64 `json:"salary_usd"`
}
