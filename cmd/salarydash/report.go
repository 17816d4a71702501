package main

import (
	"salarydash/internal/engine"
	"salarydash/internal/report"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func newReportCmd(a *app) *cobra.Command {
	var (
		years       []string
		seniorities []string
		contracts   []string
		sizes       []string
		role        string
		top         int
		bins        int
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the dashboard for a filter selection",
		Long: `Print the dashboard for a filter selection.

Each filter defaults to every value in the dataset. Passing a filter with
an empty value (for example --seniority="") selects nothing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := engine.LoadColumnar(a.cfg.Dataset.Path, a.cfg.Dataset.Columns, a.logger)
			if err != nil {
				return err
			}

			spec := store.FullFilter()
			flags := cmd.Flags()
			if flags.Changed("year") {
				spec.Years = make([]int, 0, len(years))
				for _, v := range years {
					y, err := engine.ParseYear(v)
					if err != nil {
						return err
					}
					spec.Years = append(spec.Years, y)
				}
			}
			if flags.Changed("seniority") {
				spec.Seniorities = seniorities
			}
			if flags.Changed("contract-type") {
				spec.ContractTypes = contracts
			}
			if flags.Changed("company-size") {
				spec.CompanySizes = sizes
			}

			opts := a.cfg.EngineOptions()
			if flags.Changed("role") {
				opts.CountryRole = role
			}
			if flags.Changed("top") {
				opts.TopRoles = top
			}
			if flags.Changed("bins") {
				opts.HistogramBins = bins
			}

			data := store.Apply(spec).Aggregate(opts)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(data)
			}
			return report.Write(cmd.OutOrStdout(), data)
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&years, "year", nil, "years to include")
	f.StringSliceVar(&seniorities, "seniority", nil, "seniority levels to include")
	f.StringSliceVar(&contracts, "contract-type", nil, "contract types to include")
	f.StringSliceVar(&sizes, "company-size", nil, "company sizes to include")
	f.StringVar(&role, "role", "", "role for the per-country means")
	f.IntVar(&top, "top", 0, "number of best paid roles")
	f.IntVar(&bins, "bins", 0, "salary histogram bins")
	f.BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return cmd
}
