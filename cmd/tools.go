package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"power_wizard/internal/models"
	"power_wizard/internal/planfilter"
	"power_wizard/internal/service"

	"github.com/spf13/cobra"
)

func newEstimateCmd() *cobra.Command {
	var (
		catalogPath string
		property    string
		profile     models.HomeProfile
	)
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate monthly usage and headline plans for a home",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pt := models.PropertyType(strings.ToLower(strings.TrimSpace(property)))
			if !pt.Valid() {
				return fmt.Errorf("unknown property type %q", property)
			}
			if profile.SquareFootage <= 0 {
				return fmt.Errorf("--sqft must be positive")
			}
			if profile.Occupants < 0 {
				return fmt.Errorf("--occupants must not be negative")
			}
			plans, err := plansService(catalogPath)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), plans.Estimate(profile, pt))
		},
	}
	f := cmd.Flags()
	f.StringVar(&catalogPath, "catalog", "", "plans YAML file (default built-in catalog)")
	f.Float64Var(&profile.SquareFootage, "sqft", 0, "square footage")
	f.IntVar(&profile.Occupants, "occupants", 1, "number of occupants")
	f.StringVar(&property, "property", string(models.PropertyHouse), "apartment, house, condo or townhome")
	f.BoolVar(&profile.HasEV, "ev", false, "home charges an electric vehicle")
	f.BoolVar(&profile.HasPool, "pool", false, "home has a pool")
	f.BoolVar(&profile.HasSolar, "solar", false, "home has solar panels")
	_ = cmd.MarkFlagRequired("sqft")
	return cmd
}

func newPlansCmd() *cobra.Command {
	var (
		catalogPath string
		sort        string
		term        string
		maxRate     float64
		q           service.CatalogQuery
	)
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "List catalog plans with filters applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q.Sort = planfilter.ParseSort(sort)
			if term != "" {
				ct := models.ContractTerm(term)
				q.Preferences.ContractTerm = &ct
			}
			if cmd.Flags().Changed("max-rate") {
				if maxRate < 0 {
					return fmt.Errorf("--max-rate must not be negative")
				}
				q.Preferences.MaxRate = &maxRate
			}
			q.Providers = splitProviders(q.Providers)

			plans, err := plansService(catalogPath)
			if err != nil {
				return err
			}
			cmp, err := plans.Browse(cmd.Context(), q)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), cmp)
		},
	}
	f := cmd.Flags()
	f.StringVar(&catalogPath, "catalog", "", "plans YAML file (default built-in catalog)")
	f.IntVar(&q.Usage, "usage", 0, "monthly usage in kWh used for bill estimates")
	f.StringVar(&sort, "sort", string(planfilter.SortBestMatch), "bestMatch, price, rating or bill")
	f.BoolVar(&q.Preferences.IsRenewable, "renewable", false, "only renewable plans")
	f.BoolVar(&q.Preferences.HasSatisfactionGuarantee, "guarantee", false, "only plans with a satisfaction guarantee")
	f.BoolVar(&q.Preferences.RequiresNoDeposit, "no-deposit", false, "only plans without a deposit")
	f.StringVar(&term, "term", "", "contract term, e.g. 12")
	f.Float64Var(&maxRate, "max-rate", 0, "maximum rate in cents per kWh")
	f.StringSliceVar(&q.Providers, "provider", nil, "limit to providers (repeatable)")
	f.StringVar(&q.Search, "search", "", "match plan name or provider")
	f.BoolVar(&q.ShowAll, "show-all", false, "ignore preference filters")
	return cmd
}

func plansService(catalogPath string) (*service.PlansService, error) {
	cat, err := loadCatalog(catalogPath)
	if err != nil {
		return nil, err
	}
	return service.NewPlansService(cat, nil), nil
}

func splitProviders(in []string) []string {
	var out []string
	for _, p := range in {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
