package main

import (
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/garyjia/lic-claimdesk/internal/container"
	"github.com/garyjia/lic-claimdesk/internal/domain/entity"
	"github.com/garyjia/lic-claimdesk/internal/premium"
)

func newPremiumCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "premium",
		Short: "Premium calculator",
	}
	cmd.AddCommand(newPremiumPlansCmd(opts), newPremiumCalcCmd(opts))
	return cmd
}

func newPremiumPlansCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List plans with rate tables",
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *container.Container) error {
			plans, err := app.Services().Premium.Plans(cmd.Context())
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd, plans)
			}
			t := newTable(cmd.OutOrStdout(), "PLAN", "NAME", "AGES", "TERMS")
			for _, p := range plans {
				ages, terms := tableRange(p)
				t.row(p.Plan, p.Name, ages, terms)
			}
			return t.flush()
		}),
	}
}

func newPremiumCalcCmd(opts *rootOptions) *cobra.Command {
	var in premium.Input
	cmd := &cobra.Command{
		Use:     "calc",
		Short:   "Calculate a premium",
		Example: "  claimdesk premium calc --plan 179 --mode YLY --sa 200000 --age 30 --term 20",
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, app *container.Container) error {
			res, err := app.Services().Premium.Calculate(cmd.Context(), in)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd, res)
			}
			for _, line := range res.Breakdown {
				printf(cmd, "%s\n", line)
			}
			printf(cmd, "\nModal premium: %.2f\nTotal premium: %.2f\n", res.ModalPremium, res.TotalPremium)
			return nil
		}),
	}
	f := cmd.Flags()
	f.StringVar(&in.Plan, "plan", "", "Plan number")
	f.StringVar(&in.Mode, "mode", entity.ModeYearly, "Mode: YLY, HLY, QLY or MLY")
	f.Float64Var(&in.SumAssured, "sa", 0, "Sum assured in rupees")
	f.IntVar(&in.Age, "age", 0, "Age at entry")
	f.IntVar(&in.Term, "term", 0, "Policy term in years")
	f.IntVar(&in.PPT, "ppt", 0, "Premium paying term (default: policy term)")
	f.Float64Var(&in.TabularPremium, "tabular", 0, "Tabular premium per 1000, overrides the rate table")
	return cmd
}

func tableRange(p *entity.PlanRateTable) (string, string) {
	var ages []int
	termSet := map[int]bool{}
	for age, byTerm := range p.Rates {
		ages = append(ages, age)
		for term := range byTerm {
			termSet[term] = true
		}
	}
	if len(ages) == 0 {
		return "", ""
	}
	sort.Ints(ages)
	var terms []int
	for term := range termSet {
		terms = append(terms, term)
	}
	sort.Ints(terms)

	termList := ""
	for i, term := range terms {
		if i > 0 {
			termList += ","
		}
		termList += strconv.Itoa(term)
	}
	return strconv.Itoa(ages[0]) + "-" + strconv.Itoa(ages[len(ages)-1]), termList
}
