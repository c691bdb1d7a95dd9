package entity

// PlanRateTable is the bundled tabular-premium data for one plan.
// Rates are per 1000 sum assured, keyed by age at entry then policy term.
type PlanRateTable struct {
	Plan        string                  `json:"plan" yaml:"plan"`
	Name        string                  `json:"name" yaml:"name"`
	ModeRebates map[string]float64      `json:"modeRebates,omitempty" yaml:"mode_rebates"`
	SARebates   []SARebateBand          `json:"saRebates,omitempty" yaml:"sa_rebates"`
	Rates       map[int]map[int]float64 `json:"rates" yaml:"rates"`
}

// SARebateBand is a flat per-1000 rebate for sums assured above Above and up
// to UpTo (inclusive). UpTo of zero means no upper bound.
type SARebateBand struct {
	Above       float64 `json:"above" yaml:"above"`
	UpTo        float64 `json:"upTo,omitempty" yaml:"up_to"`
	PerThousand float64 `json:"perThousand" yaml:"per_thousand"`
}

// Rate looks up the tabular premium for an age and term
func (p *PlanRateTable) Rate(age, term int) (float64, bool) {
	byTerm, ok := p.Rates[age]
	if !ok {
		return 0, false
	}
	rate, ok := byTerm[term]
	return rate, ok
}

// Counters are the dashboard totals refreshed after every save
type Counters struct {
	ActiveClaims          int                    `json:"activeClaims"`
	ActiveSpecialCases    int                    `json:"activeSpecialCases"`
	CompletedClaims       int                    `json:"completedClaims"`
	CompletedSpecialCases int                    `json:"completedSpecialCases"`
	FollowUps             int                    `json:"followUps"`
	FollowUpsByStatus     map[FollowUpStatus]int `json:"followUpsByStatus"`
}
