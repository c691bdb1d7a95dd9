// Package premium computes LIC modal and total premiums from tabular rates.
package premium

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/garyjia/lic-claimdesk/internal/domain/entity"
)

// InvalidInputMessage is what the user sees for ErrInvalidInput
const InvalidInputMessage = "Please fill all calculator fields with valid numbers."

var (
	ErrInvalidInput = errors.New("invalid calculator input")
	// ErrRateNotFound is returned when no tabular premium exists for plan, age and term
	ErrRateNotFound = errors.New("tabular premium not found")
)

// standard mode rebates as a fraction of the tabular premium
var defaultModeRebates = map[string]float64{
	entity.ModeYearly:     0.03,
	entity.ModeHalfYearly: 0.015,
}

var paymentsPerYear = map[string]int{
	entity.ModeYearly:     1,
	entity.ModeHalfYearly: 2,
	entity.ModeQuarterly:  4,
	entity.ModeMonthly:    12,
}

// Input is one calculator request. SumAssured is in rupees. TabularPremium,
// when positive, replaces the table lookup. PPT of zero means the policy term.
type Input struct {
	Plan           string
	Mode           string
	SumAssured     float64
	Age            int
	Term           int
	PPT            int
	TabularPremium float64
}

// Result is the computed premium with every intermediate figure
type Result struct {
	Plan            string   `json:"plan"`
	Mode            string   `json:"mode"`
	SumAssured      float64  `json:"sumAssured"`
	TabularRate     float64  `json:"tabularRate"`
	ModeRebate      float64  `json:"modeRebate"`
	SARebate        float64  `json:"saRebate"`
	NetRate         float64  `json:"netRate"`
	BasePremium     float64  `json:"basePremium"`
	PaymentsPerYear int      `json:"paymentsPerYear"`
	ModalPremium    float64  `json:"modalPremium"`
	PPT             int      `json:"ppt"`
	TotalPremium    float64  `json:"totalPremium"`
	Breakdown       []string `json:"breakdown"`
}

// Calculator applies the rebate rules to a rate taken from a RateSource
type Calculator struct {
	rates RateSource
}

// NewCalculator creates a calculator. rates may be nil when every request
// carries its own tabular premium.
func NewCalculator(rates RateSource) *Calculator {
	return &Calculator{rates: rates}
}

// Calculate computes modal and total premium
func (c *Calculator) Calculate(ctx context.Context, in Input) (*Result, error) {
	ppy, ok := paymentsPerYear[in.Mode]
	if !ok || !valid(in.SumAssured) || in.Term <= 0 || in.PPT < 0 || in.TabularPremium < 0 || math.IsNaN(in.TabularPremium) {
		return nil, ErrInvalidInput
	}
	ppt := in.PPT
	if ppt == 0 {
		ppt = in.Term
	}

	var table *entity.PlanRateTable
	if c.rates != nil && in.Plan != "" {
		t, err := c.rates.Table(ctx, in.Plan)
		if err != nil {
			return nil, err
		}
		table = t
	}

	res := &Result{
		Plan:            in.Plan,
		Mode:            in.Mode,
		SumAssured:      in.SumAssured,
		PaymentsPerYear: ppy,
		PPT:             ppt,
	}

	rate := in.TabularPremium
	if rate == 0 {
		if in.Age <= 0 {
			return nil, ErrInvalidInput
		}
		if table == nil {
			return nil, fmt.Errorf("%w: plan %s", ErrRateNotFound, in.Plan)
		}
		r, ok := table.Rate(in.Age, in.Term)
		if !ok {
			return nil, fmt.Errorf("%w: plan %s age %d term %d", ErrRateNotFound, in.Plan, in.Age, in.Term)
		}
		rate = r
		res.Breakdown = append(res.Breakdown, fmt.Sprintf("Tabular Premium (Plan %s, age %d, term %d): %.2f", in.Plan, in.Age, in.Term, rate))
	}
	res.TabularRate = rate

	// Step 1: mode rebate
	if pct := modeRebate(table, in.Mode); pct > 0 {
		factor := 1 - pct
		res.ModeRebate = pct
		res.Breakdown = append(res.Breakdown, fmt.Sprintf("Mode Rebate (%s %s): %.2f * %s = %.2f",
			in.Mode, percent(pct), rate, trim(factor), rate*factor))
		rate *= factor
	}

	// Step 2: S.A. rebate
	if table != nil {
		if r := saRebate(table.SARebates, in.SumAssured); r > 0 {
			res.SARebate = r
			res.Breakdown = append(res.Breakdown, fmt.Sprintf("S.A. Rebate (Plan %s): %.2f - %s = %.2f",
				in.Plan, rate, trim(r), rate-r))
			rate -= r
		}
	}
	res.NetRate = rate

	// Step 3: base premium
	thousands := in.SumAssured / 1000
	res.BasePremium = rate * thousands
	res.Breakdown = append(res.Breakdown, fmt.Sprintf("Base Premium: %.4f * %s = %.2f", rate, trim(thousands), res.BasePremium))

	// Step 4: modal premium
	res.ModalPremium = res.BasePremium / float64(ppy)
	if ppy > 1 {
		res.Breakdown = append(res.Breakdown, fmt.Sprintf("Modal Premium (%s): %.2f / %d = %.2f", in.Mode, res.BasePremium, ppy, res.ModalPremium))
	}

	// Step 5: total premium
	res.TotalPremium = res.ModalPremium * float64(ppy) * float64(ppt)
	res.Breakdown = append(res.Breakdown, fmt.Sprintf("Total Premium: %.2f * %d * %d = %.2f", res.ModalPremium, ppy, ppt, res.TotalPremium))

	return res, nil
}

func modeRebate(table *entity.PlanRateTable, mode string) float64 {
	if table != nil {
		if pct, ok := table.ModeRebates[mode]; ok {
			return pct
		}
	}
	return defaultModeRebates[mode]
}

func saRebate(bands []entity.SARebateBand, sa float64) float64 {
	for _, b := range bands {
		if sa > b.Above && (b.UpTo == 0 || sa <= b.UpTo) {
			return b.PerThousand
		}
	}
	return 0
}

func valid(f float64) bool {
	return f > 0 && !math.IsNaN(f) && !math.IsInf(f, 0)
}

func percent(f float64) string {
	return trim(f*100) + "%"
}

func trim(f float64) string {
	return fmt.Sprintf("%g", math.Round(f*10000)/10000)
}
