package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/lic-claimdesk/internal/application/port"
	"github.com/garyjia/lic-claimdesk/internal/domain/entity"
	"github.com/garyjia/lic-claimdesk/internal/premium"
)

const customRates = `
- plan: "814"
  name: Custom endowment
  rates:
    30: {20: 48.10}
`

func TestPremiumService_SeedOnFirstRunOnly(t *testing.T) {
	records := newMemRecords()
	svc := NewPremiumService(records, port.NopLogger{})
	ctx := context.Background()

	n, err := svc.Seed(ctx, nil)
	require.NoError(t, err)
	assert.Greater(t, n, 0)
	seeded := len(records.data[port.PartitionPlans])

	n, err = svc.Seed(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, records.data[port.PartitionPlans], seeded)

	n, err = svc.Seed(ctx, []byte(customRates))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	plans, err := svc.Plans(ctx)
	require.NoError(t, err)
	var names []string
	for _, p := range plans {
		names = append(names, p.Plan)
	}
	assert.Contains(t, names, "179")
	assert.Contains(t, names, "814")
}

func TestPremiumService_Calculate(t *testing.T) {
	svc := NewPremiumService(newMemRecords(), port.NopLogger{})
	ctx := context.Background()
	_, err := svc.Seed(ctx, nil)
	require.NoError(t, err)

	res, err := svc.Calculate(ctx, premium.Input{
		Plan:       "179",
		Mode:       entity.ModeYearly,
		SumAssured: 200000,
		Age:        30,
		Term:       20,
	})
	require.NoError(t, err)
	// 53.35 * 0.98 - 7.5 = 44.783, * 200
	assert.InDelta(t, 8956.6, res.BasePremium, 0.001)
	assert.InDelta(t, 8956.6*20, res.TotalPremium, 0.01)
}

func TestPremiumService_CalculateUserErrors(t *testing.T) {
	svc := NewPremiumService(newMemRecords(), port.NopLogger{})
	ctx := context.Background()
	_, err := svc.Seed(ctx, nil)
	require.NoError(t, err)

	tests := []struct {
		name    string
		in      premium.Input
		wantMsg string
	}{
		{"bad mode", premium.Input{Plan: "179", Mode: "DAILY", SumAssured: 100000, Age: 30, Term: 20}, premium.InvalidInputMessage},
		{"zero sum assured", premium.Input{Plan: "179", Mode: entity.ModeYearly, Age: 30, Term: 20}, premium.InvalidInputMessage},
		{"unknown plan", premium.Input{Plan: "000", Mode: entity.ModeYearly, SumAssured: 100000, Age: 30, Term: 20}, MsgRateNotAvailable},
		{"age off table", premium.Input{Plan: "179", Mode: entity.ModeYearly, SumAssured: 100000, Age: 70, Term: 20}, MsgRateNotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Calculate(ctx, tt.in)
			require.Error(t, err)
			msg, ok := UserMessage(err)
			assert.True(t, ok)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}
