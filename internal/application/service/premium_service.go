package service

import (
	"context"
	"fmt"

	"github.com/garyjia/lic-claimdesk/internal/application/port"
	"github.com/garyjia/lic-claimdesk/internal/domain/entity"
	"github.com/garyjia/lic-claimdesk/internal/premium"
)

// PremiumService exposes the plan rate tables and the premium calculator
type PremiumService interface {
	// Seed stores the bundled plan tables when the plans partition is empty,
	// then applies extra tables (which always overwrite)
	Seed(ctx context.Context, extra []byte) (int, error)
	Plans(ctx context.Context) ([]*entity.PlanRateTable, error)
	Calculate(ctx context.Context, in premium.Input) (*premium.Result, error)
}

type premiumServiceImpl struct {
	records    port.RecordRepository
	rates      *premium.RecordRateSource
	calculator *premium.Calculator
	logger     Logger
}

// NewPremiumService creates a new PremiumService backed by the plans partition
func NewPremiumService(records port.RecordRepository, logger Logger) PremiumService {
	rates := premium.NewRecordRateSource(records)
	return &premiumServiceImpl{
		records:    records,
		rates:      rates,
		calculator: premium.NewCalculator(rates),
		logger:     logger,
	}
}

func (s *premiumServiceImpl) Seed(ctx context.Context, extra []byte) (int, error) {
	count, err := s.records.Count(ctx, port.PartitionPlans)
	if err != nil {
		return 0, fmt.Errorf("failed to count plans: %w", err)
	}

	written := 0
	if count == 0 {
		tables, err := premium.BundledTables()
		if err != nil {
			return 0, err
		}
		n, err := s.rates.Seed(ctx, tables, false)
		if err != nil {
			return n, err
		}
		written += n
		s.logger.Info("Bundled plan tables seeded", "plans", n)
	}

	if len(extra) > 0 {
		tables, err := premium.ParseTables(extra)
		if err != nil {
			return written, fmt.Errorf("failed to parse rate tables: %w", err)
		}
		n, err := s.rates.Seed(ctx, tables, true)
		written += n
		if err != nil {
			return written, err
		}
		s.logger.Info("Custom plan tables applied", "plans", n)
	}
	return written, nil
}

func (s *premiumServiceImpl) Plans(ctx context.Context) ([]*entity.PlanRateTable, error) {
	return s.rates.Plans(ctx)
}

func (s *premiumServiceImpl) Calculate(ctx context.Context, in premium.Input) (*premium.Result, error) {
	res, err := s.calculator.Calculate(ctx, in)
	if err != nil {
		if msg, ok := UserMessage(err); ok {
			s.logger.Info("Premium calculation rejected", "plan", in.Plan, "reason", err)
			return nil, userError(msg, err)
		}
		return nil, err
	}
	s.logger.Info("Premium calculated",
		"plan", res.Plan,
		"mode", res.Mode,
		"sum_assured", res.SumAssured,
		"modal_premium", res.ModalPremium,
	)
	return res, nil
}
