package premium

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/garyjia/lic-claimdesk/internal/application/port"
	"github.com/garyjia/lic-claimdesk/internal/domain/entity"
)

//go:embed rates.yaml
var bundledRates []byte

// RateSource provides plan tables. Table returns nil, nil for an unknown plan.
type RateSource interface {
	Table(ctx context.Context, plan string) (*entity.PlanRateTable, error)
	Plans(ctx context.Context) ([]*entity.PlanRateTable, error)
}

// BundledTables parses the rate tables shipped with the binary
func BundledTables() ([]*entity.PlanRateTable, error) {
	return ParseTables(bundledRates)
}

// ParseTables decodes a YAML list of plan tables
func ParseTables(data []byte) ([]*entity.PlanRateTable, error) {
	var tables []*entity.PlanRateTable
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("failed to parse rate tables: %w", err)
	}
	for i, t := range tables {
		if t.Plan == "" {
			return nil, fmt.Errorf("rate table %d has no plan number", i)
		}
	}
	return tables, nil
}

// RecordRateSource reads plan tables from the plans partition of the record store
type RecordRateSource struct {
	records port.RecordRepository
}

// NewRecordRateSource creates a rate source over the record store
func NewRecordRateSource(records port.RecordRepository) *RecordRateSource {
	return &RecordRateSource{records: records}
}

// Table loads one plan table
func (s *RecordRateSource) Table(ctx context.Context, plan string) (*entity.PlanRateTable, error) {
	rec, err := s.records.Get(ctx, port.PartitionPlans, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan %s: %w", plan, err)
	}
	if rec == nil {
		return nil, nil
	}
	var table entity.PlanRateTable
	if err := json.Unmarshal(rec.Value, &table); err != nil {
		return nil, fmt.Errorf("failed to decode plan %s: %w", plan, err)
	}
	return &table, nil
}

// Plans lists every stored plan table ordered by plan number
func (s *RecordRateSource) Plans(ctx context.Context) ([]*entity.PlanRateTable, error) {
	recs, err := s.records.List(ctx, port.PartitionPlans)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	tables := make([]*entity.PlanRateTable, 0, len(recs))
	for _, rec := range recs {
		var table entity.PlanRateTable
		if err := json.Unmarshal(rec.Value, &table); err != nil {
			return nil, fmt.Errorf("failed to decode plan %s: %w", rec.Key, err)
		}
		tables = append(tables, &table)
	}
	return tables, nil
}

// Seed writes tables into the plans partition. Existing plans are
// overwritten only when overwrite is set.
func (s *RecordRateSource) Seed(ctx context.Context, tables []*entity.PlanRateTable, overwrite bool) (int, error) {
	written := 0
	for _, t := range tables {
		if !overwrite {
			existing, err := s.records.Get(ctx, port.PartitionPlans, t.Plan)
			if err != nil {
				return written, fmt.Errorf("failed to check plan %s: %w", t.Plan, err)
			}
			if existing != nil {
				continue
			}
		}
		data, err := json.Marshal(t)
		if err != nil {
			return written, fmt.Errorf("failed to encode plan %s: %w", t.Plan, err)
		}
		if err := s.records.Put(ctx, port.PartitionPlans, t.Plan, data); err != nil {
			return written, fmt.Errorf("failed to store plan %s: %w", t.Plan, err)
		}
		written++
	}
	return written, nil
}
