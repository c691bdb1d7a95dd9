package state

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/garyjia/lic-claimdesk/internal/application/dispatcher"
	"github.com/garyjia/lic-claimdesk/internal/application/port"
	"github.com/garyjia/lic-claimdesk/internal/domain/entity"
	"github.com/garyjia/lic-claimdesk/internal/domain/event"
)

// Store owns the AppState. Every mutation goes through Mutate, which saves
// the whole state before the change becomes visible.
type Store struct {
	mu         sync.RWMutex
	records    port.RecordRepository
	txManager  port.TransactionManager
	dispatcher dispatcher.Dispatcher
	logger     port.Logger

	state *AppState

	// legacy per-record keys migrated on load, deleted on the next save
	pendingDeletes []recordKey
}

type recordKey struct {
	partition string
	key       string
}

// NewStore creates a store with an empty state; call Load before use
func NewStore(records port.RecordRepository, txManager port.TransactionManager, d dispatcher.Dispatcher, logger port.Logger) *Store {
	if logger == nil {
		logger = port.NopLogger{}
	}
	return &Store{
		records:    records,
		txManager:  txManager,
		dispatcher: d,
		logger:     logger,
		state:      NewAppState(),
	}
}

// State returns the current state. Callers must not modify it; use Mutate.
func (s *Store) State() *AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Load reads every partition, decodes the sentinel blobs and reconciles
// legacy per-record entries into the active collections.
func (s *Store) Load(ctx context.Context) error {
	st := NewAppState()

	claimRecords, err := s.records.List(ctx, port.PartitionClaims)
	if err != nil {
		return fmt.Errorf("failed to list claims: %w", err)
	}
	specialRecords, err := s.records.List(ctx, port.PartitionSpecialCases)
	if err != nil {
		return fmt.Errorf("failed to list special cases: %w", err)
	}
	followRecord, err := s.records.Get(ctx, port.PartitionFollowUps, port.KeyBook)
	if err != nil {
		return fmt.Errorf("failed to load follow-ups: %w", err)
	}

	var workflows map[string]entity.WorkflowState
	var legacyClaims, legacySpecial []*port.Record

	for _, rec := range claimRecords {
		switch rec.Key {
		case port.KeyActive:
			if err := json.Unmarshal(rec.Value, &st.Claims); err != nil {
				return fmt.Errorf("failed to decode active claims: %w", err)
			}
		case port.KeyWorkflow:
			if err := json.Unmarshal(rec.Value, &workflows); err != nil {
				return fmt.Errorf("failed to decode workflow states: %w", err)
			}
		case port.KeyCompleted:
			if err := json.Unmarshal(rec.Value, &st.CompletedClaims); err != nil {
				return fmt.Errorf("failed to decode completed claims: %w", err)
			}
		default:
			legacyClaims = append(legacyClaims, rec)
		}
	}

	for _, rec := range specialRecords {
		switch rec.Key {
		case port.KeyActive:
			if err := json.Unmarshal(rec.Value, &st.SpecialCases); err != nil {
				return fmt.Errorf("failed to decode active special cases: %w", err)
			}
		case port.KeyCompleted:
			if err := json.Unmarshal(rec.Value, &st.CompletedSpecialCases); err != nil {
				return fmt.Errorf("failed to decode completed special cases: %w", err)
			}
		default:
			legacySpecial = append(legacySpecial, rec)
		}
	}

	if followRecord != nil {
		book := entity.NewFollowUpBook()
		if err := json.Unmarshal(followRecord.Value, book); err != nil {
			return fmt.Errorf("failed to decode follow-ups: %w", err)
		}
		if book.Records == nil {
			book.Records = make(map[string]*entity.FollowUpRecord)
		}
		st.FollowUps = book
	}

	if st.Claims == nil {
		st.Claims = make(map[string]*entity.Claim)
	}
	if st.SpecialCases == nil {
		st.SpecialCases = make(map[string]*entity.SpecialCase)
	}

	r := &reconciler{logger: s.logger}
	r.dropNil(st)
	r.claims(st, legacyClaims)
	r.attachWorkflows(st, workflows)
	r.specialCases(st, legacySpecial)

	s.mu.Lock()
	s.state = st
	s.pendingDeletes = r.migrated
	s.mu.Unlock()

	s.logger.Info("State loaded",
		"active_claims", len(st.Claims),
		"completed_claims", len(st.CompletedClaims),
		"special_cases", len(st.SpecialCases),
		"follow_ups", st.FollowUps.Len(),
		"legacy_migrated", len(r.migrated),
		"legacy_skipped", r.skipped,
	)

	if s.dispatcher != nil {
		evt := event.NewEvent(event.TypeStoreLoaded, "", map[string]interface{}{
			"legacy_migrated": len(r.migrated),
			"legacy_skipped":  r.skipped,
		})
		if err := s.dispatcher.Dispatch(ctx, evt); err != nil {
			s.logger.Warn("store.loaded handlers failed", "error", err)
		}
	}

	return nil
}

// Save persists the current state
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	st := s.state
	err := s.saveLocked(ctx, st)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notifySaved(ctx, st)
	return nil
}

// Mutate applies fn to a copy of the state and saves it. The copy replaces
// the current state only when both fn and the save succeed.
func (s *Store) Mutate(ctx context.Context, fn func(st *AppState) error) error {
	s.mu.Lock()
	next := s.state.Clone()
	if err := fn(next); err != nil {
		s.mu.Unlock()
		return err
	}
	err := s.saveLocked(ctx, next)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notifySaved(ctx, next)
	return nil
}

func (s *Store) saveLocked(ctx context.Context, st *AppState) error {
	workflows := make(map[string]entity.WorkflowState, len(st.Claims))
	for policyNo, c := range st.Claims {
		if len(c.Workflow) > 0 {
			workflows[policyNo] = c.Workflow
		}
	}

	blobs := []struct {
		partition string
		key       string
		value     interface{}
	}{
		{port.PartitionClaims, port.KeyActive, st.Claims},
		{port.PartitionClaims, port.KeyWorkflow, workflows},
		{port.PartitionClaims, port.KeyCompleted, nonNil(st.CompletedClaims)},
		{port.PartitionSpecialCases, port.KeyActive, st.SpecialCases},
		{port.PartitionSpecialCases, port.KeyCompleted, nonNilSpecial(st.CompletedSpecialCases)},
		{port.PartitionFollowUps, port.KeyBook, st.FollowUps},
	}

	encoded := make([][]byte, len(blobs))
	for i, b := range blobs {
		data, err := json.Marshal(b.value)
		if err != nil {
			return fmt.Errorf("failed to encode %s/%s: %w", b.partition, b.key, err)
		}
		encoded[i] = data
	}

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		for i, b := range blobs {
			if err := s.records.Put(ctx, b.partition, b.key, encoded[i]); err != nil {
				return err
			}
		}
		for _, k := range s.pendingDeletes {
			if err := s.records.Delete(ctx, k.partition, k.key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to save state", "error", err)
		return fmt.Errorf("failed to save state: %w", err)
	}

	if len(s.pendingDeletes) > 0 {
		s.logger.Info("Legacy records removed", "count", len(s.pendingDeletes))
		s.pendingDeletes = nil
	}
	s.state = st
	return nil
}

// notifySaved runs outside the lock so handlers may read State()
func (s *Store) notifySaved(ctx context.Context, st *AppState) {
	if s.dispatcher != nil {
		counters := st.Counters()
		evt := event.NewEvent(event.TypeStoreSaved, "", map[string]interface{}{
			"active_claims":           counters.ActiveClaims,
			"active_special_cases":    counters.ActiveSpecialCases,
			"completed_claims":        counters.CompletedClaims,
			"completed_special_cases": counters.CompletedSpecialCases,
			"follow_ups":              counters.FollowUps,
		})
		// state is already durable; a failing handler must not roll it back
		if err := s.dispatcher.Dispatch(ctx, evt); err != nil {
			s.logger.Warn("store.saved handlers failed", "error", err)
		}
	}
}

func nonNil(v []*entity.CompletedClaim) []*entity.CompletedClaim {
	if v == nil {
		return []*entity.CompletedClaim{}
	}
	return v
}

func nonNilSpecial(v []*entity.CompletedSpecialCase) []*entity.CompletedSpecialCase {
	if v == nil {
		return []*entity.CompletedSpecialCase{}
	}
	return v
}
