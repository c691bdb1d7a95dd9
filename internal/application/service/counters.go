package service

import (
	"context"
	"sync"

	"github.com/garyjia/lic-claimdesk/internal/application/dispatcher"
	"github.com/garyjia/lic-claimdesk/internal/application/state"
	"github.com/garyjia/lic-claimdesk/internal/domain/entity"
	"github.com/garyjia/lic-claimdesk/internal/domain/event"
)

// CountersHandlerName is the dispatcher registration name
const CountersHandlerName = "counters"

// CountersService keeps the dashboard counters current. It recomputes them
// whenever the store reports a save.
type CountersService struct {
	mu       sync.RWMutex
	store    *state.Store
	logger   Logger
	counters entity.Counters
	refresh  int
}

// NewCountersService creates the service and subscribes it to store.saved
// and store.loaded
func NewCountersService(store *state.Store, d dispatcher.Dispatcher, logger Logger) *CountersService {
	s := &CountersService{
		store:    store,
		logger:   logger,
		counters: store.State().Counters(),
	}
	if d != nil {
		d.SubscribeNamed(event.TypeStoreSaved, CountersHandlerName, s.Handle)
		d.SubscribeNamed(event.TypeStoreLoaded, CountersHandlerName, s.Handle)
	}
	return s
}

// Handle recomputes the counters from the saved state
func (s *CountersService) Handle(ctx context.Context, evt *event.Event) error {
	c := s.store.State().Counters()

	s.mu.Lock()
	s.counters = c
	s.refresh++
	s.mu.Unlock()

	s.logger.Info("Counters refreshed",
		"trigger", evt.Type,
		"active_claims", c.ActiveClaims,
		"active_special_cases", c.ActiveSpecialCases,
		"follow_ups", c.FollowUps,
	)
	return nil
}

// Current returns the last computed counters
func (s *CountersService) Current() entity.Counters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counters
}

// Refreshes returns how many times the counters were recomputed
func (s *CountersService) Refreshes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}
