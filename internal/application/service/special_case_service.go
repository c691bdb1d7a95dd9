package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/garyjia/lic-claimdesk/internal/application/dispatcher"
	"github.com/garyjia/lic-claimdesk/internal/application/state"
	"github.com/garyjia/lic-claimdesk/internal/domain/entity"
	"github.com/garyjia/lic-claimdesk/internal/domain/event"
	"github.com/garyjia/lic-claimdesk/pkg/utils"
)

// SpecialCaseService tracks disputes and other non-standard cases
type SpecialCaseService interface {
	// Save creates or updates a case. With Resolved set the case moves to
	// the completed list instead.
	Save(ctx context.Context, sc entity.SpecialCase) (*SpecialCaseSaveResult, error)
	Resolve(ctx context.Context, policyNo string) (*entity.CompletedSpecialCase, error)
	Open(ctx context.Context, policyNo string) (*entity.SpecialCase, error)
	ListActive(ctx context.Context, search string) ([]*entity.SpecialCase, error)
	Remove(ctx context.Context, policyNo string) error
	ListCompleted(ctx context.Context, search string) ([]*entity.CompletedSpecialCase, error)
	RemoveCompleted(ctx context.Context, id string) error
}

// SpecialCaseSaveResult holds exactly one of Active or Completed
type SpecialCaseSaveResult struct {
	Active    *entity.SpecialCase          `json:"active,omitempty"`
	Completed *entity.CompletedSpecialCase `json:"completed,omitempty"`
}

type specialCaseServiceImpl struct {
	store      *state.Store
	dispatcher dispatcher.Dispatcher
	validator  *utils.Validator
	logger     Logger
	now        func() time.Time
}

// NewSpecialCaseService creates a new SpecialCaseService
func NewSpecialCaseService(store *state.Store, d dispatcher.Dispatcher, v *utils.Validator, logger Logger) SpecialCaseService {
	return &specialCaseServiceImpl{
		store:      store,
		dispatcher: d,
		validator:  v,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *specialCaseServiceImpl) Save(ctx context.Context, sc entity.SpecialCase) (*SpecialCaseSaveResult, error) {
	sc.PolicyNo = strings.TrimSpace(sc.PolicyNo)
	sc.Name = strings.TrimSpace(utils.SanitizeString(sc.Name))
	sc.Type = strings.TrimSpace(sc.Type)
	sc.Issue = strings.TrimSpace(sc.Issue)
	if err := s.validator.Struct(sc); err != nil {
		s.logger.Info("Special case rejected", "policy_no", sc.PolicyNo, "missing", utils.FailedFields(err))
		return nil, userError(MsgAllFields, ErrMissingFields)
	}

	now := s.now()
	sc.UpdatedAt = now
	result := &SpecialCaseSaveResult{}

	err := s.store.Mutate(ctx, func(st *state.AppState) error {
		if sc.Resolved {
			delete(st.SpecialCases, sc.PolicyNo)
			result.Completed = resolve(st, &sc, now)
			return nil
		}
		saved := sc
		st.SpecialCases[sc.PolicyNo] = &saved
		result.Active = &saved
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Completed != nil {
		s.resolved(ctx, result.Completed)
		return result, nil
	}
	s.logger.Info("Special case saved", "policy_no", sc.PolicyNo, "type", sc.Type)
	s.dispatch(ctx, event.NewEvent(event.TypeSpecialCaseSaved, sc.PolicyNo, map[string]interface{}{
		"type": sc.Type,
	}))
	return result, nil
}

func (s *specialCaseServiceImpl) Resolve(ctx context.Context, policyNo string) (*entity.CompletedSpecialCase, error) {
	policyNo = strings.TrimSpace(policyNo)
	var completed *entity.CompletedSpecialCase
	err := s.store.Mutate(ctx, func(st *state.AppState) error {
		sc, ok := st.SpecialCases[policyNo]
		if !ok {
			return fmt.Errorf("special case %s: %w", policyNo, ErrNotFound)
		}
		delete(st.SpecialCases, policyNo)
		completed = resolve(st, sc, s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.resolved(ctx, completed)
	return completed, nil
}

func (s *specialCaseServiceImpl) Open(ctx context.Context, policyNo string) (*entity.SpecialCase, error) {
	sc, ok := s.store.State().SpecialCases[strings.TrimSpace(policyNo)]
	if !ok {
		return nil, fmt.Errorf("special case %s: %w", policyNo, ErrNotFound)
	}
	return sc, nil
}

func (s *specialCaseServiceImpl) ListActive(ctx context.Context, search string) ([]*entity.SpecialCase, error) {
	var out []*entity.SpecialCase
	for _, sc := range s.store.State().ActiveSpecialCases() {
		if matches(search, sc.PolicyNo, sc.Name, sc.Type, sc.Issue) {
			out = append(out, sc)
		}
	}
	return out, nil
}

func (s *specialCaseServiceImpl) Remove(ctx context.Context, policyNo string) error {
	policyNo = strings.TrimSpace(policyNo)
	err := s.store.Mutate(ctx, func(st *state.AppState) error {
		if _, ok := st.SpecialCases[policyNo]; !ok {
			return fmt.Errorf("special case %s: %w", policyNo, ErrNotFound)
		}
		delete(st.SpecialCases, policyNo)
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("Special case removed", "policy_no", policyNo)
	return nil
}

func (s *specialCaseServiceImpl) ListCompleted(ctx context.Context, search string) ([]*entity.CompletedSpecialCase, error) {
	var out []*entity.CompletedSpecialCase
	for _, c := range s.store.State().CompletedSpecialCases {
		if matches(search, c.PolicyNo, c.Name, c.Type, c.Issue) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *specialCaseServiceImpl) RemoveCompleted(ctx context.Context, id string) error {
	return s.store.Mutate(ctx, func(st *state.AppState) error {
		for i, c := range st.CompletedSpecialCases {
			if c.ID == id {
				st.CompletedSpecialCases = append(st.CompletedSpecialCases[:i], st.CompletedSpecialCases[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("completed special case %s: %w", id, ErrNotFound)
	})
}

func (s *specialCaseServiceImpl) resolved(ctx context.Context, c *entity.CompletedSpecialCase) {
	s.logger.Info("Special case resolved", "policy_no", c.PolicyNo, "completed_id", c.ID)
	s.dispatch(ctx, event.NewEvent(event.TypeSpecialCaseResolved, c.PolicyNo, map[string]interface{}{
		"completed_id": c.ID,
	}))
}

func (s *specialCaseServiceImpl) dispatch(ctx context.Context, evt *event.Event) {
	publish(ctx, s.dispatcher, s.logger, evt)
}

// resolve copies the case content unchanged into the completed list
func resolve(st *state.AppState, sc *entity.SpecialCase, now time.Time) *entity.CompletedSpecialCase {
	c := &entity.CompletedSpecialCase{
		ID:         uuid.NewString(),
		PolicyNo:   sc.PolicyNo,
		Name:       sc.Name,
		Type:       sc.Type,
		Issue:      sc.Issue,
		ResolvedAt: now,
	}
	st.CompletedSpecialCases = append(st.CompletedSpecialCases, c)
	return c
}
