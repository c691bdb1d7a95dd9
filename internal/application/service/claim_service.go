package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/garyjia/lic-claimdesk/internal/application/dispatcher"
	"github.com/garyjia/lic-claimdesk/internal/application/state"
	"github.com/garyjia/lic-claimdesk/internal/domain/claimdate"
	"github.com/garyjia/lic-claimdesk/internal/domain/entity"
	"github.com/garyjia/lic-claimdesk/internal/domain/event"
	"github.com/garyjia/lic-claimdesk/internal/domain/workflow"
	"github.com/garyjia/lic-claimdesk/pkg/utils"
)

// ClaimService defines the death-claim desk operations
type ClaimService interface {
	// SaveProgress creates or updates an active claim. Fields are merged into
	// the stored workflow state; a ticked payment box completes the claim.
	SaveProgress(ctx context.Context, in ClaimInput) (*ClaimSaveResult, error)
	Open(ctx context.Context, policyNo string) (*ClaimView, error)
	ListActive(ctx context.Context, search string) ([]*ClaimView, error)
	Remove(ctx context.Context, policyNo string) error
	MarkPaymentDone(ctx context.Context, policyNo string) (*entity.CompletedClaim, error)
	ListCompleted(ctx context.Context, search string) ([]*entity.CompletedClaim, error)
	RemoveCompleted(ctx context.Context, id string) error
	Assess(commencement, death string) (*claimdate.Assessment, error)
}

// ClaimInput is the claim form as submitted
type ClaimInput struct {
	PolicyNo         string               `json:"policyNo" validate:"required"`
	ClaimantName     string               `json:"name" validate:"required"`
	ClaimType        string               `json:"claimType" validate:"required"`
	CommencementDate string               `json:"commencementDate"`
	DeathDate        string               `json:"deathDate"`
	Query            string               `json:"query"`
	Fields           entity.WorkflowState `json:"fields"`
}

// ClaimView is an active claim with its derived stage and progress
type ClaimView struct {
	Claim    *entity.Claim      `json:"claim"`
	Stage    workflow.Stage     `json:"stage"`
	Progress *workflow.Progress `json:"progress"`
}

// ClaimSaveResult reports what a save did. Completed is set when the save
// closed the claim, in which case View is nil.
type ClaimSaveResult struct {
	View      *ClaimView             `json:"view,omitempty"`
	Completed *entity.CompletedClaim `json:"completed,omitempty"`
	Unlocked  []workflow.Section     `json:"unlocked,omitempty"`
}

type claimServiceImpl struct {
	store      *state.Store
	dispatcher dispatcher.Dispatcher
	validator  *utils.Validator
	logger     Logger
	now        func() time.Time
}

// NewClaimService creates a new ClaimService
func NewClaimService(store *state.Store, d dispatcher.Dispatcher, v *utils.Validator, logger Logger) ClaimService {
	return &claimServiceImpl{
		store:      store,
		dispatcher: d,
		validator:  v,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *claimServiceImpl) SaveProgress(ctx context.Context, in ClaimInput) (*ClaimSaveResult, error) {
	in.PolicyNo = strings.TrimSpace(in.PolicyNo)
	in.ClaimantName = strings.TrimSpace(utils.SanitizeString(in.ClaimantName))
	if err := s.validator.Struct(in); err != nil {
		s.logger.Info("Claim rejected", "policy_no", in.PolicyNo, "missing", utils.FailedFields(err))
		return nil, userError(MsgClaimBasicInfo, ErrMissingFields)
	}
	claimType, ok := entity.ParseClaimType(in.ClaimType)
	if !ok {
		return nil, userError(fmt.Sprintf("Unknown claim type %q.", in.ClaimType), workflow.ErrUnknownClaimType)
	}

	now := s.now()
	var (
		result  = &ClaimSaveResult{}
		before  *workflow.Progress
		after   *workflow.Progress
		created bool
	)

	err := s.store.Mutate(ctx, func(st *state.AppState) error {
		claim, exists := st.Claims[in.PolicyNo]
		if !exists {
			claim = &entity.Claim{
				PolicyNo:  in.PolicyNo,
				Workflow:  entity.WorkflowState{},
				CreatedAt: now,
			}
			created = true
		} else if p, err := workflow.Evaluate(ctx, claim.ClaimType, claim.Workflow); err == nil {
			before = p
		}

		claim.ClaimantName = in.ClaimantName
		claim.ClaimType = claimType
		claim.CommencementDate = strings.TrimSpace(in.CommencementDate)
		claim.DeathDate = strings.TrimSpace(in.DeathDate)
		claim.Query = in.Query
		claim.UpdatedAt = now
		if claim.Workflow == nil {
			claim.Workflow = entity.WorkflowState{}
		}
		claim.Workflow.Apply(in.Fields)

		if claim.Workflow.Bool(entity.FieldPaymentDone) {
			if err := paymentAllowed(ctx, claim); err != nil {
				return err
			}
			delete(st.Claims, claim.PolicyNo)
			result.Completed = complete(st, claim, now)
			return nil
		}

		p, err := workflow.Evaluate(ctx, claim.ClaimType, claim.Workflow)
		if err != nil {
			return err
		}
		after = p
		st.Claims[claim.PolicyNo] = claim
		result.View = &ClaimView{Claim: claim, Stage: workflow.DeriveStage(claim.Workflow), Progress: p}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Completed != nil {
		s.logger.Info("Claim completed", "policy_no", in.PolicyNo, "claim_type", claimType)
		s.dispatch(ctx, event.NewEvent(event.TypeClaimCompleted, in.PolicyNo, map[string]interface{}{
			"completed_id": result.Completed.ID,
		}))
		return result, nil
	}

	result.Unlocked = newlyUnlocked(before, after)
	s.logger.Info("Claim saved",
		"policy_no", in.PolicyNo,
		"created", created,
		"stage", result.View.Stage,
		"current_section", after.Current,
	)
	s.dispatch(ctx, event.NewEvent(event.TypeClaimSaved, in.PolicyNo, map[string]interface{}{
		"created": created,
		"stage":   result.View.Stage.String(),
	}))
	for _, section := range result.Unlocked {
		s.dispatch(ctx, event.NewEvent(event.TypeSectionUnlocked, in.PolicyNo, map[string]interface{}{
			"section": string(section),
		}))
	}
	return result, nil
}

func (s *claimServiceImpl) Open(ctx context.Context, policyNo string) (*ClaimView, error) {
	claim, ok := s.store.State().Claims[strings.TrimSpace(policyNo)]
	if !ok {
		return nil, fmt.Errorf("claim %s: %w", policyNo, ErrNotFound)
	}
	return s.view(ctx, claim)
}

func (s *claimServiceImpl) ListActive(ctx context.Context, search string) ([]*ClaimView, error) {
	claims := s.store.State().ActiveClaims()
	views := make([]*ClaimView, 0, len(claims))
	for _, c := range claims {
		v, err := s.view(ctx, c)
		if err != nil {
			return nil, err
		}
		if matches(search, c.PolicyNo, c.ClaimantName, c.ClaimType.String(), v.Stage.String()) {
			views = append(views, v)
		}
	}
	return views, nil
}

func (s *claimServiceImpl) Remove(ctx context.Context, policyNo string) error {
	policyNo = strings.TrimSpace(policyNo)
	err := s.store.Mutate(ctx, func(st *state.AppState) error {
		if _, ok := st.Claims[policyNo]; !ok {
			return fmt.Errorf("claim %s: %w", policyNo, ErrNotFound)
		}
		delete(st.Claims, policyNo)
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("Claim removed", "policy_no", policyNo)
	s.dispatch(ctx, event.NewEvent(event.TypeClaimRemoved, policyNo, nil))
	return nil
}

func (s *claimServiceImpl) MarkPaymentDone(ctx context.Context, policyNo string) (*entity.CompletedClaim, error) {
	policyNo = strings.TrimSpace(policyNo)
	var completed *entity.CompletedClaim
	err := s.store.Mutate(ctx, func(st *state.AppState) error {
		claim, ok := st.Claims[policyNo]
		if !ok {
			return fmt.Errorf("claim %s: %w", policyNo, ErrNotFound)
		}
		if err := paymentAllowed(ctx, claim); err != nil {
			return err
		}
		delete(st.Claims, policyNo)
		completed = complete(st, claim, s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Claim completed", "policy_no", policyNo, "claim_type", completed.ClaimType)
	s.dispatch(ctx, event.NewEvent(event.TypeClaimCompleted, policyNo, map[string]interface{}{
		"completed_id": completed.ID,
	}))
	return completed, nil
}

func (s *claimServiceImpl) ListCompleted(ctx context.Context, search string) ([]*entity.CompletedClaim, error) {
	var out []*entity.CompletedClaim
	for _, c := range s.store.State().CompletedClaims {
		if matches(search, c.PolicyNo, c.ClaimantName, c.ClaimType.String(), c.CompletedAt.Format(claimdate.Layout)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *claimServiceImpl) RemoveCompleted(ctx context.Context, id string) error {
	return s.store.Mutate(ctx, func(st *state.AppState) error {
		for i, c := range st.CompletedClaims {
			if c.ID == id {
				st.CompletedClaims = append(st.CompletedClaims[:i], st.CompletedClaims[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("completed claim %s: %w", id, ErrNotFound)
	})
}

func (s *claimServiceImpl) Assess(commencement, death string) (*claimdate.Assessment, error) {
	a, err := claimdate.Assess(commencement, death, s.now())
	if err != nil {
		if errors.Is(err, claimdate.ErrInvalidDate) {
			return nil, userError("Please enter dates as DD/MM/YYYY.", err)
		}
		return nil, err
	}
	return a, nil
}

func (s *claimServiceImpl) view(ctx context.Context, claim *entity.Claim) (*ClaimView, error) {
	v := &ClaimView{Claim: claim, Stage: workflow.DeriveStage(claim.Workflow)}
	p, err := workflow.Evaluate(ctx, claim.ClaimType, claim.Workflow)
	switch {
	case errors.Is(err, workflow.ErrUnknownClaimType):
		// still listed so it can be re-saved with a type; sections stay unknown
		s.logger.Warn("Claim has no workflow path", "policy_no", claim.PolicyNo, "claim_type", claim.ClaimType)
	case err != nil:
		return nil, fmt.Errorf("claim %s: %w", claim.PolicyNo, err)
	default:
		v.Progress = p
	}
	return v, nil
}

// paymentAllowed refuses the terminal action until the claim's path has
// reached Proceed Payment
func paymentAllowed(ctx context.Context, claim *entity.Claim) error {
	ok, err := workflow.PaymentUnlocked(ctx, claim.ClaimType, claim.Workflow)
	if err != nil {
		return fmt.Errorf("claim %s: %w", claim.PolicyNo, err)
	}
	if !ok {
		return userError(MsgPaymentLocked, fmt.Errorf("claim %s: %w", claim.PolicyNo, workflow.ErrGuardFailed))
	}
	return nil
}

func (s *claimServiceImpl) dispatch(ctx context.Context, evt *event.Event) {
	publish(ctx, s.dispatcher, s.logger, evt)
}

// complete appends the history entry for a claim that has left the active set
func complete(st *state.AppState, claim *entity.Claim, now time.Time) *entity.CompletedClaim {
	c := &entity.CompletedClaim{
		ID:           uuid.NewString(),
		PolicyNo:     claim.PolicyNo,
		ClaimantName: claim.ClaimantName,
		ClaimType:    claim.ClaimType,
		CompletedAt:  now,
	}
	st.CompletedClaims = append(st.CompletedClaims, c)
	return c
}

// newlyUnlocked lists sections unlocked in after but not in before
func newlyUnlocked(before, after *workflow.Progress) []workflow.Section {
	if after == nil {
		return nil
	}
	var out []workflow.Section
	for _, section := range after.Unlocked {
		if section == workflow.SectionCheckNominee {
			continue
		}
		if before == nil || !before.IsUnlocked(section) {
			out = append(out, section)
		}
	}
	return out
}
