package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/garyjia/lic-claimdesk/internal/application/dispatcher"
	"github.com/garyjia/lic-claimdesk/internal/application/state"
	"github.com/garyjia/lic-claimdesk/internal/domain/entity"
	"github.com/garyjia/lic-claimdesk/internal/domain/event"
	"github.com/garyjia/lic-claimdesk/internal/followup"
	"github.com/garyjia/lic-claimdesk/pkg/utils"
)

// FollowUpService manages the claims follow-up list
type FollowUpService interface {
	Import(ctx context.Context, text string) (*ImportResult, error)
	// ImportFile reads .xlsx workbooks with excelize; anything else is
	// treated as pasted text
	ImportFile(ctx context.Context, path, sheet string) (*ImportResult, error)
	Update(ctx context.Context, policyNo string, patch FollowUpPatch) (*entity.FollowUpRecord, error)
	Remove(ctx context.Context, policyNo string) error
	// List filters by status when status is non-empty
	List(ctx context.Context, status entity.FollowUpStatus, search string) ([]*entity.FollowUpRecord, error)
	Headers(ctx context.Context) []string
	Clear(ctx context.Context) (int, error)
}

// ImportResult is the parse outcome plus what the merge changed
type ImportResult struct {
	Parse *followup.ParseResult `json:"parse"`
	Stats followup.MergeStats   `json:"stats"`
}

// FollowUpPatch edits the locally kept fields. Nil fields are left alone.
type FollowUpPatch struct {
	Status      *entity.FollowUpStatus
	Agent       *string
	AgentMobile *string
	CustomerNo  *string
	CustomerOP  *string
	Remarks     *string
}

type followUpServiceImpl struct {
	store      *state.Store
	dispatcher dispatcher.Dispatcher
	logger     Logger
	now        func() time.Time
}

// NewFollowUpService creates a new FollowUpService
func NewFollowUpService(store *state.Store, d dispatcher.Dispatcher, logger Logger) FollowUpService {
	return &followUpServiceImpl{
		store:      store,
		dispatcher: d,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *followUpServiceImpl) Import(ctx context.Context, text string) (*ImportResult, error) {
	res, err := followup.Parse(text)
	return s.merge(ctx, "paste", res, err)
}

func (s *followUpServiceImpl) ImportFile(ctx context.Context, path, sheet string) (*ImportResult, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		res, err := followup.ParseXLSX(f, sheet)
		return s.merge(ctx, filepath.Base(path), res, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	res, err := followup.Parse(string(data))
	return s.merge(ctx, filepath.Base(path), res, err)
}

// merge folds a parse result into the book. A parse with no usable rows
// still returns the result so skipped lines can be shown.
func (s *followUpServiceImpl) merge(ctx context.Context, source string, res *followup.ParseResult, parseErr error) (*ImportResult, error) {
	if parseErr != nil {
		msg, _ := UserMessage(parseErr)
		s.logger.Info("Follow-up import rejected", "source", source, "reason", parseErr)
		if errors.Is(parseErr, followup.ErrEmptyInput) || errors.Is(parseErr, followup.ErrNoRows) {
			if res != nil {
				return &ImportResult{Parse: res, Stats: followup.MergeStats{Skipped: len(res.Skipped)}}, userError(msg, parseErr)
			}
			return nil, userError(msg, parseErr)
		}
		return nil, parseErr
	}

	out := &ImportResult{Parse: res}
	err := s.store.Mutate(ctx, func(st *state.AppState) error {
		out.Stats = followup.Merge(st.FollowUps, res, s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Follow-ups imported",
		"source", source,
		"format", res.Format,
		"header", res.HeaderDecision,
		"added", out.Stats.Added,
		"updated", out.Stats.Updated,
		"skipped", out.Stats.Skipped,
	)
	publish(ctx, s.dispatcher, s.logger, event.NewEvent(event.TypeFollowUpsImported, "", map[string]interface{}{
		"added":   out.Stats.Added,
		"updated": out.Stats.Updated,
		"skipped": out.Stats.Skipped,
	}))
	return out, nil
}

func (s *followUpServiceImpl) Update(ctx context.Context, policyNo string, patch FollowUpPatch) (*entity.FollowUpRecord, error) {
	policyNo = strings.TrimSpace(policyNo)
	if patch.Status != nil && !patch.Status.IsValid() {
		return nil, userError(fmt.Sprintf("Unknown status %q.", *patch.Status), ErrMissingFields)
	}

	var updated *entity.FollowUpRecord
	err := s.store.Mutate(ctx, func(st *state.AppState) error {
		rec := st.FollowUps.Get(policyNo)
		if rec == nil {
			return fmt.Errorf("follow-up %s: %w", policyNo, ErrNotFound)
		}
		if patch.Status != nil {
			rec.Status = *patch.Status
		}
		if patch.Agent != nil {
			rec.Agent = strings.TrimSpace(*patch.Agent)
		}
		if patch.AgentMobile != nil {
			rec.AgentMobile = utils.NormalizeE164(*patch.AgentMobile)
		}
		if patch.CustomerNo != nil {
			rec.CustomerNo = strings.TrimSpace(*patch.CustomerNo)
		}
		if patch.CustomerOP != nil {
			rec.CustomerOP = strings.TrimSpace(*patch.CustomerOP)
		}
		if patch.Remarks != nil {
			rec.Remarks = utils.SanitizeString(*patch.Remarks)
		}
		rec.UpdatedAt = s.now()
		updated = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Follow-up updated", "policy_no", policyNo, "status", updated.Status)
	return updated, nil
}

func (s *followUpServiceImpl) Remove(ctx context.Context, policyNo string) error {
	policyNo = strings.TrimSpace(policyNo)
	return s.store.Mutate(ctx, func(st *state.AppState) error {
		if !st.FollowUps.Remove(policyNo) {
			return fmt.Errorf("follow-up %s: %w", policyNo, ErrNotFound)
		}
		return nil
	})
}

func (s *followUpServiceImpl) List(ctx context.Context, status entity.FollowUpStatus, search string) ([]*entity.FollowUpRecord, error) {
	book := s.store.State().FollowUps
	var out []*entity.FollowUpRecord
	for _, rec := range book.List() {
		if status != "" && rec.Status != status {
			continue
		}
		columns := []string{rec.PolicyNo, rec.Agent, rec.AgentMobile, rec.CustomerNo, rec.CustomerOP, rec.Remarks}
		for _, h := range book.Headers {
			columns = append(columns, rec.Columns[h])
		}
		if matches(search, columns...) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *followUpServiceImpl) Headers(ctx context.Context) []string {
	return s.store.State().FollowUps.Headers
}

func (s *followUpServiceImpl) Clear(ctx context.Context) (int, error) {
	var removed int
	err := s.store.Mutate(ctx, func(st *state.AppState) error {
		removed = st.FollowUps.Len()
		st.FollowUps = entity.NewFollowUpBook()
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("Follow-ups cleared", "count", removed)
	return removed, nil
}
