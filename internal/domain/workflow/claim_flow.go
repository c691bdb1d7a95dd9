package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/garyjia/lic-claimdesk/internal/domain/entity"
)

// AutoExpandDelay is how long the desk waits before expanding a freshly
// unlocked section.
const AutoExpandDelay = 300 * time.Millisecond

var paths = map[entity.ClaimType][]Section{
	entity.ClaimTypeEarly: {
		SectionCheckNominee,
		SectionDocumentsRequired,
		SectionInvestigation,
		SectionDODecision,
		SectionProceedPayment,
	},
	entity.ClaimTypeNonEarlyMid: {
		SectionCheckNominee,
		SectionDocumentsRequired,
		SectionInvestigation,
		SectionProceedPayment,
	},
	entity.ClaimTypeNonEarly: {
		SectionCheckNominee,
		SectionDocumentsRequired,
		SectionProceedPayment,
	},
}

// Path returns the ordered sections a claim type goes through
func Path(claimType entity.ClaimType) ([]Section, error) {
	p, ok := paths[claimType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClaimType, claimType)
	}
	return append([]Section{}, p...), nil
}

// LETFormsRequired is true when there is no nominee on record
func LETFormsRequired(fields entity.WorkflowState) bool {
	return fields.Bool(entity.FieldNomineeNotAvailable)
}

// SectionComplete reports whether the required inputs of a section are filled in
func SectionComplete(section Section, fields entity.WorkflowState) bool {
	switch section {
	case SectionCheckNominee:
		return fields.Bool(entity.FieldNomineeAvailable) || fields.Bool(entity.FieldNomineeNotAvailable)
	case SectionDocumentsRequired:
		if !fields.Bool(entity.FieldDeathClaimFormDocs) {
			return false
		}
		return !LETFormsRequired(fields) || fields.Bool(entity.FieldLETForms)
	case SectionInvestigation:
		return fields.InvestigationTypeSelected() && fields.Bool(entity.FieldInvestigationReceived)
	case SectionDODecision:
		return fields.Bool(entity.FieldDODecisionReceived)
	case SectionProceedPayment:
		return fields.Bool(entity.FieldPaymentDone)
	}
	return false
}

func completeGuard(section Section) GuardFunc {
	return func(_ context.Context, fields entity.WorkflowState) bool {
		return SectionComplete(section, fields)
	}
}

// NewClaimMachine builds the section machine for a claim type, starting at Check Nominee
func NewClaimMachine(claimType entity.ClaimType) (StateMachine, error) {
	path, err := Path(claimType)
	if err != nil {
		return nil, err
	}

	builder := NewBuilder()
	for i, section := range path {
		next := SectionClosed
		if i+1 < len(path) {
			next = path[i+1]
		}
		builder.Configure(section).PermitIf(TriggerComplete, next, completeGuard(section))
	}

	return builder.Build(SectionCheckNominee), nil
}

// NextSection is the pure transition function: given the claim type and the
// set of completed sections it returns the section that is unlocked next.
// Sections off the claim type's path are ignored. Returns SectionClosed once
// every section on the path is complete.
func NextSection(claimType entity.ClaimType, completed map[Section]bool) (Section, error) {
	path, err := Path(claimType)
	if err != nil {
		return "", err
	}
	for _, section := range path {
		if !completed[section] {
			return section, nil
		}
	}
	return SectionClosed, nil
}

// Progress is the unlock state of one claim's workflow
type Progress struct {
	ClaimType entity.ClaimType `json:"claimType"`
	Current   Section          `json:"current"`
	Completed []Section        `json:"completed"`
	Unlocked  []Section        `json:"unlocked"`
	Closed    bool             `json:"closed"`

	// AutoExpand is the section to open after ExpandAfter; empty when nothing was unlocked
	AutoExpand  Section       `json:"autoExpand,omitempty"`
	ExpandAfter time.Duration `json:"expandAfter,omitempty"`
}

// IsUnlocked reports whether a section can be opened
func (p *Progress) IsUnlocked(section Section) bool {
	for _, s := range p.Unlocked {
		if s == section {
			return true
		}
	}
	return false
}

// Evaluate drives a fresh machine forward from Check Nominee for as long as
// each section's guard passes. The result is re-derived from the field values
// every time, so clearing an earlier field locks the sections after it again.
func Evaluate(ctx context.Context, claimType entity.ClaimType, fields entity.WorkflowState) (*Progress, error) {
	machine, err := NewClaimMachine(claimType)
	if err != nil {
		return nil, err
	}

	progress := &Progress{
		ClaimType: claimType,
		Unlocked:  []Section{SectionCheckNominee},
	}

	for !machine.Section().IsTerminal() {
		from := machine.Section()
		if err := machine.Fire(ctx, TriggerComplete, fields); err != nil {
			if errors.Is(err, ErrGuardFailed) {
				break
			}
			return nil, err
		}
		progress.Completed = append(progress.Completed, from)
		if to := machine.Section(); !to.IsTerminal() {
			progress.Unlocked = append(progress.Unlocked, to)
		}
	}

	progress.Current = machine.Section()
	progress.Closed = progress.Current.IsTerminal()
	if len(progress.Completed) > 0 && !progress.Closed {
		progress.AutoExpand = progress.Current
		progress.ExpandAfter = AutoExpandDelay
	}

	return progress, nil
}

// PaymentUnlocked reports whether every section ahead of Proceed Payment on
// the claim type's path is complete. The payment box itself is ignored.
func PaymentUnlocked(ctx context.Context, claimType entity.ClaimType, fields entity.WorkflowState) (bool, error) {
	pending := fields.Clone()
	delete(pending, entity.FieldPaymentDone)

	p, err := Evaluate(ctx, claimType, pending)
	if err != nil {
		return false, err
	}
	completed := make(map[Section]bool, len(p.Completed))
	for _, s := range p.Completed {
		completed[s] = true
	}
	next, err := NextSection(claimType, completed)
	if err != nil {
		return false, err
	}
	return next == SectionProceedPayment, nil
}
