package entity

import (
	"strings"
	"time"
)

// Claim represents an active death claim being worked on the desk.
// PolicyNo is the unique key shared with special cases and follow-ups.
type Claim struct {
	PolicyNo         string    `json:"policyNo" validate:"required"`
	ClaimantName     string    `json:"name" validate:"required"`
	CommencementDate string    `json:"commencementDate,omitempty"`
	DeathDate        string    `json:"deathDate,omitempty"`
	Query            string    `json:"query,omitempty"`
	ClaimType        ClaimType `json:"claimType" validate:"required"`

	// Workflow is persisted under its own sentinel blob, not inside the claim record
	Workflow WorkflowState `json:"-"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// CompletedClaim is the append-only history entry written when payment is done
type CompletedClaim struct {
	ID           string    `json:"id"`
	PolicyNo     string    `json:"policyNo"`
	ClaimantName string    `json:"name"`
	ClaimType    ClaimType `json:"claimType"`
	CompletedAt  time.Time `json:"completedAt"`
}

// WorkflowState maps a form field id to its value. Checkboxes and radios
// hold bools, dates and selects hold strings.
type WorkflowState map[string]interface{}

// Bool reads a checkbox/radio field. Legacy blobs sometimes stored "true"/"on".
func (w WorkflowState) Bool(field string) bool {
	switch v := w[field].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "on", "yes", "1":
			return true
		}
	case float64:
		return v != 0
	}
	return false
}

// String reads a text/date/select field
func (w WorkflowState) String(field string) string {
	if s, ok := w[field].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// Clone returns a shallow copy; values are scalars so this is a full copy
func (w WorkflowState) Clone() WorkflowState {
	out := make(WorkflowState, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// InvestigationTypeSelected reports whether any investigation type radio is set.
// Older blobs stored one bool per radio id (investigationTypeBranch, ...).
func (w WorkflowState) InvestigationTypeSelected() bool {
	if w.String(FieldInvestigationType) != "" {
		return true
	}
	for k := range w {
		if isInvestigationRadio(k) && w.Bool(k) {
			return true
		}
	}
	return false
}

// Apply merges submitted form values into the state. Radio groups stay
// exclusive: choosing one nominee option clears the other, and choosing an
// investigation type clears every other per-radio investigation key.
func (w WorkflowState) Apply(changes WorkflowState) {
	for k, v := range changes {
		w[k] = v
	}

	switch {
	case changes.Bool(FieldNomineeAvailable):
		w[FieldNomineeNotAvailable] = false
	case changes.Bool(FieldNomineeNotAvailable):
		w[FieldNomineeAvailable] = false
	}

	chosen := ""
	if changes.String(FieldInvestigationType) == "" {
		for k := range changes {
			if isInvestigationRadio(k) && changes.Bool(k) {
				chosen = k
				break
			}
		}
		if chosen == "" {
			return
		}
		delete(w, FieldInvestigationType)
	}
	for k := range w {
		if isInvestigationRadio(k) && k != chosen {
			w[k] = false
		}
	}
}

func isInvestigationRadio(key string) bool {
	return key != FieldInvestigationType && strings.HasPrefix(key, FieldInvestigationType)
}
