package workflow

import "github.com/garyjia/lic-claimdesk/internal/domain/entity"

// Stage is the one-line progress label shown in the active claims listing
type Stage string

const (
	StagePaymentDone           Stage = "Payment Done"
	StageDODecisionReceived    Stage = "D.O. Decision Received"
	StageInvestigationComplete Stage = "Investigation Complete"
	StageUnderInvestigation    Stage = "Under Investigation"
	StageDocumentsReceived     Stage = "Documents Received"
	StageNomineeVerified       Stage = "Nominee Verified"
	StageInitialReview         Stage = "Initial Review"
)

// String returns the label
func (s Stage) String() string {
	return string(s)
}

// DeriveStage scans the form fields in fixed priority order. The first match
// wins, so a ticked payment box always reads as Payment Done.
func DeriveStage(fields entity.WorkflowState) Stage {
	switch {
	case fields.Bool(entity.FieldPaymentDone):
		return StagePaymentDone
	case fields.Bool(entity.FieldDODecisionReceived):
		return StageDODecisionReceived
	case fields.Bool(entity.FieldInvestigationReceived):
		return StageInvestigationComplete
	case fields.String(entity.FieldInvestigationDate) != "":
		return StageUnderInvestigation
	case fields.Bool(entity.FieldDeathClaimFormDocs):
		return StageDocumentsReceived
	case fields.Bool(entity.FieldNomineeAvailable), fields.Bool(entity.FieldNomineeNotAvailable):
		return StageNomineeVerified
	}
	return StageInitialReview
}
