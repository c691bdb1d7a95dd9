package entity

// ClaimType is the duration category a death claim is processed under.
type ClaimType string

const (
	ClaimTypeEarly       ClaimType = "Early"
	ClaimTypeNonEarlyMid ClaimType = "Non-Early (4–5 Yrs)"
	ClaimTypeNonEarly    ClaimType = "Non-Early"
)

// String returns the string representation of the claim type
func (t ClaimType) String() string {
	return string(t)
}

// IsValid returns true if the claim type is one of the known categories
func (t ClaimType) IsValid() bool {
	switch t {
	case ClaimTypeEarly, ClaimTypeNonEarlyMid, ClaimTypeNonEarly:
		return true
	}
	return false
}

// ParseClaimType accepts the display labels plus a few shorthand spellings
// used on the command line.
func ParseClaimType(s string) (ClaimType, bool) {
	switch s {
	case "Early", "early":
		return ClaimTypeEarly, true
	case "Non-Early (4–5 Yrs)", "Non-Early (4-5 Yrs)", "non-early-mid", "mid":
		return ClaimTypeNonEarlyMid, true
	case "Non-Early", "non-early", "late":
		return ClaimTypeNonEarly, true
	}
	return "", false
}

// Workflow field identifiers. These mirror the input ids of the claim form,
// so legacy workflow blobs decode without translation.
const (
	FieldNomineeAvailable      = "nomineeAvailable"
	FieldNomineeNotAvailable   = "nomineeNotAvailable"
	FieldDeathClaimFormDocs    = "deathClaimFormDocs"
	FieldLETForms              = "letForms"
	FieldInvestigationType     = "investigationType"
	FieldInvestigationDate     = "investigationDate"
	FieldInvestigationReceived = "investigationReceived"
	FieldDOSentDate            = "doSentDate"
	FieldDODecisionReceived    = "doDecisionReceived"
	FieldPaymentDone           = "paymentDone"
)

// Investigation types offered on the form
const (
	InvestigationBranch     = "Branch"
	InvestigationDivisional = "Divisional"
	InvestigationAgency     = "Agency"
)

// FollowUpStatus is the colour tag attached to a follow-up record
type FollowUpStatus string

const (
	FollowUpGrey   FollowUpStatus = "grey"
	FollowUpRed    FollowUpStatus = "red"
	FollowUpYellow FollowUpStatus = "yellow"
	FollowUpBlue   FollowUpStatus = "blue"
	FollowUpGreen  FollowUpStatus = "green"
)

// FollowUpStatuses lists statuses in display order
var FollowUpStatuses = []FollowUpStatus{FollowUpGrey, FollowUpRed, FollowUpYellow, FollowUpBlue, FollowUpGreen}

// IsValid returns true if the status is a known colour
func (s FollowUpStatus) IsValid() bool {
	for _, known := range FollowUpStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Payment modes accepted by the premium calculator
const (
	ModeYearly     = "YLY"
	ModeHalfYearly = "HLY"
	ModeQuarterly  = "QLY"
	ModeMonthly    = "MLY"
)
