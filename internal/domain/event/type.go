package event

// Type identifies the type of domain event
type Type string

const (
	TypeStoreSaved          Type = "store.saved"
	TypeStoreLoaded         Type = "store.loaded"
	TypeClaimSaved          Type = "claim.saved"
	TypeClaimCompleted      Type = "claim.completed"
	TypeClaimRemoved        Type = "claim.removed"
	TypeSectionUnlocked     Type = "claim.section_unlocked"
	TypeSpecialCaseSaved    Type = "specialcase.saved"
	TypeSpecialCaseResolved Type = "specialcase.resolved"
	TypeFollowUpsImported   Type = "followups.imported"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeStoreSaved,
		TypeStoreLoaded,
		TypeClaimSaved,
		TypeClaimCompleted,
		TypeClaimRemoved,
		TypeSectionUnlocked,
		TypeSpecialCaseSaved,
		TypeSpecialCaseResolved,
		TypeFollowUpsImported:
		return true
	default:
		return false
	}
}
