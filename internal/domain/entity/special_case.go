package entity

import "time"

// SpecialCase is a dispute or non-standard case tracked next to the claims
type SpecialCase struct {
	PolicyNo  string    `json:"policyNo" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	Type      string    `json:"type" validate:"required"`
	Issue     string    `json:"issue" validate:"required"`
	Resolved  bool      `json:"resolved"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// CompletedSpecialCase is the append-only history entry of a resolved case.
// Content fields are copied from the active case without modification.
type CompletedSpecialCase struct {
	ID         string    `json:"id"`
	PolicyNo   string    `json:"policyNo"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Issue      string    `json:"issue"`
	ResolvedAt time.Time `json:"resolvedAt"`
}
