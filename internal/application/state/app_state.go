// Package state owns the in-memory application state and its persistence
// to the partitioned record store.
package state

import (
	"sort"

	"github.com/garyjia/lic-claimdesk/internal/domain/entity"
)

// AppState is everything the desk tracks. Active claims and special cases
// are keyed by policy number.
type AppState struct {
	Claims                map[string]*entity.Claim
	CompletedClaims       []*entity.CompletedClaim
	SpecialCases          map[string]*entity.SpecialCase
	CompletedSpecialCases []*entity.CompletedSpecialCase
	FollowUps             *entity.FollowUpBook
}

// NewAppState returns an empty state
func NewAppState() *AppState {
	return &AppState{
		Claims:       make(map[string]*entity.Claim),
		SpecialCases: make(map[string]*entity.SpecialCase),
		FollowUps:    entity.NewFollowUpBook(),
	}
}

// Clone returns a deep copy so a failed save leaves the original untouched
func (s *AppState) Clone() *AppState {
	out := &AppState{
		Claims:                make(map[string]*entity.Claim, len(s.Claims)),
		CompletedClaims:       make([]*entity.CompletedClaim, 0, len(s.CompletedClaims)),
		SpecialCases:          make(map[string]*entity.SpecialCase, len(s.SpecialCases)),
		CompletedSpecialCases: make([]*entity.CompletedSpecialCase, 0, len(s.CompletedSpecialCases)),
		FollowUps:             s.FollowUps.Clone(),
	}
	for k, c := range s.Claims {
		cc := *c
		cc.Workflow = c.Workflow.Clone()
		out.Claims[k] = &cc
	}
	for _, c := range s.CompletedClaims {
		cc := *c
		out.CompletedClaims = append(out.CompletedClaims, &cc)
	}
	for k, sc := range s.SpecialCases {
		cc := *sc
		out.SpecialCases[k] = &cc
	}
	for _, sc := range s.CompletedSpecialCases {
		cc := *sc
		out.CompletedSpecialCases = append(out.CompletedSpecialCases, &cc)
	}
	return out
}

// ActiveClaims returns active claims, oldest first
func (s *AppState) ActiveClaims() []*entity.Claim {
	out := make([]*entity.Claim, 0, len(s.Claims))
	for _, c := range s.Claims {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].PolicyNo < out[j].PolicyNo
	})
	return out
}

// ActiveSpecialCases returns active special cases, oldest first
func (s *AppState) ActiveSpecialCases() []*entity.SpecialCase {
	out := make([]*entity.SpecialCase, 0, len(s.SpecialCases))
	for _, c := range s.SpecialCases {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.Before(out[j].UpdatedAt)
		}
		return out[i].PolicyNo < out[j].PolicyNo
	})
	return out
}

// Counters computes the dashboard counters
func (s *AppState) Counters() entity.Counters {
	c := entity.Counters{
		ActiveClaims:          len(s.Claims),
		ActiveSpecialCases:    len(s.SpecialCases),
		CompletedClaims:       len(s.CompletedClaims),
		CompletedSpecialCases: len(s.CompletedSpecialCases),
		FollowUps:             s.FollowUps.Len(),
		FollowUpsByStatus:     make(map[entity.FollowUpStatus]int, len(entity.FollowUpStatuses)),
	}
	for _, st := range entity.FollowUpStatuses {
		c.FollowUpsByStatus[st] = 0
	}
	for _, rec := range s.FollowUps.Records {
		c.FollowUpsByStatus[rec.Status]++
	}
	return c
}
