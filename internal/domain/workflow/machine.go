package workflow

import (
	"context"

	"github.com/garyjia/lic-claimdesk/internal/domain/entity"
)

// StateMachine tracks the furthest unlocked section of one claim
type StateMachine interface {
	// Section returns the current section
	Section() Section

	// Fire evaluates the guards against the claim's form fields and moves on
	Fire(ctx context.Context, trigger Trigger, fields entity.WorkflowState) error
}
