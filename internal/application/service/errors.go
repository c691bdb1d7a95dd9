package service

import (
	"errors"
	"fmt"

	"github.com/garyjia/lic-claimdesk/internal/followup"
	"github.com/garyjia/lic-claimdesk/internal/premium"
)

var (
	// ErrMissingFields is returned when required form fields are blank
	ErrMissingFields = errors.New("missing required fields")
	// ErrNotFound is returned when the policy or record is not tracked
	ErrNotFound = errors.New("not found")
)

// Messages shown to the user
const (
	MsgClaimBasicInfo   = "Please fill basic claim information first."
	MsgAllFields        = "Please fill all fields."
	MsgNothingToImport  = "Please paste some data first."
	MsgNoPolicyRows     = "No rows with a policy number were found."
	MsgRateNotAvailable = "Tabular premium not found for this plan, age and term."
	MsgPaymentLocked    = "Please complete the earlier sections before marking payment done."
)

// UserError is a failure the user can fix. Message is shown as is.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

func userError(msg string, err error) error {
	return &UserError{Message: msg, Err: err}
}

// UserMessage returns the message to show for err and whether err is one
// the user caused
func UserMessage(err error) (string, bool) {
	var ue *UserError
	switch {
	case errors.As(err, &ue):
		return ue.Message, true
	case errors.Is(err, premium.ErrInvalidInput):
		return premium.InvalidInputMessage, true
	case errors.Is(err, premium.ErrRateNotFound):
		return MsgRateNotAvailable, true
	case errors.Is(err, followup.ErrEmptyInput):
		return MsgNothingToImport, true
	case errors.Is(err, followup.ErrNoRows):
		return MsgNoPolicyRows, true
	}
	return err.Error(), false
}

// Logger is the structured logger services write to
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}
