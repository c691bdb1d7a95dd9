// Package claimdate holds the date arithmetic behind a claim's duration,
// suggested claim type and time-bar warning.
package claimdate

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/garyjia/lic-claimdesk/internal/domain/entity"
)

const (
	// Layout is the DD/MM/YYYY form typed into the claim form
	Layout = "02/01/2006"
	// ISOLayout is what date pickers store for investigation and D.O. dates
	ISOLayout = "2006-01-02"

	day       = 24 * time.Hour
	yearDays  = 365.25
	shortBar  = 90
	legacyBar = 3 * 365
)

// ErrInvalidDate is returned when a date cannot be parsed
var ErrInvalidDate = errors.New("invalid date")

// timeBarCutover splits policies onto the 3-year and 90-day intimation limits
var timeBarCutover = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.Local)

// FormatInput strips non-digits and inserts the DD/MM/YYYY slashes as the
// user types. Anything past eight digits is dropped.
func FormatInput(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	v := b.String()
	if len(v) >= 2 {
		v = v[:2] + "/" + v[2:]
	}
	if len(v) >= 5 {
		end := len(v)
		if end > 9 {
			end = 9
		}
		v = v[:5] + "/" + v[5:end]
	}
	return v
}

// Parse reads DD/MM/YYYY (slashes optional) or YYYY-MM-DD
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	if t, err := time.ParseInLocation(ISOLayout, s, time.Local); err == nil {
		return t, nil
	}
	digits := strings.ReplaceAll(s, "/", "")
	if len(digits) != 8 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	t, err := time.ParseInLocation("02012006", digits, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// DurationYears is the absolute gap between two dates in 365.25-day years
func DurationYears(commencement, death time.Time) float64 {
	diff := death.Sub(commencement)
	if diff < 0 {
		diff = -diff
	}
	return diff.Hours() / 24 / yearDays
}

// Suggest maps a policy's run length to a claim type
func Suggest(years float64) entity.ClaimType {
	switch {
	case years < 3:
		return entity.ClaimTypeEarly
	case years <= 5:
		return entity.ClaimTypeNonEarlyMid
	default:
		return entity.ClaimTypeNonEarly
	}
}

// TimeBarred reports whether a death intimated on the given day is outside
// the reporting limit, and returns the warning text when it is.
func TimeBarred(commencement, death, intimation time.Time) (bool, string) {
	sinceDeath := intimation.Sub(death).Hours() / 24
	if commencement.Before(timeBarCutover) {
		if sinceDeath > legacyBar {
			return true, "Claim is time barred (death reported after 3 years)"
		}
		return false, ""
	}
	if sinceDeath > shortBar {
		return true, "Claim is time barred (death reported after 90 days)"
	}
	return false, ""
}

// DaysSince counts whole days between then and now, rounding up
func DaysSince(then, now time.Time) int {
	diff := now.Sub(then)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(float64(diff) / float64(day)))
}

// Assessment is the duration panel shown once both dates are filled in
type Assessment struct {
	Commencement time.Time        `json:"commencement"`
	Death        time.Time        `json:"death"`
	Years        float64          `json:"years"`
	Suggested    entity.ClaimType `json:"suggested"`
	TimeBarred   bool             `json:"timeBarred"`
	Warning      string           `json:"warning,omitempty"`
}

// Assess parses both dates and evaluates duration, suggestion and time bar
func Assess(commencement, death string, today time.Time) (*Assessment, error) {
	comm, err := Parse(commencement)
	if err != nil {
		return nil, fmt.Errorf("commencement date: %w", err)
	}
	dod, err := Parse(death)
	if err != nil {
		return nil, fmt.Errorf("death date: %w", err)
	}

	years := DurationYears(comm, dod)
	barred, warning := TimeBarred(comm, dod, today)
	return &Assessment{
		Commencement: comm,
		Death:        dod,
		Years:        years,
		Suggested:    Suggest(years),
		TimeBarred:   barred,
		Warning:      warning,
	}, nil
}
