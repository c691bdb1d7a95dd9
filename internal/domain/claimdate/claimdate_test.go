package claimdate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/lic-claimdesk/internal/domain/entity"
)

func TestFormatInput(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"1", "1"},
		{"15", "15/"},
		{"1503", "15/03/"},
		{"15032019", "15/03/2019"},
		{"15/03/2019", "15/03/2019"},
		{"15a03b2019", "15/03/2019"},
		{"1503201999", "15/03/2019"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatInput(tt.in))
		})
	}
}

func TestParse(t *testing.T) {
	got, err := Parse("15/03/2019")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2019, time.March, 15, 0, 0, 0, 0, time.Local), got)

	got, err = Parse("2024-02-01")
	require.NoError(t, err)
	assert.Equal(t, time.February, got.Month())

	for _, bad := range []string{"", "15/03/19", "32/01/2020", "abc"} {
		_, err := Parse(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestSuggest(t *testing.T) {
	assert.Equal(t, entity.ClaimTypeEarly, Suggest(2.99))
	assert.Equal(t, entity.ClaimTypeNonEarlyMid, Suggest(3))
	assert.Equal(t, entity.ClaimTypeNonEarlyMid, Suggest(5))
	assert.Equal(t, entity.ClaimTypeNonEarly, Suggest(5.01))
}

func TestDurationYears_Symmetric(t *testing.T) {
	a := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.InDelta(t, 5.0, DurationYears(a, b), 0.01)
	assert.Equal(t, DurationYears(a, b), DurationYears(b, a))
}

func TestTimeBarred(t *testing.T) {
	death := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)

	tests := []struct {
		name         string
		commencement time.Time
		intimation   time.Time
		barred       bool
	}{
		{"new policy inside 90 days", time.Date(2021, 1, 1, 0, 0, 0, 0, time.Local), death.AddDate(0, 0, 90), false},
		{"new policy past 90 days", time.Date(2021, 1, 1, 0, 0, 0, 0, time.Local), death.AddDate(0, 0, 91), true},
		{"old policy inside 3 years", time.Date(2010, 1, 1, 0, 0, 0, 0, time.Local), death.AddDate(0, 0, 3*365), false},
		{"old policy past 3 years", time.Date(2010, 1, 1, 0, 0, 0, 0, time.Local), death.AddDate(0, 0, 3*365+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			barred, msg := TimeBarred(tt.commencement, death, tt.intimation)
			assert.Equal(t, tt.barred, barred)
			if tt.barred {
				assert.Contains(t, msg, "time barred")
			} else {
				assert.Empty(t, msg)
			}
		})
	}
}

func TestDaysSince(t *testing.T) {
	then := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 10, DaysSince(then, then.AddDate(0, 0, 10)))
	assert.Equal(t, 11, DaysSince(then, then.AddDate(0, 0, 10).Add(time.Hour)))
	assert.Equal(t, 0, DaysSince(then, then))
}

func TestAssess(t *testing.T) {
	a, err := Assess("01/06/2022", "01/01/2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Equal(t, entity.ClaimTypeEarly, a.Suggested)
	assert.False(t, a.TimeBarred)

	_, err = Assess("01/06/2022", "", time.Now())
	assert.ErrorIs(t, err, ErrInvalidDate)
}
