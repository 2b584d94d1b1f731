package profile_test

import (
	"testing"
	"time"

	"github.com/reallife-app/reallife/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseBirthDate(t *testing.T) {
	got, err := profile.ParseBirthDate(" 1994-03-07 ")
	require.NoError(t, err)
	assert.Equal(t, date(1994, time.March, 7), got)

	_, err = profile.ParseBirthDate("07/03/1994")
	assert.Error(t, err)
}

func TestBirthDateString(t *testing.T) {
	d := profile.Draft{BirthDate: time.Date(2000, time.January, 2, 23, 59, 0, 0, time.UTC)}
	assert.Equal(t, "2000-01-02", d.BirthDateString())
	assert.Equal(t, "", profile.Draft{}.BirthDateString())
}

func TestAge(t *testing.T) {
	now := date(2026, time.October, 19)
	tests := []struct {
		name  string
		birth time.Time
		want  int
	}{
		{"birthday today", date(2000, time.October, 19), 26},
		{"birthday tomorrow", date(2000, time.October, 20), 25},
		{"birthday last month", date(2000, time.September, 30), 26},
		{"birthday next month", date(2000, time.November, 1), 25},
		{"unset", time.Time{}, -1},
		{"future", date(2030, time.January, 1), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, profile.Age(tt.birth, now))
		})
	}
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "AL", profile.Initials("ada lovelace"))
	assert.Equal(t, "GV", profile.Initials("Guido van Rossum"))
	assert.Equal(t, "C", profile.Initials("Cher"))
	assert.Equal(t, "", profile.Initials("   "))
	assert.Equal(t, "ÉZ", profile.Initials("émile zola"))
}
