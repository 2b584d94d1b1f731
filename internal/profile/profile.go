package profile

import (
	"fmt"
	"strings"
	"time"

	"github.com/reallife-app/reallife/internal/intents"
)

// DateLayout is the wire format for birth dates.
const DateLayout = "2006-01-02"

// Draft is the profile assembled by the setup wizard and submitted once.
type Draft struct {
	DisplayName  string
	Email        string
	Username     string
	Password     string
	BirthDate    time.Time // date only; the clock part is ignored
	ProfileImage string    // opaque URI, empty when none was picked
	Intents      intents.Record
}

// BirthDateString formats the birth date as YYYY-MM-DD, or "" when unset.
func (d Draft) BirthDateString() string {
	if d.BirthDate.IsZero() {
		return ""
	}
	return d.BirthDate.Format(DateLayout)
}

// ParseBirthDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseBirthDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("birth date must be YYYY-MM-DD: %w", err)
	}
	return t, nil
}

// Age returns the whole years between birth and now, or -1 when birth is
// unset or in the future.
func Age(birth, now time.Time) int {
	if birth.IsZero() || birth.After(now) {
		return -1
	}
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// Initials returns up to two uppercase initials from a display name.
func Initials(name string) string {
	var out []rune
	for _, part := range strings.Fields(name) {
		out = append(out, []rune(strings.ToUpper(part))[0])
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}
