package capability

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// EarliestBirthDate is the lower bound offered by the birth date picker.
var EarliestBirthDate = time.Date(1950, time.January, 1, 0, 0, 0, 0, time.UTC)

// BoundedDates parses YYYY-MM-DD input and rejects dates outside
// [Min, today].
type BoundedDates struct {
	Min time.Time
	Now func() time.Time
}

// BirthDates returns the date source used by profile setup.
func BirthDates() BoundedDates {
	return BoundedDates{Min: EarliestBirthDate, Now: time.Now}
}

func (BoundedDates) Available() bool { return true }

func (d BoundedDates) Notice() string {
	return fmt.Sprintf("Date as YYYY-MM-DD, between %s and %s",
		d.Min.Format(dateLayout), d.today().Format(dateLayout))
}

func (d BoundedDates) Parse(input string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(input))
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD")
	}
	if !d.Min.IsZero() && t.Before(d.Min) {
		return time.Time{}, fmt.Errorf("date must be on or after %s", d.Min.Format(dateLayout))
	}
	if t.After(d.today()) {
		return time.Time{}, fmt.Errorf("date cannot be in the future")
	}
	return t, nil
}

func (d BoundedDates) today() time.Time {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	y, m, day := now().Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
