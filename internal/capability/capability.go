// Package capability models optional input sources (image picking, date
// picking) that may be missing on a given machine. Callers probe Available
// and show Notice instead of failing hard.
package capability

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnavailable is returned by every operation of an unavailable source.
var ErrUnavailable = errors.New("capability unavailable")

// Probe reports whether a source can be used.
type Probe interface {
	Available() bool
	// Notice is a user-visible line explaining the source's state.
	Notice() string
}

// ImageSource turns user input into an opaque profile image URI.
type ImageSource interface {
	Probe
	Resolve(input string) (string, error)
}

// DateSource turns user input into a calendar date.
type DateSource interface {
	Probe
	Parse(input string) (time.Time, error)
}

// Unavailable is the null source. It satisfies both ImageSource and
// DateSource.
type Unavailable struct {
	Name string
}

func (u Unavailable) Available() bool { return false }

func (u Unavailable) Notice() string {
	name := u.Name
	if name == "" {
		name = "This feature"
	}
	return name + " is not available here"
}

func (u Unavailable) Resolve(string) (string, error) {
	return "", fmt.Errorf("%s: %w", u.Notice(), ErrUnavailable)
}

func (u Unavailable) Parse(string) (time.Time, error) {
	return time.Time{}, fmt.Errorf("%s: %w", u.Notice(), ErrUnavailable)
}
