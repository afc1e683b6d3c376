package timetable

import (
	"fmt"
	"strings"
)

// Kind classifies a scheduled non-class period.
type Kind string

const (
	// KindBreak is an ordinary break (recess, morning tea, rast...).
	KindBreak Kind = "break"
	// KindPassing is a short changeover between lessons.
	KindPassing Kind = "passing"
	// KindSenior is a break reserved for senior years.
	KindSenior Kind = "senior"
	// KindLunch is the lunch period. Lunch endings never ring.
	KindLunch Kind = "lunch"
)

// AllKinds returns the supported kinds.
func AllKinds() []Kind {
	return []Kind{
		KindBreak,
		KindPassing,
		KindSenior,
		KindLunch,
	}
}

// ParseKind converts a string to a Kind or returns an error for unknown values.
func ParseKind(raw string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(raw)))
	if k == "" {
		return KindBreak, nil
	}
	for _, candidate := range AllKinds() {
		if candidate == k {
			return candidate, nil
		}
	}
	return KindBreak, fmt.Errorf("timetable: unknown kind %q", raw)
}

// Rings reports whether the end of this kind of period sounds the bell.
func (k Kind) Rings() bool {
	return k != KindLunch
}

// Noun is the display word for the kind.
func (k Kind) Noun() string {
	switch k {
	case KindLunch:
		return "Lunch"
	case KindPassing:
		return "Passing time"
	case KindSenior:
		return "Senior break"
	default:
		return "Break"
	}
}
