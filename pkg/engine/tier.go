package engine

// Tier is a presentation hint for how urgent the current state is.
type Tier string

const (
	TierNormal  Tier = "normal"
	TierWarning Tier = "warning"
	TierEnding  Tier = "ending"
	TierSoon    Tier = "soon"
)

const (
	endingThreshold  = 60
	warningThreshold = 180
	soonThreshold    = 300

	// DefaultWindow is the countdown bar look-ahead in seconds.
	DefaultWindow = 5400
)

// ActiveTier grades the seconds left in a running break.
func ActiveTier(remaining int) Tier {
	switch {
	case remaining <= endingThreshold:
		return TierEnding
	case remaining <= warningThreshold:
		return TierWarning
	default:
		return TierNormal
	}
}

// UpcomingTier grades the seconds until a break starts.
func UpcomingTier(until int) Tier {
	if until <= soonThreshold {
		return TierSoon
	}
	return TierNormal
}

// ActiveProgress is the elapsed fraction of [start, end), clamped to [0,1].
func ActiveProgress(start, end, now int) float64 {
	if end <= start {
		return 1
	}
	return clamp(float64(now-start) / float64(end-start))
}

// CountdownProgress fills towards 1 as a break approaches within window
// seconds. A non-positive window uses DefaultWindow.
func CountdownProgress(until, window int) float64 {
	if window <= 0 {
		window = DefaultWindow
	}
	return clamp(1 - float64(until)/float64(window))
}

func clamp(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
