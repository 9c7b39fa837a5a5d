// Package daypart classifies wall-clock time into the bands and flags the
// recommendation engine conditions on: time-of-day band, darkness, rush
// hour, and weekend.
package daypart

import "time"

// Band is a named portion of the 24-hour clock.
type Band string

const (
	BandEarlyMorning Band = "early-morning" // [05:00, 07:00)
	BandMorning      Band = "morning"       // [07:00, 11:00)
	BandMidday       Band = "midday"        // [11:00, 14:00)
	BandAfternoon    Band = "afternoon"     // [14:00, 17:00)
	BandEvening      Band = "evening"       // [17:00, 21:00)
	BandNight        Band = "night"         // [21:00, 24:00)
	BandLateNight    Band = "late-night"    // [00:00, 05:00)
)

// Seasonal fallback sun hours used when real sunrise/sunset are unknown.
// May through September counts as summer.
const (
	summerSunriseHour = 6
	summerSunsetHour  = 20
	winterSunriseHour = 7
	winterSunsetHour  = 17
)

// Context is a point-in-time classification. Instances are value snapshots:
// rebuilt wholesale on refresh, never patched.
type Context struct {
	Hour   int
	Minute int
	Band   Band

	// IsDark is true when now falls outside [sunrise, sunset].
	IsDark bool

	// IsRushHour is true on weekdays during 07:00-09:00 and 17:00-19:00.
	IsRushHour bool

	IsWeekend bool

	BuiltAt time.Time
}

// Build classifies the given instant. sunrise and sunset may be nil; the
// seasonal heuristic is used for darkness in that case.
func Build(now time.Time, sunrise, sunset *time.Time) Context {
	hour := now.Hour()
	weekday := now.Weekday()
	isWeekend := weekday == time.Saturday || weekday == time.Sunday

	return Context{
		Hour:       hour,
		Minute:     now.Minute(),
		Band:       BandFor(hour),
		IsDark:     isDark(now, sunrise, sunset),
		IsRushHour: !isWeekend && isRushHour(hour),
		IsWeekend:  isWeekend,
		BuiltAt:    now,
	}
}

// BandFor returns the band containing the given hour.
func BandFor(hour int) Band {
	switch {
	case hour >= 5 && hour < 7:
		return BandEarlyMorning
	case hour >= 7 && hour < 11:
		return BandMorning
	case hour >= 11 && hour < 14:
		return BandMidday
	case hour >= 14 && hour < 17:
		return BandAfternoon
	case hour >= 17 && hour < 21:
		return BandEvening
	case hour >= 21:
		return BandNight
	default:
		return BandLateNight
	}
}

func isRushHour(hour int) bool {
	return (hour >= 7 && hour < 9) || (hour >= 17 && hour < 19)
}

func isDark(now time.Time, sunrise, sunset *time.Time) bool {
	if sunrise != nil && sunset != nil {
		return now.Before(*sunrise) || now.After(*sunset)
	}

	sunriseHour, sunsetHour := seasonalSunHours(now.Month())
	return now.Hour() < sunriseHour || now.Hour() >= sunsetHour
}

func seasonalSunHours(month time.Month) (sunriseHour, sunsetHour int) {
	if month >= time.May && month <= time.September {
		return summerSunriseHour, summerSunsetHour
	}
	return winterSunriseHour, winterSunsetHour
}
