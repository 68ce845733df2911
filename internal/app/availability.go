package app

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	millisPerMinute = 60_000
	slotTimeLayout  = "Monday 2006-01-02 15:04"

	unknownDurationLabel = "UnknownDuration"
	invalidDurationLabel = "InvalidDurationFormat"
)

// DurationLabel converts a raw millisecond duration string such as
// "1800000" into a human label such as "30min". Non-integer input maps to
// the invalid-format sentinel, negative input to the unknown sentinel.
func DurationLabel(raw string) string {
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return invalidDurationLabel
	}
	if ms < 0 {
		return unknownDurationLabel
	}
	return fmt.Sprintf("%dmin", ms/millisPerMinute)
}

// BusinessHours is a weekday-and-hour window. The hour range is half-open:
// EndHour itself is outside the window.
type BusinessHours struct {
	StartHour int
	EndHour   int
	WorkDays  map[time.Weekday]bool
}

// DefaultBusinessHours is 9:00-17:00, Monday through Friday.
func DefaultBusinessHours() BusinessHours {
	return BusinessHours{
		StartHour: 9,
		EndHour:   17,
		WorkDays: map[time.Weekday]bool{
			time.Monday:    true,
			time.Tuesday:   true,
			time.Wednesday: true,
			time.Thursday:  true,
			time.Friday:    true,
		},
	}
}

// Contains reports whether the local date-time t falls inside the window.
func (bh BusinessHours) Contains(t time.Time) bool {
	if !bh.WorkDays[t.Weekday()] {
		return false
	}
	return t.Hour() >= bh.StartHour && t.Hour() < bh.EndHour
}

// TransformOptions controls the availability transformation.
type TransformOptions struct {
	ApplyBusinessHoursFilter bool
	Hours                    BusinessHours
}

// TransformAvailability flattens a raw HubSpot availability document into a
// mapping from duration label to formatted local time strings.
//
// The document is third-party input: any level may be absent or malformed,
// and a bad record drops only itself, never the request. An unresolvable
// timezone is the caller's fault and fails the whole call.
func (a *App) TransformAvailability(doc map[string]any, timezone string, opts TransformOptions) (map[string][]string, error) {
	transformed := map[string][]string{}

	link, _ := doc["linkAvailability"].(map[string]any)
	byDuration, ok := link["linkAvailabilityByDuration"].(map[string]any)
	if !ok {
		a.Logger.Warn("linkAvailabilityByDuration is missing or not an object")
		return transformed, nil
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, timezone)
	}

	if opts.Hours.WorkDays == nil {
		opts.Hours = DefaultBusinessHours()
	}

	for durationMS, details := range byDuration {
		label := DurationLabel(durationMS)

		detailsMap, ok := details.(map[string]any)
		if !ok {
			continue
		}
		slots, _ := detailsMap["availabilities"].([]any)

		var formatted []string
		for _, raw := range slots {
			slot, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			millis, ok := slotStartMillis(slot)
			if !ok {
				a.Logger.Debug("skipping slot without usable startMillisUtc",
					zap.String("duration", label))
				continue
			}
			local := time.UnixMilli(millis).In(loc)
			if opts.ApplyBusinessHoursFilter && !opts.Hours.Contains(local) {
				continue
			}
			formatted = append(formatted, local.Format(slotTimeLayout))
		}

		// Duration keys with no surviving slots are omitted entirely.
		if len(formatted) > 0 {
			transformed[label] = formatted
		}
	}

	return transformed, nil
}

// slotStartMillis extracts the UTC timestamp from a decoded slot record.
// JSON numbers decode as float64; integer kinds are accepted for documents
// built by hand in tests.
func slotStartMillis(slot map[string]any) (int64, bool) {
	switch v := slot["startMillisUtc"].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	default:
		return 0, false
	}
}
