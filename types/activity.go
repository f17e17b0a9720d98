package types

import (
	"fmt"
	"time"
)

// SamplePeriod is the metric aggregation granularity: one sample per
// calendar day. The metrics store coarsens retention for older data, so
// day-sized samples are the finest granularity that stays valid across
// the full supported window length.
const SamplePeriod = 24 * time.Hour

// RetentionAdvisoryDays is the horizon beyond which the metrics store
// keeps less than one sample per day. Longer windows still classify
// correctly, just from sparser data.
const RetentionAdvisoryDays = 455

// MaxWindowDays bounds the configurable trailing window.
const MaxWindowDays = 999

// ActivityWindow is the trailing time range usage is evaluated over.
type ActivityWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// TrailingWindow builds a window covering the given number of days up to now.
func TrailingWindow(now time.Time, days int) ActivityWindow {
	return ActivityWindow{
		Start: now.Add(-time.Duration(days) * 24 * time.Hour),
		End:   now,
	}
}

// Validate rejects empty or inverted windows.
func (w ActivityWindow) Validate() error {
	if !w.End.After(w.Start) {
		return fmt.Errorf("activity window end %s is not after start %s", w.End, w.Start)
	}
	return nil
}

// Days returns the window length in whole days, rounding up.
func (w ActivityWindow) Days() int {
	return int((w.End.Sub(w.Start) + SamplePeriod - 1) / SamplePeriod)
}

// ActivityVerdict records whether a workspace went unused for a window.
// The verdict is only meaningful together with the window that produced it.
type ActivityVerdict struct {
	Window ActivityWindow `json:"window"`
	Unused bool           `json:"unused"`
}
