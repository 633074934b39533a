package usage

import (
	"fmt"
	"time"
)

// dayLayout is the calendar-day suffix of a bucket key. The key format
// "{identityId}_{YYYYMMDD}" is shared with other consumers of the store and
// must not change.
const dayLayout = "20060102"

// BucketKey returns the storage document ID for an identity's counter on the
// given day. Days are UTC calendar days regardless of the caller's zone.
func BucketKey(identityID string, day time.Time) string {
	return fmt.Sprintf("%s_%s", identityID, day.UTC().Format(dayLayout))
}

// NextUTCMidnight returns the instant the current bucket rolls over.
func NextUTCMidnight(now time.Time) time.Time {
	u := now.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}

// CheckResult is the limiter's answer for one identity right now.
type CheckResult struct {
	Allowed      bool      `json:"allowed"`
	CurrentUsage int       `json:"currentUsage"`
	DailyLimit   int       `json:"dailyLimit"`
	Remaining    int       `json:"remaining"`
	ResetTime    time.Time `json:"resetTime"`
}
