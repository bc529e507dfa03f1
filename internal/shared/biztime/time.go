// Package biztime provides the portal's notion of "now" and the datetime
// formats exchanged with provisioning servers. All storage and transport
// use UTC; the business timezone only affects display and notifications.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultTimezone is the default business timezone.
	DefaultTimezone = "UTC"

	// ServerDatetimeLayout is the datetime layout understood by provisioning servers.
	ServerDatetimeLayout = "2006-01-02 15:04:05"
)

var (
	bizLocation     *time.Location
	bizLocationOnce sync.Once
	initErr         error
)

// Init initializes the business timezone. Should be called once at startup.
func Init(tz string) error {
	bizLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// MustInit initializes the business timezone and panics on error.
func MustInit(tz string) {
	if err := Init(tz); err != nil {
		panic(fmt.Sprintf("failed to initialize business timezone %q: %v", tz, err))
	}
}

// Location returns the business timezone location, initializing the default on first use.
func Location() *time.Location {
	if bizLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: failed to auto-initialize with default timezone: %v", err))
		}
	}
	return bizLocation
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// FormatServerDatetime formats t in UTC using ServerDatetimeLayout.
// A nil time yields an empty string, which servers read as "no expiration".
func FormatServerDatetime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(ServerDatetimeLayout)
}

// ParseServerDatetime parses a ServerDatetimeLayout string as UTC.
func ParseServerDatetime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(ServerDatetimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid server datetime %q: %w", s, err)
	}
	return t, nil
}

// FormatInBizTimezone formats a UTC time as a string in business timezone.
func FormatInBizTimezone(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}
