package domain

import (
	"fmt"
	"time"
)

// TimeOfDay is an offset from midnight. Dates are ignored when comparing against it.
type TimeOfDay time.Duration

// NewTimeOfDay builds a TimeOfDay from clock components.
func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(time.Duration(hour)*time.Hour +
		time.Duration(minute)*time.Minute +
		time.Duration(second)*time.Second)
}

// ParseTimeOfDay parses "HH:MM:SS" or "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDayOf(t), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", s)
}

// TimeOfDayOf extracts the clock component of t.
func TimeOfDayOf(t time.Time) TimeOfDay {
	h, m, s := t.Clock()
	return NewTimeOfDay(h, m, s)
}

// String formats the value as HH:MM:SS.
func (t TimeOfDay) String() string {
	d := time.Duration(t)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// TimeWindow is an inclusive time-of-day range. Windows spanning midnight are not supported.
type TimeWindow struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// Contains reports whether the clock component of t falls within the window.
func (w TimeWindow) Contains(t time.Time) bool {
	tod := TimeOfDayOf(t)
	return w.Start <= tod && tod <= w.End
}

// PlannedCheckpoint is a geofenced checkpoint bound to a route at a sequence position.
type PlannedCheckpoint struct {
	// RouteCheckpointID identifies the route/checkpoint binding.
	RouteCheckpointID int64 `json:"route_checkpoint_id"`
	// CheckpointID identifies the underlying geofence, which may be shared across routes.
	CheckpointID int64 `json:"checkpoint_id"`
	// Name is the human readable checkpoint name.
	Name string `json:"name"`
	// SequenceOrder is the 1-based position within the route.
	SequenceOrder int `json:"sequence_order"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	// RadiusMeters is the verification radius; always > 0.
	RadiusMeters float64 `json:"radius_meters"`
	// Window is the optional expected visit window.
	Window *TimeWindow `json:"window,omitempty"`
}

// Contains reports whether loc lies within the geofence (boundary inclusive)
// and, when a window is configured, inside the expected time of day.
func (c PlannedCheckpoint) Contains(loc LocationRecord) bool {
	if Distance(loc.Latitude, loc.Longitude, c.Latitude, c.Longitude) > c.RadiusMeters {
		return false
	}
	return c.Window == nil || c.Window.Contains(loc.Timestamp)
}

// Shift is the scheduled assignment a report is uploaded against.
type Shift struct {
	ID      int64 `json:"id"`
	RouteID int64 `json:"route_id"`
	// DeviceIdentifier is the IMEI of the device assigned to the shift.
	DeviceIdentifier string `json:"device_identifier"`
	ClientID         int64  `json:"client_id"`
}
