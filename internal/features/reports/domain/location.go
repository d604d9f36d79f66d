package domain

import "time"

// TimestampLayout is the fixed timestamp format used by exported device tracks.
const TimestampLayout = "2006-01-02 15:04:05"

// LocationRecord represents a single GPS fix parsed from an uploaded track.
// Records are only produced by the track parser and are never mutated afterwards.
type LocationRecord struct {
	// DeviceIdentifier is the IMEI (or equivalent) reported on the row.
	DeviceIdentifier string `json:"device_identifier"`
	// Timestamp is the moment the fix was recorded.
	Timestamp time.Time `json:"timestamp"`
	// Latitude in decimal degrees, within [-90, 90].
	Latitude float64 `json:"latitude"`
	// Longitude in decimal degrees, within [-180, 180].
	Longitude float64 `json:"longitude"`
	// EventType is an optional device event label (e.g. "Checkpoint Visit").
	EventType string `json:"event_type,omitempty"`
	// EventDetails is optional free text attached to the event.
	EventDetails string `json:"event_details,omitempty"`
	// Row is the line of the source file the record was read from. The header is row 1.
	Row int `json:"row"`
}

// Track is the validated content of an uploaded report file.
type Track struct {
	// Records holds the location records in file order.
	Records []LocationRecord
	// DeviceIdentifier is the device the track claims to come from.
	DeviceIdentifier string
	// DistinctDevices lists every device identifier seen, in order of first appearance.
	DistinctDevices []string
}
