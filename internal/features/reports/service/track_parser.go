package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"patrol-verifier/internal/features/reports/domain"

	"go.uber.org/zap"
)

// Column names of the device export format.
const (
	ColumnDevice       = "Device_IMEI"
	ColumnTimestamp    = "Timestamp"
	ColumnLatitude     = "Latitude"
	ColumnLongitude    = "Longitude"
	ColumnEventType    = "Event_Type"
	ColumnEventDetails = "Event_Details"
)

// RequiredColumns must all be present in the header row.
var RequiredColumns = []string{ColumnDevice, ColumnTimestamp, ColumnLatitude, ColumnLongitude}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ctxCheckInterval is how many rows are processed between context checks.
const ctxCheckInterval = 256

// DevicePolicy picks the device a track claims to come from.
type DevicePolicy func(records []domain.LocationRecord) string

// FirstRowDevice claims the device of the first data row.
func FirstRowDevice(records []domain.LocationRecord) string {
	if len(records) == 0 {
		return ""
	}
	return records[0].DeviceIdentifier
}

// TrackParser turns uploaded bytes into validated location records.
type TrackParser struct {
	logger       *zap.Logger
	devicePolicy DevicePolicy
}

// NewTrackParser creates a TrackParser using the FirstRowDevice policy.
func NewTrackParser(logger *zap.Logger) *TrackParser {
	return &TrackParser{
		logger:       logger,
		devicePolicy: FirstRowDevice,
	}
}

// WithDevicePolicy returns a copy of the parser using policy.
func (p *TrackParser) WithDevicePolicy(policy DevicePolicy) *TrackParser {
	cp := *p
	cp.devicePolicy = policy
	return &cp
}

// Parse validates raw and returns its records in file order. The first
// invalid row aborts the parse.
func (p *TrackParser) Parse(ctx context.Context, raw []byte) (*domain.Track, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		return nil, domain.InvalidEncoding()
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, domain.EmptyDocument("CSV file is empty or headers could not be read.")
	}
	if err != nil {
		return nil, domain.MalformedDocument(1, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, domain.MissingColumns(missing)
	}

	track := &domain.Track{}
	for row := 2; ; row++ {
		if row%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domain.MalformedDocument(row, err)
		}

		record, err := parseRow(fields, index, row)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(track.DistinctDevices, record.DeviceIdentifier) {
			track.DistinctDevices = append(track.DistinctDevices, record.DeviceIdentifier)
		}
		track.Records = append(track.Records, record)
	}

	if len(track.Records) == 0 {
		return nil, domain.EmptyDocument("CSV file contains no data rows after the header.")
	}

	track.DeviceIdentifier = p.devicePolicy(track.Records)
	if len(track.DistinctDevices) > 1 {
		p.logger.Warn("Multiple device identifiers found in track",
			zap.Strings("devices", track.DistinctDevices),
			zap.String("claimed", track.DeviceIdentifier),
		)
	}

	return track, nil
}

// parseTimestamp accepts exactly domain.TimestampLayout. time.Parse alone
// also accepts a fractional seconds suffix.
func parseTimestamp(s string) (time.Time, error) {
	ts, err := time.Parse(domain.TimestampLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	if ts.Format(domain.TimestampLayout) != s {
		return time.Time{}, fmt.Errorf("timestamp %q does not match %s", s, domain.TimestampLayout)
	}
	return ts, nil
}

func parseRow(fields []string, index map[string]int, row int) (domain.LocationRecord, error) {
	get := func(column string) string {
		i, ok := index[column]
		if !ok || i >= len(fields) {
			return ""
		}
		return fields[i]
	}

	record := domain.LocationRecord{Row: row}

	record.DeviceIdentifier = strings.TrimSpace(get(ColumnDevice))
	if record.DeviceIdentifier == "" {
		return record, domain.InvalidRow(ColumnDevice, row, "non-empty string")
	}

	ts, err := parseTimestamp(get(ColumnTimestamp))
	if err != nil {
		return record, domain.InvalidRow(ColumnTimestamp, row, "format 'YYYY-MM-DD HH:MM:SS'")
	}
	record.Timestamp = ts

	lat, ok := parseCoordinate(get(ColumnLatitude), 90)
	if !ok {
		return record, domain.InvalidRow(ColumnLatitude, row, "float between -90 and 90")
	}
	record.Latitude = lat

	lon, ok := parseCoordinate(get(ColumnLongitude), 180)
	if !ok {
		return record, domain.InvalidRow(ColumnLongitude, row, "float between -180 and 180")
	}
	record.Longitude = lon

	record.EventType = get(ColumnEventType)
	record.EventDetails = get(ColumnEventDetails)

	return record, nil
}

func parseCoordinate(s string, limit float64) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || v < -limit || v > limit {
		return 0, false
	}
	return v, true
}
