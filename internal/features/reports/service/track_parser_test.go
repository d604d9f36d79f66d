package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"patrol-verifier/internal/features/reports/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTrackParser_Parse_SingleRow(t *testing.T) {
	parser := NewTrackParser(zap.NewNop())
	raw := []byte("Device_IMEI,Timestamp,Latitude,Longitude\nIMEI123,2023-01-01 10:00:00,34.0,-118.0\n")

	track, err := parser.Parse(context.Background(), raw)

	require.NoError(t, err)
	require.Len(t, track.Records, 1)
	assert.Equal(t, "IMEI123", track.DeviceIdentifier)

	rec := track.Records[0]
	assert.Equal(t, "IMEI123", rec.DeviceIdentifier)
	assert.Equal(t, time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC), rec.Timestamp)
	assert.Equal(t, 34.0, rec.Latitude)
	assert.Equal(t, -118.0, rec.Longitude)
	assert.Equal(t, 2, rec.Row)
	assert.Empty(t, rec.EventType)
}

func TestTrackParser_Parse_MissingColumns(t *testing.T) {
	parser := NewTrackParser(zap.NewNop())

	t.Run("Latitude", func(t *testing.T) {
		raw := []byte("Device_IMEI,Timestamp,Longitude\nIMEI123,2023-01-01 10:00:00,-118.0\n")
		_, err := parser.Parse(context.Background(), raw)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrMissingColumns)
		assert.Equal(t, domain.KindSchemaViolation, domain.KindOf(err))

		var derr *domain.Error
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, []string{"Latitude"}, derr.Missing)
		assert.Contains(t, err.Error(), "Latitude")
	})

	t.Run("Several", func(t *testing.T) {
		raw := []byte("Device_IMEI,Other\nIMEI123,x\n")
		_, err := parser.Parse(context.Background(), raw)

		var derr *domain.Error
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, []string{"Timestamp", "Latitude", "Longitude"}, derr.Missing)
	})

	t.Run("NamesMatchExactly", func(t *testing.T) {
		raw := []byte("Device_IMEI,Timestamp, Latitude,longitude\nIMEI123,2023-01-01 10:00:00,34.0,-118.0\n")
		_, err := parser.Parse(context.Background(), raw)

		var derr *domain.Error
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, []string{"Latitude", "Longitude"}, derr.Missing)
	})

	t.Run("CheckedBeforeRows", func(t *testing.T) {
		raw := []byte("Device_IMEI,Timestamp,Longitude\n,not-a-date,abc\n")
		_, err := parser.Parse(context.Background(), raw)
		assert.ErrorIs(t, err, domain.ErrMissingColumns)
	})
}

func TestTrackParser_Parse_EmptyDocument(t *testing.T) {
	parser := NewTrackParser(zap.NewNop())

	tests := []struct {
		name string
		raw  []byte
	}{
		{name: "NoBytes", raw: []byte{}},
		{name: "OnlyBOM", raw: []byte("\xEF\xBB\xBF")},
		{name: "HeaderOnly", raw: []byte("Device_IMEI,Timestamp,Latitude,Longitude\n")},
		{name: "HeaderAndBlankLines", raw: []byte("Device_IMEI,Timestamp,Latitude,Longitude\n\n\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(context.Background(), tt.raw)
			assert.ErrorIs(t, err, domain.ErrEmptyDocument)
			assert.Equal(t, domain.KindSchemaViolation, domain.KindOf(err))
		})
	}
}

func TestTrackParser_Parse_InvalidRows(t *testing.T) {
	parser := NewTrackParser(zap.NewNop())
	header := "Device_IMEI,Timestamp,Latitude,Longitude\n"
	good := "IMEI123,2023-01-01 10:00:00,34.0,-118.0\n"

	tests := []struct {
		name   string
		row    string
		column string
	}{
		{name: "EmptyDevice", row: " ,2023-01-01 10:00:00,34.0,-118.0\n", column: "Device_IMEI"},
		{name: "BadTimestamp", row: "IMEI123,01/01/2023 10:00,34.0,-118.0\n", column: "Timestamp"},
		{name: "MissingTimestamp", row: "IMEI123,,34.0,-118.0\n", column: "Timestamp"},
		{name: "FractionalSeconds", row: "IMEI123,2023-01-01 10:00:00.999999,34.0,-118.0\n", column: "Timestamp"},
		{name: "CommaFractionalSeconds", row: "IMEI123,\"2023-01-01 10:00:00,5\",34.0,-118.0\n", column: "Timestamp"},
		{name: "PaddedTimestamp", row: "IMEI123, 2023-01-01 10:00:00,34.0,-118.0\n", column: "Timestamp"},
		{name: "LatitudeNotNumeric", row: "IMEI123,2023-01-01 10:00:00,north,-118.0\n", column: "Latitude"},
		{name: "LatitudeOutOfRange", row: "IMEI123,2023-01-01 10:00:00,90.5,-118.0\n", column: "Latitude"},
		{name: "LatitudeNaN", row: "IMEI123,2023-01-01 10:00:00,NaN,-118.0\n", column: "Latitude"},
		{name: "LongitudeOutOfRange", row: "IMEI123,2023-01-01 10:00:00,34.0,-180.01\n", column: "Longitude"},
		{name: "LongitudeMissing", row: "IMEI123,2023-01-01 10:00:00,34.0\n", column: "Longitude"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := []byte(header + good + tt.row + good)
			_, err := parser.Parse(context.Background(), raw)

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidRow)

			var derr *domain.Error
			require.ErrorAs(t, err, &derr)
			assert.Equal(t, tt.column, derr.Column)
			assert.Equal(t, 3, derr.Row)
		})
	}
}

func TestTrackParser_Parse_BoundaryCoordinates(t *testing.T) {
	parser := NewTrackParser(zap.NewNop())
	raw := []byte("Device_IMEI,Timestamp,Latitude,Longitude\n" +
		"IMEI123,2023-01-01 10:00:00,90,180\n" +
		"IMEI123,2023-01-01 10:00:01,-90,-180\n" +
		"IMEI123,2023-01-01 10:00:02, 12.5 , -7.25 \n")

	track, err := parser.Parse(context.Background(), raw)

	require.NoError(t, err)
	require.Len(t, track.Records, 3)
	assert.Equal(t, 90.0, track.Records[0].Latitude)
	assert.Equal(t, -180.0, track.Records[1].Longitude)
	assert.Equal(t, 12.5, track.Records[2].Latitude)
	assert.Equal(t, -7.25, track.Records[2].Longitude)
}

func TestTrackParser_Parse_BOMAndOptionalColumns(t *testing.T) {
	parser := NewTrackParser(zap.NewNop())
	raw := []byte("\xEF\xBB\xBFTimestamp,Latitude,Longitude,Device_IMEI,Event_Type,Event_Details\n" +
		"2023-01-01 10:00:00,10.0,20.0,IMEI123,Checkpoint Visit,\"Arrived at Gate, north side\"\n")

	track, err := parser.Parse(context.Background(), raw)

	require.NoError(t, err)
	require.Len(t, track.Records, 1)
	assert.Equal(t, "IMEI123", track.DeviceIdentifier)
	assert.Equal(t, "Checkpoint Visit", track.Records[0].EventType)
	assert.Equal(t, "Arrived at Gate, north side", track.Records[0].EventDetails)
}

func TestTrackParser_Parse_InvalidEncoding(t *testing.T) {
	parser := NewTrackParser(zap.NewNop())
	raw := []byte("Device_IMEI,Timestamp,Latitude,Longitude\nIMEI\xff\xfe,2023-01-01 10:00:00,34.0,-118.0\n")

	_, err := parser.Parse(context.Background(), raw)

	assert.ErrorIs(t, err, domain.ErrInvalidEncoding)
	assert.Equal(t, domain.KindSchemaViolation, domain.KindOf(err))
}

func TestTrackParser_Parse_MalformedQuotes(t *testing.T) {
	parser := NewTrackParser(zap.NewNop())
	raw := []byte("Device_IMEI,Timestamp,Latitude,Longitude\nIMEI\"123,2023-01-01 10:00:00,34.0,-118.0\n")

	_, err := parser.Parse(context.Background(), raw)

	assert.ErrorIs(t, err, domain.ErrMalformedDocument)
	assert.Equal(t, domain.KindSchemaViolation, domain.KindOf(err))
}

func TestTrackParser_Parse_MultipleDevices(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	parser := NewTrackParser(zap.New(core))
	raw := []byte("Device_IMEI,Timestamp,Latitude,Longitude\n" +
		"IMEI-A,2023-01-01 10:00:00,34.0,-118.0\n" +
		"IMEI-B,2023-01-01 10:01:00,34.0,-118.0\n" +
		"IMEI-B,2023-01-01 10:02:00,34.0,-118.0\n")

	track, err := parser.Parse(context.Background(), raw)

	require.NoError(t, err)
	assert.Equal(t, "IMEI-A", track.DeviceIdentifier)
	assert.Equal(t, []string{"IMEI-A", "IMEI-B"}, track.DistinctDevices)
	assert.Equal(t, 1, logs.FilterMessage("Multiple device identifiers found in track").Len())
}

func TestTrackParser_WithDevicePolicy(t *testing.T) {
	lastRow := func(records []domain.LocationRecord) string {
		return records[len(records)-1].DeviceIdentifier
	}
	parser := NewTrackParser(zap.NewNop()).WithDevicePolicy(lastRow)
	raw := []byte("Device_IMEI,Timestamp,Latitude,Longitude\n" +
		"IMEI-A,2023-01-01 10:00:00,34.0,-118.0\n" +
		"IMEI-B,2023-01-01 10:01:00,34.0,-118.0\n")

	track, err := parser.Parse(context.Background(), raw)

	require.NoError(t, err)
	assert.Equal(t, "IMEI-B", track.DeviceIdentifier)
}

func TestTrackParser_Parse_Idempotent(t *testing.T) {
	parser := NewTrackParser(zap.NewNop())
	raw := []byte("Device_IMEI,Timestamp,Latitude,Longitude,Event_Type\n" +
		"IMEI123,2023-01-01 10:00:00,34.0,-118.0,Start\n" +
		"IMEI123,2023-01-01 10:05:00,34.001,-118.002,\n")

	first, err := parser.Parse(context.Background(), raw)
	require.NoError(t, err)
	second, err := parser.Parse(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTrackParser_Parse_ContextCanceled(t *testing.T) {
	parser := NewTrackParser(zap.NewNop())

	var b strings.Builder
	b.WriteString("Device_IMEI,Timestamp,Latitude,Longitude\n")
	for i := 0; i < 2*ctxCheckInterval; i++ {
		fmt.Fprintf(&b, "IMEI123,2023-01-01 10:00:00,34.0,%d\n", i%180)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := parser.Parse(ctx, []byte(b.String()))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, domain.KindUnexpectedFailure, domain.KindOf(err))
}

func TestFirstRowDevice(t *testing.T) {
	assert.Empty(t, FirstRowDevice(nil))
	assert.Equal(t, "A", FirstRowDevice([]domain.LocationRecord{{DeviceIdentifier: "A"}, {DeviceIdentifier: "B"}}))
}
