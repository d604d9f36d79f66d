package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"time"

	"patrol-verifier/internal/features/reports/domain"
)

// Scenario selects the kind of synthetic track GenerateTrack writes.
type Scenario string

const (
	// ScenarioPerfect visits every checkpoint in order with en-route points between them.
	ScenarioPerfect Scenario = "perfect"
	// ScenarioMissedCheckpoint skips the middle checkpoint.
	ScenarioMissedCheckpoint Scenario = "missed_checkpoint"
	// ScenarioOutOfOrder visits every checkpoint in reverse order.
	ScenarioOutOfOrder Scenario = "out_of_order"
	// ScenarioExtraPoints adds a point near each checkpoint after visiting it.
	ScenarioExtraPoints Scenario = "extra_points"
)

// Scenarios lists every supported scenario.
var Scenarios = []Scenario{ScenarioPerfect, ScenarioMissedCheckpoint, ScenarioOutOfOrder, ScenarioExtraPoints}

// ErrUnknownScenario is returned for scenarios not listed in Scenarios.
var ErrUnknownScenario = errors.New("unknown scenario")

const extraPointOffset = 0.0001

// GenerateTrack writes a CSV track for device along planned, starting ten
// minutes after start.
func GenerateTrack(w io.Writer, device string, planned []domain.PlannedCheckpoint, start time.Time, scenario Scenario) error {
	if !slices.Contains(Scenarios, scenario) {
		return fmt.Errorf("%w: %s", ErrUnknownScenario, scenario)
	}

	route := slices.Clone(planned)
	slices.SortStableFunc(route, func(a, b domain.PlannedCheckpoint) int {
		return a.SequenceOrder - b.SequenceOrder
	})

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColumnDevice, ColumnTimestamp, ColumnLatitude, ColumnLongitude, ColumnEventType, ColumnEventDetails}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	at := start.Add(10 * time.Minute)
	row := func(lat, lon float64, eventType, details string) error {
		return cw.Write([]string{
			device,
			at.Format(domain.TimestampLayout),
			formatCoordinate(lat),
			formatCoordinate(lon),
			eventType,
			details,
		})
	}
	visit := func(cp domain.PlannedCheckpoint) error {
		return row(cp.Latitude, cp.Longitude, "Checkpoint Visit", "Arrived at "+cp.Name)
	}

	var err error
	switch scenario {
	case ScenarioPerfect:
		for i, cp := range route {
			if err = visit(cp); err != nil {
				break
			}
			if i < len(route)-1 {
				at = at.Add(5 * time.Minute)
				next := route[i+1]
				midLat := round6((cp.Latitude + next.Latitude) / 2)
				midLon := round6((cp.Longitude + next.Longitude) / 2)
				if err = row(midLat, midLon, "En Route", "Traveling to "+next.Name); err != nil {
					break
				}
			}
			at = at.Add(10 * time.Minute)
		}

	case ScenarioMissedCheckpoint:
		skip := len(route) / 2
		for i, cp := range route {
			if i == skip {
				continue
			}
			if err = visit(cp); err != nil {
				break
			}
			at = at.Add(15 * time.Minute)
		}

	case ScenarioOutOfOrder:
		for i := len(route) - 1; i >= 0; i-- {
			if err = visit(route[i]); err != nil {
				break
			}
			at = at.Add(15 * time.Minute)
		}

	case ScenarioExtraPoints:
		for _, cp := range route {
			if err = visit(cp); err != nil {
				break
			}
			at = at.Add(12 * time.Minute)
			if err = row(cp.Latitude+extraPointOffset, cp.Longitude+extraPointOffset, "Extra Point", "Near "+cp.Name); err != nil {
				break
			}
			at = at.Add(8 * time.Minute)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush track: %w", err)
	}
	return nil
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
