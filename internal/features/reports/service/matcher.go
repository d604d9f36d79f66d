package service

import (
	"context"
	"slices"

	"patrol-verifier/internal/features/reports/domain"
)

// Matcher binds location records to the planned checkpoints they satisfy.
//
// Each location is compared against the still-unvisited checkpoints in
// sequence order and binds to the first one it satisfies. A bound checkpoint
// leaves the working set, and a location binds at most one checkpoint. Visit
// order is not enforced.
type Matcher struct{}

// NewMatcher creates a new Matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Match runs the matcher. planned is not modified.
func (m *Matcher) Match(ctx context.Context, planned []domain.PlannedCheckpoint, locations []domain.LocationRecord) (*domain.MatchResult, error) {
	if len(planned) == 0 {
		return nil, domain.VerificationFailure(domain.ErrNoCheckpointsConfigured,
			"No checkpoints are configured for the route of this shift.")
	}
	if len(locations) == 0 {
		return nil, domain.VerificationFailure(domain.ErrNoLocationData,
			"No location data available in the report to verify.")
	}

	unvisited := slices.Clone(planned)
	slices.SortStableFunc(unvisited, func(a, b domain.PlannedCheckpoint) int {
		return a.SequenceOrder - b.SequenceOrder
	})

	result := &domain.MatchResult{}
	for i, loc := range locations {
		if len(unvisited) == 0 {
			break
		}
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		for j, cp := range unvisited {
			if cp.Contains(loc) {
				result.Verified = append(result.Verified, domain.VerifiedVisit{Checkpoint: cp, Location: loc})
				unvisited = slices.Delete(unvisited, j, j+1)
				break
			}
		}
	}

	result.Missed = unvisited
	return result, nil
}
