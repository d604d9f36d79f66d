package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name     string
		lat1     float64
		lon1     float64
		lat2     float64
		lon2     float64
		expected float64
		delta    float64
	}{
		{
			name:     "Same point",
			lat1:     10.0,
			lon1:     20.0,
			lat2:     10.0,
			lon2:     20.0,
			expected: 0,
			delta:    1e-9,
		},
		{
			name:     "One degree of longitude on the equator",
			lat1:     0,
			lon1:     0,
			lat2:     0,
			lon2:     1,
			expected: 111194.93,
			delta:    0.5,
		},
		{
			name:     "One degree of latitude",
			lat1:     34.0,
			lon1:     -118.0,
			lat2:     35.0,
			lon2:     -118.0,
			expected: 111194.93,
			delta:    0.5,
		},
		{
			name:     "Antipodal points",
			lat1:     0,
			lon1:     0,
			lat2:     0,
			lon2:     180,
			expected: 20015086.8,
			delta:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Distance(tt.lat1, tt.lon1, tt.lat2, tt.lon2), tt.delta)
		})
	}
}

func TestDistance_Symmetric(t *testing.T) {
	a := Distance(10.0, 20.0, 11.0, 21.0)
	b := Distance(11.0, 21.0, 10.0, 20.0)
	assert.InDelta(t, a, b, 1e-6)
}
