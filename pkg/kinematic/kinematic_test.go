package kinematic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	assert.Equal(t, 5.0, Distance(Vector{X: 0, Y: 0}, Vector{X: 3, Y: 4}))
	assert.Equal(t, 0.0, Distance(Vector{X: 7, Y: 7}, Vector{X: 7, Y: 7}))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, Vector{X: 0.6, Y: 0.8}, Vector{X: 3, Y: 4}.Normalize())
	assert.Equal(t, Vector{}, Vector{}.Normalize())
}

func TestStep(t *testing.T) {
	tests := []struct {
		name   string
		from   Vector
		to     Vector
		speed  float64
		want   Vector
		wantOK bool
	}{
		{
			name:   "steps along the axis",
			from:   Vector{X: 0, Y: 0},
			to:     Vector{X: 10, Y: 0},
			speed:  3,
			want:   Vector{X: 3, Y: 0},
			wantOK: true,
		},
		{
			name:   "steps along the diagonal",
			from:   Vector{X: 0, Y: 0},
			to:     Vector{X: 30, Y: 40},
			speed:  5,
			want:   Vector{X: 3, Y: 4},
			wantOK: true,
		},
		{
			name:   "closer than one step",
			from:   Vector{X: 0, Y: 0},
			to:     Vector{X: 2, Y: 0},
			speed:  3,
			want:   Vector{X: 0, Y: 0},
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Step(tt.from, tt.to, tt.speed)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
		})
	}
}
