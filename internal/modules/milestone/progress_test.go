package milestone

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"buildtrack/internal/domain"
)

func milestonesWithProgress(values ...int) []domain.Milestone {
	ms := make([]domain.Milestone, 0, len(values))
	for _, v := range values {
		ms = append(ms, domain.Milestone{Progress: v})
	}
	return ms
}

func TestComputeProgress_Empty(t *testing.T) {
	assert.Equal(t, 0, ComputeProgress(nil))
	assert.Equal(t, 0, ComputeProgress([]domain.Milestone{}))
}

func TestComputeProgress(t *testing.T) {
	cases := []struct {
		name     string
		values   []int
		expected int
	}{
		{"single zero", []int{0}, 0},
		{"single complete", []int{100}, 100},
		{"even average", []int{100, 0}, 50},
		{"rounds half up", []int{100, 0, 50, 0}, 38}, // 37.5 rounds up
		{"rounds down below half", []int{33, 33, 33}, 33},
		{"rounds up", []int{50, 50, 100}, 67}, // 66.67
		{"all complete", []int{100, 100, 100}, 100},
		{"one done one half", []int{100, 50}, 75},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ComputeProgress(milestonesWithProgress(tc.values...)))
		})
	}
}
