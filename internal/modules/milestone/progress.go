package milestone

import (
	"math"

	"buildtrack/internal/domain"
)

// ComputeProgress maps milestone progress values to the project-level
// percentage: the half-up rounded mean, 0 for an empty set. Pure.
func ComputeProgress(milestones []domain.Milestone) int {
	if len(milestones) == 0 {
		return 0
	}

	sum := 0
	for _, m := range milestones {
		sum += m.Progress
	}
	return int(math.Round(float64(sum) / float64(len(milestones))))
}
