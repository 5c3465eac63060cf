package structure

import "fmt"

// MinGroupSize is the smallest group the engine will ever produce.
const MinGroupSize = 4

// PartitionMode selects how the group count is derived from the size input.
type PartitionMode string

const (
	// PartitionCeiling treats the size as a hard maximum: groups = ceil(teams / size).
	PartitionCeiling PartitionMode = "ceiling"
	// PartitionRounding treats the size as a target: groups = round(teams / size).
	PartitionRounding PartitionMode = "rounding"
)

// GroupPlan describes the size multiset of a balanced group partition.
type GroupPlan struct {
	GroupCount   int `json:"groupCount"`
	MinGroupSize int `json:"minGroupSize"`
	MaxGroupSize int `json:"maxGroupSize"`
}

// Sizes returns the size of each group when teamCount teams are seated,
// larger groups first.
func (g GroupPlan) Sizes(teamCount int) []int {
	sizes := make([]int, g.GroupCount)
	for i := range sizes {
		sizes[i] = g.MinGroupSize
	}
	extra := teamCount - g.GroupCount*g.MinGroupSize
	for i := 0; i < extra && i < len(sizes); i++ {
		sizes[i]++
	}
	return sizes
}

// PartitionError reports a partition that would create a group under MinGroupSize.
type PartitionError struct {
	Plan GroupPlan
}

func (e *PartitionError) Error() string {
	return fmt.Sprintf("%d groups would leave a group of %d teams, minimum is %d",
		e.Plan.GroupCount, e.Plan.MinGroupSize, MinGroupSize)
}

func (e *PartitionError) Unwrap() error {
	return ErrInfeasiblePartition
}

// PartitionByMax splits teamCount into ceil(teamCount/maxGroupSize) balanced groups.
// maxGroupSize is coerced into [1, teamCount].
func PartitionByMax(teamCount, maxGroupSize int) (GroupPlan, error) {
	teamCount = atLeast(teamCount, 0)
	size := clampSize(maxGroupSize, teamCount)
	groups := teamCount / size
	if teamCount%size != 0 {
		groups++
	}
	return split(teamCount, atLeast(groups, 1))
}

// PartitionByDesired splits teamCount into round(teamCount/desiredGroupSize) groups,
// clamped to [1, floor(teamCount/4)].
func PartitionByDesired(teamCount, desiredGroupSize int) (GroupPlan, error) {
	teamCount = atLeast(teamCount, 0)
	size := clampSize(desiredGroupSize, teamCount)
	groups := teamCount / size
	if r := teamCount % size; r >= size-r {
		groups++
	}
	upper := atLeast(teamCount/MinGroupSize, 1)
	if groups > upper {
		groups = upper
	}
	return split(teamCount, atLeast(groups, 1))
}

// Partition dispatches on mode.
func Partition(mode PartitionMode, teamCount, size int) (GroupPlan, error) {
	if mode == PartitionRounding {
		return PartitionByDesired(teamCount, size)
	}
	return PartitionByMax(teamCount, size)
}

func split(teamCount, groups int) (GroupPlan, error) {
	base := teamCount / groups
	remainder := teamCount % groups
	plan := GroupPlan{GroupCount: groups, MinGroupSize: base, MaxGroupSize: base}
	if remainder > 0 {
		plan.MaxGroupSize = base + 1
	}
	if plan.MinGroupSize < MinGroupSize {
		return plan, &PartitionError{Plan: plan}
	}
	return plan, nil
}

func clampSize(size, teamCount int) int {
	return ClampInt(float64(size), 1, atLeast(teamCount, 1))
}

func atLeast(n, floor int) int {
	if n < floor {
		return floor
	}
	return n
}
