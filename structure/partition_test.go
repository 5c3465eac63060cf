package structure

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampInt(t *testing.T) {
	cases := []struct {
		in       float64
		min, max int
		want     int
	}{
		{5, 1, 10, 5},
		{5.9, 1, 10, 5},
		{-3.7, -10, 10, -3},
		{0, 1, 10, 1},
		{42, 1, 10, 10},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ClampInt(c.in, c.min, c.max), "ClampInt(%v, %d, %d)", c.in, c.min, c.max)
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[int]int{-4: 1, 0: 1, 1: 1, 2: 2, 3: 4, 4: 4, 5: 8, 10: 16, 16: 16, 17: 32, 100: 128}
	for in, want := range cases {
		assert.Equal(t, want, NextPowerOfTwo(in), "NextPowerOfTwo(%d)", in)
	}

	assert.Equal(t, MaxPowerOfTwo, NextPowerOfTwo(MaxPowerOfTwo))
	assert.Equal(t, MaxPowerOfTwo, NextPowerOfTwo(MaxPowerOfTwo+1))
	assert.Equal(t, MaxPowerOfTwo, NextPowerOfTwo(math.MaxInt))
}

func TestSizeBracketSaturates(t *testing.T) {
	b := SizeBracket(math.MaxInt, math.MaxInt)
	assert.Equal(t, BracketPlan{BaseQualified: MaxPowerOfTwo, BracketSize: MaxPowerOfTwo, Wildcards: 0}, b)

	b = SizeBracket(16, 1<<62+1)
	assert.True(t, IsPowerOfTwo(b.BracketSize))
	assert.GreaterOrEqual(t, b.Wildcards, 0)
}

func TestPartitionHugeInputs(t *testing.T) {
	plan, err := PartitionByMax(math.MaxInt, math.MaxInt)
	require.NoError(t, err)
	assert.Equal(t, 1, plan.GroupCount)

	plan, err = PartitionByDesired(math.MaxInt, math.MaxInt-1)
	require.NoError(t, err)
	assert.Equal(t, 1, plan.GroupCount)
}

func TestPartitionByMaxBoundary(t *testing.T) {
	plan, err := PartitionByMax(4, 4)
	require.NoError(t, err)
	assert.Equal(t, GroupPlan{GroupCount: 1, MinGroupSize: 4, MaxGroupSize: 4}, plan)

	_, err = PartitionByMax(4, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInfeasiblePartition))

	var pe *PartitionError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Plan.GroupCount)
	assert.Equal(t, 2, pe.Plan.MinGroupSize)
}

func TestPartitionByMaxUneven(t *testing.T) {
	plan, err := PartitionByMax(22, 6)
	require.NoError(t, err)
	assert.Equal(t, GroupPlan{GroupCount: 4, MinGroupSize: 5, MaxGroupSize: 6}, plan)
	assert.Equal(t, []int{6, 6, 5, 5}, plan.Sizes(22))
}

func TestPartitionByMaxCoercesSize(t *testing.T) {
	plan, err := PartitionByMax(16, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, plan.GroupCount)

	_, err = PartitionByMax(16, 0)
	assert.ErrorIs(t, err, ErrInfeasiblePartition)

	_, err = PartitionByMax(16, -5)
	assert.ErrorIs(t, err, ErrInfeasiblePartition)
}

func TestPartitionByMaxProperties(t *testing.T) {
	for teams := 16; teams <= 128; teams++ {
		for size := 4; size <= teams; size++ {
			plan, err := PartitionByMax(teams, size)
			if err != nil {
				continue
			}
			require.GreaterOrEqual(t, plan.MinGroupSize, MinGroupSize, "teams=%d size=%d", teams, size)
			require.LessOrEqual(t, plan.MaxGroupSize-plan.MinGroupSize, 1, "teams=%d size=%d", teams, size)
			require.LessOrEqual(t, plan.GroupCount*plan.MinGroupSize, teams, "teams=%d size=%d", teams, size)
			require.GreaterOrEqual(t, plan.GroupCount*plan.MaxGroupSize, teams, "teams=%d size=%d", teams, size)
			require.LessOrEqual(t, plan.MaxGroupSize, size, "teams=%d size=%d", teams, size)
		}
	}
}

func TestPartitionByDesired(t *testing.T) {
	plan, err := PartitionByDesired(18, 4)
	require.NoError(t, err)
	// round(18/4) = 5 would give groups of 3, clamped to floor(18/4) = 4
	assert.Equal(t, GroupPlan{GroupCount: 4, MinGroupSize: 4, MaxGroupSize: 5}, plan)

	plan, err = PartitionByDesired(20, 6)
	require.NoError(t, err)
	assert.Equal(t, GroupPlan{GroupCount: 3, MinGroupSize: 6, MaxGroupSize: 7}, plan)

	plan, err = PartitionByDesired(16, 5)
	require.NoError(t, err)
	assert.Equal(t, GroupPlan{GroupCount: 3, MinGroupSize: 5, MaxGroupSize: 6}, plan)

	_, err = PartitionByDesired(3, 4)
	assert.ErrorIs(t, err, ErrInfeasiblePartition)
}

func TestPartitionByDesiredNeverBelowMinimum(t *testing.T) {
	for teams := 4; teams <= 128; teams++ {
		for size := 1; size <= teams; size++ {
			plan, err := PartitionByDesired(teams, size)
			require.NoError(t, err, "teams=%d size=%d", teams, size)
			require.GreaterOrEqual(t, plan.MinGroupSize, MinGroupSize)
			require.LessOrEqual(t, plan.MaxGroupSize-plan.MinGroupSize, 1)
		}
	}
}

func TestSizeBracketProperties(t *testing.T) {
	for groups := 1; groups <= 64; groups++ {
		for _, advance := range AdvanceOptions {
			b := SizeBracket(groups, advance)
			require.True(t, IsPowerOfTwo(b.BracketSize), "groups=%d advance=%d", groups, advance)
			require.GreaterOrEqual(t, b.BracketSize, MinBracketSize)
			require.Equal(t, groups*advance, b.BaseQualified)
			require.Equal(t, b.BracketSize-b.BaseQualified, b.Wildcards)
			require.GreaterOrEqual(t, b.Wildcards, 0)
		}
	}
}

func TestSizeBracketExactFit(t *testing.T) {
	b := SizeBracket(4, 2)
	assert.Equal(t, BracketPlan{BaseQualified: 8, BracketSize: 8, Wildcards: 0}, b)
	assert.Equal(t, 3, b.Rounds())

	b = SizeBracket(5, 2)
	assert.Equal(t, BracketPlan{BaseQualified: 10, BracketSize: 16, Wildcards: 6}, b)
}
