package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/graphwalk/internal/ir"
)

func TestSinglePropertyPlanIsWellFormed(t *testing.T) {
	plan := SinglePropertyPlan("Animal", "name", "animal_name")

	local, global, err := ir.SplitBlocks(plan.Blocks)
	require.NoError(t, err)
	assert.IsType(t, &ir.QueryRoot{}, local[0])
	assert.IsType(t, &ir.ConstructResult{}, global[len(global)-1])

	_, ok := plan.Metadata.GetOutputInfo("animal_name")
	assert.True(t, ok)
}

func TestTraversePlanIsWellFormed(t *testing.T) {
	plan := TraversePlan("Animal", "out", "Animal_OfSpecies", "Species", "name")

	_, _, err := ir.SplitBlocks(plan.Blocks)
	require.NoError(t, err)

	child := plan.Metadata.RootLocation().NavigateToSubpath("out_Animal_OfSpecies")
	info := plan.Metadata.GetLocationInfo(child)
	assert.Equal(t, "Species", info.Type)
}

func TestCollect(t *testing.T) {
	seq := func(yield func(int) bool) {
		for i := 1; i <= 3; i++ {
			if !yield(i) {
				return
			}
		}
	}
	assert.Equal(t, []int{1, 2, 3}, Collect(seq))
}
