package rubrics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyon-rl/gsmreward/pkg/types"
)

func TestNewGSM8KRubric_InvalidMode(t *testing.T) {
	_, err := NewGSM8KRubric("somewhat strict")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrInvalidMode))
}

func TestGSM8KRubric_Score(t *testing.T) {
	tests := []struct {
		name        string
		completion  string
		groundTruth string
		expected    float64
	}{
		{
			name:        "correct answer",
			completion:  "Twice 21 is #### 42",
			groundTruth: "42",
			expected:    types.RewardCorrect,
		},
		{
			name:        "formatted but wrong",
			completion:  "Twice 21 is #### 41",
			groundTruth: "42",
			expected:    types.RewardFormatCorrect,
		},
		{
			name:        "no answer",
			completion:  "no answer here",
			groundTruth: "42",
			expected:    types.RewardNoAnswer,
		},
		{
			name:        "empty completion",
			completion:  "",
			groundTruth: "42",
			expected:    types.RewardNoAnswer,
		},
		{
			name:        "empty ground truth",
			completion:  "#### 42",
			groundTruth: "",
			expected:    types.RewardNoAnswer,
		},
		{
			name:        "commas stripped before comparison",
			completion:  "The answer is #### 1,200",
			groundTruth: "1200",
			expected:    types.RewardCorrect,
		},
		{
			name:        "exact string match only, no numeric coercion",
			completion:  "The answer is #### 42.0",
			groundTruth: "42",
			expected:    types.RewardFormatCorrect,
		},
	}

	rubric, err := NewGSM8KRubric(types.ModeStrict)
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, rubric.Score(tt.completion, tt.groundTruth), 1e-12)
		})
	}
}

func TestGSM8KRubric_Overrides(t *testing.T) {
	rubric, err := NewGSM8KRubric(types.ModeStrict,
		WithFormatReward(0.1),
		WithCorrectReward(2.0))
	require.NoError(t, err)

	assert.InDelta(t, 2.0, rubric.Score("#### 42", "42"), 1e-12)
	assert.InDelta(t, 0.1, rubric.Score("#### 41", "42"), 1e-12)

	// The no-answer penalty is not overridable.
	assert.InDelta(t, types.RewardNoAnswer, rubric.Score("nothing", "42"), 1e-12)
}

func TestGSM8KRubric_FlexibleMode(t *testing.T) {
	rubric, err := NewGSM8KRubric(types.ModeFlexible)
	require.NoError(t, err)

	assert.InDelta(t, types.RewardCorrect, rubric.Score("the final answer is 24", "24"), 1e-12)
	assert.InDelta(t, types.RewardFormatCorrect, rubric.Score("the final answer is 25", "24"), 1e-12)
	assert.InDelta(t, types.RewardNoAnswer, rubric.Score("there are no digits", "24"), 1e-12)
}

func TestGSM8KRubric_ComputeReward(t *testing.T) {
	ctx := context.Background()

	rubric, err := NewGSM8KRubric(types.ModeStrict)
	require.NoError(t, err)

	reward, err := rubric.ComputeReward(ctx, "#### 42", "42")
	require.NoError(t, err)
	assert.InDelta(t, types.RewardCorrect, reward, 1e-12)
}

func TestGSM8KRubric_RewardFuncExport(t *testing.T) {
	rubric, err := NewGSM8KRubric(types.ModeStrict)
	require.NoError(t, err)

	funcs := rubric.GetRewardFuncs()
	require.Len(t, funcs, 1)
	assert.Equal(t, []float64{1.0}, rubric.GetRewardWeights())

	reward, err := funcs[0](context.Background(), "#### 7", "7")
	require.NoError(t, err)
	assert.InDelta(t, types.RewardCorrect, reward, 1e-12)
}

func TestGSM8KRubric_Parser(t *testing.T) {
	rubric, err := NewGSM8KRubric(types.ModeFlexible)
	require.NoError(t, err)
	assert.Equal(t, types.ModeFlexible, rubric.Parser().Mode())
}
