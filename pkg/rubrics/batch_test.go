package rubrics

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyon-rl/gsmreward/pkg/types"
)

func TestBatchScore(t *testing.T) {
	rewards, err := BatchScore(
		[]string{"#### 42", "#### 24", "#### 9", "nothing"},
		[]string{"42", "24", "8", "5"},
	)
	require.NoError(t, err)
	assert.Equal(t, []float64{
		types.RewardCorrect,
		types.RewardCorrect,
		types.RewardFormatCorrect,
		types.RewardNoAnswer,
	}, rewards)
}

func TestBatchScore_LengthMismatch(t *testing.T) {
	_, err := BatchScore([]string{"#### 42"}, []string{"42", "24"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrLengthMismatch))
}

func TestBatchScore_Empty(t *testing.T) {
	rewards, err := BatchScore(nil, nil)
	require.NoError(t, err)
	require.NotNil(t, rewards)
	assert.Len(t, rewards, 0)
}

func TestBatchScore_MatchesSequentialScore(t *testing.T) {
	completions := []string{"#### 1", "the answer is #### 2,000", "", "#### -3"}
	groundTruths := []string{"1", "2000", "3", "-4"}

	rubric, err := NewGSM8KRubric(types.ModeStrict)
	require.NoError(t, err)

	rewards, err := BatchScore(completions, groundTruths)
	require.NoError(t, err)
	require.Len(t, rewards, len(completions))

	for i := range completions {
		assert.InDelta(t, rubric.Score(completions[i], groundTruths[i]), rewards[i], 1e-12, "pair %d", i)
	}
}

func TestScoreAll_MatchesBatchScore(t *testing.T) {
	n := 200
	completions := make([]string, n)
	groundTruths := make([]string, n)
	for i := range completions {
		completions[i] = fmt.Sprintf("after some work: #### %d", i)
		if i%3 == 0 {
			groundTruths[i] = fmt.Sprintf("%d", i)
		} else {
			groundTruths[i] = fmt.Sprintf("%d", i+1)
		}
	}

	sequential, err := BatchScore(completions, groundTruths)
	require.NoError(t, err)

	concurrent, err := ScoreAll(context.Background(), completions, groundTruths, 16)
	require.NoError(t, err)

	assert.Equal(t, sequential, concurrent)
}

func TestScoreAll_LengthMismatch(t *testing.T) {
	_, err := ScoreAll(context.Background(), []string{"a", "b"}, []string{"1"}, 4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrLengthMismatch))
}

func TestScoreAll_Empty(t *testing.T) {
	rewards, err := ScoreAll(context.Background(), []string{}, []string{}, 4)
	require.NoError(t, err)
	require.NotNil(t, rewards)
	assert.Len(t, rewards, 0)
}

func TestScoreBatchConcurrent_DefaultConcurrency(t *testing.T) {
	rubric, err := NewGSM8KRubric(types.ModeStrict)
	require.NoError(t, err)

	rewards, err := rubric.ScoreBatchConcurrent(context.Background(),
		[]string{"#### 42"}, []string{"42"}, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{types.RewardCorrect}, rewards)
}

func TestScoreBatchConcurrent_CancelledContextDegradesWholeBatch(t *testing.T) {
	rubric, err := NewGSM8KRubric(types.ModeStrict)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	completions := make([]string, 64)
	groundTruths := make([]string, 64)
	for i := range completions {
		completions[i] = "#### 42"
		groundTruths[i] = "42"
	}

	rewards, err := rubric.ScoreBatchConcurrent(ctx, completions, groundTruths, 1)
	require.NoError(t, err)
	for i, reward := range rewards {
		assert.InDelta(t, types.RewardNoAnswer, reward, 1e-12, "pair %d", i)
	}
}
