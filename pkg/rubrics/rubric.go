package rubrics

import (
	"context"

	"github.com/halcyon-rl/gsmreward/pkg/parsers"
	"github.com/halcyon-rl/gsmreward/pkg/types"
)

// Rubric is the interface for evaluating model outputs
type Rubric interface {
	// GetRewardFuncs returns the reward functions for this rubric
	GetRewardFuncs() []types.RewardFunc

	// GetRewardWeights returns the weights for each reward function
	GetRewardWeights() []float64

	// ComputeReward computes the total reward for a completion and ground truth
	ComputeReward(ctx context.Context, completion string, groundTruth string) (float64, error)
}

// GSM8KRubric scores a completion against an exact-match numeric ground
// truth with a three-tier policy: correct, well-formed but wrong, and
// no answer. The two positive tiers are overridable; the no-answer
// penalty is fixed at types.RewardNoAnswer.
type GSM8KRubric struct {
	parser        *parsers.GSM8KParser
	formatReward  float64
	correctReward float64
}

// Option configures a GSM8KRubric.
type Option func(*GSM8KRubric)

// WithFormatReward overrides the reward for a well-formed wrong answer.
func WithFormatReward(reward float64) Option {
	return func(r *GSM8KRubric) { r.formatReward = reward }
}

// WithCorrectReward overrides the reward for a correct answer.
func WithCorrectReward(reward float64) Option {
	return func(r *GSM8KRubric) { r.correctReward = reward }
}

// NewGSM8KRubric creates a rubric extracting answers in the given mode.
func NewGSM8KRubric(mode types.Mode, opts ...Option) (*GSM8KRubric, error) {
	parser, err := parsers.NewGSM8KParser(mode)
	if err != nil {
		return nil, err
	}

	rubric := &GSM8KRubric{
		parser:        parser,
		formatReward:  types.RewardFormatCorrect,
		correctReward: types.RewardCorrect,
	}
	for _, opt := range opts {
		opt(rubric)
	}
	return rubric, nil
}

// Score computes the reward for one completion.
//
// An empty completion or ground truth short-circuits to RewardNoAnswer
// without attempting extraction. The ground-truth comparison is exact
// string equality; no numeric coercion.
func (r *GSM8KRubric) Score(completion, groundTruth string) float64 {
	if completion == "" || groundTruth == "" {
		return types.RewardNoAnswer
	}

	answer, ok := r.parser.Extract(completion)
	switch {
	case !ok:
		return types.RewardNoAnswer
	case answer == groundTruth:
		return r.correctReward
	default:
		return r.formatReward
	}
}

// ComputeReward adapts Score to the Rubric interface.
func (r *GSM8KRubric) ComputeReward(ctx context.Context, completion string, groundTruth string) (float64, error) {
	return r.Score(completion, groundTruth), nil
}

// GetRewardFuncs exports the scorer as a single reward function for
// trainer integration.
func (r *GSM8KRubric) GetRewardFuncs() []types.RewardFunc {
	return []types.RewardFunc{r.ComputeReward}
}

// GetRewardWeights returns the reward weights
func (r *GSM8KRubric) GetRewardWeights() []float64 {
	return []float64{1.0}
}

// Parser returns the underlying answer parser.
func (r *GSM8KRubric) Parser() *parsers.GSM8KParser {
	return r.parser
}
