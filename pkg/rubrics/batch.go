package rubrics

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/halcyon-rl/gsmreward/pkg/metrics"
	"github.com/halcyon-rl/gsmreward/pkg/types"
)

// DefaultMaxConcurrent bounds concurrent scorers when the caller passes
// a non-positive limit.
const DefaultMaxConcurrent = 32

// BatchScore scores completion/ground-truth pairs pairwise and in
// order, using strict mode and the default reward tiers.
//
// Mismatched lengths are a caller bug and fail loudly. Any fault inside
// the loop degrades the ENTIRE batch to a uniform RewardNoAnswer rather
// than returning partial results, keeping the training run alive at the
// cost of one step's signal.
func BatchScore(completions, groundTruths []string) ([]float64, error) {
	rubric, err := NewGSM8KRubric(types.ModeStrict)
	if err != nil {
		return nil, err
	}
	return rubric.ScoreBatch(completions, groundTruths)
}

// ScoreAll is BatchScore with bounded concurrency. Scoring is a pure
// function, so pairs can be evaluated independently; the contract is
// otherwise identical, including whole-batch degradation.
func ScoreAll(ctx context.Context, completions, groundTruths []string, maxConcurrent int) ([]float64, error) {
	rubric, err := NewGSM8KRubric(types.ModeStrict)
	if err != nil {
		return nil, err
	}
	return rubric.ScoreBatchConcurrent(ctx, completions, groundTruths, maxConcurrent)
}

// ScoreBatch scores pairs sequentially with this rubric's mode and tiers.
func (r *GSM8KRubric) ScoreBatch(completions, groundTruths []string) ([]float64, error) {
	rewards, err := newBatch(completions, groundTruths)
	if err != nil || len(rewards) == 0 {
		return rewards, err
	}

	if err := r.scoreInto(rewards, completions, groundTruths); err != nil {
		degradeBatch(rewards, err)
	}
	return rewards, nil
}

// ScoreBatchConcurrent scores pairs with at most maxConcurrent scorers
// running at once. Output order matches input order.
func (r *GSM8KRubric) ScoreBatchConcurrent(ctx context.Context, completions, groundTruths []string, maxConcurrent int) ([]float64, error) {
	rewards, err := newBatch(completions, groundTruths)
	if err != nil || len(rewards) == 0 {
		return rewards, err
	}
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}

	sem := make(chan struct{}, maxConcurrent)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		batchErr error
	)
	fail := func(err error) {
		mu.Lock()
		if batchErr == nil {
			batchErr = err
		}
		mu.Unlock()
	}

	for i := range completions {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					fail(fmt.Errorf("scoring pair %d panicked: %v", idx, rec))
				}
			}()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				fail(ctx.Err())
				return
			}

			rewards[idx] = r.Score(completions[idx], groundTruths[idx])
		}(i)
	}
	wg.Wait()

	if batchErr != nil {
		degradeBatch(rewards, batchErr)
	}
	return rewards, nil
}

// newBatch validates pair lengths and allocates the result slice.
// Empty inputs yield an empty, non-nil slice.
func newBatch(completions, groundTruths []string) ([]float64, error) {
	if len(completions) != len(groundTruths) {
		return nil, fmt.Errorf("%w: completions=%d ground truths=%d",
			types.ErrLengthMismatch, len(completions), len(groundTruths))
	}
	return make([]float64, len(completions)), nil
}

func (r *GSM8KRubric) scoreInto(rewards []float64, completions, groundTruths []string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("batch scoring panicked: %v", rec)
		}
	}()

	for i := range completions {
		rewards[i] = r.Score(completions[i], groundTruths[i])
	}
	return nil
}

// degradeBatch overwrites every reward with the no-answer penalty.
// A degraded batch is uniform; partial results are never returned.
func degradeBatch(rewards []float64, cause error) {
	metrics.BatchDegraded.Inc()
	log.Error().Err(cause).Int("batch_size", len(rewards)).
		Msg("batch scoring failed, degrading every reward to no-answer")

	for i := range rewards {
		rewards[i] = types.RewardNoAnswer
	}
}
