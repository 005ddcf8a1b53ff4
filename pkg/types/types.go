package types

import (
	"context"
	"errors"
)

// Mode selects how a final answer is extracted from a completion.
type Mode string

const (
	// ModeStrict requires the literal "#### " marker before the answer.
	// Recommended default: it also tests the model's formatting.
	ModeStrict Mode = "strict"

	// ModeFlexible accepts any standalone numeric token, scanned from
	// the end of the completion.
	ModeFlexible Mode = "flexible"
)

// Valid reports whether m is a supported extraction mode.
func (m Mode) Valid() bool {
	return m == ModeStrict || m == ModeFlexible
}

// Reward tiers. RewardNoAnswer and RewardWrong are fixed; the two
// positive tiers can be overridden per rubric.
const (
	RewardCorrect       = 1.0
	RewardFormatCorrect = 0.3
	RewardNoAnswer      = -0.3
	RewardWrong         = 0.0
)

var (
	// ErrInvalidMode is returned for any extraction mode other than
	// ModeStrict or ModeFlexible.
	ErrInvalidMode = errors.New(`mode must be "strict" or "flexible"`)

	// ErrLengthMismatch is returned when batch inputs differ in length.
	ErrLengthMismatch = errors.New("completions and ground truths must have the same length")
)

// RewardFunc calculates a reward for a completion against a ground truth.
type RewardFunc func(ctx context.Context, completion, groundTruth string) (float64, error)

// Sample is a single GSM8K-style dataset row. Answer holds the full
// reference solution; GroundTruth holds the final numeric answer used
// for exact-match scoring.
type Sample struct {
	ID          string `json:"id"`
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	GroundTruth string `json:"ground_truth"`
}
