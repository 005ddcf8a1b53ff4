package parsers

import "context"

// Parser is the interface for pulling a final answer out of raw model
// output. Implementations must be stateless: repeated calls on the same
// input return the same result.
type Parser interface {
	// Parse extracts the final answer from model output. A missing
	// answer is reported as an empty string, not an error.
	Parse(ctx context.Context, response string) (string, error)

	// ParseWithTracking extracts the answer and returns parsing metadata
	ParseWithTracking(ctx context.Context, response string) (string, map[string]interface{}, error)
}
