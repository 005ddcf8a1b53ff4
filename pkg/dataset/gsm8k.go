// Package dataset loads GSM8K-style question/answer data and derives
// the exact-match ground truths the rubrics compare against.
package dataset

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/halcyon-rl/gsmreward/pkg/types"
)

const maxLineBytes = 1024 * 1024

type sampleRow struct {
	ID       string `json:"id,omitempty"`
	TaskID   string `json:"task_id,omitempty"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type completionRow struct {
	ID         string `json:"id,omitempty"`
	Completion string `json:"completion"`
}

// Load reads GSM8K samples from a JSONL file. Rows with a blank
// question are skipped; missing IDs are synthesized from the line
// number. The ground truth is derived from each answer's "####" suffix.
func Load(ctx context.Context, path string) ([]types.Sample, error) {
	var samples []types.Sample

	err := scanJSONL(ctx, path, func(lineNo int, line []byte) error {
		var row sampleRow
		if err := json.Unmarshal(line, &row); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}

		question := strings.TrimSpace(row.Question)
		if question == "" {
			return nil
		}

		id := strings.TrimSpace(row.ID)
		if id == "" {
			id = strings.TrimSpace(row.TaskID)
		}
		if id == "" {
			id = fmt.Sprintf("gsm8k-%d", lineNo)
		}

		samples = append(samples, types.Sample{
			ID:          id,
			Question:    question,
			Answer:      row.Answer,
			GroundTruth: ExtractGroundTruth(row.Answer),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load dataset %q: %w", path, err)
	}
	return samples, nil
}

// LoadCompletions reads model completions from a JSONL file of
// {"id", "completion"} rows, preserving row order.
func LoadCompletions(ctx context.Context, path string) ([]string, error) {
	var completions []string

	err := scanJSONL(ctx, path, func(lineNo int, line []byte) error {
		var row completionRow
		if err := json.Unmarshal(line, &row); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		completions = append(completions, row.Completion)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load completions %q: %w", path, err)
	}
	return completions, nil
}

// scanJSONL streams non-blank lines of a JSONL file through fn.
func scanJSONL(ctx context.Context, path string, fn func(lineNo int, line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := fn(lineNo, []byte(line)); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// ExtractGroundTruth returns the reference answer after the last "####"
// marker, trimmed, with thousands commas and dollar signs stripped so
// it compares directly against strict-mode extractions.
func ExtractGroundTruth(answer string) string {
	s := strings.TrimSpace(answer)
	if idx := strings.LastIndex(s, "####"); idx >= 0 {
		s = strings.TrimSpace(s[idx+len("####"):])
	}
	return strings.NewReplacer(",", "", "$", "").Replace(s)
}

// Builder constructs sample sets programmatically, mirroring what Load
// derives from a file.
type Builder struct {
	samples []types.Sample
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends a question/answer pair, deriving the ground truth from
// the answer text.
func (b *Builder) Add(id, question, answer string) *Builder {
	b.samples = append(b.samples, types.Sample{
		ID:          id,
		Question:    question,
		Answer:      answer,
		GroundTruth: ExtractGroundTruth(answer),
	})
	return b
}

// Build returns the accumulated samples.
func (b *Builder) Build() []types.Sample {
	return b.samples
}
