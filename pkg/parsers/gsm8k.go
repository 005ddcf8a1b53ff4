package parsers

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/halcyon-rl/gsmreward/pkg/metrics"
	"github.com/halcyon-rl/gsmreward/pkg/types"
)

// Final answers sit near the end of a completion, so only this many
// trailing characters are scanned. Bounds regex cost on long rollouts.
const solutionClipChars = 300

var (
	strictAnswerPattern   = regexp.MustCompile(`#### (\-?[0-9\.\,]+)`)
	flexibleAnswerPattern = regexp.MustCompile(`(\-?[0-9\.\,]+)`)
	digitPattern          = regexp.MustCompile(`\d`)
)

// Tokens the flexible pattern can match that carry no numeric content.
var invalidAnswers = map[string]bool{"": true, ".": true}

// GSM8KParser extracts the final numeric answer from a completion in
// either strict or flexible mode.
type GSM8KParser struct {
	mode types.Mode
}

// NewGSM8KParser creates a parser for the given extraction mode,
// rejecting anything other than ModeStrict or ModeFlexible.
func NewGSM8KParser(mode types.Mode) (*GSM8KParser, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w, got %q", types.ErrInvalidMode, string(mode))
	}
	return &GSM8KParser{mode: mode}, nil
}

// Mode returns the parser's extraction mode.
func (p *GSM8KParser) Mode() types.Mode { return p.mode }

// Extract returns the final answer token and whether one was found.
//
// Strict mode takes the last "#### <number>" occurrence and strips
// thousands commas and dollar signs. Flexible mode takes the last
// standalone numeric token that is not "" or "." and returns it raw.
func (p *GSM8KParser) Extract(text string) (answer string, ok bool) {
	if text == "" {
		return "", false
	}
	if len(text) > solutionClipChars {
		// len counts bytes; clip by runes so multibyte completions keep
		// the full window.
		if runes := []rune(text); len(runes) > solutionClipChars {
			text = string(runes[len(runes)-solutionClipChars:])
		}
	}

	// The patterns are compile-time constants, but a fault inside the
	// engine must degrade to "no match" rather than take down a
	// training step.
	defer func() {
		if r := recover(); r != nil {
			metrics.ExtractionPatternFailures.Inc()
			log.Warn().Interface("cause", r).Str("mode", string(p.mode)).
				Msg("pattern match failed, treating as no answer")
			answer, ok = "", false
		}
	}()

	switch p.mode {
	case types.ModeStrict:
		matches := strictAnswerPattern.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			metrics.ExtractionNoMatch.Inc()
			return "", false
		}
		metrics.ExtractionMatched.Inc()
		return cleanToken(matches[len(matches)-1][1]), true
	case types.ModeFlexible:
		matches := flexibleAnswerPattern.FindAllStringSubmatch(text, -1)
		for i := len(matches) - 1; i >= 0; i-- {
			if token := matches[i][1]; !invalidAnswers[token] {
				metrics.ExtractionMatched.Inc()
				return token, true
			}
		}
		metrics.ExtractionNoMatch.Inc()
		return "", false
	default:
		// Unreachable through the constructor.
		return "", false
	}
}

// Parse implements Parser. A missing answer yields an empty string.
func (p *GSM8KParser) Parse(ctx context.Context, response string) (string, error) {
	answer, _ := p.Extract(response)
	return answer, nil
}

// ParseWithTracking implements Parser.
func (p *GSM8KParser) ParseWithTracking(ctx context.Context, response string) (string, map[string]interface{}, error) {
	answer, ok := p.Extract(response)

	metadata := map[string]interface{}{
		"parser_type":     "gsm8k",
		"mode":            string(p.mode),
		"original_length": len(response),
		"matched":         ok,
	}

	return answer, metadata, nil
}

// cleanToken strips thousands commas and dollar signs from a
// strict-mode token.
func cleanToken(token string) string {
	return strings.NewReplacer(",", "", "$", "").Replace(token)
}

// ValidAnswerFormat reports whether answer plausibly carries a numeric
// final answer. Debugging helper; scoring never consults it.
func ValidAnswerFormat(answer string) bool {
	if answer == "" {
		return false
	}
	return digitPattern.MatchString(answer) || strings.Contains(answer, "####")
}
