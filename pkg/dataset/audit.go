package dataset

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"

	"github.com/halcyon-rl/gsmreward/pkg/types"
)

// Finding reports one inconsistent calculator annotation in a
// reference answer.
type Finding struct {
	SampleID   string
	Annotation string
	Detail     string
}

var annotationPattern = regexp.MustCompile(`<<([^<>=]+)=([^<>]*)>>`)

var annotationCleaner = strings.NewReplacer(",", "", "$", "")

const annotationTolerance = 1e-6

// AuditAnnotations checks the calculator annotations embedded in GSM8K
// reference answers (for example "<<48/2=24>>") for internal
// consistency: the expression side of each annotation is evaluated and
// compared against its stated result. Only the dataset is audited; the
// model's reasoning is never evaluated.
func AuditAnnotations(samples []types.Sample) []Finding {
	var findings []Finding
	for _, sample := range samples {
		for _, match := range annotationPattern.FindAllStringSubmatch(sample.Answer, -1) {
			expr := strings.TrimSpace(match[1])
			stated := strings.TrimSpace(match[2])

			if detail := checkAnnotation(expr, stated); detail != "" {
				findings = append(findings, Finding{
					SampleID:   sample.ID,
					Annotation: match[0],
					Detail:     detail,
				})
			}
		}
	}
	return findings
}

func checkAnnotation(expr, stated string) string {
	want, err := strconv.ParseFloat(annotationCleaner.Replace(stated), 64)
	if err != nil {
		return fmt.Sprintf("stated result %q is not numeric", stated)
	}

	evaluable, err := govaluate.NewEvaluableExpression(annotationCleaner.Replace(expr))
	if err != nil {
		return fmt.Sprintf("expression %q does not parse: %v", expr, err)
	}

	result, err := evaluable.Evaluate(nil)
	if err != nil {
		return fmt.Sprintf("expression %q does not evaluate: %v", expr, err)
	}

	got, ok := result.(float64)
	if !ok {
		return fmt.Sprintf("expression %q is not numeric", expr)
	}

	if math.Abs(got-want) > annotationTolerance {
		return fmt.Sprintf("expression %q evaluates to %v, answer states %v", expr, got, want)
	}
	return ""
}
