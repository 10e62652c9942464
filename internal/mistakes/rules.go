package mistakes

import (
	"regexp"
	"strconv"
	"strings"
)

// TimeManagementThresholdSeconds is the maximum time spent (exclusive) for
// a wrong answer to be classified as a time-management mistake.
const TimeManagementThresholdSeconds = 30

// ReadingLengthRatio is the attempted/correct answer length ratio below
// which a wrong answer reads as a comprehension miss.
const ReadingLengthRatio = 0.5

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// numericTokens extracts all numeric tokens from s as floats.
func numericTokens(s string) []float64 {
	matches := numberPattern.FindAllString(s, -1)
	out := make([]float64, 0, len(matches))
	for _, m := range matches {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}

func sameNumbers(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// containsWord reports whether s contains w as a whole word, case-insensitive.
func containsWord(s, w string) bool {
	for _, f := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	}) {
		if f == w {
			return true
		}
	}
	return false
}

func containsAnyPhrase(s string, phrases ...string) bool {
	lower := strings.ToLower(s)
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// CalculationClassifier flags answers where the question is numeric and the
// attempted answer's numbers differ from the correct answer's numbers.
type CalculationClassifier struct{}

func (c *CalculationClassifier) Name() string { return "calculation" }

func (c *CalculationClassifier) Classify(input *ClassifyInput) (MistakeType, float64) {
	qNums := numericTokens(input.QuestionText)
	aNums := numericTokens(input.AttemptedAnswer)
	cNums := numericTokens(input.CorrectAnswer)
	if len(qNums) > 0 && len(aNums) > 0 && len(cNums) > 0 && !sameNumbers(aNums, cNums) {
		return TypeCalculation, 0.85
	}
	return "", 0
}

// ConceptualClassifier flags questions that ask for understanding rather
// than procedure.
type ConceptualClassifier struct{}

func (c *ConceptualClassifier) Name() string { return "conceptual" }

func (c *ConceptualClassifier) Classify(input *ClassifyInput) (MistakeType, float64) {
	text := input.QuestionText + " " + input.Explanation
	if containsWord(text, "explain") || containsWord(text, "why") ||
		containsAnyPhrase(text, "how does") || containsWord(text, "concept") {
		return TypeConceptual, 0.75
	}
	return "", 0
}

// ApplicationClassifier flags questions that require applying a known
// method to a new setting.
type ApplicationClassifier struct{}

func (c *ApplicationClassifier) Name() string { return "application" }

func (c *ApplicationClassifier) Classify(input *ClassifyInput) (MistakeType, float64) {
	text := input.QuestionText + " " + input.Explanation
	if containsWord(text, "apply") || containsWord(text, "use") ||
		containsAnyPhrase(text, "solve using") {
		return TypeApplication, 0.7
	}
	return "", 0
}

// ReadingClassifier flags answers that look like the student did not read
// or understand the question: a far-too-short pick, or an explicit
// "don't know".
type ReadingClassifier struct{}

func (c *ReadingClassifier) Name() string { return "reading-comprehension" }

func (c *ReadingClassifier) Classify(input *ClassifyInput) (MistakeType, float64) {
	if containsAnyPhrase(input.AttemptedAnswer, "don't know", "dont know", "not sure", "no idea") {
		return TypeReadingComprehension, 0.8
	}
	if len(input.CorrectAnswer) > 0 &&
		float64(len(input.AttemptedAnswer)) < ReadingLengthRatio*float64(len(input.CorrectAnswer)) {
		return TypeReadingComprehension, 0.6
	}
	return "", 0
}

// TimeManagementClassifier flags answers submitted too quickly to have
// been worked through.
type TimeManagementClassifier struct{}

func (c *TimeManagementClassifier) Name() string { return "time-management" }

func (c *TimeManagementClassifier) Classify(input *ClassifyInput) (MistakeType, float64) {
	if input.TimeSpentSeconds < TimeManagementThresholdSeconds {
		return TypeTimeManagement, 0.7
	}
	return "", 0
}
