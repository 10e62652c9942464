package mistakes

// Classifier is a rule-based mistake classifier.
// Returns a mistake type and confidence (0.0–1.0), or ("", 0) if the rule
// doesn't apply.
type Classifier interface {
	Name() string
	Classify(input *ClassifyInput) (MistakeType, float64)
}

// DefaultClassifiers returns classifiers in priority order. The order is
// part of the contract: only the first matching rule labels the mistake,
// so a numeric slip on an "explain why" question still reads as calculation.
func DefaultClassifiers() []Classifier {
	return []Classifier{
		&CalculationClassifier{},
		&ConceptualClassifier{},
		&ApplicationClassifier{},
		&ReadingClassifier{},
		&TimeManagementClassifier{},
	}
}

// RunClassifiers executes rule-based classifiers in order and returns the
// first match. Classification is total: when no rule applies the mistake
// falls through to TypeOther with low confidence.
func RunClassifiers(classifiers []Classifier, input *ClassifyInput) (MistakeType, float64, string) {
	for _, c := range classifiers {
		mt, conf := c.Classify(input)
		if mt != "" {
			return mt, conf, c.Name()
		}
	}
	return TypeOther, 0.3, "fallback"
}
