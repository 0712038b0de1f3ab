package processor

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrValidation wraps invalid-input errors surfaced at the processing
// entry point (empty stimulus, out-of-range parameters).
var ErrValidation = errors.New("processor: validation error")

func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func validate(stimulus string, urgency, complexity, relevance float64) error {
	if stimulus == "" {
		return validationErrorf("stimulus must not be empty")
	}
	if utf8.RuneCountInString(stimulus) > 10000 {
		return validationErrorf("stimulus exceeds maximum length of 10000 characters")
	}
	for name, v := range map[string]float64{"urgency": urgency, "complexity": complexity, "relevance": relevance} {
		if v < 0 || v > 1 {
			return validationErrorf("%s must be within [0,1], got %v", name, v)
		}
	}
	return nil
}
