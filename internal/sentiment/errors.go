package sentiment

import "errors"

var (
	// ErrInvalidInput is returned when the text to analyze is empty after trimming.
	ErrInvalidInput = errors.New("text cannot be empty")

	// ErrNonFiniteScore is returned when a scorer yields NaN or an infinity.
	ErrNonFiniteScore = errors.New("scorer returned a non-finite score")
)
