package domain

import (
	"fmt"
	"strconv"

	"gitlab.com/hashsearch.net/internal/static/errs"
)

// CandidateWidth is the decimal width of the start-of-search literal. Reported
// candidates must have exactly this many digits.
func CandidateWidth(start int64) int {
	return len(strconv.FormatInt(start, 10))
}

// ValidateCandidate applies the fixed-width rule to a reported candidate: it
// must be exactly width characters long and made of decimal digits only.
// Matches of any other width are rejected, including ones with leading zeros.
func ValidateCandidate(candidate string, width int) error {
	if len(candidate) != width {
		return fmt.Errorf("%w: %q has %d characters, expected %d", errs.ErrInvalidResult, candidate, len(candidate), width)
	}
	for i := 0; i < len(candidate); i++ {
		if candidate[i] < '0' || candidate[i] > '9' {
			return fmt.Errorf("%w: %q is not a decimal number", errs.ErrInvalidResult, candidate)
		}
	}
	return nil
}
