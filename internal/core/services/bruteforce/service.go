package bruteforce

import (
	"context"

	"gitlab.com/hashsearch.net/internal/domain"
)

// IBruteForcer searches a range for a candidate whose digest equals the target
type IBruteForcer interface {
	// Search returns the lowest matching candidate in r, and false when
	// none matches. It returns ctx.Err() when cancelled first.
	Search(ctx context.Context, r domain.Range, target string) (string, bool, error)
}
