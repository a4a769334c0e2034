package bruteforce

import (
	"context"
	"math"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"gitlab.com/hashsearch.net/internal/core/ports/primary"
	"gitlab.com/hashsearch.net/internal/core/ports/secondary"
	"gitlab.com/hashsearch.net/internal/domain"
)

// checkEvery is how many candidates a chunk tests between cancellation checks
const checkEvery = 4096

var _ IBruteForcer = (*BruteForcer)(nil)

// BruteForcer splits a range into contiguous chunks searched in parallel.
// Chunks share the lowest match found so far and stop once they pass it.
type BruteForcer struct {
	digester    secondary.Digester
	enumerator  secondary.Enumerator
	parallelism int
	logger      primary.Logger
}

func NewBruteForcer(digester secondary.Digester, enumerator secondary.Enumerator, parallelism int, logger primary.Logger) *BruteForcer {
	if parallelism < 1 {
		parallelism = 1
	}
	return &BruteForcer{
		digester:    digester,
		enumerator:  enumerator,
		parallelism: parallelism,
		logger:      logger,
	}
}

func (b *BruteForcer) Search(ctx context.Context, r domain.Range, target string) (string, bool, error) {
	target = strings.ToLower(target)

	var best atomic.Int64
	best.Store(math.MaxInt64)

	g, gctx := errgroup.WithContext(ctx)
	for _, chunk := range split(r, b.parallelism) {
		chunk := chunk
		g.Go(func() error {
			return b.searchChunk(gctx, chunk, target, &best)
		})
	}
	if err := g.Wait(); err != nil {
		return "", false, err
	}

	found := best.Load()
	if found == math.MaxInt64 {
		return "", false, nil
	}

	candidate := string(b.enumerator.AppendCandidate(nil, found))
	b.logger.Debug("Candidate found", "range", r.String(), "candidate", candidate)
	return candidate, true, nil
}

func (b *BruteForcer) searchChunk(ctx context.Context, chunk domain.Range, target string, best *atomic.Int64) error {
	buf := make([]byte, 0, 20)
	for n := chunk.Start; n < chunk.End; n++ {
		if (n-chunk.Start)%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			if n >= best.Load() {
				return nil
			}
		}

		buf = b.enumerator.AppendCandidate(buf[:0], n)
		if b.digester.Digest(buf) != target {
			continue
		}

		for {
			cur := best.Load()
			if n >= cur || best.CompareAndSwap(cur, n) {
				return nil
			}
		}
	}
	return nil
}

// split cuts r into at most parts contiguous ascending chunks
func split(r domain.Range, parts int) []domain.Range {
	total := r.Len()
	if total <= 0 {
		return nil
	}
	if int64(parts) > total {
		parts = int(total)
	}

	size := total / int64(parts)
	rem := total % int64(parts)

	chunks := make([]domain.Range, 0, parts)
	start := r.Start
	for i := 0; i < parts; i++ {
		end := start + size
		if int64(i) < rem {
			end++
		}
		chunks = append(chunks, domain.Range{Start: start, End: end})
		start = end
	}
	return chunks
}
