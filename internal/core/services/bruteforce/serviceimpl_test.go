package bruteforce

import (
	"context"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/hashsearch.net/internal/adapter/crypto"
	"gitlab.com/hashsearch.net/internal/adapter/logging"
	"gitlab.com/hashsearch.net/internal/domain"
)

// setDigester matches every candidate listed in hits
type setDigester struct {
	hits  map[string]bool
	calls atomic.Int64
}

func (d *setDigester) Name() string { return "set" }
func (d *setDigester) Size() int    { return 3 }
func (d *setDigester) Digest(candidate []byte) string {
	d.calls.Add(1)
	if d.hits[string(candidate)] {
		return "hit"
	}
	return "mis"
}

func newMD5Forcer(t *testing.T, parallelism int) *BruteForcer {
	t.Helper()
	d, err := crypto.NewDigester(crypto.DigestMD5)
	require.NoError(t, err)
	return NewBruteForcer(d, crypto.DecimalEnumerator{}, parallelism, logging.NewNopLogger())
}

func TestSearchFindsMD5Match(t *testing.T) {
	for _, parallelism := range []int{1, 3, 8} {
		t.Run(strconv.Itoa(parallelism), func(t *testing.T) {
			b := newMD5Forcer(t, parallelism)

			candidate, ok, err := b.Search(context.Background(), domain.Range{Start: 12000, End: 13000}, "827CCB0EEA8A706C4C34A16891F84E7B")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "12345", candidate)
		})
	}
}

func TestSearchNotFound(t *testing.T) {
	b := newMD5Forcer(t, 4)

	_, ok, err := b.Search(context.Background(), domain.Range{Start: 10000, End: 11000}, "827ccb0eea8a706c4c34a16891f84e7b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSearchReturnsLowestMatch(t *testing.T) {
	d := &setDigester{hits: map[string]bool{"180": true, "990": true, "505": true}}
	b := NewBruteForcer(d, crypto.DecimalEnumerator{}, 4, logging.NewNopLogger())

	candidate, ok, err := b.Search(context.Background(), domain.Range{Start: 100, End: 1000}, "hit")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "180", candidate)
}

func TestSearchCancelled(t *testing.T) {
	b := newMD5Forcer(t, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := b.Search(ctx, domain.Range{Start: 0, End: 1_000_000}, "827ccb0eea8a706c4c34a16891f84e7b")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSplit(t *testing.T) {
	chunks := split(domain.Range{Start: 10, End: 20}, 3)
	assert.Equal(t, []domain.Range{{Start: 10, End: 14}, {Start: 14, End: 17}, {Start: 17, End: 20}}, chunks)

	chunks = split(domain.Range{Start: 0, End: 2}, 8)
	assert.Len(t, chunks, 2)

	assert.Empty(t, split(domain.Range{Start: 5, End: 5}, 4))
}
