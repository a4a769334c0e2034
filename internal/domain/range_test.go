package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/hashsearch.net/internal/static/errs"
)

func TestParseRange(t *testing.T) {
	r, err := ParseRange("10000-11000")
	require.NoError(t, err)
	assert.Equal(t, Range{Start: 10000, End: 11000}, r)
	assert.Equal(t, "10000-11000", r.String())
	assert.Equal(t, int64(1000), r.Len())
}

func TestParseRangeInvalid(t *testing.T) {
	for _, in := range []string{"", "10000", "a-b", "5-5", "9-3", "1-", "-1-4", "STOP"} {
		_, err := ParseRange(in)
		assert.ErrorIs(t, err, errs.ErrInvalidRange, "input %q", in)
	}
}

func TestRangeOverlaps(t *testing.T) {
	a := Range{Start: 0, End: 10}
	assert.True(t, a.Overlaps(Range{Start: 9, End: 20}))
	assert.False(t, a.Overlaps(Range{Start: 10, End: 20}))
	assert.True(t, a.Contains(0))
	assert.False(t, a.Contains(10))
}

func TestValidateCandidate(t *testing.T) {
	width := CandidateWidth(10000)
	assert.Equal(t, 5, width)

	assert.NoError(t, ValidateCandidate("12345", width))
	assert.ErrorIs(t, ValidateCandidate("012345", width), errs.ErrInvalidResult)
	assert.ErrorIs(t, ValidateCandidate("1234", width), errs.ErrInvalidResult)
	assert.ErrorIs(t, ValidateCandidate("12a45", width), errs.ErrInvalidResult)
	assert.ErrorIs(t, ValidateCandidate("", width), errs.ErrInvalidResult)
}

func TestSearchStatusTerminal(t *testing.T) {
	assert.False(t, SearchStatusSearching.Terminal())
	assert.True(t, SearchStatusFound.Terminal())
	assert.True(t, SearchStatusExhausted.Terminal())
}
