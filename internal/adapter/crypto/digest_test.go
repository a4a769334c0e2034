package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/hashsearch.net/internal/static/errs"
)

func TestDigesters(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{DigestMD5, "12345", "827ccb0eea8a706c4c34a16891f84e7b"},
		{DigestSHA3, "abc", "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532"},
		{DigestBLAKE2b, "abc", "bddd813c634239723171ef3fee98579b94964e3bb1cb3e427262c8c068d52319"},
		{DigestXXHash64, "", "ef46db3751d8e999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDigester(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.name, d.Name())
			got := d.Digest([]byte(tt.input))
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, d.Size())
		})
	}
}

func TestNewDigesterUnknown(t *testing.T) {
	_, err := NewDigester("crc32")
	assert.ErrorIs(t, err, errs.ErrUnknownDigest)
	assert.Equal(t, []string{DigestBLAKE2b, DigestMD5, DigestSHA3, DigestXXHash64}, Digesters())
}

func TestDecimalEnumerator(t *testing.T) {
	var e DecimalEnumerator
	buf := e.AppendCandidate(nil, 10000)
	assert.Equal(t, "10000", string(buf))

	buf = e.AppendCandidate(buf[:0], 7)
	assert.Equal(t, "7", string(buf))
}
