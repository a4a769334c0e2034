package crypto

import (
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"gitlab.com/hashsearch.net/internal/core/ports/secondary"
	"gitlab.com/hashsearch.net/internal/static/errs"
)

const (
	DigestMD5      = "md5"
	DigestSHA3     = "sha3-256"
	DigestBLAKE2b  = "blake2b-256"
	DigestXXHash64 = "xxhash64"
	DefaultDigest  = DigestMD5
)

var digesters = map[string]func() secondary.Digester{
	DigestMD5: func() secondary.Digester {
		return sumDigester{name: DigestMD5, size: md5.Size * 2, sum: func(b []byte) []byte {
			s := md5.Sum(b)
			return s[:]
		}}
	},
	DigestSHA3: func() secondary.Digester {
		return sumDigester{name: DigestSHA3, size: 64, sum: func(b []byte) []byte {
			s := sha3.Sum256(b)
			return s[:]
		}}
	},
	DigestBLAKE2b: func() secondary.Digester {
		return sumDigester{name: DigestBLAKE2b, size: blake2b.Size256 * 2, sum: func(b []byte) []byte {
			s := blake2b.Sum256(b)
			return s[:]
		}}
	},
	DigestXXHash64: func() secondary.Digester {
		return sumDigester{name: DigestXXHash64, size: 16, sum: func(b []byte) []byte {
			return binary.BigEndian.AppendUint64(nil, xxhash.Sum64(b))
		}}
	},
}

// NewDigester returns the digest oracle registered under name
func NewDigester(name string) (secondary.Digester, error) {
	ctor, ok := digesters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownDigest, name)
	}
	return ctor(), nil
}

// Digesters lists the registered algorithm names
func Digesters() []string {
	names := make([]string, 0, len(digesters))
	for name := range digesters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type sumDigester struct {
	name string
	size int
	sum  func([]byte) []byte
}

func (d sumDigester) Name() string { return d.name }
func (d sumDigester) Size() int    { return d.size }

func (d sumDigester) Digest(candidate []byte) string {
	return hex.EncodeToString(d.sum(candidate))
}

// DecimalEnumerator renders keyspace positions as base-10 strings
type DecimalEnumerator struct{}

var _ secondary.Enumerator = DecimalEnumerator{}

func (DecimalEnumerator) AppendCandidate(dst []byte, n int64) []byte {
	return strconv.AppendInt(dst, n, 10)
}
