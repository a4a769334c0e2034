package secondary

// Digester is the one-way oracle candidates are tested against.
type Digester interface {
	// Name is the algorithm identifier, e.g. "md5".
	Name() string
	// Digest returns the lowercase hex digest of candidate.
	Digest(candidate []byte) string
	// Size is the length of the hex digest in characters.
	Size() int
}

// Enumerator turns a position in the keyspace into a candidate.
type Enumerator interface {
	// AppendCandidate appends the candidate for n to dst and returns the extended slice.
	AppendCandidate(dst []byte, n int64) []byte
}
