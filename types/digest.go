package types

// Checksum algorithm used to produce digests. Changing the algorithm
// invalidates all previously recorded digests, that is why the store
// format header is tagged with this value - a mismatch must be detected
// loudly instead of producing silent lookup misses.
const (
	SumAlg = `sha256`

	// Length of the digest in the textual (hexadecimal) form
	DigestStrLen = 64
)

// Stub to fill the digest field when calculation failed
const DigestErrStub = `----------------------------------------------------------------`

//
// Digest - fixed-size fingerprint of a file content, represented
// as a lowercase hexadecimal SHA-256 sum. Digests are compared as strings.
//
type Digest string

func (d Digest) String() string {
	return string(d)
}

// Valid returns true if d has the correct length and consists
// only of lowercase hexadecimal characters
func (d Digest) Valid() bool {
	if len(d) != DigestStrLen {
		return false
	}

	for _, c := range d {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}

	return true
}
