package crypta

import (
	"crypto/sha1"
	"crypto/sha256"
	"fmt"
	"hash"
)

// HashAlgorithm identifies one of the digest primitives the key-derivation
// rules are defined in terms of. The actual digest computation comes from the
// platform crypto library.
type HashAlgorithm uint8

const (
	HashSHA1 HashAlgorithm = iota + 1
	HashSHA256
)

func (a HashAlgorithm) String() string {
	switch a {
	case HashSHA1:
		return "SHA1"
	case HashSHA256:
		return "SHA256"
	default:
		return fmt.Sprintf("HashAlgorithm(%d)", uint8(a))
	}
}

// NewHash returns an incremental digest for the given algorithm.
func NewHash(alg HashAlgorithm) (hash.Hash, error) {
	switch alg {
	case HashSHA1:
		return sha1.New(), nil
	case HashSHA256:
		return sha256.New(), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownHashAlgorithm, alg)
	}
}

// HashBytes computes the one-shot digest of the concatenation of parts.
func HashBytes(alg HashAlgorithm, parts ...[]byte) ([]byte, error) {
	h, err := NewHash(alg)
	if err != nil {
		return nil, err
	}
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil), nil
}

// sha256Of is the concatenating SHA-256 used throughout key derivation.
func sha256Of(parts ...[]byte) [32]byte {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	var out [32]byte
	h.Sum(out[:0])
	return out
}
