package crypta

import "fmt"

// CipherStream is one direction of a stateful stream cipher. Instances are
// sequential: each logical stream must own exactly one and never share it
// across goroutines.
type CipherStream interface {
	// Update transforms the next chunk of the stream and returns the output
	// in a fresh slice. Any chunking produces the same concatenated output.
	Update(p []byte) []byte

	// UpdateRange transforms p[off:off+length]. Offsets outside p are
	// programmer errors and are rejected.
	UpdateRange(p []byte, off, length int) ([]byte, error)
}

// SymmetricCipher is the uniform capability the outer layers consume to
// encrypt and decrypt payloads. One-shot calls and fresh streams may be made
// concurrently; the key material behind the cipher is immutable.
type SymmetricCipher interface {
	Encrypt(iv, data []byte) ([]byte, error)
	Decrypt(iv, data []byte) ([]byte, error)
	Encryptor(iv []byte) (CipherStream, error)
	Decryptor(iv []byte) (CipherStream, error)

	// IVSize returns the initialization-vector length the mode expects.
	IVSize() int
}

// NewSymmetricCipher builds the stream cipher selected by the algorithm tag:
// PCFB over Rijndael-256 for AlgoAESPCFB256SHA256, CTR over AES-256 for
// AlgoAESCTR256SHA256. The key must be 32 bytes in both cases.
func NewSymmetricCipher(algo CryptoAlgorithm, key []byte) (SymmetricCipher, error) {
	switch algo {
	case AlgoAESPCFB256SHA256:
		return NewPCFBCipher(key)
	case AlgoAESCTR256SHA256:
		return NewCTRCipher(key)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCryptoAlgorithm, algo)
	}
}

// checkUpdateRange validates an UpdateRange request against the buffer.
func checkUpdateRange(p []byte, off, length int) error {
	if off < 0 || length < 0 || off+length > len(p) {
		return fmt.Errorf("%w: off=%d len=%d buf=%d", ErrUpdateOutOfRange, off, length, len(p))
	}
	return nil
}
