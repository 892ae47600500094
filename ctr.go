package crypta

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// Counter mode over the standard AES-256 block primitive. The 16-byte IV is
// the initial counter value; the counter increments as a big-endian 128-bit
// integer after each keystream block, wrapping at 2^128. Encryption and
// decryption are the same XOR against the keystream.

const aesBlockSize = aes.BlockSize

// CTRCipher is the SymmetricCipher for AlgoAESCTR256SHA256. The underlying
// AES key schedule is immutable and shared by all streams it creates.
type CTRCipher struct {
	block cipher.Block
}

// NewCTRCipher builds a CTR cipher over AES-256 keyed with the given 32-byte
// key.
func NewCTRCipher(key []byte) (*CTRCipher, error) {
	if len(key) != SharedKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeySize, len(key), SharedKeySize)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypta: AES key schedule failed: %w", err)
	}
	return &CTRCipher{block: block}, nil
}

// IVSize returns 16, the AES block length.
func (c *CTRCipher) IVSize() int { return aesBlockSize }

// Encrypt is the one-shot form: equivalent to a fresh Encryptor consuming
// data in a single Update.
func (c *CTRCipher) Encrypt(iv, data []byte) ([]byte, error) {
	s, err := c.Encryptor(iv)
	if err != nil {
		return nil, err
	}
	return s.Update(data), nil
}

// Decrypt is identical to Encrypt in CTR mode; both are provided to satisfy
// the SymmetricCipher capability.
func (c *CTRCipher) Decrypt(iv, data []byte) ([]byte, error) {
	return c.Encrypt(iv, data)
}

// Encryptor returns an independent stream with its own counter state.
func (c *CTRCipher) Encryptor(iv []byte) (CipherStream, error) {
	return newCTRStream(c.block, iv)
}

// Decryptor returns an independent stream with its own counter state.
func (c *CTRCipher) Decryptor(iv []byte) (CipherStream, error) {
	return newCTRStream(c.block, iv)
}

// CTRStream is the mutable per-stream state: the counter, the buffered
// keystream block, and the byte cursor into it. Not safe for concurrent use.
type CTRStream struct {
	block   cipher.Block
	counter [aesBlockSize]byte
	buffer  [aesBlockSize]byte
	ptr     int
}

func newCTRStream(block cipher.Block, iv []byte) (*CTRStream, error) {
	if len(iv) != aesBlockSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d for CTR", ErrInvalidIVSize, len(iv), aesBlockSize)
	}
	s := &CTRStream{block: block}
	copy(s.counter[:], iv)
	s.ptr = aesBlockSize // force a refill on first use
	return s, nil
}

// refillBuffer encrypts the current counter and advances it.
func (s *CTRStream) refillBuffer() {
	s.block.Encrypt(s.buffer[:], s.counter[:])
	for i := aesBlockSize - 1; i >= 0; i-- {
		s.counter[i]++
		if s.counter[i] != 0 {
			break
		}
		// carry propagates; wraps to zero past 2^128
	}
	s.ptr = 0
}

// Update transforms the next chunk of the stream.
func (s *CTRStream) Update(p []byte) []byte {
	out := make([]byte, len(p))
	for i, b := range p {
		if s.ptr == aesBlockSize {
			s.refillBuffer()
		}
		out[i] = b ^ s.buffer[s.ptr]
		s.ptr++
	}
	return out
}

// UpdateRange transforms p[off:off+length] with bounds checking.
func (s *CTRStream) UpdateRange(p []byte, off, length int) ([]byte, error) {
	if err := checkUpdateRange(p, off, length); err != nil {
		return nil, err
	}
	return s.Update(p[off : off+length]), nil
}
