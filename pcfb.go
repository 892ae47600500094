package crypta

import "fmt"

// Propagating Cipher Feedback over Rijndael-256.
//
// A 32-byte feedback register starts as the IV. Each keystream block is the
// block encryption of the register; output bytes are plaintext XOR keystream,
// and every ciphertext byte is folded back into the register in place, so the
// register always holds the most recent 32 ciphertext bytes once a full block
// has passed. Encrypt and decrypt differ only in which side of the XOR is fed
// back.

// PCFBCipher is the SymmetricCipher for AlgoAESPCFB256SHA256. It holds one
// immutable Rijndael-256 schedule shared by all streams it creates.
type PCFBCipher struct {
	engine *Rijndael256
}

// NewPCFBCipher builds a PCFB cipher over Rijndael-256 keyed with the given
// 32-byte key.
func NewPCFBCipher(key []byte) (*PCFBCipher, error) {
	engine, err := NewRijndael256(key)
	if err != nil {
		return nil, err
	}
	return &PCFBCipher{engine: engine}, nil
}

// IVSize returns 32, the Rijndael-256 block length.
func (c *PCFBCipher) IVSize() int { return RijndaelBlockSize }

// Encrypt is the one-shot form: equivalent to a fresh Encryptor consuming
// data in a single Update.
func (c *PCFBCipher) Encrypt(iv, data []byte) ([]byte, error) {
	s, err := c.Encryptor(iv)
	if err != nil {
		return nil, err
	}
	return s.Update(data), nil
}

// Decrypt is the one-shot inverse of Encrypt.
func (c *PCFBCipher) Decrypt(iv, data []byte) ([]byte, error) {
	s, err := c.Decryptor(iv)
	if err != nil {
		return nil, err
	}
	return s.Update(data), nil
}

// Encryptor returns an independent encryption stream starting from iv.
func (c *PCFBCipher) Encryptor(iv []byte) (CipherStream, error) {
	return newPCFBStream(c.engine, iv, true)
}

// Decryptor returns an independent decryption stream starting from iv.
func (c *PCFBCipher) Decryptor(iv []byte) (CipherStream, error) {
	return newPCFBStream(c.engine, iv, false)
}

// PCFBStream is the mutable per-stream state: feedback register, the
// buffered keystream block, and the byte cursor into it. Not safe for
// concurrent use.
type PCFBStream struct {
	engine   *Rijndael256
	register [RijndaelBlockSize]byte
	buffer   [RijndaelBlockSize]byte
	ptr      int
	encrypt  bool
}

func newPCFBStream(engine *Rijndael256, iv []byte, encrypt bool) (*PCFBStream, error) {
	s := &PCFBStream{engine: engine, encrypt: encrypt}
	if err := s.Reset(iv); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset re-initializes the stream for a new logical stream starting from iv.
// It must be called before reusing a stream object; a fresh stream instance
// is required for each concurrent stream.
func (s *PCFBStream) Reset(iv []byte) error {
	if len(iv) != RijndaelBlockSize {
		return fmt.Errorf("%w: got %d bytes, want %d for PCFB", ErrInvalidIVSize, len(iv), RijndaelBlockSize)
	}
	copy(s.register[:], iv)
	s.ptr = RijndaelBlockSize // force a refill on first use
	return nil
}

// refillBuffer re-encrypts the feedback register to produce the next
// keystream block. The engine never fails on a full internal block.
func (s *PCFBStream) refillBuffer() {
	ks, err := s.engine.EncryptBlock(s.register[:])
	if err != nil {
		panic("crypta: internal PCFB block size mismatch: " + err.Error())
	}
	copy(s.buffer[:], ks)
	s.ptr = 0
}

// Update transforms the next chunk of the stream.
func (s *PCFBStream) Update(p []byte) []byte {
	out := make([]byte, len(p))
	for i, b := range p {
		if s.ptr == RijndaelBlockSize {
			s.refillBuffer()
		}
		x := b ^ s.buffer[s.ptr]
		out[i] = x
		if s.encrypt {
			s.register[s.ptr] = x // feed back ciphertext we produced
		} else {
			s.register[s.ptr] = b // feed back ciphertext we consumed
		}
		s.ptr++
	}
	return out
}

// UpdateRange transforms p[off:off+length] with bounds checking.
func (s *PCFBStream) UpdateRange(p []byte, off, length int) ([]byte, error) {
	if err := checkUpdateRange(p, off, length); err != nil {
		return nil, err
	}
	return s.Update(p[off : off+length]), nil
}
