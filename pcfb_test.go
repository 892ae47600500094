package crypta

import (
	"bytes"
	"errors"
	"testing"
)

func pcfbFixture(t *testing.T) (*PCFBCipher, []byte, []byte) {
	t.Helper()
	key := make([]byte, RijndaelKeySize)
	iv := make([]byte, RijndaelBlockSize)
	for i := range key {
		key[i] = byte(i + 1)
		iv[i] = byte(0xA0 ^ i)
	}
	c, err := NewPCFBCipher(key)
	if err != nil {
		t.Fatalf("NewPCFBCipher failed: %v", err)
	}
	return c, key, iv
}

func TestPCFB_RoundTrip(t *testing.T) {
	c, _, iv := pcfbFixture(t)

	for _, n := range []int{0, 1, 31, 32, 33, 100, 257} {
		plain := make([]byte, n)
		for i := range plain {
			plain[i] = byte(i * 13)
		}
		enc, err := c.Encrypt(iv, plain)
		if err != nil {
			t.Fatalf("Encrypt(%d bytes) failed: %v", n, err)
		}
		if n > 0 && bytes.Equal(enc, plain) {
			t.Errorf("%d bytes: ciphertext equals plaintext", n)
		}
		dec, err := c.Decrypt(iv, enc)
		if err != nil {
			t.Fatalf("Decrypt(%d bytes) failed: %v", n, err)
		}
		if !bytes.Equal(dec, plain) {
			t.Errorf("%d bytes: round trip mismatch", n)
		}
	}
}

func TestPCFB_StreamingEquivalence(t *testing.T) {
	c, _, iv := pcfbFixture(t)
	plain := make([]byte, 200)
	for i := range plain {
		plain[i] = byte(i)
	}
	oneShot, err := c.Encrypt(iv, plain)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	t.Run("Encryptor", func(t *testing.T) {
		for _, chunk := range []int{1, 7, 31, 32, 33, 200} {
			s, err := c.Encryptor(iv)
			if err != nil {
				t.Fatalf("Encryptor failed: %v", err)
			}
			var got []byte
			for off := 0; off < len(plain); off += chunk {
				end := off + chunk
				if end > len(plain) {
					end = len(plain)
				}
				got = append(got, s.Update(plain[off:end])...)
			}
			if !bytes.Equal(got, oneShot) {
				t.Errorf("chunk size %d: streaming encrypt differs from one-shot", chunk)
			}
		}
	})

	t.Run("Decryptor", func(t *testing.T) {
		for _, chunk := range []int{1, 13, 32, 200} {
			s, err := c.Decryptor(iv)
			if err != nil {
				t.Fatalf("Decryptor failed: %v", err)
			}
			var got []byte
			for off := 0; off < len(oneShot); off += chunk {
				end := off + chunk
				if end > len(oneShot) {
					end = len(oneShot)
				}
				got = append(got, s.Update(oneShot[off:end])...)
			}
			if !bytes.Equal(got, plain) {
				t.Errorf("chunk size %d: streaming decrypt differs from plaintext", chunk)
			}
		}
	})
}

func TestPCFB_FeedbackPropagates(t *testing.T) {
	// Flipping one ciphertext byte must corrupt the rest of the stream on
	// decrypt, not just the matching block.
	c, _, iv := pcfbFixture(t)
	plain := make([]byte, 96)
	enc, err := c.Encrypt(iv, plain)
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	enc[0] ^= 0x01
	dec, err := c.Decrypt(iv, enc)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if bytes.Equal(dec[32:64], plain[32:64]) {
		t.Error("second block unaffected by first-block tampering")
	}
}

func TestPCFB_Reset(t *testing.T) {
	c, _, iv := pcfbFixture(t)
	plain := []byte("the same stream twice over")

	s, err := c.Encryptor(iv)
	if err != nil {
		t.Fatalf("Encryptor failed: %v", err)
	}
	first := s.Update(plain)
	pcfb := s.(*PCFBStream)
	if err := pcfb.Reset(iv); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	second := pcfb.Update(plain)
	if !bytes.Equal(first, second) {
		t.Error("reset stream did not reproduce the original output")
	}
}

func TestPCFB_Validation(t *testing.T) {
	c, _, _ := pcfbFixture(t)
	if _, err := c.Encrypt(make([]byte, 16), nil); !errors.Is(err, ErrInvalidIVSize) {
		t.Errorf("16-byte IV: got %v, want ErrInvalidIVSize", err)
	}
	if _, err := NewPCFBCipher(make([]byte, 31)); !errors.Is(err, ErrInvalidKeySize) {
		t.Errorf("31-byte key: got %v, want ErrInvalidKeySize", err)
	}
}

func TestNewSymmetricCipher(t *testing.T) {
	key := make([]byte, SharedKeySize)

	c, err := NewSymmetricCipher(AlgoAESPCFB256SHA256, key)
	if err != nil {
		t.Fatalf("PCFB construction failed: %v", err)
	}
	if c.IVSize() != RijndaelBlockSize {
		t.Errorf("PCFB IVSize = %d, want %d", c.IVSize(), RijndaelBlockSize)
	}

	c, err = NewSymmetricCipher(AlgoAESCTR256SHA256, key)
	if err != nil {
		t.Fatalf("CTR construction failed: %v", err)
	}
	if c.IVSize() != aesBlockSize {
		t.Errorf("CTR IVSize = %d, want %d", c.IVSize(), aesBlockSize)
	}

	if _, err := NewSymmetricCipher(CryptoAlgorithm(9), key); !errors.Is(err, ErrUnknownCryptoAlgorithm) {
		t.Errorf("unknown algorithm: got %v, want ErrUnknownCryptoAlgorithm", err)
	}
}
