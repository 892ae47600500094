package crypta

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

func TestHashBytes(t *testing.T) {
	// FIPS 180 example digests for "abc".
	sha1Want, _ := hex.DecodeString("a9993e364706816aba3e25717850c26c9cd0d89d")
	sha256Want, _ := hex.DecodeString("ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad")

	got, err := HashBytes(HashSHA1, []byte("abc"))
	if err != nil {
		t.Fatalf("HashBytes(SHA1) failed: %v", err)
	}
	if !bytes.Equal(got, sha1Want) {
		t.Errorf("SHA-1(abc) = %x, want %x", got, sha1Want)
	}

	got, err = HashBytes(HashSHA256, []byte("abc"))
	if err != nil {
		t.Fatalf("HashBytes(SHA256) failed: %v", err)
	}
	if !bytes.Equal(got, sha256Want) {
		t.Errorf("SHA-256(abc) = %x, want %x", got, sha256Want)
	}
}

func TestHashBytes_MultiPart(t *testing.T) {
	joined, err := HashBytes(HashSHA256, []byte("ab"), []byte("c"))
	if err != nil {
		t.Fatalf("HashBytes failed: %v", err)
	}
	whole, err := HashBytes(HashSHA256, []byte("abc"))
	if err != nil {
		t.Fatalf("HashBytes failed: %v", err)
	}
	if !bytes.Equal(joined, whole) {
		t.Error("split input hashed differently from whole input")
	}

	direct := sha256Of([]byte("ab"), []byte("c"))
	if !bytes.Equal(direct[:], whole) {
		t.Error("sha256Of disagrees with HashBytes")
	}
}

func TestNewHash(t *testing.T) {
	h, err := NewHash(HashSHA1)
	if err != nil {
		t.Fatalf("NewHash(SHA1) failed: %v", err)
	}
	if h.Size() != 20 {
		t.Errorf("SHA-1 size %d, want 20", h.Size())
	}

	h, err = NewHash(HashSHA256)
	if err != nil {
		t.Fatalf("NewHash(SHA256) failed: %v", err)
	}
	if h.Size() != 32 {
		t.Errorf("SHA-256 size %d, want 32", h.Size())
	}

	if _, err := NewHash(HashAlgorithm(200)); !errors.Is(err, ErrUnknownHashAlgorithm) {
		t.Errorf("unknown algorithm: got %v, want ErrUnknownHashAlgorithm", err)
	}
}
