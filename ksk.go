package crypta

import (
	"crypto/sha256"
	"fmt"
	"io"
	"math/big"
	"strings"

	"golang.org/x/crypto/hkdf"
)

// KSK is a keyword-signed key: an insertable SSK whose entire key material
// is derived deterministically from a human-readable keyword, so anyone who
// knows the keyword can both fetch and insert under it.
//
// Derivation: seed = SHA-256(keyword); the shared key is the seed itself and
// the DSA private exponent comes from HKDF-SHA256 expansion of the seed,
// reduced into [1, q-1].
type KSK struct {
	InsertableClientSSK
	keyword string
}

var kskExponentInfo = []byte("ksk-dsa-exponent")

// NewKSK derives the key pair for a keyword. The keyword must be non-empty
// and free of '/' (it is the docName of the underlying SSK).
func NewKSK(keyword string) (*KSK, error) {
	if keyword == "" {
		return nil, fmt.Errorf("%w: empty keyword", ErrMalformedURI)
	}
	if strings.Contains(keyword, "/") {
		return nil, fmt.Errorf("%w: keyword must not contain '/'", ErrMalformedURI)
	}
	seed := sha256.Sum256([]byte(keyword))
	priv, err := kskPrivateKey(seed)
	if err != nil {
		return nil, err
	}
	ssk, err := NewInsertableClientSSK(keyword, seed[:], priv, AlgoAESPCFB256SHA256)
	if err != nil {
		return nil, err
	}
	Debug("derived KSK key pair for keyword of %d bytes", len(keyword))
	return &KSK{InsertableClientSSK: *ssk, keyword: keyword}, nil
}

func kskPrivateKey(seed [32]byte) (*DSAPrivateKey, error) {
	group := DefaultDSAGroup()
	q := group.Q()
	// Expand enough bytes past the order size that the reduction bias is
	// negligible, then map into [1, q-1].
	buf := make([]byte, (q.BitLen()+7)/8+16)
	kdf := hkdf.New(sha256.New, seed[:], nil, kskExponentInfo)
	if _, err := io.ReadFull(kdf, buf); err != nil {
		return nil, fmt.Errorf("failed to derive keyword exponent: %w", err)
	}
	x := new(big.Int).SetBytes(buf)
	qMinusOne := new(big.Int).Sub(q, bigOne)
	x.Mod(x, qMinusOne)
	x.Add(x, bigOne)
	return NewDSAPrivateKey(x, group)
}

// KSKFromURI rebuilds a KSK from its text form, KSK@keyword.
func KSKFromURI(u *URI) (*KSK, error) {
	if u.KeyType() != KeyTypeKSK {
		return nil, fmt.Errorf("%w: expected KSK, got %s", ErrUnknownKeyType, u.KeyType())
	}
	metas := u.MetaStrings()
	if len(metas) == 0 || metas[0] == "" {
		return nil, fmt.Errorf("%w: KSK URI has no keyword", ErrMalformedURI)
	}
	return NewKSK(metas[0])
}

// Keyword returns the human-readable keyword.
func (k *KSK) Keyword() string { return k.keyword }

// URI returns the keyword text form. The derived keys never appear in it;
// the keyword alone reproduces them.
func (k *KSK) URI() *URI {
	u, err := NewURI(KeyTypeKSK, nil, nil, nil, []string{k.keyword})
	if err != nil {
		panic("crypta: validated KSK failed URI build: " + err.Error())
	}
	return u
}
