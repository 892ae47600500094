package crypta

import (
	"crypto/rand"
	"crypto/sha1"
	"fmt"
	"io"
	"math/big"
)

var bigOne = big.NewInt(1)

// DSAPublicKey is a verification key: y = g^x mod p for some private x.
type DSAPublicKey struct {
	y     *big.Int
	group *DSAGroup
}

// NewDSAPublicKey validates 0 < y < p and builds the key.
func NewDSAPublicKey(y *big.Int, group *DSAGroup) (*DSAPublicKey, error) {
	if group == nil {
		group = DefaultDSAGroup()
	}
	if y == nil || y.Sign() <= 0 || y.Cmp(group.p) >= 0 {
		return nil, fmt.Errorf("%w: y must lie in (0, p)", ErrKeyOutOfRange)
	}
	return &DSAPublicKey{y: new(big.Int).Set(y), group: group}, nil
}

// Y returns the public value.
func (pub *DSAPublicKey) Y() *big.Int { return new(big.Int).Set(pub.y) }

// Group returns the domain parameters.
func (pub *DSAPublicKey) Group() *DSAGroup { return pub.group }

// WriteToStream writes the key's self-describing form: the group's MPIs
// followed by MPI(y).
func (pub *DSAPublicKey) WriteToStream(s *Stream) error {
	if err := pub.group.WriteToStream(s); err != nil {
		return err
	}
	if err := s.WriteMPI(pub.y); err != nil {
		return fmt.Errorf("failed to write public value: %w", err)
	}
	return nil
}

// DSAPublicKeyFromStream reads a key written by WriteToStream.
func DSAPublicKeyFromStream(s *Stream) (*DSAPublicKey, error) {
	group, err := DSAGroupFromStream(s)
	if err != nil {
		return nil, err
	}
	y, err := s.ReadMPI()
	if err != nil {
		return nil, fmt.Errorf("failed to read public value: %w", err)
	}
	return NewDSAPublicKey(y, group)
}

// Bytes returns the self-describing serialization. Routing keys for signed
// subspaces are the SHA-256 of exactly these bytes.
func (pub *DSAPublicKey) Bytes() []byte {
	s := NewStream(make([]byte, 0, 512))
	// Writing MPIs to a memory buffer cannot fail.
	if err := pub.WriteToStream(s); err != nil {
		panic("crypta: public key serialization failed: " + err.Error())
	}
	return s.Buffer.Bytes()
}

// DSAPrivateKey is a signing key: the secret exponent x.
type DSAPrivateKey struct {
	x     *big.Int
	group *DSAGroup
}

// NewDSAPrivateKey validates 0 < x < q and builds the key.
func NewDSAPrivateKey(x *big.Int, group *DSAGroup) (*DSAPrivateKey, error) {
	if group == nil {
		group = DefaultDSAGroup()
	}
	if x == nil || x.Sign() <= 0 || x.Cmp(group.q) >= 0 {
		return nil, fmt.Errorf("%w: x must lie in (0, q)", ErrKeyOutOfRange)
	}
	return &DSAPrivateKey{x: new(big.Int).Set(x), group: group}, nil
}

// X returns the secret exponent.
func (priv *DSAPrivateKey) X() *big.Int { return new(big.Int).Set(priv.x) }

// Group returns the domain parameters.
func (priv *DSAPrivateKey) Group() *DSAGroup { return priv.group }

// PublicKey derives the matching verification key, y = g^x mod p.
func (priv *DSAPrivateKey) PublicKey() *DSAPublicKey {
	y := modExp(priv.group.g, priv.x, priv.group.p)
	return &DSAPublicKey{y: y, group: priv.group}
}

// Bytes returns MPI(x); the group is carried separately (URIs imply the
// default group).
func (priv *DSAPrivateKey) Bytes() []byte {
	enc, err := EncodeMPI(priv.x)
	if err != nil {
		panic("crypta: private key serialization failed: " + err.Error())
	}
	return enc
}

// GenerateDSAKeyPair draws x uniformly from [1, q-1] and derives y.
// randSource defaults to crypto/rand.
func GenerateDSAKeyPair(group *DSAGroup, randSource io.Reader) (*DSAPublicKey, *DSAPrivateKey, error) {
	if group == nil {
		group = DefaultDSAGroup()
	}
	if randSource == nil {
		randSource = rand.Reader
	}
	x, err := randomInGroupOrder(group, randSource)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate DSA key pair: %w", err)
	}
	priv := &DSAPrivateKey{x: x, group: group}
	return priv.PublicKey(), priv, nil
}

// randomInGroupOrder draws a uniform integer in [1, q-1].
func randomInGroupOrder(group *DSAGroup, randSource io.Reader) (*big.Int, error) {
	max := new(big.Int).Sub(group.q, bigOne)
	n, err := rand.Int(randSource, max)
	if err != nil {
		return nil, err
	}
	return n.Add(n, bigOne), nil
}

// DSASignature is an (r, s) pair with both components in (0, q).
type DSASignature struct {
	r, s *big.Int
}

// NewDSASignature validates the component ranges against the group order.
func NewDSASignature(r, s *big.Int, group *DSAGroup) (*DSASignature, error) {
	if group == nil {
		group = DefaultDSAGroup()
	}
	if r == nil || s == nil || r.Sign() <= 0 || s.Sign() <= 0 ||
		r.Cmp(group.q) >= 0 || s.Cmp(group.q) >= 0 {
		return nil, fmt.Errorf("%w: signature components must lie in (0, q)", ErrKeyOutOfRange)
	}
	return &DSASignature{r: new(big.Int).Set(r), s: new(big.Int).Set(s)}, nil
}

// R returns the first signature component.
func (sig *DSASignature) R() *big.Int { return new(big.Int).Set(sig.r) }

// S returns the second signature component.
func (sig *DSASignature) S() *big.Int { return new(big.Int).Set(sig.s) }

// Bytes returns MPI(r) followed by MPI(s).
func (sig *DSASignature) Bytes() []byte {
	s := NewStream(make([]byte, 0, 64))
	if err := s.WriteMPI(sig.r); err != nil {
		panic("crypta: signature serialization failed: " + err.Error())
	}
	if err := s.WriteMPI(sig.s); err != nil {
		panic("crypta: signature serialization failed: " + err.Error())
	}
	return s.Buffer.Bytes()
}

// ParseDSASignature reads MPI(r) MPI(s) and validates the ranges.
func ParseDSASignature(b []byte, group *DSAGroup) (*DSASignature, error) {
	r, off, err := DecodeMPI(b, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to read signature r: %w", err)
	}
	s, _, err := DecodeMPI(b, off)
	if err != nil {
		return nil, fmt.Errorf("failed to read signature s: %w", err)
	}
	return NewDSASignature(r, s, group)
}

// Sign produces a DSA signature over SHA-1(message) with a random nonce.
func Sign(priv *DSAPrivateKey, message []byte, randSource io.Reader) (*DSASignature, error) {
	return SignWithNonce(priv, message, nil, randSource)
}

// SignWithNonce signs with a caller-supplied nonce k in [1, q-1]. When k is
// nil a random nonce is drawn. If the nonce yields r = 0 or s = 0 the
// signature retries with a fresh random nonce, even when k was supplied
// deterministically; callers relying on strict determinism should note that
// this astronomically rare case breaks it.
func SignWithNonce(priv *DSAPrivateKey, message []byte, k *big.Int, randSource io.Reader) (*DSASignature, error) {
	if priv == nil {
		return nil, fmt.Errorf("crypta: private key must be non-nil")
	}
	if randSource == nil {
		randSource = rand.Reader
	}
	grp := priv.group
	if k != nil && (k.Sign() <= 0 || k.Cmp(grp.q) >= 0) {
		return nil, fmt.Errorf("%w: nonce must lie in (0, q)", ErrKeyOutOfRange)
	}

	digest := sha1.Sum(message)
	h := new(big.Int).SetBytes(digest[:])

	for {
		var err error
		nonce := k
		if nonce == nil {
			nonce, err = randomInGroupOrder(grp, randSource)
			if err != nil {
				return nil, fmt.Errorf("failed to draw signing nonce: %w", err)
			}
		}
		// r = (g^k mod p) mod q
		r := modExp(grp.g, nonce, grp.p)
		r.Mod(r, grp.q)
		if r.Sign() == 0 {
			k = nil // retry with a fresh random nonce
			continue
		}
		// s = k^-1 (h + x r) mod q
		kInv := new(big.Int).ModInverse(nonce, grp.q)
		if kInv == nil {
			k = nil
			continue
		}
		s := new(big.Int).Mul(priv.x, r)
		s.Add(s, h)
		s.Mul(s, kInv)
		s.Mod(s, grp.q)
		if s.Sign() == 0 {
			k = nil
			continue
		}
		return &DSASignature{r: r, s: s}, nil
	}
}

// Verify checks sig over SHA-1(message) against pub. Components outside
// (0, q) are rejected without any computation.
func Verify(pub *DSAPublicKey, message []byte, sig *DSASignature) bool {
	if pub == nil || sig == nil {
		return false
	}
	grp := pub.group
	if sig.r.Sign() <= 0 || sig.r.Cmp(grp.q) >= 0 ||
		sig.s.Sign() <= 0 || sig.s.Cmp(grp.q) >= 0 {
		return false
	}

	digest := sha1.Sum(message)
	h := new(big.Int).SetBytes(digest[:])

	w := new(big.Int).ModInverse(sig.s, grp.q)
	if w == nil {
		return false
	}
	u1 := new(big.Int).Mul(h, w)
	u1.Mod(u1, grp.q)
	u2 := new(big.Int).Mul(sig.r, w)
	u2.Mod(u2, grp.q)

	v := modExp(grp.g, u1, grp.p)
	v.Mul(v, modExp(pub.y, u2, grp.p))
	v.Mod(v, grp.p)
	v.Mod(v, grp.q)
	return v.Cmp(sig.r) == 0
}

// modExp computes base^exp mod m by right-to-left square-and-multiply.
// No timing guarantees; the values here are not long-term secrets beyond
// what the surrounding protocol already exposes.
func modExp(base, exp, m *big.Int) *big.Int {
	result := big.NewInt(1)
	b := new(big.Int).Mod(base, m)
	for i := 0; i < exp.BitLen(); i++ {
		if exp.Bit(i) == 1 {
			result.Mul(result, b)
			result.Mod(result, m)
		}
		b.Mul(b, b)
		b.Mod(b, m)
	}
	return result
}
