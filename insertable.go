package crypta

import (
	"crypto/rand"
	"fmt"
	"io"
	"strconv"
)

// Insertable keys add the subspace private key, letting the holder sign new
// content into the subspace. The insert URI carries MPI(x) in the
// routing-key slot with the insertable flag set in the extra block; the
// matching request URI carries the public routing key instead.

// InsertableClientSSK is a ClientSSK the holder can insert under.
type InsertableClientSSK struct {
	ClientSSK
	privKey *DSAPrivateKey
}

// NewInsertableClientSSK derives the public key and routing key from the
// private key and builds the full client key.
func NewInsertableClientSSK(docName string, sharedKey []byte, privKey *DSAPrivateKey,
	algo CryptoAlgorithm) (*InsertableClientSSK, error) {
	if privKey == nil {
		return nil, fmt.Errorf("crypta: insertable SSK requires a private key")
	}
	pub := privKey.PublicKey()
	routingKey := sha256Of(pub.Bytes())
	ssk, err := NewClientSSK(docName, routingKey[:], sharedKey, algo, pub)
	if err != nil {
		return nil, err
	}
	return &InsertableClientSSK{ClientSSK: *ssk, privKey: privKey}, nil
}

// GenerateInsertableClientSSK creates a fresh subspace: a random DSA key
// pair and a random shared key. randSource defaults to crypto/rand.
func GenerateInsertableClientSSK(docName string, algo CryptoAlgorithm, randSource io.Reader) (*InsertableClientSSK, error) {
	if randSource == nil {
		randSource = rand.Reader
	}
	_, priv, err := GenerateDSAKeyPair(DefaultDSAGroup(), randSource)
	if err != nil {
		return nil, err
	}
	sharedKey := make([]byte, SharedKeySize)
	if _, err := io.ReadFull(randSource, sharedKey); err != nil {
		return nil, fmt.Errorf("failed to draw shared key: %w", err)
	}
	return NewInsertableClientSSK(docName, sharedKey, priv, algo)
}

// InsertableClientSSKFromURI rebuilds the key pair from an SSK insert URI.
func InsertableClientSSKFromURI(u *URI) (*InsertableClientSSK, error) {
	if u.KeyType() != KeyTypeSSK {
		return nil, fmt.Errorf("%w: expected SSK, got %s", ErrUnknownKeyType, u.KeyType())
	}
	if !u.HasKeys() {
		return nil, ErrMissingKeys
	}
	algo, insertable, err := parseSSKExtra(u.Extra())
	if err != nil {
		return nil, err
	}
	if !insertable {
		return nil, ErrNotInsertable
	}
	metas := u.MetaStrings()
	if len(metas) == 0 {
		return nil, fmt.Errorf("%w: SSK URI has no document name", ErrMalformedURI)
	}
	priv, err := privateKeyFromURIBytes(u.RoutingKey())
	if err != nil {
		return nil, err
	}
	return NewInsertableClientSSK(metas[0], u.SharedKey(), priv, algo)
}

// privateKeyFromURIBytes decodes MPI(x) from the routing-key slot of an
// insert URI; the group is implied to be the default.
func privateKeyFromURIBytes(b []byte) (*DSAPrivateKey, error) {
	x, _, err := DecodeMPI(b, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}
	return NewDSAPrivateKey(x, DefaultDSAGroup())
}

// PrivateKey returns the subspace private key.
func (k *InsertableClientSSK) PrivateKey() *DSAPrivateKey { return k.privKey }

// InsertURI returns the insert text-form components: MPI(x) in the
// routing-key slot and the insertable flag set.
func (k *InsertableClientSSK) InsertURI() *URI {
	u, err := NewURI(KeyTypeSSK, k.privKey.Bytes(), k.SharedKey(),
		sskExtraBytes(k.CryptoAlgorithm(), true), []string{k.DocName()})
	if err != nil {
		panic("crypta: validated insertable SSK failed URI build: " + err.Error())
	}
	return u
}

// SignBlock signs data for insertion and returns MPI(r) MPI(s).
func (k *InsertableClientSSK) SignBlock(data []byte, randSource io.Reader) ([]byte, error) {
	sig, err := Sign(k.privKey, data, randSource)
	if err != nil {
		return nil, fmt.Errorf("signing failed: %w", err)
	}
	return sig.Bytes(), nil
}

// InsertableUSK is a USK the holder can insert new editions under.
type InsertableUSK struct {
	InsertableClientSSK
	suggestedEdition int64
}

// NewInsertableUSK wraps an insertable SSK with a non-negative edition.
func NewInsertableUSK(ssk *InsertableClientSSK, suggestedEdition int64) (*InsertableUSK, error) {
	if ssk == nil {
		return nil, fmt.Errorf("crypta: insertable USK requires an underlying key")
	}
	if suggestedEdition < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeEdition, suggestedEdition)
	}
	return &InsertableUSK{InsertableClientSSK: *ssk, suggestedEdition: suggestedEdition}, nil
}

// InsertableUSKFromURI consumes (docName, edition) meta strings from a USK
// insert URI and rebuilds the key pair.
func InsertableUSKFromURI(u *URI) (*InsertableUSK, error) {
	if u.KeyType() != KeyTypeUSK {
		return nil, fmt.Errorf("%w: expected USK, got %s", ErrUnknownKeyType, u.KeyType())
	}
	docName, edition, err := uskMetaComponents(u)
	if err != nil {
		return nil, err
	}
	sskURI, err := NewURI(KeyTypeSSK, u.RoutingKey(), u.SharedKey(), u.Extra(), []string{docName})
	if err != nil {
		return nil, err
	}
	ssk, err := InsertableClientSSKFromURI(sskURI)
	if err != nil {
		return nil, err
	}
	return NewInsertableUSK(ssk, edition)
}

// SuggestedEdition returns the non-negative edition hint.
func (k *InsertableUSK) SuggestedEdition() int64 { return k.suggestedEdition }

// USK returns the fetch-side projection of this key.
func (k *InsertableUSK) USK() *USK {
	usk, err := NewUSK(&k.ClientSSK, k.suggestedEdition)
	if err != nil {
		panic("crypta: validated insertable USK failed projection: " + err.Error())
	}
	return usk
}

// EditionSSK projects onto the insertable SSK storing the given edition.
func (k *InsertableUSK) EditionSSK(edition int64) (*InsertableClientSSK, error) {
	if edition < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeEdition, edition)
	}
	name := fmt.Sprintf("%s-%d", k.DocName(), edition)
	return NewInsertableClientSSK(name, k.SharedKey(), k.privKey, k.CryptoAlgorithm())
}

// InsertURI returns the USK insert text-form components.
func (k *InsertableUSK) InsertURI() *URI {
	u, err := NewURI(KeyTypeUSK, k.privKey.Bytes(), k.SharedKey(),
		sskExtraBytes(k.CryptoAlgorithm(), true),
		[]string{k.DocName(), strconv.FormatInt(k.suggestedEdition, 10)})
	if err != nil {
		panic("crypta: validated insertable USK failed URI build: " + err.Error())
	}
	return u
}
