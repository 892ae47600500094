package crypta

import (
	"bytes"
	"fmt"
)

// Client keys are the fetchable/insertable projections: routing key plus the
// shared key that decrypts the content, and whatever metadata the URI form
// carries.

// ClientCHK is a fetchable content-hash key.
type ClientCHK struct {
	routingKey  [RoutingKeySize]byte
	sharedKey   [SharedKeySize]byte
	algo        CryptoAlgorithm
	control     bool
	compression CompressionAlgorithm
	metaStrings []string
}

// NewClientCHK validates all components and builds the key.
func NewClientCHK(routingKey, sharedKey []byte, algo CryptoAlgorithm, control bool,
	compression CompressionAlgorithm, metaStrings []string) (*ClientCHK, error) {
	rk, err := checkRoutingKey(routingKey)
	if err != nil {
		return nil, err
	}
	sk, err := checkSharedKey(sharedKey)
	if err != nil {
		return nil, err
	}
	if _, err := CryptoAlgorithmFromByte(byte(algo)); err != nil {
		return nil, err
	}
	if _, err := CompressionAlgorithmFromInt16(int16(compression)); err != nil {
		return nil, err
	}
	return &ClientCHK{
		routingKey:  rk,
		sharedKey:   sk,
		algo:        algo,
		control:     control,
		compression: compression,
		metaStrings: append([]string(nil), metaStrings...),
	}, nil
}

// ClientCHKFromURI rebuilds a ClientCHK from a parsed CHK URI.
func ClientCHKFromURI(u *URI) (*ClientCHK, error) {
	if u.KeyType() != KeyTypeCHK {
		return nil, fmt.Errorf("%w: expected CHK, got %s", ErrUnknownKeyType, u.KeyType())
	}
	if !u.HasKeys() {
		return nil, ErrMissingKeys
	}
	algo, control, compression, err := parseCHKExtra(u.Extra())
	if err != nil {
		return nil, err
	}
	return NewClientCHK(u.RoutingKey(), u.SharedKey(), algo, control, compression, u.MetaStrings())
}

// chkExtraBytes builds the 5-byte CHK extra block:
// cryptoAlgorithm(2B) | controlFlag(1B) | compressionAlgorithm(2B).
func chkExtraBytes(algo CryptoAlgorithm, control bool, compression CompressionAlgorithm) []byte {
	extra := make([]byte, ExtraSize)
	extra[0] = 0
	extra[1] = byte(algo)
	if control {
		extra[2] = 1
	}
	extra[3] = byte(uint16(compression) >> 8)
	extra[4] = byte(uint16(compression))
	return extra
}

func parseCHKExtra(extra []byte) (CryptoAlgorithm, bool, CompressionAlgorithm, error) {
	if len(extra) < ExtraSize {
		return 0, false, 0, fmt.Errorf("%w: CHK extra must be %d bytes, got %d", ErrInvalidExtra, ExtraSize, len(extra))
	}
	algo, err := CryptoAlgorithmFromByte(extra[1])
	if err != nil {
		return 0, false, 0, err
	}
	compression, err := CompressionAlgorithmFromInt16(int16(uint16(extra[3])<<8 | uint16(extra[4])))
	if err != nil {
		return 0, false, 0, err
	}
	return algo, extra[2] != 0, compression, nil
}

// RoutingKey returns a copy of the content-hash routing key.
func (k *ClientCHK) RoutingKey() []byte { return append([]byte(nil), k.routingKey[:]...) }

// SharedKey returns a copy of the 32-byte decryption key.
func (k *ClientCHK) SharedKey() []byte { return append([]byte(nil), k.sharedKey[:]...) }

// CryptoAlgorithm returns the algorithm tag.
func (k *ClientCHK) CryptoAlgorithm() CryptoAlgorithm { return k.algo }

// TypeTag returns (1<<8)|algorithm.
func (k *ClientCHK) TypeTag() uint16 { return baseTypeCHK<<8 | uint16(k.algo) }

// IsControlDocument reports the control flag from the extra block.
func (k *ClientCHK) IsControlDocument() bool { return k.control }

// Compression returns the compression tag carried as metadata.
func (k *ClientCHK) Compression() CompressionAlgorithm { return k.compression }

// MetaStrings returns the meta strings carried by the URI form.
func (k *ClientCHK) MetaStrings() []string { return append([]string(nil), k.metaStrings...) }

// ExtraBytes returns the 5-byte extra block.
func (k *ClientCHK) ExtraBytes() []byte { return chkExtraBytes(k.algo, k.control, k.compression) }

// NodeKey returns the routing-only projection.
func (k *ClientCHK) NodeKey() *NodeCHK {
	n, err := NewNodeCHK(k.routingKey[:], k.algo)
	if err != nil {
		panic("crypta: validated CHK failed node projection: " + err.Error())
	}
	return n
}

// URI returns the CHK text-form components.
func (k *ClientCHK) URI() *URI {
	u, err := NewURI(KeyTypeCHK, k.routingKey[:], k.sharedKey[:], k.ExtraBytes(), k.metaStrings)
	if err != nil {
		panic("crypta: validated CHK failed URI build: " + err.Error())
	}
	return u
}

// Equal reports equality of all fetch-relevant fields.
func (k *ClientCHK) Equal(other *ClientCHK) bool {
	return other != nil &&
		k.routingKey == other.routingKey &&
		k.sharedKey == other.sharedKey &&
		k.algo == other.algo &&
		k.control == other.control &&
		k.compression == other.compression
}

// ClientSSK is a fetchable signed-subspace key: the subspace's public-key
// hash as routing key, the shared key, and a document name whose encrypted
// hash makes the node-level routing key.
type ClientSSK struct {
	docName    string
	routingKey [RoutingKeySize]byte
	sharedKey  [SharedKeySize]byte
	algo       CryptoAlgorithm
	pubKey     *DSAPublicKey
	ehDocName  [RijndaelBlockSize]byte
}

// NewClientSSK derives ehDocName = Rijndael256(sharedKey).EncryptBlock(
// SHA-256(docName)). pubKey may be nil; when present its SHA-256 must equal
// routingKey.
func NewClientSSK(docName string, routingKey, sharedKey []byte, algo CryptoAlgorithm,
	pubKey *DSAPublicKey) (*ClientSSK, error) {
	rk, err := checkRoutingKey(routingKey)
	if err != nil {
		return nil, err
	}
	sk, err := checkSharedKey(sharedKey)
	if err != nil {
		return nil, err
	}
	if _, err := CryptoAlgorithmFromByte(byte(algo)); err != nil {
		return nil, err
	}
	if pubKey != nil {
		hash := sha256Of(pubKey.Bytes())
		if !bytes.Equal(hash[:], rk[:]) {
			Error("SSK public key hash does not match routing key")
			return nil, ErrPublicKeyMismatch
		}
	}
	k := &ClientSSK{
		docName:    docName,
		routingKey: rk,
		sharedKey:  sk,
		algo:       algo,
		pubKey:     pubKey,
	}
	eh, err := encryptHashedDocName(docName, sk)
	if err != nil {
		return nil, err
	}
	k.ehDocName = eh
	return k, nil
}

// encryptHashedDocName computes E(H(docName)) under the shared key. A pure,
// repeatable derivation, not a stored secret.
func encryptHashedDocName(docName string, sharedKey [SharedKeySize]byte) ([RijndaelBlockSize]byte, error) {
	var out [RijndaelBlockSize]byte
	engine, err := NewRijndael256(sharedKey[:])
	if err != nil {
		return out, err
	}
	hashed := sha256Of([]byte(docName))
	enc, err := engine.EncryptBlock(hashed[:])
	if err != nil {
		return out, err
	}
	copy(out[:], enc)
	return out, nil
}

// ClientSSKFromURI rebuilds a ClientSSK from a parsed SSK request URI with
// the document name as its first meta string.
func ClientSSKFromURI(u *URI) (*ClientSSK, error) {
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
	if insertable {
		return nil, ErrInsertURI
	}
	metas := u.MetaStrings()
	if len(metas) == 0 {
		return nil, fmt.Errorf("%w: SSK URI has no document name", ErrMalformedURI)
	}
	return NewClientSSK(metas[0], u.RoutingKey(), u.SharedKey(), algo, nil)
}

// sskExtraBytes builds the fixed 5-byte SSK extra block:
// [0x01, insertableFlag, algByte, 0x00, 0x01].
func sskExtraBytes(algo CryptoAlgorithm, insertable bool) []byte {
	extra := make([]byte, ExtraSize)
	extra[0] = 1
	if insertable {
		extra[1] = 1
	}
	extra[2] = byte(algo)
	extra[3] = 0
	extra[4] = 1
	return extra
}

func parseSSKExtra(extra []byte) (CryptoAlgorithm, bool, error) {
	if len(extra) < ExtraSize {
		return 0, false, fmt.Errorf("%w: SSK extra must be %d bytes, got %d", ErrInvalidExtra, ExtraSize, len(extra))
	}
	if extra[0] != 1 {
		return 0, false, fmt.Errorf("%w: unknown SSK extra version %d", ErrInvalidExtra, extra[0])
	}
	algo, err := CryptoAlgorithmFromByte(extra[2])
	if err != nil {
		return 0, false, err
	}
	return algo, extra[1] != 0, nil
}

// DocName returns the document name.
func (k *ClientSSK) DocName() string { return k.docName }

// RoutingKey returns a copy of the subspace public-key hash.
func (k *ClientSSK) RoutingKey() []byte { return append([]byte(nil), k.routingKey[:]...) }

// SharedKey returns a copy of the 32-byte decryption key.
func (k *ClientSSK) SharedKey() []byte { return append([]byte(nil), k.sharedKey[:]...) }

// CryptoAlgorithm returns the algorithm tag.
func (k *ClientSSK) CryptoAlgorithm() CryptoAlgorithm { return k.algo }

// TypeTag returns (2<<8)|algorithm.
func (k *ClientSSK) TypeTag() uint16 { return baseTypeSSK<<8 | uint16(k.algo) }

// PublicKey returns the subspace public key, or nil when unknown.
func (k *ClientSSK) PublicKey() *DSAPublicKey { return k.pubKey }

// EncryptedHashedDocName returns a copy of the derived ehDocName.
func (k *ClientSSK) EncryptedHashedDocName() []byte { return append([]byte(nil), k.ehDocName[:]...) }

// ExtraBytes returns the request-form extra block.
func (k *ClientSSK) ExtraBytes() []byte { return sskExtraBytes(k.algo, false) }

// NodeKey returns the routing-only projection.
func (k *ClientSSK) NodeKey() *NodeSSK {
	n, err := NewNodeSSK(k.routingKey[:], k.ehDocName[:], k.algo, k.pubKey)
	if err != nil {
		panic("crypta: validated SSK failed node projection: " + err.Error())
	}
	return n
}

// URI returns the SSK request text-form components with the document name
// as the sole meta string.
func (k *ClientSSK) URI() *URI {
	u, err := NewURI(KeyTypeSSK, k.routingKey[:], k.sharedKey[:], k.ExtraBytes(), []string{k.docName})
	if err != nil {
		panic("crypta: validated SSK failed URI build: " + err.Error())
	}
	return u
}

// VerifyBlock checks an MPI(r)MPI(s) signature over data against the
// subspace public key. Returns false when the public key is unknown.
func (k *ClientSSK) VerifyBlock(data, signature []byte) bool {
	if k.pubKey == nil {
		return false
	}
	sig, err := ParseDSASignature(signature, k.pubKey.Group())
	if err != nil {
		return false
	}
	return Verify(k.pubKey, data, sig)
}

// Equal reports equality of the fetch-relevant fields.
func (k *ClientSSK) Equal(other *ClientSSK) bool {
	return other != nil &&
		k.docName == other.docName &&
		k.routingKey == other.routingKey &&
		k.sharedKey == other.sharedKey &&
		k.algo == other.algo
}
