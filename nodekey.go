package crypta

import (
	"bytes"
	"fmt"
)

// Node keys carry only what routing and storage need. They never hold
// decryption material.

// NodeCHK routes a content-hash block: the routing key is a hash of the
// block's ciphertext.
type NodeCHK struct {
	routingKey [RoutingKeySize]byte
	algo       CryptoAlgorithm
}

// NewNodeCHK validates the routing key length and algorithm tag.
func NewNodeCHK(routingKey []byte, algo CryptoAlgorithm) (*NodeCHK, error) {
	rk, err := checkRoutingKey(routingKey)
	if err != nil {
		return nil, err
	}
	if _, err := CryptoAlgorithmFromByte(byte(algo)); err != nil {
		return nil, err
	}
	return &NodeCHK{routingKey: rk, algo: algo}, nil
}

// RoutingKey returns a copy of the 32-byte routing key.
func (k *NodeCHK) RoutingKey() []byte { return append([]byte(nil), k.routingKey[:]...) }

// CryptoAlgorithm returns the algorithm tag.
func (k *NodeCHK) CryptoAlgorithm() CryptoAlgorithm { return k.algo }

// TypeTag returns (1<<8)|algorithm.
func (k *NodeCHK) TypeTag() uint16 { return baseTypeCHK<<8 | uint16(k.algo) }

// Equal reports byte equality of routing key and algorithm.
func (k *NodeCHK) Equal(other *NodeCHK) bool {
	return other != nil && k.algo == other.algo && k.routingKey == other.routingKey
}

// NodeSSK routes a signed-subspace block. Its routing key binds the
// subspace owner's public-key hash to the encrypted document name:
// SHA-256(ehDocName ++ clientRoutingKey), keeping document-name plaintext
// out of the network's sight.
type NodeSSK struct {
	clientRoutingKey [RoutingKeySize]byte
	ehDocName        [RijndaelBlockSize]byte
	routingKey       [RoutingKeySize]byte
	algo             CryptoAlgorithm
	pubKey           *DSAPublicKey
}

// NewNodeSSK derives the node routing key. pubKey may be nil (it is learned
// from the network later); when present, its SHA-256 must equal
// clientRoutingKey.
func NewNodeSSK(clientRoutingKey, ehDocName []byte, algo CryptoAlgorithm, pubKey *DSAPublicKey) (*NodeSSK, error) {
	crk, err := checkRoutingKey(clientRoutingKey)
	if err != nil {
		return nil, err
	}
	if _, err := CryptoAlgorithmFromByte(byte(algo)); err != nil {
		return nil, err
	}
	if len(ehDocName) != RijndaelBlockSize {
		return nil, fmt.Errorf("%w: encrypted doc name must be %d bytes, got %d",
			ErrInvalidBlockSize, RijndaelBlockSize, len(ehDocName))
	}
	if pubKey != nil {
		hash := sha256Of(pubKey.Bytes())
		if !bytes.Equal(hash[:], crk[:]) {
			Error("node SSK public key hash does not match client routing key")
			return nil, ErrPublicKeyMismatch
		}
	}
	k := &NodeSSK{clientRoutingKey: crk, algo: algo, pubKey: pubKey}
	copy(k.ehDocName[:], ehDocName)
	k.routingKey = sha256Of(ehDocName, crk[:])
	return k, nil
}

// RoutingKey returns a copy of the derived 32-byte node routing key.
func (k *NodeSSK) RoutingKey() []byte { return append([]byte(nil), k.routingKey[:]...) }

// ClientRoutingKey returns a copy of the subspace's public-key hash.
func (k *NodeSSK) ClientRoutingKey() []byte { return append([]byte(nil), k.clientRoutingKey[:]...) }

// EncryptedHashedDocName returns a copy of the 32-byte ehDocName.
func (k *NodeSSK) EncryptedHashedDocName() []byte { return append([]byte(nil), k.ehDocName[:]...) }

// PublicKey returns the subspace public key, or nil when not yet known.
func (k *NodeSSK) PublicKey() *DSAPublicKey { return k.pubKey }

// CryptoAlgorithm returns the algorithm tag.
func (k *NodeSSK) CryptoAlgorithm() CryptoAlgorithm { return k.algo }

// TypeTag returns (2<<8)|algorithm.
func (k *NodeSSK) TypeTag() uint16 { return baseTypeSSK<<8 | uint16(k.algo) }

// Equal reports equality of the routing-relevant fields.
func (k *NodeSSK) Equal(other *NodeSSK) bool {
	return other != nil && k.algo == other.algo &&
		k.clientRoutingKey == other.clientRoutingKey &&
		k.ehDocName == other.ehDocName
}
