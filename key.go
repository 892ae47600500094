package crypta

import "fmt"

// Key is the capability every member of the key family exposes: a 32-byte
// network-visible routing key and the crypto algorithm its data uses. Node
// keys carry only this; client keys add what is needed to decrypt and
// verify content.
type Key interface {
	RoutingKey() []byte
	CryptoAlgorithm() CryptoAlgorithm

	// TypeTag is the 16-bit wire tag (baseType<<8 | cryptoAlgorithm).
	TypeTag() uint16
}

// checkRoutingKey copies a routing key into a fixed array, validating the
// length.
func checkRoutingKey(b []byte) ([RoutingKeySize]byte, error) {
	var out [RoutingKeySize]byte
	if len(b) != RoutingKeySize {
		return out, fmt.Errorf("%w: got %d bytes", ErrInvalidRoutingKey, len(b))
	}
	copy(out[:], b)
	return out, nil
}

// checkSharedKey copies a shared key into a fixed array, validating the
// length.
func checkSharedKey(b []byte) ([SharedKeySize]byte, error) {
	var out [SharedKeySize]byte
	if len(b) != SharedKeySize {
		return out, fmt.Errorf("%w: got %d bytes", ErrInvalidSharedKey, len(b))
	}
	copy(out[:], b)
	return out, nil
}
