package crypta

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation failures.
//
// These follow Go 1.13+ error wrapping conventions and can be checked with
// errors.Is() after any amount of fmt.Errorf("%w") wrapping. All validation
// happens at construction or parse time; none of these is retryable.
var (
	// ErrInvalidRoutingKey indicates a routing key that is not exactly 32 bytes.
	ErrInvalidRoutingKey = errors.New("crypta: routing key must be 32 bytes")

	// ErrInvalidSharedKey indicates a shared (decryption) key that is not
	// exactly 32 bytes.
	ErrInvalidSharedKey = errors.New("crypta: shared key must be 32 bytes")

	// ErrInvalidKeySize indicates symmetric key material of the wrong length.
	ErrInvalidKeySize = errors.New("crypta: invalid cipher key size")

	// ErrInvalidBlockSize indicates a block passed to the block cipher that is
	// not exactly one block long.
	ErrInvalidBlockSize = errors.New("crypta: invalid cipher block size")

	// ErrInvalidIVSize indicates an IV that does not match the mode's
	// required length (32 bytes for PCFB, 16 for CTR).
	ErrInvalidIVSize = errors.New("crypta: invalid IV size")

	// ErrUpdateOutOfRange indicates a stream Update call with an offset or
	// length outside the supplied buffer. This is a programmer error.
	ErrUpdateOutOfRange = errors.New("crypta: cipher stream update range out of bounds")

	// ErrUnknownCryptoAlgorithm indicates a crypto-algorithm tag outside the
	// closed set.
	ErrUnknownCryptoAlgorithm = errors.New("crypta: unknown crypto algorithm")

	// ErrUnknownCompressionAlgorithm indicates a compression tag outside the
	// closed set.
	ErrUnknownCompressionAlgorithm = errors.New("crypta: unknown compression algorithm")

	// ErrUnknownKeyType indicates a URI key type other than USK/KSK/SSK/CHK.
	ErrUnknownKeyType = errors.New("crypta: unknown key type")

	// ErrMalformedURI indicates URI text that does not match the key grammar.
	ErrMalformedURI = errors.New("crypta: malformed URI")

	// ErrMissingKeys indicates a URI that must carry the routingKey,sharedKey,extra
	// triple but does not.
	ErrMissingKeys = errors.New("crypta: URI carries no keys")

	// ErrInvalidExtra indicates an extra metadata block of the wrong length or
	// layout.
	ErrInvalidExtra = errors.New("crypta: invalid extra bytes")

	// ErrPublicKeyMismatch indicates a DSA public key whose SHA-256 does not
	// equal the claimed routing key.
	ErrPublicKeyMismatch = errors.New("crypta: public key hash does not match routing key")

	// ErrKeyOutOfRange indicates a DSA key component outside its group range
	// (y outside (0,p) or x outside (0,q)).
	ErrKeyOutOfRange = errors.New("crypta: DSA key component out of range")

	// ErrInvalidMPI indicates a truncated or over-long MPI encoding.
	ErrInvalidMPI = errors.New("crypta: invalid MPI encoding")

	// ErrNegativeEdition indicates a USK edition that failed to parse as a
	// non-negative integer.
	ErrNegativeEdition = errors.New("crypta: USK edition must be a non-negative integer")

	// ErrNotInsertable indicates an attempt to build an insertable key from a
	// request (public) URI.
	ErrNotInsertable = errors.New("crypta: URI does not carry a private key")

	// ErrInsertURI indicates an insert URI (private key in the routing-key
	// slot) passed where a request URI was expected.
	ErrInsertURI = errors.New("crypta: URI carries a private key")

	// ErrUnknownHashAlgorithm indicates a hash-algorithm tag outside the
	// closed set.
	ErrUnknownHashAlgorithm = errors.New("crypta: unknown hash algorithm")
)

// URIError wraps a parse failure with the offending text.
// Check the cause with errors.Is (ErrMalformedURI, ErrUnknownKeyType, ...).
type URIError struct {
	Raw string // the URI text as given by the caller
	Err error  // underlying cause
}

func (e *URIError) Error() string {
	return fmt.Sprintf("crypta: cannot parse %q: %v", e.Raw, e.Err)
}

func (e *URIError) Unwrap() error {
	return e.Err
}

func newURIError(raw string, err error) error {
	// The raw text stays out of the log line; insert URIs carry private keys.
	Warning("rejecting URI: %v", err)
	return &URIError{Raw: raw, Err: err}
}
