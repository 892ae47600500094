// Package crypta is the cryptographic and key-derivation core of a
// content-addressed peer-to-peer overlay. It provides the 256-bit-block
// Rijndael cipher and its PCFB mode, AES-256-CTR streaming, a DSA engine
// with the network's MPI big-integer encoding, and the CHK/SSK/USK/KSK key
// hierarchy with its URI text form.
//
// Everything here is pure in-memory computation: no sockets, no files, no
// persistence. Outer layers feed bytes in and route/store what comes out.
package crypta

import "fmt"

// Fixed sizes for key material carried by the key hierarchy.
const (
	// RoutingKeySize is the length of every network-visible routing key.
	RoutingKeySize = 32
	// SharedKeySize is the length of the symmetric decryption key carried
	// by client keys.
	SharedKeySize = 32

	// ExtraSize is the length of the extra metadata block appended to
	// CHK and SSK URIs.
	ExtraSize = 5
)

// CryptoAlgorithm selects the stream cipher (and implicit integrity hash
// convention) used for a key's data. The set is closed; unknown values are
// rejected at every boundary.
type CryptoAlgorithm uint8

const (
	// AlgoAESPCFB256SHA256 selects Rijndael-256 in PCFB mode with SHA-256.
	AlgoAESPCFB256SHA256 CryptoAlgorithm = 2
	// AlgoAESCTR256SHA256 selects AES-256 in CTR mode with SHA-256.
	AlgoAESCTR256SHA256 CryptoAlgorithm = 3
)

// CryptoAlgorithmFromByte maps a wire byte to a CryptoAlgorithm.
func CryptoAlgorithmFromByte(b byte) (CryptoAlgorithm, error) {
	switch CryptoAlgorithm(b) {
	case AlgoAESPCFB256SHA256:
		return AlgoAESPCFB256SHA256, nil
	case AlgoAESCTR256SHA256:
		return AlgoAESCTR256SHA256, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownCryptoAlgorithm, b)
	}
}

// IVSize returns the initialization-vector length the algorithm's stream
// cipher expects.
func (a CryptoAlgorithm) IVSize() int {
	if a == AlgoAESPCFB256SHA256 {
		return RijndaelBlockSize
	}
	return aesBlockSize
}

func (a CryptoAlgorithm) String() string {
	switch a {
	case AlgoAESPCFB256SHA256:
		return "AES_PCFB_256_SHA256"
	case AlgoAESCTR256SHA256:
		return "AES_CTR_256_SHA256"
	default:
		return fmt.Sprintf("CryptoAlgorithm(%d)", uint8(a))
	}
}

// CompressionAlgorithm is carried as key metadata only; this core never
// compresses or decompresses data itself.
type CompressionAlgorithm int16

const (
	CompressionNone  CompressionAlgorithm = -1
	CompressionGzip  CompressionAlgorithm = 0
	CompressionBzip2 CompressionAlgorithm = 1
	CompressionLZMA  CompressionAlgorithm = 3
)

// CompressionAlgorithmFromInt16 maps a wire value to a CompressionAlgorithm.
func CompressionAlgorithmFromInt16(v int16) (CompressionAlgorithm, error) {
	switch CompressionAlgorithm(v) {
	case CompressionNone, CompressionGzip, CompressionBzip2, CompressionLZMA:
		return CompressionAlgorithm(v), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownCompressionAlgorithm, v)
	}
}

func (c CompressionAlgorithm) String() string {
	switch c {
	case CompressionNone:
		return "NO_COMP"
	case CompressionGzip:
		return "GZIP"
	case CompressionBzip2:
		return "BZIP2"
	case CompressionLZMA:
		return "LZMA"
	default:
		return fmt.Sprintf("CompressionAlgorithm(%d)", int16(c))
	}
}

// Base key types used in the 16-bit type tag: (base<<8)|cryptoAlgorithm.
const (
	baseTypeCHK = 1
	baseTypeSSK = 2
)
