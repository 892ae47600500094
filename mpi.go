package crypta

import (
	"fmt"
	"math/big"
)

// MPI is the length-prefixed big-integer wire encoding used for DSA
// parameters, keys and signatures: a 2-byte big-endian bit-length followed by
// the minimal big-endian unsigned value, ceil(bitLength/8) bytes long. Zero
// encodes as [0,0] with no value bytes.

// EncodeMPI encodes a non-negative integer.
func EncodeMPI(n *big.Int) ([]byte, error) {
	if n == nil || n.Sign() < 0 {
		return nil, fmt.Errorf("%w: value must be non-negative", ErrInvalidMPI)
	}
	bits := n.BitLen()
	if bits > 0xffff {
		return nil, fmt.Errorf("%w: %d bits exceeds the 16-bit length prefix", ErrInvalidMPI, bits)
	}
	value := n.Bytes() // exactly ceil(bits/8) bytes, empty for zero
	out := make([]byte, 2+len(value))
	out[0] = byte(bits >> 8)
	out[1] = byte(bits)
	copy(out[2:], value)
	return out, nil
}

// DecodeMPI reads one MPI from b starting at off and returns the value and
// the offset just past it.
func DecodeMPI(b []byte, off int) (*big.Int, int, error) {
	if off < 0 || off+2 > len(b) {
		return nil, 0, fmt.Errorf("%w: no room for length prefix at offset %d", ErrInvalidMPI, off)
	}
	bits := int(b[off])<<8 | int(b[off+1])
	byteLen := (bits + 7) / 8
	end := off + 2 + byteLen
	if end > len(b) {
		return nil, 0, fmt.Errorf("%w: %d value bytes missing", ErrInvalidMPI, end-len(b))
	}
	n := new(big.Int).SetBytes(b[off+2 : end])
	return n, end, nil
}
