package crypta

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/big"
)

// Stream wraps bytes.Buffer with the binary encodings a DSA integer crosses
// a boundary in: big-endian fixed-width integers, fixed-length key fields,
// and the MPI big-integer form.
type Stream struct {
	*bytes.Buffer
}

// NewStream creates a new Stream over the provided initial contents.
func NewStream(buf []byte) *Stream {
	return &Stream{bytes.NewBuffer(buf)}
}

// ReadUint16 reads a big-endian uint16 from the stream.
func (s *Stream) ReadUint16() (uint16, error) {
	bts, err := s.ReadFull(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(bts), nil
}

// WriteUint16 writes a big-endian uint16 to the stream.
func (s *Stream) WriteUint16(i uint16) error {
	bts := make([]byte, 2)
	binary.BigEndian.PutUint16(bts, i)
	_, err := s.Write(bts)
	return err
}

// ReadFull reads exactly n bytes or fails.
func (s *Stream) ReadFull(n int) ([]byte, error) {
	bts := make([]byte, n)
	got, err := s.Read(bts)
	if err != nil {
		return nil, err
	}
	if got != n {
		return nil, fmt.Errorf("crypta: short read: got %d bytes, want %d", got, n)
	}
	return bts, nil
}

// WriteMPI writes one big integer in MPI form.
func (s *Stream) WriteMPI(n *big.Int) error {
	enc, err := EncodeMPI(n)
	if err != nil {
		return err
	}
	_, err = s.Write(enc)
	return err
}

// ReadMPI reads one big integer in MPI form.
func (s *Stream) ReadMPI() (*big.Int, error) {
	bits, err := s.ReadUint16()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMPI, err)
	}
	byteLen := (int(bits) + 7) / 8
	if byteLen == 0 {
		return new(big.Int), nil
	}
	value, err := s.ReadFull(byteLen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMPI, err)
	}
	return new(big.Int).SetBytes(value), nil
}
