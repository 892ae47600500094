package crypta

import "fmt"

// Rijndael with a 256-bit block as well as a 256-bit key. The network's PCFB
// mode and the SSK ehDocName derivation are defined over this primitive, so
// it is implemented here rather than on crypto/aes, which fixes the block
// size at 128 bits.
//
// Parameters: Nb = Nk = 8 words, Nr = 14 rounds, row-shift offsets
// {0,1,3,4}, GF(2^8) arithmetic over the 0x1b reduction polynomial.

const (
	// RijndaelBlockSize is the cipher block length in bytes.
	RijndaelBlockSize = 32
	// RijndaelKeySize is the cipher key length in bytes.
	RijndaelKeySize = 32

	rijndaelRounds = 14
	rijndaelNb     = 8 // state columns
	rijndaelNk     = 8 // key words
)

// Row shift offsets for the 256-bit block size.
var rijndaelShifts = [4]int{0, 1, 3, 4}

// Forward S-box. The inverse S-box and the round constants are derived from
// it at package init.
var rijndaelSbox = [256]byte{
	0x63, 0x7c, 0x77, 0x7b, 0xf2, 0x6b, 0x6f, 0xc5, 0x30, 0x01, 0x67, 0x2b, 0xfe, 0xd7, 0xab, 0x76,
	0xca, 0x82, 0xc9, 0x7d, 0xfa, 0x59, 0x47, 0xf0, 0xad, 0xd4, 0xa2, 0xaf, 0x9c, 0xa4, 0x72, 0xc0,
	0xb7, 0xfd, 0x93, 0x26, 0x36, 0x3f, 0xf7, 0xcc, 0x34, 0xa5, 0xe5, 0xf1, 0x71, 0xd8, 0x31, 0x15,
	0x04, 0xc7, 0x23, 0xc3, 0x18, 0x96, 0x05, 0x9a, 0x07, 0x12, 0x80, 0xe2, 0xeb, 0x27, 0xb2, 0x75,
	0x09, 0x83, 0x2c, 0x1a, 0x1b, 0x6e, 0x5a, 0xa0, 0x52, 0x3b, 0xd6, 0xb3, 0x29, 0xe3, 0x2f, 0x84,
	0x53, 0xd1, 0x00, 0xed, 0x20, 0xfc, 0xb1, 0x5b, 0x6a, 0xcb, 0xbe, 0x39, 0x4a, 0x4c, 0x58, 0xcf,
	0xd0, 0xef, 0xaa, 0xfb, 0x43, 0x4d, 0x33, 0x85, 0x45, 0xf9, 0x02, 0x7f, 0x50, 0x3c, 0x9f, 0xa8,
	0x51, 0xa3, 0x40, 0x8f, 0x92, 0x9d, 0x38, 0xf5, 0xbc, 0xb6, 0xda, 0x21, 0x10, 0xff, 0xf3, 0xd2,
	0xcd, 0x0c, 0x13, 0xec, 0x5f, 0x97, 0x44, 0x17, 0xc4, 0xa7, 0x7e, 0x3d, 0x64, 0x5d, 0x19, 0x73,
	0x60, 0x81, 0x4f, 0xdc, 0x22, 0x2a, 0x90, 0x88, 0x46, 0xee, 0xb8, 0x14, 0xde, 0x5e, 0x0b, 0xdb,
	0xe0, 0x32, 0x3a, 0x0a, 0x49, 0x06, 0x24, 0x5c, 0xc2, 0xd3, 0xac, 0x62, 0x91, 0x95, 0xe4, 0x79,
	0xe7, 0xc8, 0x37, 0x6d, 0x8d, 0xd5, 0x4e, 0xa9, 0x6c, 0x56, 0xf4, 0xea, 0x65, 0x7a, 0xae, 0x08,
	0xba, 0x78, 0x25, 0x2e, 0x1c, 0xa6, 0xb4, 0xc6, 0xe8, 0xdd, 0x74, 0x1f, 0x4b, 0xbd, 0x8b, 0x8a,
	0x70, 0x3e, 0xb5, 0x66, 0x48, 0x03, 0xf6, 0x0e, 0x61, 0x35, 0x57, 0xb9, 0x86, 0xc1, 0x1d, 0x9e,
	0xe1, 0xf8, 0x98, 0x11, 0x69, 0xd9, 0x8e, 0x94, 0x9b, 0x1e, 0x87, 0xe9, 0xce, 0x55, 0x28, 0xdf,
	0x8c, 0xa1, 0x89, 0x0d, 0xbf, 0xe6, 0x42, 0x68, 0x41, 0x99, 0x2d, 0x0f, 0xb0, 0x54, 0xbb, 0x16,
}

var (
	rijndaelInvSbox [256]byte
	rijndaelRcon    [15]byte
)

func init() {
	for i := 0; i < 256; i++ {
		rijndaelInvSbox[rijndaelSbox[i]] = byte(i)
	}
	rijndaelRcon[1] = 0x01
	for i := 2; i < len(rijndaelRcon); i++ {
		rijndaelRcon[i] = gfDouble(rijndaelRcon[i-1])
	}
}

// gfDouble multiplies by x in GF(2^8).
func gfDouble(b byte) byte {
	d := b << 1
	if b&0x80 != 0 {
		d ^= 0x1b
	}
	return d
}

// gfMul multiplies two GF(2^8) elements.
func gfMul(a, b byte) byte {
	var p byte
	for b != 0 {
		if b&1 != 0 {
			p ^= a
		}
		a = gfDouble(a)
		b >>= 1
	}
	return p
}

// Rijndael256 is the 256-bit block/key engine. It holds only the immutable
// round-key schedule, so a single instance is safe to share across
// goroutines for single-block operations.
type Rijndael256 struct {
	roundKeys [(rijndaelRounds + 1) * rijndaelNb]uint32
}

// NewRijndael256 expands the key schedule for the given 32-byte key.
func NewRijndael256(key []byte) (*Rijndael256, error) {
	if len(key) != RijndaelKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeySize, len(key), RijndaelKeySize)
	}
	e := &Rijndael256{}
	e.expandKey(key)
	return e, nil
}

func subWord(w uint32) uint32 {
	return uint32(rijndaelSbox[w>>24])<<24 |
		uint32(rijndaelSbox[(w>>16)&0xff])<<16 |
		uint32(rijndaelSbox[(w>>8)&0xff])<<8 |
		uint32(rijndaelSbox[w&0xff])
}

func rotWord(w uint32) uint32 {
	return w<<8 | w>>24
}

func (e *Rijndael256) expandKey(key []byte) {
	w := e.roundKeys[:]
	for i := 0; i < rijndaelNk; i++ {
		w[i] = uint32(key[4*i])<<24 | uint32(key[4*i+1])<<16 |
			uint32(key[4*i+2])<<8 | uint32(key[4*i+3])
	}
	for i := rijndaelNk; i < len(w); i++ {
		t := w[i-1]
		switch {
		case i%rijndaelNk == 0:
			t = subWord(rotWord(t)) ^ uint32(rijndaelRcon[i/rijndaelNk])<<24
		case i%rijndaelNk == 4:
			// Nk > 6 requires the extra subWord at the key-block midpoint.
			t = subWord(t)
		}
		w[i] = w[i-rijndaelNk] ^ t
	}
}

// state is 4 rows by 8 columns; byte i of a block maps to row i%4, column i/4.
type rijndaelState [4][rijndaelNb]byte

func loadState(block []byte) (st rijndaelState) {
	for c := 0; c < rijndaelNb; c++ {
		for r := 0; r < 4; r++ {
			st[r][c] = block[4*c+r]
		}
	}
	return
}

func storeState(st *rijndaelState, out []byte) {
	for c := 0; c < rijndaelNb; c++ {
		for r := 0; r < 4; r++ {
			out[4*c+r] = st[r][c]
		}
	}
}

func (e *Rijndael256) addRoundKey(st *rijndaelState, round int) {
	for c := 0; c < rijndaelNb; c++ {
		kw := e.roundKeys[round*rijndaelNb+c]
		st[0][c] ^= byte(kw >> 24)
		st[1][c] ^= byte(kw >> 16)
		st[2][c] ^= byte(kw >> 8)
		st[3][c] ^= byte(kw)
	}
}

func subBytes(st *rijndaelState) {
	for r := 0; r < 4; r++ {
		for c := 0; c < rijndaelNb; c++ {
			st[r][c] = rijndaelSbox[st[r][c]]
		}
	}
}

func invSubBytes(st *rijndaelState) {
	for r := 0; r < 4; r++ {
		for c := 0; c < rijndaelNb; c++ {
			st[r][c] = rijndaelInvSbox[st[r][c]]
		}
	}
}

func shiftRows(st *rijndaelState) {
	for r := 1; r < 4; r++ {
		var row [rijndaelNb]byte
		off := rijndaelShifts[r]
		for c := 0; c < rijndaelNb; c++ {
			row[c] = st[r][(c+off)%rijndaelNb]
		}
		st[r] = row
	}
}

func invShiftRows(st *rijndaelState) {
	for r := 1; r < 4; r++ {
		var row [rijndaelNb]byte
		off := rijndaelShifts[r]
		for c := 0; c < rijndaelNb; c++ {
			row[(c+off)%rijndaelNb] = st[r][c]
		}
		st[r] = row
	}
}

func mixColumns(st *rijndaelState) {
	for c := 0; c < rijndaelNb; c++ {
		a0, a1, a2, a3 := st[0][c], st[1][c], st[2][c], st[3][c]
		st[0][c] = gfDouble(a0) ^ gfMul(a1, 3) ^ a2 ^ a3
		st[1][c] = a0 ^ gfDouble(a1) ^ gfMul(a2, 3) ^ a3
		st[2][c] = a0 ^ a1 ^ gfDouble(a2) ^ gfMul(a3, 3)
		st[3][c] = gfMul(a0, 3) ^ a1 ^ a2 ^ gfDouble(a3)
	}
}

func invMixColumns(st *rijndaelState) {
	for c := 0; c < rijndaelNb; c++ {
		a0, a1, a2, a3 := st[0][c], st[1][c], st[2][c], st[3][c]
		st[0][c] = gfMul(a0, 14) ^ gfMul(a1, 11) ^ gfMul(a2, 13) ^ gfMul(a3, 9)
		st[1][c] = gfMul(a0, 9) ^ gfMul(a1, 14) ^ gfMul(a2, 11) ^ gfMul(a3, 13)
		st[2][c] = gfMul(a0, 13) ^ gfMul(a1, 9) ^ gfMul(a2, 14) ^ gfMul(a3, 11)
		st[3][c] = gfMul(a0, 11) ^ gfMul(a1, 13) ^ gfMul(a2, 9) ^ gfMul(a3, 14)
	}
}

// EncryptBlock encrypts exactly one 32-byte block and returns the ciphertext
// in a fresh slice.
func (e *Rijndael256) EncryptBlock(block []byte) ([]byte, error) {
	if len(block) != RijndaelBlockSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidBlockSize, len(block), RijndaelBlockSize)
	}
	st := loadState(block)
	e.addRoundKey(&st, 0)
	for round := 1; round < rijndaelRounds; round++ {
		subBytes(&st)
		shiftRows(&st)
		mixColumns(&st)
		e.addRoundKey(&st, round)
	}
	subBytes(&st)
	shiftRows(&st)
	e.addRoundKey(&st, rijndaelRounds)

	out := make([]byte, RijndaelBlockSize)
	storeState(&st, out)
	return out, nil
}

// DecryptBlock decrypts exactly one 32-byte block and returns the plaintext
// in a fresh slice.
func (e *Rijndael256) DecryptBlock(block []byte) ([]byte, error) {
	if len(block) != RijndaelBlockSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidBlockSize, len(block), RijndaelBlockSize)
	}
	st := loadState(block)
	e.addRoundKey(&st, rijndaelRounds)
	for round := rijndaelRounds - 1; round > 0; round-- {
		invShiftRows(&st)
		invSubBytes(&st)
		e.addRoundKey(&st, round)
		invMixColumns(&st)
	}
	invShiftRows(&st)
	invSubBytes(&st)
	e.addRoundKey(&st, 0)

	out := make([]byte, RijndaelBlockSize)
	storeState(&st, out)
	return out, nil
}
