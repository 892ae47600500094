package crypta

import "encoding/base64"

// Key URIs use a filesystem- and URL-friendly Base64 alphabet: standard
// Base64 with '~' for value 62 and '-' for value 63, no padding. Note the
// ordering differs from the I2P alphabet, which puts '-' at 62.
const keyBase64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789~-"

// KeyEncoding is the URI Base64 encoding (no padding).
var KeyEncoding = base64.NewEncoding(keyBase64Alphabet).WithPadding(base64.NoPadding)

// Base64Encode encodes key material for the URI text form.
func Base64Encode(data []byte) string {
	return KeyEncoding.EncodeToString(data)
}

// Base64Decode decodes key material from the URI text form. Trailing '='
// padding is tolerated for compatibility with older serializers.
func Base64Decode(s string) ([]byte, error) {
	for len(s) > 0 && s[len(s)-1] == '=' {
		s = s[:len(s)-1]
	}
	return KeyEncoding.DecodeString(s)
}
