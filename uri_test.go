package crypta

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeyURI(t *testing.T, keyType string, metas []string) *URI {
	t.Helper()
	u, err := NewURI(keyType, sequentialBytes(0, RoutingKeySize), sequentialBytes(1, SharedKeySize),
		sskExtraBytes(AlgoAESPCFB256SHA256, false), metas)
	require.NoError(t, err)
	return u
}

func TestURI_RoundTrip(t *testing.T) {
	orig := testKeyURI(t, KeyTypeSSK, []string{"mysite"})
	parsed, err := ParseURI(orig.String())
	require.NoError(t, err)
	assert.True(t, orig.Equal(parsed))
	assert.Equal(t, KeyTypeSSK, parsed.KeyType())
	assert.True(t, parsed.HasKeys())
	assert.Equal(t, sequentialBytes(0, RoutingKeySize), parsed.RoutingKey())
	assert.Equal(t, sequentialBytes(1, SharedKeySize), parsed.SharedKey())
	assert.Equal(t, []string{"mysite"}, parsed.MetaStrings())
}

func TestURI_USK(t *testing.T) {
	pub, _, err := GenerateDSAKeyPair(nil, nil)
	require.NoError(t, err)
	pubHash := sha256Of(pub.Bytes())

	u, err := NewURI(KeyTypeUSK, pubHash[:], sequentialBytes(1, SharedKeySize),
		sskExtraBytes(AlgoAESPCFB256SHA256, false), []string{"mysite", "7"})
	require.NoError(t, err)

	parsed, err := ParseURI(u.String())
	require.NoError(t, err)
	usk, err := USKFromURI(parsed)
	require.NoError(t, err)
	assert.Equal(t, "mysite", usk.DocName())
	assert.Equal(t, int64(7), usk.SuggestedEdition())

	t.Run("EditionSSK", func(t *testing.T) {
		ssk, err := usk.EditionSSK(9)
		require.NoError(t, err)
		assert.Equal(t, "mysite-9", ssk.DocName())
		assert.Equal(t, usk.RoutingKey(), ssk.RoutingKey())
	})

	t.Run("BadEdition", func(t *testing.T) {
		bad, err := NewURI(KeyTypeUSK, pubHash[:], sequentialBytes(1, SharedKeySize),
			sskExtraBytes(AlgoAESPCFB256SHA256, false), []string{"mysite", "-3"})
		require.NoError(t, err)
		_, err = USKFromURI(bad)
		assert.ErrorIs(t, err, ErrNegativeEdition)

		_, err = usk.EditionSSK(-1)
		assert.ErrorIs(t, err, ErrNegativeEdition)
	})
}

func TestURI_EmptyMetaSegment(t *testing.T) {
	orig := testKeyURI(t, KeyTypeCHK, nil)
	// A literal "//" between segments yields one empty meta string.
	parsed, err := ParseURI(orig.String() + "/dir//file")
	require.NoError(t, err)
	assert.Equal(t, []string{"dir", "", "file"}, parsed.MetaStrings())

	t.Run("TrailingSlash", func(t *testing.T) {
		parsed, err := ParseURI(orig.String() + "/")
		require.NoError(t, err)
		assert.Equal(t, []string{""}, parsed.MetaStrings())
	})

	t.Run("SingleEmptyMetaRoundTrip", func(t *testing.T) {
		u := testKeyURI(t, KeyTypeCHK, []string{""})
		parsed, err := ParseURI(u.String())
		require.NoError(t, err)
		assert.True(t, u.Equal(parsed))
		assert.Equal(t, []string{""}, parsed.MetaStrings())
	})

	t.Run("NoTrailingSlashNoMetas", func(t *testing.T) {
		parsed, err := ParseURI(orig.String())
		require.NoError(t, err)
		assert.Empty(t, parsed.MetaStrings())
	})
}

func TestURI_KSKKeyword(t *testing.T) {
	parsed, err := ParseURI("KSK@hello-world")
	require.NoError(t, err)
	assert.Equal(t, KeyTypeKSK, parsed.KeyType())
	assert.False(t, parsed.HasKeys())
	assert.Nil(t, parsed.RoutingKey())
	assert.Equal(t, []string{"hello-world"}, parsed.MetaStrings())
}

func TestURI_PartialTripleBecomesPath(t *testing.T) {
	// Two comma-separated fields are not a key triple; everything after '@'
	// degrades to the meta path.
	parsed, err := ParseURI("SSK@abc,def/ghi")
	require.NoError(t, err)
	assert.False(t, parsed.HasKeys())
	assert.Equal(t, []string{"abc,def", "ghi"}, parsed.MetaStrings())
}

func TestURI_Prefixes(t *testing.T) {
	canonical := "KSK@sample"
	for _, raw := range []string{
		"KSK@sample",
		"/KSK@sample",
		"freenet:KSK@sample",
		"hyphanet:KSK@sample",
		"web+freenet:KSK@sample",
		"ext+hypha:KSK@sample",
		"FREENET:KSK@sample",
		"http://localhost:8888/KSK@sample",
		"https://gateway.example/freenet:KSK@sample",
	} {
		parsed, err := ParseURI(raw)
		require.NoError(t, err, "raw %q", raw)
		assert.Equal(t, canonical, parsed.String(), "raw %q", raw)
	}
}

func TestURI_LowercaseType(t *testing.T) {
	parsed, err := ParseURI("ksk@sample")
	require.NoError(t, err)
	assert.Equal(t, KeyTypeKSK, parsed.KeyType())
}

func TestURI_PercentEncoding(t *testing.T) {
	t.Run("MetaSegments", func(t *testing.T) {
		orig := testKeyURI(t, KeyTypeSSK, nil)
		parsed, err := ParseURI(orig.String() + "/my%20file/a%2Fb")
		require.NoError(t, err)
		assert.Equal(t, []string{"my file", "a/b"}, parsed.MetaStrings())
	})

	t.Run("FullyEncoded", func(t *testing.T) {
		// With no structural characters left, the whole string is decoded
		// first.
		parsed, err := ParseURI("KSK%40sample")
		require.NoError(t, err)
		assert.Equal(t, KeyTypeKSK, parsed.KeyType())
		assert.Equal(t, []string{"sample"}, parsed.MetaStrings())
	})

	t.Run("FormatEscapes", func(t *testing.T) {
		u, err := NewURI(KeyTypeKSK, nil, nil, nil, []string{"my file"})
		require.NoError(t, err)
		assert.Equal(t, "KSK@my%20file", u.String())
	})

	t.Run("PureASCII", func(t *testing.T) {
		u, err := NewURI(KeyTypeKSK, nil, nil, nil, []string{"caf\xc3\xa9"})
		require.NoError(t, err)
		assert.Equal(t, "KSK@caf\xc3\xa9", u.Format("", false))
		assert.Equal(t, "KSK@caf%C3%A9", u.Format("", true))
	})
}

func TestURI_FormatPrefix(t *testing.T) {
	u := testKeyURI(t, KeyTypeCHK, []string{"file.txt"})
	withPrefix := u.Format("freenet:", false)
	assert.Equal(t, "freenet:"+u.String(), withPrefix)
	parsed, err := ParseURI(withPrefix)
	require.NoError(t, err)
	assert.True(t, u.Equal(parsed))
}

func TestURI_Errors(t *testing.T) {
	t.Run("MissingAt", func(t *testing.T) {
		_, err := ParseURI("not a key at all")
		assert.ErrorIs(t, err, ErrMalformedURI)
		var uriErr *URIError
		require.True(t, errors.As(err, &uriErr))
		assert.Equal(t, "not a key at all", uriErr.Raw)
	})

	t.Run("UnknownType", func(t *testing.T) {
		_, err := ParseURI("ABC@whatever")
		assert.ErrorIs(t, err, ErrUnknownKeyType)
	})

	t.Run("BadPercentEncoding", func(t *testing.T) {
		_, err := ParseURI("KSK@bad%zzsegment")
		assert.ErrorIs(t, err, ErrMalformedURI)
	})

	t.Run("NewURIUnknownType", func(t *testing.T) {
		_, err := NewURI("XYZ", nil, nil, nil, nil)
		assert.ErrorIs(t, err, ErrUnknownKeyType)
	})
}

func TestURI_Equal(t *testing.T) {
	a := testKeyURI(t, KeyTypeSSK, []string{"doc"})
	b := testKeyURI(t, KeyTypeSSK, []string{"doc"})
	c := testKeyURI(t, KeyTypeSSK, []string{"other"})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestBase64_Alphabet(t *testing.T) {
	// Index 62 maps to '~' and 63 to '-'.
	assert.Equal(t, "~w", Base64Encode([]byte{0xfb}))
	assert.Equal(t, "-w", Base64Encode([]byte{0xff}))

	decoded, err := Base64Decode("~w")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xfb}, decoded)

	// Trailing padding is tolerated on decode.
	decoded, err = Base64Decode("-w==")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff}, decoded)

	_, err = Base64Decode("+w")
	assert.Error(t, err)
}

func TestBase64_RoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 31, 32, 33} {
		data := sequentialBytes(0xd0, n)
		decoded, err := Base64Decode(Base64Encode(data))
		require.NoError(t, err)
		assert.Equal(t, data, decoded, "length %d", n)
	}
}
