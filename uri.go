package crypta

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// URI key types.
const (
	KeyTypeUSK = "USK"
	KeyTypeKSK = "KSK"
	KeyTypeSSK = "SSK"
	KeyTypeCHK = "CHK"
)

// URI is the parsed form of the human-readable key text:
//
//	[scheme-prefix]TYPE@[routingKey,sharedKey,extra]/meta1/meta2/...
//
// The key triple is all-or-nothing: a partial triple degrades to "no keys"
// and the whole remainder becomes the meta-string path (this is what lets
// KSK@keyword carry the keyword as its first meta string). URIs are
// immutable; accessors return copies.
type URI struct {
	keyType     string
	routingKey  []byte
	sharedKey   []byte
	extra       []byte
	metaStrings []string
}

var (
	// http(s)://host/ carrier prefix, then an optional scheme name like
	// freenet:, web+hyphanet:, ext+hypha:.
	uriHostPrefix   = regexp.MustCompile(`^(?i:https?)://[^/]+/+`)
	uriSchemePrefix = regexp.MustCompile(`^(?i:(?:ext\+|web\+)?(?:freenet|hyphanet|hypha):)`)
)

func validKeyType(t string) bool {
	switch t {
	case KeyTypeUSK, KeyTypeKSK, KeyTypeSSK, KeyTypeCHK:
		return true
	}
	return false
}

// NewURI builds a URI from components. keyType is case-insensitive; byte
// slices and meta strings are copied.
func NewURI(keyType string, routingKey, sharedKey, extra []byte, metaStrings []string) (*URI, error) {
	t := strings.ToUpper(strings.TrimSpace(keyType))
	if !validKeyType(t) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKeyType, keyType)
	}
	return &URI{
		keyType:     t,
		routingKey:  bytes.Clone(routingKey),
		sharedKey:   bytes.Clone(sharedKey),
		extra:       bytes.Clone(extra),
		metaStrings: append([]string(nil), metaStrings...),
	}, nil
}

// ParseURI parses the text form.
func ParseURI(raw string) (*URI, error) {
	s := strings.TrimSpace(raw)
	if m := uriHostPrefix.FindString(s); m != "" {
		s = s[len(m):]
	}
	if m := uriSchemePrefix.FindString(s); m != "" {
		s = s[len(m):]
	}
	s = strings.TrimLeft(s, "/")

	// Decode a fully percent-encoded URI, but only when no structural
	// character survived encoding; otherwise decoding could corrupt meta
	// strings that legitimately contain %XX sequences.
	if !strings.ContainsAny(s, "@/") {
		dec, err := url.PathUnescape(s)
		if err != nil {
			return nil, newURIError(raw, fmt.Errorf("%w: bad percent encoding: %v", ErrMalformedURI, err))
		}
		s = dec
	}

	at := strings.Index(s, "@")
	if at < 0 {
		return nil, newURIError(raw, fmt.Errorf("%w: missing '@'", ErrMalformedURI))
	}
	keyType := strings.ToUpper(strings.TrimSpace(s[:at]))
	if !validKeyType(keyType) {
		return nil, newURIError(raw, fmt.Errorf("%w: %q", ErrUnknownKeyType, s[:at]))
	}

	rest := s[at+1:]
	keysPart := rest
	path := ""
	hasPath := false
	if slash := strings.Index(rest, "/"); slash >= 0 {
		keysPart = rest[:slash]
		path = rest[slash+1:]
		// An empty path after a '/' still counts: a trailing slash yields
		// one empty meta string, keeping serialization round trips exact.
		hasPath = true
	}

	u := &URI{keyType: keyType}
	routingKey, sharedKey, extra, ok := decodeKeyTriple(keysPart)
	if ok {
		u.routingKey, u.sharedKey, u.extra = routingKey, sharedKey, extra
	} else {
		// Not a full triple: the whole remainder is path.
		path = rest
		hasPath = rest != ""
	}

	if hasPath {
		for _, seg := range strings.Split(path, "/") {
			dec, err := url.PathUnescape(seg)
			if err != nil {
				return nil, newURIError(raw, fmt.Errorf("%w: bad percent encoding in %q: %v", ErrMalformedURI, seg, err))
			}
			u.metaStrings = append(u.metaStrings, dec)
		}
	}
	Debug("parsed %s URI with %d meta strings", u.keyType, len(u.metaStrings))
	return u, nil
}

// decodeKeyTriple accepts exactly three comma-separated non-empty Base64
// fields; anything else degrades to no keys.
func decodeKeyTriple(keysPart string) (routingKey, sharedKey, extra []byte, ok bool) {
	fields := strings.Split(keysPart, ",")
	if len(fields) != 3 {
		return nil, nil, nil, false
	}
	decoded := make([][]byte, 3)
	for i, f := range fields {
		if f == "" {
			return nil, nil, nil, false
		}
		d, err := Base64Decode(f)
		if err != nil {
			return nil, nil, nil, false
		}
		decoded[i] = d
	}
	return decoded[0], decoded[1], decoded[2], true
}

// String renders the canonical text form with no prefix.
func (u *URI) String() string {
	return u.Format("", false)
}

// Format renders the text form with an optional scheme prefix; when
// pureASCII is set, non-ASCII runes in meta strings are percent-encoded too.
func (u *URI) Format(prefix string, pureASCII bool) string {
	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteString(u.keyType)
	sb.WriteByte('@')
	if u.HasKeys() {
		sb.WriteString(Base64Encode(u.routingKey))
		if u.sharedKey != nil {
			sb.WriteByte(',')
			sb.WriteString(Base64Encode(u.sharedKey))
			if u.extra != nil {
				sb.WriteByte(',')
				sb.WriteString(Base64Encode(u.extra))
			}
		}
	}
	for i, m := range u.metaStrings {
		// With no keys the first meta string follows '@' directly.
		if u.HasKeys() || i > 0 {
			sb.WriteByte('/')
		}
		sb.WriteString(escapeMetaString(m, pureASCII))
	}
	return sb.String()
}

const metaUnreserved = "-_.~"

func escapeMetaString(s string, pureASCII bool) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch {
		case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b >= '0' && b <= '9',
			strings.IndexByte(metaUnreserved, b) >= 0:
			sb.WriteByte(b)
		case b >= 0x80 && !pureASCII:
			sb.WriteByte(b)
		default:
			fmt.Fprintf(&sb, "%%%02X", b)
		}
	}
	return sb.String()
}

// KeyType returns the canonical upper-case key type.
func (u *URI) KeyType() string { return u.keyType }

// HasKeys reports whether the URI carries the routingKey,sharedKey,extra
// triple.
func (u *URI) HasKeys() bool { return u.routingKey != nil }

// RoutingKey returns a copy of the routing key bytes, or nil.
func (u *URI) RoutingKey() []byte { return bytes.Clone(u.routingKey) }

// SharedKey returns a copy of the shared key bytes, or nil.
func (u *URI) SharedKey() []byte { return bytes.Clone(u.sharedKey) }

// Extra returns a copy of the extra metadata bytes, or nil.
func (u *URI) Extra() []byte { return bytes.Clone(u.extra) }

// MetaStrings returns a copy of the ordered meta strings.
func (u *URI) MetaStrings() []string { return append([]string(nil), u.metaStrings...) }

// Equal reports structural equality of every component.
func (u *URI) Equal(other *URI) bool {
	if other == nil {
		return false
	}
	if u.keyType != other.keyType ||
		!bytes.Equal(u.routingKey, other.routingKey) ||
		!bytes.Equal(u.sharedKey, other.sharedKey) ||
		!bytes.Equal(u.extra, other.extra) ||
		len(u.metaStrings) != len(other.metaStrings) {
		return false
	}
	for i := range u.metaStrings {
		if u.metaStrings[i] != other.metaStrings[i] {
			return false
		}
	}
	return true
}
