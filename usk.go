package crypta

import (
	"fmt"
	"strconv"
)

// USK is an updatable subspace key: a ClientSSK plus a suggested edition
// number. The network stores each edition under the docName-edition SSK;
// the USK form lets clients ask for "edition N or later".
type USK struct {
	ssk              *ClientSSK
	suggestedEdition int64
}

// NewUSK wraps an SSK with a non-negative suggested edition.
func NewUSK(ssk *ClientSSK, suggestedEdition int64) (*USK, error) {
	if ssk == nil {
		return nil, fmt.Errorf("crypta: USK requires an underlying SSK")
	}
	if suggestedEdition < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeEdition, suggestedEdition)
	}
	return &USK{ssk: ssk, suggestedEdition: suggestedEdition}, nil
}

// USKFromURI consumes the first two meta strings as (docName, edition),
// re-deriving the underlying SSK through the equivalent SSK URI.
func USKFromURI(u *URI) (*USK, error) {
	if u.KeyType() != KeyTypeUSK {
		return nil, fmt.Errorf("%w: expected USK, got %s", ErrUnknownKeyType, u.KeyType())
	}
	docName, edition, err := uskMetaComponents(u)
	if err != nil {
		return nil, err
	}
	sskURI, err := NewURI(KeyTypeSSK, u.RoutingKey(), u.SharedKey(), u.Extra(), []string{docName})
	if err != nil {
		return nil, err
	}
	ssk, err := ClientSSKFromURI(sskURI)
	if err != nil {
		return nil, err
	}
	return NewUSK(ssk, edition)
}

func uskMetaComponents(u *URI) (string, int64, error) {
	metas := u.MetaStrings()
	if len(metas) < 2 {
		return "", 0, fmt.Errorf("%w: USK URI needs docName and edition meta strings", ErrMalformedURI)
	}
	edition, err := strconv.ParseInt(metas[1], 10, 64)
	if err != nil || edition < 0 {
		return "", 0, fmt.Errorf("%w: %q", ErrNegativeEdition, metas[1])
	}
	return metas[0], edition, nil
}

// DocName returns the site's document name.
func (k *USK) DocName() string { return k.ssk.DocName() }

// SuggestedEdition returns the non-negative edition hint.
func (k *USK) SuggestedEdition() int64 { return k.suggestedEdition }

// SSK returns the underlying subspace key.
func (k *USK) SSK() *ClientSSK { return k.ssk }

// RoutingKey returns a copy of the subspace public-key hash.
func (k *USK) RoutingKey() []byte { return k.ssk.RoutingKey() }

// CryptoAlgorithm returns the algorithm tag.
func (k *USK) CryptoAlgorithm() CryptoAlgorithm { return k.ssk.CryptoAlgorithm() }

// TypeTag returns the SSK tag; USKs route as their underlying SSK.
func (k *USK) TypeTag() uint16 { return k.ssk.TypeTag() }

// EditionSSK projects the USK onto the concrete SSK storing the given
// edition, named docName-edition.
func (k *USK) EditionSSK(edition int64) (*ClientSSK, error) {
	if edition < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeEdition, edition)
	}
	name := fmt.Sprintf("%s-%d", k.ssk.DocName(), edition)
	return NewClientSSK(name, k.ssk.RoutingKey(), k.ssk.SharedKey(), k.ssk.CryptoAlgorithm(), k.ssk.PublicKey())
}

// URI returns the USK text-form components: docName then edition.
func (k *USK) URI() *URI {
	u, err := NewURI(KeyTypeUSK, k.ssk.RoutingKey(), k.ssk.SharedKey(), k.ssk.ExtraBytes(),
		[]string{k.ssk.DocName(), strconv.FormatInt(k.suggestedEdition, 10)})
	if err != nil {
		panic("crypta: validated USK failed URI build: " + err.Error())
	}
	return u
}
