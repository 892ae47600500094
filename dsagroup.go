package crypta

import (
	"fmt"
	"math/big"
)

// DSAGroup is an immutable (p, q, g) domain-parameter set shared by every
// key derived in a subspace.
type DSAGroup struct {
	p, q, g *big.Int
}

// The default group is built over the 1024-bit safe prime from the Oakley
// Group 2 (RFC 2409 6.2) modulus: q = (p-1)/2, g = 2^2, which generates the
// order-q subgroup of quadratic residues.
const defaultGroupPHex = "FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD1" +
	"29024E088A67CC74020BBEA63B139B22514A08798E3404DD" +
	"EF9519B3CD3A431B302B0A6DF25F14374FE1356D6D51C245" +
	"E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7ED" +
	"EE386BFB5A899FA5AE9F24117C4B1FE649286651ECE65381" +
	"FFFFFFFFFFFFFFFF"

var defaultGroup *DSAGroup

func init() {
	p, ok := new(big.Int).SetString(defaultGroupPHex, 16)
	if !ok {
		panic("crypta: bad default group modulus")
	}
	q := new(big.Int).Sub(p, big.NewInt(1))
	q.Rsh(q, 1)
	defaultGroup = &DSAGroup{p: p, q: q, g: big.NewInt(4)}
}

// DefaultDSAGroup returns the fixed default domain-parameter set. The
// returned group is shared and must not be mutated.
func DefaultDSAGroup() *DSAGroup {
	return defaultGroup
}

// NewDSAGroup builds a group from caller-supplied parameters. Primality is
// the caller's responsibility; only structural sanity is checked here.
func NewDSAGroup(p, q, g *big.Int) (*DSAGroup, error) {
	if p == nil || q == nil || g == nil {
		return nil, fmt.Errorf("crypta: DSA group parameters must be non-nil")
	}
	if p.Sign() <= 0 || q.Sign() <= 0 {
		return nil, fmt.Errorf("crypta: DSA group moduli must be positive")
	}
	if g.Cmp(big.NewInt(1)) <= 0 || g.Cmp(p) >= 0 {
		return nil, fmt.Errorf("crypta: DSA generator must lie in (1, p)")
	}
	if q.Cmp(p) >= 0 {
		return nil, fmt.Errorf("crypta: DSA subgroup order must be smaller than the modulus")
	}
	return &DSAGroup{
		p: new(big.Int).Set(p),
		q: new(big.Int).Set(q),
		g: new(big.Int).Set(g),
	}, nil
}

// P returns the prime modulus.
func (grp *DSAGroup) P() *big.Int { return new(big.Int).Set(grp.p) }

// Q returns the subgroup order.
func (grp *DSAGroup) Q() *big.Int { return new(big.Int).Set(grp.q) }

// G returns the generator.
func (grp *DSAGroup) G() *big.Int { return new(big.Int).Set(grp.g) }

// WriteToStream writes the group as MPI(p) MPI(q) MPI(g).
func (grp *DSAGroup) WriteToStream(s *Stream) error {
	if err := s.WriteMPI(grp.p); err != nil {
		return fmt.Errorf("failed to write group modulus: %w", err)
	}
	if err := s.WriteMPI(grp.q); err != nil {
		return fmt.Errorf("failed to write subgroup order: %w", err)
	}
	if err := s.WriteMPI(grp.g); err != nil {
		return fmt.Errorf("failed to write generator: %w", err)
	}
	return nil
}

// DSAGroupFromStream reads a group written by WriteToStream.
func DSAGroupFromStream(s *Stream) (*DSAGroup, error) {
	p, err := s.ReadMPI()
	if err != nil {
		return nil, fmt.Errorf("failed to read group modulus: %w", err)
	}
	q, err := s.ReadMPI()
	if err != nil {
		return nil, fmt.Errorf("failed to read subgroup order: %w", err)
	}
	g, err := s.ReadMPI()
	if err != nil {
		return nil, fmt.Errorf("failed to read generator: %w", err)
	}
	return NewDSAGroup(p, q, g)
}

// Equal reports whether two groups have identical parameters.
func (grp *DSAGroup) Equal(other *DSAGroup) bool {
	if other == nil {
		return false
	}
	return grp.p.Cmp(other.p) == 0 && grp.q.Cmp(other.q) == 0 && grp.g.Cmp(other.g) == 0
}
