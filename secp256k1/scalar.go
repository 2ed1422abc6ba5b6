package secp256k1

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// ScalarSize is the encoded width of a scalar at the module boundary.
const ScalarSize = 32

// Scalar is an integer in [0, N). Operations return new values; a Scalar
// is never mutated after construction, so private keys and blinding
// factors can be shared across goroutines freely.
type Scalar struct {
	v *big.Int
}

// NewScalar returns v mod N. Negative input is corrected by adding the
// modulus, matching the reduction convention used throughout the engine.
func NewScalar(v *big.Int) *Scalar {
	r := new(big.Int).Mod(v, N)
	if r.Sign() < 0 {
		r.Add(r, N)
	}
	return &Scalar{v: r}
}

// ScalarFromBytes interprets b as a big-endian integer reduced mod N.
func ScalarFromBytes(b []byte) *Scalar {
	return NewScalar(new(big.Int).SetBytes(b))
}

// ScalarFromUint64 returns the scalar u.
func ScalarFromUint64(u uint64) *Scalar {
	return &Scalar{v: new(big.Int).SetUint64(u)}
}

// RandomScalar draws a fresh uniform nonzero scalar from crypto/rand.
// An unavailable platform RNG is unrecoverable; the error must never be
// papered over with a weaker source.
func RandomScalar() (*Scalar, error) {
	for {
		v, err := rand.Int(rand.Reader, N)
		if err != nil {
			return nil, fmt.Errorf("secp256k1: secure randomness unavailable: %w", err)
		}
		if v.Sign() != 0 {
			return &Scalar{v: v}, nil
		}
	}
}

// Add returns s + t mod N.
func (s *Scalar) Add(t *Scalar) *Scalar {
	return NewScalar(new(big.Int).Add(s.v, t.v))
}

// Sub returns s - t mod N.
func (s *Scalar) Sub(t *Scalar) *Scalar {
	return NewScalar(new(big.Int).Sub(s.v, t.v))
}

// Mul returns s · t mod N.
func (s *Scalar) Mul(t *Scalar) *Scalar {
	return NewScalar(new(big.Int).Mul(s.v, t.v))
}

// Negate returns -s mod N.
func (s *Scalar) Negate() *Scalar {
	return NewScalar(new(big.Int).Neg(s.v))
}

// Inverse returns s⁻¹ mod N.
func (s *Scalar) Inverse() (*Scalar, error) {
	inv, err := ModInverse(s.v, N)
	if err != nil {
		return nil, err
	}
	return &Scalar{v: inv}, nil
}

// Equal reports whether s and t are the same scalar.
func (s *Scalar) Equal(t *Scalar) bool {
	return s.v.Cmp(t.v) == 0
}

// IsZero reports whether s is zero.
func (s *Scalar) IsZero() bool {
	return s.v.Sign() == 0
}

// BigInt returns a copy of the underlying integer.
func (s *Scalar) BigInt() *big.Int {
	return new(big.Int).Set(s.v)
}

// Bytes returns the fixed-width 32-byte big-endian encoding.
func (s *Scalar) Bytes() []byte {
	b := make([]byte, ScalarSize)
	s.v.FillBytes(b)
	return b
}
