// Package secp256k1 implements the group arithmetic the privacy core is
// built on: affine point operations over the secp256k1 curve y² = x³ + 7,
// scalar arithmetic mod the group order, and the domain-separated
// hash-to-scalar / hash-to-point derivations.
//
// The arithmetic is written out directly over math/big rather than
// delegating to a library, so that every reduction is explicit. The dcrd
// secp256k1 package is used only at the serialization boundary and as the
// reference implementation the tests cross-check against.
package secp256k1

import (
	"errors"
	"fmt"
	"math/big"

	dcrec "github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Encoded point sizes at the module boundary.
const (
	CompressedPointSize   = 33
	UncompressedPointSize = 65
)

var (
	// P is the field prime 2^256 - 2^32 - 977. P ≡ 3 (mod 4), which is
	// what makes the direct square root in hash-to-point work.
	P, _ = new(big.Int).SetString(
		"fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f", 16)

	// N is the group order.
	N, _ = new(big.Int).SetString(
		"fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", 16)

	gx, _ = new(big.Int).SetString(
		"79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798", 16)
	gy, _ = new(big.Int).SetString(
		"483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8", 16)

	curveB = big.NewInt(7)

	// sqrtExp = (P+1)/4, the exponent of the direct square root mod P.
	sqrtExp = new(big.Int).Rsh(new(big.Int).Add(P, big.NewInt(1)), 2)
)

var (
	ErrNotOnCurve    = errors.New("secp256k1: point is not on the curve")
	ErrNotInvertible = errors.New("secp256k1: value is not invertible")
)

// Point is an affine curve point. The zero value is not valid; points are
// obtained from NewPoint, Generator, AltGenerator, HashToPoint, ParsePoint
// or the group operations. The point at infinity is the group identity.
type Point struct {
	x, y *big.Int
	inf  bool
}

// Infinity returns the group identity.
func Infinity() *Point {
	return &Point{inf: true}
}

// NewPoint returns the affine point (x, y), rejecting coordinates that do
// not satisfy the curve equation. Off-curve input is a caller bug at the
// trust boundary, never silently tolerated.
func NewPoint(x, y *big.Int) (*Point, error) {
	p := &Point{x: new(big.Int).Set(x), y: new(big.Int).Set(y)}
	if !p.IsOnCurve() {
		return nil, ErrNotOnCurve
	}
	return p, nil
}

// Generator returns the standard base point G.
func Generator() *Point {
	return &Point{x: new(big.Int).Set(gx), y: new(big.Int).Set(gy)}
}

// IsInfinity reports whether p is the group identity.
func (p *Point) IsInfinity() bool {
	return p.inf
}

// X returns a copy of the x coordinate. Nil for the identity.
func (p *Point) X() *big.Int {
	if p.inf {
		return nil
	}
	return new(big.Int).Set(p.x)
}

// Y returns a copy of the y coordinate. Nil for the identity.
func (p *Point) Y() *big.Int {
	if p.inf {
		return nil
	}
	return new(big.Int).Set(p.y)
}

// IsOnCurve reports whether p satisfies y² = x³ + 7 mod P. The identity
// is on the curve by convention.
func (p *Point) IsOnCurve() bool {
	if p.inf {
		return true
	}
	if p.x.Sign() < 0 || p.x.Cmp(P) >= 0 || p.y.Sign() < 0 || p.y.Cmp(P) >= 0 {
		return false
	}
	y2 := new(big.Int).Mul(p.y, p.y)
	y2.Mod(y2, P)
	return y2.Cmp(rhs(p.x)) == 0
}

// rhs computes x³ + 7 mod P.
func rhs(x *big.Int) *big.Int {
	r := new(big.Int).Mul(x, x)
	r.Mod(r, P)
	r.Mul(r, x)
	r.Add(r, curveB)
	r.Mod(r, P)
	return r
}

// Equal reports whether p and q are the same group element.
func (p *Point) Equal(q *Point) bool {
	if p.inf || q.inf {
		return p.inf && q.inf
	}
	return p.x.Cmp(q.x) == 0 && p.y.Cmp(q.y) == 0
}

// Copy returns an independent copy of p.
func (p *Point) Copy() *Point {
	if p.inf {
		return Infinity()
	}
	return &Point{x: new(big.Int).Set(p.x), y: new(big.Int).Set(p.y)}
}

// Negate returns -p.
func (p *Point) Negate() *Point {
	if p.inf {
		return Infinity()
	}
	ny := new(big.Int).Neg(p.y)
	ny.Mod(ny, P)
	return &Point{x: new(big.Int).Set(p.x), y: ny}
}

// Add returns p + q. Either operand being the identity returns the other
// unchanged; adding a point to its negation returns the identity; adding
// a point to itself falls through to doubling.
func (p *Point) Add(q *Point) *Point {
	if p.inf {
		return q.Copy()
	}
	if q.inf {
		return p.Copy()
	}
	if p.x.Cmp(q.x) == 0 {
		if p.y.Cmp(q.y) != 0 {
			// q = -p
			return Infinity()
		}
		return p.Double()
	}

	// λ = (y2 - y1) / (x2 - x1)
	num := new(big.Int).Sub(q.y, p.y)
	den := new(big.Int).Sub(q.x, p.x)
	return p.chord(q, num, den)
}

// Double returns 2p, the tangent case of addition.
func (p *Point) Double() *Point {
	if p.inf || p.y.Sign() == 0 {
		return Infinity()
	}

	// λ = 3x² / 2y
	num := new(big.Int).Mul(p.x, p.x)
	num.Mul(num, big.NewInt(3))
	den := new(big.Int).Lsh(p.y, 1)
	return p.chord(p, num, den)
}

// chord completes an addition given the slope numerator and denominator.
// Both are reduced into [0, P) before inverting, so negative differences
// from the subtraction above never reach the truncating big.Int ops.
func (p *Point) chord(q *Point, num, den *big.Int) *Point {
	num.Mod(num, P)
	den.Mod(den, P)

	denInv, err := ModInverse(den, P)
	if err != nil {
		// Zero denominators are handled before this point is reached.
		panic(fmt.Sprintf("secp256k1: slope denominator not invertible: %v", err))
	}

	lambda := new(big.Int).Mul(num, denInv)
	lambda.Mod(lambda, P)

	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, p.x)
	x3.Sub(x3, q.x)
	x3.Mod(x3, P)

	y3 := new(big.Int).Sub(p.x, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, p.y)
	y3.Mod(y3, P)

	return &Point{x: x3, y: y3}
}

// ScalarMul returns k·p by double-and-add over the bits of k. k is
// already reduced mod N by construction of Scalar. Multiplying the
// identity, or by zero, yields the identity.
func (p *Point) ScalarMul(k *Scalar) *Point {
	if p.inf || k.IsZero() {
		return Infinity()
	}

	acc := Infinity()
	addend := p.Copy()
	for i := 0; i < k.v.BitLen(); i++ {
		if k.v.Bit(i) == 1 {
			acc = acc.Add(addend)
		}
		addend = addend.Double()
	}
	return acc
}

// BaseMul returns k·G.
func BaseMul(k *Scalar) *Point {
	return Generator().ScalarMul(k)
}

// Encode returns the 33-byte compressed encoding of p. The identity,
// which never appears on the wire but does appear in transcript hashing,
// encodes as 33 zero bytes.
func (p *Point) Encode() []byte {
	if p.inf {
		return make([]byte, CompressedPointSize)
	}
	return p.toDcrd().SerializeCompressed()
}

// EncodeUncompressed returns the 65-byte 0x04-prefixed encoding of p.
func (p *Point) EncodeUncompressed() []byte {
	if p.inf {
		return make([]byte, UncompressedPointSize)
	}
	return p.toDcrd().SerializeUncompressed()
}

func (p *Point) toDcrd() *dcrec.PublicKey {
	var fx, fy dcrec.FieldVal
	fx.SetByteSlice(p.x.Bytes())
	fy.SetByteSlice(p.y.Bytes())
	return dcrec.NewPublicKey(&fx, &fy)
}

// ParsePoint decodes a 33-byte compressed or 65-byte uncompressed point,
// rejecting anything that is not a valid curve point.
func ParsePoint(b []byte) (*Point, error) {
	pk, err := dcrec.ParsePubKey(b)
	if err != nil {
		return nil, fmt.Errorf("secp256k1: %w", err)
	}
	raw := pk.SerializeUncompressed()
	x := new(big.Int).SetBytes(raw[1:33])
	y := new(big.Int).SetBytes(raw[33:])
	return NewPoint(x, y)
}

// ModInverse computes a⁻¹ mod m by the extended Euclidean algorithm.
// The input is first reduced into [0, m), and a negative Bézout
// coefficient is corrected by adding the modulus; truncating remainders
// on signed intermediates would silently produce wrong inverses.
func ModInverse(a, m *big.Int) (*big.Int, error) {
	a = new(big.Int).Mod(a, m)
	if a.Sign() == 0 {
		return nil, ErrNotInvertible
	}

	t0, t1 := big.NewInt(0), big.NewInt(1)
	r0, r1 := new(big.Int).Set(m), a
	for r1.Sign() != 0 {
		q := new(big.Int).Div(r0, r1)
		t0, t1 = t1, new(big.Int).Sub(t0, new(big.Int).Mul(q, t1))
		r0, r1 = r1, new(big.Int).Sub(r0, new(big.Int).Mul(q, r1))
	}
	if r0.Cmp(big.NewInt(1)) != 0 {
		return nil, ErrNotInvertible
	}
	if t0.Sign() < 0 {
		t0.Add(t0, m)
	}
	return t0, nil
}
