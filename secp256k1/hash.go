package secp256k1

import (
	"errors"
	"math/big"

	"golang.org/x/crypto/sha3"
)

// maxHashToPointTries bounds the counter in HashToPoint. Roughly half of
// all x candidates are quadratic residues, so exhausting 256 counters has
// negligible probability and indicates a broken hash, not bad input.
const maxHashToPointTries = 256

// altGeneratorTag seeds the second Pedersen generator H. Derived by
// hash-to-point so no party knows the discrete log of H with respect to G.
const altGeneratorTag = "fpp/pedersen-generator-h/v1"

// ErrHashToPointExhausted is returned when no counter value yields a
// curve point. Treat as a fatal internal error, never as retryable.
var ErrHashToPointExhausted = errors.New("secp256k1: hash-to-point exhausted all counter values")

// HashToScalar hashes the domain tag and all parts with SHA3-256 and
// reduces the digest mod N.
func HashToScalar(domain string, parts ...[]byte) *Scalar {
	h := sha3.New256()
	h.Write([]byte(domain))
	for _, part := range parts {
		h.Write(part)
	}
	return ScalarFromBytes(h.Sum(nil))
}

// HashToPoint deterministically maps data to a curve point. Candidate x
// coordinates are drawn from SHA3-256(data ‖ counter); for each, the
// square root y = (x³+7)^((P+1)/4) mod P is computed directly (valid
// because P ≡ 3 mod 4) and accepted once y² ≡ x³+7 holds.
func HashToPoint(data []byte) (*Point, error) {
	for counter := 0; counter < maxHashToPointTries; counter++ {
		h := sha3.New256()
		h.Write(data)
		h.Write([]byte{byte(counter)})

		x := new(big.Int).SetBytes(h.Sum(nil))
		x.Mod(x, P)

		y2 := rhs(x)
		y := new(big.Int).Exp(y2, sqrtExp, P)

		check := new(big.Int).Mul(y, y)
		check.Mod(check, P)
		if check.Cmp(y2) == 0 {
			return &Point{x: x, y: y}, nil
		}
	}
	return nil, ErrHashToPointExhausted
}

func mustHashToPoint(data []byte) *Point {
	p, err := HashToPoint(data)
	if err != nil {
		panic(err)
	}
	return p
}

var altGen = mustHashToPoint([]byte(altGeneratorTag))

// AltGenerator returns the second generator H used by Pedersen
// commitments. H is fixed for the lifetime of the protocol and has no
// known discrete-log relation to G.
func AltGenerator() *Point {
	return altGen.Copy()
}
