package fpp

import (
	"github.com/floatpool/go-fpp/secp256k1"
)

// Commitment is a Pedersen commitment value·G + blinder·H. The point is
// public; the value and blinder stay with the committer. Created once at
// mint time and never recomputed except for verification.
type Commitment struct {
	Point   *secp256k1.Point
	Value   uint64
	Blinder *secp256k1.Scalar
}

// Commit commits to value under the given blinding factor. A nil blinder
// is drawn fresh from crypto/rand. Hiding rests on the blinder being
// uniform, binding on the unknown discrete-log relation between G and H;
// neither is re-proven here.
func Commit(value uint64, blinder *secp256k1.Scalar) (*Commitment, error) {
	if blinder == nil {
		var err error
		blinder, err = secp256k1.RandomScalar()
		if err != nil {
			return nil, err
		}
	}

	vG := secp256k1.BaseMul(secp256k1.ScalarFromUint64(value))
	rH := secp256k1.AltGenerator().ScalarMul(blinder)

	return &Commitment{
		Point:   vG.Add(rH),
		Value:   value,
		Blinder: blinder,
	}, nil
}

// VerifyCommitment recomputes value·G + blinder·H and compares by point
// equality.
func VerifyCommitment(point *secp256k1.Point, value uint64, blinder *secp256k1.Scalar) bool {
	vG := secp256k1.BaseMul(secp256k1.ScalarFromUint64(value))
	rH := secp256k1.AltGenerator().ScalarMul(blinder)
	return vG.Add(rH).Equal(point)
}

// Verify checks the commitment against its own opening.
func (c *Commitment) Verify() bool {
	return VerifyCommitment(c.Point, c.Value, c.Blinder)
}
