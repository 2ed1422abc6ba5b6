package fpp

import (
	"golang.org/x/crypto/sha3"

	"github.com/floatpool/go-fpp/secp256k1"
)

const (
	// nullifierDomain separates spend markers from every other use of
	// the hash in this protocol.
	nullifierDomain = "fpp/nullifier/v1"

	// keyImageDomain seeds the per-public-key hash point Hp(P) shared by
	// key images and the ring signature. Both sides must use the same
	// Hp or linkability breaks.
	keyImageDomain = "fpp/key-image/v1"
)

// NullifierSize is the width of a spend marker.
const NullifierSize = 32

// Nullifier derives the one-way spend marker for a coin:
// H(H(id ‖ secret) ‖ domainTag). Deterministic in its inputs and
// unlinkable to the coin id without the secret. This function only
// computes the value; rejecting a reused nullifier is the ledger's job.
func Nullifier(coinID string, secret []byte) []byte {
	inner := sha3.New256()
	inner.Write([]byte(coinID))
	inner.Write(secret)

	outer := sha3.New256()
	outer.Write(inner.Sum(nil))
	outer.Write([]byte(nullifierDomain))
	return outer.Sum(nil)
}

// KeyImage computes x·Hp(x·G) for the private scalar x. The image is
// deterministic per key, so two ring signatures from the same key carry
// the same image regardless of message or ring, which is what lets the
// ledger link double-spends across otherwise-unlinkable signatures.
func KeyImage(priv *secp256k1.Scalar) (*secp256k1.Point, error) {
	pub := secp256k1.BaseMul(priv)
	hp, err := hashPointForKey(pub)
	if err != nil {
		return nil, err
	}
	return hp.ScalarMul(priv), nil
}

// hashPointForKey maps a public key to its hash point Hp(P).
func hashPointForKey(pub *secp256k1.Point) (*secp256k1.Point, error) {
	data := append([]byte(keyImageDomain), pub.Encode()...)
	return secp256k1.HashToPoint(data)
}
