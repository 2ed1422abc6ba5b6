package fpp

import (
	"github.com/floatpool/go-fpp/secp256k1"
)

// Ring size policy. Sign and Verify themselves only require n ≥ 2; the
// policy bounds are enforced by the transaction builder, which is the
// caller that owns anonymity policy.
const (
	MinRingSize     = 5
	MaxRingSize     = 20
	DefaultRingSize = 11
)

const ringChallengeDomain = "fpp/ring-challenge/v1"

// RingSignature proves that one of Members authorized Message without
// revealing which, and carries the signer's key image for double-spend
// linking. All component slices have exactly len(Members) entries.
type RingSignature struct {
	KeyImage *secp256k1.Point
	Members  []*secp256k1.Point
	C        []*secp256k1.Scalar
	S        []*secp256k1.Scalar
	L        []*secp256k1.Point
	R        []*secp256k1.Point
	Message  []byte
}

// Sign produces an LSAG signature over message for the given ring, with
// the signer's key at signerIdx. Every randomizer is drawn fresh from
// crypto/rand on each call; reuse of α across two signatures from the
// same key leaks the private scalar.
func Sign(message []byte, priv *secp256k1.Scalar, ring []*secp256k1.Point, signerIdx int) (*RingSignature, error) {
	n := len(ring)
	if n < 2 {
		return nil, ErrRingTooSmall
	}
	if signerIdx < 0 || signerIdx >= n {
		return nil, ErrSignerIndexOutOfRange
	}

	pub := secp256k1.BaseMul(priv)
	if !ring[signerIdx].Equal(pub) {
		return nil, ErrSignerKeyMismatch
	}

	image, err := KeyImage(priv)
	if err != nil {
		return nil, err
	}

	hpSigner, err := hashPointForKey(pub)
	if err != nil {
		return nil, err
	}

	var (
		c = make([]*secp256k1.Scalar, n)
		s = make([]*secp256k1.Scalar, n)
		l = make([]*secp256k1.Point, n)
		r = make([]*secp256k1.Point, n)
	)

	// Seed the chain at the signer's slot with a fresh randomizer:
	// L_s = α·G, R_s = α·Hp(P_s).
	alpha, err := secp256k1.RandomScalar()
	if err != nil {
		return nil, err
	}
	l[signerIdx] = secp256k1.BaseMul(alpha)
	r[signerIdx] = hpSigner.ScalarMul(alpha)
	c[(signerIdx+1)%n] = ringChallenge(message, image, l[signerIdx], r[signerIdx])

	// Walk the ring from s+1 back around to s, forging each non-signer
	// slot with a random response.
	for i := (signerIdx + 1) % n; i != signerIdx; i = (i + 1) % n {
		s[i], err = secp256k1.RandomScalar()
		if err != nil {
			return nil, err
		}

		hp, err := hashPointForKey(ring[i])
		if err != nil {
			return nil, err
		}

		l[i] = secp256k1.BaseMul(s[i]).Add(ring[i].ScalarMul(c[i]))
		r[i] = hp.ScalarMul(s[i]).Add(image.ScalarMul(c[i]))
		c[(i+1)%n] = ringChallenge(message, image, l[i], r[i])
	}

	// Close the loop: s_s = α - c_s·x mod n.
	s[signerIdx] = alpha.Sub(c[signerIdx].Mul(priv))

	members := make([]*secp256k1.Point, n)
	for i, p := range ring {
		members[i] = p.Copy()
	}

	return &RingSignature{
		KeyImage: image,
		Members:  members,
		C:        c,
		S:        s,
		L:        l,
		R:        r,
		Message:  append([]byte(nil), message...),
	}, nil
}

// Verify recomputes L_i and R_i for every ring position from the public
// key and the published (c_i, s_i), rebuilds the challenge chain, and
// accepts only if the chain reproduces every published challenge and
// closes back to c[0]. All positions are checked so the result lists
// every break, not just the first.
func (sig *RingSignature) Verify() *VerifyResult {
	n := len(sig.Members)
	if n < 2 {
		return failedResult(ErrRingTooSmall)
	}
	if len(sig.C) != n || len(sig.S) != n || len(sig.L) != n || len(sig.R) != n {
		return failedResult(ErrComponentLengthMismatch)
	}
	for i := 0; i < n; i++ {
		if sig.Members[i] == nil || sig.C[i] == nil || sig.S[i] == nil || sig.L[i] == nil || sig.R[i] == nil {
			return failedResult(ErrComponentLengthMismatch)
		}
	}

	var errs []error
	for i := 0; i < n; i++ {
		hp, err := hashPointForKey(sig.Members[i])
		if err != nil {
			// Hash-to-point exhaustion is a fatal internal condition,
			// not a property of the signature.
			return failedResult(err)
		}

		li := secp256k1.BaseMul(sig.S[i]).Add(sig.Members[i].ScalarMul(sig.C[i]))
		ri := hp.ScalarMul(sig.S[i]).Add(sig.KeyImage.ScalarMul(sig.C[i]))

		if !li.Equal(sig.L[i]) || !ri.Equal(sig.R[i]) {
			errs = append(errs, &ChainBreakError{Index: i})
		}

		next := (i + 1) % n
		cNext := ringChallenge(sig.Message, sig.KeyImage, li, ri)
		if !cNext.Equal(sig.C[next]) {
			if next == 0 {
				errs = append(errs, ErrLoopNotClosed)
			} else {
				errs = append(errs, &ChainBreakError{Index: next})
			}
		}
	}

	return &VerifyResult{Valid: len(errs) == 0, Errors: errs}
}

// ringChallenge computes c_{i+1} = H(message ‖ keyImage ‖ L_i ‖ R_i).
func ringChallenge(message []byte, image, l, r *secp256k1.Point) *secp256k1.Scalar {
	return secp256k1.HashToScalar(ringChallengeDomain,
		message, image.Encode(), l.Encode(), r.Encode())
}
