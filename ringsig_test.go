package fpp

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/floatpool/go-fpp/secp256k1"
)

// testRing builds a ring of n random public keys with priv's key placed
// at signerIdx.
func testRing(t *testing.T, n int, priv *secp256k1.Scalar, signerIdx int) []*secp256k1.Point {
	t.Helper()

	ring := make([]*secp256k1.Point, n)
	for i := range ring {
		if i == signerIdx {
			ring[i] = secp256k1.BaseMul(priv)
			continue
		}
		k, err := secp256k1.RandomScalar()
		require.NoError(t, err)
		ring[i] = secp256k1.BaseMul(k)
	}
	return ring
}

func TestRingSignatureRoundTrip(t *testing.T) {
	for _, n := range []int{2, 5, 11, 20} {
		t.Run(fmt.Sprintf("ring=%d", n), func(t *testing.T) {
			for _, signerIdx := range []int{0, n / 2, n - 1} {
				priv, err := secp256k1.RandomScalar()
				require.NoError(t, err)

				ring := testRing(t, n, priv, signerIdx)
				sig, err := Sign([]byte("transfer authorization"), priv, ring, signerIdx)
				require.NoError(t, err)

				res := sig.Verify()
				require.True(t, res.Valid)
				require.Empty(t, res.Errors)
			}
		})
	}
}

func TestRingSignatureTamperedResponse(t *testing.T) {
	priv, err := secp256k1.RandomScalar()
	require.NoError(t, err)
	ring := testRing(t, 5, priv, 3)

	sig, err := Sign([]byte("msg"), priv, ring, 3)
	require.NoError(t, err)

	for i := 0; i < len(ring); i++ {
		tampered := sig.S[i].Bytes()
		tampered[31] ^= 0x01
		original := sig.S[i]
		sig.S[i] = secp256k1.ScalarFromBytes(tampered)

		res := sig.Verify()
		require.False(t, res.Valid)
		require.NotEmpty(t, res.Errors)
		requireChainError(t, res)

		sig.S[i] = original
	}
}

func TestRingSignatureTamperedChallenge(t *testing.T) {
	priv, err := secp256k1.RandomScalar()
	require.NoError(t, err)
	ring := testRing(t, 5, priv, 0)

	sig, err := Sign([]byte("msg"), priv, ring, 0)
	require.NoError(t, err)

	for i := 0; i < len(ring); i++ {
		tampered := sig.C[i].Bytes()
		tampered[0] ^= 0x80
		original := sig.C[i]
		sig.C[i] = secp256k1.ScalarFromBytes(tampered)

		res := sig.Verify()
		require.False(t, res.Valid)
		requireChainError(t, res)

		sig.C[i] = original
	}
}

// requireChainError asserts the result carries a broken-chain or
// open-loop error, not only structural ones.
func requireChainError(t *testing.T, res *VerifyResult) {
	t.Helper()
	for _, err := range res.Errors {
		var cbe *ChainBreakError
		if errors.As(err, &cbe) || errors.Is(err, ErrLoopNotClosed) {
			return
		}
	}
	t.Fatalf("no chain error reported: %v", res.Errors)
}

func TestRingSignatureTamperedMessage(t *testing.T) {
	priv, err := secp256k1.RandomScalar()
	require.NoError(t, err)
	ring := testRing(t, 5, priv, 1)

	sig, err := Sign([]byte("original"), priv, ring, 1)
	require.NoError(t, err)

	sig.Message = []byte("forged")
	res := sig.Verify()
	require.False(t, res.Valid)
}

func TestRingSignatureWrongKeyImage(t *testing.T) {
	priv, err := secp256k1.RandomScalar()
	require.NoError(t, err)
	other, err := secp256k1.RandomScalar()
	require.NoError(t, err)
	ring := testRing(t, 5, priv, 2)

	sig, err := Sign([]byte("msg"), priv, ring, 2)
	require.NoError(t, err)

	sig.KeyImage, err = KeyImage(other)
	require.NoError(t, err)

	res := sig.Verify()
	require.False(t, res.Valid)
}

func TestSignPreconditions(t *testing.T) {
	priv, err := secp256k1.RandomScalar()
	require.NoError(t, err)
	ring := testRing(t, 5, priv, 0)

	_, err = Sign([]byte("msg"), priv, ring[:1], 0)
	require.ErrorIs(t, err, ErrRingTooSmall)

	_, err = Sign([]byte("msg"), priv, ring, 7)
	require.ErrorIs(t, err, ErrSignerIndexOutOfRange)

	_, err = Sign([]byte("msg"), priv, ring, -1)
	require.ErrorIs(t, err, ErrSignerIndexOutOfRange)

	// Signer index pointing at someone else's key.
	_, err = Sign([]byte("msg"), priv, ring, 3)
	require.ErrorIs(t, err, ErrSignerKeyMismatch)
}

func TestVerifyStructuralErrors(t *testing.T) {
	priv, err := secp256k1.RandomScalar()
	require.NoError(t, err)
	ring := testRing(t, 5, priv, 0)

	sig, err := Sign([]byte("msg"), priv, ring, 0)
	require.NoError(t, err)

	short := &RingSignature{
		KeyImage: sig.KeyImage,
		Members:  sig.Members[:1],
		C:        sig.C[:1],
		S:        sig.S[:1],
		L:        sig.L[:1],
		R:        sig.R[:1],
		Message:  sig.Message,
	}
	res := short.Verify()
	require.False(t, res.Valid)
	require.Contains(t, res.Errors, ErrRingTooSmall)

	mismatched := &RingSignature{
		KeyImage: sig.KeyImage,
		Members:  sig.Members,
		C:        sig.C[:3],
		S:        sig.S,
		L:        sig.L,
		R:        sig.R,
		Message:  sig.Message,
	}
	res = mismatched.Verify()
	require.False(t, res.Valid)
	require.Contains(t, res.Errors, ErrComponentLengthMismatch)
}

func TestRingSignatureUnlinkableResponses(t *testing.T) {
	// Two signatures over the same message and ring must differ in their
	// randomizers; identical responses would mean catastrophic reuse.
	priv, err := secp256k1.RandomScalar()
	require.NoError(t, err)
	ring := testRing(t, 5, priv, 2)

	s1, err := Sign([]byte("msg"), priv, ring, 2)
	require.NoError(t, err)
	s2, err := Sign([]byte("msg"), priv, ring, 2)
	require.NoError(t, err)

	require.False(t, s1.S[2].Equal(s2.S[2]))
}
