package secp256k1

import (
	"math/big"
	"testing"

	dcrec "github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"
)

func TestGroupLaw(t *testing.T) {
	for i := 0; i < 8; i++ {
		a, err := RandomScalar()
		require.NoError(t, err)
		b, err := RandomScalar()
		require.NoError(t, err)

		sum := BaseMul(a).Add(BaseMul(b))
		direct := BaseMul(a.Add(b))
		require.True(t, sum.Equal(direct))
	}
}

func TestAddIdentity(t *testing.T) {
	k, err := RandomScalar()
	require.NoError(t, err)
	p := BaseMul(k)

	require.True(t, p.Add(Infinity()).Equal(p))
	require.True(t, Infinity().Add(p).Equal(p))
	require.True(t, Infinity().Add(Infinity()).IsInfinity())
}

func TestAddNegation(t *testing.T) {
	k, err := RandomScalar()
	require.NoError(t, err)
	p := BaseMul(k)

	require.True(t, p.Add(p.Negate()).IsInfinity())
}

func TestDoubleMatchesAdd(t *testing.T) {
	k, err := RandomScalar()
	require.NoError(t, err)
	p := BaseMul(k)

	require.True(t, p.Add(p).Equal(p.Double()))
	require.True(t, p.Double().Equal(p.ScalarMul(ScalarFromUint64(2))))
}

func TestScalarMulEdgeCases(t *testing.T) {
	k, err := RandomScalar()
	require.NoError(t, err)
	p := BaseMul(k)

	require.True(t, p.ScalarMul(ScalarFromUint64(0)).IsInfinity())
	require.True(t, Infinity().ScalarMul(k).IsInfinity())
	require.True(t, p.ScalarMul(ScalarFromUint64(1)).Equal(p))

	// n·G = identity
	require.True(t, Generator().ScalarMul(NewScalar(N)).IsInfinity())
}

func TestScalarMulResultsOnCurve(t *testing.T) {
	k, err := RandomScalar()
	require.NoError(t, err)
	p := BaseMul(k)
	require.True(t, p.IsOnCurve())
	require.True(t, p.Double().IsOnCurve())
	require.True(t, p.Add(Generator()).IsOnCurve())
}

// TestBaseMulMatchesReference checks the double-and-add engine against the
// dcrd implementation of the same curve.
func TestBaseMulMatchesReference(t *testing.T) {
	for i := 0; i < 8; i++ {
		k, err := RandomScalar()
		require.NoError(t, err)

		priv := dcrec.PrivKeyFromBytes(k.Bytes())
		require.Equal(t, priv.PubKey().SerializeCompressed(), BaseMul(k).Encode())
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	k, err := RandomScalar()
	require.NoError(t, err)
	p := BaseMul(k)

	fromCompressed, err := ParsePoint(p.Encode())
	require.NoError(t, err)
	require.True(t, fromCompressed.Equal(p))

	fromUncompressed, err := ParsePoint(p.EncodeUncompressed())
	require.NoError(t, err)
	require.True(t, fromUncompressed.Equal(p))
}

func TestParsePointRejectsOffCurve(t *testing.T) {
	b := make([]byte, UncompressedPointSize)
	b[0] = 0x04
	b[32] = 1 // x = 1
	b[64] = 2 // y = 2, not on the curve
	_, err := ParsePoint(b)
	require.Error(t, err)
}

func TestNewPointRejectsOffCurve(t *testing.T) {
	_, err := NewPoint(big.NewInt(1), big.NewInt(2))
	require.ErrorIs(t, err, ErrNotOnCurve)

	_, err = NewPoint(gx, gy)
	require.NoError(t, err)
}

func TestModInverse(t *testing.T) {
	for i := 0; i < 8; i++ {
		k, err := RandomScalar()
		require.NoError(t, err)

		inv, err := ModInverse(k.BigInt(), N)
		require.NoError(t, err)

		prod := new(big.Int).Mul(k.BigInt(), inv)
		prod.Mod(prod, N)
		require.Equal(t, 0, prod.Cmp(big.NewInt(1)))
	}
}

func TestModInverseNegativeInput(t *testing.T) {
	// -3 mod 7 = 4, and 4·2 = 8 ≡ 1 (mod 7).
	inv, err := ModInverse(big.NewInt(-3), big.NewInt(7))
	require.NoError(t, err)
	require.Equal(t, int64(2), inv.Int64())
}

func TestModInverseNotInvertible(t *testing.T) {
	_, err := ModInverse(big.NewInt(0), N)
	require.ErrorIs(t, err, ErrNotInvertible)

	_, err = ModInverse(big.NewInt(6), big.NewInt(9))
	require.ErrorIs(t, err, ErrNotInvertible)
}
