package fpp

import (
	"crypto/hmac"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/sha3"

	"github.com/floatpool/go-fpp/secp256k1"
)

const sharedKeyDomain = "fpp/output-shared-key/v1"

// EncryptedOutput carries a freshly minted coin's secret to its
// recipient. Only the holder of the recipient private scalar can recover
// the secret; the MAC binds the ciphertext to the output commitment so a
// relayer cannot splice payloads between outputs.
type EncryptedOutput struct {
	EncryptedSecret []byte
	EphemeralPub    *secp256k1.Point
	Commitment      *secp256k1.Point
	MAC             []byte
}

// EncryptOutput encrypts secret to recipientPub. A fresh ephemeral scalar
// e is drawn per output; the shared key is derived from the ECDH point
// e·recipientPub, the secret is encrypted against a ChaCha20 keystream
// under that key, and an HMAC is appended over ciphertext ‖ commitment.
func EncryptOutput(secret []byte, recipientPub, commitment *secp256k1.Point) (*EncryptedOutput, error) {
	eph, err := secp256k1.RandomScalar()
	if err != nil {
		return nil, err
	}

	key := sharedKey(recipientPub.ScalarMul(eph))
	ciphertext, err := applyKeystream(key, secret)
	if err != nil {
		return nil, err
	}

	return &EncryptedOutput{
		EncryptedSecret: ciphertext,
		EphemeralPub:    secp256k1.BaseMul(eph),
		Commitment:      commitment.Copy(),
		MAC:             outputMAC(key, ciphertext, commitment),
	}, nil
}

// Decrypt recovers the secret with the recipient's private scalar,
// rejecting the payload if the MAC does not verify.
func (o *EncryptedOutput) Decrypt(priv *secp256k1.Scalar) ([]byte, error) {
	key := sharedKey(o.EphemeralPub.ScalarMul(priv))

	if !hmac.Equal(o.MAC, outputMAC(key, o.EncryptedSecret, o.Commitment)) {
		return nil, ErrInvalidMAC
	}
	return applyKeystream(key, o.EncryptedSecret)
}

// sharedKey hashes the ECDH point into a 32-byte symmetric key.
func sharedKey(ecdhPoint *secp256k1.Point) []byte {
	h := sha3.New256()
	h.Write([]byte(sharedKeyDomain))
	h.Write(ecdhPoint.Encode())
	return h.Sum(nil)
}

// applyKeystream XORs data with the ChaCha20 keystream under key. The
// nonce is fixed at zero: every key is single-use because the ephemeral
// scalar is fresh per output.
func applyKeystream(key, data []byte) ([]byte, error) {
	nonce := make([]byte, chacha20.NonceSize)
	cipher, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	cipher.XORKeyStream(out, data)
	return out, nil
}

func outputMAC(key, ciphertext []byte, commitment *secp256k1.Point) []byte {
	mac := hmac.New(sha3.New256, key)
	mac.Write(ciphertext)
	mac.Write(commitment.Encode())
	return mac.Sum(nil)
}
