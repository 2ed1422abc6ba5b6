package fpp

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/floatpool/go-fpp/secp256k1"
)

var errInputBytesTooShort = errors.New("fpp: input bytes too short")

// Serialize encodes the signature as
// keyImage ‖ n ‖ members ‖ c[] ‖ s[] ‖ L[] ‖ R[] ‖ msgLen ‖ msg,
// with points compressed to 33 bytes and scalars fixed at 32. The ring
// size fits in one byte since the policy maximum is 20.
func (sig *RingSignature) Serialize() []byte {
	n := len(sig.Members)

	b := sig.KeyImage.Encode()
	b = append(b, byte(n))
	for _, p := range sig.Members {
		b = append(b, p.Encode()...)
	}
	for _, c := range sig.C {
		b = append(b, c.Bytes()...)
	}
	for _, s := range sig.S {
		b = append(b, s.Bytes()...)
	}
	for _, l := range sig.L {
		b = append(b, l.Encode()...)
	}
	for _, r := range sig.R {
		b = append(b, r.Encode()...)
	}

	var msgLen [4]byte
	binary.BigEndian.PutUint32(msgLen[:], uint32(len(sig.Message)))
	b = append(b, msgLen[:]...)
	b = append(b, sig.Message...)
	return b
}

// DeserializeRingSignature decodes a signature produced by Serialize,
// rejecting truncated input and invalid points.
func DeserializeRingSignature(in []byte) (*RingSignature, error) {
	reader := bytes.NewBuffer(in)

	image, err := readPoint(reader)
	if err != nil {
		return nil, err
	}

	if reader.Len() < 1 {
		return nil, errInputBytesTooShort
	}
	n := int(reader.Next(1)[0])
	if n < 2 {
		return nil, ErrRingTooSmall
	}

	minRemaining := n*(3*secp256k1.CompressedPointSize+2*secp256k1.ScalarSize) + 4
	if reader.Len() < minRemaining {
		return nil, errInputBytesTooShort
	}

	sig := &RingSignature{
		KeyImage: image,
		Members:  make([]*secp256k1.Point, n),
		C:        make([]*secp256k1.Scalar, n),
		S:        make([]*secp256k1.Scalar, n),
		L:        make([]*secp256k1.Point, n),
		R:        make([]*secp256k1.Point, n),
	}

	for i := 0; i < n; i++ {
		if sig.Members[i], err = readPoint(reader); err != nil {
			return nil, err
		}
	}
	for i := 0; i < n; i++ {
		sig.C[i] = secp256k1.ScalarFromBytes(reader.Next(secp256k1.ScalarSize))
	}
	for i := 0; i < n; i++ {
		sig.S[i] = secp256k1.ScalarFromBytes(reader.Next(secp256k1.ScalarSize))
	}
	for i := 0; i < n; i++ {
		if sig.L[i], err = readPoint(reader); err != nil {
			return nil, err
		}
	}
	for i := 0; i < n; i++ {
		if sig.R[i], err = readPoint(reader); err != nil {
			return nil, err
		}
	}

	msgLen := binary.BigEndian.Uint32(reader.Next(4))
	if reader.Len() < int(msgLen) {
		return nil, errInputBytesTooShort
	}
	sig.Message = append([]byte(nil), reader.Next(int(msgLen))...)

	return sig, nil
}

func readPoint(r *bytes.Buffer) (*secp256k1.Point, error) {
	if r.Len() < secp256k1.CompressedPointSize {
		return nil, errInputBytesTooShort
	}
	return secp256k1.ParsePoint(r.Next(secp256k1.CompressedPointSize))
}

// Boundary encodings are fixed-width hex: 64 hex characters for 32-byte
// values, 66 for compressed points.

// EncodeHex returns the lowercase hex encoding of b.
func EncodeHex(b []byte) string {
	return hex.EncodeToString(b)
}

// DecodeHex32 decodes a 32-byte value from exactly 64 hex characters.
func DecodeHex32(s string) ([]byte, error) {
	if len(s) != 2*secp256k1.ScalarSize {
		return nil, fmt.Errorf("fpp: expected %d hex characters, got %d", 2*secp256k1.ScalarSize, len(s))
	}
	return hex.DecodeString(s)
}

// EncodePointHex returns the compressed point as 66 hex characters.
func EncodePointHex(p *secp256k1.Point) string {
	return hex.EncodeToString(p.Encode())
}

// DecodePointHex parses a compressed or uncompressed hex point encoding.
func DecodePointHex(s string) (*secp256k1.Point, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("fpp: %w", err)
	}
	return secp256k1.ParsePoint(b)
}

// HashHex returns the transaction id as fixed-width hex.
func (tx *PrivacyTransaction) HashHex() string {
	return EncodeHex(tx.Hash)
}
