package fpp

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"golang.org/x/crypto/sha3"

	"github.com/floatpool/go-fpp/secp256k1"
)

const proofPlaceholderDomain = "fpp/proof-placeholder/v1/"

// ProofPlaceholder stands in for the succinct zero-knowledge proof a
// production system requires. It is a content-derived MiMC digest over
// the transaction's nullifiers, output commitments and Merkle root,
// shaped like a Groth16 proof tuple but carrying no soundness whatsoever.
// The entire component is to be replaced by a real proving system.
type ProofPlaceholder struct {
	PiA []byte
	PiB []byte
	PiC []byte
}

// NewProofPlaceholder binds the placeholder to the transaction content.
// Deterministic: the same inputs always produce the same tuple, which is
// what lets the ring message commit to it.
func NewProofPlaceholder(nullifiers [][]byte, outputs []*secp256k1.Point, merkleRoot []byte) (*ProofPlaceholder, error) {
	elements := make([][]byte, 0, len(nullifiers)+len(outputs)+1)
	elements = append(elements, nullifiers...)
	for _, p := range outputs {
		elements = append(elements, p.Encode())
	}
	elements = append(elements, merkleRoot)

	proof := &ProofPlaceholder{}
	for _, part := range []struct {
		word string
		out  *[]byte
	}{
		{"pi_a", &proof.PiA},
		{"pi_b", &proof.PiB},
		{"pi_c", &proof.PiC},
	} {
		digest, err := mimcDigest(part.word, elements)
		if err != nil {
			return nil, err
		}
		*part.out = digest
	}
	return proof, nil
}

// Bytes returns the concatenated tuple for transcript binding.
func (p *ProofPlaceholder) Bytes() []byte {
	out := make([]byte, 0, len(p.PiA)+len(p.PiB)+len(p.PiC))
	out = append(out, p.PiA...)
	out = append(out, p.PiB...)
	out = append(out, p.PiC...)
	return out
}

// mimcDigest absorbs the elements into BN254 MiMC. Each element is first
// hashed and masked below the fr modulus, since MiMC only accepts
// canonical field elements as blocks.
func mimcDigest(word string, elements [][]byte) ([]byte, error) {
	h := mimc.NewMiMC()
	for _, el := range elements {
		if _, err := h.Write(frBlock(word, el)); err != nil {
			return nil, fmt.Errorf("fpp: proof placeholder digest: %w", err)
		}
	}
	return h.Sum(nil), nil
}

func frBlock(word string, el []byte) []byte {
	d := sha3.New256()
	d.Write([]byte(proofPlaceholderDomain))
	d.Write([]byte(word))
	d.Write(el)
	block := d.Sum(nil)
	block[0] &= 0x0f
	return block
}
