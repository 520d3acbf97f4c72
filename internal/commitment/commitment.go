package commitment

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"math/big"

	bnmimc "github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
)

// 31 bytes always fit below the bn254 scalar modulus.
const SaltSize = 31

type Commitment struct {
	RootHex string `json:"root"`
	SaltHex string `json:"salt"`
}

// BN254 field elements go into the hash as 32-byte big-endian blocks.
func feBytes(x *big.Int) []byte {
	b := x.Bytes()
	if len(b) == 32 {
		return b
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}

func fold(cells []uint8, salt []byte) []byte {
	h := bnmimc.NewMiMC()
	h.Write(feBytes(new(big.Int).SetBytes(salt)))
	for _, cell := range cells {
		h.Write(feBytes(new(big.Int).SetUint64(uint64(cell))))
	}
	return h.Sum(nil)
}

// Commit hashes a row-major occupancy grid with a fresh random salt. The
// salt stays secret until the layout is revealed.
func Commit(cells []uint8) (Commitment, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return Commitment{}, err
	}
	return CommitWithSalt(cells, salt)
}

func CommitWithSalt(cells []uint8, salt []byte) (Commitment, error) {
	if len(salt) != SaltSize {
		return Commitment{}, errors.New("commitment salt must be 31 bytes")
	}
	return Commitment{
		RootHex: hex.EncodeToString(fold(cells, salt)),
		SaltHex: hex.EncodeToString(salt),
	}, nil
}

// Verify recomputes the root from the revealed cells and salt.
func Verify(cells []uint8, c Commitment) (bool, error) {
	salt, err := hex.DecodeString(c.SaltHex)
	if err != nil {
		return false, err
	}
	if len(salt) != SaltSize {
		return false, errors.New("commitment salt must be 31 bytes")
	}
	root, err := hex.DecodeString(c.RootHex)
	if err != nil {
		return false, err
	}
	return bytes.Equal(root, fold(cells, salt)), nil
}
