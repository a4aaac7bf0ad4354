package external

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestDeriveVerificationIDDeterminism(t *testing.T) {
	var hash [32]byte
	copy(hash[:], []byte("0123456789abcdef0123456789abcdef"))
	verifier := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	id1 := DeriveVerificationID(hash, verifier, big.NewInt(19530505), big.NewInt(1710000000))
	id2 := DeriveVerificationID(hash, verifier, big.NewInt(19530505), big.NewInt(1710000000))
	if id1 != id2 {
		t.Errorf("derivation is not deterministic: %s != %s", id1.Hex(), id2.Hex())
	}
	if id1 == (common.Hash{}) {
		t.Errorf("derived id should not be zero")
	}
}

func TestDeriveVerificationIDVariesWithInputs(t *testing.T) {
	var hash [32]byte
	copy(hash[:], []byte("0123456789abcdef0123456789abcdef"))
	verifier := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	base := DeriveVerificationID(hash, verifier, big.NewInt(100), big.NewInt(200))

	var otherHash [32]byte
	copy(otherHash[:], []byte("fedcba9876543210fedcba9876543210"))
	if DeriveVerificationID(otherHash, verifier, big.NewInt(100), big.NewInt(200)) == base {
		t.Errorf("different hash should derive a different id")
	}
	if DeriveVerificationID(hash, verifier, big.NewInt(101), big.NewInt(200)) == base {
		t.Errorf("different block number should derive a different id")
	}
	if DeriveVerificationID(hash, verifier, big.NewInt(100), big.NewInt(201)) == base {
		t.Errorf("different timestamp should derive a different id")
	}
}
