package external

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	bytes32Type, _ = abi.NewType("bytes32", "", nil)
	addressType, _ = abi.NewType("address", "", nil)
	uint256Type, _ = abi.NewType("uint256", "", nil)

	deriveArgs = abi.Arguments{
		{Type: bytes32Type},
		{Type: addressType},
		{Type: uint256Type},
		{Type: uint256Type},
	}
)

// DeriveVerificationID recomputes the verification identifier from the
// anchored tuple when the ImageVerified event is not observable. It is a pure
// function of its inputs so a verifier holding only the transaction receipt
// can reproduce the identifier without the live event stream.
func DeriveVerificationID(imageHash [32]byte, verifier common.Address, blockNumber, timestamp *big.Int) common.Hash {
	encoded, err := deriveArgs.Pack(imageHash, verifier, blockNumber, timestamp)
	if err != nil {
		// the argument set is static, packing cannot fail at runtime
		panic(err)
	}
	return crypto.Keccak256Hash(encoded)
}
