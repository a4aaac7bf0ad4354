package external

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/truthlens/proof-hub/config"
	"github.com/truthlens/proof-hub/entity"
	"github.com/truthlens/proof-hub/util"
)

// registryABI is the verification registry contract surface. The anchoring
// transaction emits ImageVerified carrying the verification id as its first
// indexed parameter.
const registryABI = `[
	{"type":"function","name":"createVerification","stateMutability":"nonpayable","inputs":[{"name":"imageHash","type":"bytes32"},{"name":"cid","type":"string"},{"name":"latitude","type":"int256"},{"name":"longitude","type":"int256"},{"name":"aiAnalysis","type":"string"}],"outputs":[{"name":"","type":"bytes32"}]},
	{"type":"function","name":"verifyImageHash","stateMutability":"view","inputs":[{"name":"imageHash","type":"bytes32"}],"outputs":[{"name":"exists","type":"bool"},{"name":"verificationId","type":"bytes32"}]},
	{"type":"function","name":"getVerification","stateMutability":"view","inputs":[{"name":"verificationId","type":"bytes32"}],"outputs":[{"name":"imageHash","type":"bytes32"},{"name":"cid","type":"string"},{"name":"latitude","type":"int256"},{"name":"longitude","type":"int256"},{"name":"timestamp","type":"uint256"},{"name":"verifier","type":"address"},{"name":"aiAnalysis","type":"string"}]},
	{"type":"event","name":"ImageVerified","anonymous":false,"inputs":[{"name":"verificationId","type":"bytes32","indexed":true},{"name":"imageHash","type":"bytes32","indexed":true},{"name":"verifier","type":"address","indexed":true},{"name":"timestamp","type":"uint256","indexed":false}]}
]`

const imageVerifiedEvent = "ImageVerified"

type AnchorClient struct {
	cfg         *config.LedgerConfig
	client      *ethclient.Client
	contract    *bind.BoundContract
	contractABI abi.ABI
	privateKey  *ecdsa.PrivateKey
	verifier    common.Address
	chainID     *big.Int
}

func NewAnchorClient(cfg *config.LedgerConfig) (*AnchorClient, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("ledger not configured")
	}
	client, err := ethclient.Dial(cfg.RPCAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial ledger rpc: %v", err)
	}
	parsedABI, err := abi.JSON(strings.NewReader(registryABI))
	if err != nil {
		return nil, err
	}
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid ledger private key: %v", err)
	}
	chainID := big.NewInt(cfg.ChainID)
	if cfg.ChainID == 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		chainID, err = client.ChainID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query chain id: %v", err)
		}
	}
	contractAddr := common.HexToAddress(cfg.ContractAddress)
	return &AnchorClient{
		cfg:         cfg,
		client:      client,
		contract:    bind.NewBoundContract(contractAddr, parsedABI, client, client, client),
		contractABI: parsedABI,
		privateKey:  privateKey,
		verifier:    crypto.PubkeyToAddress(privateKey.PublicKey),
		chainID:     chainID,
	}, nil
}

// Anchor submits the hash and metadata to the registry contract and waits for
// confirmation. The hash is validated locally before anything crosses the
// network; coordinates arrive already scaled to 1e-6 degree fixed point.
func (c *AnchorClient) Anchor(ctx context.Context, imageHash, cid string, lat, lng int64, analysis string) (*entity.AnchorReceipt, error) {
	hashBytes, err := util.HashToBytes32(imageHash)
	if err != nil {
		return nil, err
	}

	opts, err := bind.NewKeyedTransactorWithChainID(c.privateKey, c.chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx

	tx, err := c.contract.Transact(opts, "createVerification",
		hashBytes, cid, big.NewInt(lat), big.NewInt(lng), analysis)
	if err != nil {
		return nil, fmt.Errorf("failed to submit anchoring transaction: %v", err)
	}

	receipt, err := bind.WaitMined(ctx, c.client, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for anchoring confirmation, tx=%s: %v", tx.Hash().Hex(), err)
	}
	if receipt.Status != 1 {
		return nil, fmt.Errorf("anchoring transaction reverted, tx=%s", tx.Hash().Hex())
	}

	verificationID := c.verificationIDFromLogs(receipt.Logs)
	if verificationID == (common.Hash{}) {
		verificationID = DeriveVerificationID(hashBytes, c.verifier, receipt.BlockNumber, c.blockTimestamp(ctx, receipt.BlockNumber))
	}

	explorerURL := ""
	if c.cfg.BlockExplorerURLTmpl != "" {
		explorerURL = fmt.Sprintf(c.cfg.BlockExplorerURLTmpl, tx.Hash().Hex())
	}
	return &entity.AnchorReceipt{
		VerificationID:   verificationID.Hex(),
		TxHash:           tx.Hash().Hex(),
		BlockExplorerURL: explorerURL,
	}, nil
}

func (c *AnchorClient) verificationIDFromLogs(logs []*ethtypes.Log) common.Hash {
	eventID := c.contractABI.Events[imageVerifiedEvent].ID
	for _, l := range logs {
		if len(l.Topics) >= 2 && l.Topics[0] == eventID {
			return l.Topics[1]
		}
	}
	return common.Hash{}
}

func (c *AnchorClient) blockTimestamp(ctx context.Context, blockNumber *big.Int) *big.Int {
	header, err := c.client.HeaderByNumber(ctx, blockNumber)
	if err != nil {
		return big.NewInt(time.Now().Unix())
	}
	return new(big.Int).SetUint64(header.Time)
}

// Lookup checks the registry for an anchored entry of the hash.
func (c *AnchorClient) Lookup(ctx context.Context, imageHash string) (bool, string, error) {
	hashBytes, err := util.HashToBytes32(imageHash)
	if err != nil {
		return false, "", err
	}
	var out []interface{}
	err = c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "verifyImageHash", hashBytes)
	if err != nil {
		return false, "", fmt.Errorf("failed to query ledger for hash: %v", err)
	}
	exists := out[0].(bool)
	verificationID := out[1].([32]byte)
	if !exists || verificationID == [32]byte{} {
		return false, "", nil
	}
	return true, common.Hash(verificationID).Hex(), nil
}

// Fetch reads the full anchored record for a verification id.
func (c *AnchorClient) Fetch(ctx context.Context, verificationID string) (*entity.LedgerAnchor, error) {
	idBytes, err := util.HashToBytes32(verificationID)
	if err != nil {
		return nil, err
	}
	var out []interface{}
	err = c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getVerification", idBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch verification from ledger: %v", err)
	}
	imageHash := out[0].([32]byte)
	return &entity.LedgerAnchor{
		VerificationID: verificationID,
		ImageHash:      common.Hash(imageHash).Hex(),
		CID:            out[1].(string),
		Latitude:       out[2].(*big.Int).Int64(),
		Longitude:      out[3].(*big.Int).Int64(),
		Timestamp:      out[4].(*big.Int).Int64(),
		Verifier:       out[5].(common.Address).Hex(),
		Analysis:       out[6].(string),
	}, nil
}

// VerifierAddress is the anchoring principal derived from the signing key.
func (c *AnchorClient) VerifierAddress() common.Address {
	return c.verifier
}
