// Package chain submits mint(to, tokenURI) transactions and waits for them
// to be mined.
package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	log "github.com/sirupsen/logrus"
)

// MintABI is the only contract surface used: mint(address to, string tokenURI).
const MintABI = `[{"inputs":[{"internalType":"address","name":"to","type":"address"},{"internalType":"string","name":"tokenURI","type":"string"}],"name":"mint","outputs":[],"stateMutability":"nonpayable","type":"function"}]`

var (
	ErrInvalidContract  = errors.New("invalid contract address")
	ErrInvalidRecipient = errors.New("invalid recipient address")
	ErrWrongNetwork     = errors.New("connected to the wrong network")
	ErrReverted         = errors.New("mint transaction reverted")
)

var mintABI = mustParseABI(MintABI)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(fmt.Sprintf("invalid mint ABI: %v", err))
	}
	return parsed
}

// Backend is what the minter needs from a node. *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// MintResult describes a mined mint transaction.
type MintResult struct {
	TxHash      string
	Recipient   string
	BlockNumber uint64
	GasUsed     uint64
}

// Minter calls mint on one contract.
type Minter struct {
	backend         Backend
	contract        *bind.BoundContract
	contractAddress common.Address
	signer          SignerFunc
	expectedChainID *big.Int        // nil skips the network check
	mintTo          *common.Address // nil mints to the signer
}

// Option configures a Minter.
type Option func(*Minter) error

// WithChainID rejects mints when the node reports a different chain id.
// Zero disables the check.
func WithChainID(id int64) Option {
	return func(m *Minter) error {
		if id != 0 {
			m.expectedChainID = big.NewInt(id)
		}
		return nil
	}
}

// WithRecipient mints to addr instead of the signer's own address.
func WithRecipient(addr string) Option {
	return func(m *Minter) error {
		if addr == "" {
			return nil
		}
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("%w: %q", ErrInvalidRecipient, addr)
		}
		to := common.HexToAddress(addr)
		m.mintTo = &to
		return nil
	}
}

// Dial connects to an Ethereum JSON-RPC endpoint.
func Dial(ctx context.Context, rpcURL string) (*ethclient.Client, error) {
	if rpcURL == "" {
		return nil, errors.New("no RPC endpoint configured")
	}
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", rpcURL, err)
	}
	return client, nil
}

// NewMinter binds the mint ABI to contractAddress on backend.
func NewMinter(backend Backend, contractAddress string, signer SignerFunc, opts ...Option) (*Minter, error) {
	if !common.IsHexAddress(contractAddress) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidContract, contractAddress)
	}
	if signer == nil {
		signer = func() (*Signer, error) { return nil, ErrNoSigner }
	}
	addr := common.HexToAddress(contractAddress)
	m := &Minter{
		backend:         backend,
		contract:        bind.NewBoundContract(addr, mintABI, backend, backend, backend),
		contractAddress: addr,
		signer:          signer,
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// PackMint returns the calldata of mint(to, tokenURI).
func PackMint(to common.Address, tokenURI string) ([]byte, error) {
	return mintABI.Pack("mint", to, tokenURI)
}

// Mint submits mint(recipient, tokenURI) and blocks until the transaction is
// mined or ctx ends. There is no timeout besides ctx.
func (m *Minter) Mint(ctx context.Context, tokenURI string) (*MintResult, error) {
	signer, err := m.signer()
	if err != nil {
		return nil, err
	}

	chainID, err := m.backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain id: %w", err)
	}
	if m.expectedChainID != nil && chainID.Cmp(m.expectedChainID) != 0 {
		return nil, fmt.Errorf("%w: node reports chain %s, expected %s", ErrWrongNetwork, chainID, m.expectedChainID)
	}

	to := signer.Address
	if m.mintTo != nil {
		to = *m.mintTo
	}

	opts, err := bind.NewKeyedTransactorWithChainID(signer.key, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx

	logger := log.WithFields(log.Fields{
		"contract": m.contractAddress.Hex(),
		"to":       to.Hex(),
		"chain_id": chainID.String(),
	})
	logger.Debug("Submitting mint transaction")

	tx, err := m.contract.Transact(opts, "mint", to, tokenURI)
	if err != nil {
		return nil, fmt.Errorf("mint transaction failed: %w", err)
	}
	logger.WithField("tx", tx.Hash().Hex()).Info("Mint transaction sent, waiting for confirmation")

	receipt, err := bind.WaitMined(ctx, m.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("waiting for transaction %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return nil, fmt.Errorf("%w: %s", ErrReverted, tx.Hash().Hex())
	}

	result := &MintResult{
		TxHash:    tx.Hash().Hex(),
		Recipient: to.Hex(),
		GasUsed:   receipt.GasUsed,
	}
	if receipt.BlockNumber != nil {
		result.BlockNumber = receipt.BlockNumber.Uint64()
	}
	logger.WithField("block", result.BlockNumber).Info("NFT minted successfully")
	return result, nil
}
