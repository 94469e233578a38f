package chain

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// fakeBackend is an in-memory node: it accepts any transaction and mines it
// immediately with the configured receipt status.
type fakeBackend struct {
	mu            sync.Mutex
	chainID       *big.Int
	receiptStatus uint64
	code          []byte
	chainIDErr    error
	sendErr       error
	sent          []*types.Transaction
}

func newFakeBackend(chainID int64) *fakeBackend {
	return &fakeBackend{
		chainID:       big.NewInt(chainID),
		receiptStatus: types.ReceiptStatusSuccessful,
		code:          []byte{0x60, 0x80, 0x60, 0x40},
	}
}

func (b *fakeBackend) ChainID(ctx context.Context) (*big.Int, error) {
	if b.chainIDErr != nil {
		return nil, b.chainIDErr
	}
	return new(big.Int).Set(b.chainID), nil
}

func (b *fakeBackend) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	return b.code, nil
}

func (b *fakeBackend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return nil, nil
}

func (b *fakeBackend) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(41), BaseFee: big.NewInt(1_000_000_000)}, nil
}

func (b *fakeBackend) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return b.code, nil
}

func (b *fakeBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return uint64(len(b.sent)), nil
}

func (b *fakeBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(2_000_000_000), nil
}

func (b *fakeBackend) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (b *fakeBackend) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	return 120_000, nil
}

func (b *fakeBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if b.sendErr != nil {
		return b.sendErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, tx)
	return nil
}

func (b *fakeBackend) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	return nil, nil
}

func (b *fakeBackend) SubscribeFilterLogs(ctx context.Context, q ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	return nil, errors.New("subscriptions not supported")
}

func (b *fakeBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, tx := range b.sent {
		if tx.Hash() == txHash {
			return &types.Receipt{
				Status:      b.receiptStatus,
				TxHash:      txHash,
				GasUsed:     98_765,
				BlockNumber: big.NewInt(42),
			}, nil
		}
	}
	return nil, ethereum.NotFound
}

func (b *fakeBackend) lastSent() *types.Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.sent) == 0 {
		return nil
	}
	return b.sent[len(b.sent)-1]
}
