package chain

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// Backend is the slice of the ledger client the chain layer consumes.
// *ethclient.Client satisfies it; tests substitute a fake.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

const (
	defaultGasLimit       = uint64(500000)
	receiptPollInterval   = 2 * time.Second
	defaultReceiptTimeout = 120 * time.Second
)

// ContractCaller mediates every ledger read and write the SDK makes.
type ContractCaller struct {
	backend   Backend
	chainID   *big.Int
	addresses Addresses
	log       *zap.Logger
}

// NewContractCaller dials an RPC endpoint and wraps it.
func NewContractCaller(rpcURL string, chainID int64, addresses Addresses, log *zap.Logger) (*ContractCaller, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	return NewContractCallerWithBackend(client, chainID, addresses, log), nil
}

// NewContractCallerWithBackend wraps an existing backend. Used for
// custom transports and tests.
func NewContractCallerWithBackend(backend Backend, chainID int64, addresses Addresses, log *zap.Logger) *ContractCaller {
	if log == nil {
		log = zap.NewNop()
	}
	return &ContractCaller{
		backend:   backend,
		chainID:   big.NewInt(chainID),
		addresses: addresses,
		log:       log,
	}
}

// Addresses returns the resolved contract addresses for the chain.
func (cc *ContractCaller) Addresses() Addresses {
	return cc.addresses
}

// ChainID returns the chain the caller is bound to.
func (cc *ContractCaller) ChainID() int64 {
	return cc.chainID.Int64()
}

// callContract performs a read-only contract call.
func (cc *ContractCaller) callContract(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	return cc.backend.CallContract(ctx, ethereum.CallMsg{
		To:   &to,
		Data: data,
	}, nil)
}

// sendContractTx builds, signs and submits a contract call transaction.
// Overrides take precedence over ledger-resolved values. The returned
// transaction is a pending handle: submitted, not settled.
func (cc *ContractCaller) sendContractTx(ctx context.Context, signer Signer, op string, to common.Address, data []byte, overrides *TxOverrides) (*types.Transaction, error) {
	if signer == nil {
		return nil, ErrSignerRequired
	}
	if overrides == nil {
		overrides = &TxOverrides{}
	}

	var nonce uint64
	if overrides.Nonce != nil {
		nonce = *overrides.Nonce
	} else {
		var err error
		nonce, err = cc.backend.PendingNonceAt(ctx, signer.Address())
		if err != nil {
			return nil, fmt.Errorf("failed to get nonce: %w", err)
		}
	}

	gasPrice := overrides.GasPrice
	if gasPrice == nil {
		var err error
		gasPrice, err = cc.backend.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get gas price: %w", err)
		}
	}

	gasLimit := overrides.GasLimit
	if gasLimit == 0 {
		gasLimit = defaultGasLimit
	}

	value := overrides.Value
	if value == nil {
		value = big.NewInt(0)
	}

	tx := types.NewTransaction(nonce, to, value, gasLimit, gasPrice, data)
	signedTx, err := signer.SignTx(cc.chainID, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := cc.backend.SendTransaction(ctx, signedTx); err != nil {
		return nil, &TransactionSubmissionError{Op: op, Err: err}
	}

	cc.log.Debug("transaction submitted",
		zap.String("op", op),
		zap.String("tx", signedTx.Hash().Hex()),
		zap.String("to", to.Hex()),
	)

	return signedTx, nil
}

// WaitForReceipt polls for a transaction receipt until the context or
// the default ceiling expires. Confirmation tracking is the caller's
// responsibility; fill and approval submission never block on this.
func (cc *ContractCaller) WaitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, defaultReceiptTimeout)
	defer cancel()

	for {
		receipt, err := cc.backend.TransactionReceipt(timeoutCtx, txHash)
		if err == nil {
			return receipt, nil
		}

		select {
		case <-timeoutCtx.Done():
			return nil, fmt.Errorf("timeout waiting for transaction receipt: %s", txHash.Hex())
		case <-time.After(receiptPollInterval):
		}
	}
}
