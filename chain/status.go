package chain

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// DefaultPollInterval is the spacing between order status samples.
const DefaultPollInterval = 10 * time.Second

// Transient read failures inside a status wait are retried a bounded
// number of times with doubling backoff before the wait aborts.
const (
	readRetryAttempts = 3
	readRetryBackoff  = 500 * time.Millisecond
)

// fillEventSig is the topic0 of the exchange's Fill event:
// Fill(address indexed maker, bytes32 indexed orderHash, uint256 takerAssetFilledAmount)
var fillEventSig = crypto.Keccak256Hash([]byte("Fill(address,bytes32,uint256)"))

// StatusTracker maps raw on-chain order state to OrderStatus and waits
// for settlement against a slow, authoritative ledger.
type StatusTracker struct {
	caller       *ContractCaller
	pollInterval time.Duration
	log          *zap.Logger
}

// NewStatusTracker creates a tracker. A zero pollInterval selects the
// 10-second default.
func NewStatusTracker(caller *ContractCaller, pollInterval time.Duration) *StatusTracker {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &StatusTracker{
		caller:       caller,
		pollInterval: pollInterval,
		log:          caller.log,
	}
}

// GetOrderInfo performs a single authoritative read of the order's
// hash, status and filled amount from the exchange contract.
func (t *StatusTracker) GetOrderInfo(ctx context.Context, order *Order) (*OrderInfo, error) {
	wire, err := toWireOrder(NormalizeOrder(order))
	if err != nil {
		return nil, err
	}

	data, err := exchangeABI.Pack("getOrderInfo", wire)
	if err != nil {
		return nil, fmt.Errorf("failed to pack getOrderInfo: %w", err)
	}

	result, err := t.caller.callContract(ctx, t.caller.addresses.Exchange, data)
	if err != nil {
		return nil, fmt.Errorf("failed to read order info: %w", err)
	}

	var out struct {
		OrderInfo struct {
			OrderStatus                 uint8
			OrderHash                   [32]byte
			OrderTakerAssetFilledAmount *big.Int
		}
	}
	if err := exchangeABI.UnpackIntoInterface(&out, "getOrderInfo", result); err != nil {
		return nil, fmt.Errorf("failed to unpack order info: %w", err)
	}

	return &OrderInfo{
		OrderHash:              common.Hash(out.OrderInfo.OrderHash),
		Status:                 OrderStatus(out.OrderInfo.OrderStatus),
		TakerAssetFilledAmount: out.OrderInfo.OrderTakerAssetFilledAmount,
	}, nil
}

// GetOrderStatus is a convenience projection of GetOrderInfo.
func (t *StatusTracker) GetOrderStatus(ctx context.Context, order *Order) (OrderStatus, error) {
	info, err := t.GetOrderInfo(ctx, order)
	if err != nil {
		return OrderStatusInvalid, err
	}
	return info.Status, nil
}

type waitResult struct {
	info *OrderInfo
	err  error
}

// AwaitTerminal polls the order until it leaves FILLABLE or the
// timeout elapses. A fully filled order returns its OrderInfo; any
// other terminal status either returns the OrderInfo or fails with
// UnexpectedOrderStatusError, per failOnTerminal. Timeout returns
// (nil, nil). When the backend supports log subscriptions, a Fill
// event on the order's hash short-circuits the next poll tick. The
// first result cancels all remaining work.
func (t *StatusTracker) AwaitTerminal(ctx context.Context, order *Order, timeout time.Duration, failOnTerminal bool) (*OrderInfo, error) {
	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan waitResult, 2)

	go t.pollLoop(waitCtx, order, results)

	if lf, ok := t.caller.backend.(ethereum.LogFilterer); ok {
		hash, err := OrderSignHash(order, order.ChainID, order.ExchangeAddress)
		if err == nil {
			go t.watchFills(waitCtx, lf, order, hash, results)
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r := <-results:
		if r.err != nil {
			return nil, r.err
		}
		if r.info.Status != OrderStatusFullyFilled && failOnTerminal {
			return nil, &UnexpectedOrderStatusError{Status: r.info.Status}
		}
		return r.info, nil
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// pollLoop samples order info until a terminal status appears. The
// first tick is immediate; later ticks wait the poll interval.
func (t *StatusTracker) pollLoop(ctx context.Context, order *Order, results chan<- waitResult) {
	for {
		info, err := t.orderInfoWithRetry(ctx, order)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			select {
			case results <- waitResult{err: err}:
			default:
			}
			return
		}

		if info.Status.Terminal() {
			select {
			case results <- waitResult{info: info}:
			default:
			}
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(t.pollInterval):
		}
	}
}

// orderInfoWithRetry retries transient read failures with doubling
// backoff before giving up and aborting the wait.
func (t *StatusTracker) orderInfoWithRetry(ctx context.Context, order *Order) (*OrderInfo, error) {
	backoff := readRetryBackoff
	var lastErr error

	for attempt := 0; attempt < readRetryAttempts; attempt++ {
		info, err := t.GetOrderInfo(ctx, order)
		if err == nil {
			return info, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, err
		}

		t.log.Warn("order info read failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return nil, lastErr
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return nil, lastErr
}

// watchFills subscribes to the exchange's Fill events for the order
// hash and resamples authoritative state when one lands. The poll loop
// remains the source of truth; this only advances the next sample.
func (t *StatusTracker) watchFills(ctx context.Context, lf ethereum.LogFilterer, order *Order, orderHash common.Hash, results chan<- waitResult) {
	logs := make(chan types.Log, 8)
	query := ethereum.FilterQuery{
		Addresses: []common.Address{t.caller.addresses.Exchange},
		Topics: [][]common.Hash{
			{fillEventSig},
			nil,
			{orderHash},
		},
	}

	sub, err := lf.SubscribeFilterLogs(ctx, query, logs)
	if err != nil {
		t.log.Debug("fill event subscription unavailable", zap.Error(err))
		return
	}
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Err():
			return
		case <-logs:
			info, err := t.GetOrderInfo(ctx, order)
			if err != nil || !info.Status.Terminal() {
				continue
			}
			select {
			case results <- waitResult{info: info}:
			default:
			}
			return
		}
	}
}
