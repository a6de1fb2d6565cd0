package chain

import (
	"context"
	"errors"
	"math/big"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderInfoBackend(t *testing.T, fn func(call int) (OrderStatus, *big.Int, error)) *fakeBackend {
	t.Helper()
	var calls int64
	return &fakeBackend{
		callFn: func(call ethereum.CallMsg) ([]byte, error) {
			n := int(atomic.AddInt64(&calls, 1))
			status, filled, err := fn(n)
			if err != nil {
				return nil, err
			}
			return packOrderInfoOutput(t, status, common.HexToHash("0xabc"), filled), nil
		},
	}
}

func TestGetOrderInfo(t *testing.T) {
	backend := orderInfoBackend(t, func(int) (OrderStatus, *big.Int, error) {
		return OrderStatusFillable, big.NewInt(3), nil
	})
	tracker := NewStatusTracker(newTestCaller(t, backend), 0)

	info, err := tracker.GetOrderInfo(context.Background(), testOrder(t, testMaker))
	require.NoError(t, err)

	assert.Equal(t, OrderStatusFillable, info.Status)
	assert.Equal(t, common.HexToHash("0xabc"), info.OrderHash)
	assert.Equal(t, big.NewInt(3), info.TakerAssetFilledAmount)
}

func TestGetOrderStatus(t *testing.T) {
	backend := orderInfoBackend(t, func(int) (OrderStatus, *big.Int, error) {
		return OrderStatusExpired, big.NewInt(0), nil
	})
	tracker := NewStatusTracker(newTestCaller(t, backend), 0)

	status, err := tracker.GetOrderStatus(context.Background(), testOrder(t, testMaker))
	require.NoError(t, err)
	assert.Equal(t, OrderStatusExpired, status)
}

func TestAwaitTerminalHappyPath(t *testing.T) {
	backend := orderInfoBackend(t, func(call int) (OrderStatus, *big.Int, error) {
		if call == 1 {
			return OrderStatusFillable, big.NewInt(0), nil
		}
		return OrderStatusFullyFilled, big.NewInt(1), nil
	})
	tracker := NewStatusTracker(newTestCaller(t, backend), 10*time.Millisecond)

	start := time.Now()
	info, err := tracker.AwaitTerminal(context.Background(), testOrder(t, testMaker), 2*time.Second, false)
	require.NoError(t, err)
	require.NotNil(t, info)

	assert.Equal(t, OrderStatusFullyFilled, info.Status)
	assert.Equal(t, big.NewInt(1), info.TakerAssetFilledAmount)
	assert.Less(t, time.Since(start), time.Second, "fill must be observed before the timeout")
}

func TestAwaitTerminalTimeout(t *testing.T) {
	backend := orderInfoBackend(t, func(int) (OrderStatus, *big.Int, error) {
		return OrderStatusFillable, big.NewInt(0), nil
	})
	tracker := NewStatusTracker(newTestCaller(t, backend), 20*time.Millisecond)

	start := time.Now()
	info, err := tracker.AwaitTerminal(context.Background(), testOrder(t, testMaker), 200*time.Millisecond, false)
	require.NoError(t, err)

	assert.Nil(t, info, "timeout yields nil, not an error")
	assert.WithinDuration(t, start.Add(200*time.Millisecond), time.Now(), 500*time.Millisecond)
}

func TestAwaitTerminalThrowPolicy(t *testing.T) {
	newTracker := func() *StatusTracker {
		backend := orderInfoBackend(t, func(int) (OrderStatus, *big.Int, error) {
			return OrderStatusCancelled, big.NewInt(0), nil
		})
		return NewStatusTracker(newTestCaller(t, backend), 10*time.Millisecond)
	}

	// failOnTerminal set: the cancelled status is an error.
	_, err := newTracker().AwaitTerminal(context.Background(), testOrder(t, testMaker), 2*time.Second, true)
	var statusErr *UnexpectedOrderStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, OrderStatusCancelled, statusErr.Status)

	// failOnTerminal clear: the OrderInfo is returned as a value.
	info, err := newTracker().AwaitTerminal(context.Background(), testOrder(t, testMaker), 2*time.Second, false)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, OrderStatusCancelled, info.Status)
}

func TestAwaitTerminalRetriesTransientReads(t *testing.T) {
	backend := orderInfoBackend(t, func(call int) (OrderStatus, *big.Int, error) {
		if call <= 2 {
			return 0, nil, errors.New("connection reset")
		}
		return OrderStatusFullyFilled, big.NewInt(1), nil
	})
	tracker := NewStatusTracker(newTestCaller(t, backend), 10*time.Millisecond)

	info, err := tracker.AwaitTerminal(context.Background(), testOrder(t, testMaker), 10*time.Second, false)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, OrderStatusFullyFilled, info.Status)
}

func TestAwaitTerminalAbortsAfterRetryBudget(t *testing.T) {
	readErr := errors.New("connection reset")
	backend := orderInfoBackend(t, func(int) (OrderStatus, *big.Int, error) {
		return 0, nil, readErr
	})
	tracker := NewStatusTracker(newTestCaller(t, backend), 10*time.Millisecond)

	_, err := tracker.AwaitTerminal(context.Background(), testOrder(t, testMaker), 30*time.Second, false)
	require.Error(t, err)
	assert.ErrorContains(t, err, "connection reset")
}

func TestAwaitTerminalContextCancellation(t *testing.T) {
	backend := orderInfoBackend(t, func(int) (OrderStatus, *big.Int, error) {
		return OrderStatusFillable, big.NewInt(0), nil
	})
	tracker := NewStatusTracker(newTestCaller(t, backend), 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := tracker.AwaitTerminal(ctx, testOrder(t, testMaker), 30*time.Second, false)
	assert.ErrorIs(t, err, context.Canceled)
}

// fakeLogBackend adds log subscription support to the fake ledger.
type fakeLogBackend struct {
	fakeBackend
	logs chan types.Log
}

func (b *fakeLogBackend) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	return nil, nil
}

func (b *fakeLogBackend) SubscribeFilterLogs(ctx context.Context, q ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error) {
	sub := &fakeSubscription{errc: make(chan error)}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case l := <-b.logs:
				ch <- l
			}
		}
	}()
	return sub, nil
}

type fakeSubscription struct {
	errc chan error
}

func (s *fakeSubscription) Unsubscribe()      {}
func (s *fakeSubscription) Err() <-chan error { return s.errc }

func TestAwaitTerminalFillEventFastPath(t *testing.T) {
	var filled atomic.Bool
	backend := &fakeLogBackend{logs: make(chan types.Log, 1)}
	backend.callFn = func(call ethereum.CallMsg) ([]byte, error) {
		status := OrderStatusFillable
		amount := big.NewInt(0)
		if filled.Load() {
			status = OrderStatusFullyFilled
			amount = big.NewInt(1)
		}
		return packOrderInfoOutput(t, status, common.HexToHash("0xabc"), amount), nil
	}

	// Poll interval far beyond the test window: only the event path
	// can observe the fill in time.
	tracker := NewStatusTracker(newTestCaller(t, backend), time.Hour)

	go func() {
		time.Sleep(50 * time.Millisecond)
		filled.Store(true)
		backend.logs <- types.Log{Topics: []common.Hash{fillEventSig}}
	}()

	start := time.Now()
	info, err := tracker.AwaitTerminal(context.Background(), testOrder(t, testMaker), 10*time.Second, false)
	require.NoError(t, err)
	require.NotNil(t, info)

	assert.Equal(t, OrderStatusFullyFilled, info.Status)
	assert.Less(t, time.Since(start), 5*time.Second)
}
