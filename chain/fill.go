package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// FillOptions selects how a signed order is taken.
type FillOptions struct {
	// TakerAssetFillAmount is how much of the taker side to fill.
	// Nil fills the full taker amount.
	TakerAssetFillAmount *big.Int

	// BuyWithNativeToken routes the fill through the forwarder
	// contract, which wraps the chain's native asset on the caller's
	// behalf. Requires a forwarder address for the active chain and a
	// native value in the transaction overrides.
	BuyWithNativeToken bool
}

// FillOrder submits a fill transaction for a signed order and returns
// the pending handle. It never waits for confirmation.
func (cc *ContractCaller) FillOrder(ctx context.Context, signedOrder *SignedOrder, opts FillOptions, signer Signer, overrides *TxOverrides) (*types.Transaction, error) {
	if signer == nil {
		return nil, ErrSignerRequired
	}

	wire, err := toWireOrder(NormalizeOrder(signedOrder.Order))
	if err != nil {
		return nil, err
	}
	signature := common.FromHex(signedOrder.Signature)

	if opts.BuyWithNativeToken {
		return cc.fillViaForwarder(ctx, wire, signature, signer, overrides)
	}

	fillAmount := opts.TakerAssetFillAmount
	if fillAmount == nil {
		fillAmount = wire.TakerAssetAmount
	}

	data, err := exchangeABI.Pack("fillOrder", wire, fillAmount, signature)
	if err != nil {
		return nil, fmt.Errorf("failed to pack fillOrder: %w", err)
	}

	return cc.sendContractTx(ctx, signer, "fillOrder", cc.addresses.Exchange, data, overrides)
}

// fillViaForwarder packs the native-asset path. The forwarder wraps
// msg.value and fills the order with the wrapped form.
func (cc *ContractCaller) fillViaForwarder(ctx context.Context, wire *wireOrder, signature []byte, signer Signer, overrides *TxOverrides) (*types.Transaction, error) {
	if cc.addresses.Forwarder == (common.Address{}) {
		return nil, ErrForwarderUnavailable
	}

	data, err := forwarderABI.Pack("marketBuyOrdersWithEth",
		[]wireOrder{*wire},
		wire.MakerAssetAmount,
		[][]byte{signature},
		[]*big.Int{},
		[]common.Address{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to pack marketBuyOrdersWithEth: %w", err)
	}

	return cc.sendContractTx(ctx, signer, "marketBuyOrdersWithEth", cc.addresses.Forwarder, data, overrides)
}

// CancelOrder submits an on-chain cancellation for an order the signer
// made. Cancellation is terminal once confirmed.
func (cc *ContractCaller) CancelOrder(ctx context.Context, order *Order, signer Signer, overrides *TxOverrides) (*types.Transaction, error) {
	if signer == nil {
		return nil, ErrSignerRequired
	}

	wire, err := toWireOrder(NormalizeOrder(order))
	if err != nil {
		return nil, err
	}

	data, err := exchangeABI.Pack("cancelOrder", wire)
	if err != nil {
		return nil, fmt.Errorf("failed to pack cancelOrder: %w", err)
	}

	return cc.sendContractTx(ctx, signer, "cancelOrder", cc.addresses.Exchange, data, overrides)
}
