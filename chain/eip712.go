package chain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// EIP712 domain constants shared with the exchange contract.
const (
	EIP712DomainName    = "AssetSwap Exchange"
	EIP712DomainVersion = "3"
)

// orderTypes is the fixed EIP-712 schema for orders. Field order here
// defines the canonical hashing order.
var orderTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	"Order": {
		{Name: "makerAddress", Type: "address"},
		{Name: "takerAddress", Type: "address"},
		{Name: "feeRecipientAddress", Type: "address"},
		{Name: "senderAddress", Type: "address"},
		{Name: "makerAssetAmount", Type: "uint256"},
		{Name: "takerAssetAmount", Type: "uint256"},
		{Name: "makerFee", Type: "uint256"},
		{Name: "takerFee", Type: "uint256"},
		{Name: "expirationTime", Type: "uint256"},
		{Name: "salt", Type: "uint256"},
		{Name: "makerAssetData", Type: "bytes"},
		{Name: "takerAssetData", Type: "bytes"},
		{Name: "makerFeeAssetData", Type: "bytes"},
		{Name: "takerFeeAssetData", Type: "bytes"},
	},
}

// OrderTypedData builds the full EIP-712 typed-data envelope for an
// order. This is what signers receive, so wallet-backed signers can
// render a structured prompt instead of an opaque digest.
func OrderTypedData(order *Order, chainID int64, exchangeAddress string) (apitypes.TypedData, error) {
	if exchangeAddress == "" {
		return apitypes.TypedData{}, ErrExchangeAddressRequired
	}

	n := NormalizeOrder(order)
	if _, err := toWireOrder(n); err != nil {
		// Reject unparseable numerics before they reach the hasher.
		return apitypes.TypedData{}, err
	}

	return apitypes.TypedData{
		Types:       orderTypes,
		PrimaryType: "Order",
		Domain: apitypes.TypedDataDomain{
			Name:              EIP712DomainName,
			Version:           EIP712DomainVersion,
			ChainId:           math.NewHexOrDecimal256(chainID),
			VerifyingContract: common.HexToAddress(exchangeAddress).Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"makerAddress":        n.MakerAddress,
			"takerAddress":        n.TakerAddress,
			"feeRecipientAddress": n.FeeRecipientAddress,
			"senderAddress":       n.SenderAddress,
			"makerAssetAmount":    n.MakerAssetAmount,
			"takerAssetAmount":    n.TakerAssetAmount,
			"makerFee":            n.MakerFee,
			"takerFee":            n.TakerFee,
			"expirationTime":      n.ExpirationTime,
			"salt":                n.Salt,
			"makerAssetData":      n.MakerAssetData,
			"takerAssetData":      n.TakerAssetData,
			"makerFeeAssetData":   n.MakerFeeAssetData,
			"takerFeeAssetData":   n.TakerFeeAssetData,
		},
	}, nil
}

// OrderSignHash computes the 32-byte EIP-712 digest an order is signed
// and verified against. Normalization-equivalent orders hash equally.
func OrderSignHash(order *Order, chainID int64, exchangeAddress string) (common.Hash, error) {
	typedData, err := OrderTypedData(order, chainID, exchangeAddress)
	if err != nil {
		return common.Hash{}, err
	}
	digest, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to hash order: %w", err)
	}
	return common.BytesToHash(digest), nil
}
