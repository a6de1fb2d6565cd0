package chain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// AssetKind identifies the token standard an asset lives on.
type AssetKind int

const (
	AssetKindERC20 AssetKind = iota
	AssetKindERC721
	AssetKindERC1155
)

// Asset describes a single swappable item. TokenID is ignored for ERC20;
// Amount defaults to "1" for non-fungible kinds when left empty.
type Asset struct {
	Kind         AssetKind
	TokenAddress string
	TokenID      string
	Amount       string
}

// Fungible reports whether the asset is amount-divisible.
func (a Asset) Fungible() bool {
	return a.Kind == AssetKindERC20
}

// Order is a canonical unsigned swap intent. All addresses are
// lowercase 0x-prefixed hex, all numerics are base-10 strings and all
// asset data blobs are lowercase 0x-prefixed hex. Values are never
// mutated in place; NormalizeOrder returns a fresh copy.
type Order struct {
	ChainID             int64
	ExchangeAddress     string
	MakerAddress        string
	TakerAddress        string
	FeeRecipientAddress string
	SenderAddress       string
	MakerAssetAmount    string
	TakerAssetAmount    string
	MakerFee            string
	TakerFee            string
	ExpirationTime      string
	Salt                string
	MakerAssetData      string
	TakerAssetData      string
	MakerFeeAssetData   string
	TakerFeeAssetData   string
}

// SignedOrder pairs an order with a maker signature over its EIP-712
// hash. Validity is a property checked via VerifyOrderSignature, not
// enforced by construction.
type SignedOrder struct {
	Order     *Order
	Signature string
}

// OrderStatus is the exchange contract's view of an order.
type OrderStatus uint8

const (
	OrderStatusInvalid OrderStatus = iota
	OrderStatusInvalidMakerAssetAmount
	OrderStatusInvalidTakerAssetAmount
	OrderStatusFillable
	OrderStatusExpired
	OrderStatusFullyFilled
	OrderStatusCancelled
	OrderStatusInvalidSignature
)

func (s OrderStatus) String() string {
	switch s {
	case OrderStatusInvalid:
		return "INVALID"
	case OrderStatusInvalidMakerAssetAmount:
		return "INVALID_MAKER_ASSET_AMOUNT"
	case OrderStatusInvalidTakerAssetAmount:
		return "INVALID_TAKER_ASSET_AMOUNT"
	case OrderStatusFillable:
		return "FILLABLE"
	case OrderStatusExpired:
		return "EXPIRED"
	case OrderStatusFullyFilled:
		return "FULLY_FILLED"
	case OrderStatusCancelled:
		return "CANCELLED"
	case OrderStatusInvalidSignature:
		return "INVALID_SIGNATURE"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether the status can never change again.
func (s OrderStatus) Terminal() bool {
	return s != OrderStatusFillable
}

// OrderInfo is a point-in-time ledger view of an order. It is
// recomputed on every query and never cached across calls.
type OrderInfo struct {
	OrderHash              common.Hash
	Status                 OrderStatus
	TakerAssetFilledAmount *big.Int
}

// TxOverrides carries caller-supplied transaction parameters. Nil or
// zero fields fall back to values resolved from the ledger.
type TxOverrides struct {
	Value    *big.Int
	GasLimit uint64
	GasPrice *big.Int
	Nonce    *uint64
}

// Addresses holds the per-chain contract addresses the chain layer
// talks to. Zero values mean the capability is unavailable.
type Addresses struct {
	Exchange     common.Address
	ERC20Proxy   common.Address
	ERC721Proxy  common.Address
	ERC1155Proxy common.Address
	Forwarder    common.Address
}

// wireOrder mirrors the exchange contract's order tuple layout for ABI
// packing. Field order must match the tuple components exactly.
type wireOrder struct {
	MakerAddress        common.Address
	TakerAddress        common.Address
	FeeRecipientAddress common.Address
	SenderAddress       common.Address
	MakerAssetAmount    *big.Int
	TakerAssetAmount    *big.Int
	MakerFee            *big.Int
	TakerFee            *big.Int
	ExpirationTime      *big.Int
	Salt                *big.Int
	MakerAssetData      []byte
	TakerAssetData      []byte
	MakerFeeAssetData   []byte
	TakerFeeAssetData   []byte
}

const orderTupleComponents = `[
	{"name": "makerAddress", "type": "address"},
	{"name": "takerAddress", "type": "address"},
	{"name": "feeRecipientAddress", "type": "address"},
	{"name": "senderAddress", "type": "address"},
	{"name": "makerAssetAmount", "type": "uint256"},
	{"name": "takerAssetAmount", "type": "uint256"},
	{"name": "makerFee", "type": "uint256"},
	{"name": "takerFee", "type": "uint256"},
	{"name": "expirationTime", "type": "uint256"},
	{"name": "salt", "type": "uint256"},
	{"name": "makerAssetData", "type": "bytes"},
	{"name": "takerAssetData", "type": "bytes"},
	{"name": "makerFeeAssetData", "type": "bytes"},
	{"name": "takerFeeAssetData", "type": "bytes"}
]`

// Exchange ABI for order state reads, fills and cancels.
var exchangeABIJSON = `[
	{
		"constant": true,
		"inputs": [
			{"components": ` + orderTupleComponents + `, "name": "order", "type": "tuple"}
		],
		"name": "getOrderInfo",
		"outputs": [
			{"components": [
				{"name": "orderStatus", "type": "uint8"},
				{"name": "orderHash", "type": "bytes32"},
				{"name": "orderTakerAssetFilledAmount", "type": "uint256"}
			], "name": "orderInfo", "type": "tuple"}
		],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"components": ` + orderTupleComponents + `, "name": "order", "type": "tuple"},
			{"name": "takerAssetFillAmount", "type": "uint256"},
			{"name": "signature", "type": "bytes"}
		],
		"name": "fillOrder",
		"outputs": [],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"components": ` + orderTupleComponents + `, "name": "order", "type": "tuple"}
		],
		"name": "cancelOrder",
		"outputs": [],
		"type": "function"
	}
]`

// Forwarder ABI: fills orders with the chain's native asset, wrapping
// it on the caller's behalf.
var forwarderABIJSON = `[
	{
		"constant": false,
		"inputs": [
			{"components": ` + orderTupleComponents + `, "name": "orders", "type": "tuple[]"},
			{"name": "makerAssetBuyAmount", "type": "uint256"},
			{"name": "signatures", "type": "bytes[]"},
			{"name": "ethFeeAmounts", "type": "uint256[]"},
			{"name": "feeRecipients", "type": "address[]"}
		],
		"name": "marketBuyOrdersWithEth",
		"outputs": [],
		"payable": true,
		"type": "function"
	}
]`

// ERC20 ABI for allowance checks and approvals.
const erc20ABIJSON = `[
	{
		"constant": true,
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "spender", "type": "address"}
		],
		"name": "allowance",
		"outputs": [{"name": "", "type": "uint256"}],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "spender", "type": "address"},
			{"name": "amount", "type": "uint256"}
		],
		"name": "approve",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	}
]`

// Operator-approval ABI shared by ERC721 and ERC1155.
const operatorApprovalABIJSON = `[
	{
		"constant": true,
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "operator", "type": "address"}
		],
		"name": "isApprovedForAll",
		"outputs": [{"name": "", "type": "bool"}],
		"type": "function"
	},
	{
		"constant": false,
		"inputs": [
			{"name": "operator", "type": "address"},
			{"name": "approved", "type": "bool"}
		],
		"name": "setApprovalForAll",
		"outputs": [],
		"type": "function"
	}
]`

func mustParseABI(src string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(src))
	if err != nil {
		panic("failed to parse ABI: " + err.Error())
	}
	return parsed
}

var (
	exchangeABI         = mustParseABI(exchangeABIJSON)
	forwarderABI        = mustParseABI(forwarderABIJSON)
	erc20ABI            = mustParseABI(erc20ABIJSON)
	operatorApprovalABI = mustParseABI(operatorApprovalABIJSON)
)

// GetExchangeABI returns the parsed exchange contract ABI.
func GetExchangeABI() abi.ABI { return exchangeABI }

// GetForwarderABI returns the parsed forwarder contract ABI.
func GetForwarderABI() abi.ABI { return forwarderABI }

// GetERC20ABI returns the parsed ERC20 ABI.
func GetERC20ABI() abi.ABI { return erc20ABI }

// GetOperatorApprovalABI returns the shared ERC721/ERC1155 approval ABI.
func GetOperatorApprovalABI() abi.ABI { return operatorApprovalABI }

// toWireOrder converts the string-typed order into the contract tuple
// representation.
func toWireOrder(o *Order) (*wireOrder, error) {
	makerAmount, err := parseUint256(o.MakerAssetAmount)
	if err != nil {
		return nil, ErrInvalidMakerAmount
	}
	takerAmount, err := parseUint256(o.TakerAssetAmount)
	if err != nil {
		return nil, ErrInvalidTakerAmount
	}
	makerFee, err := parseUint256(o.MakerFee)
	if err != nil {
		return nil, ErrInvalidFeeAmount
	}
	takerFee, err := parseUint256(o.TakerFee)
	if err != nil {
		return nil, ErrInvalidFeeAmount
	}
	expiration, err := parseUint256(o.ExpirationTime)
	if err != nil {
		return nil, ErrInvalidExpiration
	}
	salt, err := parseUint256(o.Salt)
	if err != nil {
		return nil, ErrInvalidOrderSalt
	}

	return &wireOrder{
		MakerAddress:        common.HexToAddress(o.MakerAddress),
		TakerAddress:        common.HexToAddress(o.TakerAddress),
		FeeRecipientAddress: common.HexToAddress(o.FeeRecipientAddress),
		SenderAddress:       common.HexToAddress(o.SenderAddress),
		MakerAssetAmount:    makerAmount,
		TakerAssetAmount:    takerAmount,
		MakerFee:            makerFee,
		TakerFee:            takerFee,
		ExpirationTime:      expiration,
		Salt:                salt,
		MakerAssetData:      common.FromHex(o.MakerAssetData),
		TakerAssetData:      common.FromHex(o.TakerAssetData),
		MakerFeeAssetData:   common.FromHex(o.MakerFeeAssetData),
		TakerFeeAssetData:   common.FromHex(o.TakerFeeAssetData),
	}, nil
}

// parseUint256 parses a non-negative base-10 string, treating "" as 0.
func parseUint256(s string) (*big.Int, error) {
	if s == "" {
		return big.NewInt(0), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, ErrInvalidNumericValue
	}
	return v, nil
}
