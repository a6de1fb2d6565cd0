package chain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Asset proxy dispatch ids. The first four bytes of an asset data blob
// select the proxy contract that moves the asset.
var (
	ERC20ProxyID      = [4]byte{0xf4, 0x72, 0x61, 0xb0}
	ERC721ProxyID     = [4]byte{0x02, 0x57, 0x17, 0x92}
	ERC1155ProxyID    = [4]byte{0xa7, 0xcb, 0x5f, 0xb7}
	MultiAssetProxyID = [4]byte{0x94, 0xcf, 0xcd, 0xd7}
)

var (
	addressType  = mustNewType("address")
	uint256Type  = mustNewType("uint256")
	uint256Slice = mustNewType("uint256[]")
	bytesType    = mustNewType("bytes")
	bytesSlice   = mustNewType("bytes[]")
)

func mustNewType(name string) abi.Type {
	t, err := abi.NewType(name, "", nil)
	if err != nil {
		panic("failed to create ABI type " + name + ": " + err.Error())
	}
	return t
}

// EncodeAssetData encodes a single asset into its proxy-dispatched
// calldata blob, returned as a lowercase hex string.
func EncodeAssetData(asset Asset) (string, error) {
	token := common.HexToAddress(asset.TokenAddress)

	switch asset.Kind {
	case AssetKindERC20:
		args := abi.Arguments{{Type: addressType}}
		encoded, err := args.Pack(token)
		if err != nil {
			return "", fmt.Errorf("failed to encode ERC20 asset data: %w", err)
		}
		return hexutil.Encode(append(ERC20ProxyID[:], encoded...)), nil

	case AssetKindERC721:
		tokenID, err := parseUint256(asset.TokenID)
		if err != nil {
			return "", ErrInvalidTokenID
		}
		args := abi.Arguments{{Type: addressType}, {Type: uint256Type}}
		encoded, err := args.Pack(token, tokenID)
		if err != nil {
			return "", fmt.Errorf("failed to encode ERC721 asset data: %w", err)
		}
		return hexutil.Encode(append(ERC721ProxyID[:], encoded...)), nil

	case AssetKindERC1155:
		tokenID, err := parseUint256(asset.TokenID)
		if err != nil {
			return "", ErrInvalidTokenID
		}
		value, err := parseUint256(assetAmountOrDefault(asset))
		if err != nil {
			return "", ErrInvalidNumericValue
		}
		args := abi.Arguments{
			{Type: addressType},
			{Type: uint256Slice},
			{Type: uint256Slice},
			{Type: bytesType},
		}
		encoded, err := args.Pack(token, []*big.Int{tokenID}, []*big.Int{value}, []byte{})
		if err != nil {
			return "", fmt.Errorf("failed to encode ERC1155 asset data: %w", err)
		}
		return hexutil.Encode(append(ERC1155ProxyID[:], encoded...)), nil

	default:
		return "", fmt.Errorf("unknown asset kind: %d", asset.Kind)
	}
}

// EncodeMultiAssetData bundles several assets into a multi-asset blob.
// The order-level amount acts as a multiplier over the bundle, so
// callers pairing this with BuildOrder get an order amount of "1".
func EncodeMultiAssetData(assets []Asset) (string, error) {
	if len(assets) == 0 {
		return "", fmt.Errorf("at least one asset is required")
	}

	amounts := make([]*big.Int, 0, len(assets))
	nested := make([][]byte, 0, len(assets))
	for _, asset := range assets {
		amount, err := parseUint256(assetAmountOrDefault(asset))
		if err != nil {
			return "", ErrInvalidNumericValue
		}
		data, err := EncodeAssetData(asset)
		if err != nil {
			return "", err
		}
		amounts = append(amounts, amount)
		nested = append(nested, common.FromHex(data))
	}

	args := abi.Arguments{{Type: uint256Slice}, {Type: bytesSlice}}
	encoded, err := args.Pack(amounts, nested)
	if err != nil {
		return "", fmt.Errorf("failed to encode multi-asset data: %w", err)
	}
	return hexutil.Encode(append(MultiAssetProxyID[:], encoded...)), nil
}

// AssetProxyAddress resolves the proxy contract responsible for moving
// the given asset on the configured chain.
func (a Addresses) AssetProxyAddress(asset Asset) (common.Address, error) {
	var proxy common.Address
	switch asset.Kind {
	case AssetKindERC20:
		proxy = a.ERC20Proxy
	case AssetKindERC721:
		proxy = a.ERC721Proxy
	case AssetKindERC1155:
		proxy = a.ERC1155Proxy
	default:
		return common.Address{}, fmt.Errorf("unknown asset kind: %d", asset.Kind)
	}
	if proxy == (common.Address{}) {
		return common.Address{}, ErrProxyUnavailable
	}
	return proxy, nil
}

// assetAmountOrDefault applies the "1" default for non-fungible kinds.
func assetAmountOrDefault(asset Asset) string {
	if asset.Amount == "" && !asset.Fungible() {
		return "1"
	}
	return asset.Amount
}
