package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// maxUint256 is the unlimited-approval amount.
var maxUint256 = new(big.Int).Sub(new(big.Int).Exp(big.NewInt(2), big.NewInt(256), nil), big.NewInt(1))

// GetApprovalStatus reports whether the asset's proxy contract holds
// sufficient authorization to move the asset on the owner's behalf.
// Fungible assets compare allowance against the asset amount;
// non-fungible kinds look up the operator-approval flag.
func (cc *ContractCaller) GetApprovalStatus(ctx context.Context, owner common.Address, asset Asset) (bool, error) {
	proxy, err := cc.addresses.AssetProxyAddress(asset)
	if err != nil {
		return false, err
	}
	token := common.HexToAddress(asset.TokenAddress)

	if asset.Fungible() {
		required, err := parseUint256(asset.Amount)
		if err != nil {
			return false, ErrInvalidNumericValue
		}
		allowance, err := cc.getERC20Allowance(ctx, token, owner, proxy)
		if err != nil {
			return false, err
		}
		return allowance.Cmp(required) >= 0, nil
	}

	return cc.isApprovedForAll(ctx, token, owner, proxy)
}

// SetApproval submits an approval-granting (or revoking) transaction
// for the asset's proxy and returns the pending transaction handle.
// The new approval state is observable only after confirmation.
func (cc *ContractCaller) SetApproval(ctx context.Context, asset Asset, signer Signer, approve bool, overrides *TxOverrides) (*types.Transaction, error) {
	if signer == nil {
		return nil, ErrSignerRequired
	}
	proxy, err := cc.addresses.AssetProxyAddress(asset)
	if err != nil {
		return nil, err
	}
	token := common.HexToAddress(asset.TokenAddress)

	var data []byte
	if asset.Fungible() {
		amount := maxUint256
		if !approve {
			amount = big.NewInt(0)
		}
		data, err = erc20ABI.Pack("approve", proxy, amount)
		if err != nil {
			return nil, fmt.Errorf("failed to pack approve: %w", err)
		}
	} else {
		data, err = operatorApprovalABI.Pack("setApprovalForAll", proxy, approve)
		if err != nil {
			return nil, fmt.Errorf("failed to pack setApprovalForAll: %w", err)
		}
	}

	return cc.sendContractTx(ctx, signer, "setApproval", token, data, overrides)
}

// getERC20Allowance reads the owner->spender allowance on a token.
func (cc *ContractCaller) getERC20Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	data, err := erc20ABI.Pack("allowance", owner, spender)
	if err != nil {
		return nil, err
	}

	result, err := cc.callContract(ctx, token, data)
	if err != nil {
		return nil, err
	}

	var allowance *big.Int
	if err := erc20ABI.UnpackIntoInterface(&allowance, "allowance", result); err != nil {
		return nil, err
	}
	return allowance, nil
}

// isApprovedForAll reads the operator-approval flag on an NFT contract.
func (cc *ContractCaller) isApprovedForAll(ctx context.Context, token, owner, operator common.Address) (bool, error) {
	data, err := operatorApprovalABI.Pack("isApprovedForAll", owner, operator)
	if err != nil {
		return false, err
	}

	result, err := cc.callContract(ctx, token, data)
	if err != nil {
		return false, err
	}

	var approved bool
	if err := operatorApprovalABI.UnpackIntoInterface(&approved, "isApprovedForAll", result); err != nil {
		return false, err
	}
	return approved, nil
}
