// Example usage of the asset-swap SDK
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ethereum/go-ethereum/common"

	assetswap "github.com/assetswap/asset-swap-sdk-go"
	"github.com/assetswap/asset-swap-sdk-go/chain"
)

func main() {
	config := assetswap.ClientConfig{
		RPCURL:     "https://mainnet.infura.io/v3/your-project-id", // Replace with actual RPC URL
		ChainID:    assetswap.ChainIDMainnet,
		PrivateKey: "your-private-key-here", // Replace with actual private key
	}

	client, err := assetswap.NewClient(config)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	for _, w := range client.Warnings() {
		fmt.Printf("warning: %s\n", w)
	}

	ctx := context.Background()

	// Sell 100 DAI for an NFT.
	daiAmount, err := assetswap.ToBaseUnits("100", 18)
	if err != nil {
		log.Fatalf("Failed to convert amount: %v", err)
	}

	makerAsset := chain.Asset{
		Kind:         chain.AssetKindERC20,
		TokenAddress: "0x6b175474e89094c44da98b954eedeac495271d0f",
		Amount:       daiAmount,
	}
	takerAsset := chain.Asset{
		Kind:         chain.AssetKindERC721,
		TokenAddress: "0xb47e3cd837ddf8e4c57f05d70ab865de6e193bbb",
		TokenID:      "1234",
	}

	order, err := client.BuildOrder([]chain.Asset{makerAsset}, []chain.Asset{takerAsset}, nil)
	if err != nil {
		log.Fatalf("Failed to build order: %v", err)
	}

	// Make sure the exchange may move the maker asset.
	approved, err := client.GetApprovalStatus(ctx, common.HexToAddress(order.MakerAddress), makerAsset)
	if err != nil {
		log.Fatalf("Failed to check approval: %v", err)
	}
	if !approved {
		tx, err := client.SetApproval(ctx, makerAsset, nil, true, nil)
		if err != nil {
			log.Fatalf("Failed to set approval: %v", err)
		}
		if _, err := client.AwaitTransaction(ctx, tx.Hash()); err != nil {
			log.Fatalf("Approval not confirmed: %v", err)
		}
	}

	signedOrder, err := client.SignOrder(order, nil)
	if err != nil {
		log.Fatalf("Failed to sign order: %v", err)
	}

	ok, err := client.VerifyOrder(signedOrder.Order, signedOrder.Signature)
	if err != nil || !ok {
		log.Fatalf("Signature did not verify: %v", err)
	}

	fmt.Printf("Signed order: %+v\n", signedOrder.Order)

	// Wait up to five minutes for the order to settle.
	info, err := client.AwaitSettlement(ctx, signedOrder.Order, 5*time.Minute, false)
	if err != nil {
		log.Fatalf("Settlement wait failed: %v", err)
	}
	if info == nil {
		fmt.Println("Order still fillable after timeout")
		return
	}
	fmt.Printf("Order settled with status %s, filled %s\n", info.Status, info.TakerAssetFilledAmount)
}
