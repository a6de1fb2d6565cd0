package assetswap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/assetswap/asset-swap-sdk-go/chain"
)

// Client is the swap lifecycle coordinator: build -> sign -> approve ->
// fill -> track. Ambient configuration (chain, contract addresses,
// default signer) is fixed at construction; per-call arguments always
// take precedence over it.
type Client struct {
	caller   *chain.ContractCaller
	tracker  *chain.StatusTracker
	chainID  ChainID
	exchange string
	signer   chain.Signer
	warnings []Warning
	log      *zap.Logger
	closeFn  func()
}

// ClientConfig holds configuration for creating a Client
type ClientConfig struct {
	RPCURL  string
	ChainID ChainID

	// PrivateKey is the hex-encoded default signing key. Optional:
	// read-only clients omit it and pass signers per call.
	PrivateKey string

	// Contract address overrides. Empty fields resolve from
	// DefaultContractAddresses for the chain.
	ExchangeAddress     string
	ERC20ProxyAddress   string
	ERC721ProxyAddress  string
	ERC1155ProxyAddress string
	ForwarderAddress    string

	// PollInterval spaces status-wait samples; zero means 10s.
	PollInterval time.Duration

	// Logger receives degraded-capability warnings and operational
	// debug output. Defaults to a no-op logger.
	Logger *zap.Logger
}

// NewClient dials the configured RPC endpoint and creates a client.
// A missing exchange address for the chain is fatal; missing proxy or
// forwarder addresses only degrade the operations that need them and
// are reported via Warnings.
func NewClient(config ClientConfig) (*Client, error) {
	backend, err := ethclient.Dial(config.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	client, err := NewClientWithBackend(config, backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	client.closeFn = backend.Close
	return client, nil
}

// NewClientWithBackend creates a client over an existing ledger
// backend. Used for custom transports and tests.
func NewClientWithBackend(config ClientConfig, backend chain.Backend) (*Client, error) {
	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}

	addresses, warnings, err := resolveAddresses(config)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		log.Warn("degraded capability", zap.String("capability", w.Capability), zap.String("detail", w.Message))
	}

	var signer chain.Signer
	if config.PrivateKey != "" {
		signer, err = chain.NewPrivateKeySigner(config.PrivateKey)
		if err != nil {
			return nil, err
		}
	}

	caller := chain.NewContractCallerWithBackend(backend, int64(config.ChainID), addresses, log)

	return &Client{
		caller:   caller,
		tracker:  chain.NewStatusTracker(caller, config.PollInterval),
		chainID:  config.ChainID,
		exchange: strings.ToLower(addresses.Exchange.Hex()),
		signer:   signer,
		warnings: warnings,
		log:      log,
	}, nil
}

// resolveAddresses merges config overrides over the chain's default
// registry. Overrides always win.
func resolveAddresses(config ClientConfig) (chain.Addresses, []Warning, error) {
	defaults := DefaultContractAddresses[config.ChainID]

	pick := func(override, fallback string) string {
		if override != "" {
			return override
		}
		return fallback
	}

	exchange := pick(config.ExchangeAddress, defaults.Exchange)
	if exchange == "" {
		return chain.Addresses{}, nil, fmt.Errorf("%w: chain %d", ErrExchangeAddressRequired, config.ChainID)
	}

	resolved := ContractAddresses{
		Exchange:     exchange,
		ERC20Proxy:   pick(config.ERC20ProxyAddress, defaults.ERC20Proxy),
		ERC721Proxy:  pick(config.ERC721ProxyAddress, defaults.ERC721Proxy),
		ERC1155Proxy: pick(config.ERC1155ProxyAddress, defaults.ERC1155Proxy),
		Forwarder:    pick(config.ForwarderAddress, defaults.Forwarder),
	}

	var warnings []Warning
	if resolved.ERC20Proxy == "" {
		warnings = append(warnings, Warning{Capability: "erc20-proxy", Message: "no ERC20 proxy address; fungible approvals unavailable"})
	}
	if resolved.ERC721Proxy == "" {
		warnings = append(warnings, Warning{Capability: "erc721-proxy", Message: "no ERC721 proxy address; NFT approvals unavailable"})
	}
	if resolved.ERC1155Proxy == "" {
		warnings = append(warnings, Warning{Capability: "erc1155-proxy", Message: "no ERC1155 proxy address; semi-fungible approvals unavailable"})
	}
	if resolved.Forwarder == "" {
		warnings = append(warnings, Warning{Capability: "forwarder", Message: "no forwarder address; native-asset fills unavailable"})
	}

	return chain.Addresses{
		Exchange:     common.HexToAddress(resolved.Exchange),
		ERC20Proxy:   common.HexToAddress(resolved.ERC20Proxy),
		ERC721Proxy:  common.HexToAddress(resolved.ERC721Proxy),
		ERC1155Proxy: common.HexToAddress(resolved.ERC1155Proxy),
		Forwarder:    common.HexToAddress(resolved.Forwarder),
	}, warnings, nil
}

// Warnings returns the degraded-capability diagnostics collected at
// construction.
func (c *Client) Warnings() []Warning {
	return c.warnings
}

// Close releases the underlying RPC connection, if the client owns one.
func (c *Client) Close() {
	if c.closeFn != nil {
		c.closeFn()
	}
}

// OrderOptions are per-order overrides applied on top of the client's
// ambient configuration by BuildOrder.
type OrderOptions struct {
	MakerAddress        string
	TakerAddress        string
	SenderAddress       string
	FeeRecipientAddress string
	MakerFee            string
	TakerFee            string
	FeeAssetData        string
	Expiration          time.Time
	Salt                string
}

// BuildOrder constructs a canonical order for the active chain and
// exchange. The maker defaults to the ambient signer's address.
func (c *Client) BuildOrder(makerAssets, takerAssets []chain.Asset, opts *OrderOptions) (*chain.Order, error) {
	if opts == nil {
		opts = &OrderOptions{}
	}

	maker := opts.MakerAddress
	if maker == "" {
		if c.signer == nil {
			return nil, ErrSignerRequired
		}
		maker = c.signer.Address().Hex()
	}

	return chain.BuildOrder(makerAssets, takerAssets, maker, chain.BuildConfig{
		ChainID:             int64(c.chainID),
		ExchangeAddress:     c.exchange,
		TakerAddress:        opts.TakerAddress,
		SenderAddress:       opts.SenderAddress,
		FeeRecipientAddress: opts.FeeRecipientAddress,
		MakerFee:            opts.MakerFee,
		TakerFee:            opts.TakerFee,
		FeeAssetData:        opts.FeeAssetData,
		Expiration:          opts.Expiration,
		Salt:                opts.Salt,
	})
}

// SignOrder signs an order with the given signer, or the ambient
// signer when nil.
func (c *Client) SignOrder(order *chain.Order, signer chain.Signer) (*chain.SignedOrder, error) {
	s, err := c.resolveSigner(signer)
	if err != nil {
		return nil, err
	}
	return chain.SignOrder(order, s, int64(c.chainID), c.exchange)
}

// VerifyOrder checks a signature against the order's maker. Pure.
func (c *Client) VerifyOrder(order *chain.Order, signature string) (bool, error) {
	return chain.VerifyOrderSignature(order, signature, int64(c.chainID), c.exchange)
}

// OrderHash computes the order's EIP-712 digest for the active chain.
func (c *Client) OrderHash(order *chain.Order) (common.Hash, error) {
	return chain.OrderSignHash(order, int64(c.chainID), c.exchange)
}

// GetApprovalStatus reports whether the asset's proxy may move it on
// the owner's behalf.
func (c *Client) GetApprovalStatus(ctx context.Context, owner common.Address, asset chain.Asset) (bool, error) {
	return c.caller.GetApprovalStatus(ctx, owner, asset)
}

// SetApproval grants or revokes the asset proxy's authorization and
// returns the pending transaction handle.
func (c *Client) SetApproval(ctx context.Context, asset chain.Asset, signer chain.Signer, approve bool, overrides *chain.TxOverrides) (*types.Transaction, error) {
	s, err := c.resolveSigner(signer)
	if err != nil {
		return nil, err
	}
	return c.caller.SetApproval(ctx, asset, s, approve, overrides)
}

// Fill submits a fill transaction for a signed order.
func (c *Client) Fill(ctx context.Context, signedOrder *chain.SignedOrder, opts chain.FillOptions, signer chain.Signer, overrides *chain.TxOverrides) (*types.Transaction, error) {
	s, err := c.resolveSigner(signer)
	if err != nil {
		return nil, err
	}
	return c.caller.FillOrder(ctx, signedOrder, opts, s, overrides)
}

// Cancel submits an on-chain cancellation for an order.
func (c *Client) Cancel(ctx context.Context, order *chain.Order, signer chain.Signer, overrides *chain.TxOverrides) (*types.Transaction, error) {
	s, err := c.resolveSigner(signer)
	if err != nil {
		return nil, err
	}
	return c.caller.CancelOrder(ctx, order, s, overrides)
}

// GetOrderInfo reads the order's current ledger state.
func (c *Client) GetOrderInfo(ctx context.Context, order *chain.Order) (*chain.OrderInfo, error) {
	return c.tracker.GetOrderInfo(ctx, order)
}

// GetOrderStatus reads the order's current status.
func (c *Client) GetOrderStatus(ctx context.Context, order *chain.Order) (chain.OrderStatus, error) {
	return c.tracker.GetOrderStatus(ctx, order)
}

// AwaitSettlement waits until the order leaves FILLABLE or the timeout
// elapses. See chain.StatusTracker.AwaitTerminal for the semantics.
func (c *Client) AwaitSettlement(ctx context.Context, order *chain.Order, timeout time.Duration, failOnTerminal bool) (*chain.OrderInfo, error) {
	return c.tracker.AwaitTerminal(ctx, order, timeout, failOnTerminal)
}

// AwaitTransaction blocks until a submitted transaction is mined.
func (c *Client) AwaitTransaction(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return c.caller.WaitForReceipt(ctx, txHash)
}

func (c *Client) resolveSigner(override chain.Signer) (chain.Signer, error) {
	if override != nil {
		return override, nil
	}
	if c.signer == nil {
		return nil, ErrSignerRequired
	}
	return c.signer, nil
}
