package chain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ZeroAddress is the wildcard taker/sender value: anyone may act.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// DefaultOrderLifetime is applied when no expiration is supplied.
const DefaultOrderLifetime = time.Hour

// BuildConfig carries caller overrides merged over ambient defaults by
// BuildOrder. Zero fields fall back to defaults.
type BuildConfig struct {
	ChainID             int64
	ExchangeAddress     string
	TakerAddress        string
	SenderAddress       string
	FeeRecipientAddress string
	MakerFee            string
	TakerFee            string
	FeeAssetData        string
	Expiration          time.Time
	Salt                string
}

// BuildOrder assembles a canonical order from maker/taker assets and
// config. Defaults: one-hour expiration, fresh random 256-bit salt,
// zero fees, wildcard taker. The result is already normalized.
func BuildOrder(makerAssets, takerAssets []Asset, maker string, cfg BuildConfig) (*Order, error) {
	if cfg.ExchangeAddress == "" {
		return nil, ErrExchangeAddressRequired
	}
	if maker == "" {
		return nil, fmt.Errorf("maker address is required")
	}
	if len(makerAssets) == 0 || len(takerAssets) == 0 {
		return nil, fmt.Errorf("maker and taker assets are required")
	}

	makerAssetData, makerAmount, err := encodeSide(makerAssets)
	if err != nil {
		return nil, err
	}
	takerAssetData, takerAmount, err := encodeSide(takerAssets)
	if err != nil {
		return nil, err
	}

	salt := cfg.Salt
	if salt == "" {
		salt, err = generateSalt()
		if err != nil {
			return nil, err
		}
	}

	expiration := cfg.Expiration
	if expiration.IsZero() {
		expiration = time.Now().Add(DefaultOrderLifetime)
	}

	feeAssetData := cfg.FeeAssetData
	if feeAssetData == "" {
		feeAssetData = "0x"
	}

	order := &Order{
		ChainID:             cfg.ChainID,
		ExchangeAddress:     cfg.ExchangeAddress,
		MakerAddress:        maker,
		TakerAddress:        cfg.TakerAddress,
		FeeRecipientAddress: cfg.FeeRecipientAddress,
		SenderAddress:       cfg.SenderAddress,
		MakerAssetAmount:    makerAmount,
		TakerAssetAmount:    takerAmount,
		MakerFee:            cfg.MakerFee,
		TakerFee:            cfg.TakerFee,
		ExpirationTime:      fmt.Sprintf("%d", expiration.Unix()),
		Salt:                salt,
		MakerAssetData:      makerAssetData,
		TakerAssetData:      takerAssetData,
		MakerFeeAssetData:   feeAssetData,
		TakerFeeAssetData:   feeAssetData,
	}

	return NormalizeOrder(order), nil
}

// encodeSide encodes one side of the swap, returning the asset data
// blob and the order-level amount for that side.
func encodeSide(assets []Asset) (string, string, error) {
	if len(assets) == 1 {
		data, err := EncodeAssetData(assets[0])
		if err != nil {
			return "", "", err
		}
		return data, assetAmountOrDefault(assets[0]), nil
	}

	// Bundles carry per-asset amounts inside the blob; the order
	// amount becomes the bundle multiplier.
	data, err := EncodeMultiAssetData(assets)
	if err != nil {
		return "", "", err
	}
	return data, "1", nil
}

// NormalizeOrder returns an idempotent canonical copy: lowercase
// addresses, stringified numerics, defaulted optionals. The input is
// not modified.
func NormalizeOrder(o *Order) *Order {
	n := *o
	n.MakerAddress = normalizeAddress(o.MakerAddress)
	n.TakerAddress = normalizeAddress(o.TakerAddress)
	n.FeeRecipientAddress = normalizeAddress(o.FeeRecipientAddress)
	n.SenderAddress = normalizeAddress(o.SenderAddress)
	n.ExchangeAddress = normalizeAddress(o.ExchangeAddress)
	n.MakerAssetAmount = normalizeNumeric(o.MakerAssetAmount)
	n.TakerAssetAmount = normalizeNumeric(o.TakerAssetAmount)
	n.MakerFee = normalizeNumeric(o.MakerFee)
	n.TakerFee = normalizeNumeric(o.TakerFee)
	n.ExpirationTime = normalizeNumeric(o.ExpirationTime)
	n.Salt = normalizeNumeric(o.Salt)
	n.MakerAssetData = normalizeHexData(o.MakerAssetData)
	n.TakerAssetData = normalizeHexData(o.TakerAssetData)
	n.MakerFeeAssetData = normalizeHexData(o.MakerFeeAssetData)
	n.TakerFeeAssetData = normalizeHexData(o.TakerFeeAssetData)
	return &n
}

// generateSalt draws a fresh random 256-bit value as a decimal string.
func generateSalt() (string, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("failed to generate order salt: %w", err)
	}
	return new(big.Int).SetBytes(buf[:]).String(), nil
}

func normalizeAddress(addr string) string {
	return strings.ToLower(common.HexToAddress(addr).Hex())
}

// normalizeNumeric reparses a decimal string to strip leading zeros
// and whitespace; "" becomes "0". Unparseable input is left alone so
// the error surfaces at hash or submission time.
func normalizeNumeric(s string) string {
	v, err := parseUint256(strings.TrimSpace(s))
	if err != nil {
		return s
	}
	return v.String()
}

func normalizeHexData(s string) string {
	if s == "" {
		return "0x"
	}
	return "0x" + strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"))
}
