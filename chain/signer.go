package chain

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Signature type byte appended to order signatures, telling the
// exchange contract how to validate them.
const SignatureTypeEIP712 = 0x02

// Signer is the capability required to authorize orders and
// transactions. Order signing always receives the full typed-data
// envelope, never a bare digest, so wallet-backed implementations can
// show a structured prompt.
type Signer interface {
	Address() common.Address
	SignTypedData(typedData apitypes.TypedData) ([]byte, error)
	SignTx(chainID *big.Int, tx *types.Transaction) (*types.Transaction, error)
}

// PrivateKeySigner authorizes with a locally held ECDSA key.
type PrivateKeySigner struct {
	key *ecdsa.PrivateKey
}

// NewPrivateKeySigner parses a hex-encoded private key.
func NewPrivateKeySigner(privateKeyHex string) (*PrivateKeySigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return &PrivateKeySigner{key: key}, nil
}

// Address returns the signer's account address.
func (s *PrivateKeySigner) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

// SignTypedData signs the EIP-712 digest of the typed data, returning
// a 65-byte r||s||v signature with v in {27, 28}.
func (s *PrivateKeySigner) SignTypedData(typedData apitypes.TypedData) ([]byte, error) {
	digest, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return nil, fmt.Errorf("failed to hash typed data: %w", err)
	}
	sig, err := crypto.Sign(digest, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign typed data: %w", err)
	}
	sig[64] += 27
	return sig, nil
}

// SignTx signs a transaction for the given chain with EIP-155 replay
// protection.
func (s *PrivateKeySigner) SignTx(chainID *big.Int, tx *types.Transaction) (*types.Transaction, error) {
	return types.SignTx(tx, types.NewEIP155Signer(chainID), s.key)
}

// SignOrder produces a SignedOrder over the order's typed-data hash.
// The EIP-712 signature-type byte is appended for on-chain validation.
func SignOrder(order *Order, signer Signer, chainID int64, exchangeAddress string) (*SignedOrder, error) {
	if signer == nil {
		return nil, ErrSignerRequired
	}

	typedData, err := OrderTypedData(order, chainID, exchangeAddress)
	if err != nil {
		return nil, err
	}

	sig, err := signer.SignTypedData(typedData)
	if err != nil {
		return nil, fmt.Errorf("failed to sign order: %w", err)
	}
	sig = append(sig, SignatureTypeEIP712)

	return &SignedOrder{
		Order:     NormalizeOrder(order),
		Signature: hexutil.Encode(sig),
	}, nil
}

// VerifyOrderSignature recovers the signing address from a signature
// over the order's EIP-712 hash and compares it, case-insensitively,
// with the order's maker. Pure; never touches the ledger. Signatures
// may carry the trailing signature-type byte or not.
func VerifyOrderSignature(order *Order, signature string, chainID int64, exchangeAddress string) (bool, error) {
	digest, err := OrderSignHash(order, chainID, exchangeAddress)
	if err != nil {
		return false, err
	}

	sig := common.FromHex(signature)
	if len(sig) == 66 {
		sig = sig[:65]
	}
	if len(sig) != 65 {
		return false, fmt.Errorf("invalid signature length: %d", len(sig))
	}

	// crypto.SigToPub expects the recovery id in {0, 1}.
	recovery := make([]byte, 65)
	copy(recovery, sig)
	if recovery[64] >= 27 {
		recovery[64] -= 27
	}

	pub, err := crypto.SigToPub(digest.Bytes(), recovery)
	if err != nil {
		return false, nil
	}
	recovered := crypto.PubkeyToAddress(*pub)

	return strings.EqualFold(recovered.Hex(), order.MakerAddress), nil
}
