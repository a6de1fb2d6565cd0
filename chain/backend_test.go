package chain

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

// fakeBackend is a programmable in-memory ledger for tests.
type fakeBackend struct {
	mu      sync.Mutex
	callFn  func(call ethereum.CallMsg) ([]byte, error)
	sendErr error
	sent    []*types.Transaction
}

func (b *fakeBackend) ChainID(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1337), nil
}

func (b *fakeBackend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return b.callFn(call)
}

func (b *fakeBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return 7, nil
}

func (b *fakeBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (b *fakeBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sendErr != nil {
		return b.sendErr
	}
	b.sent = append(b.sent, tx)
	return nil
}

func (b *fakeBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: txHash}, nil
}

func (b *fakeBackend) sentTxs() []*types.Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*types.Transaction, len(b.sent))
	copy(out, b.sent)
	return out
}

// testAddresses gives every capability a distinct address.
var testAddresses = Addresses{
	Exchange:     common.HexToAddress("0x48bacb9266a570d521063ef5dd96e61686dbe788"),
	ERC20Proxy:   common.HexToAddress("0x1dc4c1cefef38a777b15aa20260a54e584b16c48"),
	ERC721Proxy:  common.HexToAddress("0x1d7022f5b17d2f8b695918fb48fa1089c9f85401"),
	ERC1155Proxy: common.HexToAddress("0x6a4a62e5a7ed13c361b176a5f62c2ee620ac0df8"),
	Forwarder:    common.HexToAddress("0x6958f5e95332d93d21af0d7b9ca85b8212fee0a5"),
}

func newTestCaller(t *testing.T, backend Backend) *ContractCaller {
	t.Helper()
	return NewContractCallerWithBackend(backend, 1337, testAddresses, nil)
}

func newTestSigner(t *testing.T) *PrivateKeySigner {
	t.Helper()
	signer, err := NewPrivateKeySigner("c87509a1c067bbde78beb793e6fa76530b6382a4c0241e5e4a9ec0a0f44dc0d3")
	require.NoError(t, err)
	return signer
}

// testOrder returns a normalized fillable-looking order against the
// test exchange.
func testOrder(t *testing.T, maker string) *Order {
	t.Helper()
	makerData, err := EncodeAssetData(Asset{Kind: AssetKindERC20, TokenAddress: "0x6b175474e89094c44da98b954eedeac495271d0f", Amount: "100"})
	require.NoError(t, err)
	takerData, err := EncodeAssetData(Asset{Kind: AssetKindERC721, TokenAddress: "0xb47e3cd837ddf8e4c57f05d70ab865de6e193bbb", TokenID: "1234"})
	require.NoError(t, err)

	return NormalizeOrder(&Order{
		ChainID:          1337,
		ExchangeAddress:  testAddresses.Exchange.Hex(),
		MakerAddress:     maker,
		MakerAssetAmount: "100",
		TakerAssetAmount: "1",
		ExpirationTime:   "2000000000",
		Salt:             "12345",
		MakerAssetData:   makerData,
		TakerAssetData:   takerData,
	})
}

// packOrderInfoOutput encodes a getOrderInfo return value.
func packOrderInfoOutput(t *testing.T, status OrderStatus, hash common.Hash, filled *big.Int) []byte {
	t.Helper()
	out := struct {
		OrderStatus                 uint8
		OrderHash                   [32]byte
		OrderTakerAssetFilledAmount *big.Int
	}{uint8(status), hash, filled}

	data, err := abi.Arguments(exchangeABI.Methods["getOrderInfo"].Outputs).Pack(out)
	require.NoError(t, err)
	return data
}

// selectorOf extracts the 4-byte method selector from calldata.
func selectorOf(data []byte) [4]byte {
	var sel [4]byte
	copy(sel[:], data[:4])
	return sel
}

func methodID(a abi.ABI, name string) [4]byte {
	var sel [4]byte
	copy(sel[:], a.Methods[name].ID)
	return sel
}
