package chain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testExchange = "0x48bacb9266a570d521063ef5dd96e61686dbe788"
	testMaker    = "0x5409ed021d9299bf6814279a6a1411a7e866a631"
)

func baseOrder() *Order {
	return &Order{
		ChainID:          1337,
		ExchangeAddress:  testExchange,
		MakerAddress:     testMaker,
		MakerAssetAmount: "100000000000000000000",
		TakerAssetAmount: "1",
		MakerFee:         "0",
		TakerFee:         "0",
		ExpirationTime:   "2000000000",
		Salt:             "66097384406870180066005463840521416547397653771229529521625723055963176805102",
		MakerAssetData:   "0xf47261b00000000000000000000000006b175474e89094c44da98b954eedeac495271d0f",
		TakerAssetData:   "0x02571792000000000000000000000000b47e3cd837ddf8e4c57f05d70ab865de6e193bbb00000000000000000000000000000000000000000000000000000000000004d2",
	}
}

func TestOrderSignHashDeterministic(t *testing.T) {
	order := baseOrder()

	h1, err := OrderSignHash(order, 1337, testExchange)
	require.NoError(t, err)
	h2, err := OrderSignHash(order, 1337, testExchange)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
}

func TestOrderSignHashNormalizationEquivalence(t *testing.T) {
	order := baseOrder()

	shouted := *order
	shouted.MakerAddress = strings.ToUpper(strings.TrimPrefix(order.MakerAddress, "0x"))
	shouted.MakerAssetData = strings.ToUpper(strings.TrimPrefix(order.MakerAssetData, "0x"))
	shouted.MakerFee = ""
	shouted.TakerFee = "000"

	h1, err := OrderSignHash(order, 1337, testExchange)
	require.NoError(t, err)
	h2, err := OrderSignHash(&shouted, 1337, testExchange)
	require.NoError(t, err)

	assert.Equal(t, h1, h2, "normalization-equivalent orders must hash identically")
}

func TestOrderSignHashFieldSensitivity(t *testing.T) {
	order := baseOrder()
	base, err := OrderSignHash(order, 1337, testExchange)
	require.NoError(t, err)

	mutations := map[string]func(o *Order){
		"maker":       func(o *Order) { o.MakerAddress = "0x6ecbe1db9ef729cbe972c83fb886247691fb6beb" },
		"taker":       func(o *Order) { o.TakerAddress = "0x6ecbe1db9ef729cbe972c83fb886247691fb6beb" },
		"makerAmount": func(o *Order) { o.MakerAssetAmount = "42" },
		"takerAmount": func(o *Order) { o.TakerAssetAmount = "42" },
		"makerFee":    func(o *Order) { o.MakerFee = "5" },
		"expiration":  func(o *Order) { o.ExpirationTime = "2000000001" },
		"salt":        func(o *Order) { o.Salt = "99" },
		"makerData":   func(o *Order) { o.MakerAssetData = "0xf47261b0000000000000000000000000000000000000000000000000000000000000dead" },
		"feeData":     func(o *Order) { o.MakerFeeAssetData = "0xf47261b0000000000000000000000000000000000000000000000000000000000000dead" },
	}

	for name, mutate := range mutations {
		mutated := *order
		mutate(&mutated)
		h, err := OrderSignHash(&mutated, 1337, testExchange)
		require.NoError(t, err, name)
		assert.NotEqual(t, base, h, "mutating %s must change the hash", name)
	}
}

func TestOrderSignHashDomainSensitivity(t *testing.T) {
	order := baseOrder()

	base, err := OrderSignHash(order, 1337, testExchange)
	require.NoError(t, err)

	otherChain, err := OrderSignHash(order, 1, testExchange)
	require.NoError(t, err)
	assert.NotEqual(t, base, otherChain)

	otherExchange, err := OrderSignHash(order, 1337, "0x61935cbdd02287b511119ddb11aeb42f1593b7ef")
	require.NoError(t, err)
	assert.NotEqual(t, base, otherExchange)
}

func TestOrderSignHashRequiresExchange(t *testing.T) {
	_, err := OrderSignHash(baseOrder(), 1337, "")
	assert.ErrorIs(t, err, ErrExchangeAddressRequired)
}

func TestOrderSignHashRejectsBadNumerics(t *testing.T) {
	order := baseOrder()
	order.Salt = "not-a-number"

	_, err := OrderSignHash(order, 1337, testExchange)
	assert.ErrorIs(t, err, ErrInvalidOrderSalt)
}
