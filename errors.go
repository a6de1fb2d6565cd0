package assetswap

import (
	"fmt"

	"github.com/assetswap/asset-swap-sdk-go/chain"
)

// Operation-local errors surface from the chain package; the aliases
// below keep the whole taxonomy importable from the SDK root.
var (
	// ErrSignerRequired is returned when signing, approval or fill is
	// invoked and no signer resolves, ambient or per-call.
	ErrSignerRequired = chain.ErrSignerRequired

	// ErrForwarderUnavailable is returned when the native-asset fill
	// path is requested but no forwarder is configured for the chain.
	ErrForwarderUnavailable = chain.ErrForwarderUnavailable

	// ErrProxyUnavailable is returned when the asset's proxy contract
	// is not configured for the active chain.
	ErrProxyUnavailable = chain.ErrProxyUnavailable

	// ErrExchangeAddressRequired is fatal at construction: no exchange
	// contract address resolved for the active chain.
	ErrExchangeAddressRequired = chain.ErrExchangeAddressRequired
)

// InvalidParamError reports a caller-supplied parameter that fails
// validation before any ledger interaction.
type InvalidParamError struct {
	Message string
}

func (e *InvalidParamError) Error() string {
	return e.Message
}

// Warning is a non-fatal degraded-capability diagnostic produced at
// construction. The specific dependent operation fails later if
// actually invoked; callers decide whether to log, abort or ignore.
type Warning struct {
	Capability string
	Message    string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Capability, w.Message)
}
