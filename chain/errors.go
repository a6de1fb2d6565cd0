package chain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOrderSalt is returned when an order salt is not a
	// valid non-negative decimal string.
	ErrInvalidOrderSalt = errors.New("invalid order salt")

	// ErrInvalidTokenID is returned when a non-fungible asset carries
	// no parseable token identifier.
	ErrInvalidTokenID = errors.New("invalid token ID")

	// ErrInvalidMakerAmount is returned for an unparseable maker amount.
	ErrInvalidMakerAmount = errors.New("invalid maker asset amount")

	// ErrInvalidTakerAmount is returned for an unparseable taker amount.
	ErrInvalidTakerAmount = errors.New("invalid taker asset amount")

	// ErrInvalidFeeAmount is returned for an unparseable fee amount.
	ErrInvalidFeeAmount = errors.New("invalid fee amount")

	// ErrInvalidExpiration is returned for an unparseable expiration.
	ErrInvalidExpiration = errors.New("invalid expiration time")

	// ErrInvalidNumericValue is returned when a numeric order field is
	// not a non-negative decimal string.
	ErrInvalidNumericValue = errors.New("invalid numeric value")

	// ErrSignerRequired is returned when an operation that authorizes
	// state (signing, approval, fill) has no signer to work with.
	ErrSignerRequired = errors.New("signer required")

	// ErrForwarderUnavailable is returned when the native-asset fill
	// path is requested on a chain with no forwarder configured.
	ErrForwarderUnavailable = errors.New("no forwarder configured for this chain")

	// ErrProxyUnavailable is returned when no asset proxy is configured
	// for the asset's token standard.
	ErrProxyUnavailable = errors.New("no asset proxy configured for asset kind")

	// ErrExchangeAddressRequired is returned when an order is built or
	// hashed without an exchange contract address.
	ErrExchangeAddressRequired = errors.New("exchange contract address required")
)

// UnexpectedOrderStatusError reports that a status wait hit a terminal
// status other than FULLY_FILLED while the caller asked for fills only.
type UnexpectedOrderStatusError struct {
	Status OrderStatus
}

func (e *UnexpectedOrderStatusError) Error() string {
	return fmt.Sprintf("unexpected order status: %s", e.Status)
}

// TransactionSubmissionError wraps a ledger rejection of a submitted
// transaction. The underlying cause is preserved for errors.Is/As.
type TransactionSubmissionError struct {
	Op  string
	Err error
}

func (e *TransactionSubmissionError) Error() string {
	return fmt.Sprintf("transaction submission failed (%s): %v", e.Op, e.Err)
}

func (e *TransactionSubmissionError) Unwrap() error { return e.Err }
