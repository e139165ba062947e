package sluice

import (
	"github.com/iov-one/weave/errors"
)

var (
	// ErrAlreadyInitialized is returned when creating the gate
	// configuration although one exists already.
	ErrAlreadyInitialized = errors.Register(1000, "already initialized")

	// ErrSignerMismatch is returned when a transfer is not authorized by
	// the configured source account.
	ErrSignerMismatch = errors.Register(1001, "signer mismatch")

	// ErrDestinationMismatch is returned when a transfer declares a
	// destination other than the configured one.
	ErrDestinationMismatch = errors.Register(1002, "destination mismatch")

	// ErrBelowThreshold is returned when a transfer amount is less than
	// the configured threshold.
	ErrBelowThreshold = errors.Register(1003, "amount below threshold")

	// ErrInsufficientFunds is returned when the source account balance
	// cannot cover the transfer amount.
	ErrInsufficientFunds = errors.Register(1004, "insufficient funds")
)
