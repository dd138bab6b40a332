package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownLocation = errors.New("ledger: unknown location")
	ErrUnknownItem     = errors.New("ledger: unknown recurring item")
	ErrUnknownMember   = errors.New("ledger: unknown member")
	ErrZeroCapacity    = errors.New("ledger: zero capacity")
	ErrEmptyRoster     = errors.New("ledger: empty roster")
	ErrInvalidCost     = errors.New("ledger: invalid cost")
	// ErrNegativeRemainder is informational: the per-event deductions already
	// exceed the invoice. It is returned together with a result.
	ErrNegativeRemainder = errors.New("ledger: deductions exceed invoice")
	ErrStillReferenced   = errors.New("ledger: still referenced")
	ErrReservedMember    = errors.New("ledger: reserved member")
	ErrNotFound          = errors.New("ledger: not found")
	ErrPersistence       = errors.New("ledger: persistence failure")
)

var domainErrors = []error{
	ErrUnknownLocation,
	ErrUnknownItem,
	ErrUnknownMember,
	ErrZeroCapacity,
	ErrEmptyRoster,
	ErrInvalidCost,
	ErrNegativeRemainder,
	ErrStillReferenced,
	ErrReservedMember,
	ErrNotFound,
	ErrPersistence,
}

func isDomain(err error) bool {
	for _, d := range domainErrors {
		if errors.Is(err, d) {
			return true
		}
	}
	return false
}

// classify passes domain errors through and tags everything else as a
// persistence failure.
func classify(err error) error {
	if err == nil || isDomain(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

func unknown(kind error, name string) error {
	return fmt.Errorf("%w: %s", kind, name)
}
