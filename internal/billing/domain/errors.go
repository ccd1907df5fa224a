package billing

import "errors"

var (
	// ErrInvalidPeriod indicates a month outside 1..12 or a zero year.
	ErrInvalidPeriod = errors.New("billing: invalid period")
	// ErrInvalidAmount indicates a non-positive charge amount.
	ErrInvalidAmount = errors.New("billing: invalid amount")
	// ErrEmptyLeaseID indicates a missing lease id.
	ErrEmptyLeaseID = errors.New("billing: empty lease id")
	// ErrInvalidChargeType indicates an unknown charge type.
	ErrInvalidChargeType = errors.New("billing: invalid charge type")
	// ErrInvalidFeeType indicates an unknown late fee type.
	ErrInvalidFeeType = errors.New("billing: invalid fee type")
	// ErrNilCharge indicates a nil charge argument.
	ErrNilCharge = errors.New("billing: nil charge")
)
