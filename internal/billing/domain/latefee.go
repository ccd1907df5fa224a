package billing

import "math"

// FeeType selects the late fee formula.
type FeeType string

const (
	FeeTypeFlat       FeeType = "FLAT"
	FeeTypePercentage FeeType = "PERCENTAGE"
)

// LateFeeConfig is the per-property late fee policy. A property with no
// stored config falls back to DefaultLateFeeConfig.
type LateFeeConfig struct {
	PropertyID      string
	GracePeriodDays int
	FeeType         FeeType
	FeeAmount       float64
	MaxFeeAmount    *float64
	IsActive        bool
}

// DefaultLateFeeConfig is the policy applied when a property has none
// configured: 5-day grace, $50 flat, active.
func DefaultLateFeeConfig() LateFeeConfig {
	return LateFeeConfig{
		GracePeriodDays: 5,
		FeeType:         FeeTypeFlat,
		FeeAmount:       50,
		IsActive:        true,
	}
}

// Fee computes the late fee for an unpaid balance. A flat fee is the
// configured amount regardless of the balance; a percentage fee is
// unpaid*rate/100, capped at MaxFeeAmount when set.
func (c LateFeeConfig) Fee(unpaid float64) (float64, error) {
	switch c.FeeType {
	case FeeTypeFlat:
		return c.FeeAmount, nil
	case FeeTypePercentage:
		fee := unpaid * c.FeeAmount / 100
		if c.MaxFeeAmount != nil && fee > *c.MaxFeeAmount {
			fee = *c.MaxFeeAmount
		}
		return math.Round(fee*100) / 100, nil
	default:
		return 0, ErrInvalidFeeType
	}
}
