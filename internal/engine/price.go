package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// CalculateTotalPrice is nightlyRate multiplied by the nights in [checkIn, checkOut).
func CalculateTotalPrice(nightlyRate decimal.Decimal, checkIn, checkOut time.Time) (decimal.Decimal, error) {
	stay, err := NewDateRange(checkIn, checkOut)
	if err != nil {
		return decimal.Zero, err
	}

	if nightlyRate.IsNegative() {
		return decimal.Zero, ErrNegativeRate
	}

	return nightlyRate.Mul(decimal.NewFromInt(int64(stay.Nights()))), nil
}
