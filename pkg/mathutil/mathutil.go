package mathutil

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// TenThousands is the denominator for fees expressed in basis points.
var TenThousands = uint64(10000)

func init() {
	decimal.DivisionPrecision = 8
}

// PercentOf calculates percent/100 of the given amount using integer floor
// division.
func PercentOf(amount *big.Int, percent uint64) *big.Int {
	z := new(big.Int).Mul(amount, new(big.Int).SetUint64(percent))
	return z.Quo(z, big.NewInt(100))
}

// BasisPointsOf calculates bps/10000 of the given amount using integer floor
// division.
func BasisPointsOf(amount *big.Int, bps uint64) *big.Int {
	z := new(big.Int).Mul(amount, new(big.Int).SetUint64(bps))
	return z.Quo(z, new(big.Int).SetUint64(TenThousands))
}

// SplitByShares calculates share/totalShares of the given amount with floor
// division and returns both the portion and the remainder, so that
// portion + remainder == amount always holds.
func SplitByShares(amount *big.Int, share, totalShares uint64) (portion, remainder *big.Int) {
	portion = new(big.Int).Mul(amount, new(big.Int).SetUint64(share))
	portion.Quo(portion, new(big.Int).SetUint64(totalShares))
	remainder = new(big.Int).Sub(amount, portion)
	return
}

// Halve splits an amount in two, giving the second half the extra unit when
// the amount is odd, so that half + rest == amount always holds.
func Halve(amount *big.Int) (half, rest *big.Int) {
	half = new(big.Int).Quo(amount, big.NewInt(2))
	rest = new(big.Int).Sub(amount, half)
	return
}

// DecimalFromBig converts a big integer amount to decimal.Decimal.
func DecimalFromBig(x *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(x, 0)
}

// BigFromDecimalFloor converts a decimal amount to a big integer, discarding
// any fractional part.
func BigFromDecimalFloor(x decimal.Decimal) *big.Int {
	return x.Floor().BigInt()
}
