package engine

import "github.com/shopspring/decimal"

// SplitEqual divides pool into n shares rounded half-up to precision decimal
// places, with the rounding drift folded into the first share so the shares
// always sum to the pool exactly. Callers relying on a deterministic
// recipient for the drift must order the recipients before assigning shares.
//
// When the pool is so small that half-up shares would overdraw it, the
// shares fall back to truncation and the first share carries the whole
// positive remainder. n <= 0 or a non-positive pool yields no shares.
func SplitEqual(pool decimal.Decimal, n int, precision int32) []decimal.Decimal {
	if n <= 0 || !pool.IsPositive() {
		return nil
	}

	count := decimal.NewFromInt(int64(n))
	share := pool.DivRound(count, precision)

	first := pool.Sub(share.Mul(decimal.NewFromInt(int64(n - 1))))
	if first.IsNegative() {
		share = pool.Div(count).RoundDown(precision)
		first = pool.Sub(share.Mul(decimal.NewFromInt(int64(n - 1))))
	}

	shares := make([]decimal.Decimal, n)
	shares[0] = first
	for i := 1; i < n; i++ {
		shares[i] = share
	}
	return shares
}
