package accounts

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Summary is the primary currency total of every account.
type Summary struct {
	Assets      float64 `json:"assets"`
	Liabilities float64 `json:"liabilities"`
	Net         float64 `json:"net"`
}

// Totals sums primary currency balances. Net is assets minus liabilities.
func Totals(accounts []Account) Summary {
	sum := func(isAsset bool) decimal.Decimal {
		return lo.Reduce(accounts, func(acc decimal.Decimal, a Account, _ int) decimal.Decimal {
			if a.IsAsset != isAsset {
				return acc
			}
			return acc.Add(decimal.NewFromFloat(a.PrimaryCurrencyBalance))
		}, decimal.Zero)
	}

	assets := sum(true)
	liabilities := sum(false)

	return Summary{
		Assets:      assets.InexactFloat64(),
		Liabilities: liabilities.InexactFloat64(),
		Net:         assets.Sub(liabilities).InexactFloat64(),
	}
}
