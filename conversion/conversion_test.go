package conversion

import (
	"testing"

	"github.com/carlmjohnson/be"

	"github.com/Rshep3087/lunchtogo/accounts"
)

func TestTooltip(t *testing.T) {
	tests := []struct {
		name           string
		primaryBalance float64
		primaryCode    string
		accountBalance float64
		accountCode    string
		want           string
	}{
		{
			name:           "usd account with cad primary",
			primaryBalance: 47772.69, primaryCode: "CAD",
			accountBalance: 34267.64, accountCode: "USD",
			want: "Converted to $47,772.69 at US$1.00 = $1.3941",
		},
		{
			name:           "same currency",
			primaryBalance: 1200.50, primaryCode: "CAD",
			accountBalance: 1200.50, accountCode: "CAD",
			want: "Converted to $1,200.50 at $1.00 = $1.0000",
		},
		{
			name:           "zero account balance",
			primaryBalance: 0, primaryCode: "CAD",
			accountBalance: 0, accountCode: "USD",
			want: "Converted to $0.00 at US$1.00 = $1.0000",
		},
		{
			name:           "negative balances",
			primaryBalance: -1394.30, primaryCode: "CAD",
			accountBalance: -1000.00, accountCode: "USD",
			want: "Converted to -$1,394.30 at US$1.00 = $1.3943",
		},
		{
			name:           "euro account",
			primaryBalance: 1350.00, primaryCode: "CAD",
			accountBalance: 1000.00, accountCode: "EUR",
			want: "Converted to $1,350.00 at €1.00 = $1.3500",
		},
		{
			name:           "cad account with usd primary",
			primaryBalance: 34267.64, primaryCode: "USD",
			accountBalance: 47772.69, accountCode: "CAD",
			want: "Converted to $34,267.64 at CA$1.00 = $0.7173",
		},
		{
			name:           "negative amount rounding to zero",
			primaryBalance: -0.001, primaryCode: "USD",
			accountBalance: 0, accountCode: "CAD",
			want: "Converted to $0.00 at CA$1.00 = $1.0000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tooltip(tt.primaryBalance, tt.primaryCode, tt.accountBalance, tt.accountCode)
			be.Equal(t, tt.want, got)
		})
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		value   float64
		code    string
		primary string
		want    string
	}{
		{1000, "CAD", "CAD", "$1,000.00"},
		{1000, "USD", "CAD", "US$1,000.00"},
		{1000, "USD", "USD", "$1,000.00"},
		{1000, "CAD", "USD", "CA$1,000.00"},
		{-5, "USD", "usd", "-$5.00"},
		{-0.004, "CAD", "CAD", "$0.00"},
		{-0.006, "USD", "CAD", "-US$0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			be.Equal(t, tt.want, FormatCurrency(tt.value, tt.code, tt.primary))
		})
	}
}

func TestFormatCurrencyPrecise(t *testing.T) {
	be.Equal(t, "$1.3941", FormatCurrencyPrecise(Rate(47772.69, 34267.64), "CAD", "CAD"))
}

func TestRate(t *testing.T) {
	be.Equal(t, 1.0, Rate(500, 0))
	be.Equal(t, 2.0, Rate(200, 100))
}

func TestShouldShowTooltip(t *testing.T) {
	converted := accounts.Account{
		PrimaryCurrencyBalance: 47772.69,
		PrimaryCurrencyCode:    "CAD",
		AccountCurrencyBalance: 34267.64,
		AccountCurrencyCode:    "USD",
	}
	sameCurrency := converted
	sameCurrency.AccountCurrencyCode = "CAD"
	zero := converted
	zero.AccountCurrencyBalance = 0

	tests := []struct {
		name    string
		account accounts.Account
		mode    accounts.CurrencyMode
		want    bool
	}{
		{name: "account mode with conversion", account: converted, mode: accounts.CurrencyAccount, want: true},
		{name: "primary mode", account: converted, mode: accounts.CurrencyPrimary, want: false},
		{name: "same currency", account: sameCurrency, mode: accounts.CurrencyAccount, want: false},
		{name: "zero balance", account: zero, mode: accounts.CurrencyAccount, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be.Equal(t, tt.want, ShouldShowTooltip(tt.account, tt.mode))
		})
	}
}
