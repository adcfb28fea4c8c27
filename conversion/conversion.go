// Package conversion derives exchange rates from normalized balances and formats them for display.
package conversion

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/Rshep3087/lunchtogo/accounts"
)

var (
	canadianEnglish = language.MustParse("en-CA")
	usEnglish       = language.AmericanEnglish
)

// Rate is primary units per one account currency unit, or 1 when the account balance is zero.
func Rate(primaryBalance, accountBalance float64) float64 {
	if accountBalance == 0 {
		return 1
	}

	return primaryBalance / accountBalance
}

// FormatCurrency renders value in code with two fraction digits, using the locale that
// treats primaryCode as the home currency.
func FormatCurrency(value float64, code, primaryCode string) string {
	return format(value, code, primaryCode, 2)
}

// FormatCurrencyPrecise is FormatCurrency with four fraction digits.
func FormatCurrencyPrecise(value float64, code, primaryCode string) string {
	return format(value, code, primaryCode, 4)
}

// Tooltip describes how an account balance was converted into the primary currency.
func Tooltip(primaryBalance float64, primaryCode string, accountBalance float64, accountCode string) string {
	rate := Rate(primaryBalance, accountBalance)

	return fmt.Sprintf("Converted to %s at %s = %s",
		FormatCurrency(primaryBalance, primaryCode, primaryCode),
		FormatCurrency(1, accountCode, primaryCode),
		FormatCurrencyPrecise(rate, primaryCode, primaryCode),
	)
}

// AccountTooltip is Tooltip for a's balances.
func AccountTooltip(a accounts.Account) string {
	return Tooltip(a.PrimaryCurrencyBalance, a.PrimaryCurrencyCode, a.AccountCurrencyBalance, a.AccountCurrencyCode)
}

// ShouldShowTooltip reports whether the conversion is worth showing: only when balances
// are shown in account currency, both are non-zero and the currencies differ.
func ShouldShowTooltip(a accounts.Account, mode accounts.CurrencyMode) bool {
	if mode != accounts.CurrencyAccount {
		return false
	}
	if a.PrimaryCurrencyBalance == 0 || a.AccountCurrencyBalance == 0 {
		return false
	}

	return !strings.EqualFold(a.PrimaryCurrencyCode, a.AccountCurrencyCode)
}

func localeFor(primaryCode string) language.Tag {
	if strings.EqualFold(primaryCode, "CAD") {
		return canadianEnglish
	}

	return usEnglish
}

func format(value float64, code, primaryCode string, digits int) string {
	p := message.NewPrinter(localeFor(primaryCode))

	symbol := strings.ToUpper(code) + " "
	if unit, err := currency.ParseISO(code); err == nil {
		symbol = p.Sprint(currency.Symbol(unit))
	}

	// the sign follows the rounded amount so tiny negatives print as zero
	scale := math.Pow10(digits)
	rounded := math.Round(math.Abs(value)*scale) / scale

	sign := ""
	if value < 0 && rounded != 0 {
		sign = "-"
	}

	amount := p.Sprint(number.Decimal(rounded,
		number.MinFractionDigits(digits),
		number.MaxFractionDigits(digits),
	))

	return sign + symbol + amount
}
