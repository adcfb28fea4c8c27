package accounts

import (
	"fmt"
	"strings"
)

// StaleAfterDays is how old a balance may get before it is flagged.
const StaleAfterDays = 7

// CurrencyMode selects which balance is shown for an account.
type CurrencyMode string

const (
	CurrencyPrimary CurrencyMode = "primary"
	CurrencyAccount CurrencyMode = "account"
)

// ParseCurrencyMode validates s. An empty string selects CurrencyPrimary.
func ParseCurrencyMode(s string) (CurrencyMode, error) {
	switch CurrencyMode(s) {
	case "", CurrencyPrimary:
		return CurrencyPrimary, nil
	case CurrencyAccount:
		return CurrencyAccount, nil
	}

	return "", fmt.Errorf("invalid currency mode %q (must be %s or %s)", s, CurrencyPrimary, CurrencyAccount)
}

// DisplayBalance returns the balance and currency code to show under mode.
func (a Account) DisplayBalance(mode CurrencyMode) (float64, string) {
	if mode == CurrencyAccount {
		return a.AccountCurrencyBalance, a.AccountCurrencyCode
	}

	return a.PrimaryCurrencyBalance, a.PrimaryCurrencyCode
}

// IsStale reports whether the balance is more than StaleAfterDays old.
func (a Account) IsStale() bool {
	return a.DaysSinceUpdate != nil && *a.DaysSinceUpdate > StaleAfterDays
}

// FormatDaysSinceUpdate renders a freshness label.
func FormatDaysSinceUpdate(days *int) string {
	switch {
	case days == nil:
		return "Unknown"
	case *days == 0:
		return "Updated today"
	case *days == 1:
		return "Updated 1 day ago"
	default:
		return fmt.Sprintf("Updated %d days ago", *days)
	}
}

var icons = map[string]string{
	"asset-checking":          "🏦",
	"asset-savings":           "💰",
	"asset-investment":        "📈",
	"asset-retirement":        "🏖️",
	"asset-cash":              "💰",
	"asset-real-estate":       "🏠",
	"asset-primary-residence": "🏡",
	"asset-vehicle":           "🚗",
	"asset-other":             "💼",

	"liability-credit":      "💳",
	"liability-credit-card": "💳",
	"liability-loan":        "📄",
	"liability-mortgage":    "🏠",
	"liability-other":       "📉",

	"asset":     "💰",
	"liability": "💳",
}

// Icon returns the emoji for an icon key, falling back to the key's classification.
func Icon(iconKey string) string {
	if icon, ok := icons[iconKey]; ok {
		return icon
	}

	category, _, _ := strings.Cut(iconKey, "-")
	if icon, ok := icons[category]; ok {
		return icon
	}

	return "📄"
}
