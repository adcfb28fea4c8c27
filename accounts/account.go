// Package accounts turns Lunch Money assets and linked accounts into one
// normalized account shape and groups them for display.
package accounts

import (
	"strings"
	"time"
)

// Classification is the coarse asset or liability split.
type Classification string

const (
	Asset     Classification = "asset"
	Liability Classification = "liability"
)

// Label is the group heading for the classification.
func (c Classification) Label() string {
	if c == Liability {
		return "Liabilities"
	}

	return "Assets"
}

// Source records which upstream resource produced an account.
type Source string

const (
	SourceAsset Source = "asset"
	SourcePlaid Source = "plaid"
)

// UnnamedAccount is used when neither the display name nor the name has any text.
const UnnamedAccount = "Unnamed Account"

// TimestampFormat renders LastUpdated as an ISO-8601 UTC timestamp with milliseconds.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// Account is the normalized view of an asset or linked account.
type Account struct {
	ID string `json:"id"`
	// Name is never empty.
	Name string `json:"name"`
	// AccountType is the display sub-classification, e.g. "Cash" or "Investment".
	AccountType string         `json:"account_type"`
	Type        Classification `json:"type"`
	// IsAsset is always Type == Asset.
	IsAsset         bool       `json:"is_asset"`
	Source          Source     `json:"source"`
	InstitutionName *string    `json:"institution_name,omitempty"`
	Status          *string    `json:"status,omitempty"`
	LastUpdated     *time.Time `json:"last_updated"`
	// DaysSinceUpdate is nil exactly when LastUpdated is nil.
	DaysSinceUpdate        *int    `json:"days_since_update"`
	PrimaryCurrencyBalance float64 `json:"primary_currency_balance"`
	AccountCurrencyBalance float64 `json:"account_currency_balance"`
	PrimaryCurrencyCode    string  `json:"primary_currency_code"`
	AccountCurrencyCode    string  `json:"account_currency_code"`
	IconKey                string  `json:"icon_key"`
}

// LastUpdatedString formats LastUpdated, or returns "" when it is unknown.
func (a Account) LastUpdatedString() string {
	if a.LastUpdated == nil {
		return ""
	}

	return a.LastUpdated.UTC().Format(TimestampFormat)
}

// Institution returns the institution name or "".
func (a Account) Institution() string {
	if a.InstitutionName == nil {
		return ""
	}

	return *a.InstitutionName
}

func classificationOf(isAsset bool) Classification {
	if isAsset {
		return Asset
	}

	return Liability
}

// IconKey builds "{type}-{slug}" where slug is accountType lower-cased with every run of
// non-alphanumerics collapsed into one hyphen and no leading or trailing hyphen.
func IconKey(t Classification, accountType string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(accountType) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	slug := b.String()
	if slug == "" {
		slug = "other"
	}

	return string(t) + "-" + slug
}

// PickName returns the first of displayName and name that is non-blank after trimming.
func PickName(displayName, name *string) string {
	for _, candidate := range []*string{displayName, name} {
		if candidate == nil {
			continue
		}
		if trimmed := strings.TrimSpace(*candidate); trimmed != "" {
			return trimmed
		}
	}

	return UnnamedAccount
}
