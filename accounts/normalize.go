package accounts

import (
	"math"
	"strings"
	"time"

	"github.com/Rshep3087/lunchtogo/api"
	"github.com/samber/lo"
)

// Batch is one normalization request.
type Batch struct {
	Assets          []api.Asset
	PlaidAccounts   []api.PlaidAccount
	PrimaryCurrency string
}

type normalizer struct {
	now   func() time.Time
	rules Rules
}

type Option func(*normalizer)

// WithClock sets the clock used for DaysSinceUpdate.
func WithClock(now func() time.Time) Option {
	return func(n *normalizer) {
		n.now = now
	}
}

// WithRules replaces the classification tables.
func WithRules(rules Rules) Option {
	return func(n *normalizer) {
		n.rules = rules
	}
}

func newNormalizer(opts []Option) normalizer {
	n := normalizer{now: time.Now, rules: DefaultRules()}
	for _, opt := range opts {
		opt(&n)
	}

	return n
}

// Normalize converts every open asset and linked account in the batch.
// Assets come first, then linked accounts, each in input order.
func Normalize(b Batch, opts ...Option) []Account {
	n := newNormalizer(opts)

	open := lo.Reject(b.Assets, func(a api.Asset, _ int) bool { return AssetClosed(a) })
	openPlaid := lo.Reject(b.PlaidAccounts, func(p api.PlaidAccount, _ int) bool { return PlaidAccountClosed(p) })

	out := make([]Account, 0, len(open)+len(openPlaid))
	out = append(out, lo.Map(open, func(a api.Asset, _ int) Account {
		return n.asset(a, b.PrimaryCurrency)
	})...)
	out = append(out, lo.Map(openPlaid, func(p api.PlaidAccount, _ int) Account {
		return n.plaid(p, b.PrimaryCurrency)
	})...)

	return out
}

// AssetClosed reports whether an asset is closed by status or by a close date.
func AssetClosed(a api.Asset) bool {
	return isClosedStatus(a.Status) || (a.ClosedOn != nil && *a.ClosedOn != "")
}

// PlaidAccountClosed reports whether a linked account is closed. Linked accounts
// carry no close date, so only the status is consulted.
func PlaidAccountClosed(p api.PlaidAccount) bool {
	return isClosedStatus(p.Status)
}

func isClosedStatus(status *string) bool {
	return status != nil && *status == "closed"
}

// NormalizeAsset converts a single asset record. It does not check whether the asset is closed.
func NormalizeAsset(a api.Asset, primaryCurrency string, opts ...Option) Account {
	n := newNormalizer(opts)
	return n.asset(a, primaryCurrency)
}

// NormalizePlaidAccount converts a single linked account. It does not check whether the account is closed.
func NormalizePlaidAccount(p api.PlaidAccount, primaryCurrency string, opts ...Option) Account {
	n := newNormalizer(opts)
	return n.plaid(p, primaryCurrency)
}

func (n normalizer) asset(a api.Asset, primaryCurrency string) Account {
	typeName := deref(a.TypeName)

	class := n.rules.classify(typeName)
	if a.IsLiability != nil && *a.IsLiability {
		class = Liability
	}

	accountType, ok := n.rules.AssetDisplay.Apply(typeName)
	if !ok {
		accountType = typeLabel(a.SubtypeName, a.TypeName)
	}

	lastUpdated := parseTimestamp(firstPresent(a.BalanceAsOf, a.LastAutosync, a.UpdatedAt))
	balance := finiteOr(a.Balance, 0)

	return Account{
		ID:                     a.ID,
		Name:                   PickName(a.DisplayName, &a.Name),
		AccountType:            accountType,
		Type:                   class,
		IsAsset:                class == Asset,
		Source:                 SourceAsset,
		InstitutionName:        a.InstitutionName,
		Status:                 a.Status,
		LastUpdated:            lastUpdated,
		DaysSinceUpdate:        daysSince(lastUpdated, n.now()),
		AccountCurrencyBalance: balance,
		PrimaryCurrencyBalance: finiteOr(a.ToBase, balance),
		PrimaryCurrencyCode:    currencyCode(primaryCurrency),
		AccountCurrencyCode:    accountCurrency(a.Currency, primaryCurrency),
		IconKey:                IconKey(class, accountType),
	}
}

func (n normalizer) plaid(p api.PlaidAccount, primaryCurrency string) Account {
	typeName := deref(p.Type)
	class := n.rules.classify(typeName)

	accountType, ok := n.rules.PlaidDisplay.Apply(typeName)
	if !ok {
		accountType = typeLabel(p.Type)
	}

	lastUpdated := parseTimestamp(firstPresent(p.BalanceLastUpdate, p.LastFetch, p.LastAutosync))
	balance := finiteOr(p.Balance, 0)

	return Account{
		ID:                     p.ID,
		Name:                   PickName(p.DisplayName, &p.Name),
		AccountType:            accountType,
		Type:                   class,
		IsAsset:                class == Asset,
		Source:                 SourcePlaid,
		InstitutionName:        p.InstitutionName,
		Status:                 p.Status,
		LastUpdated:            lastUpdated,
		DaysSinceUpdate:        daysSince(lastUpdated, n.now()),
		AccountCurrencyBalance: balance,
		PrimaryCurrencyBalance: finiteOr(p.ToBase, balance),
		PrimaryCurrencyCode:    currencyCode(primaryCurrency),
		AccountCurrencyCode:    accountCurrency(p.Currency, primaryCurrency),
		IconKey:                IconKey(class, accountType),
	}
}

// finiteOr returns the numeric value, or fallback when it is missing or not finite.
// A missing conversion field therefore yields the native balance, an implied 1:1 rate.
func finiteOr(v api.Numeric, fallback float64) float64 {
	if !v.Valid || math.IsNaN(v.Value) || math.IsInf(v.Value, 0) {
		return fallback
	}

	return v.Value
}

func currencyCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func accountCurrency(code *string, primaryCurrency string) string {
	if code != nil && strings.TrimSpace(*code) != "" {
		return currencyCode(*code)
	}

	return currencyCode(primaryCurrency)
}

// typeLabel trims the first label that is present, even a blank one.
// A blank or missing label is OtherAccountType.
func typeLabel(labels ...*string) string {
	if trimmed := strings.TrimSpace(firstPresent(labels...)); trimmed != "" {
		return trimmed
	}

	return OtherAccountType
}

// firstPresent returns the first non-nil value. An empty string still wins.
func firstPresent(values ...*string) string {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}

	return ""
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

// parseTimestamp accepts RFC 3339, zone-less date times (read as UTC) and plain dates.
// Anything else yields nil.
func parseTimestamp(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		t = t.UTC().Truncate(time.Millisecond)
		return &t
	}

	return nil
}

func daysSince(t *time.Time, now time.Time) *int {
	if t == nil {
		return nil
	}

	d := now.Sub(*t)
	if d < 0 {
		d = -d
	}

	days := int(d / (24 * time.Hour))
	return &days
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
