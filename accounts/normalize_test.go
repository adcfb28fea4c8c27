package accounts

import (
	"math"
	"testing"
	"time"

	"github.com/carlmjohnson/be"

	"github.com/Rshep3087/lunchtogo/api"
)

var fixedNow = time.Date(2025, 10, 10, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func ptr[T any](v T) *T { return &v }

func TestNormalizeCurrencyFallback(t *testing.T) {
	asset := api.Asset{
		ID:       "1",
		Name:     "Joint Savings",
		TypeName: ptr("savings"),
		Balance:  api.NumericOf(5000),
		Currency: ptr("CAD"),
	}

	got := NormalizeAsset(asset, "CAD", WithClock(clock))
	be.Equal(t, 5000.0, got.AccountCurrencyBalance)
	be.Equal(t, 5000.0, got.PrimaryCurrencyBalance)
	be.Equal(t, "CAD", got.AccountCurrencyCode)
	be.Equal(t, "CAD", got.PrimaryCurrencyCode)
}

func TestNormalizeConversionPrecedence(t *testing.T) {
	asset := api.Asset{
		ID:       "2",
		Name:     "US Brokerage",
		TypeName: ptr("investment"),
		Balance:  api.NumericOf(34267.64),
		ToBase:   api.NumericOf(47772.69),
		Currency: ptr("USD"),
	}

	got := NormalizeAsset(asset, "cad", WithClock(clock))
	be.Equal(t, 34267.64, got.AccountCurrencyBalance)
	be.Equal(t, 47772.69, got.PrimaryCurrencyBalance)
	be.Equal(t, "USD", got.AccountCurrencyCode)
	be.Equal(t, "CAD", got.PrimaryCurrencyCode)

	rate := got.PrimaryCurrencyBalance / got.AccountCurrencyBalance
	be.True(t, math.Abs(rate-1.3941) < 0.001)
}

func TestNormalizeMissingCurrencyUsesPrimary(t *testing.T) {
	p := api.PlaidAccount{ID: "9", Name: "Visa", Type: ptr("credit"), Balance: api.NumericOf(120)}

	got := NormalizePlaidAccount(p, "usd", WithClock(clock))
	be.Equal(t, "USD", got.AccountCurrencyCode)
	be.Equal(t, "USD", got.PrimaryCurrencyCode)
	be.Equal(t, 120.0, got.PrimaryCurrencyBalance)
}

func TestNormalizeNonFiniteBalanceDefaultsToZero(t *testing.T) {
	asset := api.Asset{ID: "1", Name: "Odd", Balance: api.NumericOf(math.NaN())}

	got := NormalizeAsset(asset, "USD", WithClock(clock))
	be.Equal(t, 0.0, got.AccountCurrencyBalance)
	be.Equal(t, 0.0, got.PrimaryCurrencyBalance)
}

func TestAssetClassification(t *testing.T) {
	tests := []struct {
		name        string
		asset       api.Asset
		wantType    Classification
		wantDisplay string
		wantIcon    string
	}{
		{
			name:        "liability flag wins",
			asset:       api.Asset{Name: "Loan from friend", TypeName: ptr("other"), IsLiability: ptr(true)},
			wantType:    Liability,
			wantDisplay: "other",
			wantIcon:    "liability-other",
		},
		{
			name:        "credit keyword",
			asset:       api.Asset{Name: "Amex", TypeName: ptr("Credit")},
			wantType:    Liability,
			wantDisplay: "Credit",
			wantIcon:    "liability-credit",
		},
		{
			name:        "mortgage keyword inside longer label",
			asset:       api.Asset{Name: "House loan", TypeName: ptr("home mortgage")},
			wantType:    Liability,
			wantDisplay: "home mortgage",
			wantIcon:    "liability-home-mortgage",
		},
		{
			name:        "checking is cash",
			asset:       api.Asset{Name: "Chequing", TypeName: ptr("checking"), SubtypeName: ptr("everyday")},
			wantType:    Asset,
			wantDisplay: CashAccountType,
			wantIcon:    "asset-cash",
		},
		{
			name:        "subtype preferred over type",
			asset:       api.Asset{Name: "RRSP", TypeName: ptr("investment"), SubtypeName: ptr(" retirement ")},
			wantType:    Asset,
			wantDisplay: "retirement",
			wantIcon:    "asset-retirement",
		},
		{
			name:        "blank subtype is other",
			asset:       api.Asset{Name: "Condo", TypeName: ptr("real estate"), SubtypeName: ptr("  ")},
			wantType:    Asset,
			wantDisplay: OtherAccountType,
			wantIcon:    "asset-other",
		},
		{
			name:        "missing subtype uses type",
			asset:       api.Asset{Name: "Condo", TypeName: ptr(" real estate ")},
			wantType:    Asset,
			wantDisplay: "real estate",
			wantIcon:    "asset-real-estate",
		},
		{
			name:        "no type at all",
			asset:       api.Asset{Name: "Mystery"},
			wantType:    Asset,
			wantDisplay: OtherAccountType,
			wantIcon:    "asset-other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAsset(tt.asset, "USD", WithClock(clock))
			be.Equal(t, tt.wantType, got.Type)
			be.Equal(t, got.Type == Asset, got.IsAsset)
			be.Equal(t, tt.wantDisplay, got.AccountType)
			be.Equal(t, tt.wantIcon, got.IconKey)
			be.Equal(t, SourceAsset, got.Source)
		})
	}
}

func TestPlaidClassification(t *testing.T) {
	tests := []struct {
		name        string
		account     api.PlaidAccount
		wantType    Classification
		wantDisplay string
	}{
		{
			name:        "depository is cash",
			account:     api.PlaidAccount{Name: "Everyday", Type: ptr("depository"), Subtype: ptr("checking")},
			wantType:    Asset,
			wantDisplay: CashAccountType,
		},
		{
			name:        "depository match is exact",
			account:     api.PlaidAccount{Name: "Odd", Type: ptr("depository-ish")},
			wantType:    Asset,
			wantDisplay: "depository-ish",
		},
		{
			name:        "credit is a liability",
			account:     api.PlaidAccount{Name: "Visa", Type: ptr("credit"), Subtype: ptr("credit card")},
			wantType:    Liability,
			wantDisplay: "credit",
		},
		{
			name:        "loan is a liability",
			account:     api.PlaidAccount{Name: "Student", Type: ptr("Loan")},
			wantType:    Liability,
			wantDisplay: "Loan",
		},
		{
			name:        "subtype is ignored for linked accounts",
			account:     api.PlaidAccount{Name: "Brokerage", Type: ptr("investment"), Subtype: ptr("brokerage")},
			wantType:    Asset,
			wantDisplay: "investment",
		},
		{
			name:        "missing type",
			account:     api.PlaidAccount{Name: "Unknown"},
			wantType:    Asset,
			wantDisplay: OtherAccountType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePlaidAccount(tt.account, "USD", WithClock(clock))
			be.Equal(t, tt.wantType, got.Type)
			be.Equal(t, got.Type == Asset, got.IsAsset)
			be.Equal(t, tt.wantDisplay, got.AccountType)
			be.Equal(t, SourcePlaid, got.Source)
		})
	}
}

func TestPickName(t *testing.T) {
	tests := []struct {
		name        string
		displayName *string
		rawName     *string
		want        string
	}{
		{name: "display name", displayName: ptr(" Joint "), rawName: ptr("joint-acct"), want: "Joint"},
		{name: "blank display name", displayName: ptr("   "), rawName: ptr(" joint-acct "), want: "joint-acct"},
		{name: "nil display name", rawName: ptr("Raw"), want: "Raw"},
		{name: "both blank", displayName: ptr(""), rawName: ptr("  "), want: UnnamedAccount},
		{name: "both nil", want: UnnamedAccount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be.Equal(t, tt.want, PickName(tt.displayName, tt.rawName))
		})
	}
}

func TestIconKey(t *testing.T) {
	tests := []struct {
		class       Classification
		accountType string
		want        string
	}{
		{Asset, "Cash", "asset-cash"},
		{Asset, "Real Estate", "asset-real-estate"},
		{Liability, "  Credit -- Card!! ", "liability-credit-card"},
		{Asset, "401(k)", "asset-401-k"},
		{Asset, "***", "asset-other"},
		{Liability, "", "liability-other"},
	}

	for _, tt := range tests {
		t.Run(tt.accountType, func(t *testing.T) {
			be.Equal(t, tt.want, IconKey(tt.class, tt.accountType))
		})
	}
}

func TestTimestampResolution(t *testing.T) {
	tests := []struct {
		name     string
		asset    api.Asset
		wantISO  string
		wantDays *int
	}{
		{
			name:     "balance as of wins",
			asset:    api.Asset{BalanceAsOf: ptr("2025-09-30T10:00:00Z"), UpdatedAt: ptr("2025-10-09T10:00:00Z")},
			wantISO:  "2025-09-30T10:00:00.000Z",
			wantDays: ptr(10),
		},
		{
			name:     "falls back to last autosync",
			asset:    api.Asset{LastAutosync: ptr("2025-10-09T13:00:00+01:00"), UpdatedAt: ptr("2025-01-01T00:00:00Z")},
			wantISO:  "2025-10-09T12:00:00.000Z",
			wantDays: ptr(1),
		},
		{
			name:     "falls back to updated at",
			asset:    api.Asset{UpdatedAt: ptr("2025-10-10")},
			wantISO:  "2025-10-10T00:00:00.000Z",
			wantDays: ptr(0),
		},
		{
			name:    "invalid date is null",
			asset:   api.Asset{BalanceAsOf: ptr("yesterday-ish")},
			wantISO: "",
		},
		{
			name:    "first present value wins even when empty",
			asset:   api.Asset{BalanceAsOf: ptr(""), UpdatedAt: ptr("2025-10-10")},
			wantISO: "",
		},
		{
			name:    "no timestamps",
			asset:   api.Asset{},
			wantISO: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.asset.Name = "x"
			got := NormalizeAsset(tt.asset, "USD", WithClock(clock))
			be.Equal(t, tt.wantISO, got.LastUpdatedString())
			be.Equal(t, got.LastUpdated == nil, got.DaysSinceUpdate == nil)
			if tt.wantDays != nil {
				be.Equal(t, *tt.wantDays, *got.DaysSinceUpdate)
			}
		})
	}
}

func TestPlaidTimestampOrder(t *testing.T) {
	p := api.PlaidAccount{
		Name:         "x",
		LastFetch:    ptr("2025-10-01T00:00:00Z"),
		LastAutosync: ptr("2025-10-05T00:00:00Z"),
	}

	got := NormalizePlaidAccount(p, "USD", WithClock(clock))
	be.Equal(t, "2025-10-01T00:00:00.000Z", got.LastUpdatedString())

	p.BalanceLastUpdate = ptr("2025-10-08T00:00:00Z")
	got = NormalizePlaidAccount(p, "USD", WithClock(clock))
	be.Equal(t, "2025-10-08T00:00:00.000Z", got.LastUpdatedString())
}

func TestDaysSinceUpdateIsAbsolute(t *testing.T) {
	future := api.Asset{Name: "x", BalanceAsOf: ptr("2025-10-13T12:00:00Z")}

	got := NormalizeAsset(future, "USD", WithClock(clock))
	be.Equal(t, 3, *got.DaysSinceUpdate)
}

func TestNormalizeExcludesClosed(t *testing.T) {
	b := Batch{
		PrimaryCurrency: "USD",
		Assets: []api.Asset{
			{ID: "1", Name: "open"},
			{ID: "2", Name: "closed status", Status: ptr("closed")},
			{ID: "3", Name: "closed date", ClosedOn: ptr("2024-01-01")},
			{ID: "4", Name: "active", Status: ptr("active")},
		},
		PlaidAccounts: []api.PlaidAccount{
			{ID: "1", Name: "linked open", Status: ptr("active")},
			{ID: "2", Name: "linked closed", Status: ptr("closed")},
			{ID: "3", Name: "linked relink", Status: ptr("relink")},
		},
	}

	got := Normalize(b, WithClock(clock))

	var ids []string
	for _, a := range got {
		ids = append(ids, string(a.Source)+":"+a.ID)
		be.True(t, a.Status == nil || *a.Status != "closed")
	}
	be.AllEqual(t, []string{"asset:1", "asset:4", "plaid:1", "plaid:3"}, ids)
}

func TestNormalizeEmpty(t *testing.T) {
	got := Normalize(Batch{PrimaryCurrency: "USD"})
	be.True(t, got != nil)
	be.Equal(t, 0, len(got))
}

func TestCashNormalizationAcrossSources(t *testing.T) {
	got := Normalize(Batch{
		PrimaryCurrency: "USD",
		Assets:          []api.Asset{{ID: "1", Name: "Manual Checking", TypeName: ptr("checking")}},
		PlaidAccounts:   []api.PlaidAccount{{ID: "1", Name: "Bank Checking", Type: ptr("depository"), Subtype: ptr("checking")}},
	}, WithClock(clock))

	be.Equal(t, 2, len(got))
	be.Equal(t, CashAccountType, got[0].AccountType)
	be.Equal(t, CashAccountType, got[1].AccountType)

	groups := GroupAccounts(got, SortAlpha)
	be.Equal(t, 1, len(groups))
	be.Equal(t, 1, len(groups[0].TypeGroups))
	be.Equal(t, 2, len(groups[0].TypeGroups[0].Accounts))
}

func TestWithRules(t *testing.T) {
	rules := DefaultRules()
	rules.Classification = append(rules.Classification, Rule{Contains: []string{"tax"}, Result: string(Liability)})

	got := NormalizeAsset(api.Asset{Name: "Tax owing", TypeName: ptr("tax bill")}, "USD", WithRules(rules))
	be.Equal(t, Liability, got.Type)
	be.False(t, got.IsAsset)
}
