package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/carlmjohnson/be"

	"github.com/Rshep3087/lunchtogo/accounts"
	"github.com/Rshep3087/lunchtogo/dashboard"
)

func testSnapshot() dashboard.Snapshot {
	list := testAccounts()
	return dashboard.Snapshot{
		Source:          dashboard.SourceDemo,
		PrimaryCurrency: "CAD",
		Accounts:        list,
		Groups:          accounts.GroupAccounts(list, accounts.SortAlpha),
		Totals:          accounts.Totals(list),
	}
}

func TestCalculateNetWorthData(t *testing.T) {
	data := calculateNetWorthData(testSnapshot(), false)

	be.Equal(t, "CAD", data.Currency)
	be.Equal(t, "demo", data.Source)
	be.Equal(t, "$48,772.69", data.TotalAssets.Display())
	be.Equal(t, "$219.45", data.TotalLiabilities.Display())
	be.Equal(t, "$48,553.24", data.NetWorth.Display())
	be.True(t, data.Breakdown == nil)
}

func TestCalculateNetWorthDataBreakdown(t *testing.T) {
	snap := testSnapshot()
	snap.Accounts = append(snap.Accounts, accounts.Account{
		ID:                     "9",
		Name:                   "Rainy Day",
		AccountType:            "Cash",
		Type:                   accounts.Asset,
		IsAsset:                true,
		PrimaryCurrencyBalance: 2500,
		PrimaryCurrencyCode:    "CAD",
	})

	data := calculateNetWorthData(snap, true)

	cash := data.Breakdown.Assets["Cash"]
	be.Equal(t, 2, len(cash))
	// largest first
	be.Equal(t, "Rainy Day", cash[0].Name)
	be.Equal(t, "Chequing", cash[1].Name)

	be.Equal(t, 1, len(data.Breakdown.Liabilities["Credit Card"]))
	be.True(t, data.Breakdown.Liabilities["Credit Card"][0].IsLiability())

	summary := data.ToJSON()
	be.Equal(t, "$51,053.24", summary.NetWorth)
	be.Equal(t, "-$219.45", summary.Breakdown.Liabilities["Credit Card"][0].Amount)
	be.Equal(t, "$2,500.00", summary.Breakdown.Assets["Cash"][0].Amount)
	be.Equal(t, "BCB", summary.Breakdown.Assets["Cash"][1].InstitutionName)
}

func TestToMoney(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		currency string
		expected int64
	}{
		{name: "cents survive float error", value: 47772.69, currency: "CAD", expected: 4777269},
		{name: "rounds half away from zero", value: 0.005, currency: "USD", expected: 1},
		{name: "no minor units", value: 1234.4, currency: "JPY", expected: 1234},
		{name: "unknown currency uses two digits", value: 1.5, currency: "XYZ", expected: 150},
		{name: "negative", value: -12.34, currency: "CAD", expected: -1234},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be.Equal(t, tt.expected, toMoney(tt.value, tt.currency).Amount())
		})
	}
}

func TestFormatAccountCategory(t *testing.T) {
	be.Equal(t, "Credit Card", formatAccountCategory("credit card"))
	be.Equal(t, "Real Estate", formatAccountCategory("Real Estate"))
	be.Equal(t, "Other", formatAccountCategory(""))
}

func TestOutputNetWorthTable(t *testing.T) {
	var buf bytes.Buffer
	be.NilErr(t, outputNetWorthTable(&buf, calculateNetWorthData(testSnapshot(), true)))

	out := buf.String()
	be.True(t, strings.HasPrefix(out, "Net Worth: $48,553.24\n"))
	be.True(t, strings.Contains(out, "ASSETS:\n  Cash: $1,000.00\n  Investment: $47,772.69\n"))
	be.True(t, strings.Contains(out, "LIABILITIES:\n  Credit Card: -$219.45\n"))
	be.True(t, strings.Contains(out, "Total Liabilities: $219.45\n"))
}
