package main

import (
	"github.com/Rhymond/go-money"

	"github.com/Rshep3087/lunchtogo/accounts"
)

// NetWorthData represents the complete net worth calculation results.
type NetWorthData struct {
	NetWorth         *money.Money
	TotalAssets      *money.Money
	TotalLiabilities *money.Money
	Currency         string
	Source           string
	Breakdown        *NetWorthBreakdown
}

// NetWorthBreakdown provides detailed account breakdown by type.
type NetWorthBreakdown struct {
	Assets      map[string][]*AccountSummary
	Liabilities map[string][]*AccountSummary
}

// AccountSummary represents an individual account in the net worth calculation.
type AccountSummary struct {
	ID              string
	Name            string
	Classification  accounts.Classification
	AccountType     string
	Amount          *money.Money
	InstitutionName string
	Source          accounts.Source
}

// NetWorthJSONSummary converts NetWorthData to a JSON-friendly format for CLI output.
type NetWorthJSONSummary struct {
	NetWorth         string                 `json:"net_worth"`
	Currency         string                 `json:"currency"`
	Source           string                 `json:"source"`
	TotalAssets      string                 `json:"total_assets"`
	TotalLiabilities string                 `json:"total_liabilities"`
	Breakdown        *NetWorthJSONBreakdown `json:"breakdown,omitempty"`
}

// NetWorthJSONBreakdown is the JSON-friendly version of NetWorthBreakdown.
type NetWorthJSONBreakdown struct {
	Assets      map[string][]*AccountJSONSummary `json:"assets"`
	Liabilities map[string][]*AccountJSONSummary `json:"liabilities"`
}

// AccountJSONSummary is the JSON-friendly version of AccountSummary.
type AccountJSONSummary struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	AccountType     string `json:"account_type"`
	Amount          string `json:"amount"`
	InstitutionName string `json:"institution_name,omitempty"`
	Source          string `json:"source"`
}

func (a *AccountSummary) toJSON(negate bool) *AccountJSONSummary {
	amount := a.Amount.Display()
	if negate {
		amount = "-" + amount
	}

	return &AccountJSONSummary{
		ID:              a.ID,
		Name:            a.Name,
		AccountType:     a.AccountType,
		Amount:          amount,
		InstitutionName: a.InstitutionName,
		Source:          string(a.Source),
	}
}

// ToJSON converts NetWorthData to JSON-friendly format.
func (nw *NetWorthData) ToJSON() *NetWorthJSONSummary {
	summary := &NetWorthJSONSummary{
		NetWorth:         nw.NetWorth.Display(),
		Currency:         nw.Currency,
		Source:           nw.Source,
		TotalAssets:      nw.TotalAssets.Display(),
		TotalLiabilities: nw.TotalLiabilities.Display(),
	}

	if nw.Breakdown == nil {
		return summary
	}

	summary.Breakdown = &NetWorthJSONBreakdown{
		Assets:      make(map[string][]*AccountJSONSummary),
		Liabilities: make(map[string][]*AccountJSONSummary),
	}

	for category, list := range nw.Breakdown.Assets {
		for _, account := range list {
			summary.Breakdown.Assets[category] = append(summary.Breakdown.Assets[category], account.toJSON(false))
		}
	}

	for category, list := range nw.Breakdown.Liabilities {
		for _, account := range list {
			summary.Breakdown.Liabilities[category] = append(summary.Breakdown.Liabilities[category], account.toJSON(true))
		}
	}

	return summary
}

// IsLiability reports whether the account counts against net worth.
func (a *AccountSummary) IsLiability() bool {
	return a.Classification == accounts.Liability
}
