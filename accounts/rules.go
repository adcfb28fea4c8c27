package accounts

import (
	"slices"
	"strings"
)

// Rule maps a type label to Result when the label equals one of Exact or
// contains one of Contains. Both comparisons ignore case.
type Rule struct {
	Contains []string
	Exact    []string
	Result   string
}

// Matches reports whether label satisfies the rule.
func (r Rule) Matches(label string) bool {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return false
	}

	if slices.Contains(r.Exact, label) {
		return true
	}

	return slices.ContainsFunc(r.Contains, func(keyword string) bool {
		return strings.Contains(label, keyword)
	})
}

// RuleSet is evaluated in order; the first matching rule wins.
type RuleSet []Rule

// Apply returns the result of the first rule matching label.
func (rs RuleSet) Apply(label string) (string, bool) {
	for _, r := range rs {
		if r.Matches(label) {
			return r.Result, true
		}
	}

	return "", false
}

// CashAccountType is the display bucket shared by checking, savings and depository accounts.
const CashAccountType = "Cash"

// OtherAccountType is used when an account carries no usable type label.
const OtherAccountType = "Other"

// Rules holds the keyword tables used by the normalizer.
type Rules struct {
	// Classification decides liabilities; anything unmatched is an asset.
	Classification RuleSet
	// AssetDisplay overrides the display type of asset records.
	AssetDisplay RuleSet
	// PlaidDisplay overrides the display type of linked records.
	PlaidDisplay RuleSet
}

var (
	liabilityKeywords = []string{"credit", "loan", "mortgage", "liability", "debt", "payable"}
	cashKeywords      = []string{"cash", "checking", "savings", "chequing"}
)

// DefaultRules returns the Lunch Money classification tables.
func DefaultRules() Rules {
	return Rules{
		Classification: RuleSet{
			{Contains: liabilityKeywords, Result: string(Liability)},
		},
		AssetDisplay: RuleSet{
			{Contains: cashKeywords, Result: CashAccountType},
		},
		PlaidDisplay: RuleSet{
			{Exact: []string{"depository"}, Contains: cashKeywords, Result: CashAccountType},
		},
	}
}

func (r Rules) classify(label string) Classification {
	if result, ok := r.Classification.Apply(label); ok {
		return Classification(result)
	}

	return Asset
}
