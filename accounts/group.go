package accounts

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortMode orders accounts inside a type group.
type SortMode string

const (
	// SortAlpha orders by name.
	SortAlpha SortMode = "alpha"
	// SortBalance orders by primary currency balance, largest first.
	SortBalance SortMode = "balance"
)

// ParseSortMode validates s. An empty string selects SortAlpha.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(s) {
	case "", SortAlpha:
		return SortAlpha, nil
	case SortBalance:
		return SortBalance, nil
	}

	return "", fmt.Errorf("invalid sort mode %q (must be %s or %s)", s, SortAlpha, SortBalance)
}

// Group is the asset or liability section of the account list.
type Group struct {
	Type       Classification `json:"type"`
	Label      string         `json:"label"`
	TypeGroups []TypeGroup    `json:"account_type_groups"`
}

// TypeGroup holds the accounts sharing one display account type.
type TypeGroup struct {
	AccountType string    `json:"account_type"`
	Accounts    []Account `json:"accounts"`
}

// GroupAccounts partitions accounts into asset and liability groups, each split by
// account type. Types are in locale order; accounts within a type follow mode, and
// ties keep their input order. Empty partitions are left out entirely.
func GroupAccounts(accounts []Account, mode SortMode) []Group {
	// a Collator is not safe for concurrent use
	coll := collate.New(language.English)

	assets, liabilities := lo.FilterReject(accounts, func(a Account, _ int) bool { return a.IsAsset })

	groups := make([]Group, 0, 2)
	for _, part := range []struct {
		class    Classification
		accounts []Account
	}{
		{Asset, assets},
		{Liability, liabilities},
	} {
		if len(part.accounts) == 0 {
			continue
		}
		groups = append(groups, Group{
			Type:       part.class,
			Label:      part.class.Label(),
			TypeGroups: typeGroups(coll, part.accounts, mode),
		})
	}

	return groups
}

func typeGroups(coll *collate.Collator, accounts []Account, mode SortMode) []TypeGroup {
	buckets := lo.GroupBy(accounts, func(a Account) string { return a.AccountType })

	keys := lo.Keys(buckets)
	slices.SortFunc(keys, func(a, b string) int {
		if c := coll.CompareString(a, b); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	out := make([]TypeGroup, 0, len(keys))
	for _, k := range keys {
		bucket := buckets[k]
		sortAccounts(coll, bucket, mode)
		out = append(out, TypeGroup{AccountType: k, Accounts: bucket})
	}

	return out
}

func sortAccounts(coll *collate.Collator, accounts []Account, mode SortMode) {
	if mode == SortBalance {
		slices.SortStableFunc(accounts, func(a, b Account) int {
			return cmp.Compare(b.PrimaryCurrencyBalance, a.PrimaryCurrencyBalance)
		})
		return
	}

	slices.SortStableFunc(accounts, func(a, b Account) int {
		return coll.CompareString(a.Name, b.Name)
	})
}
