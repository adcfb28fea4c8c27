package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Rshep3087/lunchtogo/accounts"
	"github.com/Rshep3087/lunchtogo/dashboard"
)

// networthCmd represents the networth command.
var networthCmd = &cobra.Command{
	Use:   "networth",
	Short: "Net worth calculation commands",
	Long:  `Commands for calculating and displaying net worth from Lunch Money data.`,
}

// networthGetCmd represents the networth get command.
var networthGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Calculate and display current net worth",
	Long: `Calculate current net worth from every open asset and liability, priced in the
primary currency of the account holder.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		_, err := validateOutputFormat(cmd)
		return err
	},
	RunE: networthGetRun,
}

func init() {
	// Add networth get subcommand
	networthCmd.AddCommand(networthGetCmd)

	// Net worth get flags
	networthGetCmd.Flags().StringP("output", "o", tableOutputFormat, "Output format: table or json")
	networthGetCmd.Flags().Bool("breakdown", false, "Show detailed breakdown of assets and liabilities")
	networthGetCmd.Flags().Bool("demo", false, "Use the demo dataset instead of the API")
}

func networthGetRun(cmd *cobra.Command, _ []string) error {
	outputFormat, _ := cmd.Flags().GetString("output")
	showBreakdown, _ := cmd.Flags().GetBool("breakdown")
	forceDemo, _ := cmd.Flags().GetBool("demo")

	snap, err := application.load(cmd.Context(), application.session.Preferences(), forceDemo)
	if err != nil {
		return err
	}

	netWorthData := calculateNetWorthData(snap, showBreakdown)

	switch outputFormat {
	case jsonOutputFormat:
		return outputJSON(cmd, netWorthData.ToJSON())
	case tableOutputFormat:
		return outputNetWorthTable(cmd.OutOrStdout(), netWorthData)
	default:
		return errors.New("unsupported output format")
	}
}

// calculateNetWorthData totals the snapshot in its primary currency. Liabilities are
// held as positive amounts and subtracted.
func calculateNetWorthData(snap dashboard.Snapshot, includeBreakdown bool) *NetWorthData {
	currency := snap.PrimaryCurrency
	if currency == "" {
		currency = money.USD
	}

	netWorth := money.New(0, currency)
	totalAssets := money.New(0, currency)
	totalLiabilities := money.New(0, currency)

	var breakdown *NetWorthBreakdown
	if includeBreakdown {
		breakdown = &NetWorthBreakdown{
			Assets:      make(map[string][]*AccountSummary),
			Liabilities: make(map[string][]*AccountSummary),
		}
	}

	for _, account := range snap.Accounts {
		amount := toMoney(account.PrimaryCurrencyBalance, currency)
		netWorth = updateNetWorthAmount(netWorth, amount, account.Type)

		target := &totalAssets
		if account.Type == accounts.Liability {
			target = &totalLiabilities
		}
		if sum, err := (*target).Add(amount); err == nil {
			*target = sum
		}

		if includeBreakdown {
			addAccountToBreakdown(breakdown, account, amount)
		}
	}

	// Sort breakdown by amount (descending)
	if includeBreakdown {
		sortNetWorthBreakdown(breakdown)
	}

	return &NetWorthData{
		NetWorth:         netWorth,
		TotalAssets:      totalAssets,
		TotalLiabilities: totalLiabilities,
		Currency:         currency,
		Source:           string(snap.Source),
		Breakdown:        breakdown,
	}
}

// toMoney converts a float balance into minor units without float truncation.
func toMoney(value float64, currency string) *money.Money {
	fraction := 2
	if c := money.GetCurrency(currency); c != nil {
		fraction = c.Fraction
	}

	minor := decimal.NewFromFloat(value).Shift(int32(fraction)).Round(0).IntPart()
	return money.New(minor, currency)
}

func updateNetWorthAmount(netWorth, amount *money.Money, class accounts.Classification) *money.Money {
	var nwa *money.Money
	var err error

	if class == accounts.Liability {
		nwa, err = netWorth.Subtract(amount)
	} else {
		nwa, err = netWorth.Add(amount)
	}

	if err != nil {
		return netWorth
	}

	return nwa
}

func addAccountToBreakdown(breakdown *NetWorthBreakdown, account accounts.Account, amount *money.Money) {
	categoryMap := breakdown.Assets
	if account.Type == accounts.Liability {
		categoryMap = breakdown.Liabilities
	}

	category := formatAccountCategory(account.AccountType)

	categoryMap[category] = append(categoryMap[category], &AccountSummary{
		ID:              account.ID,
		Name:            account.Name,
		Classification:  account.Type,
		AccountType:     account.AccountType,
		Amount:          amount,
		InstitutionName: account.Institution(),
		Source:          account.Source,
	})
}

func formatAccountCategory(accountType string) string {
	if accountType == "" {
		return "Other"
	}

	return cases.Title(language.English).String(accountType)
}

func sortNetWorthBreakdown(breakdown *NetWorthBreakdown) {
	for _, categoryMap := range []map[string][]*AccountSummary{breakdown.Assets, breakdown.Liabilities} {
		for category := range categoryMap {
			sort.SliceStable(categoryMap[category], func(i, j int) bool {
				cmp, _ := categoryMap[category][i].Amount.Compare(categoryMap[category][j].Amount)
				return cmp > 0
			})
		}
	}
}

func outputNetWorthTable(w io.Writer, data *NetWorthData) error {
	fmt.Fprintf(w, "Net Worth: %s\n\n", data.NetWorth.Display())

	if data.Breakdown != nil {
		if len(data.Breakdown.Assets) > 0 {
			fmt.Fprintln(w, "ASSETS:")
			printAccountCategoriesTable(w, data.Breakdown.Assets, false)
			fmt.Fprintln(w)
		}

		if len(data.Breakdown.Liabilities) > 0 {
			fmt.Fprintln(w, "LIABILITIES:")
			printAccountCategoriesTable(w, data.Breakdown.Liabilities, true)
			fmt.Fprintln(w)
		}

		fmt.Fprintf(w, "Total Assets:      %s\n", data.TotalAssets.Display())
		fmt.Fprintf(w, "Total Liabilities: %s\n", data.TotalLiabilities.Display())
		fmt.Fprintf(w, "Net Worth:         %s\n", data.NetWorth.Display())
	}

	return nil
}

func printAccountCategoriesTable(w io.Writer, accountsByType map[string][]*AccountSummary, isLiability bool) {
	types := make([]string, 0, len(accountsByType))
	for accountType := range accountsByType {
		types = append(types, accountType)
	}
	slices.Sort(types)

	for _, accountType := range types {
		list := accountsByType[accountType]
		if len(list) == 0 {
			continue
		}

		// Calculate total for this category
		total := calculateCategoryTotal(list)
		if isLiability {
			fmt.Fprintf(w, "  %s: -%s\n", accountType, total.Display())
		} else {
			fmt.Fprintf(w, "  %s: %s\n", accountType, total.Display())
		}

		// Print individual accounts if there are multiple
		if len(list) > 1 {
			for _, account := range list {
				displayAmount := account.Amount.Display()
				if isLiability {
					displayAmount = "-" + displayAmount
				}
				fmt.Fprintf(w, "    %s: %s\n", account.Name, displayAmount)
			}
		}
	}
}

func calculateCategoryTotal(list []*AccountSummary) *money.Money {
	if len(list) == 0 {
		return money.New(0, money.USD)
	}

	total := money.New(0, list[0].Amount.Currency().Code)
	for _, account := range list {
		total, _ = total.Add(account.Amount)
	}

	return total
}
