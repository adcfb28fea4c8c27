package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Rshep3087/lunchtogo/accounts"
	"github.com/Rshep3087/lunchtogo/conversion"
	"github.com/Rshep3087/lunchtogo/dashboard"
)

// accountsCmd represents the accounts command.
var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Account commands",
	Long:  `Commands for listing the assets and linked accounts in Lunch Money.`,
}

// accountsListCmd represents the accounts list command.
var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	Long: `List every open account (manual assets and linked accounts) normalized into one shape,
in the same order as the grouped view.`,
	RunE: accountsListRun,
}

// accountsGroupsCmd represents the accounts groups command.
var accountsGroupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Show accounts grouped into assets and liabilities",
	Long:  `Show accounts split into assets and liabilities, then by account type, with a total per type.`,
	RunE:  accountsGroupsRun,
}

func init() {
	accountsCmd.AddCommand(accountsListCmd)
	accountsCmd.AddCommand(accountsGroupsCmd)

	for _, c := range []*cobra.Command{accountsListCmd, accountsGroupsCmd} {
		c.Flags().StringP("output", "o", tableOutputFormat, "Output format: table or json")
		c.Flags().String("sort", "", "Sort accounts within a type: alpha or balance (default from preferences)")
		c.Flags().Bool("demo", false, "Use the demo dataset instead of the API")
	}

	accountsListCmd.Flags().String("currency-mode", "",
		"Balance to show: primary or account (default from preferences)")
}

// loadSnapshot loads accounts honouring the --sort and --demo flags.
func loadSnapshot(cmd *cobra.Command) (dashboard.Snapshot, error) {
	prefs := application.session.Preferences()

	if raw, _ := cmd.Flags().GetString("sort"); raw != "" {
		sort, err := accounts.ParseSortMode(raw)
		if err != nil {
			return dashboard.Snapshot{}, err
		}
		prefs.AccountSort = sort
	}

	forceDemo, _ := cmd.Flags().GetBool("demo")

	return application.load(cmd.Context(), prefs, forceDemo)
}

func accountsListRun(cmd *cobra.Command, _ []string) error {
	// Get and validate output format
	outputFormat, err := validateOutputFormat(cmd)
	if err != nil {
		return err
	}

	mode := application.session.Preferences().CurrencyMode
	if raw, _ := cmd.Flags().GetString("currency-mode"); raw != "" {
		mode, err = accounts.ParseCurrencyMode(raw)
		if err != nil {
			return err
		}
	}

	snap, err := loadSnapshot(cmd)
	if err != nil {
		return err
	}

	list := flattenGroups(snap.Groups)

	// Output based on format
	switch outputFormat {
	case jsonOutputFormat:
		return outputJSON(cmd, list)
	case tableOutputFormat:
		return outputAccountsTable(cmd, list, mode)
	default:
		return errors.New("unsupported output format")
	}
}

// flattenGroups lists accounts in display order.
func flattenGroups(groups []accounts.Group) []accounts.Account {
	return lo.FlatMap(groups, func(g accounts.Group, _ int) []accounts.Account {
		return lo.FlatMap(g.TypeGroups, func(tg accounts.TypeGroup, _ int) []accounts.Account {
			return tg.Accounts
		})
	})
}

func accountRows(list []accounts.Account, mode accounts.CurrencyMode) [][]string {
	rows := make([][]string, 0, len(list))
	for _, a := range list {
		balance, code := a.DisplayBalance(mode)

		institution := a.Institution()
		if institution == "" {
			institution = "-"
		}

		row := []string{
			a.ID,
			accounts.Icon(a.IconKey) + " " + a.Name,
			a.Type.Label(),
			a.AccountType,
			institution,
			conversion.FormatCurrency(balance, code, a.PrimaryCurrencyCode),
			accounts.FormatDaysSinceUpdate(a.DaysSinceUpdate),
		}
		if mode == accounts.CurrencyAccount {
			conv := "-"
			if conversion.ShouldShowTooltip(a, mode) {
				conv = conversion.AccountTooltip(a)
			}
			row = append(row, conv)
		}

		rows = append(rows, row)
	}

	return rows
}

func outputAccountsTable(cmd *cobra.Command, list []accounts.Account, mode accounts.CurrencyMode) error {
	headers := []string{"ID", "NAME", "GROUP", "ACCOUNT TYPE", "INSTITUTION", "BALANCE", "UPDATED"}
	if mode == accounts.CurrencyAccount {
		headers = append(headers, "CONVERSION")
	}

	t := createStyledTable(headers...)
	for _, row := range accountRows(list, mode) {
		t.Row(row...)
	}

	fmt.Fprintln(cmd.OutOrStdout(), t)

	return nil
}

func accountsGroupsRun(cmd *cobra.Command, _ []string) error {
	outputFormat, err := validateOutputFormat(cmd)
	if err != nil {
		return err
	}

	snap, err := loadSnapshot(cmd)
	if err != nil {
		return err
	}

	switch outputFormat {
	case jsonOutputFormat:
		return outputJSON(cmd, snap.Groups)
	case tableOutputFormat:
		t := createStyledTable("GROUP", "ACCOUNT TYPE", "ACCOUNTS", "TOTAL")
		for _, row := range groupRows(snap.Groups, snap.PrimaryCurrency) {
			t.Row(row...)
		}
		fmt.Fprintln(cmd.OutOrStdout(), t)
		return nil
	default:
		return errors.New("unsupported output format")
	}
}

func groupRows(groups []accounts.Group, primaryCurrency string) [][]string {
	var rows [][]string
	for _, g := range groups {
		for _, tg := range g.TypeGroups {
			total := lo.Reduce(tg.Accounts, func(acc decimal.Decimal, a accounts.Account, _ int) decimal.Decimal {
				return acc.Add(decimal.NewFromFloat(a.PrimaryCurrencyBalance))
			}, decimal.Zero)

			rows = append(rows, []string{
				g.Label,
				tg.AccountType,
				strconv.Itoa(len(tg.Accounts)),
				conversion.FormatCurrency(total.InexactFloat64(), primaryCurrency, primaryCurrency),
			})
		}
	}

	return rows
}
