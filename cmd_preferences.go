package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Rshep3087/lunchtogo/accounts"
	"github.com/Rshep3087/lunchtogo/storage"
)

// preferencesCmd represents the preferences command.
var preferencesCmd = &cobra.Command{
	Use:     "preferences",
	Aliases: []string{"prefs"},
	Short:   "Show or change saved preferences",
}

var preferencesGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show saved preferences",
	RunE:  preferencesGetRun,
}

var preferencesSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change saved preferences",
	Long:  `Change one or more preferences. Only the flags given are changed.`,
	Example: `  lunchtogo preferences set --sort balance --currency-mode account
  lunchtogo preferences set --theme dark --accent violet`,
	RunE: preferencesSetRun,
}

func init() {
	preferencesCmd.AddCommand(preferencesGetCmd)
	preferencesCmd.AddCommand(preferencesSetCmd)

	for _, c := range []*cobra.Command{preferencesGetCmd, preferencesSetCmd} {
		c.Flags().StringP("output", "o", tableOutputFormat, "Output format: table or json")
	}

	addPreferenceFlags(preferencesSetCmd.Flags())
}

func addPreferenceFlags(flags *pflag.FlagSet) {
	flags.String("theme", "", "system, light or dark")
	flags.String("accent", "", "black, blue, green, orange, red, rose, violet or yellow")
	flags.String("sort", "", "alpha or balance")
	flags.String("currency-mode", "", "primary or account")
	flags.Bool("demo", false, "show the demo dataset instead of live data")
}

// preferencesUpdate builds an update from the flags that were set.
func preferencesUpdate(flags *pflag.FlagSet) (storage.Update, error) {
	var u storage.Update

	if flags.Changed("theme") {
		v, _ := flags.GetString("theme")
		theme := storage.Theme(v)
		u.Theme = &theme
	}
	if flags.Changed("accent") {
		v, _ := flags.GetString("accent")
		accent := storage.AccentColor(v)
		u.AccentColor = &accent
	}
	if flags.Changed("sort") {
		v, _ := flags.GetString("sort")
		sort := accounts.SortMode(v)
		u.AccountSort = &sort
	}
	if flags.Changed("currency-mode") {
		v, _ := flags.GetString("currency-mode")
		mode := accounts.CurrencyMode(v)
		u.CurrencyMode = &mode
	}
	if flags.Changed("demo") {
		v, _ := flags.GetBool("demo")
		u.DemoMode = &v
	}

	if u == (storage.Update{}) {
		return u, errors.New("nothing to change: pass at least one of --theme, --accent, --sort, --currency-mode, --demo")
	}

	return u, nil
}

func preferencesGetRun(cmd *cobra.Command, _ []string) error {
	outputFormat, err := validateOutputFormat(cmd)
	if err != nil {
		return err
	}

	return outputPreferences(cmd, outputFormat, application.session.Preferences())
}

func preferencesSetRun(cmd *cobra.Command, _ []string) error {
	outputFormat, err := validateOutputFormat(cmd)
	if err != nil {
		return err
	}

	u, err := preferencesUpdate(cmd.Flags())
	if err != nil {
		return err
	}

	prefs, err := application.session.Patch(cmd.Context(), u)
	if err != nil {
		return err
	}

	return outputPreferences(cmd, outputFormat, prefs)
}

func preferenceRows(p storage.Preferences) [][]string {
	return [][]string{
		{"Theme", string(p.Theme)},
		{"Accent Color", string(p.AccentColor)},
		{"Account Sort", string(p.AccountSort)},
		{"Currency Mode", string(p.CurrencyMode)},
		{"Demo Mode", strconv.FormatBool(p.DemoMode)},
		{"Verification", string(p.VerificationStatus)},
	}
}

func outputPreferences(cmd *cobra.Command, outputFormat string, p storage.Preferences) error {
	if outputFormat == jsonOutputFormat {
		return outputJSON(cmd, p)
	}

	t := createStyledTable("SETTING", "VALUE")
	for _, row := range preferenceRows(p) {
		t.Row(row...)
	}
	fmt.Fprintln(cmd.OutOrStdout(), t)

	return nil
}
