package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Rshep3087/lunchtogo/api"
)

// userCmd represents the user command.
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "User information commands",
	Long:  `Commands for the Lunch Money user the API token belongs to.`,
}

// userGetCmd represents the user get command.
var userGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Get user information",
	Long:  `Get the validated user profile from Lunch Money.`,
	RunE:  userGetRun,
}

func init() {
	// Add user get subcommand
	userCmd.AddCommand(userGetCmd)

	// User get flags
	userGetCmd.Flags().StringP("output", "o", tableOutputFormat, "Output format: table or json")
}

func userGetRun(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	// Get and validate output format
	outputFormat, err := validateOutputFormat(cmd)
	if err != nil {
		return err
	}

	if err := application.requireClient(); err != nil {
		return err
	}

	// Fetch user information
	user, err := api.FetchMe(ctx, application.client)
	if err != nil {
		return fmt.Errorf("failed to fetch user information: %w", err)
	}

	// Output based on format
	switch outputFormat {
	case jsonOutputFormat:
		return outputJSON(cmd, user)
	case tableOutputFormat:
		return outputUserTable(cmd, user)
	default:
		return errors.New("unsupported output format")
	}
}

func userRows(user api.Profile) [][]string {
	var rows [][]string

	if user.UserID != nil {
		rows = append(rows, []string{"User ID", strconv.FormatInt(*user.UserID, 10)})
	}
	if user.Name != "" {
		rows = append(rows, []string{"Username", user.Name})
	}
	if user.Email != "" {
		rows = append(rows, []string{"Email", user.Email})
	}
	if user.PrimaryCurrency != "" {
		rows = append(rows, []string{"Primary Currency", user.PrimaryCurrency})
	}
	if user.APIKeyLabel != "" {
		rows = append(rows, []string{"API Key Label", user.APIKeyLabel})
	}
	if user.BudgetName != "" {
		rows = append(rows, []string{"Budget Name", user.BudgetName})
	}
	if user.AccountID != nil {
		rows = append(rows, []string{"Account ID", strconv.FormatInt(*user.AccountID, 10)})
	}

	return rows
}

func outputUserTable(cmd *cobra.Command, user api.Profile) error {
	t := createStyledTable("FIELD", "VALUE")
	for _, row := range userRows(user) {
		t.Row(row...)
	}

	fmt.Fprintln(cmd.OutOrStdout(), t)

	return nil
}
