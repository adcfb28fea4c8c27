package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Rshep3087/lunchtogo/accounts"
	"github.com/Rshep3087/lunchtogo/api"
	"github.com/Rshep3087/lunchtogo/session"
	"github.com/Rshep3087/lunchtogo/storage"
)

// authCmd represents the auth command.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored Lunch Money API key",
	Long: `Commands for verifying and storing a Lunch Money API key.
The key is kept encrypted in the data directory.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Verify an API key and store it",
	Long: `Verify an API key against Lunch Money and store it for later runs.
The key comes from --token, LUNCHMONEY_API_TOKEN or the config file, or is prompted for.`,
	RunE: authLoginRun,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored API key and profile",
	RunE:  authLogoutRun,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the verification status",
	RunE:  authStatusRun,
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)

	authStatusCmd.Flags().StringP("output", "o", tableOutputFormat, "Output format: table or json")
}

func promptAPIKey() (string, error) {
	var key string

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Lunch Money API key").
				Description("Create one under Settings > Developers in Lunch Money").
				Key("api_key").
				EchoMode(huh.EchoModePassword).
				Value(&key).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("API key is required")
					}
					return nil
				}),
		),
	).Run()
	if err != nil {
		return "", fmt.Errorf("failed to read API key: %w", err)
	}

	return key, nil
}

func authLoginRun(cmd *cobra.Command, _ []string) error {
	key := application.config.Token
	if key == "" {
		var err error
		key, err = promptAPIKey()
		if err != nil {
			return err
		}
	}

	profile, err := login(cmd.Context(), application, key)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", profile.Name, profile.PrimaryCurrency)
	return nil
}

// login verifies key with /me and, when it works, stores it and marks the session
// verified. A failed check leaves the stored state alone.
func login(ctx context.Context, a *app, key string) (api.Profile, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return api.Profile{}, storage.ErrEmptyAPIKey
	}

	profile, err := api.FetchMe(ctx, a.newClient(api.StaticToken(key)))
	if err != nil {
		desc := api.Describe(err)
		log.Debug("API key verification failed", "title", desc.Title, "error", err)
		return api.Profile{}, fmt.Errorf("%s: %s", desc.Title, desc.Description)
	}

	err = a.session.SetVerification(ctx, storage.Verified, session.Verification{
		Profile: &storage.ProfileSnapshot{Name: profile.Name, PrimaryCurrency: profile.PrimaryCurrency},
		APIKey:  key,
	})
	if err != nil {
		return api.Profile{}, err
	}

	a.client = a.newClient(api.StaticToken(key))
	a.loader.Client = a.client

	return profile, nil
}

func authLogoutRun(cmd *cobra.Command, _ []string) error {
	if err := application.session.Logout(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}

type authStatus struct {
	Status          storage.VerificationStatus `json:"status"`
	Name            string                     `json:"name,omitempty"`
	PrimaryCurrency string                     `json:"primary_currency,omitempty"`
	LastVerifiedAt  *time.Time                 `json:"last_verified_at,omitempty"`
	APIKeyStored    bool                       `json:"api_key_stored"`
	DemoMode        bool                       `json:"demo_mode"`
}

func currentAuthStatus(ctx context.Context, s *session.Store) (authStatus, error) {
	key, err := s.LoadAPIKey(ctx)
	if err != nil {
		return authStatus{}, err
	}

	prefs := s.Preferences()
	status := authStatus{
		Status:         prefs.VerificationStatus,
		LastVerifiedAt: prefs.LastVerifiedAt,
		APIKeyStored:   key != "",
		DemoMode:       prefs.DemoMode,
	}
	if prefs.Profile != nil {
		status.Name = prefs.Profile.Name
		status.PrimaryCurrency = prefs.Profile.PrimaryCurrency
	}

	return status, nil
}

func (s authStatus) rows() [][]string {
	verified := "never"
	if s.LastVerifiedAt != nil {
		verified = s.LastVerifiedAt.UTC().Format(accounts.TimestampFormat)
	}

	rows := [][]string{{"Status", string(s.Status)}}
	if s.Name != "" {
		rows = append(rows, []string{"Name", s.Name})
	}
	if s.PrimaryCurrency != "" {
		rows = append(rows, []string{"Primary Currency", s.PrimaryCurrency})
	}

	return append(rows,
		[]string{"Last Verified", verified},
		[]string{"API Key Stored", yesNo(s.APIKeyStored)},
		[]string{"Demo Mode", yesNo(s.DemoMode)},
	)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func authStatusRun(cmd *cobra.Command, _ []string) error {
	outputFormat, err := validateOutputFormat(cmd)
	if err != nil {
		return err
	}

	status, err := currentAuthStatus(cmd.Context(), application.session)
	if err != nil {
		return err
	}

	if outputFormat == jsonOutputFormat {
		return outputJSON(cmd, status)
	}

	t := createStyledTable("FIELD", "VALUE")
	for _, row := range status.rows() {
		t.Row(row...)
	}
	fmt.Fprintln(cmd.OutOrStdout(), t)

	return nil
}
