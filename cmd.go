package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	jsonOutputFormat  = "json"
	tableOutputFormat = "table"
)

// Global variables for configuration.
var (
	cfgFile  string
	debug    bool
	token    string
	baseURL  string
	dataDir  string
	demoFile string

	application *app
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "lunchtogo",
	Short: "A terminal dashboard and CLI for your Lunch Money accounts",
	Long: `A terminal dashboard, CLI and local API for the accounts in Lunch Money.
Without an API token the bundled demo dataset is shown instead.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		config := currentConfig()

		// Setup logging
		log.SetLevel(log.InfoLevel)
		if config.Debug {
			log.SetLevel(log.DebugLevel)
		}

		var err error
		application, err = newApp(cmd.Context(), config)
		if err != nil {
			return err
		}

		return nil
	},
	RunE: func(c *cobra.Command, _ []string) error {
		// Start TUI when no subcommands are provided
		return rootAction(c.Context(), application)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./lunchtogo.toml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "the API token for Lunch Money")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "override the Lunch Money API base URL")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "",
		"directory for preferences and the stored API key (default is the user config dir)")
	rootCmd.PersistentFlags().StringVar(&demoFile, "demo-file", "", "CSV file to use as the demo dataset")

	// Bind flags to viper
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))
	_ = viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	_ = viper.BindPFlag("demo_file", rootCmd.PersistentFlags().Lookup("demo-file"))

	// Bind environment variables
	_ = viper.BindEnv("token", "LUNCHMONEY_API_TOKEN")

	// Add subcommands
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(networthCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(preferencesCmd)
	rootCmd.AddCommand(serveCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(configName)
		viper.SetConfigType("toml")

		for _, dir := range configSearchDirs() {
			viper.AddConfigPath(dir)
		}
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		log.Debug("Config file not found or error reading", "error", err)
		return
	}

	log.Debug("Using config file", "file", viper.ConfigFileUsed())
}

// currentConfig merges flags, environment and the config file. Flags win.
func currentConfig() Config {
	return Config{
		Debug:    viper.GetBool("debug"),
		Token:    viper.GetString("token"),
		BaseURL:  viper.GetString("base_url"),
		DataDir:  viper.GetString("data_dir"),
		DemoFile: viper.GetString("demo_file"),

		configPathUsed: viper.ConfigFileUsed(),
	}
}

func validateOutputFormat(cmd *cobra.Command) (string, error) {
	outputFormat, _ := cmd.Flags().GetString("output")
	validFormats := []string{tableOutputFormat, jsonOutputFormat}
	if !slices.Contains(validFormats, outputFormat) {
		return "", fmt.Errorf("invalid output format: %s (must be one of %v)", outputFormat, validFormats)
	}

	return outputFormat, nil
}

// Utility functions for output formatting.
func outputJSON(cmd *cobra.Command, data any) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
	return nil
}

func createStyledTable(headers ...string) *table.Table {
	var (
		purple    = lipgloss.Color("99")
		gray      = lipgloss.Color("245")
		lightGray = lipgloss.Color("241")

		headerStyle  = lipgloss.NewStyle().Foreground(purple).Bold(true).Align(lipgloss.Center)
		cellStyle    = lipgloss.NewStyle().Padding(0, 1)
		oddRowStyle  = cellStyle.Foreground(gray)
		evenRowStyle = cellStyle.Foreground(lightGray)
	)

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(purple)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 0:
				return evenRowStyle
			default:
				return oddRowStyle
			}
		}).
		Headers(headers...)
}
