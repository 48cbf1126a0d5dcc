// Package configure implements the config subcommands.
package configure

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alpacahq/alpaca-cli/cmd/session"
	"github.com/alpacahq/alpaca-cli/utils"
	"github.com/alpacahq/alpaca-cli/utils/format"
)

const (
	usage   = "config"
	short   = "Shows and verifies the CLI configuration"
	long    = "This command shows the resolved configuration, verifies the credentials against the API and switches between paper and live trading"
	example = "alpaca-cli config set-mode paper"
)

// Cmd is the config command.
var Cmd = &cobra.Command{
	Use:     usage,
	Short:   short,
	Long:    long,
	Example: example,
}

func init() {
	Cmd.AddCommand(verifyCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(setModeCmd)
}

var verifyCmd = &cobra.Command{
	Use:     "verify",
	Short:   "Check that the configured credentials work",
	Example: "alpaca-cli config verify",
	RunE:    executeVerify,
}

func executeVerify(cmd *cobra.Command, _ []string) error {
	client, cfg, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	account, err := client.GetAccount()
	if err != nil {
		return fmt.Errorf("credential check failed: %w", err)
	}
	fmt.Printf("%s Credentials OK, account %s (%s)\n",
		format.ModeBanner(cfg.Paper()), account.AccountNumber, account.Status)
	return nil
}

var showCmd = &cobra.Command{
	Use:     "show",
	Short:   "Show the resolved configuration",
	Example: "alpaca-cli config show",
	RunE:    executeShow,
}

func mask(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}

func executeShow(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true
	cfg := utils.LoadConfig()

	mode := "live"
	if cfg.Paper() {
		mode = "paper"
	}
	path, _ := utils.ConfigPath()
	rows := [][]string{
		{"Mode", mode},
		{"API Key", format.Dash(mask(cfg.APIKey))},
		{"API Secret", format.Dash(mask(cfg.APISecret))},
		{"Base URL", cfg.BaseURL},
		{"Data URL", cfg.DataURL},
		{"Key Source", string(cfg.Source)},
		{"Config File", path},
	}
	format.PrintTable("Configuration", []string{"Field", "Value"}, rows)
	return cfg.Validate()
}

var setModeCmd = &cobra.Command{
	Use:       "set-mode MODE",
	Short:     "Switch between paper and live trading",
	Example:   "alpaca-cli config set-mode live",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"paper", "live"},
	RunE:      executeSetMode,
}

func executeSetMode(cmd *cobra.Command, args []string) error {
	cfg := utils.LoadConfig()

	var target string
	switch args[0] {
	case "paper":
		target = cfg.PaperURL
	case "live":
		target = cfg.LiveURL
	default:
		return fmt.Errorf("invalid mode %q, want paper or live", args[0])
	}
	cmd.SilenceUsage = true

	if err := cfg.Save(utils.EnvAPIBaseURL, target); err != nil {
		return fmt.Errorf("failed to update config file: %w", err)
	}
	fmt.Printf("Switched to %s trading (%s)\n", args[0], target)
	return nil
}
