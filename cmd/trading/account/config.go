package account

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/alpacahq/alpaca-cli/api"
	"github.com/alpacahq/alpaca-cli/cmd/session"
	"github.com/alpacahq/alpaca-cli/utils/format"
)

var hundred = decimal.NewFromInt(100)

var (
	configCmd = &cobra.Command{
		Use:     "config",
		Short:   "Show or update the account configuration",
		Example: "alpaca-cli trading account config --no-shorting=true",
		RunE:    executeConfig,
	}

	flagDtbpCheck    string
	flagConfirmEmail string
	flagSuspendTrade string
	flagNoShorting   string
	flagFractional   string
)

func init() {
	configCmd.Flags().StringVar(&flagDtbpCheck, "dtbp-check", "", "day trade buying power check: entry, exit or both")
	configCmd.Flags().StringVar(&flagConfirmEmail, "trade-confirm-email", "", "trade confirmation emails: all or none")
	configCmd.Flags().StringVar(&flagSuspendTrade, "suspend-trade", "", "suspend trading: true or false")
	configCmd.Flags().StringVar(&flagNoShorting, "no-shorting", "", "disable short selling: true or false")
	configCmd.Flags().StringVar(&flagFractional, "fractional-trading", "", "enable fractional trading: true or false")
}

func parseBoolFlag(name, value string) (*bool, error) {
	if value == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s value %q", name, value)
	}
	return &b, nil
}

func executeConfig(cmd *cobra.Command, _ []string) error {
	client, cfg, err := session.Open()
	if err != nil {
		return err
	}

	suspend, err := parseBoolFlag("suspend-trade", flagSuspendTrade)
	if err != nil {
		return err
	}
	noShorting, err := parseBoolFlag("no-shorting", flagNoShorting)
	if err != nil {
		return err
	}
	fractional, err := parseBoolFlag("fractional-trading", flagFractional)
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	var configs *api.AccountConfigurations
	update := flagDtbpCheck != "" || flagConfirmEmail != "" ||
		suspend != nil || noShorting != nil || fractional != nil
	if update {
		req := api.UpdateAccountConfigurationsRequest{
			SuspendTrade:      suspend,
			NoShorting:        noShorting,
			FractionalTrading: fractional,
		}
		if flagDtbpCheck != "" {
			req.DtbpCheck = &flagDtbpCheck
		}
		if flagConfirmEmail != "" {
			req.TradeConfirmEmail = &flagConfirmEmail
		}
		configs, err = client.UpdateAccountConfigurations(req)
	} else {
		configs, err = client.GetAccountConfigurations()
	}
	if err != nil {
		return fmt.Errorf("failed to access account configuration: %w", err)
	}

	rows := [][]string{
		{"DTBP Check", configs.DtbpCheck},
		{"Trade Confirm Email", configs.TradeConfirmEmail},
		{"Suspend Trade", strconv.FormatBool(configs.SuspendTrade)},
		{"No Shorting", strconv.FormatBool(configs.NoShorting)},
		{"Fractional Trading", strconv.FormatBool(configs.FractionalTrading)},
		{"Max Margin Multiplier", configs.MaxMarginMultiplier},
		{"PDT Check", format.Dash(configs.PdtCheck)},
	}
	format.PrintTable(format.ModeBanner(cfg.Paper())+" Account Configuration", []string{"Setting", "Value"}, rows)
	return nil
}
