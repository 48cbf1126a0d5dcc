package account

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alpacahq/alpaca-cli/cmd/session"
	"github.com/alpacahq/alpaca-cli/utils/format"
)

// NewStatusCmd builds the account status command. The top-level status
// alias is a second instance of the same command.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   "Show the account details",
		Example: "alpaca-cli trading account status",
		RunE:    executeStatus,
	}
}

func executeStatus(cmd *cobra.Command, _ []string) error {
	client, cfg, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	account, err := client.GetAccount()
	if err != nil {
		return fmt.Errorf("failed to fetch account: %w", err)
	}

	dayPL := account.Equity.Sub(account.LastEquity)
	dayPLPct := dayPL
	if !account.LastEquity.IsZero() {
		dayPLPct = dayPL.Div(account.LastEquity).Mul(hundred)
	}

	rows := [][]string{
		{"Account ID", account.ID},
		{"Account Number", account.AccountNumber},
		{"Status", account.Status},
		{"Currency", account.Currency},
		{"Equity", format.Currency(account.Equity)},
		{"Cash", format.Currency(account.Cash)},
		{"Buying Power", format.Currency(account.BuyingPower)},
		{"Long Market Value", format.Currency(account.LongMarketValue)},
		{"Short Market Value", format.Currency(account.ShortMarketValue)},
		{"Day P/L", format.ProfitLoss(dayPL, dayPLPct)},
		{"Daytrade Count", strconv.Itoa(account.DaytradeCount)},
		{"Pattern Day Trader", strconv.FormatBool(account.PatternDayTrader)},
		{"Trading Blocked", strconv.FormatBool(account.TradingBlocked)},
	}

	format.PrintTable(format.ModeBanner(cfg.Paper())+" Account", []string{"Field", "Value"}, rows)
	return nil
}
