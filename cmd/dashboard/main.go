// Package dashboard implements the terminal dashboard command.
package dashboard

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/alpacahq/alpaca-cli/api"
	"github.com/alpacahq/alpaca-cli/cmd/session"
	"github.com/alpacahq/alpaca-cli/utils/format"
	"github.com/alpacahq/alpaca-cli/utils/log"
)

const (
	usage   = "dashboard"
	short   = "Show a live terminal dashboard"
	long    = "This command renders market status, index ETFs, account state, open positions and headlines, refreshing on an interval until interrupted"
	example = "alpaca-cli dashboard --interval 30s"
)

// indexSymbols are the ETFs shown in the market overview panel.
var indexSymbols = []string{"SPY", "QQQ", "DIA", "IWM"}

var hundred = decimal.NewFromInt(100)

// Cmd is the dashboard command.
var Cmd = &cobra.Command{
	Use:     usage,
	Short:   short,
	Long:    long,
	Example: example,
	RunE:    executeDashboard,
}

var (
	flagInterval time.Duration
	flagOnce     bool
)

func init() {
	Cmd.Flags().DurationVar(&flagInterval, "interval", time.Minute, "refresh interval")
	Cmd.Flags().BoolVar(&flagOnce, "once", false, "render a single frame and exit")
}

func executeDashboard(cmd *cobra.Command, _ []string) error {
	client, cfg, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	if flagOnce {
		return render(client, cfg.Paper())
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	ticker := time.NewTicker(flagInterval)
	defer ticker.Stop()

	clearScreen()
	if err := render(client, cfg.Paper()); err != nil {
		return err
	}
	for {
		select {
		case <-sigc:
			return nil
		case <-ticker.C:
			clearScreen()
			if err := render(client, cfg.Paper()); err != nil {
				// keep the loop alive through transient API failures
				log.Warn("dashboard refresh failed: %v", err)
				fmt.Printf("refresh failed: %v\n", err)
			}
		}
	}
}

func clearScreen() {
	fmt.Print("\033[2J\033[H")
}

func render(client *api.Client, paper bool) error {
	clock, err := client.GetClock()
	if err != nil {
		return fmt.Errorf("failed to fetch market clock: %w", err)
	}
	state := "CLOSED"
	if clock.IsOpen {
		state = "OPEN"
	}
	fmt.Printf("%s Dashboard  %s  market %s\n\n",
		format.ModeBanner(paper),
		session.Timestamp(time.Now()),
		format.Signed(state, !clock.IsOpen))

	renderIndices(client)
	renderAccount(client)
	renderPositions(client)
	renderNews(client)
	return nil
}

func renderIndices(client *api.Client) {
	snapshots, err := client.GetSnapshots(indexSymbols, "")
	if err != nil {
		log.Warn("failed to fetch index snapshots: %v", err)
		return
	}
	rows := make([][]string, 0, len(indexSymbols))
	for _, sym := range indexSymbols {
		s, ok := snapshots[sym]
		if !ok || s.LatestTrade == nil || s.PrevDailyBar == nil || s.PrevDailyBar.Close == 0 {
			continue
		}
		pct := (s.LatestTrade.Price - s.PrevDailyBar.Close) / s.PrevDailyBar.Close * 100
		rows = append(rows, []string{
			sym,
			format.CurrencyFloat(s.LatestTrade.Price),
			format.Signed(fmt.Sprintf("%+.2f%%", pct), pct < 0),
		})
	}
	format.PrintTable("Market", []string{"Index", "Last", "Change"}, rows)
}

func renderAccount(client *api.Client) {
	account, err := client.GetAccount()
	if err != nil {
		log.Warn("failed to fetch account: %v", err)
		return
	}
	dayPL := account.Equity.Sub(account.LastEquity)
	dayPLPct := dayPL
	if !account.LastEquity.IsZero() {
		dayPLPct = dayPL.Div(account.LastEquity).Mul(hundred)
	}
	rows := [][]string{{
		format.Currency(account.Equity),
		format.Currency(account.Cash),
		format.Currency(account.BuyingPower),
		format.ProfitLoss(dayPL, dayPLPct),
	}}
	format.PrintTable("Account", []string{"Equity", "Cash", "Buying Power", "Day P/L"}, rows)
}

func renderPositions(client *api.Client) {
	positions, err := client.ListPositions()
	if err != nil {
		log.Warn("failed to fetch positions: %v", err)
		return
	}
	if len(positions) == 0 {
		fmt.Println("No open positions")
		return
	}
	rows := make([][]string, 0, len(positions))
	for _, p := range positions {
		rows = append(rows, []string{
			p.Symbol,
			p.Qty.String(),
			format.Currency(p.CurrentPrice),
			format.Currency(p.MarketValue),
			format.ProfitLoss(p.UnrealizedPL, p.UnrealizedPLPC.Mul(hundred)),
		})
	}
	format.PrintTable("Positions", []string{"Symbol", "Qty", "Price", "Value", "Unrealized P/L"}, rows)
}

func renderNews(client *api.Client) {
	articles, err := client.GetNews(api.NewsParams{Limit: 5})
	if err != nil {
		log.Warn("failed to fetch news: %v", err)
		return
	}
	rows := make([][]string, 0, len(articles))
	for _, a := range articles {
		rows = append(rows, []string{
			a.CreatedAt.Local().Format("15:04"),
			format.Dash(strings.Join(a.Symbols, ",")),
			a.Headline,
		})
	}
	format.PrintTable("Headlines", []string{"Time", "Symbols", "Headline"}, rows)
}
