// Package news implements the market news command.
package news

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alpacahq/alpaca-cli/api"
	"github.com/alpacahq/alpaca-cli/cmd/session"
	"github.com/alpacahq/alpaca-cli/utils/format"
)

const (
	usage   = "news"
	short   = "Show market news articles"
	long    = "This command fetches news articles, optionally filtered by symbols and a time window"
	example = "alpaca-cli data news --symbols AAPL,TSLA --limit 10"
)

// Cmd is the news command.
var Cmd = &cobra.Command{
	Use:     usage,
	Short:   short,
	Long:    long,
	Example: example,
	RunE:    executeNews,
}

var (
	flagSymbols            string
	flagStart              string
	flagEnd                string
	flagLimit              int
	flagIncludeContent     bool
	flagExcludeContentless bool
	newsOut                format.Flags
)

func init() {
	Cmd.Flags().StringVar(&flagSymbols, "symbols", "", "comma separated symbol filter")
	Cmd.Flags().StringVar(&flagStart, "start", "", "earliest article time, RFC3339 or YYYY-MM-DD")
	Cmd.Flags().StringVar(&flagEnd, "end", "", "latest article time, RFC3339 or YYYY-MM-DD")
	Cmd.Flags().IntVar(&flagLimit, "limit", 10, "maximum number of articles")
	Cmd.Flags().BoolVar(&flagIncludeContent, "include-content", false, "include the article bodies")
	Cmd.Flags().BoolVar(&flagExcludeContentless, "exclude-contentless", false, "skip articles without a body")
	newsOut.Register(Cmd.Flags())
}

func executeNews(cmd *cobra.Command, _ []string) error {
	params := api.NewsParams{
		Limit:              flagLimit,
		IncludeContent:     flagIncludeContent,
		ExcludeContentless: flagExcludeContentless,
	}
	if flagSymbols != "" {
		params.Symbols = session.SplitSymbols(flagSymbols)
	}
	if flagStart != "" {
		start, err := session.ParseTime(flagStart)
		if err != nil {
			return err
		}
		params.Start = &start
	}
	if flagEnd != "" {
		end, err := session.ParseTime(flagEnd)
		if err != nil {
			return err
		}
		params.End = &end
	}

	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	articles, err := client.GetNews(params)
	if err != nil {
		return fmt.Errorf("failed to fetch news: %w", err)
	}

	d := format.Data{
		Title:   "News",
		Columns: []string{"Time", "Symbols", "Headline", "Source"},
	}
	for _, a := range articles {
		d.Append(
			session.Timestamp(a.CreatedAt),
			format.Dash(strings.Join(a.Symbols, ",")),
			a.Headline,
			a.Source,
		)
	}
	if err := newsOut.Output(d); err != nil {
		return err
	}
	if flagIncludeContent && newsOut.Format == format.Table {
		for _, a := range articles {
			if a.Content == "" {
				continue
			}
			fmt.Printf("\n%s\n%s\n", a.Headline, a.Content)
		}
	}
	return nil
}
