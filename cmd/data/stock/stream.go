package stock

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alpacahq/alpaca-cli/api"
	"github.com/alpacahq/alpaca-cli/cmd/session"
	"github.com/alpacahq/alpaca-cli/utils/format"
)

var (
	streamCmd = &cobra.Command{
		Use:     "stream SYMBOLS",
		Short:   "Stream live trades and quotes",
		Example: "alpaca-cli data stock stream AAPL,MSFT",
		Args:    cobra.ExactArgs(1),
		RunE:    executeStream,
	}

	flagStreamFeed string
)

func init() {
	streamCmd.Flags().StringVar(&flagStreamFeed, "feed", "iex", "data feed: iex or sip")
}

func executeStream(cmd *cobra.Command, args []string) error {
	symbols := session.SplitSymbols(args[0])
	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	s, err := client.OpenDataStream(api.DataStreamOptions{
		URL:    api.DefaultDataStreamURL + "/" + flagStreamFeed,
		Trades: symbols,
		Quotes: symbols,
	})
	if err != nil {
		return fmt.Errorf("failed to open data stream: %w", err)
	}
	defer s.Close()
	fmt.Println("Streaming, Ctrl-C to stop")
	return RunStream(s)
}

// RunStream prints stream events until the connection fails or the
// process is interrupted. Shared with the crypto stream command.
func RunStream(s *api.DataStream) error {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigc:
			return nil
		case err := <-s.Err():
			return fmt.Errorf("stream closed: %w", err)
		case msg, ok := <-s.Messages():
			if !ok {
				return nil
			}
			printStreamMessage(msg)
		}
	}
}

func printStreamMessage(msg api.StreamMessage) {
	when := session.Timestamp(msg.Timestamp)
	switch msg.Type {
	case "t":
		fmt.Printf("%s  %-10s trade %s x %.0f\n", when, msg.Symbol,
			format.CurrencyFloat(msg.Price), msg.Size)
	case "q":
		fmt.Printf("%s  %-10s quote %s x %.0f / %s x %.0f\n", when, msg.Symbol,
			format.CurrencyFloat(msg.BidPrice), msg.BidSize,
			format.CurrencyFloat(msg.AskPrice), msg.AskSize)
	case "b":
		fmt.Printf("%s  %-10s bar   o=%s h=%s l=%s c=%s v=%.0f\n", when, msg.Symbol,
			format.CurrencyFloat(msg.Open), format.CurrencyFloat(msg.High),
			format.CurrencyFloat(msg.Low), format.CurrencyFloat(msg.Close), msg.Volume)
	default:
		fmt.Printf("%s  %-10s %s\n", when, msg.Symbol, msg.Type)
	}
}
