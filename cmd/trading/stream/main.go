// Package stream implements the live order-update stream command.
package stream

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alpacahq/alpaca-cli/cmd/session"
	"github.com/alpacahq/alpaca-cli/utils/format"
	"github.com/alpacahq/alpaca-cli/utils/log"
)

const (
	usage   = "stream"
	short   = "Stream live order updates"
	long    = "This command connects to the trade_updates stream and prints order events as they happen until interrupted"
	example = "alpaca-cli trading stream"
)

// Cmd is the stream command.
var Cmd = &cobra.Command{
	Use:     usage,
	Short:   short,
	Long:    long,
	Example: example,
	RunE:    executeStream,
}

func executeStream(cmd *cobra.Command, _ []string) error {
	client, cfg, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	s, err := client.OpenTradeUpdateStream()
	if err != nil {
		return fmt.Errorf("failed to open trade update stream: %w", err)
	}
	defer s.Close()
	fmt.Printf("%s Streaming order updates, Ctrl-C to stop\n", format.ModeBanner(cfg.Paper()))

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sigc:
			log.Debug("interrupted, closing stream")
			return nil
		case err := <-s.Err():
			return fmt.Errorf("stream closed: %w", err)
		case update, ok := <-s.Updates():
			if !ok {
				return nil
			}
			o := update.Order
			price := ""
			if o.FilledAvgPrice != nil {
				price = " @ " + format.Currency(*o.FilledAvgPrice)
			}
			fmt.Printf("[%s] %s %s %s %s (filled %s%s)\n",
				update.Event, o.Symbol, strings.ToUpper(o.Side), o.Type, o.Status,
				o.FilledQty.String(), price)
		}
	}
}
