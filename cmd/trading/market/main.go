// Package market implements the market clock and calendar subcommands.
package market

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alpacahq/alpaca-cli/cmd/session"
	"github.com/alpacahq/alpaca-cli/utils/format"
)

// NewClockCmd builds the market clock command. The top-level clock alias
// is a second instance of the same command.
func NewClockCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "clock",
		Short:   "Show whether the market is open",
		Example: "alpaca-cli trading clock",
		RunE:    executeClock,
	}
}

func executeClock(cmd *cobra.Command, _ []string) error {
	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	clock, err := client.GetClock()
	if err != nil {
		return fmt.Errorf("failed to fetch market clock: %w", err)
	}

	state := "CLOSED"
	if clock.IsOpen {
		state = "OPEN"
	}
	rows := [][]string{
		{"Market", format.Signed(state, !clock.IsOpen)},
		{"Server Time", session.Timestamp(clock.Timestamp)},
		{"Next Open", session.Timestamp(clock.NextOpen)},
		{"Next Close", session.Timestamp(clock.NextClose)},
	}
	if clock.IsOpen {
		rows = append(rows, []string{"Closes In", untilString(clock.NextClose)})
	} else {
		rows = append(rows, []string{"Opens In", untilString(clock.NextOpen)})
	}
	format.PrintTable("Market Clock", []string{"Field", "Value"}, rows)
	return nil
}

func untilString(t time.Time) string {
	d := time.Until(t).Round(time.Minute)
	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}

var (
	calendarCmd = &cobra.Command{
		Use:     "calendar",
		Short:   "Show the market calendar",
		Example: "alpaca-cli trading calendar --start 2024-06-01 --end 2024-06-30",
		RunE:    executeCalendar,
	}

	flagCalStart string
	flagCalEnd   string
)

func init() {
	calendarCmd.Flags().StringVar(&flagCalStart, "start", "", "first day, YYYY-MM-DD (default today)")
	calendarCmd.Flags().StringVar(&flagCalEnd, "end", "", "last day, YYYY-MM-DD")
}

// CalendarCmd returns the calendar command.
func CalendarCmd() *cobra.Command {
	return calendarCmd
}

func executeCalendar(cmd *cobra.Command, _ []string) error {
	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	start := flagCalStart
	if start == "" {
		start = time.Now().Format("2006-01-02")
	}
	end := flagCalEnd
	if end == "" {
		end = time.Now().AddDate(0, 0, 14).Format("2006-01-02")
	}
	days, err := client.GetCalendar(start, end)
	if err != nil {
		return fmt.Errorf("failed to fetch market calendar: %w", err)
	}

	rows := make([][]string, 0, len(days))
	for _, day := range days {
		rows = append(rows, []string{day.Date, day.Open, day.Close})
	}
	format.PrintTable("Market Calendar", []string{"Date", "Open", "Close"}, rows)
	return nil
}
