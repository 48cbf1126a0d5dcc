package account

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alpacahq/alpaca-cli/api"
	"github.com/alpacahq/alpaca-cli/cmd/session"
	"github.com/alpacahq/alpaca-cli/utils/format"
)

var (
	activitiesCmd = &cobra.Command{
		Use:     "activities",
		Short:   "List account activities such as fills, dividends and fees",
		Example: "alpaca-cli trading account activities --type FILL",
		RunE:    executeActivities,
	}

	flagActivityTypes []string
	flagActivityDate  string
	activitiesOut     format.Flags
)

func init() {
	activitiesCmd.Flags().StringSliceVar(&flagActivityTypes, "type", nil, "activity types to include, e.g. FILL, DIV, FEE")
	activitiesCmd.Flags().StringVar(&flagActivityDate, "date", "", "only activities on this day, YYYY-MM-DD")
	activitiesOut.Register(activitiesCmd.Flags())
}

func executeActivities(cmd *cobra.Command, _ []string) error {
	client, cfg, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	activities, err := client.GetAccountActivities(api.AccountActivitiesParams{
		ActivityTypes: flagActivityTypes,
		Date:          flagActivityDate,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch account activities: %w", err)
	}

	d := format.Data{
		Title:   format.ModeBanner(cfg.Paper()) + " Account Activities",
		Columns: []string{"Time", "Type", "Symbol", "Side", "Qty", "Price", "Amount"},
	}
	for _, a := range activities {
		when := a.Date
		if a.TransactionTime != nil {
			when = session.Timestamp(*a.TransactionTime)
		}
		qty, price, amount := "-", "-", "-"
		if a.Qty != nil {
			qty = a.Qty.String()
		}
		if a.Price != nil {
			price = format.Currency(*a.Price)
		}
		if a.NetAmount != nil {
			amount = format.Currency(*a.NetAmount)
		}
		d.Append(when, a.ActivityType, format.Dash(a.Symbol),
			format.Dash(strings.ToUpper(a.Side)), qty, price, amount)
	}
	return activitiesOut.Output(d)
}
