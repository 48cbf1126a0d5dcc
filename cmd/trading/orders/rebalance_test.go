package orders

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMissingPriceSymbols(t *testing.T) {
	weights := map[string]float64{
		"AAPL":    0.3,
		"MSFT":    0.2,
		"BTC/USD": 0.2,
		"ETH/USD": 0.1,
		"CASH":    0.2,
	}
	prices := map[string]float64{"MSFT": 420.0}

	stocks, crypto := missingPriceSymbols(weights, prices)
	require.ElementsMatch(t, []string{"AAPL"}, stocks)
	require.ElementsMatch(t, []string{"BTC/USD", "ETH/USD"}, crypto)
}

func TestExecuteRebalance_OrderTypeValidation(t *testing.T) {
	orig := flagRebalanceOrderType
	defer func() { flagRebalanceOrderType = orig }()

	flagRebalanceOrderType = "trailing_stop"
	err := executeRebalance(rebalanceCmd, []string{"weights.json"})
	require.EqualError(t, err, `invalid --order-type "trailing_stop", want market or limit`)
}
