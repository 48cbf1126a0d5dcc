package rebalance_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/alpacahq/alpaca-cli/rebalance"
)

func TestNormalizeWeights(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		weights  map[string]float64
		wantCash float64
		wantErr  string
	}{
		"OK/cash derived from remainder": {
			weights:  map[string]float64{"AAPL": 0.6, "MSFT": 0.3},
			wantCash: 0.1,
		},
		"OK/explicit cash kept": {
			weights:  map[string]float64{"AAPL": 0.5, "CASH": 0.5},
			wantCash: 0.5,
		},
		"OK/fully invested": {
			weights:  map[string]float64{"AAPL": 1.0},
			wantCash: 0.0,
		},
		"NG/sum too high": {
			weights: map[string]float64{"AAPL": 0.8, "CASH": 0.4},
			wantErr: "total target weight is 1.2000, must be between 0.99 and 1.01",
		},
		"NG/sum too low": {
			weights: map[string]float64{"AAPL": 0.2, "CASH": 0.2},
			wantErr: "total target weight is 0.4000, must be between 0.99 and 1.01",
		},
		"NG/NaN weight": {
			weights: map[string]float64{"AAPL": math.NaN()},
			wantErr: "weight for AAPL is NaN",
		},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := rebalance.NormalizeWeights(tt.weights)
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.InDelta(t, tt.wantCash, got[rebalance.CashSymbol], 1e-9)
		})
	}
}

func TestCalculate_SellsBeforeBuys(t *testing.T) {
	t.Parallel()

	// Move half of an all-AAPL portfolio into MSFT: the AAPL sell must come
	// first so its proceeds fund the buy.
	orders, err := rebalance.Calculate(
		10000,
		map[string]float64{"AAPL": 100},
		map[string]float64{"AAPL": 0.5, "MSFT": 0.5, "CASH": 0},
		map[string]float64{"AAPL": 100, "MSFT": 50},
		false,
	)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	require.Equal(t, "sell", orders[0].Side)
	require.Equal(t, "AAPL", orders[0].Symbol)
	require.True(t, orders[0].Qty.Equal(decimal.NewFromInt(50)), "got %s", orders[0].Qty)

	require.Equal(t, "buy", orders[1].Side)
	require.Equal(t, "MSFT", orders[1].Symbol)
	require.True(t, orders[1].Qty.Equal(decimal.NewFromInt(100)), "got %s", orders[1].Qty)
}

func TestCalculate_AlphabeticalWithinSide(t *testing.T) {
	t.Parallel()

	orders, err := rebalance.Calculate(
		9000,
		map[string]float64{},
		map[string]float64{"MSFT": 0.3, "AAPL": 0.3, "GOOG": 0.3, "CASH": 0.1},
		map[string]float64{"AAPL": 100, "GOOG": 100, "MSFT": 100},
		false,
	)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	require.Equal(t, "AAPL", orders[0].Symbol)
	require.Equal(t, "GOOG", orders[1].Symbol)
	require.Equal(t, "MSFT", orders[2].Symbol)
}

func TestCalculate_LiquidationCleanup(t *testing.T) {
	t.Parallel()

	// A zero target weight closes the position even when the trade value is
	// under the dust threshold.
	orders, err := rebalance.Calculate(
		10000,
		map[string]float64{"AAPL": 0.005},
		map[string]float64{"AAPL": 0, "CASH": 1},
		map[string]float64{"AAPL": 100},
		false,
	)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, "sell", orders[0].Side)
	require.True(t, orders[0].Qty.Equal(decimal.NewFromFloat(0.005)), "got %s", orders[0].Qty)
}

func TestCalculate_DustSuppressed(t *testing.T) {
	t.Parallel()

	// The target is off by less than a dollar: no trade.
	orders, err := rebalance.Calculate(
		10000,
		map[string]float64{"AAPL": 50.001},
		map[string]float64{"AAPL": 0.5, "CASH": 0.5},
		map[string]float64{"AAPL": 100},
		false,
	)
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestCalculate_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		equity    float64
		positions map[string]float64
		weights   map[string]float64
		prices    map[string]float64
		wantErr   string
	}{
		"NG/NaN equity": {
			equity:  math.NaN(),
			weights: map[string]float64{"AAPL": 1},
			prices:  map[string]float64{"AAPL": 100},
			wantErr: "data validation failed: current_equity is NaN",
		},
		"NG/non-positive equity": {
			equity:  0,
			weights: map[string]float64{"AAPL": 1},
			prices:  map[string]float64{"AAPL": 100},
			wantErr: "current equity must be positive, got 0",
		},
		"NG/NaN position qty": {
			equity:    10000,
			positions: map[string]float64{"AAPL": math.NaN()},
			weights:   map[string]float64{"AAPL": 1},
			prices:    map[string]float64{"AAPL": 100},
			wantErr:   "data validation failed: qty for AAPL is NaN",
		},
		"NG/NaN price": {
			equity:  10000,
			weights: map[string]float64{"AAPL": 1},
			prices:  map[string]float64{"AAPL": math.NaN()},
			wantErr: "data validation failed: price for AAPL is NaN",
		},
		"NG/missing price": {
			equity:  10000,
			weights: map[string]float64{"AAPL": 1},
			prices:  map[string]float64{},
			wantErr: "price for AAPL is missing",
		},
		"NG/zero price": {
			equity:  10000,
			weights: map[string]float64{"AAPL": 1},
			prices:  map[string]float64{"AAPL": 0},
			wantErr: "price for AAPL is 0, aborting rebalance",
		},
		"NG/negative price": {
			equity:  10000,
			weights: map[string]float64{"AAPL": 1},
			prices:  map[string]float64{"AAPL": -5},
			wantErr: "price for AAPL cannot be negative: -5",
		},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := rebalance.Calculate(tt.equity, tt.positions, tt.weights, tt.prices, false)
			require.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestCalculate_ShortProtection(t *testing.T) {
	t.Parallel()

	positions := map[string]float64{"AAPL": 10}
	weights := map[string]float64{"AAPL": -0.5, "CASH": 1.5}
	prices := map[string]float64{"AAPL": 100}

	_, err := rebalance.Calculate(10000, positions, weights, prices, false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "illegal short position for AAPL")

	orders, err := rebalance.Calculate(10000, positions, weights, prices, true)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, "sell", orders[0].Side)
	require.True(t, orders[0].Qty.Equal(decimal.NewFromInt(60)), "got %s", orders[0].Qty)
}

func TestCalculate_IgnoresZeroZeroSymbols(t *testing.T) {
	t.Parallel()

	orders, err := rebalance.Calculate(
		10000,
		map[string]float64{"AAPL": 0},
		map[string]float64{"AAPL": 0, "CASH": 1},
		map[string]float64{},
		false,
	)
	require.NoError(t, err)
	require.Empty(t, orders)
}
