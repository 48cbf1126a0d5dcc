// Package rebalance computes the orders needed to move a portfolio onto a set
// of target weights. All arithmetic is decimal and validation is strict: a
// NaN or missing value anywhere in the inputs aborts the whole calculation
// rather than trading on a corrupted feed.
package rebalance

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

const (
	// CashSymbol is the placeholder weight key for uninvested cash.
	CashSymbol = "CASH"
)

var (
	// minQty is the threshold under which a quantity delta is considered zero.
	minQty = decimal.New(1, -9)
	// minTradeValue suppresses dust trades below one dollar, except when a
	// position is being fully liquidated.
	minTradeValue = decimal.NewFromInt(1)

	weightSumLow  = decimal.NewFromFloat(0.99)
	weightSumHigh = decimal.NewFromFloat(1.01)
)

// Order is a single calculated rebalancing trade.
type Order struct {
	Symbol string
	Qty    decimal.Decimal
	Side   string // "buy" or "sell"
}

// NormalizeWeights fills in the CASH weight when absent and validates that
// the total lands within [0.99, 1.01]. The returned map is a copy.
func NormalizeWeights(weights map[string]float64) (map[string]float64, error) {
	out := make(map[string]float64, len(weights)+1)
	sum := 0.0
	for sym, w := range weights {
		if math.IsNaN(w) {
			return nil, fmt.Errorf("weight for %s is NaN", sym)
		}
		out[sym] = w
		sum += w
	}
	if _, ok := out[CashSymbol]; !ok {
		out[CashSymbol] = 1.0 - sum
		sum = 1.0
	}

	total := decimal.NewFromFloat(sum)
	if total.LessThan(weightSumLow) || total.GreaterThan(weightSumHigh) {
		return nil, fmt.Errorf("total target weight is %s, must be between 0.99 and 1.01", total.StringFixed(4))
	}
	return out, nil
}

// Calculate returns the orders required to rebalance the portfolio. Results
// are sorted with sells before buys so executing them in order frees cash
// before it is spent; within a side, symbols are alphabetical.
func Calculate(
	equity float64,
	positions map[string]float64,
	weights map[string]float64,
	prices map[string]float64,
	allowShort bool,
) ([]Order, error) {
	if err := checkNumber("current_equity", equity); err != nil {
		return nil, err
	}
	equityD := decimal.NewFromFloat(equity)
	if equityD.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("current equity must be positive, got %s", equityD)
	}

	symbols := map[string]struct{}{}
	for s := range positions {
		symbols[s] = struct{}{}
	}
	for s := range weights {
		symbols[s] = struct{}{}
	}
	delete(symbols, CashSymbol)

	var orders []Order
	for symbol := range symbols {
		qty, hasQty := positions[symbol]
		weight := weights[symbol]
		price, hasPrice := prices[symbol]

		if hasQty {
			if err := checkNumber("qty for "+symbol, qty); err != nil {
				return nil, err
			}
		}
		if err := checkNumber("weight for "+symbol, weight); err != nil {
			return nil, err
		}

		// A symbol with neither a live position nor a target is noise.
		if qty == 0 && weight == 0 {
			continue
		}

		if !hasPrice {
			return nil, fmt.Errorf("price for %s is missing", symbol)
		}
		if err := checkNumber("price for "+symbol, price); err != nil {
			return nil, err
		}

		qtyD := decimal.NewFromFloat(qty)
		weightD := decimal.NewFromFloat(weight)
		priceD := decimal.NewFromFloat(price)

		if priceD.IsNegative() {
			return nil, fmt.Errorf("price for %s cannot be negative: %s", symbol, priceD)
		}
		if priceD.IsZero() {
			// A zero price means delisting or a data error either way.
			return nil, fmt.Errorf("price for %s is 0, aborting rebalance", symbol)
		}

		targetQty := equityD.Mul(weightD).Div(priceD)
		diff := targetQty.Sub(qtyD)

		final := qtyD.Add(diff)
		if final.IsNegative() && !allowShort {
			if final.Abs().LessThan(minQty) {
				diff = qtyD.Neg() // snap precision error to an exact close
			} else {
				return nil, fmt.Errorf("calculation results in illegal short position for %s (target weight %s)", symbol, weightD)
			}
		}

		if diff.Abs().LessThan(minQty) {
			continue
		}

		tradeValue := diff.Abs().Mul(priceD)
		if tradeValue.LessThan(minTradeValue) && !weightD.IsZero() {
			continue // dust, and not a liquidation cleanup
		}

		side := "buy"
		if diff.IsNegative() {
			side = "sell"
		}
		orders = append(orders, Order{Symbol: symbol, Qty: diff.Abs(), Side: side})
	}

	sort.Slice(orders, func(i, j int) bool {
		if orders[i].Side != orders[j].Side {
			return orders[i].Side == "sell"
		}
		return orders[i].Symbol < orders[j].Symbol
	})
	return orders, nil
}

func checkNumber(name string, v float64) error {
	if math.IsNaN(v) {
		return fmt.Errorf("data validation failed: %s is NaN", name)
	}
	return nil
}
