package api_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/alpacahq/alpaca-cli/api"
)

func TestClient_ListOrders_QueryParams(t *testing.T) {
	t.Parallel()

	after := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	c := newClient(func(req *http.Request) *http.Response {
		q := req.URL.Query()
		require.Equal(t, "/v2/orders", req.URL.Path)
		require.Equal(t, "open", q.Get("status"))
		require.Equal(t, "10", q.Get("limit"))
		require.Equal(t, "buy", q.Get("side"))
		require.Equal(t, "AAPL,MSFT", q.Get("symbols"))
		require.Equal(t, after.Format(time.RFC3339), q.Get("after"))
		return jsonResponse(http.StatusOK, `[{"id":"o1","symbol":"AAPL","side":"buy","status":"new","filled_qty":"0"}]`)
	})

	orders, err := c.ListOrders(api.ListOrdersParams{
		Status:  "open",
		Limit:   10,
		Side:    "buy",
		Symbols: "AAPL,MSFT",
		After:   &after,
	})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, "o1", orders[0].ID)
}

func TestClient_ClosePosition(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		params    api.ClosePositionParams
		wantQuery map[string]string
	}{
		"OK/full liquidation": {
			params:    api.ClosePositionParams{},
			wantQuery: map[string]string{"qty": "", "percentage": ""},
		},
		"OK/partial by qty": {
			params:    api.ClosePositionParams{Qty: decimalPtr(t, "5")},
			wantQuery: map[string]string{"qty": "5", "percentage": ""},
		},
		"OK/partial by percentage": {
			params:    api.ClosePositionParams{Percentage: decimalPtr(t, "50")},
			wantQuery: map[string]string{"qty": "", "percentage": "50"},
		},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			c := newClient(func(req *http.Request) *http.Response {
				require.Equal(t, http.MethodDelete, req.Method)
				require.Equal(t, "/v2/positions/AAPL", req.URL.Path)
				for key, want := range tt.wantQuery {
					require.Equal(t, want, req.URL.Query().Get(key))
				}
				return jsonResponse(http.StatusOK, `{"id":"close-1","symbol":"AAPL","side":"sell","status":"accepted","filled_qty":"0"}`)
			})

			order, err := c.ClosePosition("AAPL", tt.params)
			require.NoError(t, err)
			require.Equal(t, "close-1", order.ID)
		})
	}
}

func TestClient_Watchlists(t *testing.T) {
	t.Parallel()

	c := newClient(func(req *http.Request) *http.Response {
		switch {
		case req.Method == http.MethodPost && req.URL.Path == "/v2/watchlists":
			return jsonResponse(http.StatusOK, `{"id":"wl-1","name":"tech","assets":[]}`)
		case req.Method == http.MethodDelete && req.URL.Path == "/v2/watchlists/wl-1/AAPL":
			return jsonResponse(http.StatusNoContent, ``)
		default:
			return jsonResponse(http.StatusNotFound, `{"code":40410000,"message":"not found"}`)
		}
	})

	wl, err := c.CreateWatchlist(api.CreateWatchlistRequest{Name: "tech", Symbols: []string{"AAPL"}})
	require.NoError(t, err)
	require.Equal(t, "wl-1", wl.ID)

	require.NoError(t, c.RemoveFromWatchlist("wl-1", "AAPL"))
	require.Error(t, c.DeleteWatchlist("missing"))
}

func TestClient_GetClock(t *testing.T) {
	t.Parallel()

	c := newClient(func(req *http.Request) *http.Response {
		require.Equal(t, "/v2/clock", req.URL.Path)
		return jsonResponse(http.StatusOK,
			`{"timestamp":"2024-06-03T10:00:00-04:00","is_open":true,"next_open":"2024-06-04T09:30:00-04:00","next_close":"2024-06-03T16:00:00-04:00"}`)
	})

	clock, err := c.GetClock()
	require.NoError(t, err)
	require.True(t, clock.IsOpen)
	require.Equal(t, 16, clock.NextClose.Hour())
}

func decimalPtr(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d := decimalFromString(t, s)
	return &d
}
