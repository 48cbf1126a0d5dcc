package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/alpacahq/alpaca-cli/api"
)

type RoundTripFunc func(req *http.Request) *http.Response

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func NewTestClient(fn RoundTripFunc) *http.Client {
	return &http.Client{
		Transport: fn,
	}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func newClient(fn RoundTripFunc) *api.Client {
	return api.NewClient(
		api.Credentials{ID: "key", Secret: "secret"},
		api.Options{
			BaseURL:    "https://paper-api.example.com",
			DataURL:    "https://data.example.com",
			HTTPClient: NewTestClient(fn),
		},
	)
}

func TestClient_AuthHeaders(t *testing.T) {
	t.Parallel()

	var gotKey, gotSecret string
	c := newClient(func(req *http.Request) *http.Response {
		gotKey = req.Header.Get("APCA-API-KEY-ID")
		gotSecret = req.Header.Get("APCA-API-SECRET-KEY")
		return jsonResponse(http.StatusOK, `{"id":"abc"}`)
	})

	_, err := c.GetAccount()
	require.NoError(t, err)
	require.Equal(t, "key", gotKey)
	require.Equal(t, "secret", gotSecret)
}

func TestClient_RateLimitRetry(t *testing.T) {
	t.Parallel()

	var calls int32
	c := newClient(func(req *http.Request) *http.Response {
		if atomic.AddInt32(&calls, 1) == 1 {
			return jsonResponse(http.StatusTooManyRequests, `{"code":42910000,"message":"rate limit exceeded"}`)
		}
		return jsonResponse(http.StatusOK, `{"id":"abc"}`)
	})

	account, err := c.GetAccount()
	require.NoError(t, err)
	require.Equal(t, "abc", account.ID)
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_APIErrorDecoding(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		response    *http.Response
		wantCode    int
		wantMessage string
	}{
		"NG/structured error body": {
			response:    jsonResponse(http.StatusUnprocessableEntity, `{"code":40010001,"message":"invalid symbol"}`),
			wantCode:    40010001,
			wantMessage: "invalid symbol",
		},
		"NG/unparsable error body": {
			response:    jsonResponse(http.StatusBadGateway, `oops`),
			wantMessage: "request failed: ",
		},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			c := newClient(func(req *http.Request) *http.Response { return tt.response })

			_, err := c.GetAccount()
			require.Error(t, err)

			var apiErr *api.APIError
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, tt.wantCode, apiErr.Code)
			require.Contains(t, apiErr.Message, tt.wantMessage)
		})
	}
}

func TestClient_PlaceOrderBody(t *testing.T) {
	t.Parallel()

	var gotBody map[string]interface{}
	c := newClient(func(req *http.Request) *http.Response {
		require.Equal(t, http.MethodPost, req.Method)
		require.Equal(t, "application/json", req.Header.Get("Content-Type"))
		body, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		return jsonResponse(http.StatusOK, `{"id":"order-1","symbol":"AAPL","side":"buy","status":"accepted","filled_qty":"0"}`)
	})

	qty := decimalFromString(t, "10")
	order, err := c.PlaceOrder(api.PlaceOrderRequest{
		Symbol:      "AAPL",
		Qty:         &qty,
		Side:        "buy",
		Type:        "market",
		TimeInForce: "day",
	})
	require.NoError(t, err)
	require.Equal(t, "order-1", order.ID)
	require.Equal(t, "AAPL", gotBody["symbol"])
	require.Equal(t, "buy", gotBody["side"])
	require.Equal(t, "10", gotBody["qty"])
	require.NotContains(t, gotBody, "limit_price")
	require.NotContains(t, gotBody, "notional")
}

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
