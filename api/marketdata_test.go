package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alpacahq/alpaca-cli/api"
)

func TestClient_GetStockBars_Pagination(t *testing.T) {
	t.Parallel()

	pages := []string{
		`{"bars":{"AAPL":[{"t":"2024-06-03T13:30:00Z","o":1,"h":2,"l":0.5,"c":1.5,"v":100,"n":3,"vw":1.2}]},"next_page_token":"tok1"}`,
		`{"bars":{"AAPL":[{"t":"2024-06-03T13:31:00Z","o":1.5,"h":2.5,"l":1,"c":2,"v":200,"n":4,"vw":1.8}]},"next_page_token":null}`,
	}
	var tokens []string
	var call int
	c := newClient(func(req *http.Request) *http.Response {
		tokens = append(tokens, req.URL.Query().Get("page_token"))
		body := pages[call]
		call++
		return jsonResponse(http.StatusOK, body)
	})

	bars, err := c.GetStockBars(api.BarsParams{
		Symbols:   []string{"AAPL"},
		Timeframe: "1Min",
	})
	require.NoError(t, err)
	require.Len(t, bars["AAPL"], 2)
	require.Equal(t, 2, call)
	// first page carries no token, second page carries the returned one
	require.Equal(t, []string{"", "tok1"}, tokens)
	require.Equal(t, 1.5, bars["AAPL"][0].Close)
	require.Equal(t, 2.0, bars["AAPL"][1].Close)
}

func TestClient_GetStockBars_LimitStopsPagination(t *testing.T) {
	t.Parallel()

	var call int
	var limits []string
	c := newClient(func(req *http.Request) *http.Response {
		limits = append(limits, req.URL.Query().Get("limit"))
		call++
		return jsonResponse(http.StatusOK,
			`{"bars":{"AAPL":[{"t":"2024-06-03T13:30:00Z","o":1,"h":1,"l":1,"c":1,"v":1,"n":1,"vw":1}]},"next_page_token":"more"}`)
	})

	bars, err := c.GetStockBars(api.BarsParams{
		Symbols:   []string{"AAPL"},
		Timeframe: "1Min",
		Limit:     1,
	})
	require.NoError(t, err)
	require.Len(t, bars["AAPL"], 1)
	// the limit was reached, the returned token must not be followed
	require.Equal(t, 1, call)
	require.Equal(t, []string{"1"}, limits)
}

func TestClient_GetLatestQuotes(t *testing.T) {
	t.Parallel()

	c := newClient(func(req *http.Request) *http.Response {
		require.Equal(t, "/v2/stocks/quotes/latest", req.URL.Path)
		require.Equal(t, "AAPL,MSFT", req.URL.Query().Get("symbols"))
		return jsonResponse(http.StatusOK,
			`{"quotes":{"AAPL":{"t":"2024-06-03T13:30:00Z","bp":180.1,"bs":2,"ap":180.2,"as":3},"MSFT":{"t":"2024-06-03T13:30:00Z","bp":420.5,"bs":1,"ap":420.7,"as":1}}}`)
	})

	quotes, err := c.GetLatestQuotes([]string{"AAPL", "MSFT"}, "")
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	require.Equal(t, 180.1, quotes["AAPL"].BidPrice)
	require.Equal(t, 420.7, quotes["MSFT"].AskPrice)
}

func TestClient_GetNews_Pagination(t *testing.T) {
	t.Parallel()

	pages := []string{
		`{"news":[{"id":1,"headline":"one"},{"id":2,"headline":"two"}],"next_page_token":"n1"}`,
		`{"news":[{"id":3,"headline":"three"}],"next_page_token":null}`,
	}
	var call int
	c := newClient(func(req *http.Request) *http.Response {
		body := pages[call]
		call++
		return jsonResponse(http.StatusOK, body)
	})

	articles, err := c.GetNews(api.NewsParams{})
	require.NoError(t, err)
	require.Len(t, articles, 3)
	require.Equal(t, "three", articles[2].Headline)
}

func TestClient_GetNews_LimitTruncates(t *testing.T) {
	t.Parallel()

	c := newClient(func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusOK,
			`{"news":[{"id":1,"headline":"one"},{"id":2,"headline":"two"}],"next_page_token":null}`)
	})

	articles, err := c.GetNews(api.NewsParams{Limit: 1})
	require.NoError(t, err)
	require.Len(t, articles, 1)
	require.Equal(t, "one", articles[0].Headline)
}

func TestClient_GetMovers(t *testing.T) {
	t.Parallel()

	c := newClient(func(req *http.Request) *http.Response {
		require.Equal(t, "/v1beta1/screener/stocks/movers", req.URL.Path)
		require.Equal(t, "5", req.URL.Query().Get("top"))
		return jsonResponse(http.StatusOK,
			`{"gainers":[{"symbol":"AAA","price":10,"change":1,"percent_change":11.1}],"losers":[{"symbol":"ZZZ","price":5,"change":-1,"percent_change":-16.7}]}`)
	})

	movers, err := c.GetMovers("stocks", 5)
	require.NoError(t, err)
	require.Len(t, movers.Gainers, 1)
	require.Len(t, movers.Losers, 1)
	require.Equal(t, "AAA", movers.Gainers[0].Symbol)
	require.Equal(t, -16.7, movers.Losers[0].PercentChange)
}
