package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/alpacahq/alpaca-cli/api"
)

// dataStreamServer speaks the market-data stream handshake: greeting,
// auth ack, then the given events after the subscribe request.
func dataStreamServer(t *testing.T, events []map[string]interface{}) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		write := func(msgs []map[string]interface{}) bool {
			buf, err := msgpack.Marshal(msgs)
			require.NoError(t, err)
			return conn.WriteMessage(websocket.BinaryMessage, buf) == nil
		}

		if !write([]map[string]interface{}{{"T": "success", "msg": "connected"}}) {
			return
		}
		if _, _, err := conn.ReadMessage(); err != nil { // auth
			return
		}
		if !write([]map[string]interface{}{{"T": "success", "msg": "authenticated"}}) {
			return
		}
		if _, _, err := conn.ReadMessage(); err != nil { // subscribe
			return
		}
		if !write(events) {
			return
		}
		// keep reading so ping control frames are answered
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestOpenDataStream_HandshakeAndDispatch(t *testing.T) {
	srv := dataStreamServer(t, []map[string]interface{}{
		{"T": "subscription", "msg": "ok"},
		{"T": "t", "S": "AAPL", "p": 190.5, "s": 100.0},
	})
	defer srv.Close()

	c := newClient(nil)
	s, err := c.OpenDataStream(api.DataStreamOptions{URL: wsURL(srv), Trades: []string{"AAPL"}})
	require.NoError(t, err)
	defer s.Close()

	select {
	case msg := <-s.Messages():
		require.Equal(t, "t", msg.Type)
		require.Equal(t, "AAPL", msg.Symbol)
		require.Equal(t, 190.5, msg.Price)
	case err := <-s.Err():
		t.Fatalf("stream error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a stream message")
	}
}

func TestOpenDataStream_AuthRejected(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		greeting, _ := msgpack.Marshal([]map[string]interface{}{{"T": "success", "msg": "connected"}})
		if conn.WriteMessage(websocket.BinaryMessage, greeting) != nil {
			return
		}
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		denied, _ := msgpack.Marshal([]map[string]interface{}{{"T": "error", "code": 402, "msg": "auth failed"}})
		conn.WriteMessage(websocket.BinaryMessage, denied)
	}))
	defer srv.Close()

	c := newClient(nil)
	_, err := c.OpenDataStream(api.DataStreamOptions{URL: wsURL(srv), Trades: []string{"AAPL"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "auth failed")
}
