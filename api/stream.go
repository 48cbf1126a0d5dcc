package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/alpacahq/alpaca-cli/utils/log"
)

const (
	// DefaultDataStreamURL serves the real-time stock feed; the feed
	// name (iex or sip) is appended as the path suffix.
	DefaultDataStreamURL = "wss://stream.data.alpaca.markets/v2"
	// DefaultCryptoStreamURL serves the real-time crypto feed.
	DefaultCryptoStreamURL = "wss://stream.data.alpaca.markets/v1beta3/crypto/us"

	maxMessageSize = 2048000
	pingPeriod     = 10 * time.Second

	handshakeTimeout = 2 * time.Second
)

var errStreamAuth = errors.New("stream authentication failed")

// StreamMessage is one real-time market-data event. Type is the wire
// "T" discriminator (t, q, b, o, error, subscription, ...).
type StreamMessage struct {
	Type      string    `msgpack:"T"`
	Symbol    string    `msgpack:"S"`
	Price     float64   `msgpack:"p"`
	Size      float64   `msgpack:"s"`
	BidPrice  float64   `msgpack:"bp"`
	BidSize   float64   `msgpack:"bs"`
	AskPrice  float64   `msgpack:"ap"`
	AskSize   float64   `msgpack:"as"`
	Open      float64   `msgpack:"o"`
	High      float64   `msgpack:"h"`
	Low       float64   `msgpack:"l"`
	Close     float64   `msgpack:"c"`
	Volume    float64   `msgpack:"v"`
	Timestamp time.Time `msgpack:"t"`
	Message   string    `msgpack:"msg"`
	Code      int       `msgpack:"code"`
}

type streamAction struct {
	Action string   `msgpack:"action"`
	Key    string   `msgpack:"key,omitempty"`
	Secret string   `msgpack:"secret,omitempty"`
	Trades []string `msgpack:"trades,omitempty"`
	Quotes []string `msgpack:"quotes,omitempty"`
	Bars   []string `msgpack:"bars,omitempty"`
}

// DataStreamOptions selects the feed and channels of a market-data
// stream subscription.
type DataStreamOptions struct {
	// URL is the stream endpoint including the feed suffix. Empty means
	// DefaultDataStreamURL with the iex feed.
	URL    string
	Trades []string
	Quotes []string
	Bars   []string
}

// DataStream is a live connection to the market-data stream.
type DataStream struct {
	conn     *websocket.Conn
	messages chan StreamMessage
	errc     chan error
	done     chan struct{}
}

// Messages returns the channel of decoded stream events.
func (s *DataStream) Messages() <-chan StreamMessage {
	return s.messages
}

// Err returns the channel carrying the terminal connection error.
func (s *DataStream) Err() <-chan error {
	return s.errc
}

// Close tears the connection down.
func (s *DataStream) Close() error {
	close(s.done)
	return s.conn.Close()
}

func dialStream(streamURL string) (*websocket.Conn, error) {
	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = handshakeTimeout
	conn, hresp, err := dialer.Dial(streamURL, http.Header{"Content-Type": []string{"application/msgpack"}})
	if err != nil {
		if hresp != nil {
			body, _ := io.ReadAll(hresp.Body)
			return nil, fmt.Errorf("connection failure, err: %w, status_code: %d, body: %s",
				err, hresp.StatusCode, body)
		}
		return nil, fmt.Errorf("connection failure, err: %w", err)
	}
	return conn, nil
}

// OpenDataStream connects to the market-data stream, authenticates and
// subscribes to the requested channels. Events arrive on Messages until
// the stream is closed or fails.
func (c *Client) OpenDataStream(opts DataStreamOptions) (*DataStream, error) {
	streamURL := opts.URL
	if streamURL == "" {
		streamURL = DefaultDataStreamURL + "/iex"
	}
	conn, err := dialStream(streamURL)
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(maxMessageSize)

	s := &DataStream{
		conn:     conn,
		messages: make(chan StreamMessage, 100),
		errc:     make(chan error, 1),
		done:     make(chan struct{}),
	}

	// connected greeting
	if _, err := s.expect("success"); err != nil {
		conn.Close()
		return nil, err
	}

	auth := streamAction{Action: "auth", Key: c.credentials.ID, Secret: c.credentials.Secret}
	if err := s.write(auth); err != nil {
		conn.Close()
		return nil, err
	}
	if msg, err := s.expect("success"); err != nil {
		conn.Close()
		if msg != nil && msg.Type == "error" {
			return nil, fmt.Errorf("%w: %s", errStreamAuth, msg.Message)
		}
		return nil, err
	}

	sub := streamAction{
		Action: "subscribe",
		Trades: opts.Trades,
		Quotes: opts.Quotes,
		Bars:   opts.Bars,
	}
	if err := s.write(sub); err != nil {
		conn.Close()
		return nil, err
	}

	go s.run()
	return s, nil
}

func (s *DataStream) write(v interface{}) error {
	buf, err := msgpack.Marshal(v)
	if err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.BinaryMessage, buf)
}

func (s *DataStream) readFrame() ([]StreamMessage, error) {
	_, raw, err := s.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	var msgs []StreamMessage
	if err := msgpack.Unmarshal(raw, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// expect reads one frame and requires its first message to carry the
// given type.
func (s *DataStream) expect(msgType string) (*StreamMessage, error) {
	msgs, err := s.readFrame()
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("empty frame, expected %q", msgType)
	}
	msg := msgs[0]
	if msg.Type != msgType {
		return &msg, fmt.Errorf("expected %q message, got %q: %s", msgType, msg.Type, msg.Message)
	}
	return &msg, nil
}

func (s *DataStream) setReadDeadline() error {
	return s.conn.SetReadDeadline(time.Now().Add((pingPeriod * 6) / 5))
}

func (s *DataStream) run() {
	defer close(s.messages)

	s.conn.SetPongHandler(func(string) error {
		// extend the deadline beyond our next ping
		return s.setReadDeadline()
	})
	// arm the deadline now so a dead peer is noticed before the first pong
	if err := s.setReadDeadline(); err != nil {
		s.errc <- err
		return
	}

	frames, readErr := make(chan []StreamMessage), make(chan error, 1)
	go func() {
		for {
			msgs, err := s.readFrame()
			if err != nil {
				readErr <- err
				return
			}
			select {
			case frames <- msgs:
			case <-s.done:
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case err := <-readErr:
			select {
			case <-s.done:
			default:
				s.errc <- err
			}
			return
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(time.Second)); err != nil {
				log.Error("stream write ping error %s", err)
				s.errc <- err
				return
			}
		case msgs := <-frames:
			for _, msg := range msgs {
				switch msg.Type {
				case "success", "subscription":
					log.Debug("stream control message: %s", msg.Type)
				case "error":
					s.errc <- fmt.Errorf("stream error %d: %s", msg.Code, msg.Message)
					return
				default:
					s.messages <- msg
				}
			}
		}
	}
}

// TradeUpdate is one account event from the trade_updates stream.
type TradeUpdate struct {
	Event string `json:"event"`
	Order Order  `json:"order"`
}

type tradeUpdateFrame struct {
	Stream string          `json:"stream"`
	Data   json.RawMessage `json:"data"`
}

// TradeUpdateStream is a live connection to the account's order event
// stream.
type TradeUpdateStream struct {
	conn    *websocket.Conn
	updates chan TradeUpdate
	errc    chan error
	done    chan struct{}
}

// Updates returns the channel of order events.
func (s *TradeUpdateStream) Updates() <-chan TradeUpdate {
	return s.updates
}

// Err returns the channel carrying the terminal connection error.
func (s *TradeUpdateStream) Err() <-chan error {
	return s.errc
}

// Close tears the connection down.
func (s *TradeUpdateStream) Close() error {
	close(s.done)
	return s.conn.Close()
}

// OpenTradeUpdateStream connects to the trading API's order event
// stream and subscribes to trade_updates.
func (c *Client) OpenTradeUpdateStream() (*TradeUpdateStream, error) {
	streamURL := strings.Replace(c.base, "https://", "wss://", 1) + "/stream"
	conn, err := dialStream(streamURL)
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(maxMessageSize)

	auth := map[string]interface{}{
		"action": "authenticate",
		"data": map[string]string{
			"key_id":     c.credentials.ID,
			"secret_key": c.credentials.Secret,
		},
	}
	if err := conn.WriteJSON(auth); err != nil {
		conn.Close()
		return nil, err
	}
	var authResp struct {
		Stream string `json:"stream"`
		Data   struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := conn.ReadJSON(&authResp); err != nil {
		conn.Close()
		return nil, err
	}
	if authResp.Data.Status != "authorized" {
		conn.Close()
		return nil, errStreamAuth
	}

	listen := map[string]interface{}{
		"action": "listen",
		"data":   map[string][]string{"streams": {"trade_updates"}},
	}
	if err := conn.WriteJSON(listen); err != nil {
		conn.Close()
		return nil, err
	}

	s := &TradeUpdateStream{
		conn:    conn,
		updates: make(chan TradeUpdate, 100),
		errc:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	go s.run()
	return s, nil
}

func (s *TradeUpdateStream) run() {
	defer close(s.updates)
	for {
		var frame tradeUpdateFrame
		if err := s.conn.ReadJSON(&frame); err != nil {
			select {
			case <-s.done:
			default:
				s.errc <- err
			}
			return
		}
		if frame.Stream != "trade_updates" {
			continue
		}
		var update TradeUpdate
		if err := json.Unmarshal(frame.Data, &update); err != nil {
			log.Warn("malformed trade update: %v", err)
			continue
		}
		select {
		case <-s.done:
			return
		case s.updates <- update:
		}
	}
}
