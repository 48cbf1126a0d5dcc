package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alpacahq/alpaca-cli/cmd/session"
)

func TestParseTime(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		"OK/RFC3339": {
			in:   "2024-06-03T10:30:00Z",
			want: time.Date(2024, 6, 3, 10, 30, 0, 0, time.UTC),
		},
		"OK/RFC3339 with offset": {
			in:   "2024-06-03T10:30:00-04:00",
			want: time.Date(2024, 6, 3, 10, 30, 0, 0, time.FixedZone("", -4*3600)),
		},
		"OK/plain date": {
			in:   "2024-06-03",
			want: time.Date(2024, 6, 3, 0, 0, 0, 0, time.Local),
		},
		"NG/garbage":      {in: "yesterday", wantErr: true},
		"NG/time only":    {in: "10:30", wantErr: true},
		"NG/empty string": {in: "", wantErr: true},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := session.ParseTime(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestSplitSymbols(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   string
		want []string
	}{
		"OK/single":             {in: "aapl", want: []string{"AAPL"}},
		"OK/multiple":           {in: "AAPL,msft,GOOG", want: []string{"AAPL", "MSFT", "GOOG"}},
		"OK/spaces and empties": {in: " aapl , ,msft,", want: []string{"AAPL", "MSFT"}},
		"OK/empty input":        {in: "", want: []string{}},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, session.SplitSymbols(tt.in))
		})
	}
}

func TestSymbol(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in      string
		want    string
		wantErr bool
	}{
		"OK/single":          {in: "aapl", want: "AAPL"},
		"OK/first of many":   {in: "AAPL,MSFT", want: "AAPL"},
		"OK/crypto pair":     {in: "btc/usd", want: "BTC/USD"},
		"NG/empty":           {in: "", wantErr: true},
		"NG/only separators": {in: ", ,", wantErr: true},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := session.Symbol(tt.in)
			if tt.wantErr {
				require.EqualError(t, err, "no symbol given")
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTimeframeDuration(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		"OK/1Min":      {in: "1Min", want: time.Minute},
		"OK/15Min":     {in: "15Min", want: 15 * time.Minute},
		"OK/1Hour":     {in: "1Hour", want: time.Hour},
		"OK/4H":        {in: "4H", want: 4 * time.Hour},
		"OK/1Day":      {in: "1Day", want: 24 * time.Hour},
		"OK/1D":        {in: "1D", want: 24 * time.Hour},
		"OK/bare D":    {in: "D", want: 24 * time.Hour},
		"OK/1W":        {in: "1W", want: 7 * 24 * time.Hour},
		"OK/1Month":    {in: "1Month", want: 30 * 24 * time.Hour},
		"NG/unknown":   {in: "1Fortnight", wantErr: true},
		"NG/zero mult": {in: "0Min", wantErr: true},
		"NG/negative":  {in: "-5Min", wantErr: true},
		"NG/empty":     {in: "", wantErr: true},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := session.TimeframeDuration(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestBarWindow(t *testing.T) {
	t.Parallel()

	t.Run("OK/explicit start and end", func(t *testing.T) {
		t.Parallel()
		start, end, err := session.BarWindow("2024-06-01", "2024-06-03", "1D", 100, 0)
		require.NoError(t, err)
		require.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local), *start)
		require.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.Local), *end)
	})

	t.Run("OK/derived start covers the bar count", func(t *testing.T) {
		t.Parallel()
		start, end, err := session.BarWindow("", "2024-06-03T16:00:00Z", "1Min", 100, 0)
		require.NoError(t, err)
		require.Equal(t, 100*time.Minute, end.Sub(*start))
	})

	t.Run("OK/day timeframe pads for weekends", func(t *testing.T) {
		t.Parallel()
		start, end, err := session.BarWindow("", "2024-06-03T16:00:00Z", "1D", 10, 0)
		require.NoError(t, err)
		require.Equal(t, 15*24*time.Hour, end.Sub(*start))
	})

	t.Run("OK/end delay shifts the default end", func(t *testing.T) {
		t.Parallel()
		before := time.Now().Add(-30 * time.Minute)
		_, end, err := session.BarWindow("", "", "1Min", 10, 30*time.Minute)
		require.NoError(t, err)
		after := time.Now().Add(-30 * time.Minute)
		require.False(t, end.Before(before))
		require.False(t, end.After(after))
	})

	t.Run("NG/start after end", func(t *testing.T) {
		t.Parallel()
		_, _, err := session.BarWindow("2024-06-05", "2024-06-03", "1D", 10, 0)
		require.Error(t, err)
	})

	t.Run("NG/bad timeframe", func(t *testing.T) {
		t.Parallel()
		_, _, err := session.BarWindow("", "", "nope", 10, 0)
		require.Error(t, err)
	})
}
