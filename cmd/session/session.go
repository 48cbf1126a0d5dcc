// Package session resolves the CLI configuration into a ready API client
// and provides small helpers shared by the command handlers.
package session

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-cli/api"
	"github.com/alpacahq/alpaca-cli/utils"
)

// Open loads the configuration, validates the credentials and returns a
// client bound to the resolved endpoints.
func Open() (*api.Client, *utils.Config, error) {
	cfg := utils.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	client := api.NewClient(
		api.Credentials{ID: cfg.APIKey, Secret: cfg.APISecret},
		api.Options{BaseURL: cfg.BaseURL, DataURL: cfg.DataURL},
	)
	return client, cfg, nil
}

// ParseTime accepts an RFC3339 timestamp or a plain YYYY-MM-DD date,
// interpreted in the local time zone.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, want RFC3339 or YYYY-MM-DD", s)
	}
	return t, nil
}

// Timestamp renders a time for table output in the local zone.
func Timestamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

// Confirm prompts on stdout and reads a y/yes answer from stdin.
func Confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// SplitSymbols parses a comma separated symbol list, uppercasing and
// dropping empty entries.
func SplitSymbols(arg string) []string {
	parts := strings.Split(arg, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			symbols = append(symbols, p)
		}
	}
	return symbols
}

// Symbol parses an argument expected to hold a single symbol.
func Symbol(arg string) (string, error) {
	symbols := SplitSymbols(arg)
	if len(symbols) == 0 {
		return "", fmt.Errorf("no symbol given")
	}
	return symbols[0], nil
}

// TimeframeDuration maps a bar timeframe such as 1Min, 15Min, 1H, 1D or
// 1W to its wall-clock span.
func TimeframeDuration(tf string) (time.Duration, error) {
	lower := strings.ToLower(tf)
	unit := time.Duration(0)
	digits := lower
	switch {
	case strings.HasSuffix(lower, "min"):
		unit, digits = time.Minute, strings.TrimSuffix(lower, "min")
	case strings.HasSuffix(lower, "hour"):
		unit, digits = time.Hour, strings.TrimSuffix(lower, "hour")
	case strings.HasSuffix(lower, "month"):
		unit, digits = 30*24*time.Hour, strings.TrimSuffix(lower, "month")
	case strings.HasSuffix(lower, "h"):
		unit, digits = time.Hour, strings.TrimSuffix(lower, "h")
	case strings.HasSuffix(lower, "day"):
		unit, digits = 24*time.Hour, strings.TrimSuffix(lower, "day")
	case strings.HasSuffix(lower, "d"):
		unit, digits = 24*time.Hour, strings.TrimSuffix(lower, "d")
	case strings.HasSuffix(lower, "week"):
		unit, digits = 7*24*time.Hour, strings.TrimSuffix(lower, "week")
	case strings.HasSuffix(lower, "w"):
		unit, digits = 7*24*time.Hour, strings.TrimSuffix(lower, "w")
	default:
		return 0, fmt.Errorf("invalid timeframe %q", tf)
	}
	n := 1
	if digits != "" {
		var err error
		if n, err = strconv.Atoi(digits); err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid timeframe %q", tf)
		}
	}
	return time.Duration(n) * unit, nil
}

// BarWindow resolves the start/end of a history request. An empty end
// means now minus endDelay; an empty start means limit bars back from
// the end. Weekends inflate the window for day-or-coarser timeframes,
// so the span is padded by half again.
func BarWindow(startFlag, endFlag, timeframe string, limit int, endDelay time.Duration) (*time.Time, *time.Time, error) {
	tfDur, err := TimeframeDuration(timeframe)
	if err != nil {
		return nil, nil, err
	}

	end := time.Now().Add(-endDelay)
	if endFlag != "" {
		if end, err = ParseTime(endFlag); err != nil {
			return nil, nil, err
		}
	}

	var start time.Time
	if startFlag != "" {
		if start, err = ParseTime(startFlag); err != nil {
			return nil, nil, err
		}
	} else {
		span := time.Duration(limit) * tfDur
		if tfDur >= 24*time.Hour {
			span += span / 2
		}
		start = end.Add(-span)
	}
	if !start.Before(end) {
		return nil, nil, fmt.Errorf("start %s is not before end %s", start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return &start, &end, nil
}
