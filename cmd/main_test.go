package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func findCommand(t *testing.T, parent *cobra.Command, name string) *cobra.Command {
	t.Helper()
	for _, c := range parent.Commands() {
		if c.Name() == name {
			return c
		}
	}
	require.Failf(t, "command not found", "%q not under %q", name, parent.Name())
	return nil
}

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"trading", "data", "config", "dashboard", "shell"} {
		findCommand(t, root, name)
	}

	trading := findCommand(t, root, "trading")
	for _, name := range []string{"account", "orders", "positions", "assets", "watchlists", "contracts", "clock", "calendar", "stream"} {
		findCommand(t, trading, name)
	}

	data := findCommand(t, root, "data")
	for _, name := range []string{"stock", "crypto", "options", "news", "screeners"} {
		findCommand(t, data, name)
	}
}

func TestRootAliases(t *testing.T) {
	root := newRootCmd()

	// The shortcuts are second instances of the canonical commands, so
	// both spellings must resolve.
	for _, name := range []string{"buy", "sell", "pos", "status", "quote", "clock"} {
		findCommand(t, root, name)
	}

	buy := findCommand(t, root, "buy")
	for _, name := range []string{"market", "limit", "stop", "trailing"} {
		findCommand(t, buy, name)
	}

	canonical := findCommand(t, findCommand(t, root, "trading"), "orders")
	findCommand(t, canonical, "buy")
}
