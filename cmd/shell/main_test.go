package shell

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestSplitLine(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in      string
		want    []string
		wantErr bool
	}{
		"OK/plain words": {
			in:   "trading positions list",
			want: []string{"trading", "positions", "list"},
		},
		"OK/extra whitespace": {
			in:   "  buy   market  AAPL\t10 ",
			want: []string{"buy", "market", "AAPL", "10"},
		},
		"OK/double quotes": {
			in:   `watchlists create "my list" AAPL`,
			want: []string{"watchlists", "create", "my list", "AAPL"},
		},
		"OK/single quotes": {
			in:   "watchlists create 'my list'",
			want: []string{"watchlists", "create", "my list"},
		},
		"OK/quote inside word": {
			in:   `--name="tech stocks"`,
			want: []string{`--name=tech stocks`},
		},
		"OK/empty quoted arg": {
			in:   `create ""`,
			want: []string{"create", ""},
		},
		"NG/unterminated double quote": {
			in:      `create "my list`,
			wantErr: true,
		},
		"NG/unterminated single quote": {
			in:      "create 'my list",
			wantErr: true,
		},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := splitLine(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCompleter_SkipsShellAndHidden(t *testing.T) {
	t.Parallel()

	root := &cobra.Command{Use: "root"}
	trading := &cobra.Command{Use: "trading"}
	trading.AddCommand(&cobra.Command{Use: "positions"})
	root.AddCommand(trading)
	root.AddCommand(&cobra.Command{Use: "shell"})
	root.AddCommand(&cobra.Command{Use: "secret", Hidden: true})

	names := make([]string, 0, 4)
	for _, item := range completer(root).Children {
		names = append(names, string(item.GetName()))
	}
	require.Contains(t, names, "trading ")
	require.Contains(t, names, "exit ")
	for _, n := range names {
		require.NotContains(t, n, "shell")
		require.NotContains(t, n, "secret")
	}
}
