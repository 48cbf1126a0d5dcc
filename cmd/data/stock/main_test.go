package stock

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExecuteHistory_EmptySymbolArg(t *testing.T) {
	for _, arg := range []string{"", ",", " , "} {
		err := executeHistory(historyCmd, []string{arg})
		require.EqualError(t, err, "no symbol given")
	}
}
