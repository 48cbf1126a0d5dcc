// Package shell implements an interactive readline session that
// dispatches each input line as a CLI invocation.
package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

const (
	usage   = "shell"
	short   = "Start an interactive session"
	long    = "This command starts an interactive shell. Each line is dispatched exactly like a CLI invocation, e.g. `trading positions list`."
	example = "alpaca-cli shell"
)

// NewCmd builds the shell command. newRoot must return a fresh root
// command tree for every dispatched line so flag state does not leak
// between invocations.
func NewCmd(newRoot func() *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:     usage,
		Short:   short,
		Long:    long,
		Example: example,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return run(newRoot)
		},
	}
}

func run(newRoot func() *cobra.Command) error {
	r, err := newReader(newRoot())
	if err != nil {
		return err
	}
	defer r.Close()

	fmt.Fprintln(os.Stderr, "Type `help` to list commands, `exit` to leave")

	for {
		line, err := r.Readline()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			continue
		}

		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "exit", "quit", "q":
			return nil
		}

		args, err := splitLine(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			continue
		}
		if args[0] == "shell" {
			fmt.Fprintln(os.Stderr, "already in a shell")
			continue
		}

		root := newRoot()
		root.SetArgs(args)
		if err := root.Execute(); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		}
	}
}

func newReader(root *cobra.Command) (*readline.Instance, error) {
	usr, err := user.Current()
	if err != nil {
		return nil, errors.New("unable to obtain home directory")
	}
	history := filepath.Join(usr.HomeDir, ".alpaca_history")

	config := &readline.Config{
		Prompt:          "\033[33malpaca»\033[0m ",
		HistoryFile:     history,
		AutoComplete:    completer(root),
		InterruptPrompt: "\nInterrupt, Press Ctrl+D to exit",
		EOFPrompt:       "exit",
	}
	return readline.NewEx(config)
}

// completer walks the command tree into readline prefix items.
func completer(root *cobra.Command) *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(root.Commands())+1)
	for _, c := range root.Commands() {
		if c.Name() == "shell" || c.Hidden {
			continue
		}
		items = append(items, completeCommand(c))
	}
	items = append(items, readline.PcItem("exit"))
	return readline.NewPrefixCompleter(items...)
}

func completeCommand(c *cobra.Command) readline.PrefixCompleterInterface {
	children := make([]readline.PrefixCompleterInterface, 0, len(c.Commands()))
	for _, sub := range c.Commands() {
		if sub.Hidden {
			continue
		}
		children = append(children, completeCommand(sub))
	}
	return readline.PcItem(c.Name(), children...)
}

// splitLine tokenizes a command line, honoring single and double quotes.
func splitLine(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quote   rune
		inWord  bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				args = append(args, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote")
	}
	if inWord {
		args = append(args, current.String())
	}
	return args, nil
}
