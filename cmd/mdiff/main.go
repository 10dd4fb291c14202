package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/TimelordUK/mdiff/internal/config"
)

const version = "0.3.0"

// exitError carries a process exit status out of a command. A nil err
// exits silently.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the exit status
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return 0
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintln(stderr, "mdiff:", ee.err)
		}
		return ee.code
	}
	fmt.Fprintln(stderr, "mdiff:", err)
	return 1
}

func newRootCmd() *cobra.Command {
	var configPath string
	var tui tuiOptions

	root := &cobra.Command{
		Use:   "mdiff [original modified]",
		Short: "Side-by-side text comparison in the terminal",
		Long: "mdiff compares two texts line by line. With no arguments it opens two\n" +
			"empty buffers to paste into; with two files (\"-\" for stdin) it shows\n" +
			"their differences side by side.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("expected no arguments or two inputs, got %d", len(args))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, configPath, args, tui)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.GetConfigPath()+")")
	root.Flags().BoolVarP(&tui.watch, "watch", "w", false, "reload inputs when their files change")
	root.Flags().BoolVar(&tui.view, "view", false, "start in view mode")
	root.Flags().BoolVar(&tui.noSyntax, "no-syntax", false, "disable syntax highlighting")

	root.AddCommand(newPrintCmd(&configPath))
	root.AddCommand(newConfigCmd(&configPath))
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "mdiff", version)
		},
	}
}

// loadConfig reads the config from an explicit path or the default one
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return config.LoadFrom(path)
}
