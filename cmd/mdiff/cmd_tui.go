package main

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/TimelordUK/mdiff/internal/logging"
	"github.com/TimelordUK/mdiff/internal/source"
	"github.com/TimelordUK/mdiff/internal/ui"
	"github.com/TimelordUK/mdiff/internal/watch"
)

type tuiOptions struct {
	watch    bool
	view     bool
	noSyntax bool
}

func runTUI(cmd *cobra.Command, configPath string, args []string, opts tuiOptions) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Close()

	original := source.TextInput("original", "")
	modified := source.TextInput("modified", "")
	usesStdin := false
	if len(args) == 2 {
		original, modified, err = loadInputs(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		usesStdin = args[0] == source.StdinPath || args[1] == source.StdinPath
	}

	var watcher *watch.Watcher
	if opts.watch {
		var paths []string
		for _, in := range []source.Input{original, modified} {
			if in.IsFile() {
				paths = append(paths, in.Path)
			}
		}
		if len(paths) == 0 {
			return fmt.Errorf("--watch needs at least one file input")
		}
		watcher, err = watch.New(paths, logger.Logger)
		if err != nil {
			return err
		}
		watcher.Start()
	}

	logger.Info("starting", "original", original.Name, "modified", modified.Name, "watch", opts.watch)

	model := ui.NewModel(ui.Options{
		Original:    original,
		Modified:    modified,
		Config:      cfg,
		Logger:      logger.Logger,
		Watcher:     watcher,
		StartInView: opts.view,
		NoSyntax:    opts.noSyntax,
	})
	defer model.Close()

	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if usesStdin {
		// Keys come from the terminal when stdin carries an input
		programOpts = append(programOpts, tea.WithInputTTY())
	}

	p := tea.NewProgram(model, programOpts...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// loadInputs reads both sides; at most one may be stdin
func loadInputs(args []string, stdin io.Reader) (source.Input, source.Input, error) {
	if args[0] == source.StdinPath && args[1] == source.StdinPath {
		return source.Input{}, source.Input{}, fmt.Errorf("only one input can be read from stdin")
	}

	original, err := source.LoadInput(args[0], stdin)
	if err != nil {
		return source.Input{}, source.Input{}, err
	}
	modified, err := source.LoadInput(args[1], stdin)
	if err != nil {
		original.Close()
		return source.Input{}, source.Input{}, err
	}
	return original, modified, nil
}
