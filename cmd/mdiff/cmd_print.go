package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TimelordUK/mdiff/internal/export"
	"github.com/TimelordUK/mdiff/pkg/linediff"
)

func newPrintCmd(configPath *string) *cobra.Command {
	var format string
	var width int
	var context int
	var output string
	var exitZero bool

	cmd := &cobra.Command{
		Use:   "print ORIGINAL MODIFIED",
		Short: "Write the comparison to stdout or a file",
		Long: "Print compares two inputs without the terminal UI. The exit status is 0\n" +
			"when the inputs are identical and 1 when they differ, unless --exit-zero.",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(2)(cmd, args); err != nil {
				return &exitError{code: 2, err: err}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return &exitError{code: 2, err: err}
			}

			cfg, err := loadConfig(*configPath)
			if err != nil {
				return &exitError{code: 2, err: err}
			}
			if !cmd.Flags().Changed("context") {
				context = cfg.Display.ContextLines
			}

			original, modified, err := loadInputs(args, cmd.InOrStdin())
			if err != nil {
				return &exitError{code: 2, err: err}
			}
			defer original.Close()
			defer modified.Close()

			res := linediff.CompareLines(original.Lines(), modified.Lines())
			exporter := export.NewExporter(width, context)

			if output != "" {
				if _, err := exporter.ExportResult(output, f, res, original.Name, modified.Name); err != nil {
					return &exitError{code: 2, err: err}
				}
			} else if err := exporter.Write(cmd.OutOrStdout(), f, res, original.Name, modified.Name); err != nil {
				return &exitError{code: 2, err: fmt.Errorf("write output: %w", err)}
			}

			if !res.Identical() && !exitZero {
				return &exitError{code: 1}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(export.FormatSide), "output format: side, unified or tagged")
	cmd.Flags().IntVar(&width, "width", export.DefaultWidth, "page width for the side format")
	cmd.Flags().IntVar(&context, "context", export.DefaultContext, "unchanged lines around unified hunks")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout (.zst compresses)")
	cmd.Flags().BoolVar(&exitZero, "exit-zero", false, "exit 0 even when the inputs differ")

	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &exitError{code: 2, err: err}
	})

	return cmd
}
