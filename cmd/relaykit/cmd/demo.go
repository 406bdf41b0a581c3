package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/brianly1003/relaykit/internal/viewmodel"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	demoList    bool
	demoMatrix  bool
	demoNoColor bool
)

// demoCmd runs the view-model scenarios.
var demoCmd = &cobra.Command{
	Use:   "demo [scenario...]",
	Short: "Run view-model scenarios and print their traces",
	Long: `Run one or more view-model scenarios and print every value they
observe. With no arguments every scenario runs in catalog order.

Examples:
  relaykit demo                  # Run every scenario
  relaykit demo open-relay       # Run one scenario
  relaykit demo --list           # List scenario names
  relaykit demo --matrix         # Show the capability matrix`,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().BoolVar(&demoList, "list", false, "list available scenarios")
	demoCmd.Flags().BoolVar(&demoMatrix, "matrix", false, "print the capability matrix of every pattern")
	demoCmd.Flags().BoolVar(&demoNoColor, "no-color", false, "disable colored trace output")
}

func runDemo(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if demoList {
		listScenarios(out)
		return nil
	}
	if demoMatrix {
		printMatrix(out)
		return nil
	}

	scenarios := viewmodel.Scenarios()
	if len(args) > 0 {
		scenarios = scenarios[:0:0]
		for _, name := range args {
			sc, err := viewmodel.Lookup(name)
			if err != nil {
				return err
			}
			scenarios = append(scenarios, sc)
		}
	}

	logger := slog.New(tint.NewHandler(out, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
		NoColor:    demoNoColor,
	}))
	tracer := viewmodel.SlogTracer(logger)

	for i, sc := range scenarios {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "== %s: %s\n", sc.Name, sc.Description)
		sc.Run(tracer)
	}
	return nil
}

func listScenarios(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, sc := range viewmodel.Scenarios() {
		fmt.Fprintf(tw, "%s\t%s\n", sc.Name, sc.Description)
	}
	tw.Flush()
}

// printMatrix writes one row per capability and one column per pattern.
func printMatrix(w io.Writer) {
	patterns := viewmodel.Patterns()

	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	header := []string{"capability"}
	for i := range patterns {
		header = append(header, fmt.Sprintf("%d", i+1))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, c := range viewmodel.Each() {
		row := []string{c.Label()}
		for _, p := range patterns {
			mark := "-"
			if p.Capabilities.Has(c) {
				mark = "x"
			}
			row = append(row, mark)
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()

	fmt.Fprintln(w)
	for i, p := range patterns {
		fmt.Fprintf(w, "%d. %s: %s\n", i+1, p.Name, p.Summary)
	}
}
