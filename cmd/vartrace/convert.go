package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vartrace/internal/record"
)

var convertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Convert a recorded event stream between formats",
	Long:  `Convert a recorded event stream between the NDJSON and binary (.vtr) encodings; formats are picked from file extensions`,
	Args:  cobra.ExactArgs(2),
	RunE:  runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	inPath, outPath := args[0], args[1]

	events, err := record.Load(inPath)
	if err != nil {
		return err
	}
	if err := record.Save(outPath, events); err != nil {
		return err
	}

	outFormat, err := record.FormatForPath(outPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d events to %s (%s)\n", len(events), outPath, outFormat) //nolint:errcheck
	return nil
}
