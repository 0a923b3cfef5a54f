package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/segcache"
)

var putType string

func init() {
	cmd := newPutCmd()
	cmd.Flags().StringVarP(&putType, "type", "t", "raw", "Cell type: raw, u8, i8, u16, i16, u32, i32, u64, i64, f32, f64")
	rootCmd.AddCommand(cmd)
}

func newPutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "put <file> <row> <col> <value>",
		Short: "Write one cell",
		Long: `The put command writes one cell and flushes it to the file.
Raw values are given as hex, one byte per two digits.

Example:
  segctl put cost.seg 120 7 1.5 --type f32
  segctl put mask.seg 3 3 ff`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPut(args)
		},
	}
	return cmd
}

func runPut(args []string) error {
	path := args[0]
	row, col, err := parseCell(args[1], args[2])
	if err != nil {
		return err
	}

	g, err := segcache.Inspect(path)
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	ct, err := lookupCellType(putType, g.CellSize)
	if err != nil {
		return err
	}
	value, err := ct.parse(args[3], g.CellSize)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", args[3], err)
	}

	g.Slots = 1
	m, err := segcache.Open(path, g, matrixOptions()...)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	if err := m.Put(row, col, value); err != nil {
		m.Close()
		return err
	}
	if err := m.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	printVerbose("Wrote (%d, %d) = %s\n", row, col, ct.format(value))
	return nil
}
