package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hupe1980/segcache"
)

var getType string

func init() {
	cmd := newGetCmd()
	cmd.Flags().StringVarP(&getType, "type", "t", "raw", "Cell type: raw, u8, i8, u16, i16, u32, i32, u64, i64, f32, f64")
	rootCmd.AddCommand(cmd)
}

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <file> <row> <col>",
		Short: "Print one cell",
		Long: `The get command reads one cell straight from the file through a
read-only mapping.

Example:
  segctl get cost.seg 120 7
  segctl get cost.seg 120 7 --type f32`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(args)
		},
	}
	return cmd
}

func parseCell(rowArg, colArg string) (int64, int64, error) {
	row, err := strconv.ParseInt(rowArg, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid row %q: %w", rowArg, err)
	}
	col, err := strconv.ParseInt(colArg, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid col %q: %w", colArg, err)
	}
	return row, col, nil
}

func runGet(args []string) error {
	path := args[0]
	row, col, err := parseCell(args[1], args[2])
	if err != nil {
		return err
	}

	r, err := segcache.OpenReader(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer r.Close()

	ct, err := lookupCellType(getType, r.CellSize())
	if err != nil {
		return err
	}

	buf := make([]byte, r.CellSize())
	if err := r.Get(row, col, buf); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]any{"row": row, "col": col, "value": ct.format(buf)})
	}
	printInfo("%s\n", ct.format(buf))
	return nil
}
