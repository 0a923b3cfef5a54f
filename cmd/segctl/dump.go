package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/segcache"
)

var (
	dumpType    string
	dumpFromRow int64
	dumpRows    int64
)

func init() {
	cmd := newDumpCmd()
	cmd.Flags().StringVarP(&dumpType, "type", "t", "raw", "Cell type: raw, u8, i8, u16, i16, u32, i32, u64, i64, f32, f64")
	cmd.Flags().Int64Var(&dumpFromRow, "from", 0, "First row to print")
	cmd.Flags().Int64VarP(&dumpRows, "rows", "n", 0, "Number of rows to print (0 for all)")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print rows of a matrix",
		Long: `The dump command prints whole rows, one line per row with cells
separated by spaces. With --json each row is an array of strings.

Example:
  segctl dump cost.seg --type f32 --from 100 -n 10
  segctl dump mask.seg --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
	return cmd
}

func runDump(args []string) error {
	path := args[0]

	r, err := segcache.OpenReader(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer r.Close()

	g := r.Geometry()
	ct, err := lookupCellType(dumpType, g.CellSize)
	if err != nil {
		return err
	}
	if dumpFromRow < 0 || dumpFromRow >= g.Rows {
		return fmt.Errorf("row %d out of range [0, %d)", dumpFromRow, g.Rows)
	}
	end := g.Rows
	if dumpRows > 0 && dumpFromRow+dumpRows < end {
		end = dumpFromRow + dumpRows
	}

	buf := make([]byte, g.Cols*int64(g.CellSize))
	var rows [][]string
	for row := dumpFromRow; row < end; row++ {
		if err := r.GetRow(row, buf); err != nil {
			return err
		}
		cells := make([]string, g.Cols)
		for col := range cells {
			off := col * g.CellSize
			cells[col] = ct.format(buf[off : off+g.CellSize])
		}
		if jsonOut {
			rows = append(rows, cells)
			continue
		}
		printInfo("%s\n", strings.Join(cells, " "))
	}

	if jsonOut {
		return printJSON(rows)
	}
	return nil
}
