package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/segcache"
)

var (
	createRows     int64
	createCols     int64
	createCellSize int
	createSegRows  int
	createSegCols  int
	createFill     string
)

func init() {
	cmd := newCreateCmd()
	cmd.Flags().Int64Var(&createRows, "rows", 0, "Number of rows (required)")
	cmd.Flags().Int64Var(&createCols, "cols", 0, "Number of columns (required)")
	cmd.Flags().IntVar(&createCellSize, "cell-size", 4, "Cell size in bytes")
	cmd.Flags().IntVar(&createSegRows, "seg-rows", 64, "Rows per segment")
	cmd.Flags().IntVar(&createSegCols, "seg-cols", 64, "Columns per segment")
	cmd.Flags().StringVar(&createFill, "fill", "sparse", "How to size the file: sparse, zero or preallocate")
	_ = cmd.MarkFlagRequired("rows")
	_ = cmd.MarkFlagRequired("cols")
	rootCmd.AddCommand(cmd)
}

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <file>",
		Short: "Create and format a new segment file",
		Long: `The create command formats a new segment file. Every cell reads as
zero until it is written.

Example:
  segctl create cost.seg --rows 10000 --cols 8000 --cell-size 4
  segctl create dem.seg --rows 4096 --cols 4096 --cell-size 8 --seg-rows 128 --seg-cols 128 --fill preallocate`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(args)
		},
	}
	return cmd
}

func runCreate(args []string) error {
	path := args[0]

	opts := matrixOptions()
	switch createFill {
	case "sparse":
	case "zero":
		opts = append(opts, segcache.WithZeroFill())
	case "preallocate":
		opts = append(opts, segcache.WithPreallocate())
	default:
		return fmt.Errorf("unknown fill %q", createFill)
	}

	g := segcache.Geometry{
		Rows:     createRows,
		Cols:     createCols,
		CellSize: createCellSize,
		SegRows:  createSegRows,
		SegCols:  createSegCols,
		Slots:    1,
	}
	printVerbose("Creating %s\n", path)

	m, err := segcache.Create(path, g, opts...)
	if err != nil {
		return fmt.Errorf("failed to create matrix: %w", err)
	}
	segments := m.NumSegments()
	if err := m.Close(); err != nil {
		return fmt.Errorf("failed to close matrix: %w", err)
	}

	printInfo("Created %s: %dx%d cells of %d bytes in %d segments\n", path, g.Rows, g.Cols, g.CellSize, segments)
	return nil
}
