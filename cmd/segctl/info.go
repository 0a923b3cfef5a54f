package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/segcache"
	"github.com/hupe1980/segcache/internal/format"
	"github.com/hupe1980/segcache/internal/layout"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Validate a segment file header and report its geometry",
		Long: `The info command validates the header of a segment file and displays
its geometry, tiling and the address arithmetic used for it.

Example:
  segctl info cost.seg
  segctl info cost.seg --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

type fileInfo struct {
	Path           string `json:"path"`
	Size           int64  `json:"size"`
	Rows           int64  `json:"rows"`
	Cols           int64  `json:"cols"`
	CellSize       int    `json:"cell_size"`
	SegRows        int    `json:"seg_rows"`
	SegCols        int    `json:"seg_cols"`
	SegmentBytes   int    `json:"segment_bytes"`
	SegmentsPerRow int64  `json:"segments_per_row"`
	Segments       int64  `json:"segments"`
	Addressing     string `json:"addressing"`
	Seeking        string `json:"seeking"`
}

func runInfo(args []string) error {
	path := args[0]
	printVerbose("Inspecting %s\n", path)

	g, err := segcache.Inspect(path)
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	lay, err := layout.New(layout.Params{
		Rows:     g.Rows,
		Cols:     g.Cols,
		CellSize: g.CellSize,
		SegRows:  g.SegRows,
		SegCols:  g.SegCols,
	}, format.HeaderSize)
	if err != nil {
		return fmt.Errorf("invalid geometry in header: %w", err)
	}
	stat, err := os.Stat(path)
	if err != nil {
		return err
	}

	info := fileInfo{
		Path:           path,
		Size:           stat.Size(),
		Rows:           g.Rows,
		Cols:           g.Cols,
		CellSize:       g.CellSize,
		SegRows:        g.SegRows,
		SegCols:        g.SegCols,
		SegmentBytes:   lay.SegmentBytes,
		SegmentsPerRow: lay.SegmentsPerRow,
		Segments:       lay.NumSegments,
		Addressing:     lay.AddressStrategy().String(),
		Seeking:        lay.SeekStrategy().String(),
	}

	if jsonOut {
		return printJSON(info)
	}

	printInfo("\nSegment File:\n")
	printInfo("  File: %s\n", info.Path)
	printInfo("  Size: %d bytes\n", info.Size)
	printInfo("  Matrix: %d rows x %d cols, %d-byte cells\n", info.Rows, info.Cols, info.CellSize)
	printInfo("  Segment: %d x %d cells, %d bytes\n", info.SegRows, info.SegCols, info.SegmentBytes)
	printInfo("  Segments: %d (%d per tile row)\n", info.Segments, info.SegmentsPerRow)
	printInfo("  Addressing: %s, seeking: %s\n", info.Addressing, info.Seeking)
	if info.Size < lay.FileSize() {
		printInfo("  Warning: file is %d bytes short\n", lay.FileSize()-info.Size)
	}
	return nil
}
