package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"mu/internal/board"
)

var portsCmd = &cobra.Command{
	Use:          "ports",
	Short:        "List serial ports and the boards on them",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runPorts,
}

func init() {
	portsCmd.Flags().Bool("all", false, "include ports without a supported board")
	portsCmd.Flags().Bool("known", false, "list the supported boards instead of scanning")
	portsCmd.Flags().String("format", "table", "output format (table|json)")
}

type portJSON struct {
	Name      string `json:"name"`
	ID        string `json:"id"`
	Board     string `json:"board,omitempty"`
	Supported bool   `json:"supported"`
}

func runPorts(cmd *cobra.Command, _ []string) error {
	defer dumpTraceOnPanic()

	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fmt.Errorf("failed to get all flag: %w", err)
	}
	known, err := cmd.Flags().GetBool("known")
	if err != nil {
		return fmt.Errorf("failed to get known flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "table" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be table or json)", format)
	}
	out := cmd.OutOrStdout()

	if known {
		boards := board.KnownBoards()
		if format == "json" {
			return writeJSON(out, lo.Map(boards, func(b board.KnownBoard, _ int) portJSON {
				return portJSON{ID: b.Identity.String(), Board: b.Name, Supported: true}
			}))
		}
		t := newTable(out)
		t.AppendHeader(table.Row{"VID:PID", "Board"})
		for _, b := range boards {
			t.AppendRow(table.Row{b.Identity.String(), b.Name})
		}
		t.Render()
		return nil
	}

	registry := board.NewRegistry(board.SerialEnumerator{})
	scanned, err := registry.Scan(cmd.Context())
	if err != nil {
		return err
	}
	supported := lo.CountBy(scanned, func(p board.ScannedPort) bool { return p.Supported })
	if !all {
		scanned = lo.Filter(scanned, func(p board.ScannedPort, _ int) bool { return p.Supported })
	}

	if format == "json" {
		return writeJSON(out, lo.Map(scanned, func(p board.ScannedPort, _ int) portJSON {
			return portJSON{Name: p.Name, ID: p.Identity().String(), Board: p.Board, Supported: p.Supported}
		}))
	}

	if len(scanned) == 0 {
		fmt.Fprintln(out, "no supported board attached (use --all to see every port)")
		return nil
	}
	t := newTable(out)
	t.AppendHeader(table.Row{"Port", "VID:PID", "Board", "Supported"})
	for _, p := range scanned {
		t.AppendRow(table.Row{p.Name, p.Identity().String(), lo.Ternary(p.Board == "", "-", p.Board), lo.Ternary(p.Supported, "yes", "no")})
	}
	t.Render()
	fmt.Fprintf(out, "\n%d supported board(s)\n", supported)
	return nil
}

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	return t
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
