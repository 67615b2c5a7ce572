package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"mu/internal/trace"
)

var fsCmd = &cobra.Command{
	Use:   "fs",
	Short: "Show the files on the micro:bit next to the local workspace",
	Long: `Fs starts a file system session, lists the scripts stored on the board and
in the workspace, and ends the session.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runFS,
}

func runFS(cmd *cobra.Command, _ []string) error {
	defer dumpTraceOnPanic()

	a, err := buildApp(cmd, "")
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	outcome, err := a.editor.ToggleFilesystem(ctx)
	if err != nil {
		return err
	}
	if err := requireStarted("file system", outcome); err != nil {
		return err
	}
	defer func() {
		if _, err := a.editor.ToggleFilesystem(ctx); err != nil {
			trace.Error(ctx, trace.ScopeCommand, "stop file system", err)
		}
	}()

	remote, err := a.transport.List(ctx)
	if err != nil {
		return fmt.Errorf("list device files: %w", err)
	}
	home := a.view.Home()
	entries, err := os.ReadDir(home)
	if err != nil {
		return fmt.Errorf("list %s: %w", home, err)
	}
	local := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		return e.Name(), e.Type().IsRegular()
	})
	sort.Strings(remote)
	sort.Strings(local)

	t := newTable(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"micro:bit", home})
	for i := range max(len(remote), len(local)) {
		t.AppendRow(table.Row{at(remote, i), at(local, i)})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d files", len(remote)), fmt.Sprintf("%d files", len(local))})
	t.Render()
	return nil
}

func at(list []string, i int) string {
	if i < len(list) {
		return list[i]
	}
	return ""
}
