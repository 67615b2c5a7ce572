package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mu/internal/toolrun"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the analyzer output cache",
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the cache directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := toolrun.OpenDiskCache("mu")
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), c.Dir())
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached analyzer result",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := toolrun.OpenDiskCache("mu")
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		return clearCache(cmd.OutOrStdout(), c)
	},
}

func init() {
	cacheCmd.AddCommand(cachePathCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func clearCache(out io.Writer, c *toolrun.DiskCache) error {
	if err := c.DropAll(); err != nil {
		return fmt.Errorf("failed to clear cache %s: %w", c.Dir(), err)
	}
	fmt.Fprintf(out, "cleared %s\n", c.Dir())
	return nil
}
