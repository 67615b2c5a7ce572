package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"mu/internal/project"
	"mu/internal/toolrun"
	"mu/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show mu build information",
	Long: `Version prints the mu release. --tools adds the external analyzer and
flasher commands mu would run from the current directory, and where each
one resolves on PATH.`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

func init() {
	versionCmd.Flags().Bool("hash", false, "include git commit hash")
	versionCmd.Flags().Bool("message", false, "include git commit message")
	versionCmd.Flags().Bool("date", false, "include build timestamp")
	versionCmd.Flags().Bool("full", false, "show all recorded build metadata")
	versionCmd.Flags().Bool("tools", false, "list the external tools and their resolved paths")
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

// versionOptions selects the optional parts of the report.
type versionOptions struct {
	showHash    bool
	showMessage bool
	showDate    bool
	color       bool
}

type versionPayload struct {
	Tool       string       `json:"tool"`
	Version    string       `json:"version"`
	GitCommit  string       `json:"git_commit,omitempty"`
	GitMessage string       `json:"git_message,omitempty"`
	BuildDate  string       `json:"build_date,omitempty"`
	Tools      []toolStatus `json:"tools,omitempty"`
}

// toolStatus is one external command mu shells out to. Path is empty when
// the executable is not found.
type toolStatus struct {
	Role    string `json:"role"`
	Command string `json:"command"`
	Path    string `json:"path,omitempty"`
}

func runVersion(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	var opts versionOptions
	var full, tools bool
	for name, dst := range map[string]*bool{
		"hash":    &opts.showHash,
		"message": &opts.showMessage,
		"date":    &opts.showDate,
		"full":    &full,
		"tools":   &tools,
	} {
		v, err := flags.GetBool(name)
		if err != nil {
			return fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = v
	}
	if full {
		opts.showHash, opts.showMessage, opts.showDate = true, true, true
	}
	format, err := flags.GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	if opts.color, err = colorEnabled(cmd); err != nil {
		return err
	}

	payload := buildVersionPayload(version.Get(), opts)
	if tools {
		if payload.Tools, err = resolveTools(); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		return writeJSON(out, payload)
	}
	renderVersionPretty(out, payload, opts.color)
	return nil
}

func buildVersionPayload(info version.Info, opts versionOptions) versionPayload {
	p := versionPayload{Tool: "mu", Version: info.Version}
	if opts.showHash {
		p.GitCommit = orUnknown(info.GitCommit)
	}
	if opts.showMessage {
		p.GitMessage = orUnknown(info.GitMessage)
	}
	if opts.showDate {
		p.BuildDate = orUnknown(info.BuildDate)
	}
	return p
}

// resolveTools reports the commands configured by the nearest mu.toml, or
// the defaults when there is none.
func resolveTools() ([]toolStatus, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	m, err := project.LoadManifest(cwd)
	if err != nil {
		return nil, err
	}
	cfg := m.Config
	roles := []struct {
		role string
		cmd  toolrun.Command
	}{
		{"lint", cfg.LintCommand()},
		{"style", cfg.StyleCommand()},
		{"flash", cfg.FlasherCommand()},
	}
	out := make([]toolStatus, 0, len(roles))
	for _, r := range roles {
		st := toolStatus{Role: r.role, Command: r.cmd.String()}
		if len(r.cmd) > 0 {
			st.Path, _ = exec.LookPath(r.cmd[0])
		}
		out = append(out, st)
	}
	return out, nil
}

func renderVersionPretty(out io.Writer, p versionPayload, useColor bool) {
	v := p.Version
	if useColor {
		v = version.Colored(v)
	}
	fmt.Fprintf(out, "%s %s\n", p.Tool, v)
	for _, kv := range [][2]string{
		{"commit", p.GitCommit},
		{"message", p.GitMessage},
		{"built", p.BuildDate},
	} {
		if kv[1] != "" {
			fmt.Fprintf(out, "%-8s %s\n", kv[0]+":", kv[1])
		}
	}
	for _, t := range p.Tools {
		fmt.Fprintf(out, "%-8s %s => %s\n", t.Role+":", t.Command, orMissing(t.Path))
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func orMissing(s string) string {
	if s == "" {
		return "not found"
	}
	return s
}
