package lint

import (
	"bufio"
	"bytes"
	"context"
	"regexp"
	"strconv"
	"strings"

	"mu/internal/toolrun"
)

// DefaultPyflakes is the command used when no manifest overrides it.
var DefaultPyflakes = toolrun.Command{"python3", "-m", "pyflakes"}

// stdinName is the file name pyflakes prints for input read from stdin.
const stdinName = "<stdin>"

var syntaxLine = regexp.MustCompile(`^(.+?):(\d+):(?:(\d+):)?\s(.*)$`)

// Pyflakes runs pyflakes as an external tool, feeding the script on stdin.
// Findings arrive on stdout, syntax and decoding errors on stderr.
type Pyflakes struct {
	Command toolrun.Command
	Runner  *toolrun.Runner
}

var _ Analyzer = (*Pyflakes)(nil)

func (p *Pyflakes) Analyze(ctx context.Context, filename, text string, r Reporter) error {
	cmd := p.Command
	if len(cmd) == 0 {
		cmd = DefaultPyflakes
	}
	out, err := p.Runner.Run(ctx, toolrun.Request{
		Command: cmd,
		Stdin:   []byte(text),
		Input:   []byte(text),
	})
	if err != nil {
		return err
	}
	parseStdout(out.Stdout, r)
	parseStderr(out.Stderr, filename, r)
	return nil
}

func parseStdout(data []byte, r Reporter) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		r.Flake(line)
	}
}

// parseStderr handles two shapes:
//
//	<stdin>:3:7: invalid syntax      followed by the source line and a caret
//	<stdin>: problem decoding source
func parseStderr(data []byte, filename string, r Reporter) {
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if m := syntaxLine.FindStringSubmatch(line); m != nil && m[1] == stdinName {
			lineNo, _ := strconv.Atoi(m[2])
			col := 1
			if m[3] != "" {
				col, _ = strconv.Atoi(m[3])
			}
			source := ""
			if i+1 < len(lines) && !strings.HasPrefix(lines[i+1], stdinName) {
				i++
				source = lines[i]
				if i+1 < len(lines) && strings.Trim(lines[i+1], " \t^") == "" && strings.Contains(lines[i+1], "^") {
					i++
				}
			}
			r.SyntaxError(filename, m[4], lineNo, col, source)
			continue
		}
		if msg, ok := strings.CutPrefix(line, stdinName+": "); ok {
			r.UnexpectedError(filename, msg)
		}
	}
}
