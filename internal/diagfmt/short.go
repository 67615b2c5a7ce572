package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"mu/internal/diag"
)

// Short prints diag.FormatShort output prefixed with the file path, one
// finding per line.
func Short(w io.Writer, f File, opts PrettyOpts) error {
	if f.Set == nil || f.Set.Empty() {
		return nil
	}
	path := formatPath(f.Path, opts.PathMode, opts.BaseDir)
	for _, line := range strings.Split(strings.TrimSuffix(diag.FormatShort(f.Set), "\n"), "\n") {
		if _, err := fmt.Fprintf(w, "%s:%s\n", path, line); err != nil {
			return err
		}
	}
	return nil
}
