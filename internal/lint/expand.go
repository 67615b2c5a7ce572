package lint

import (
	"regexp"
	"strings"
)

const wildcardImport = "from microbit import *"

// MicrobitNames is every name the wildcard import of the microbit module
// brings into scope. Expansion and the unused-import filter both use it.
var MicrobitNames = []string{
	"pin15", "pin2", "pin0", "pin1", "pin3", "pin6", "pin4", "i2c", "pin5",
	"pin7", "pin8", "Image", "pin9", "pin14", "pin16", "reset", "pin19",
	"temperature", "sleep", "pin20", "button_a", "button_b", "running_time",
	"accelerometer", "display", "uart", "spi", "panic", "pin13", "pin12",
	"pin11", "pin10", "compass",
}

var (
	expandedImport = "from microbit import " + strings.Join(MicrobitNames, ", ")

	unusedMicrobit = regexp.MustCompile(`^'microbit\.(\w+)' imported but unused$`)

	microbitNameSet = func() map[string]struct{} {
		m := make(map[string]struct{}, len(MicrobitNames))
		for _, n := range MicrobitNames {
			m[n] = struct{}{}
		}
		return m
	}()
)

// Expand rewrites every wildcard import of the microbit module into an
// explicit import of MicrobitNames, on the same line. It reports whether
// any rewrite happened.
func Expand(text string) (string, bool) {
	if !strings.Contains(text, wildcardImport) {
		return text, false
	}
	return strings.ReplaceAll(text, wildcardImport, expandedImport), true
}

// IsExpansionArtifact reports whether msg is the unused-import finding the
// analyzer produces for a name added by Expand.
func IsExpansionArtifact(msg string) bool {
	m := unusedMicrobit.FindStringSubmatch(msg)
	if m == nil {
		return false
	}
	_, ok := microbitNameSet[m[1]]
	return ok
}
