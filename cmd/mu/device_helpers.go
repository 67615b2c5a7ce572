package main

import (
	"fmt"
	"os"

	"mu/internal/device"
)

// requireStarted turns a toggle that did not start anything into an error.
// The view has already told the user why.
func requireStarted(what string, outcome device.Outcome) error {
	if outcome == device.OutcomeStarted {
		return nil
	}
	return fmt.Errorf("%s: %s", what, outcome)
}

func stderrf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}
