package cli

import (
	"fmt"
	"strings"
)

var logLevels = []string{"trace", "debug", "info", "warn", "warning", "error"}

// checkLogLevel rejects a --log-level override that zerolog would silently
// treat as info.
func checkLogLevel(level string) error {
	if level == "" {
		return nil
	}
	for _, l := range logLevels {
		if level == l {
			return nil
		}
	}
	return fmt.Errorf("invalid log level %q (expected one of %s)", level, strings.Join(logLevels, ", "))
}
