package version

import (
	"fmt"
)

// SchemaVersionError indicates a config file written for a different schema.
type SchemaVersionError struct {
	FilePath    string // Path to the problematic file
	Found       string // What was found (e.g., "config/2")
	Expected    string // What was expected (e.g., "config/1")
	MinRequired string // Minimum Tally version required (if upgrade needed)
}

func (e *SchemaVersionError) Error() string {
	if e.MinRequired != "" {
		return fmt.Sprintf(
			"config schema %s requires tally >= %s (file: %s, supports up to: %s)",
			e.Found, e.MinRequired, e.FilePath, e.Expected,
		)
	}
	return fmt.Sprintf(
		"config has invalid schema version: found %s, expected %s (file: %s)",
		e.Found, e.Expected, e.FilePath,
	)
}

// InvalidConfigSchema creates an error for a config file with an unsupported schema.
func InvalidConfigSchema(path, found string) error {
	e := &SchemaVersionError{
		FilePath: path,
		Found:    found,
		Expected: CurrentConfigSchema(),
	}
	// If the found version is newer, point at the release that introduced it
	if v, err := ParseConfigVersion(found); err == nil && v > CurrentConfigVersion {
		if minTally, ok := MinTallyVersion[found]; ok {
			e.MinRequired = minTally
		} else {
			e.MinRequired = "a newer version"
		}
	}
	return e
}
