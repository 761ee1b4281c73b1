package version

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatConfigSchema(t *testing.T) {
	tests := []struct {
		version  int
		expected string
	}{
		{1, "config/1"},
		{2, "config/2"},
		{10, "config/10"},
	}
	for _, tt := range tests {
		got := FormatConfigSchema(tt.version)
		if got != tt.expected {
			t.Errorf("FormatConfigSchema(%d) = %q, want %q", tt.version, got, tt.expected)
		}
	}
}

func TestParseConfigVersion(t *testing.T) {
	tests := []struct {
		schema    string
		expected  int
		expectErr bool
	}{
		{"config/1", 1, false},
		{"config/10", 10, false},
		{"board/1", 0, true},    // Wrong prefix
		{"config/", 0, true},    // Missing version
		{"config/abc", 0, true}, // Invalid version
		{"config/0", 0, true},   // Version must be >= 1
		{"", 0, true},           // Empty
	}
	for _, tt := range tests {
		got, err := ParseConfigVersion(tt.schema)
		if tt.expectErr {
			if err == nil {
				t.Errorf("ParseConfigVersion(%q) expected error, got %d", tt.schema, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseConfigVersion(%q) unexpected error: %v", tt.schema, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseConfigVersion(%q) = %d, want %d", tt.schema, got, tt.expected)
		}
	}
}

func TestMinTallyVersionCompleteness(t *testing.T) {
	for v := 1; v <= CurrentConfigVersion; v++ {
		key := FormatConfigSchema(v)
		if _, ok := MinTallyVersion[key]; !ok {
			t.Errorf("MinTallyVersion is missing an entry for %q", key)
		}
	}
}

func TestInvalidConfigSchema(t *testing.T) {
	err := InvalidConfigSchema("/tmp/config.toml", "config/99")

	var schemaErr *SchemaVersionError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaVersionError, got %T", err)
	}
	if schemaErr.MinRequired != "a newer version" {
		t.Errorf("MinRequired = %q", schemaErr.MinRequired)
	}
	if !strings.Contains(err.Error(), "requires tally") {
		t.Errorf("unexpected message: %s", err.Error())
	}

	err = InvalidConfigSchema("/tmp/config.toml", "garbage")
	if !strings.Contains(err.Error(), "expected config/1") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestInfo(t *testing.T) {
	if !strings.HasPrefix(Info(), "tally ") {
		t.Errorf("Info() = %q", Info())
	}
}
