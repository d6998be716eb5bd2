package config

import (
	"os"
	"path/filepath"
	"testing"

	"eventboard-go/pkg/logger"
)

func TestParseEnvLine(t *testing.T) {
	cases := []struct {
		line    string
		key     string
		value   string
		literal bool
	}{
		{"PORT=8080", "PORT", "8080", false},
		{"export DB_DRIVER = sqlite", "DB_DRIVER", "sqlite", false},
		{`GREETING="hello\tworld"`, "GREETING", "hello\tworld", false},
		{"RAW='${HOME} stays'", "RAW", "${HOME} stays", true},
		{"ORIGINS=http://a,http://b # local", "ORIGINS", "http://a,http://b", false},
		{"TAG=v1#2", "TAG", "v1#2", false},
		{"EMPTY=", "EMPTY", "", false},
	}
	for _, tc := range cases {
		entry, ok, err := parseEnvLine(tc.line)
		if err != nil || !ok {
			t.Fatalf("%q: expected entry, got ok=%v err=%v", tc.line, ok, err)
		}
		if entry.Key != tc.key || entry.Value != tc.value || entry.Literal != tc.literal {
			t.Fatalf("%q: unexpected entry %+v", tc.line, entry)
		}
	}

	for _, line := range []string{"", "   ", "# comment"} {
		if _, ok, err := parseEnvLine(line); ok || err != nil {
			t.Fatalf("%q: expected skipped line, got ok=%v err=%v", line, ok, err)
		}
	}
	for _, line := range []string{"NOVALUE", "=x", "TWO WORDS=x"} {
		if _, _, err := parseEnvLine(line); err == nil {
			t.Fatalf("%q: expected error", line)
		}
	}
}

func TestLoadDotEnvFromExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.env")
	content := "BOARD_TEST_BASE=/srv\nBOARD_TEST_PATH=${BOARD_TEST_BASE}/board.db\nBOARD_TEST_KEPT=file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("ENV_FILE", path)
	t.Setenv("BOARD_TEST_KEPT", "env")
	for _, key := range []string{"BOARD_TEST_BASE", "BOARD_TEST_PATH"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	if err := loadDotEnv(logger.NewNop()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := os.Getenv("BOARD_TEST_PATH"); got != "/srv/board.db" {
		t.Fatalf("expected expanded path, got %q", got)
	}
	if got := os.Getenv("BOARD_TEST_KEPT"); got != "env" {
		t.Fatalf("expected environment to win, got %q", got)
	}
}

func TestLoadDotEnvMissingExplicitFile(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))

	if err := loadDotEnv(logger.NewNop()); err == nil {
		t.Fatalf("expected error for missing explicit env file")
	}
}
