package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"eventboard-go/pkg/logger"
)

const defaultEnvFile = ".env"

// envEntry is one KEY=value line of an env file.
type envEntry struct {
	Key   string
	Value string
	// Literal values (single-quoted) are not expanded.
	Literal bool
}

// loadDotEnv applies the env file named by ENV_FILE (default ".env", searched
// upward from the working directory). Variables already set win.
func loadDotEnv(log logger.Logger) error {
	name := defaultEnvFile
	explicit := false
	if value, ok := os.LookupEnv("ENV_FILE"); ok && strings.TrimSpace(value) != "" {
		name = strings.TrimSpace(value)
		explicit = true
	}

	path, err := locateEnvFile(name, explicit)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		log.Debug("dotenv: no env file found", "name", name)
		return nil
	}
	if err != nil {
		return err
	}

	entries, err := readEnvFile(path)
	if err != nil {
		return err
	}

	applied, kept := 0, 0
	for _, entry := range entries {
		if _, set := os.LookupEnv(entry.Key); set {
			kept++
			continue
		}
		value := entry.Value
		if !entry.Literal {
			value = os.ExpandEnv(value)
		}
		if err := os.Setenv(entry.Key, value); err != nil {
			return fmt.Errorf("set %s: %w", entry.Key, err)
		}
		applied++
	}

	log.Info("dotenv: applied env file", "path", path, "applied", applied, "kept_from_env", kept)
	return nil
}

// locateEnvFile resolves an explicit path as given and walks parent
// directories for the default name.
func locateEnvFile(name string, explicit bool) (string, error) {
	if explicit || filepath.IsAbs(name) {
		info, err := os.Stat(name)
		if err != nil {
			return "", err
		}
		if info.IsDir() {
			return "", fmt.Errorf("env file %s is a directory", name)
		}
		return name, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

func readEnvFile(path string) ([]envEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var entries []envEntry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		entry, ok, err := parseEnvLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		if ok {
			entries = append(entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return entries, nil
}

// parseEnvLine reports ok=false for blank and comment lines.
func parseEnvLine(line string) (envEntry, bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return envEntry{}, false, nil
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

	key, raw, found := strings.Cut(line, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" || strings.ContainsAny(key, " \t") {
		return envEntry{}, false, fmt.Errorf("expected KEY=value, got %q", line)
	}
	raw = strings.TrimSpace(raw)

	switch {
	case len(raw) >= 2 && raw[0] == '\'' && raw[len(raw)-1] == '\'':
		return envEntry{Key: key, Value: raw[1 : len(raw)-1], Literal: true}, true, nil
	case len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"':
		value, err := strconv.Unquote(raw)
		if err != nil {
			value = raw[1 : len(raw)-1]
		}
		return envEntry{Key: key, Value: value}, true, nil
	default:
		return envEntry{Key: key, Value: withoutComment(raw)}, true, nil
	}
}

// withoutComment drops a " # comment" suffix from an unquoted value.
func withoutComment(value string) string {
	for _, marker := range []string{" #", "\t#"} {
		if idx := strings.Index(value, marker); idx >= 0 {
			value = value[:idx]
		}
	}
	return strings.TrimSpace(value)
}
