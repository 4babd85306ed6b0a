// Package testsupport holds shared fixtures for package tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path with the given content, creating parent
// directories as needed, and returns the path.
func WriteFile(t testing.TB, path string, content []byte) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteSoundList writes a semicolon-delimited sound list to dir and returns
// its path.
func WriteSoundList(t testing.TB, dir string, rows ...string) string {
	t.Helper()

	content := ""
	for _, row := range rows {
		content += row + "\n"
	}
	return WriteFile(t, filepath.Join(dir, "sound_list.csv"), []byte(content))
}
