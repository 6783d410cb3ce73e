package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteScript writes an executable shell script with the provided body.
// t is the active test; dir is the output directory; name is the executable file name.
func WriteScript(t *testing.T, dir string, name string, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := []byte("#!/bin/sh\n" + body + "\n")
	if err := os.WriteFile(path, content, 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool {
	return &v
}
