package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "1_build.log")

	if err := WriteFile(path, []byte("log"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read back: %v", err)
	}
	if string(data) != "log" {
		t.Errorf("content = %q", data)
	}
	if !FileExists(path) {
		t.Error("FileExists should report the written file")
	}
	if FileExists(filepath.Dir(path)) {
		t.Error("FileExists should be false for directories")
	}
}

func TestDefaultCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/cache-home")
	t.Setenv("HOME", "/tmp/home")

	dir, err := DefaultCacheDir("arch-repro-status")
	if err != nil {
		t.Fatalf("DefaultCacheDir failed: %v", err)
	}
	if filepath.Base(dir) != "arch-repro-status" {
		t.Errorf("DefaultCacheDir() = %s", dir)
	}
}
