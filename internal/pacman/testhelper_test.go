package pacman

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// descEntry is a package written into a fake pacman database
type descEntry struct {
	Name        string
	Base        string
	Version     string
	Desc        string
	Arch        string
	BuildDate   string
	InstallDate string
	Packager    string
	Size        string
	Licenses    []string
	Depends     []string
}

// generateDescFile creates the desc file content for a package
func generateDescFile(e descEntry) []byte {
	var buf bytes.Buffer

	// Write a field to the buffer
	writeField := func(name string, values ...string) {
		if len(values) == 0 || values[0] == "" {
			return
		}
		buf.WriteString(fmt.Sprintf("%%%s%%\n", name))
		for _, v := range values {
			buf.WriteString(v + "\n")
		}
		buf.WriteString("\n")
	}

	writeField("NAME", e.Name)
	writeField("BASE", e.Base)
	writeField("VERSION", e.Version)
	writeField("DESC", e.Desc)
	writeField("ARCH", e.Arch)
	writeField("BUILDDATE", e.BuildDate)
	writeField("INSTALLDATE", e.InstallDate)
	writeField("PACKAGER", e.Packager)
	writeField("SIZE", e.Size)
	writeField("LICENSE", e.Licenses...)
	writeField("DEPENDS", e.Depends...)

	return buf.Bytes()
}

// writeLocalDB creates <root>/local/<name>-<version>/desc for every entry
func writeLocalDB(t *testing.T, root string, entries ...descEntry) {
	t.Helper()

	for _, e := range entries {
		dir := filepath.Join(root, "local", fmt.Sprintf("%s-%s", e.Name, e.Version))
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
		if err := os.WriteFile(filepath.Join(dir, "desc"), generateDescFile(e), 0644); err != nil {
			t.Fatalf("Failed to write desc: %v", err)
		}
	}
}

// generateDatabase creates a sync database archive compressed with compression
// ("zstd", "gzip" or "" for a plain tar)
func generateDatabase(t *testing.T, compression string, entries ...descEntry) []byte {
	t.Helper()

	// Create in-memory tar archive
	var tarBuf bytes.Buffer
	tw := tar.NewWriter(&tarBuf)

	for _, e := range entries {
		descContent := generateDescFile(e)

		// Create directory entry
		dirName := fmt.Sprintf("%s-%s/", e.Name, e.Version)
		if err := tw.WriteHeader(&tar.Header{Name: dirName, Mode: 0755, Typeflag: tar.TypeDir}); err != nil {
			t.Fatalf("Failed to write tar header: %v", err)
		}

		// Add desc file
		if err := tw.WriteHeader(&tar.Header{
			Name:     dirName + "desc",
			Mode:     0644,
			Size:     int64(len(descContent)),
			Typeflag: tar.TypeReg,
		}); err != nil {
			t.Fatalf("Failed to write tar header: %v", err)
		}
		if _, err := tw.Write(descContent); err != nil {
			t.Fatalf("Failed to write desc: %v", err)
		}
	}

	if err := tw.Close(); err != nil {
		t.Fatalf("Failed to close tar: %v", err)
	}

	var out bytes.Buffer
	var w io.WriteCloser
	switch compression {
	case "zstd":
		zw, err := zstd.NewWriter(&out)
		if err != nil {
			t.Fatalf("Failed to create zstd writer: %v", err)
		}
		w = zw
	case "gzip":
		w = gzip.NewWriter(&out)
	default:
		return tarBuf.Bytes()
	}

	if _, err := w.Write(tarBuf.Bytes()); err != nil {
		t.Fatalf("Failed to compress database: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close compressor: %v", err)
	}
	return out.Bytes()
}

// writeSyncDB writes <root>/sync/<repo>.db
func writeSyncDB(t *testing.T, root, repo string, data []byte) string {
	t.Helper()

	path := filepath.Join(root, "sync", repo+".db")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create sync dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write sync db: %v", err)
	}
	return path
}

func newTestLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}
