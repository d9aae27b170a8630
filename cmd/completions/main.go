// Command completions writes the shell completion scripts of arch-repro-status into $OUT_DIR.
package main

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/archlinux/arch-repro-status/internal/cli"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	outDir, ok := os.LookupEnv("OUT_DIR")
	if !ok || outDir == "" {
		logrus.Fatal("OUT_DIR is not set")
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		logrus.Fatalf("Failed to create %s: %v", outDir, err)
	}

	if err := cli.GenerateCompletions(cli.NewRootCmd(logrus.New()), outDir); err != nil {
		logrus.Fatal(err)
	}
	logrus.Infof("Completion scripts written to %s", filepath.Clean(outDir))
}
