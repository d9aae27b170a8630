package models

import (
	"fmt"

	"github.com/gookit/color"
)

// Package is a package joined with its rebuilderd status
type Package struct {
	// Package data from the Arch Linux website or the local database
	Data ArchwebPackage

	// Reproducibility status
	Status Status

	// Rebuilderd build ID, 0 when the package has no build
	BuildID int64
}

// flaggedVersion is the style of versions flagged out-of-date
var flaggedVersion = color.New(color.FgGray, color.OpItalic)

// String returns "<name> <version> <STATUS>" with colors
func (p Package) String() string {
	version := p.Data.FullVersion()
	if p.Data.IsFlagged() {
		version = flaggedVersion.Render(version)
	}
	return fmt.Sprintf("%s %s %s", p.Data.Pkgname, version, p.Status.Fancy())
}

// LogType is the type of logs that rebuilderd provides
type LogType int

const (
	LogBuild LogType = iota
	LogDiffoscope
)

// String returns the lowercase name used in cache file names
func (t LogType) String() string {
	switch t {
	case LogDiffoscope:
		return "diffoscope"
	default:
		return "build"
	}
}

// Endpoint returns the rebuilderd API path segment of the log type
func (t LogType) Endpoint() string {
	switch t {
	case LogDiffoscope:
		return "diffoscope"
	default:
		return "log"
	}
}
