// Package inspect implements the interactive build log, diffoscope and package info viewer.
package inspect

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/archlinux/arch-repro-status/internal/models"
	"github.com/archlinux/arch-repro-status/internal/report"
	"github.com/archlinux/arch-repro-status/internal/utils"
)

// Operation is an action on a selected package
type Operation int

const (
	OpBuildLog Operation = iota
	OpDiffoscope
	OpInfo
)

// Operations lists the operations in menu order
var Operations = []Operation{OpBuildLog, OpDiffoscope, OpInfo}

func (o Operation) String() string {
	switch o {
	case OpBuildLog:
		return "Show build log"
	case OpDiffoscope:
		return "Show diffoscope"
	default:
		return "Show package info"
	}
}

// Selector asks the user to pick an item. ok is false when the selection is cancelled.
type Selector interface {
	SelectPackage(items []string, current int) (index int, ok bool, err error)
	SelectOperation(pkg string) (op Operation, ok bool, err error)
}

// LogFetcher downloads rebuilderd logs
type LogFetcher interface {
	RebuilderdLog(ctx context.Context, rebuilderdURL string, buildID int64, logType models.LogType) (string, error)
}

// Session is an interactive inspection loop over a package set
type Session struct {
	Selector      Selector
	Pager         Pager
	Fetcher       LogFetcher
	RebuilderdURL string
	CacheDir      string

	// Info view input and output
	In  io.Reader
	Out io.Writer

	Log logrus.FieldLogger
}

// Run loops until the package selection is cancelled or the context is done
func (s *Session) Run(ctx context.Context, packages []models.Package, filter *models.Status) error {
	packages = report.Filter(packages, filter)
	if len(packages) == 0 {
		s.Log.Warn("No packages to inspect.")
		return nil
	}

	items := make([]string, len(packages))
	for i, pkg := range packages {
		items[i] = pkg.String()
	}

	current := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		index, ok, err := s.Selector.SelectPackage(items, current)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		current = index
		pkg := packages[index]

		op, ok, err := s.Selector.SelectOperation(pkg.Data.Pkgname)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		switch op {
		case OpInfo:
			err = s.showInfo(pkg)
		case OpDiffoscope:
			err = s.showLog(ctx, pkg, models.LogDiffoscope)
		default:
			err = s.showLog(ctx, pkg, models.LogBuild)
		}
		if err != nil {
			return err
		}
	}
}

// LogFile returns the path of the cached log, downloading it on a cache miss
func (s *Session) LogFile(ctx context.Context, buildID int64, logType models.LogType) (string, error) {
	path, err := LogPath(s.CacheDir, buildID, logType)
	if err != nil {
		return "", models.NewError(models.ErrIO, err)
	}

	if utils.FileExists(path) {
		s.Log.Debugf("Using cached %s log %s", logType, path)
		return path, nil
	}

	content, err := s.Fetcher.RebuilderdLog(ctx, s.RebuilderdURL, buildID, logType)
	if err != nil {
		return "", err
	}

	if err := utils.WriteFile(path, []byte(content), 0644); err != nil {
		return "", models.NewError(models.ErrIO, fmt.Errorf("failed to cache %s: %w", path, err))
	}
	s.Log.Debugf("Saved %s log to %s", logType, path)

	return path, nil
}

func (s *Session) showLog(ctx context.Context, pkg models.Package, logType models.LogType) error {
	if pkg.BuildID == 0 {
		s.Log.Warnf("No rebuilderd build available for %s", pkg.Data.Pkgname)
		return nil
	}

	path, err := s.LogFile(ctx, pkg.BuildID, logType)
	if err != nil {
		return err
	}

	if err := s.Pager.Show(path); err != nil {
		return models.NewError(models.ErrIO, err)
	}
	return nil
}

func (s *Session) showInfo(pkg models.Package) error {
	out := s.Out
	if out == nil {
		out = os.Stdout
	}
	in := s.In
	if in == nil {
		in = os.Stdin
	}

	if _, err := fmt.Fprintf(out, "%s\nPress Enter to continue...", pkg.Data.Info()); err != nil {
		return models.NewError(models.ErrIO, err)
	}
	_, err := bufio.NewReader(in).ReadString('\n')
	fmt.Fprintln(out)
	if err != nil && err != io.EOF {
		return models.NewError(models.ErrIO, err)
	}
	return nil
}
