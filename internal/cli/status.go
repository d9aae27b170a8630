package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gookit/color"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/archlinux/arch-repro-status/internal/fetch"
	"github.com/archlinux/arch-repro-status/internal/inspect"
	"github.com/archlinux/arch-repro-status/internal/models"
	"github.com/archlinux/arch-repro-status/internal/pacman"
	"github.com/archlinux/arch-repro-status/internal/report"
)

// newSelector is replaced in tests
var newSelector = func() inspect.Selector {
	return &inspect.TviewSelector{}
}

func runStatus(ctx context.Context, out io.Writer, config *models.Config, log *logrus.Logger) error {
	setupColor(out)

	var opts []fetch.Option
	if config.Inspect && !config.Quiet && isTerminal(os.Stderr) {
		opts = append(opts, fetch.WithProgress(os.Stderr))
	}
	client := fetch.NewClient(config.Timeout, config.UserAgent, log, opts...)

	source, err := newPackageSource(config, client, log)
	if err != nil {
		return err
	}

	var (
		packages []models.ArchwebPackage
		statuses []models.RebuilderdPackage
	)

	// Both sources are fetched concurrently; the first failure cancels the other
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		packages, err = source(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		statuses, err = client.RebuilderdPackages(gctx, config.RebuilderdURL)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	log.Debugf("Joining %d packages with %d rebuilderd statuses", len(packages), len(statuses))
	joined := report.Join(packages, statuses)

	if config.Inspect {
		session := &inspect.Session{
			Selector:      newSelector(),
			Pager:         inspect.NewPager(config.Pager),
			Fetcher:       client,
			RebuilderdURL: config.RebuilderdURL,
			CacheDir:      config.CacheDir,
			In:            os.Stdin,
			Out:           out,
			Log:           log,
		}
		return session.Run(ctx, joined, config.Filter)
	}

	return report.NewPrinter(out, log, config.IsLocal()).Print(joined, config.Filter)
}

type packageSource func(ctx context.Context) ([]models.ArchwebPackage, error)

func newPackageSource(config *models.Config, client *fetch.Client, log *logrus.Logger) (packageSource, error) {
	if !config.IsLocal() {
		log.Debugf("Fetching packages of %s from %s", config.Maintainer, config.ArchwebURL)
		return func(ctx context.Context) ([]models.ArchwebPackage, error) {
			return client.ArchwebPackages(ctx, config.ArchwebURL, config.Maintainer)
		}, nil
	}

	var verifier *pacman.Verifier
	if config.Keyring != "" {
		v, err := pacman.NewVerifier(config.Keyring)
		if err != nil {
			return nil, invalidConfig(fmt.Errorf("failed to load keyring: %w", err))
		}
		verifier = v
	}

	db := pacman.NewDatabase(config.DBPath, config.Repos, verifier, log)
	return func(ctx context.Context) ([]models.ArchwebPackage, error) {
		packages, err := db.Packages(ctx)
		if err != nil {
			var rsErr *models.ReproStatusError
			if errors.As(err, &rsErr) {
				return nil, err
			}
			return nil, &models.ReproStatusError{
				Type: models.ErrLocalDB,
				Err:  fmt.Errorf("failed to read pacman database: %w", err),
			}
		}
		return packages, nil
	}, nil
}

// setupColor turns colors off when out is not a terminal or NO_COLOR is set
func setupColor(out io.Writer) {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		color.Disable()
		return
	}
	if f, ok := out.(*os.File); !ok || !isTerminal(f) {
		color.Disable()
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
