// Package pacman reads installed packages from a pacman database directory.
//
// Installed packages live in <dbpath>/local/<name>-<version>/desc. The sync
// databases in <dbpath>/sync/<repo>.db tell which repository a package comes
// from, which is used to scope the local packages to the official repositories.
package pacman

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/archlinux/arch-repro-status/internal/models"
	"github.com/sirupsen/logrus"
)

// Database is a pacman database directory
type Database struct {
	path     string
	repos    []string
	verifier *Verifier
	log      logrus.FieldLogger
}

// NewDatabase creates a database reader. Sync databases of repos are used to scope
// the local packages; a nil verifier skips signature checks.
func NewDatabase(path string, repos []string, verifier *Verifier, log logrus.FieldLogger) *Database {
	return &Database{
		path:     path,
		repos:    repos,
		verifier: verifier,
		log:      log,
	}
}

// Packages returns the installed packages that belong to the configured repositories,
// sorted by name.
func (d *Database) Packages(ctx context.Context) ([]models.ArchwebPackage, error) {
	d.log.Debugf("Querying packages from local database: %s", d.path)

	local, err := d.LocalPackages(ctx)
	if err != nil {
		return nil, err
	}

	repoOf, err := d.repoIndex(ctx)
	if err != nil {
		return nil, err
	}
	if repoOf == nil {
		d.log.Warnf("No sync database found for %v, checking all %d installed packages", d.repos, len(local))
		return local, nil
	}

	packages := make([]models.ArchwebPackage, 0, len(local))
	for _, pkg := range local {
		repo, ok := repoOf[pkg.Pkgname]
		if !ok {
			d.log.Debugf("Skipping %s: not in %v", pkg.Pkgname, d.repos)
			continue
		}
		pkg.Repo = repo
		packages = append(packages, pkg)
	}

	if dropped := len(local) - len(packages); dropped > 0 {
		d.log.Infof("Skipped %d installed packages not found in %v", dropped, d.repos)
	}
	d.log.Debugf("%d of %d installed packages belong to %v", len(packages), len(local), d.repos)
	return packages, nil
}

// LocalPackages enumerates every installed package
func (d *Database) LocalPackages(ctx context.Context) ([]models.ArchwebPackage, error) {
	localDir := filepath.Join(d.path, "local")

	entries, err := os.ReadDir(localDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read local database: %w", err)
	}

	var packages []models.ArchwebPackage
	for _, entry := range entries {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if !entry.IsDir() {
			continue
		}

		descPath := filepath.Join(localDir, entry.Name(), "desc")
		data, err := os.ReadFile(descPath)
		if errors.Is(err, fs.ErrNotExist) {
			d.log.Debugf("No desc file in %s", entry.Name())
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", descPath, err)
		}

		pkg, err := parseDescFile(data)
		if err != nil {
			d.log.Warnf("Failed to parse %s: %v", descPath, err)
			continue
		}

		packages = append(packages, *pkg)
	}

	sort.SliceStable(packages, func(i, j int) bool {
		return packages[i].Pkgname < packages[j].Pkgname
	})

	return packages, nil
}

// repoIndex maps package names to the first configured repository that provides them.
// It returns nil when none of the sync databases exist.
func (d *Database) repoIndex(ctx context.Context) (map[string]string, error) {
	var index map[string]string

	for _, repo := range d.repos {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		packages, err := d.SyncPackages(repo)
		if errors.Is(err, fs.ErrNotExist) {
			d.log.Debugf("Sync database for %s not found", repo)
			continue
		}
		if err != nil {
			return nil, err
		}

		if index == nil {
			index = make(map[string]string)
		}
		for _, pkg := range packages {
			if _, seen := index[pkg.Pkgname]; !seen {
				index[pkg.Pkgname] = repo
			}
		}
		d.log.Debugf("Loaded %d packages from sync database %s", len(packages), repo)
	}

	return index, nil
}

// SyncPackages reads the sync database of repo, verifying its signature when a
// verifier is configured.
func (d *Database) SyncPackages(repo string) ([]models.ArchwebPackage, error) {
	dbPath := filepath.Join(d.path, "sync", repo+".db")

	data, err := os.ReadFile(dbPath)
	if err != nil {
		return nil, err
	}

	if d.verifier != nil {
		if err := d.verifySyncDB(dbPath, data); err != nil {
			return nil, err
		}
	}

	packages, err := parsePacmanDB(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse sync database %s: %w", dbPath, err)
	}

	for i := range packages {
		packages[i].Repo = repo
	}
	return packages, nil
}

func (d *Database) verifySyncDB(dbPath string, data []byte) error {
	sigPath := dbPath + ".sig"

	sig, err := os.ReadFile(sigPath)
	if errors.Is(err, fs.ErrNotExist) {
		d.log.Warnf("No signature for %s, using it unverified", dbPath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read signature: %w", err)
	}

	keyID, err := d.verifier.Verify(data, sig)
	if err != nil {
		return &models.ReproStatusError{
			Type:    models.ErrSignature,
			Package: filepath.Base(dbPath),
			Err:     err,
		}
	}

	d.log.Debugf("Verified %s (key %s)", dbPath, keyID)
	return nil
}
