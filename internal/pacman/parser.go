package pacman

import (
	"archive/tar"
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/archlinux/arch-repro-status/internal/models"
	"github.com/archlinux/arch-repro-status/internal/utils"
)

// parseDescFile parses a pacman desc file (local or sync database entry)
func parseDescFile(data []byte) (*models.ArchwebPackage, error) {
	pkg := &models.ArchwebPackage{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var currentField string

	for scanner.Scan() {
		line := scanner.Text()

		// Field marker: %FIELDNAME%
		if len(line) > 1 && strings.HasPrefix(line, "%") && strings.HasSuffix(line, "%") {
			currentField = strings.Trim(line, "%")
			continue
		}

		// Empty line
		if line == "" {
			currentField = ""
			continue
		}

		// Value for current field
		switch currentField {
		case "FILENAME":
			pkg.Filename = line
		case "NAME":
			pkg.Pkgname = line
		case "BASE":
			pkg.Pkgbase = line
		case "VERSION":
			pkg.Epoch, pkg.Pkgver, pkg.Pkgrel = models.SplitVersion(line)
		case "DESC":
			pkg.Pkgdesc = line
		case "URL":
			pkg.URL = line
		case "ARCH":
			pkg.Arch = line
		case "BUILDDATE":
			pkg.BuildDate = formatTimestamp(line)
		case "INSTALLDATE":
			pkg.LastUpdate = formatTimestamp(line)
		case "PACKAGER":
			pkg.Packager = line
		case "CSIZE":
			pkg.CompressedSize = parseSize(line)
		case "SIZE", "ISIZE":
			pkg.InstalledSize = parseSize(line)
		case "LICENSE":
			pkg.Licenses = append(pkg.Licenses, line)
		case "GROUPS":
			pkg.Groups = append(pkg.Groups, line)
		case "DEPENDS":
			pkg.Depends = append(pkg.Depends, line)
		case "OPTDEPENDS":
			pkg.Optdepends = append(pkg.Optdepends, line)
		case "MAKEDEPENDS":
			pkg.Makedepends = append(pkg.Makedepends, line)
		case "CHECKDEPENDS":
			pkg.Checkdepends = append(pkg.Checkdepends, line)
		case "CONFLICTS":
			pkg.Conflicts = append(pkg.Conflicts, line)
		case "PROVIDES":
			pkg.Provides = append(pkg.Provides, line)
		case "REPLACES":
			pkg.Replaces = append(pkg.Replaces, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if pkg.Pkgname == "" {
		return nil, fmt.Errorf("desc file has no %%NAME%% field")
	}
	if pkg.Pkgbase == "" {
		pkg.Pkgbase = pkg.Pkgname
	}

	return pkg, nil
}

// parsePacmanDB reads a sync database archive (tar, optionally compressed)
func parsePacmanDB(r io.Reader) ([]models.ArchwebPackage, error) {
	dr, closer, err := utils.NewDecompressingReader(r)
	if err != nil {
		return nil, err
	}
	defer closer()

	tarReader := tar.NewReader(dr)
	var packages []models.ArchwebPackage

	// Each package has a directory with desc file
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if header.Typeflag == tar.TypeReg && strings.HasSuffix(header.Name, "/desc") {
			descData, err := io.ReadAll(tarReader)
			if err != nil {
				return nil, err
			}

			pkg, err := parseDescFile(descData)
			if err != nil {
				continue
			}

			packages = append(packages, *pkg)
		}
	}

	return packages, nil
}

// formatTimestamp renders a unix timestamp as RFC 3339 UTC, leaving other values untouched
func formatTimestamp(value string) string {
	secs, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return value
	}
	return time.Unix(secs, 0).UTC().Format(time.RFC3339)
}

func parseSize(value string) int64 {
	size, err := strconv.ParseInt(value, 10, 64)
	if err != nil || size < 0 {
		return 0
	}
	return size
}
