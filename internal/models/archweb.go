package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gookit/color"
)

// ArchwebURL is the Arch Linux website used for package searches and package links.
const ArchwebURL = "https://archlinux.org"

// SearchResult is a page of the archlinux.org package search.
type SearchResult struct {
	Version  int64            `json:"version"`
	Limit    int64            `json:"limit"`
	Valid    bool             `json:"valid"`
	Results  []ArchwebPackage `json:"results"`
	NumPages *int64           `json:"num_pages,omitempty"`
	Page     *int64           `json:"page,omitempty"`
}

// UnmarshalJSON accepts both num_pages and numPages.
func (r *SearchResult) UnmarshalJSON(data []byte) error {
	type plain SearchResult
	aux := struct {
		*plain
		NumPagesCamel *int64 `json:"numPages"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if r.NumPages == nil {
		r.NumPages = aux.NumPagesCamel
	}
	return nil
}

// Pagination returns the current page and the page count.
// ok is false when the response is not paginated.
func (r *SearchResult) Pagination() (page, numPages int64, ok bool) {
	if r.Page == nil || r.NumPages == nil {
		return 0, 0, false
	}
	return *r.Page, *r.NumPages, true
}

// ArchwebPackage is the package data that archlinux.org provides.
// Packages read from the local pacman database are converted into the same shape.
type ArchwebPackage struct {
	Pkgname        string   `json:"pkgname"`
	Pkgbase        string   `json:"pkgbase"`
	Repo           string   `json:"repo"`
	Arch           string   `json:"arch"`
	Pkgver         string   `json:"pkgver"`
	Pkgrel         string   `json:"pkgrel"`
	Epoch          int64    `json:"epoch"`
	Pkgdesc        string   `json:"pkgdesc"`
	URL            string   `json:"url"`
	Filename       string   `json:"filename"`
	CompressedSize int64    `json:"compressed_size"`
	InstalledSize  int64    `json:"installed_size"`
	BuildDate      string   `json:"build_date"`
	LastUpdate     string   `json:"last_update"`
	FlagDate       *string  `json:"flag_date"`
	Maintainers    []string `json:"maintainers"`
	Packager       string   `json:"packager"`
	Groups         []string `json:"groups"`
	Licenses       []string `json:"licenses"`
	Conflicts      []string `json:"conflicts"`
	Provides       []string `json:"provides"`
	Replaces       []string `json:"replaces"`
	Depends        []string `json:"depends"`
	Optdepends     []string `json:"optdepends"`
	Makedepends    []string `json:"makedepends"`
	Checkdepends   []string `json:"checkdepends"`
}

// FullVersion returns the version as pacman prints it: [epoch:]pkgver-pkgrel.
func (p *ArchwebPackage) FullVersion() string {
	if p.Epoch != 0 {
		return fmt.Sprintf("%d:%s-%s", p.Epoch, p.Pkgver, p.Pkgrel)
	}
	return fmt.Sprintf("%s-%s", p.Pkgver, p.Pkgrel)
}

// IsFlagged reports whether the package is flagged out-of-date.
func (p *ArchwebPackage) IsFlagged() bool {
	return p.FlagDate != nil
}

// PackageURL returns the archlinux.org page of the package.
func (p *ArchwebPackage) PackageURL() string {
	return fmt.Sprintf("%s/packages/%s/%s/%s/", ArchwebURL, p.Repo, p.Arch, p.Pkgbase)
}

// SplitVersion splits a pacman version string ([epoch:]pkgver-pkgrel) into its parts.
// A missing or malformed epoch yields 0; a missing pkgrel yields "".
func SplitVersion(version string) (epoch int64, pkgver, pkgrel string) {
	rest := version
	if i := strings.Index(rest, ":"); i >= 0 {
		if e, err := strconv.ParseInt(rest[:i], 10, 64); err == nil && e >= 0 {
			epoch = e
		}
		rest = rest[i+1:]
	}
	if i := strings.LastIndex(rest, "-"); i >= 0 {
		return epoch, rest[:i], rest[i+1:]
	}
	return epoch, rest, ""
}

// Info renders the package details block shown by the package info view.
func (p *ArchwebPackage) Info() string {
	var sb strings.Builder

	field := func(name, value string) {
		fmt.Fprintf(&sb, "\t%s: %s\n", color.Cyan.Render(fmt.Sprintf("%-16s", name)), value)
	}

	field("Name", p.Pkgname)
	field("Version", p.FullVersion())
	field("Architecture", p.Arch)
	field("Repository", p.Repo)
	field("Description", p.Pkgdesc)
	field("Upstream URL", p.URL)
	field("License(s)", strings.Join(p.Licenses, ", "))
	field("Maintainer(s)", strings.Join(p.Maintainers, ", "))
	field("Package Size", humanize.IBytes(nonNegative(p.CompressedSize)))
	field("Installed Size", humanize.IBytes(nonNegative(p.InstalledSize)))
	field("Last Packager", p.Packager)
	field("Build Date", p.BuildDate)
	field("Last Updated", p.LastUpdate)
	if p.FlagDate != nil {
		fmt.Fprintf(&sb, "\t%s: %s\n", color.Red.Render(fmt.Sprintf("%-16s", "Flag Date")), *p.FlagDate)
	}
	field("Package URL", p.PackageURL())

	return sb.String()
}

func nonNegative(n int64) uint64 {
	if n < 0 {
		return 0
	}
	return uint64(n)
}
