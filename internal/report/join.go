// Package report joins package metadata with rebuilderd statuses and prints the result.
package report

import "github.com/archlinux/arch-repro-status/internal/models"

// Join pairs every metadata record with the first rebuilderd record of the same name.
// Records without a match get StatusUnknown and build id 0. The output has the length
// and order of packages.
func Join(packages []models.ArchwebPackage, statuses []models.RebuilderdPackage) []models.Package {
	// First occurrence wins
	index := make(map[string]int, len(statuses))
	for i := range statuses {
		if _, seen := index[statuses[i].Name]; !seen {
			index[statuses[i].Name] = i
		}
	}

	joined := make([]models.Package, 0, len(packages))
	for _, pkg := range packages {
		result := models.Package{
			Data:   pkg,
			Status: models.StatusUnknown,
		}
		if i, ok := index[pkg.Pkgname]; ok {
			result.Status = statuses[i].Status
			result.BuildID = statuses[i].GetBuildID()
		}
		joined = append(joined, result)
	}

	return joined
}

// Filter returns the packages with the given status; a nil status keeps everything.
func Filter(packages []models.Package, status *models.Status) []models.Package {
	if status == nil {
		return packages
	}

	var filtered []models.Package
	for _, pkg := range packages {
		if pkg.Status == *status {
			filtered = append(filtered, pkg)
		}
	}
	return filtered
}
