package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/archlinux/arch-repro-status/internal/models"
)

// ArchwebPackages fetches the packages of maintainer from the archweb package search,
// following every page of the result.
func (c *Client) ArchwebPackages(ctx context.Context, archwebURL, maintainer string) ([]models.ArchwebPackage, error) {
	first, err := c.searchPage(ctx, archwebURL, maintainer, 0)
	if err != nil {
		return nil, err
	}

	results := first.Results
	page, numPages, ok := first.Pagination()
	if !ok {
		c.log.Debugf("Found %d packages of %s", len(results), maintainer)
		return results, nil
	}

	for p := page + 1; p <= numPages; p++ {
		next, err := c.searchPage(ctx, archwebURL, maintainer, p)
		if err != nil {
			return nil, err
		}
		results = append(results, next.Results...)
	}

	c.log.Debugf("Found %d packages of %s on %d page(s)", len(results), maintainer, numPages)
	return results, nil
}

// searchPage fetches a single page; page 0 leaves the page parameter out.
func (c *Client) searchPage(ctx context.Context, archwebURL, maintainer string, page int64) (*models.SearchResult, error) {
	query := url.Values{}
	query.Set("maintainer", maintainer)
	if page > 0 {
		query.Set("page", fmt.Sprintf("%d", page))
	}
	endpoint := fmt.Sprintf("%s/packages/search/json/?%s", strings.TrimRight(archwebURL, "/"), query.Encode())

	var result models.SearchResult
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
