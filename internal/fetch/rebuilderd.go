package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"

	"github.com/archlinux/arch-repro-status/internal/models"
)

// Distro is the distribution queried on rebuilderd
const Distro = "archlinux"

// RebuilderdPackages fetches the status of every package known to the rebuilderd instance.
func (c *Client) RebuilderdPackages(ctx context.Context, rebuilderdURL string) ([]models.RebuilderdPackage, error) {
	endpoint := fmt.Sprintf("%s/api/v0/pkgs/list?distro=%s", strings.TrimRight(rebuilderdURL, "/"), Distro)

	var packages []models.RebuilderdPackage
	if err := c.getJSON(ctx, endpoint, &packages); err != nil {
		return nil, err
	}

	c.log.Debugf("Fetched %d package statuses from %s", len(packages), rebuilderdURL)
	return packages, nil
}

// RebuilderdLog fetches the build log or the diffoscope of a build.
func (c *Client) RebuilderdLog(ctx context.Context, rebuilderdURL string, buildID int64, logType models.LogType) (string, error) {
	endpoint := fmt.Sprintf("%s/api/v0/builds/%d/%s", strings.TrimRight(rebuilderdURL, "/"), buildID, logType.Endpoint())

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var dst io.Writer
	var buf bytes.Buffer
	dst = &buf

	var bar *progressbar.ProgressBar
	if c.progress != nil {
		bar = progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetWriter(c.progress),
			progressbar.OptionSetDescription(fmt.Sprintf("Fetching %s of build %d", logType, buildID)),
			progressbar.OptionShowBytes(true),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
		dst = io.MultiWriter(&buf, bar)
	}

	if _, err := io.Copy(dst, resp.Body); err != nil {
		return "", models.NewError(models.ErrRequest, errors.WithMessagef(err, "read %s", endpoint))
	}
	if bar != nil {
		_ = bar.Finish()
	}

	return buf.String(), nil
}
