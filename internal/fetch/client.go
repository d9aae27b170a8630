// Package fetch retrieves package data from archlinux.org and rebuilderd.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/archlinux/arch-repro-status/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client performs requests against the archweb and rebuilderd APIs
type Client struct {
	httpCli   *http.Client
	userAgent string
	progress  io.Writer
	log       logrus.FieldLogger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpCli *http.Client) Option {
	return func(c *Client) {
		c.httpCli = httpCli
	}
}

// WithProgress renders a progress bar to w while downloading logs
func WithProgress(w io.Writer) Option {
	return func(c *Client) {
		c.progress = w
	}
}

// NewClient creates a client whose requests time out after timeout
func NewClient(timeout time.Duration, userAgent string, log logrus.FieldLogger, opts ...Option) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	c := &Client{
		httpCli: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		userAgent: userAgent,
		log:       log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get issues a GET request and returns the response of a 2xx status
func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, models.NewError(models.ErrRequest, errors.WithMessagef(err, "create request for %s", url))
	}
	if c.userAgent != "" {
		request.Header.Set("User-Agent", c.userAgent)
	}

	c.log.Debugf("GET %s", url)
	resp, err := c.httpCli.Do(request)
	if err != nil {
		return nil, models.NewError(models.ErrRequest, errors.WithMessagef(err, "failed to send request to %s", url))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, models.NewError(models.ErrRequest, fmt.Errorf("%s returned %s", url, resp.Status))
	}

	return resp, nil
}

// getJSON issues a GET request and decodes the JSON body into v
func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	resp, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		if ctx.Err() != nil {
			return models.NewError(models.ErrRequest, errors.WithMessagef(err, "read %s", url))
		}
		return models.NewError(models.ErrDecode, errors.WithMessagef(err, "decode response of %s", url))
	}
	return nil
}
