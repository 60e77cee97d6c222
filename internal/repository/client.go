// Package repository implements the Repository Client (spec.md §4.4):
// fetching POMs, maven-metadata.xml, and artifacts with conditional
// revalidation, offline mode, update mode, and checksum verification.
//
// HTTP transport uses github.com/hashicorp/go-retryablehttp for bounded
// exponential backoff on transient failures (timeout, connection reset,
// 5xx) — the same library the corpus's own `thought-machine/please` uses
// to fetch Maven artifacts. Per-destination-path locking during download
// uses github.com/gofrs/flock.
package repository

import (
	"context"
	"net/http"
	"time"

	"github.com/chainguard-dev/clog"
	retryablehttp "github.com/hashicorp/go-retryablehttp"
)

// Repository is one configured Maven repository, tried in declaration order.
type Repository struct {
	ID  string
	URL string // base URL, e.g. "https://repo1.maven.org/maven2"
}

// Options configures a Client's behavior.
type Options struct {
	Offline    bool          // spec.md §4.4: never hit the network; miss is NotAvailableOffline
	Update     bool          // spec.md §4.4: revalidate metadata with origin regardless of cache age
	Timeout    time.Duration // per-operation HTTP deadline, default 10s
	MaxRetries int           // bounded retry count for transient failures, default 3
}

func (o Options) withDefaults() Options {
	if o.Timeout == 0 {
		o.Timeout = 10 * time.Second
	}
	if o.MaxRetries == 0 {
		o.MaxRetries = 3
	}
	return o
}

// Client is the Repository Client: it tries configured repositories in
// order, reads a per-repository on-disk cache before the network, and
// verifies checksums on artifact download.
type Client struct {
	repos    []Repository
	cacheDir string
	opts     Options
	http     *retryablehttp.Client
}

// NewClient builds a Client with an on-disk cache rooted at cacheDir,
// mirroring Maven's repository layout.
func NewClient(repos []Repository, cacheDir string, opts Options) *Client {
	opts = opts.withDefaults()
	rc := retryablehttp.NewClient()
	rc.RetryMax = opts.MaxRetries
	rc.HTTPClient.Timeout = opts.Timeout
	rc.Logger = nil // clog is wired in at the call sites instead of retryablehttp's own logger
	rc.CheckRetry = retryablehttp.DefaultRetryPolicy

	return &Client{
		repos:    repos,
		cacheDir: cacheDir,
		opts:     opts,
		http:     rc,
	}
}

func (c *Client) logger(ctx context.Context) *clog.Logger {
	return clog.FromContext(ctx)
}

// doGet performs a single conditional GET against url, sending
// If-Modified-Since from cachedModTime when non-zero. It returns the
// response body (nil for any status other than 200) and the HTTP status
// code.
func (c *Client) doGet(ctx context.Context, url string, cachedModTime time.Time) (body []byte, status int, err error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	if !cachedModTime.IsZero() {
		req.Header.Set("If-Modified-Since", cachedModTime.UTC().Format(http.TimeFormat))
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotModified {
		return nil, resp.StatusCode, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, nil
	}
	buf := make([]byte, 0, 64*1024)
	tmp := make([]byte, 32*1024)
	for {
		n, rerr := resp.Body.Read(tmp)
		if n > 0 {
			buf = append(buf, tmp[:n]...)
		}
		if rerr != nil {
			break
		}
	}
	return buf, resp.StatusCode, nil
}
