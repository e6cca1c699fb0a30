package operation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/PGijsbers/croissant/internal/ctxlog"
	"github.com/PGijsbers/croissant/internal/structure"
)

// Fetcher retrieves the raw bytes behind a URL. It is the byte-producing
// capability the execution layer consumes; the default implementation uses
// net/http, tests inject their own.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches over HTTP(S).
type HTTPFetcher struct {
	Client *http.Client
}

// Fetch downloads the URL's content.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s for %s", resp.Status, url)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// Download materializes a file object's content as a local file and returns
// its path. Remote content is cached under the plan's cache directory keyed
// by checksum; a contentUrl without a scheme is looked up next to the
// metadata document.
type Download struct {
	base
	fileObject *structure.FileObject
	fetcher    Fetcher
	baseDir    string
	cacheDir   string
}

func isRemote(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

// Execute returns the local path of the file object's content.
func (d *Download) Execute(ctx context.Context, _ []Result) (Result, error) {
	logger := ctxlog.FromContext(ctx)
	url := d.fileObject.ContentURL

	if !isRemote(url) {
		local := filepath.Join(d.baseDir, url)
		if _, err := os.Stat(local); err != nil {
			return nil, fmt.Errorf("local file for node %q not found: %w", d.fileObject.UID(), err)
		}
		return local, nil
	}

	cached := filepath.Join(d.cacheDir, d.fileObject.SHA256)
	if _, err := os.Stat(cached); err == nil {
		logger.Debug("Using cached download.", "node", d.fileObject.UID(), "path", cached)
		return cached, nil
	}

	logger.Info("Downloading file.", "node", d.fileObject.UID(), "url", url)
	content, err := d.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to download node %q: %w", d.fileObject.UID(), err)
	}
	digest := sha256.Sum256(content)
	if got := hex.EncodeToString(digest[:]); got != d.fileObject.SHA256 {
		return nil, fmt.Errorf("checksum mismatch for node %q: expected %s, got %s",
			d.fileObject.UID(), d.fileObject.SHA256, got)
	}
	if err := os.MkdirAll(d.cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	if err := os.WriteFile(cached, content, 0o644); err != nil {
		return nil, fmt.Errorf("failed to cache download: %w", err)
	}
	return cached, nil
}
