package classifier

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"

	"github.com/JaimeStill/lumen/pkg/formatting"
)

const defaultContentType = "image/jpeg"

// Image is a retrieved image ready for submission to a model.
type Image struct {
	Data        []byte
	ContentType string
}

// Fetcher retrieves raw image bytes from a locator. When a relay prefix is
// configured the locator is query-escaped and appended to it, which routes
// retrieval of storage links that refuse direct downloads.
type Fetcher struct {
	client  *http.Client
	relay   string
	maxSize int64
	logger  *slog.Logger
}

// NewFetcher creates a Fetcher. A nil client uses a client without timeout;
// callers bound requests through the context.
func NewFetcher(client *http.Client, relay string, maxSize int64, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &Fetcher{
		client:  client,
		relay:   relay,
		maxSize: maxSize,
		logger:  logger.With("system", "fetcher"),
	}
}

// Fetch downloads the image at locator. Every call re-fetches; nothing is cached.
func (f *Fetcher) Fetch(ctx context.Context, locator string) (*Image, error) {
	target := f.target(locator)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrFetchFailed, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrFetchFailed, resp.Status)
	}

	var body io.Reader = resp.Body
	if f.maxSize > 0 {
		body = io.LimitReader(resp.Body, f.maxSize+1)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrFetchFailed, err)
	}

	if f.maxSize > 0 && int64(len(data)) > f.maxSize {
		return nil, fmt.Errorf("%w: limit %s", ErrImageTooLarge, formatting.FormatBytes(f.maxSize, 0))
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrFetchFailed)
	}

	img := &Image{
		Data:        data,
		ContentType: contentType(resp.Header.Get("Content-Type")),
	}

	f.logger.DebugContext(
		ctx, "image fetched",
		"size", formatting.FormatBytes(int64(len(data)), 1),
		"content_type", img.ContentType,
	)

	return img, nil
}

func (f *Fetcher) target(locator string) string {
	if f.relay == "" {
		return locator
	}
	return f.relay + url.QueryEscape(locator)
}

// contentType strips parameters and falls back to image/jpeg when the
// server sends nothing usable.
func contentType(header string) string {
	if header == "" {
		return defaultContentType
	}
	mt, _, err := mime.ParseMediaType(header)
	if err != nil || mt == "application/octet-stream" {
		return defaultContentType
	}
	return mt
}
