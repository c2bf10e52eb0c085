// Package fetcher issues the single outbound GET for a product page.
package fetcher

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/maltedev/listing-extractor/internal/models"
	"golang.org/x/net/html/charset"
)

// Fetcher retrieves a product page body.
type Fetcher interface {
	Fetch(ctx context.Context, targetURL string, site models.SiteDescriptor) ([]byte, error)
}

type Options struct {
	// Timeout bounds the whole request, including reading the body. It must stay
	// below the caller's execution ceiling.
	Timeout      time.Duration
	MaxBodyBytes int64
	UserAgents   []string
}

func DefaultOptions() *Options {
	return &Options{
		Timeout:      8 * time.Second,
		MaxBodyBytes: 5 << 20,
		UserAgents:   defaultUserAgents(),
	}
}

// FetchError carries the request URL and, for HTTP failures, the status code.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type HTTPFetcher struct {
	opts   *Options
	logger *slog.Logger
}

func New(opts *Options, logger *slog.Logger) *HTTPFetcher {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	if len(opts.UserAgents) == 0 {
		opts.UserAgents = defaultUserAgents()
	}

	return &HTTPFetcher{
		opts:   opts,
		logger: logger.With("component", "fetcher"),
	}
}

// newClient builds a client for one call so no connection outlives it.
func (f *HTTPFetcher) newClient() *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: f.opts.Timeout,
		}).DialContext,
		TLSHandshakeTimeout: f.opts.Timeout,
		DisableKeepAlives:   true,
		// Content-Encoding is handled in decompressReader, brotli included.
		DisableCompression: true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   f.opts.Timeout,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL string, site models.SiteDescriptor) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, &FetchError{URL: targetURL, Err: fmt.Errorf("%w: failed to create request: %v", models.ErrNetworkFailure, err)}
	}
	req.Header = BuildHeaders(site, f.opts.UserAgents)

	client := f.newClient()
	defer client.CloseIdleConnections()

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		f.logger.Warn("request failed", "url", targetURL, "error", err, "duration", time.Since(start))
		return nil, &FetchError{URL: targetURL, Err: fmt.Errorf("%w: %v", models.ErrNetworkFailure, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return nil, &FetchError{
			URL:        targetURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: HTTP %d %s", models.ErrUpstreamStatus, resp.StatusCode, http.StatusText(resp.StatusCode)),
		}
	}

	body, err := f.readBody(resp)
	if err != nil {
		return nil, &FetchError{URL: targetURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %v", models.ErrNetworkFailure, err)}
	}

	f.logger.Debug("fetch complete",
		"url", targetURL,
		"status", resp.StatusCode,
		"size", len(body),
		"duration", time.Since(start),
	)

	return body, nil
}

func (f *HTTPFetcher) readBody(resp *http.Response) ([]byte, error) {
	reader, err := decompressReader(resp.Header.Get("Content-Encoding"), resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}
	if f.opts.MaxBodyBytes > 0 {
		reader = io.LimitReader(reader, f.opts.MaxBodyBytes)
	}

	reader, err = charset.NewReader(reader, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode charset: %w", err)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return body, nil
}

func decompressReader(encoding string, reader io.Reader) (io.Reader, error) {
	switch encoding {
	case "gzip":
		return gzip.NewReader(reader)
	case "deflate":
		return deflateReader(reader)
	case "br":
		return brotli.NewReader(reader), nil
	default:
		return reader, nil
	}
}

// deflateReader decodes the zlib-wrapped stream HTTP calls "deflate". Some
// servers send a raw DEFLATE stream instead, so that is accepted too.
func deflateReader(reader io.Reader) (io.Reader, error) {
	buffered := bufio.NewReader(reader)
	header, err := buffered.Peek(2)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if len(header) == 2 && isZlibHeader(header[0], header[1]) {
		return zlib.NewReader(buffered)
	}
	return flate.NewReader(buffered), nil
}

func isZlibHeader(cmf, flg byte) bool {
	return cmf&0x0f == 8 && (uint16(cmf)<<8|uint16(flg))%31 == 0
}
