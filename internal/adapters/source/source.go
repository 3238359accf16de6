// Package source obtains the raw name archive, either over HTTP or from disk.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/okian/babynames/pkg/logger"
)

// DefaultUserAgent is sent when none is configured. The SSA site rejects
// requests without one.
const DefaultUserAgent = "babynames-dashboard/1.0"

// Source returns the archive bytes. Implementations make a single attempt.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	Location() string
}

// Option configures an HTTPSource.
type Option func(*HTTPSource)

// WithTimeout bounds the whole request. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(s *HTTPSource) {
		if d > 0 {
			s.client.Timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *HTTPSource) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the client; its timeout is kept as is.
func WithHTTPClient(c *http.Client) Option {
	return func(s *HTTPSource) {
		if c != nil {
			s.client = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *HTTPSource) {
		if l != nil {
			s.log = l
		}
	}
}

// HTTPSource downloads the archive with one plain GET.
type HTTPSource struct {
	url       string
	userAgent string
	client    *http.Client
	log       logger.Logger
}

// NewHTTPSource builds a source for url.
func NewHTTPSource(url string, opts ...Option) *HTTPSource {
	s := &HTTPSource{
		url:       url,
		userAgent: DefaultUserAgent,
		client:    &http.Client{},
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the URL.
func (s *HTTPSource) Location() string { return s.url }

// Fetch performs the GET. Transport errors and non-2xx statuses wrap ErrFetch.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrFetch, err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	s.log.Debug(ctx, "fetching archive", logger.String("url", s.url))
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d from %s", ErrFetch, resp.StatusCode, s.url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrFetch, err)
	}
	return body, nil
}

// FileSource reads the archive from a local path.
type FileSource struct {
	path string
}

// NewFileSource builds a source for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Location returns the path.
func (s *FileSource) Location() string { return s.path }

// Fetch reads the whole file.
func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return data, nil
}

// New returns a FileSource when path is set, otherwise an HTTPSource for url.
func New(url, path string, opts ...Option) Source {
	if path != "" {
		return NewFileSource(path)
	}
	return NewHTTPSource(url, opts...)
}
