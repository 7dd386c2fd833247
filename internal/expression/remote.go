package expression

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"
)

const defaultRetryAttempts = 2

// RemoteSource downloads a catalog document over HTTP.
type RemoteSource struct {
	httpClient       *resty.Client
	url              string
	maxRetryAttempts uint
	cache            *FileCache
}

type RemoteSourceOption func(*RemoteSource)

// WithFileCache stores every fetched document in cache and falls back to it
// when the source cannot be fetched.
func WithFileCache(cache *FileCache) RemoteSourceOption {
	return func(source *RemoteSource) {
		source.cache = cache
	}
}

func NewRemoteSource(url string, retryAttempts uint, opts ...RemoteSourceOption) *RemoteSource {
	client := resty.New()
	client.SetHeader("Accept", "application/yaml, application/json")
	client.SetTimeout(30 * time.Second)
	return newRemoteSource(client, url, retryAttempts, opts...)
}

func newRemoteSource(client *resty.Client, url string, retryAttempts uint, opts ...RemoteSourceOption) *RemoteSource {
	if retryAttempts == 0 {
		retryAttempts = defaultRetryAttempts
	}
	source := &RemoteSource{
		httpClient:       client,
		url:              url,
		maxRetryAttempts: retryAttempts,
	}
	for _, opt := range opts {
		opt(source)
	}
	return source
}

func (source *RemoteSource) Close() error {
	return source.httpClient.Close()
}

// Fetch retries transport failures and 5xx/429 responses. A malformed
// catalog is not retried.
func (source *RemoteSource) Fetch(ctx context.Context) (*Catalog, error) {
	catalog, body, err := source.fetchCatalog(ctx)
	if err != nil {
		if source.cache == nil {
			return nil, err
		}
		cached, readErr := source.cache.read(source.url)
		if readErr != nil {
			return nil, err
		}
		slog.Default().Warn("using the cached expressions",
			slog.String("url", source.url),
			slog.Any("error", err),
		)
		return Parse(bytes.NewReader(cached))
	}

	if source.cache != nil {
		if err := source.cache.store(source.url, []byte(body)); err != nil {
			slog.Default().Warn("failed to cache expressions", slog.String("url", source.url), slog.Any("error", err))
		}
	}
	return catalog, nil
}

func (source *RemoteSource) fetchCatalog(ctx context.Context) (*Catalog, string, error) {
	var (
		catalog *Catalog
		raw     string
	)
	if err := retry.Do(
		func() error {
			body, err := source.fetch(ctx)
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			parsed, err := Parse(strings.NewReader(body))
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("Parse(%s) > %w", source.url, err))
			}
			catalog = parsed
			raw = body
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(source.maxRetryAttempts+1),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	); err != nil {
		return nil, "", err
	}
	return catalog, raw, nil
}

func (source *RemoteSource) fetch(ctx context.Context) (string, error) {
	response, err := source.httpClient.R().
		SetContext(ctx).
		Get(source.url)
	if err != nil {
		return "", fmt.Errorf("httpClient.Get(%s) > %w", source.url, err)
	}
	if response.IsError() {
		return "", fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}
	return response.String(), nil
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return true
	}
	return strings.Contains(errStr, "response error 5") || strings.Contains(errStr, "response error 429")
}
