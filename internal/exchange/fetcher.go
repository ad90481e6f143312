package exchange

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/tartampluch/go-contacts/internal/config"
)

// VCardFetcher retrieves a vCard stream from a remote source. The import
// service depends on this interface so tests can substitute a fake.
type VCardFetcher interface {
	Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error)
}

// HTTPFetcher downloads vCard feeds over HTTP(S).
type HTTPFetcher struct {
	Client *http.Client
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{Timeout: config.HTTPTimeout},
	}
}

// Fetch downloads the contact feed at targetURL. Only http and https are
// accepted, credentials go out as basic auth when present, and the returned
// body is capped at MaxVCardResponseSize. Query parameters are stripped from
// the URL before logging since share links often carry tokens there.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL, user, pass string) (io.ReadCloser, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, u.Scheme+"://"+u.Host+u.Path),
	)
	log.Debug("Downloading contact feed")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	if user != "" || pass != "" {
		req.SetBasicAuth(user, pass)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error during fetch: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.Warn("Server returned error status",
			slog.Int(config.LogKeyStatus, resp.StatusCode),
		)
		return nil, fmt.Errorf("server returned unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	if resp.ContentLength > config.MaxVCardResponseSize {
		_ = resp.Body.Close()
		log.Warn("Response exceeds contact feed size limit",
			slog.Int64("content_length", resp.ContentLength),
		)
		return nil, fmt.Errorf("response too large for a contact feed: %d bytes", resp.ContentLength)
	}

	log.Info("Contact feed downloading",
		slog.Int64("content_length", resp.ContentLength),
	)

	return &cappedBody{
		Reader: io.LimitReader(resp.Body, config.MaxVCardResponseSize),
		Closer: resp.Body,
	}, nil
}

// cappedBody reads through the size-limited reader while Close still reaches
// the underlying response body.
type cappedBody struct {
	io.Reader
	io.Closer
}
