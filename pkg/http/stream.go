package http

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-faster/errors"
)

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code   int
	Status string
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error: %s (%s)", e.Status, e.URL)
}

// StreamRequest issues a GET and hands back the open body. The caller must close it.
func StreamRequest(ctx context.Context, client *http.Client, url string, headers map[string]string) (io.ReadCloser, int64, string, error) {
	if client == nil {
		client = GetScrapeClient()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, "", errors.Wrap(err, "create request")
	}

	req.Header.Set("User-Agent", DefaultUserAgent)
	for k, v := range headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, "", errors.Wrap(err, "request")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, 0, "", &StatusError{Code: resp.StatusCode, Status: resp.Status, URL: url}
	}

	return resp.Body, resp.ContentLength, resp.Header.Get("Content-Type"), nil
}

// ReadPage fetches url and returns at most limit bytes of its body.
func ReadPage(ctx context.Context, client *http.Client, url string, headers map[string]string, limit int64) ([]byte, error) {
	body, _, _, err := StreamRequest(ctx, client, url, headers)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, limit))
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	return data, nil
}
