package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	olerrors "github.com/lepinkainen/bookfinder/internal/errors"
)

// maxBodySize caps how much of a response is read. Search pages and cover
// images stay well below it.
var maxBodySize int64 = 32 << 20

// fetch performs a single GET and returns the body of a 2xx response.
// Transport failures and non-2xx statuses become *errors.NetworkError.
func (c *Client) fetch(ctx context.Context, op, endpoint string) ([]byte, error) {
	return c.fetchAccept(ctx, op, endpoint, "application/json")
}

func (c *Client) fetchAccept(ctx context.Context, op, endpoint, accept string) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, olerrors.NewNetworkError(op, endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, olerrors.NewNetworkError(op, endpoint, err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.userAgent)

	slog.Debug("Open Library request", "op", op, "url", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, olerrors.NewNetworkError(op, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Debug("Open Library request failed", "op", op, "url", endpoint, "status", resp.StatusCode)
		return nil, olerrors.NewStatusError(op, endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, olerrors.NewNetworkError(op, endpoint, err)
	}
	if int64(len(body)) > maxBodySize {
		return nil, olerrors.NewNetworkError(op, endpoint, fmt.Errorf("response body exceeds %d bytes", maxBodySize))
	}
	return body, nil
}

// getJSON fetches endpoint and decodes the body into target.
func (c *Client) getJSON(ctx context.Context, op, endpoint string, target any) error {
	body, err := c.fetch(ctx, op, endpoint)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return olerrors.NewDecodeError(op, err)
	}
	return nil
}
