// Copyright (c) 2026 Darkshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package client is a typed HTTP client for the catalog API.

Query methods return the decoded payload or an [*apperr.AppError] rebuilt from
the error envelope. Mutation methods always return the structured result the
server sent, success or not; an error is returned only when no result could be
obtained (transport failure, undecodable body).

[Client] satisfies [shadow.Mutator], so a shell can drive optimistic toggles
against a remote server.
*/
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/darkshelf/internal/catalog"
	"github.com/taibuivan/darkshelf/internal/platform/apperr"
)

const defaultTimeout = 10 * time.Second

// Client talks to a Darkshelf API server.
type Client struct {
	base *url.URL
	http *http.Client
}

// Option customises a [Client].
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) { client.http = httpClient }
}

// New returns a client for the server at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("client: invalid base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("client: base URL %q needs a scheme and host", baseURL)
	}

	client := &Client{
		base: base,
		http: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// # Queries

// LoadPage fetches every projection in one request.
func (client *Client) LoadPage(context context.Context) (*catalog.Page, error) {
	page := &catalog.Page{}
	if err := client.query(context, "/page", page); err != nil {
		return nil, err
	}
	return page, nil
}

// ListBooks fetches the full joined book list.
func (client *Client) ListBooks(context context.Context) ([]*catalog.BookView, error) {
	var books []*catalog.BookView
	if err := client.query(context, "/books", &books); err != nil {
		return nil, err
	}
	return books, nil
}

// GetBook fetches one book with its author credits.
func (client *Client) GetBook(context context.Context, id int) (*catalog.BookView, error) {
	book := &catalog.BookView{}
	if err := client.query(context, "/books/"+strconv.Itoa(id), book); err != nil {
		return nil, err
	}
	return book, nil
}

// CompletionByProductLine fetches per-line statistics.
func (client *Client) CompletionByProductLine(context context.Context) ([]*catalog.ProductLineCompletion, error) {
	var stats []*catalog.ProductLineCompletion
	if err := client.query(context, "/stats/product-lines", &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// CompletionByWorld fetches per-world statistics.
func (client *Client) CompletionByWorld(context context.Context) ([]*catalog.WorldCompletion, error) {
	var stats []*catalog.WorldCompletion
	if err := client.query(context, "/stats/worlds", &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// OverallCompletion fetches the global statistics.
func (client *Client) OverallCompletion(context context.Context) (catalog.CompletionStats, error) {
	var stats catalog.CompletionStats
	err := client.query(context, "/stats/overall", &stats)
	return stats, err
}

// Version fetches the staleness counter.
func (client *Client) Version(context context.Context) (int64, error) {
	var version catalog.VersionResponse
	if err := client.query(context, "/version", &version); err != nil {
		return 0, err
	}
	return version.Version, nil
}

// # Mutations

// ToggleCollected flips one book. It implements shadow.Mutator.
func (client *Client) ToggleCollected(context context.Context, bookID int) (catalog.ToggleResult, error) {
	var result catalog.ToggleResult
	err := client.mutate(context, http.MethodPost, "/books/"+strconv.Itoa(bookID)+"/toggle", nil, &result)
	return result, err
}

// BulkSetCollected sets the collected flag of several books.
func (client *Client) BulkSetCollected(context context.Context, bookIDs []int, value bool) (catalog.BulkResult, error) {
	var result catalog.BulkResult
	body := catalog.BulkRequest{BookIDs: bookIDs, Collected: &value}
	err := client.mutate(context, http.MethodPost, "/books/collected", body, &result)
	return result, err
}

// UpdateBook applies a partial update.
func (client *Client) UpdateBook(context context.Context, bookID int, patch catalog.BookPatch) (catalog.UpdateResult, error) {
	var result catalog.UpdateResult
	err := client.mutate(context, http.MethodPatch, "/books/"+strconv.Itoa(bookID), patch, &result)
	return result, err
}

// # Transport

type envelope struct {
	Data json.RawMessage `json:"data"`
}

type errorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details"`
}

// query performs a GET and unwraps the success envelope into target.
func (client *Client) query(ctx context.Context, path string, target any) error {
	response, err := client.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return fmt.Errorf("client: read %s: %w", path, err)
	}

	if response.StatusCode >= http.StatusBadRequest {
		return decodeError(response.StatusCode, payload)
	}

	var wrapped envelope
	if err := json.Unmarshal(payload, &wrapped); err != nil {
		return fmt.Errorf("client: decode %s: %w", path, err)
	}
	if err := json.Unmarshal(wrapped.Data, target); err != nil {
		return fmt.Errorf("client: decode %s data: %w", path, err)
	}

	return nil
}

// mutate sends body and decodes the structured result, whatever the status.
func (client *Client) mutate(ctx context.Context, method, path string, body, target any) error {
	response, err := client.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		return fmt.Errorf("client: decode %s result (status %d): %w", path, response.StatusCode, err)
	}

	return nil
}

func (client *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("client: encode %s: %w", path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.endpoint(path), reader)
	if err != nil {
		return nil, fmt.Errorf("client: build %s: %w", path, err)
	}
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := client.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", method, path, err)
	}

	return response, nil
}

func (client *Client) endpoint(path string) string {
	return client.base.String() + "/api/v1/catalog" + path
}

// decodeError rebuilds an [apperr.AppError] from an error envelope.
func decodeError(status int, payload []byte) error {
	var wrapped errorEnvelope
	if err := json.Unmarshal(payload, &wrapped); err != nil || wrapped.Code == "" {
		return &apperr.AppError{
			Code:       apperr.CodeInternal,
			Message:    fmt.Sprintf("unexpected status %d", status),
			HTTPStatus: status,
		}
	}

	return &apperr.AppError{
		Code:       wrapped.Code,
		Message:    wrapped.Error,
		HTTPStatus: status,
		Details:    wrapped.Details,
	}
}
