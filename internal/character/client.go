// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package character

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/rickmorty/internal/platform/constants"
	"github.com/taibuivan/rickmorty/pkg/slice"
)

// DefaultBaseURL is the public Rick and Morty API root.
const DefaultBaseURL = "https://rickandmortyapi.com/api"

// maxErrorBody bounds how much of an error response is read for diagnostics.
const maxErrorBody = 4 << 10

// # Upstream Client

// Client is the leaf [Source]: a thin HTTP client for the character API.
//
// # Classification
//
//   - 4xx responses become [KindClient].
//   - Any other non-2xx response becomes [KindServer].
//   - Transport, rate-limiter and decoding failures become [KindData].
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient constructs a [Client].
//
// # Parameters
//   - baseURL: API root without trailing slash (see [DefaultBaseURL]).
//   - httpClient: Underlying client; its Timeout bounds every call.
//   - limiter: Shared outbound limiter. Nil disables limiting.
//   - logger: Structured logger for upstream events.
func NewClient(baseURL string, httpClient *http.Client, limiter *rate.Limiter, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.DefaultUpstreamTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger,
	}
}

/*
FetchPage retrieves one page of characters.

Parameters:
  - ctx: context.Context
  - page: int (1-based)

Returns:
  - Page: Characters in API order plus pagination info
  - error: *FetchError
*/
func (client *Client) FetchPage(ctx context.Context, page int) (Page, error) {
	const op = "fetch_page"

	if page < 1 {
		return Page{}, clientError(op, 0, fmt.Errorf("invalid page %d", page))
	}

	var body pageResponse
	endpoint := client.baseURL + "/character/?page=" + strconv.Itoa(page)
	if err := client.get(ctx, op, endpoint, &body); err != nil {
		return Page{}, err
	}

	return Page{
		Number:     page,
		Characters: slice.Map(body.Results, characterResponse.toDomain),
		HasNext:    body.Info.Next != nil && *body.Info.Next != "",
		TotalPages: body.Info.Pages,
		TotalCount: body.Info.Count,
	}, nil
}

/*
FetchCharacter retrieves a single character by its numeric ID.

Returns:
  - Character: The domain value
  - error: *FetchError (a 404 reports NotFound)
*/
func (client *Client) FetchCharacter(ctx context.Context, id int) (Character, error) {
	const op = "fetch_character"

	if id < 1 {
		return Character{}, clientError(op, 0, fmt.Errorf("invalid id %d", id))
	}

	var body characterResponse
	endpoint := client.baseURL + "/character/" + strconv.Itoa(id)
	if err := client.get(ctx, op, endpoint, &body); err != nil {
		return Character{}, err
	}

	return body.toDomain(), nil
}

// get performs a rate-limited GET and decodes a 2xx JSON body into target.
func (client *Client) get(ctx context.Context, op, endpoint string, target any) error {
	if client.limiter != nil {
		if err := client.limiter.Wait(ctx); err != nil {
			return dataError(op, fmt.Errorf("rate limiter: %w", err))
		}
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return dataError(op, err)
	}
	request.Header.Set("Accept", "application/json")

	startTime := time.Now()
	response, err := client.httpClient.Do(request)
	if err != nil {
		client.logger.WarnContext(ctx, "upstream_request_failed",
			slog.String("op", op),
			slog.String("url", endpoint),
			slog.Any("error", err),
		)
		return dataError(op, err)
	}
	defer response.Body.Close()

	client.logger.DebugContext(ctx, "upstream_request_finished",
		slog.String("op", op),
		slog.String("url", endpoint),
		slog.Int("status", response.StatusCode),
		slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
	)

	switch {
	case response.StatusCode >= 200 && response.StatusCode < 300:
		if err := json.NewDecoder(response.Body).Decode(target); err != nil {
			return dataError(op, fmt.Errorf("decode response: %w", err))
		}
		return nil
	case response.StatusCode >= 400 && response.StatusCode < 500:
		return clientError(op, response.StatusCode, readUpstreamError(response.Body))
	default:
		return serverError(op, response.StatusCode, readUpstreamError(response.Body))
	}
}

// readUpstreamError extracts the upstream {"error": "..."} message if present.
func readUpstreamError(body io.Reader) error {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return nil
	}

	var payload errorResponse
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return errors.New(payload.Error)
	}
	return errors.New(strings.TrimSpace(string(raw)))
}
