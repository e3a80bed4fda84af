package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/chartmix/internal/core/domain"
	"github.com/custodia-labs/chartmix/internal/core/ports/driven"
	"github.com/custodia-labs/chartmix/internal/logger"
)

// Ensure Client implements the Catalog interface.
var _ driven.Catalog = (*Client)(nil)

// Default client settings.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultRetryBackoff = 500 * time.Millisecond

	// maxRetryAfter caps how long a single 429 may stall the run.
	maxRetryAfter = 30 * time.Second

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 4 << 10
)

// Config holds catalog client configuration.
type Config struct {
	// BaseURL is the API root, e.g. https://api.spotify.com.
	BaseURL string

	// RequestsPerSecond throttles all requests made by the client.
	RequestsPerSecond float64

	// HTTPClient overrides the client used for requests.
	HTTPClient *http.Client

	// RetryBackoff is the pause before the single retry (default: 500ms).
	RetryBackoff time.Duration
}

// Client talks to the catalog search and audio-features endpoints.
type Client struct {
	baseURL    *url.URL
	tokens     driven.TokenProvider
	httpClient *http.Client
	limiter    *RateLimiter
	backoff    time.Duration
}

// NewClient creates a catalog client.
// Returns domain.ErrConfiguration when the base URL is unusable.
func NewClient(tokens driven.TokenProvider, cfg Config) (*Client, error) {
	if tokens == nil {
		return nil, fmt.Errorf("%w: token provider required", domain.ErrConfiguration)
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: invalid catalog api url %q", domain.ErrConfiguration, cfg.BaseURL)
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = DefaultRetryBackoff
	}

	return &Client{
		baseURL:    base,
		tokens:     tokens,
		httpClient: cfg.HTTPClient,
		limiter:    NewRateLimiter(cfg.RequestsPerSecond, DefaultBurstSize),
		backoff:    cfg.RetryBackoff,
	}, nil
}

type searchResponse struct {
	Tracks struct {
		Items []struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Artists []struct {
				Name string `json:"name"`
			} `json:"artists"`
		} `json:"items"`
	} `json:"tracks"`
}

type featuresResponse struct {
	Danceability *float64 `json:"danceability"`
	Energy       *float64 `json:"energy"`
	Tempo        *float64 `json:"tempo"`
	Valence      *float64 `json:"valence"`
	Acousticness *float64 `json:"acousticness"`
	Loudness     *float64 `json:"loudness"`
	Key          *int     `json:"key"`
	Mode         *int     `json:"mode"`
}

// SearchTrack returns the top track match for query.
func (c *Client) SearchTrack(ctx context.Context, query string) (*domain.Track, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "track")
	params.Set("limit", "1")

	var resp searchResponse
	if err := c.get(ctx, "/v1/search", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Tracks.Items) == 0 {
		return nil, fmt.Errorf("%w: no track matches %q", domain.ErrNotFound, query)
	}

	item := resp.Tracks.Items[0]
	if item.ID == "" {
		return nil, &domain.FieldError{Field: "tracks.items[0].id", Reason: "missing"}
	}
	track := &domain.Track{ID: item.ID, Name: item.Name}
	if len(item.Artists) > 0 {
		track.Artist = item.Artists[0].Name
	}
	return track, nil
}

// AudioFeatures fetches the feature vector of a track.
func (c *Client) AudioFeatures(ctx context.Context, trackID string) (*domain.AudioFeatures, error) {
	if trackID == "" {
		return nil, fmt.Errorf("%w: empty track id", domain.ErrInvalidInput)
	}

	var resp featuresResponse
	err := c.get(ctx, "/v1/audio-features/"+url.PathEscape(trackID), nil, &resp)
	if IsNotFound(err) {
		return nil, fmt.Errorf("%w: no audio features for track %s: %w", domain.ErrNotFound, trackID, err)
	}
	if err != nil {
		return nil, err
	}

	switch {
	case resp.Danceability == nil:
		return nil, &domain.FieldError{Field: "danceability", Reason: "missing"}
	case resp.Tempo == nil:
		return nil, &domain.FieldError{Field: "tempo", Reason: "missing"}
	case resp.Energy == nil:
		return nil, &domain.FieldError{Field: "energy", Reason: "missing"}
	}

	return &domain.AudioFeatures{
		Danceability: *resp.Danceability,
		Tempo:        *resp.Tempo,
		Energy:       *resp.Energy,
		Valence:      resp.Valence,
		Acousticness: resp.Acousticness,
		Loudness:     resp.Loudness,
		Key:          resp.Key,
		Mode:         resp.Mode,
	}, nil
}

// get performs an authorised GET and decodes the JSON body into out.
// A 401 re-exchanges the token and replays once; transport errors, 5xx
// and 429 get one retry after the backoff.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL.JoinPath(path)
	if params != nil {
		u.RawQuery = params.Encode()
	}

	reauthed, retried := false, false
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		token, err := c.tokens.GetToken(ctx)
		if err != nil {
			return err
		}

		resp, err := c.do(ctx, u.String(), token)
		if err != nil {
			if ctx.Err() != nil || retried {
				return fmt.Errorf("spotify: GET %s: %w", path, err)
			}
			retried = true
			logger.Debug("Retrying %s after transport error: %v", path, err)
			if err := c.sleep(ctx); err != nil {
				return err
			}
			continue
		}

		err = decode(resp, path, out)
		switch {
		case IsUnauthorized(err) && !reauthed:
			reauthed = true
			logger.Debug("Token rejected on %s, re-exchanging", path)
			c.tokens.Invalidate(token)
			continue

		case retryable(err) && !retried:
			if IsRateLimited(err) {
				var apiErr *APIError
				errors.As(err, &apiErr)
				c.limiter.RecordRateLimitError(apiErr.RetryAfter)
			}
			retried = true
			logger.Debug("Retrying %s after %v", path, err)
			if err := c.sleep(ctx); err != nil {
				return err
			}
			continue
		}

		return err
	}
}

func (c *Client) do(ctx context.Context, rawURL, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	return c.httpClient.Do(req)
}

func (c *Client) sleep(ctx context.Context) error {
	timer := time.NewTimer(c.backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func decode(resp *http.Response, path string, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
			Path:       path,
			RetryAfter: retryAfter(resp.Header.Get("Retry-After")),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty response from %s", domain.ErrInvalidInput, path)
		}
		return fmt.Errorf("%w: decode %s: %w", domain.ErrInvalidInput, path, err)
	}
	return nil
}

// errorMessage extracts {"error":{"message":...}} from an error body.
func errorMessage(body io.Reader) string {
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil {
		return ""
	}
	if json.Unmarshal(data, &payload) == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	return strings.TrimSpace(string(data))
}

func retryAfter(header string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || secs <= 0 {
		return 0
	}
	d := time.Duration(secs) * time.Second
	if d > maxRetryAfter {
		d = maxRetryAfter
	}
	return d
}
