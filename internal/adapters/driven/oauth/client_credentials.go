// Package oauth provides the client-credentials token exchange for the
// music catalog API.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/custodia-labs/chartmix/internal/core/domain"
	"github.com/custodia-labs/chartmix/internal/core/ports/driven"
	"github.com/custodia-labs/chartmix/internal/logger"
)

// Ensure ClientCredentialsProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*ClientCredentialsProvider)(nil)

// Default configuration values.
const (
	DefaultTimeout       = 30 * time.Second
	DefaultRefreshBuffer = time.Minute

	// fallbackLifetime is assumed when the endpoint reports no expiry.
	fallbackLifetime = time.Hour
)

// Config holds configuration for the client-credentials exchange.
type Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string

	// HTTPClient overrides the client used for the exchange.
	HTTPClient *http.Client

	// RefreshBuffer is how long before expiry a cached token is
	// considered stale (default: 1m).
	RefreshBuffer time.Duration
}

// ClientCredentialsProvider exchanges a client ID and secret for a bearer
// token (HTTP Basic, grant_type=client_credentials) and caches it until
// shortly before it expires.
type ClientCredentialsProvider struct {
	config     clientcredentials.Config
	httpClient *http.Client

	mu            sync.RWMutex
	cachedToken   string
	cacheExpiry   time.Time
	refreshBuffer time.Duration
}

// NewClientCredentialsProvider creates a token provider.
// Returns domain.ErrConfiguration if a credential or the token URL is empty.
func NewClientCredentialsProvider(cfg Config) (*ClientCredentialsProvider, error) {
	cfg.ClientID = strings.TrimSpace(cfg.ClientID)
	cfg.ClientSecret = strings.TrimSpace(cfg.ClientSecret)
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: client id and secret required", domain.ErrConfiguration)
	}
	if cfg.TokenURL == "" {
		return nil, fmt.Errorf("%w: token url required", domain.ErrConfiguration)
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	if cfg.RefreshBuffer == 0 {
		cfg.RefreshBuffer = DefaultRefreshBuffer
	}

	return &ClientCredentialsProvider{
		config: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient:    cfg.HTTPClient,
		refreshBuffer: cfg.RefreshBuffer,
	}, nil
}

// GetToken returns the cached token, exchanging credentials when the
// cache is empty or stale. Failures wrap domain.ErrToken.
func (p *ClientCredentialsProvider) GetToken(ctx context.Context) (string, error) {
	// Fast path: check cache with read lock
	p.mu.RLock()
	if p.cachedToken != "" && time.Now().Before(p.cacheExpiry) {
		token := p.cachedToken
		p.mu.RUnlock()
		return token, nil
	}
	p.mu.RUnlock()

	// Slow path: exchange under the write lock so concurrent resolvers
	// share one round trip.
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cachedToken != "" && time.Now().Before(p.cacheExpiry) {
		return p.cachedToken, nil
	}

	logger.Debug("Exchanging client credentials at %s", p.config.TokenURL)
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	tok, err := p.config.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrToken, describe(err))
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: response has no access_token", domain.ErrToken)
	}

	p.cachedToken = tok.AccessToken
	if !tok.Expiry.IsZero() {
		p.cacheExpiry = tok.Expiry.Add(-p.refreshBuffer)
	} else {
		p.cacheExpiry = time.Now().Add(fallbackLifetime)
	}
	logger.Debug("Token acquired, valid until %s", p.cacheExpiry.Format(time.RFC3339))

	return p.cachedToken, nil
}

// Invalidate clears the cached token so the next GetToken re-exchanges.
// It is a no-op when the cache no longer holds stale.
func (p *ClientCredentialsProvider) Invalidate(stale string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cachedToken != stale {
		return
	}
	p.cachedToken = ""
	p.cacheExpiry = time.Time{}
}

// describe renders exchange errors without echoing response bodies
// beyond the OAuth error code.
func describe(err error) string {
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) && rerr.Response != nil {
		if rerr.ErrorCode != "" {
			return fmt.Sprintf("status %d: %s", rerr.Response.StatusCode, rerr.ErrorCode)
		}
		return fmt.Sprintf("status %d", rerr.Response.StatusCode)
	}
	return err.Error()
}
