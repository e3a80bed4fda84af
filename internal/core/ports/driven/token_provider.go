package driven

import "context"

// TokenProvider provides bearer tokens for catalog API calls.
//
// A token is acquired once per run and reused until it expires. Catalog
// adapters call Invalidate when the API rejects a token mid-run so the
// next GetToken performs a fresh exchange.
type TokenProvider interface {
	// GetToken returns a valid access token, exchanging credentials if
	// no cached token is usable. Failures wrap domain.ErrToken.
	GetToken(ctx context.Context) (string, error)

	// Invalidate discards the cached token if it is still stale. A token
	// already replaced by another caller's exchange is kept.
	Invalidate(stale string)
}
