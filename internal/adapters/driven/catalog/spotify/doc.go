// Package spotify implements the catalog port against the Spotify Web API.
//
// Two endpoints are used: track search (top match only) and the audio
// features of a track. Every request carries a bearer token from a
// driven.TokenProvider, waits on a shared rate limiter, and is retried once
// on transport errors, 5xx and 429. A 401 invalidates the cached token and
// replays the request once with a fresh one.
package spotify
