// Package transport provides an http.RoundTripper that attaches the bearer
// token held in the credential store and transparently recovers from a 401
// with a single refresh-and-replay. It is the only place authorization
// failures are handled; data clients stay unaware a refresh ever happened.
package transport
