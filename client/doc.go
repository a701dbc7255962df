// Package client issues CRUD calls for a single Roble table. Every call goes
// through the resilient transport, so an expired access token is refreshed
// and the call replayed before any failure reaches this layer.
package client
