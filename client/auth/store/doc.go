// Package store defines the credential store shared by the authentication
// service and the resilient transport.
//
// It ships with an in-memory implementation that is sufficient for a single
// CLI run, and a file-backed implementation that lets a session survive
// process restarts.
package store
