// Package mock provides an in-process Roble look-alike backed by httptest.
// It covers the identity and database endpoints the client exercises and
// records call counts so tests can assert refresh and replay behavior.
package mock
