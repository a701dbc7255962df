// Package roble provides a Go client for the Roble backend-as-a-service.
//
// The package glues the credential store, the authentication service and the
// table CRUD client behind a single resilient HTTP transport: an expired
// access token is refreshed exactly once and the failed call replayed
// exactly once, without the caller noticing. The primary entry point is New,
// which accepts an Options structure that can be populated from CLI flags,
// environment variables or configuration files.
//
// Example:
//
//	session, _ := roble.New(&roble.Options{AuthURL: authURL, DataHost: host, Contract: contract})
//	_ = session.Auth.Login(ctx, email, password)
//	records, _ := session.Data.List(ctx)
package roble
