// Package shell implements the interactive menu around the Roble session. It
// is a thin surface: each menu choice maps to exactly one public operation
// of the authentication service or the data client.
package shell
