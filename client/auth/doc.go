// Package auth implements the Roble identity flows: login, signup, logout and
// token refresh. The service is the only mutator of the credential store; the
// resilient transport consumes it through the Refresher contract.
package auth
