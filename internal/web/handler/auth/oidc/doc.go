// Package oidc provides the "Sign in with Google" handlers.
//
// The flow:
//   - Login stores a single use state token in the session storage and
//     redirects to the provider
//   - Callback consumes the state, verifies the ID token and finds, links or
//     creates the account (new accounts get a default profile)
//   - the session cookie is set like a password sign in
//
// Routes, registered only when OIDC is enabled:
//
//	GET /auth/oidc/login    - start the flow
//	GET /auth/oidc/callback - provider redirect
//
// Failures land on the login page with a generic message.
package oidc
