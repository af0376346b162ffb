// Package auth signs studio accounts in and carries the resulting identity through a request.
//
// Two sign in methods exist:
//   - LocalProvider checks email and password against the users table (Argon2id hashes).
//   - OIDCProvider signs users in with an OpenID Connect provider such as Google.
//
// Both end in a Session, the explicit identity handed to every service call:
//
//	sess, ok := auth.SessionFrom(c)
//	if !ok {
//	    return fiber.ErrUnauthorized
//	}
//	form, err := settingsService.Load(c.UserContext(), sess)
//
// The session middleware in internal/web/middleware/auth is the only place that reads the
// session cookie and stores the Session in the request locals.
package auth
