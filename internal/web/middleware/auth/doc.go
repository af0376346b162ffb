// Package auth provides the session middleware of the web application.
//
// Middleware loads the session cookie once per request and stores the
// auth.Session in fiber.Locals, both for handlers (auth.SessionFrom) and for
// the templates (CurrentUser). RequireSession guards the signed in routes:
//
//	app.Use(authmiddleware.Middleware)
//	app.Get("/dashboard", authmiddleware.RequireSession, dashboard.Get)
//
// Services never read the locals themselves, handlers pass the session
// explicitly.
package auth
