// Package server provides HTTP routing, middleware, and the badge handlers.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Badge Handlers
//
// [BadgeHandler] serves the rendered artifacts:
//
//	GET /            → now-playing SVG (alias of /svg)
//	GET /svg         → now-playing SVG badge
//	GET /link        → redirect to the current or last-known track
//	GET /daylist     → daylist SVG badge (light theme)
//	GET /daylist/light
//	GET /daylist/dark
//	GET /favicon.ico → 204
//
// No caller authentication is required; every route is a read-only render.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback used once,
// from the CLI, to obtain the long-lived refresh token. The handler validates
// the state parameter (CSRF protection), exchanges the authorization code for
// tokens, and sends the result through a channel. It only processes one
// callback to prevent replay attacks.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
