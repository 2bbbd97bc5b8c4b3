// Package server provides HTTP routing, middleware, and the two HTTP surfaces of moodify.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Static Site
//
// [StaticSite] is the web client. GET /login renders the login page with the provider authorization URL,
// GET /callback renders the landing page, and every other path is served from the asset root
// (embedded by default, a directory when server.static_dir is set).
//
// # Login Callback
//
// [CallbackHandler] backs `moodify login`. It validates the state parameter, hands the code to a
// [CompleteFunc], and sends the outcome once through a channel. It only processes one callback.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
