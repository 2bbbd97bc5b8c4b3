// Package services implements the HTTP clients of the recommendation client.
//
// # Remote API
//
// [APIService] performs raw requests and decodes the {success, data, message} envelope
// every endpoint returns. Requests are throttled by a token bucket when a rate is configured.
//
// [MoodifyService] maps endpoints to typed calls:
//   - GET /authenticate?udid&code : code exchange, returns the user id
//   - GET /user/{udid}/profile/ : profile
//   - GET /user/{udid}/trendline/{n} : average audio features of the last n tracks
//   - GET /user/{udid}/top-{artists,tracks}/{term}_term : top items
//   - GET /user/{udid}/search?query : seed search
//   - GET /user/{udid}/default-artists : preselected seeds
//   - POST /user/{udid}/recommendation : playlist creation
//
// All per-user calls carry userId as a query parameter.
//
// # Spotify Authorization
//
// [SpotifyAuth] builds the authorize URL with [oauth2.Config.AuthCodeURL]. The client only
// ever sees the authorization code; the remote API holds the secret and does the exchange.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAPIRequest] : network failure, non-2xx status, or success=false
//   - [shared.ErrAuthFailed] : code exchange rejected
//   - [shared.ErrAuthorizationExpired] : the remote reports an authorization problem
package services
