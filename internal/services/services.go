// package services implements clients for the HTTP APIs the recommendation client talks to
//
// The remote recommendation API (via [APIService]) and Spotify's authorization endpoint.
package services
