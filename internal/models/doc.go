// Package models defines the data exchanged with the remote recommendation API and held by the client.
//
// Value types:
//   - [SeedItem] : an artist or track usable as a recommendation seed, identified by (kind, id)
//   - [AudioFeatures] : the seven normalized audio descriptors shown on the chart and the sliders
//   - [Profile], [TopItem] : listening statistics panels
//   - [RecommendationRequest] : the body of a playlist creation call
//
// Every remote response arrives wrapped in an [Envelope].
package models
