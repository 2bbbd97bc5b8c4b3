// Package repositories implements SQLite persistence for the client.
//
// Key Implementations:
//   - [StorageRepository] : string key/value store standing in for the browser's localStorage
//   - [RecommendationRepository] : history of submitted playlist requests
//
// Both expect a database prepared with [shared.RunMigrations].
package repositories
