package testing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// RemoteAPI is a fake remote recommendation API backed by [httptest.Server].
//
// Routes are keyed by "METHOD /path" as accepted by [http.ServeMux].
type RemoteAPI struct {
	*httptest.Server

	mu   sync.Mutex
	hits map[string]int
}

// NewRemoteAPI starts a fake API serving routes and closes it when the test ends.
func NewRemoteAPI(t *testing.T, routes map[string]http.HandlerFunc) *RemoteAPI {
	t.Helper()

	r := &RemoteAPI{hits: map[string]int{}}
	mux := http.NewServeMux()
	for pattern, h := range routes {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, req *http.Request) {
			r.mu.Lock()
			r.hits[pattern]++
			r.mu.Unlock()
			h(w, req)
		})
	}

	r.Server = httptest.NewServer(mux)
	t.Cleanup(r.Close)
	return r
}

// Hits reports how many requests matched pattern.
func (r *RemoteAPI) Hits(pattern string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hits[pattern]
}

// WriteData writes a successful envelope around data.
func WriteData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
}

// WriteFailure writes a success=false envelope with message.
func WriteFailure(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
}

// Data returns a handler that always answers with data.
func Data(data any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) { WriteData(w, data) }
}

// Failure returns a handler that always answers with a failure envelope.
func Failure(message string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) { WriteFailure(w, message) }
}
