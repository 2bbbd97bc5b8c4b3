package seeds

import (
	"context"
	"strings"
	"sync"

	"github.com/desertthunder/moodify/internal/models"
	"github.com/desertthunder/moodify/internal/shared"
)

// SearchClient runs a remote seed search. [services.UserAPI] implements it.
type SearchClient interface {
	Search(ctx context.Context, query string) ([]models.SeedItem, error)
}

// Results is one search outcome partitioned by kind.
//
// Visible is false for a blank query: the results panel is hidden.
type Results struct {
	Generation uint64
	Query      string
	Visible    bool
	Artists    []models.SeedItem
	Tracks     []models.SeedItem
}

// Empty reports whether the search found nothing.
func (r Results) Empty() bool {
	return len(r.Artists) == 0 && len(r.Tracks) == 0
}

// Only keeps the results of the given kind.
func (r Results) Only(kind models.ItemKind) Results {
	switch kind {
	case models.KindArtist:
		r.Tracks = nil
	case models.KindTrack:
		r.Artists = nil
	}
	return r
}

// Request is a started search, see [Searcher.Begin].
type Request struct {
	Generation uint64
	Query      string

	ctx    context.Context
	cancel context.CancelFunc
}

// Searcher issues searches where only the most recently started one may apply its results.
//
// Starting a search cancels the one in flight. A response that arrives after a newer search
// started is dropped with [shared.ErrSuperseded].
type Searcher struct {
	client SearchClient

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewSearcher creates a [Searcher].
func NewSearcher(client SearchClient) *Searcher {
	return &Searcher{client: client}
}

// Begin supersedes any in-flight search and reserves a generation for query.
//
// Callers that dispatch the request elsewhere, like a bubbletea command, call Begin
// synchronously so generations follow input order.
func (s *Searcher) Begin(ctx context.Context, query string) Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++

	req := Request{Generation: s.gen, Query: strings.TrimSpace(query)}
	if req.Query != "" {
		req.ctx, req.cancel = context.WithCancel(ctx)
		s.cancel = req.cancel
	}
	return req
}

// Run performs a request started with [Searcher.Begin].
func (s *Searcher) Run(req Request) (Results, error) {
	if req.Query == "" {
		return Results{Generation: req.Generation}, nil
	}
	defer req.cancel()

	items, err := s.client.Search(req.ctx, req.Query)

	if !s.Current(req.Generation) {
		return Results{}, shared.ErrSuperseded
	}
	if err != nil {
		return Results{}, err
	}

	artists, tracks := Partition(items)
	return Results{
		Generation: req.Generation,
		Query:      req.Query,
		Visible:    true,
		Artists:    artists,
		Tracks:     tracks,
	}, nil
}

// Search is [Searcher.Begin] followed by [Searcher.Run]. A blank query returns hidden, empty
// results without calling the remote API.
func (s *Searcher) Search(ctx context.Context, query string) (Results, error) {
	return s.Run(s.Begin(ctx, query))
}

// Clear cancels any in-flight search and invalidates its results.
func (s *Searcher) Clear() uint64 {
	return s.Begin(context.Background(), "").Generation
}

// Current reports whether generation belongs to the most recently started search.
func (s *Searcher) Current(generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return generation == s.gen
}

// Partition splits items into artists and tracks, keeping their order. Other kinds are dropped.
func Partition(items []models.SeedItem) (artists, tracks []models.SeedItem) {
	for _, it := range items {
		switch it.Kind {
		case models.KindArtist:
			artists = append(artists, it)
		case models.KindTrack:
			tracks = append(tracks, it)
		}
	}
	return artists, tracks
}
