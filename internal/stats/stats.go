// Package stats loads the listening statistics shown after login: the profile, two feature
// trendlines, and the top items for each term.
package stats

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodify/internal/models"
	"github.com/desertthunder/moodify/internal/services"
	"github.com/desertthunder/moodify/internal/shared"
)

const (
	// LongWindow is the trendline over the last 15 played tracks.
	LongWindow = 15
	// RecentWindow is the trendline over the last 3 played tracks. It seeds the slider targets.
	RecentWindow = 3
	// DefaultLimit is how many top items a panel shows.
	DefaultLimit = 5
)

// PanelKind identifies what a [Panel] carries.
type PanelKind int

const (
	ProfilePanel PanelKind = iota
	TrendlinePanel
	TopItemsPanel
)

func (k PanelKind) String() string {
	switch k {
	case ProfilePanel:
		return "profile"
	case TrendlinePanel:
		return "trendline"
	case TopItemsPanel:
		return "top-items"
	}
	return "unknown"
}

// Panel is the result of one request. Only the fields of its Kind are set.
type Panel struct {
	Kind PanelKind

	Profile *models.Profile

	Window   int
	Features models.AudioFeatures

	ItemKind models.ItemKind
	Term     models.Term
	Items    []models.TopItem

	Err error
}

// Name describes the panel for logs, e.g. "trendline 3" or "top tracks long".
func (p Panel) Name() string {
	switch p.Kind {
	case TrendlinePanel:
		return fmt.Sprintf("trendline %d", p.Window)
	case TopItemsPanel:
		return fmt.Sprintf("top %ss %s", p.ItemKind, p.Term)
	}
	return p.Kind.String()
}

// Targets reports the slider targets carried by the recent trendline.
func (p Panel) Targets() (models.AudioFeatures, bool) {
	if p.Kind != TrendlinePanel || p.Window != RecentWindow || p.Err != nil {
		return models.AudioFeatures{}, false
	}
	return p.Features.Sliders(), true
}

// Source is the remote API as seen by the loader. [services.UserAPI] implements it.
type Source interface {
	Profile(ctx context.Context) (*models.Profile, error)
	Trendline(ctx context.Context, n int) (*models.AudioFeatures, error)
	TopItems(ctx context.Context, kind models.ItemKind, term models.Term) ([]models.TopItem, error)
}

// Session is the part of the session store the loader needs to log a user out.
type Session interface {
	ClearUser() error
}

// Renderer displays panels. Calls are serialized by the loader.
type Renderer interface {
	Render(Panel)
}

// RendererFunc adapts a function to [Renderer].
type RendererFunc func(Panel)

func (f RendererFunc) Render(p Panel) { f(p) }

// Options configures a [Loader].
type Options struct {
	Limit      int  // top items per panel, DefaultLimit when zero
	TopArtists bool // also load top artists for every term
}

// Loader fans out the statistics requests and hands each result over as it arrives.
type Loader struct {
	source  Source
	session Session
	logger  *log.Logger
	opts    Options
}

// NewLoader creates a [Loader].
func NewLoader(source Source, session Session, logger *log.Logger, opts Options) *Loader {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	return &Loader{source: source, session: session, logger: logger, opts: opts}
}

// Stream starts every request concurrently and returns a channel that yields one [Panel] per
// request in completion order. The channel is closed when all requests are done or ctx ends.
func (l *Loader) Stream(ctx context.Context) <-chan Panel {
	out := make(chan Panel)
	var wg sync.WaitGroup

	run := func(fn func() Panel) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := fn()
			select {
			case out <- p:
			case <-ctx.Done():
			}
		}()
	}

	run(func() Panel {
		profile, err := l.source.Profile(ctx)
		return Panel{Kind: ProfilePanel, Profile: profile, Err: err}
	})

	for _, window := range []int{LongWindow, RecentWindow} {
		run(func() Panel {
			p := Panel{Kind: TrendlinePanel, Window: window}
			features, err := l.source.Trendline(ctx, window)
			if err != nil {
				p.Err = err
			} else if features != nil {
				p.Features = *features
			}
			return p
		})
	}

	kinds := []models.ItemKind{models.KindTrack}
	if l.opts.TopArtists {
		kinds = append(kinds, models.KindArtist)
	}
	for _, kind := range kinds {
		for _, term := range models.Terms {
			run(func() Panel {
				items, err := l.source.TopItems(ctx, kind, term)
				if len(items) > l.opts.Limit {
					items = items[:l.opts.Limit]
				}
				return Panel{Kind: TopItemsPanel, ItemKind: kind, Term: term, Items: items, Err: err}
			})
		}
	}

	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Resolve decides what a failed panel means.
//
// A profile failure caused by a revoked or expired authorization logs the user out and returns
// [shared.ErrAuthorizationExpired]. Any other failure is logged and nil is returned so the panel
// simply stays empty.
func (l *Loader) Resolve(p Panel) error {
	if p.Err == nil {
		return nil
	}

	if p.Kind == ProfilePanel && isAuthorizationFailure(p.Err) {
		l.logger.Warn("authorization expired, logging out", "err", p.Err)
		if err := l.session.ClearUser(); err != nil {
			l.logger.Error("failed to clear user", "err", err)
		}
		return fmt.Errorf("%w: %v", shared.ErrAuthorizationExpired, p.Err)
	}

	l.logger.Error("failed to load panel", "panel", p.Name(), "err", p.Err)
	return nil
}

// Load streams every panel to r. Failed panels are not rendered.
//
// It returns [shared.ErrAuthorizationExpired] when the profile request showed the session is no
// longer authorized.
func (l *Loader) Load(ctx context.Context, r Renderer) error {
	var expired error
	for p := range l.Stream(ctx) {
		if p.Err != nil {
			if err := l.Resolve(p); err != nil {
				expired = err
			}
			continue
		}
		r.Render(p)
	}

	if expired != nil {
		return expired
	}
	return ctx.Err()
}

func isAuthorizationFailure(err error) bool {
	return services.IsAuthorizationError(err) || services.IsAuthorizationMessage(err.Error())
}
