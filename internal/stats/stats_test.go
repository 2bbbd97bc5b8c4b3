package stats

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/desertthunder/moodify/internal/models"
	"github.com/desertthunder/moodify/internal/session"
	"github.com/desertthunder/moodify/internal/shared"
	tu "github.com/desertthunder/moodify/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu    sync.Mutex
	calls []string

	profileErr error
	trendErr   map[int]error
	topErr     error
	items      int
	block      chan struct{} // when set, the profile request waits on it
}

func (f *fakeSource) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeSource) Profile(ctx context.Context) (*models.Profile, error) {
	f.record("profile")
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return &models.Profile{Name: "Ada"}, nil
}

func (f *fakeSource) Trendline(_ context.Context, n int) (*models.AudioFeatures, error) {
	f.record(fmt.Sprintf("trendline/%d", n))
	if err := f.trendErr[n]; err != nil {
		return nil, err
	}
	energy := 0.75
	if n == RecentWindow {
		energy = 0.21
	}
	return &models.AudioFeatures{Energy: energy, Valence: 0.734}, nil
}

func (f *fakeSource) TopItems(_ context.Context, kind models.ItemKind, term models.Term) ([]models.TopItem, error) {
	f.record(fmt.Sprintf("top-%ss/%s", kind, term))
	if f.topErr != nil {
		return nil, f.topErr
	}
	items := make([]models.TopItem, f.items)
	for i := range items {
		items[i] = models.TopItem{ID: fmt.Sprintf("%s-%d", term, i), Name: fmt.Sprintf("item %d", i)}
	}
	return items, nil
}

type collector struct {
	panels []Panel
}

func (c *collector) Render(p Panel) { c.panels = append(c.panels, p) }

func (c *collector) byName() map[string]Panel {
	out := map[string]Panel{}
	for _, p := range c.panels {
		out[p.Name()] = p
	}
	return out
}

func newLoader(t *testing.T, src *fakeSource, opts Options) (*Loader, *session.Store) {
	t.Helper()
	store := session.NewStore(tu.NewMemoryStorage(), nil)
	_, err := store.DeviceID()
	require.NoError(t, err)
	require.NoError(t, store.SetUserID("user-1"))
	return NewLoader(src, store, shared.NewLogger(io.Discard), opts), store
}

func TestLoader(t *testing.T) {
	ctx := context.Background()

	t.Run("Loads Every Panel", func(t *testing.T) {
		src := &fakeSource{items: 8}
		loader, _ := newLoader(t, src, Options{})

		var c collector
		require.NoError(t, loader.Load(ctx, &c))

		assert.Len(t, c.panels, 6)
		assert.ElementsMatch(t, []string{
			"profile", "trendline/15", "trendline/3",
			"top-tracks/long", "top-tracks/medium", "top-tracks/short",
		}, src.calls)

		panels := c.byName()
		assert.Equal(t, "Ada", panels["profile"].Profile.Name)
		assert.Len(t, panels["top tracks long"].Items, DefaultLimit)
		assert.InDelta(t, 0.75, panels["trendline 15"].Features.Energy, 1e-9)
	})

	t.Run("Top Artists And Custom Limit", func(t *testing.T) {
		src := &fakeSource{items: 4}
		loader, _ := newLoader(t, src, Options{Limit: 2, TopArtists: true})

		var c collector
		require.NoError(t, loader.Load(ctx, &c))

		assert.Len(t, c.panels, 9)
		panels := c.byName()
		assert.Len(t, panels["top artists short"].Items, 2)
		assert.Len(t, panels["top tracks medium"].Items, 2)
	})

	t.Run("Recent Trendline Sets Targets", func(t *testing.T) {
		loader, _ := newLoader(t, &fakeSource{}, Options{})

		var c collector
		require.NoError(t, loader.Load(ctx, &c))

		panels := c.byName()
		targets, ok := panels["trendline 3"].Targets()
		require.True(t, ok)
		assert.InDelta(t, 0.7, targets.Valence, 1e-9)
		assert.InDelta(t, 0.2, targets.Energy, 1e-9)

		_, ok = panels["trendline 15"].Targets()
		assert.False(t, ok)
	})

	t.Run("Failed Panel Stays Empty", func(t *testing.T) {
		src := &fakeSource{trendErr: map[int]error{LongWindow: shared.ErrServiceUnavailable}}
		loader, store := newLoader(t, src, Options{})

		var c collector
		require.NoError(t, loader.Load(ctx, &c))

		panels := c.byName()
		assert.NotContains(t, panels, "trendline 15")
		assert.Contains(t, panels, "trendline 3")

		_, ok, err := store.UserID()
		require.NoError(t, err)
		assert.True(t, ok, "non-auth failures keep the user")
	})

	t.Run("Expired Authorization Logs Out", func(t *testing.T) {
		src := &fakeSource{profileErr: fmt.Errorf("%w: token revoked", shared.ErrAuthorizationExpired)}
		loader, store := newLoader(t, src, Options{})

		var c collector
		err := loader.Load(ctx, &c)
		assert.ErrorIs(t, err, shared.ErrAuthorizationExpired)

		_, ok, err := store.UserID()
		require.NoError(t, err)
		assert.False(t, ok)

		device, err := store.DeviceID()
		require.NoError(t, err)
		assert.NotEmpty(t, device, "device identity survives logout")
	})

	t.Run("Authorization Message Logs Out", func(t *testing.T) {
		src := &fakeSource{profileErr: errors.New("The access token expired")}
		loader, store := newLoader(t, src, Options{})

		err := loader.Load(ctx, &collector{})
		assert.ErrorIs(t, err, shared.ErrAuthorizationExpired)

		_, ok, _ := store.UserID()
		assert.False(t, ok)
	})

	t.Run("Authorization Message On Other Panel Is Ignored", func(t *testing.T) {
		src := &fakeSource{topErr: errors.New("not authorized")}
		loader, store := newLoader(t, src, Options{})

		require.NoError(t, loader.Load(ctx, &collector{}))
		_, ok, _ := store.UserID()
		assert.True(t, ok)
	})

	t.Run("Canceled Context", func(t *testing.T) {
		src := &fakeSource{block: make(chan struct{})}
		loader, _ := newLoader(t, src, Options{})

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		err := loader.Load(cctx, &collector{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestPanelName(t *testing.T) {
	assert.Equal(t, "profile", Panel{Kind: ProfilePanel}.Name())
	assert.Equal(t, "trendline 3", Panel{Kind: TrendlinePanel, Window: 3}.Name())
	assert.Equal(t, "top tracks short", Panel{Kind: TopItemsPanel, ItemKind: models.KindTrack, Term: models.TermShort}.Name())
}
