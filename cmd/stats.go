package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/moodify/internal/formatter"
	"github.com/desertthunder/moodify/internal/models"
	"github.com/desertthunder/moodify/internal/stats"
	"github.com/urfave/cli/v3"
)

// statsDump is the --json shape of the stats command.
type statsDump struct {
	Profile    *models.Profile                 `json:"profile,omitempty"`
	Trendlines map[string]models.AudioFeatures `json:"trendlines"`
	TopItems   map[string][]models.TopItem     `json:"topItems"`
}

func (d *statsDump) Render(p stats.Panel) {
	switch p.Kind {
	case stats.ProfilePanel:
		d.Profile = p.Profile
	case stats.TrendlinePanel:
		d.Trendlines[strconv.Itoa(p.Window)] = p.Features
	case stats.TopItemsPanel:
		d.TopItems[fmt.Sprintf("%ss/%s", p.ItemKind, p.Term)] = p.Items
	}
}

// Stats loads the profile, trendlines and top items concurrently and prints each as it arrives.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	u, err := r.user()
	if err != nil {
		return err
	}

	loader := stats.NewLoader(u.api, u.store, r.logger, stats.Options{
		Limit:      cmd.Int("limit"),
		TopArtists: cmd.Bool("artists"),
	})

	if cmd.Bool("json") {
		dump := &statsDump{
			Trendlines: map[string]models.AudioFeatures{},
			TopItems:   map[string][]models.TopItem{},
		}
		if err := loader.Load(ctx, dump); err != nil {
			return err
		}
		return r.writeJSON(dump, true)
	}

	pw := formatter.NewPanelWriter(r.output)
	if err := loader.Load(ctx, pw); err != nil {
		return err
	}
	return pw.Err()
}
