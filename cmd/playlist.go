package main

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/desertthunder/moodify/internal/formatter"
	"github.com/desertthunder/moodify/internal/models"
	"github.com/desertthunder/moodify/internal/playlist"
	"github.com/desertthunder/moodify/internal/seeds"
	"github.com/desertthunder/moodify/internal/shared"
	"github.com/desertthunder/moodify/internal/stats"
	"github.com/urfave/cli/v3"
)

// neutralTarget is used for every feature when the recent trendline is unavailable.
const neutralTarget = 0.5

// PlaylistCreate builds a recommendation request from the seed flags and sends it.
//
// Feature flags that are not set take the value of the last three tracks, as the sliders do.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	u, err := r.user()
	if err != nil {
		return err
	}

	sel, err := seedSelection(cmd.StringSlice("artist"), cmd.StringSlice("track"))
	if err != nil {
		return err
	}

	if cmd.Bool("defaults") {
		added, err := seeds.LoadDefaults(ctx, u.api, sel, r.logger)
		if err != nil {
			r.logger.Warn("failed to load default seeds", "err", err)
		} else {
			r.logger.Debug("default seeds added", "count", added)
		}
	}

	targets, err := r.targets(ctx, cmd, u)
	if err != nil {
		return err
	}

	req, err := playlist.Build(sel.Items(), targets)
	if err != nil {
		return err
	}

	if cmd.Bool("dry-run") {
		r.writePlainHeader("Playlist request (dry run)")
		return r.writePlain("%s", formatter.FormatRequest(req))
	}

	history, err := r.history()
	if err != nil {
		return err
	}

	submitter := playlist.NewSubmitter(u.api, history, u.deviceID, u.userID, r.logger)
	r.writePlain("%s...\n", playlist.Waiting.Label())
	if err := submitter.Submit(ctx, req, nil); err != nil {
		return err
	}

	r.writePlain("✓ Check your Spotify for Discover Moodify playlist!\n")
	return nil
}

// seedSelection collects the seed flags in order, ignoring repeats.
func seedSelection(artists, tracks []string) (*seeds.Selection, error) {
	sel, err := seeds.NewSelection()
	if err != nil {
		return nil, err
	}

	add := func(kind models.ItemKind, ids []string) error {
		for _, id := range ids {
			if id == "" {
				return fmt.Errorf("%w: empty %s id", shared.ErrInvalidInput, kind)
			}
			if err := sel.Select(models.SeedItem{Kind: kind, ID: id}); err != nil {
				if errors.Is(err, shared.ErrSelectionFull) {
					return shared.ErrTooManySeeds
				}
				return err
			}
		}
		return nil
	}

	if err := add(models.KindArtist, artists); err != nil {
		return nil, err
	}
	if err := add(models.KindTrack, tracks); err != nil {
		return nil, err
	}
	return sel, nil
}

// targets resolves the seven feature targets from the flags and the recent trendline.
func (r *Runner) targets(ctx context.Context, cmd *cli.Command, u *signedIn) (models.AudioFeatures, error) {
	var targets models.AudioFeatures

	unset := false
	for _, f := range models.FeatureNames {
		if !cmd.IsSet(string(f)) {
			unset = true
			break
		}
	}

	if unset {
		recent, err := u.api.Trendline(ctx, stats.RecentWindow)
		if err != nil {
			r.logger.Warn("failed to load recent trendline, using neutral targets", "err", err)
			for _, f := range models.FeatureNames {
				_ = targets.Set(f, neutralTarget)
			}
		} else {
			targets = recent.Sliders()
		}
	}

	for _, f := range models.FeatureNames {
		if !cmd.IsSet(string(f)) {
			continue
		}
		v := cmd.Float(string(f))
		if math.IsNaN(v) || v < 0 || v > 1 {
			return targets, fmt.Errorf("%w: --%s must be between 0 and 1, got %v", shared.ErrInvalidInput, f, v)
		}
		if err := targets.Set(f, v); err != nil {
			return targets, err
		}
	}
	return targets, nil
}

// PlaylistHistory lists or exports the recorded playlist requests of the signed-in user.
func (r *Runner) PlaylistHistory(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	u, err := r.user()
	if err != nil {
		return err
	}

	history, err := r.history()
	if err != nil {
		return err
	}

	recs, err := history.List(u.userID, cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteHistoryExport(recs, format, path)
		if err != nil {
			return err
		}
		r.logger.Info("history exported", "path", written, "count", len(recs))
		return r.writePlain("✓ Exported %d playlist requests to %s\n", len(recs), written)
	}

	data, err := formatter.ExportHistory(recs, format)
	if err != nil {
		return err
	}
	_, err = r.output.Write(data)
	return err
}
