package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/moodify/internal/formatter"
	"github.com/desertthunder/moodify/internal/models"
	"github.com/desertthunder/moodify/internal/seeds"
	"github.com/desertthunder/moodify/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search looks up seed candidates and prints them partitioned into artists and tracks.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}

	u, err := r.user()
	if err != nil {
		return err
	}

	var kind models.ItemKind
	if cmd.IsSet("kind") {
		if kind, err = models.ParseItemKind(cmd.String("kind")); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
	}

	results, err := seeds.NewSearcher(u.api).Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if kind != "" {
		results = results.Only(kind)
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, true)
	}

	return r.writePlain("%s", formatter.FormatSearchResults(results))
}
