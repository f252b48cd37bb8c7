package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/sift/internal/engine"
	"github.com/desertthunder/sift/internal/models"
	"github.com/desertthunder/sift/internal/shared"
	"github.com/urfave/cli/v3"
)

// SettingsShow displays the discovery settings stored on the service.
func (r *Runner) SettingsShow(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.discovery == nil {
		return fmt.Errorf("%w: discovery service not initialized", shared.ErrServiceUnavailable)
	}

	if err := r.adoptStoredToken(ctx); err != nil {
		return err
	}

	settings, err := r.discovery.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(settings, pretty)
	}

	r.writePlain("Settings:\n")
	r.writePlain("  adaptive learning:  %v\n", settings.AdaptiveLearning)
	r.writePlain("  exploration factor: %.2f\n", settings.ExplorationFactor)
	r.writePlain("  diversity boost:    %.2f\n", settings.DiversityBoost)

	return nil
}

// SettingsSync pulls remote settings, clamps the stored weights, and pushes
// the normalized state back to the service.
func (r *Runner) SettingsSync(ctx context.Context, cmd *cli.Command) error {
	if r.discovery == nil {
		return fmt.Errorf("%w: discovery service not initialized", shared.ErrServiceUnavailable)
	}

	if err := r.adoptStoredToken(ctx); err != nil {
		return err
	}

	store := engine.NewPreferenceStore(r.discovery, r.logger)
	if err := store.Rehydrate(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	// An empty merge pushes the rehydrated, clamped state back unchanged
	vector := store.Update(ctx, models.PreferenceUpdate{})
	store.Flush()

	r.writePlain("✓ Settings synced\n")
	r.writePlain("  danceability %.2f • energy %.2f • valence %.2f • tempo %.2f\n",
		vector.Danceability, vector.Energy, vector.Valence, vector.Tempo)
	r.writePlain("  acousticness %.2f • instrumentalness %.2f • speechiness %.2f • loudness %.2f\n",
		vector.Acousticness, vector.Instrumentalness, vector.Speechiness, vector.Loudness)

	return nil
}
