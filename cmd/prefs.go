package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/sift/internal/engine"
	"github.com/desertthunder/sift/internal/models"
	"github.com/desertthunder/sift/internal/shared"
	"github.com/urfave/cli/v3"
)

// PrefsShow fetches and displays the remote preference state.
func (r *Runner) PrefsShow(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.discovery == nil {
		return fmt.Errorf("%w: discovery service not initialized", shared.ErrServiceUnavailable)
	}

	if err := r.adoptStoredToken(ctx); err != nil {
		return err
	}

	r.logger.Info("fetching remote settings")

	settings, err := r.discovery.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(settings, pretty)
	}

	weights := settings.CustomWeights
	r.writePlain("Taste vector:\n")
	for _, row := range []struct {
		name  string
		value float64
	}{
		{"danceability", weights.Danceability},
		{"energy", weights.Energy},
		{"valence", weights.Valence},
		{"tempo", weights.Tempo},
		{"acousticness", weights.Acousticness},
		{"instrumentalness", weights.Instrumentalness},
		{"speechiness", weights.Speechiness},
		{"loudness", weights.Loudness},
	} {
		r.writePlain("  %-16s %.2f\n", row.name, row.value)
	}

	r.writePlain("\nSettings:\n")
	r.writePlain("  adaptive learning:  %v\n", settings.AdaptiveLearning)
	r.writePlain("  exploration factor: %.2f\n", settings.ExplorationFactor)
	r.writePlain("  diversity boost:    %.2f\n", settings.DiversityBoost)

	return nil
}

// PrefsSet applies one or more weight changes and pushes the merged vector.
func (r *Runner) PrefsSet(ctx context.Context, cmd *cli.Command) error {
	if r.discovery == nil {
		return fmt.Errorf("%w: discovery service not initialized", shared.ErrServiceUnavailable)
	}

	if err := r.adoptStoredToken(ctx); err != nil {
		return err
	}

	update := models.PreferenceUpdate{}
	touched := false
	for name, field := range map[string]**float64{
		"danceability":     &update.Danceability,
		"energy":           &update.Energy,
		"valence":          &update.Valence,
		"tempo":            &update.Tempo,
		"acousticness":     &update.Acousticness,
		"instrumentalness": &update.Instrumentalness,
		"speechiness":      &update.Speechiness,
		"loudness":         &update.Loudness,
	} {
		if cmd.IsSet(name) {
			value := cmd.Float(name)
			*field = &value
			touched = true
		}
	}

	if !touched {
		return fmt.Errorf("%w: provide at least one weight flag", shared.ErrMissingArgument)
	}

	store := engine.NewPreferenceStore(r.discovery, r.logger)
	if err := store.Rehydrate(ctx); err != nil {
		r.logger.Warn("could not fetch current preferences, starting from defaults", "error", err)
	}

	vector := store.Update(ctx, update)
	store.Flush()

	r.writePlain("✓ Preferences updated\n")
	r.writePlain("  danceability %.2f • energy %.2f • valence %.2f • tempo %.2f\n",
		vector.Danceability, vector.Energy, vector.Valence, vector.Tempo)
	r.writePlain("  acousticness %.2f • instrumentalness %.2f • speechiness %.2f • loudness %.2f\n",
		vector.Acousticness, vector.Instrumentalness, vector.Speechiness, vector.Loudness)

	return nil
}
