package engine

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sift/internal/models"
	"github.com/desertthunder/sift/internal/services"
)

// PreferenceStore holds the normalized taste vector and discovery settings.
//
// The store is the single write path for the vector. Update merges a partial
// vector, clamps every weight to [0,1], and pushes the merged result to the
// discovery service in the background. The local vector updates optimistically
// and is never rolled back on a failed push; the failure is logged and the
// service becomes eventually consistent on the next push.
type PreferenceStore struct {
	mu       sync.Mutex
	vector   models.PreferenceVector
	settings models.Settings
	service  services.Service
	logger   *log.Logger

	// pushWG tracks in-flight pushes so tests and Dispose can drain them.
	pushWG sync.WaitGroup
}

// NewPreferenceStore creates a store with default weights and settings.
func NewPreferenceStore(service services.Service, logger *log.Logger) *PreferenceStore {
	return &PreferenceStore{
		vector:   models.DefaultPreferences(),
		settings: models.DefaultSettings(),
		service:  service,
		logger:   logger,
	}
}

// Vector returns a copy of the current preference vector.
func (s *PreferenceStore) Vector() models.PreferenceVector {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vector
}

// Settings returns a copy of the current discovery settings.
func (s *PreferenceStore) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SetSettings replaces the discovery settings and pushes the combined state.
func (s *PreferenceStore) SetSettings(ctx context.Context, settings models.Settings) {
	s.mu.Lock()
	s.settings = settings
	vector := s.vector
	s.mu.Unlock()

	s.push(ctx, vector, settings)
}

// Rehydrate replaces in-memory state from the service's settings endpoint.
// Called on mount; preference/session state is never persisted locally.
func (s *PreferenceStore) Rehydrate(ctx context.Context) error {
	remote, err := s.service.GetSettings(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.vector = clampVector(remote.CustomWeights)
	s.settings.AdaptiveLearning = remote.AdaptiveLearning
	s.settings.ExplorationFactor = remote.ExplorationFactor
	s.settings.DiversityBoost = remote.DiversityBoost
	return nil
}

// Update shallow-merges the partial vector, clamps every weight to [0,1], and
// returns the full merged vector. The push to the service is fire-and-forget.
func (s *PreferenceStore) Update(ctx context.Context, partial models.PreferenceUpdate) models.PreferenceVector {
	s.mu.Lock()

	merge(&s.vector.Danceability, partial.Danceability)
	merge(&s.vector.Energy, partial.Energy)
	merge(&s.vector.Valence, partial.Valence)
	merge(&s.vector.Tempo, partial.Tempo)
	merge(&s.vector.Acousticness, partial.Acousticness)
	merge(&s.vector.Instrumentalness, partial.Instrumentalness)
	merge(&s.vector.Speechiness, partial.Speechiness)
	merge(&s.vector.Loudness, partial.Loudness)

	vector := s.vector
	settings := s.settings
	s.mu.Unlock()

	s.push(ctx, vector, settings)
	return vector
}

// push sends the merged state to the service without blocking the caller.
func (s *PreferenceStore) push(ctx context.Context, vector models.PreferenceVector, settings models.Settings) {
	if s.service == nil {
		return
	}

	s.pushWG.Add(1)
	go func() {
		defer s.pushWG.Done()
		if err := s.service.UpdatePreferences(ctx, vector, settings); err != nil {
			if s.logger != nil {
				s.logger.Warn("preference push failed, keeping local state", "error", err)
			}
		}
	}()
}

// Flush blocks until all in-flight pushes complete. CLI commands call this
// before exiting so a push is not cut off mid-request.
func (s *PreferenceStore) Flush() {
	s.pushWG.Wait()
}

func merge(dst *float64, src *float64) {
	if src == nil {
		return
	}
	*dst = clamp(*src)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampVector(v models.PreferenceVector) models.PreferenceVector {
	return models.PreferenceVector{
		Danceability:     clamp(v.Danceability),
		Energy:           clamp(v.Energy),
		Valence:          clamp(v.Valence),
		Tempo:            clamp(v.Tempo),
		Acousticness:     clamp(v.Acousticness),
		Instrumentalness: clamp(v.Instrumentalness),
		Speechiness:      clamp(v.Speechiness),
		Loudness:         clamp(v.Loudness),
	}
}
