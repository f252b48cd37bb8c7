package engine

import (
	"context"
	"sync"

	"github.com/desertthunder/sift/internal/models"
)

// mockService is a scriptable test double for [services.Service].
type mockService struct {
	mu sync.Mutex

	discoverResults [][]models.Track
	discoverErr     error
	discoverCalls   int
	discoverCounts  []int

	feedbackErr   error
	feedbackCalls []feedbackCall

	updateErr     error
	updateCalls   int
	lastVector    models.PreferenceVector
	lastSettings  models.Settings

	remoteSettings *models.RemoteSettings
	getSettingsErr error
}

type feedbackCall struct {
	trackID string
	rating  float64
	label   string
}

func (m *mockService) Name() string { return "mock" }

func (m *mockService) Authenticate(ctx context.Context, credentials map[string]string) error {
	return nil
}

func (m *mockService) Discover(ctx context.Context, prefs models.PreferenceVector, settings models.Settings, count int) ([]models.Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.discoverCalls++
	m.discoverCounts = append(m.discoverCounts, count)

	if m.discoverErr != nil {
		return nil, m.discoverErr
	}
	if len(m.discoverResults) == 0 {
		return nil, nil
	}

	result := m.discoverResults[0]
	m.discoverResults = m.discoverResults[1:]
	return result, nil
}

func (m *mockService) SubmitFeedback(ctx context.Context, trackID string, rating float64, label string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.feedbackCalls = append(m.feedbackCalls, feedbackCall{trackID, rating, label})
	return m.feedbackErr
}

func (m *mockService) UpdatePreferences(ctx context.Context, prefs models.PreferenceVector, settings models.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.updateCalls++
	m.lastVector = prefs
	m.lastSettings = settings
	return m.updateErr
}

func (m *mockService) GetSettings(ctx context.Context) (*models.RemoteSettings, error) {
	if m.getSettingsErr != nil {
		return nil, m.getSettingsErr
	}
	if m.remoteSettings != nil {
		return m.remoteSettings, nil
	}
	return &models.RemoteSettings{CustomWeights: models.DefaultPreferences()}, nil
}

func (m *mockService) feedback() []feedbackCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]feedbackCall, len(m.feedbackCalls))
	copy(calls, m.feedbackCalls)
	return calls
}

// track builds a minimal test track.
func track(id string) models.Track {
	return models.Track{ID: id, Title: "Track " + id, Artist: "Artist", Album: "Album"}
}

// tracks builds a window of test tracks from ids.
func tracks(ids ...string) []models.Track {
	out := make([]models.Track, len(ids))
	for i, id := range ids {
		out[i] = track(id)
	}
	return out
}
