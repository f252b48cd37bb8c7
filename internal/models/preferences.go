package models

// PreferenceVector holds the normalized weighted taste vector sent to the
// discovery service to bias future results. Every weight lives in [0,1].
type PreferenceVector struct {
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Valence          float64 `json:"valence"`
	Tempo            float64 `json:"tempo"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Speechiness      float64 `json:"speechiness"`
	Loudness         float64 `json:"loudness"`
}

// PreferenceUpdate is a partial update to a [PreferenceVector].
// Nil fields are left untouched by a merge.
type PreferenceUpdate struct {
	Danceability     *float64 `json:"danceability,omitempty"`
	Energy           *float64 `json:"energy,omitempty"`
	Valence          *float64 `json:"valence,omitempty"`
	Tempo            *float64 `json:"tempo,omitempty"`
	Acousticness     *float64 `json:"acousticness,omitempty"`
	Instrumentalness *float64 `json:"instrumentalness,omitempty"`
	Speechiness      *float64 `json:"speechiness,omitempty"`
	Loudness         *float64 `json:"loudness,omitempty"`
}

// DefaultPreferences returns the neutral taste vector used before the first
// settings rehydration.
func DefaultPreferences() PreferenceVector {
	return PreferenceVector{
		Danceability:     0.5,
		Energy:           0.5,
		Valence:          0.5,
		Tempo:            0.5,
		Acousticness:     0.5,
		Instrumentalness: 0.5,
		Speechiness:      0.5,
		Loudness:         0.5,
	}
}

// Settings holds user-facing discovery settings. Independent of the preference
// vector, but both are transmitted to the discovery service together.
type Settings struct {
	AdaptiveLearning  bool    `json:"adaptive_learning"`
	ExplorationFactor float64 `json:"exploration_factor"`
	DiversityBoost    float64 `json:"diversity_boost"`
	HapticFeedback    bool    `json:"haptic_feedback"`
	AnimationSpeed    float64 `json:"animation_speed"`
}

// DefaultSettings returns the settings used before the first rehydration from
// the discovery service.
func DefaultSettings() Settings {
	return Settings{
		AdaptiveLearning:  true,
		ExplorationFactor: 0.3,
		DiversityBoost:    0.2,
		HapticFeedback:    true,
		AnimationSpeed:    1.0,
	}
}

// FeatureRange is the service-provided valid range for a single feature weight.
type FeatureRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// RemoteSettings is the payload returned by the discovery service's settings
// endpoint, used to rehydrate in-memory state on mount.
type RemoteSettings struct {
	CustomWeights     PreferenceVector        `json:"custom_weights"`
	FeatureRanges     map[string]FeatureRange `json:"feature_ranges"`
	AdaptiveLearning  bool                    `json:"adaptive_learning"`
	ExplorationFactor float64                 `json:"exploration_factor"`
	DiversityBoost    float64                 `json:"diversity_boost"`
}
