package models

// Track represents a candidate track returned by the discovery service.
// Immutable once fetched.
type Track struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Artist   string         `json:"artist"`
	Album    string         `json:"album"`
	Duration int            `json:"duration"` // Duration in seconds
	Features AudioFeatures  `json:"features"`
	Playback map[string]any `json:"playback,omitempty"` // Opaque playback metadata, passed through untouched
}

// AudioFeatures is the feature-vector subset attached to each discovered track.
//
// Values mirror the weight names in [PreferenceVector]; the service normalizes
// tempo and loudness into [0,1] before sending them.
type AudioFeatures struct {
	Danceability     float64 `json:"danceability"`
	Energy           float64 `json:"energy"`
	Valence          float64 `json:"valence"`
	Tempo            float64 `json:"tempo"`
	Acousticness     float64 `json:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness"`
	Speechiness      float64 `json:"speechiness"`
	Loudness         float64 `json:"loudness"`
}
