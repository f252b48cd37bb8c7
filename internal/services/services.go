// package services defines interface Service for the remote discovery API
package services

import (
	"context"

	"github.com/desertthunder/sift/internal/models"
	"golang.org/x/oauth2"
)

// Service defines the contract the swipe engine consumes from the music
// discovery service. All four data operations are opaque, fallible async
// calls; none of them being unavailable may crash the interaction loop.
type Service interface {
	// Authenticate performs OAuth2 authentication with the service.
	// Returns an error if authentication fails.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// Discover requests count candidate tracks biased by the given
	// preference vector and settings. Uniqueness across calls is NOT
	// guaranteed by the service; callers must de-duplicate.
	Discover(ctx context.Context, prefs models.PreferenceVector, settings models.Settings, count int) ([]models.Track, error)

	// SubmitFeedback reports a committed swipe for the given track.
	// Rating is a continuous scalar in [0,1]; label is a service-defined tag.
	SubmitFeedback(ctx context.Context, trackID string, rating float64, label string) error

	// UpdatePreferences pushes the merged preference vector and settings.
	UpdatePreferences(ctx context.Context, prefs models.PreferenceVector, settings models.Settings) error

	// GetSettings retrieves remote settings to rehydrate in-memory state.
	GetSettings(ctx context.Context) (*models.RemoteSettings, error)

	// Name returns the name of the service
	Name() string
}

// OAuthService is implemented by services that authenticate through the
// browser-based OAuth2 authorization code flow.
type OAuthService interface {
	Service

	// GetAuthURL returns the authorization URL the user's browser is sent to.
	GetAuthURL(state string) string

	// GetOAuthConfig exposes the OAuth2 config for the callback handler.
	GetOAuthConfig() *oauth2.Config

	// OAuthenticate adopts an already-issued token.
	OAuthenticate(ctx context.Context, token *oauth2.Token) error
}
