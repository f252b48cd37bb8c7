// Discovery API implementation of [Service]
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/desertthunder/sift/internal/models"
	"github.com/desertthunder/sift/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL     = "https://api.discovery.example.com/v1"
	defaultRedirectURI = "http://localhost:3000/callback"

	authPath  = "/oauth/authorize"
	tokenPath = "/oauth/token"

	// Outbound request budget; the service throttles aggressively and a
	// fast swiper can otherwise burn through it mid-session.
	defaultRequestsPerSec = 4.0
)

// discoverRequest is the wire payload for a discovery request.
type discoverRequest struct {
	Preferences models.PreferenceVector `json:"preferences"`
	Settings    models.Settings         `json:"settings"`
	Count       int                     `json:"count"`
}

// discoverResponse wraps the track list returned by the service.
type discoverResponse struct {
	Tracks []models.Track `json:"tracks"`
}

// feedbackRequest is the wire payload for a single swipe's feedback.
type feedbackRequest struct {
	TrackID string  `json:"track_id"`
	Rating  float64 `json:"rating"`
	Label   string  `json:"label"`
}

// preferencesRequest is the wire payload for a preference/settings push.
type preferencesRequest struct {
	CustomWeights models.PreferenceVector `json:"custom_weights"`
	Settings      models.Settings         `json:"settings"`
}

// DiscoveryService implements the Service interface against the discovery API.
// Uses [oauth2] for authentication and [rate.Limiter] to throttle outbound calls.
type DiscoveryService struct {
	config      *oauth2.Config
	token       *oauth2.Token
	httpClient  *http.Client
	limiter     *rate.Limiter
	baseURL     string
	credentials map[string]string
}

// NewDiscoveryService creates a service client from the given credentials map.
// Requires "client_id" and "client_secret"; "redirect_uri" and "base_url" are
// optional. rps bounds outbound requests per second (0 uses the default).
func NewDiscoveryService(credentials map[string]string, rps float64) (*DiscoveryService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("missing client_id in credentials")
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("missing client_secret in credentials")
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = defaultRedirectURI
	}

	baseURL, ok := credentials["base_url"]
	if !ok || baseURL == "" {
		baseURL = defaultBaseURL
	}

	if rps <= 0 {
		rps = defaultRequestsPerSec
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"discovery-read",
			"feedback-write",
			"preferences-write",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  baseURL + authPath,
			TokenURL: baseURL + tokenPath,
		},
	}

	return &DiscoveryService{
		config:      config,
		httpClient:  http.DefaultClient,
		limiter:     rate.NewLimiter(rate.Limit(rps), 1),
		baseURL:     baseURL,
		credentials: credentials,
	}, nil
}

// Authenticate performs OAuth2 authentication. Expects either an "access_token" or "auth_code" in credentials.
func (s *DiscoveryService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken, ok := credentials["access_token"]; ok && accessToken != "" {
		s.token = &oauth2.Token{AccessToken: accessToken}
		s.httpClient = s.config.Client(ctx, s.token)
		return nil
	}

	if authCode, ok := credentials["auth_code"]; ok && authCode != "" {
		token, err := s.config.Exchange(ctx, authCode)
		if err != nil {
			return fmt.Errorf("failed to exchange auth code: %w", err)
		}
		s.token = token
		s.httpClient = s.config.Client(ctx, s.token)
		return nil
	}

	return fmt.Errorf("missing access_token or auth_code in credentials")
}

func (s *DiscoveryService) Name() string {
	return "Discovery"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *DiscoveryService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// GetOAuthConfig exposes the OAuth2 config for the local callback handler.
func (s *DiscoveryService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// OAuthenticate adopts an already-issued token, e.g. one stored in config.
func (s *DiscoveryService) OAuthenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: no token provided", shared.ErrInvalidCredentials)
	}

	s.token = token
	s.httpClient = s.config.Client(ctx, token)
	return nil
}

// doRequest performs a rate-limited, authenticated HTTP request to the discovery API.
func (s *DiscoveryService) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	if s.token == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	apiURL := s.baseURL + endpoint

	var payload *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(data)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, payload)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Discover requests candidate tracks biased by the current taste vector.
// A successful call that carries zero tracks returns [shared.ErrEmptyResult]
// so the queue can surface an empty state instead of treating it as data.
func (s *DiscoveryService) Discover(ctx context.Context, prefs models.PreferenceVector, settings models.Settings, count int) ([]models.Track, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive", shared.ErrInvalidArgument)
	}

	body := discoverRequest{Preferences: prefs, Settings: settings, Count: count}

	var result discoverResponse
	if err := s.doRequest(ctx, http.MethodPost, "/discover", body, &result); err != nil {
		return nil, err
	}

	if len(result.Tracks) == 0 {
		return nil, shared.ErrEmptyResult
	}

	return result.Tracks, nil
}

// SubmitFeedback reports one committed swipe. Best-effort by contract; callers
// treat failures as non-fatal.
func (s *DiscoveryService) SubmitFeedback(ctx context.Context, trackID string, rating float64, label string) error {
	if trackID == "" {
		return fmt.Errorf("%w: missing track id", shared.ErrInvalidArgument)
	}

	body := feedbackRequest{TrackID: trackID, Rating: rating, Label: label}
	return s.doRequest(ctx, http.MethodPost, "/feedback", body, nil)
}

// UpdatePreferences pushes the merged preference vector and settings.
func (s *DiscoveryService) UpdatePreferences(ctx context.Context, prefs models.PreferenceVector, settings models.Settings) error {
	body := preferencesRequest{CustomWeights: prefs, Settings: settings}
	return s.doRequest(ctx, http.MethodPut, "/preferences", body, nil)
}

// GetSettings retrieves remote settings for state rehydration on mount.
func (s *DiscoveryService) GetSettings(ctx context.Context) (*models.RemoteSettings, error) {
	var result models.RemoteSettings
	if err := s.doRequest(ctx, http.MethodGet, "/settings", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
