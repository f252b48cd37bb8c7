package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/sift/internal/models"
	"github.com/desertthunder/sift/internal/shared"
	"golang.org/x/oauth2"
)

// newTestService builds an authenticated service pointed at the given test server.
func newTestService(t *testing.T, baseURL string) *DiscoveryService {
	t.Helper()

	srv, err := NewDiscoveryService(map[string]string{
		"client_id":     "test_client_id",
		"client_secret": "test_client_secret",
		"base_url":      baseURL,
	}, 100)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	if err := srv.Authenticate(context.Background(), map[string]string{"access_token": "test_token"}); err != nil {
		t.Fatalf("failed to authenticate: %v", err)
	}

	return srv
}

func TestDiscoveryService(t *testing.T) {
	t.Run("NewDiscoveryService", func(t *testing.T) {
		t.Run("With Valid Credentials", func(t *testing.T) {
			srv, err := NewDiscoveryService(map[string]string{
				"client_id":     "test_client_id",
				"client_secret": "test_client_secret",
			}, 0)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if srv.Name() != "Discovery" {
				t.Errorf("expected service name 'Discovery', got %s", srv.Name())
			}
			if srv.baseURL != defaultBaseURL {
				t.Errorf("expected default base URL, got %s", srv.baseURL)
			}
			if srv.config.RedirectURL != defaultRedirectURI {
				t.Errorf("expected default redirect URI, got %s", srv.config.RedirectURL)
			}
		})

		t.Run("Missing Client ID", func(t *testing.T) {
			_, err := NewDiscoveryService(map[string]string{
				"client_secret": "test_client_secret",
			}, 0)
			if err == nil {
				t.Error("expected error for missing client_id")
			}
		})

		t.Run("Missing Client Secret", func(t *testing.T) {
			_, err := NewDiscoveryService(map[string]string{
				"client_id": "test_client_id",
			}, 0)
			if err == nil {
				t.Error("expected error for missing client_secret")
			}
		})

		t.Run("Custom Base URL", func(t *testing.T) {
			srv, err := NewDiscoveryService(map[string]string{
				"client_id":     "test_client_id",
				"client_secret": "test_client_secret",
				"base_url":      "http://localhost:9000",
			}, 0)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if srv.baseURL != "http://localhost:9000" {
				t.Errorf("expected custom base URL, got %s", srv.baseURL)
			}
			if !strings.HasPrefix(srv.config.Endpoint.AuthURL, "http://localhost:9000") {
				t.Errorf("expected auth endpoint under custom base URL, got %s", srv.config.Endpoint.AuthURL)
			}
		})
	})

	t.Run("GetAuthURL", func(t *testing.T) {
		srv, err := NewDiscoveryService(map[string]string{
			"client_id":     "test_client_id",
			"client_secret": "test_client_secret",
		}, 0)
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		authURL := srv.GetAuthURL("test_state")
		if !strings.Contains(authURL, "test_client_id") {
			t.Error("auth URL should contain client_id")
		}
		if !strings.Contains(authURL, "test_state") {
			t.Error("auth URL should contain state")
		}
	})

	t.Run("OAuthenticate", func(t *testing.T) {
		srv, err := NewDiscoveryService(map[string]string{
			"client_id":     "test_client_id",
			"client_secret": "test_client_secret",
		}, 0)
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		t.Run("Rejects Nil Token", func(t *testing.T) {
			if err := srv.OAuthenticate(context.Background(), nil); !errors.Is(err, shared.ErrInvalidCredentials) {
				t.Errorf("expected invalid credentials error, got %v", err)
			}
		})

		t.Run("Rejects Empty Access Token", func(t *testing.T) {
			if err := srv.OAuthenticate(context.Background(), &oauth2.Token{}); !errors.Is(err, shared.ErrInvalidCredentials) {
				t.Errorf("expected invalid credentials error, got %v", err)
			}
		})

		t.Run("Adopts Token", func(t *testing.T) {
			if err := srv.OAuthenticate(context.Background(), &oauth2.Token{AccessToken: "stored"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if srv.token == nil || srv.token.AccessToken != "stored" {
				t.Error("expected token to be adopted")
			}
		})
	})

	t.Run("Requires Authentication", func(t *testing.T) {
		srv, err := NewDiscoveryService(map[string]string{
			"client_id":     "test_client_id",
			"client_secret": "test_client_secret",
		}, 0)
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		_, err = srv.Discover(context.Background(), models.DefaultPreferences(), models.DefaultSettings(), 5)
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected not authenticated error, got %v", err)
		}
	})

	t.Run("Discover", func(t *testing.T) {
		t.Run("Returns Tracks", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/discover" {
					t.Errorf("expected path '/discover', got %s", r.URL.Path)
				}
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if auth := r.Header.Get("Authorization"); !strings.HasPrefix(auth, "Bearer ") {
					t.Errorf("expected bearer auth header, got %q", auth)
				}

				var req discoverRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("failed to decode request body: %v", err)
				}
				if req.Count != 3 {
					t.Errorf("expected count 3, got %d", req.Count)
				}

				json.NewEncoder(w).Encode(discoverResponse{Tracks: []models.Track{
					{ID: "t1", Title: "First", Artist: "Artist A"},
					{ID: "t2", Title: "Second", Artist: "Artist B"},
				}})
			}))
			defer server.Close()

			srv := newTestService(t, server.URL)
			tracks, err := srv.Discover(context.Background(), models.DefaultPreferences(), models.DefaultSettings(), 3)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(tracks) != 2 {
				t.Fatalf("expected 2 tracks, got %d", len(tracks))
			}
			if tracks[0].ID != "t1" {
				t.Errorf("expected first track t1, got %s", tracks[0].ID)
			}
		})

		t.Run("Empty Result", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(discoverResponse{})
			}))
			defer server.Close()

			srv := newTestService(t, server.URL)
			_, err := srv.Discover(context.Background(), models.DefaultPreferences(), models.DefaultSettings(), 5)
			if !errors.Is(err, shared.ErrEmptyResult) {
				t.Errorf("expected empty result error, got %v", err)
			}
		})

		t.Run("Invalid Count", func(t *testing.T) {
			srv := newTestService(t, "http://localhost:1")
			_, err := srv.Discover(context.Background(), models.DefaultPreferences(), models.DefaultSettings(), 0)
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected invalid argument error, got %v", err)
			}
		})

		t.Run("Server Error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer server.Close()

			srv := newTestService(t, server.URL)
			_, err := srv.Discover(context.Background(), models.DefaultPreferences(), models.DefaultSettings(), 5)
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected API request error, got %v", err)
			}
		})
	})

	t.Run("SubmitFeedback", func(t *testing.T) {
		t.Run("Sends Payload", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/feedback" {
					t.Errorf("expected path '/feedback', got %s", r.URL.Path)
				}

				var req feedbackRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("failed to decode request body: %v", err)
				}
				if req.TrackID != "t1" {
					t.Errorf("expected track t1, got %s", req.TrackID)
				}
				if req.Rating != 0.8 {
					t.Errorf("expected rating 0.8, got %f", req.Rating)
				}
				if req.Label != "loved_it" {
					t.Errorf("expected label loved_it, got %s", req.Label)
				}
			}))
			defer server.Close()

			srv := newTestService(t, server.URL)
			if err := srv.SubmitFeedback(context.Background(), "t1", 0.8, "loved_it"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("Missing Track ID", func(t *testing.T) {
			srv := newTestService(t, "http://localhost:1")
			if err := srv.SubmitFeedback(context.Background(), "", 0.2, "disliked_it"); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected invalid argument error, got %v", err)
			}
		})
	})

	t.Run("UpdatePreferences", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/preferences" {
				t.Errorf("expected path '/preferences', got %s", r.URL.Path)
			}
			if r.Method != http.MethodPut {
				t.Errorf("expected PUT, got %s", r.Method)
			}

			var req preferencesRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("failed to decode request body: %v", err)
			}
			if req.CustomWeights.Energy != 0.9 {
				t.Errorf("expected energy 0.9, got %f", req.CustomWeights.Energy)
			}
		}))
		defer server.Close()

		srv := newTestService(t, server.URL)
		prefs := models.DefaultPreferences()
		prefs.Energy = 0.9

		if err := srv.UpdatePreferences(context.Background(), prefs, models.DefaultSettings()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("GetSettings", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/settings" {
				t.Errorf("expected path '/settings', got %s", r.URL.Path)
			}

			json.NewEncoder(w).Encode(models.RemoteSettings{
				CustomWeights:     models.PreferenceVector{Danceability: 0.7},
				AdaptiveLearning:  true,
				ExplorationFactor: 0.4,
			})
		}))
		defer server.Close()

		srv := newTestService(t, server.URL)
		settings, err := srv.GetSettings(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if settings.CustomWeights.Danceability != 0.7 {
			t.Errorf("expected danceability 0.7, got %f", settings.CustomWeights.Danceability)
		}
		if !settings.AdaptiveLearning {
			t.Error("expected adaptive learning enabled")
		}
	})
}
