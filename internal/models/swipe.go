package models

import (
	"fmt"
	"time"
)

// SwipeDirection is the committed direction of a swipe.
type SwipeDirection string

const (
	SwipeLeft  SwipeDirection = "left"
	SwipeRight SwipeDirection = "right"
)

// SwipeRecord is a persisted entity recording a single committed swipe.
//
// Implements [Model]; stored locally so the history commands can list and
// export liked tracks without a network round trip.
type SwipeRecord struct {
	id        string
	sequence  int
	trackID   string
	title     string
	artist    string
	album     string
	direction SwipeDirection
	rating    float64
	label     string
	sessionID string
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewSwipeRecord creates a swipe record for the given track and outcome.
// The ID is assigned by the repository on Create.
func NewSwipeRecord(track Track, direction SwipeDirection, rating float64, label, sessionID string) *SwipeRecord {
	now := time.Now().UTC()
	return &SwipeRecord{
		trackID:   track.ID,
		title:     track.Title,
		artist:    track.Artist,
		album:     track.Album,
		direction: direction,
		rating:    rating,
		label:     label,
		sessionID: sessionID,
		createdAt: now,
		updatedAt: now,
	}
}

// RehydrateSwipeRecord reconstructs a record from persisted columns.
func RehydrateSwipeRecord(id string, sequence int, trackID, title, artist, album string, direction SwipeDirection, rating float64, label, sessionID string, createdAt, updatedAt time.Time, deletedAt *time.Time) *SwipeRecord {
	return &SwipeRecord{
		id:        id,
		sequence:  sequence,
		trackID:   trackID,
		title:     title,
		artist:    artist,
		album:     album,
		direction: direction,
		rating:    rating,
		label:     label,
		sessionID: sessionID,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
	}
}

func (s *SwipeRecord) ID() string                { return s.id }
func (s *SwipeRecord) Sequence() int             { return s.sequence }
func (s *SwipeRecord) TrackID() string           { return s.trackID }
func (s *SwipeRecord) Title() string             { return s.title }
func (s *SwipeRecord) Artist() string            { return s.artist }
func (s *SwipeRecord) Album() string             { return s.album }
func (s *SwipeRecord) Direction() SwipeDirection { return s.direction }
func (s *SwipeRecord) Rating() float64           { return s.rating }
func (s *SwipeRecord) Label() string             { return s.label }
func (s *SwipeRecord) SessionID() string         { return s.sessionID }
func (s *SwipeRecord) CreatedAt() time.Time      { return s.createdAt }
func (s *SwipeRecord) UpdatedAt() time.Time      { return s.updatedAt }
func (s *SwipeRecord) DeletedAt() *time.Time     { return s.deletedAt }
func (s *SwipeRecord) SetID(id string)           { s.id = id }
func (s *SwipeRecord) SetSequence(seq int)       { s.sequence = seq }
func (s *SwipeRecord) Touch()                    { s.updatedAt = time.Now().UTC() }
func (s *SwipeRecord) SetDeletedAt(t *time.Time) { s.deletedAt = t }

// Liked reports whether the swipe accepted the track.
func (s *SwipeRecord) Liked() bool { return s.direction == SwipeRight }

// Validate checks the record's data before persistence.
func (s *SwipeRecord) Validate() error {
	if s.trackID == "" {
		return fmt.Errorf("swipe record missing track id")
	}
	if s.direction != SwipeLeft && s.direction != SwipeRight {
		return fmt.Errorf("invalid swipe direction: %q", s.direction)
	}
	if s.rating < 0 || s.rating > 1 {
		return fmt.Errorf("rating out of range: %f", s.rating)
	}
	if s.label == "" {
		return fmt.Errorf("swipe record missing label")
	}
	return nil
}
