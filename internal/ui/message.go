package ui

import (
	"github.com/desertthunder/sift/internal/engine"
	"github.com/desertthunder/sift/internal/models"
)

// refillMsg carries the result of a queue refill fetch.
type refillMsg struct {
	tracks []models.Track
	err    error
}

// commitDoneMsg fires when the exit animation has run its course.
type commitDoneMsg struct {
	trackID string
}

// resetDoneMsg fires when the spring-back animation has run its course.
type resetDoneMsg struct{}

// feedbackSentMsg reports that a feedback intent was dispatched.
type feedbackSentMsg struct {
	commit *engine.Commit
}

// historyFetchedMsg carries the swipe history for the history view.
type historyFetchedMsg struct {
	records []*models.SwipeRecord
	err     error
}
