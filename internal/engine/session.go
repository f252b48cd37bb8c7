package engine

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sift/internal/models"
	"github.com/desertthunder/sift/internal/services"
	"github.com/desertthunder/sift/internal/shared"
)

// Rating scale for committed swipes. Asymmetric and continuous by contract
// with the recommendation service; do not recalibrate without confirming
// intent with the service owners.
const (
	RatingLoved    = 0.8
	RatingDisliked = 0.2

	LabelLoved    = "loved_it"
	LabelDisliked = "disliked_it"
)

// DefaultExitDuration is the fixed exit animation length. Independent of
// gesture velocity so card departure feels predictable.
const DefaultExitDuration = 200 * time.Millisecond

// Commit describes a decisive swipe on the current card. The driver dispatches
// the feedback intent immediately (before the queue advances) and schedules
// [Session.FinishCommit] for when the exit animation resolves.
type Commit struct {
	Track     models.Track
	Direction models.SwipeDirection
	Rating    float64
	Label     string
	Haptic    bool // single fixed-intensity pulse, only when enabled in settings
	Duration  time.Duration
}

// SwipeRecorder persists committed swipes. Satisfied by the sqlite-backed
// swipe repository; nil disables local history.
type SwipeRecorder interface {
	Create(record *models.SwipeRecord) error
}

// CardFrame is an immutable snapshot of the session for the rendering layer.
// The UI reads frames and feeds samples back in; all state lives here in the
// engine so the machine is testable without any UI technology.
type CardFrame struct {
	Track     *models.Track
	Phase     GesturePhase
	Transform CardTransform
	QueueLen  int
	Refilling bool
	Loading   bool
	Empty     bool
}

// Session orchestrates the swipe surface: it owns the visible card, the
// gesture phase, feedback submission, and the exit/reset transitions.
//
// Concurrency rule: a new gesture is ignored while committing or resetting;
// the card is non-interactive during a transition.
type Session struct {
	mu sync.Mutex

	id       string
	queue    *TrackQueue
	store    *PreferenceStore
	service  services.Service
	recorder SwipeRecorder
	logger   *log.Logger

	phase        GesturePhase
	transform    CardTransform
	exitDuration time.Duration

	// committedID guards the at-most-once feedback invariant for the
	// track currently leaving the surface.
	committedID string
	disposed    bool

	ctx    context.Context
	cancel context.CancelFunc
}

// SessionOpts configures a discovery session.
type SessionOpts struct {
	Queue        *TrackQueue
	Store        *PreferenceStore
	Service      services.Service
	Recorder     SwipeRecorder
	Logger       *log.Logger
	ExitDuration time.Duration
}

// NewSession creates a session controller around the given queue and store.
func NewSession(opts SessionOpts) *Session {
	if opts.ExitDuration <= 0 {
		opts.ExitDuration = DefaultExitDuration
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Session{
		id:           shared.GenerateID(),
		queue:        opts.Queue,
		store:        opts.Store,
		service:      opts.Service,
		recorder:     opts.Recorder,
		logger:       opts.Logger,
		phase:        PhaseIdle,
		exitDuration: opts.ExitDuration,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// ID returns the session identifier attached to persisted swipes.
func (s *Session) ID() string { return s.id }

// Context returns the session context; pending fetch callbacks are cancelled
// through it when the surface unmounts.
func (s *Session) Context() context.Context { return s.ctx }

// Mount rehydrates preference state from the service and returns the initial
// fill request. Rehydration failure is non-fatal: defaults stay in place.
func (s *Session) Mount(ctx context.Context) *RefillRequest {
	if s.store != nil {
		if err := s.store.Rehydrate(ctx); err != nil && s.logger != nil {
			s.logger.Warn("settings rehydration failed, using defaults", "error", err)
		}
	}

	return s.queue.Start()
}

// FetchRefill executes a refill request against the discovery service using
// the store's current taste vector. An empty result is reported as
// [shared.ErrEmptyResult] by the service layer; the caller passes either
// outcome to [Session.CompleteRefill].
func (s *Session) FetchRefill(ctx context.Context, req *RefillRequest) ([]models.Track, error) {
	if req == nil || req.Count <= 0 {
		return nil, nil
	}
	return s.service.Discover(ctx, s.store.Vector(), s.store.Settings(), req.Count)
}

// CompleteRefill forwards a fetch result to the queue. No-op after Dispose.
func (s *Session) CompleteRefill(tracks []models.Track, err error) {
	s.mu.Lock()
	disposed := s.disposed
	s.mu.Unlock()

	if disposed {
		return
	}
	s.queue.CompleteRefill(tracks, err)
}

// HandleSample updates the in-flight drag transform from a pointer sample.
// Ignored while the card is transitioning, when the sample is malformed, or
// when no card is displayed.
func (s *Session) HandleSample(sample PointerSample, cardWidth float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed || !s.interactive() || !sample.Valid() {
		return
	}
	if s.queue.Current() == nil {
		return
	}

	s.phase = PhaseDragging
	s.transform = Transform(sample, cardWidth)
}

// HandleRelease classifies the released gesture. A commit returns the
// feedback intent; below-threshold releases spring the card back and return
// nil. The returned commit, if any, has already been recorded locally.
func (s *Session) HandleRelease(sample PointerSample, cardWidth float64) *Commit {
	s.mu.Lock()
	if s.disposed || !s.interactive() {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	switch Classify(sample, cardWidth) {
	case OutcomeCommittedLeft:
		return s.HandleCommit(models.SwipeLeft)
	case OutcomeCommittedRight:
		return s.HandleCommit(models.SwipeRight)
	default:
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.phase == PhaseDragging {
			s.phase = PhaseResetting
			s.transform = SpringTarget()
		}
		return nil
	}
}

// HandleCommit commits the current card in the given direction.
//
// Maps direction to the rating scalar, records the swipe locally, and returns
// the feedback intent for immediate dispatch, strictly before the queue
// advances, so a crash after dispatch cannot silently drop gesture intent.
// Returns nil when no card is displayed or a transition is in progress.
func (s *Session) HandleCommit(direction models.SwipeDirection) *Commit {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed || !s.interactive() {
		return nil
	}

	track := s.queue.Current()
	if track == nil {
		return nil
	}

	rating, label := RatingLoved, LabelLoved
	if direction == models.SwipeLeft {
		rating, label = RatingDisliked, LabelDisliked
	}

	s.phase = PhaseCommitting
	s.committedID = track.ID

	if s.recorder != nil {
		record := models.NewSwipeRecord(*track, direction, rating, label, s.id)
		if err := s.recorder.Create(record); err != nil && s.logger != nil {
			s.logger.Warn("failed to record swipe locally", "track", track.ID, "error", err)
		}
	}

	return &Commit{
		Track:     *track,
		Direction: direction,
		Rating:    rating,
		Label:     label,
		Haptic:    s.store != nil && s.store.Settings().HapticFeedback,
		Duration:  s.exitDuration,
	}
}

// SubmitFeedback dispatches the feedback for a commit. Fire-and-forget:
// failures are logged and never surfaced to the gesture loop.
func (s *Session) SubmitFeedback(ctx context.Context, commit *Commit) {
	if commit == nil || s.service == nil {
		return
	}

	if err := s.service.SubmitFeedback(ctx, commit.Track.ID, commit.Rating, commit.Label); err != nil && s.logger != nil {
		s.logger.Warn("feedback submission failed", "track", commit.Track.ID, "error", err)
	}
}

// FinishCommit resolves the exit animation: the queue advances past the
// committed track, the gesture state returns to idle, and any triggered
// refill request is handed back to the driver.
func (s *Session) FinishCommit() *RefillRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed || s.phase != PhaseCommitting {
		return nil
	}

	req := s.queue.Advance()
	s.phase = PhaseIdle
	s.transform = CardTransform{}
	s.committedID = ""
	return req
}

// FinishReset resolves the spring-back animation.
func (s *Session) FinishReset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed || s.phase != PhaseResetting {
		return
	}

	s.phase = PhaseIdle
	s.transform = CardTransform{}
}

// Frame snapshots the session for rendering.
func (s *Session) Frame() CardFrame {
	s.mu.Lock()
	defer s.mu.Unlock()

	frame := CardFrame{
		Phase:     s.phase,
		Transform: s.transform,
		QueueLen:  s.queue.Len(),
		Refilling: s.queue.Refilling(),
		Loading:   s.queue.Loading(),
	}

	frame.Track = s.queue.Current()
	frame.Empty = frame.Track == nil && !frame.Loading
	return frame
}

// Phase returns the current gesture phase.
func (s *Session) Phase() GesturePhase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Dispose unmounts the surface: the session context is cancelled so pending
// refill callbacks cannot mutate disposed state.
func (s *Session) Dispose() {
	s.mu.Lock()
	s.disposed = true
	s.mu.Unlock()

	s.cancel()
	s.queue.Dispose()
}

// interactive reports whether the card accepts gestures. Callers hold s.mu.
func (s *Session) interactive() bool {
	return s.phase == PhaseIdle || s.phase == PhaseDragging
}
