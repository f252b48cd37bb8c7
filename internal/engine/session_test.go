package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/sift/internal/models"
)

type mockRecorder struct {
	records []*models.SwipeRecord
	err     error
}

func (m *mockRecorder) Create(record *models.SwipeRecord) error {
	m.records = append(m.records, record)
	return m.err
}

// newTestSession builds a session over a filled 5-track queue.
func newTestSession(t *testing.T, svc *mockService, recorder SwipeRecorder) *Session {
	t.Helper()

	if svc == nil {
		svc = &mockService{}
	}

	queue := NewTrackQueue(5, 2, nil)
	store := NewPreferenceStore(svc, nil)
	sess := NewSession(SessionOpts{
		Queue:    queue,
		Store:    store,
		Service:  svc,
		Recorder: recorder,
	})

	queue.Start()
	queue.CompleteRefill(tracks("A", "B", "C", "D", "E"), nil)
	return sess
}

func TestSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Right Swipe Submits Loved Feedback", func(t *testing.T) {
		svc := &mockService{}
		sess := newTestSession(t, svc, nil)

		commit := sess.HandleCommit(models.SwipeRight)
		if commit == nil {
			t.Fatal("expected commit for right swipe")
		}
		if commit.Track.ID != "A" {
			t.Errorf("expected commit on current track A, got %s", commit.Track.ID)
		}
		if commit.Rating != RatingLoved || commit.Label != LabelLoved {
			t.Errorf("expected (0.8, loved_it), got (%v, %s)", commit.Rating, commit.Label)
		}

		sess.SubmitFeedback(ctx, commit)
		calls := svc.feedback()
		if len(calls) != 1 {
			t.Fatalf("expected exactly one feedback call, got %d", len(calls))
		}
		if calls[0].trackID != "A" || calls[0].rating != 0.8 || calls[0].label != "loved_it" {
			t.Errorf("unexpected feedback call %+v", calls[0])
		}
	})

	t.Run("Left Swipe Submits Disliked Feedback", func(t *testing.T) {
		svc := &mockService{}
		sess := newTestSession(t, svc, nil)

		commit := sess.HandleCommit(models.SwipeLeft)
		if commit == nil {
			t.Fatal("expected commit for left swipe")
		}
		if commit.Rating != RatingDisliked || commit.Label != LabelDisliked {
			t.Errorf("expected (0.2, disliked_it), got (%v, %s)", commit.Rating, commit.Label)
		}
	})

	t.Run("Feedback Dispatch Precedes Advance", func(t *testing.T) {
		svc := &mockService{}
		sess := newTestSession(t, svc, nil)

		commit := sess.HandleCommit(models.SwipeRight)
		sess.SubmitFeedback(ctx, commit)

		// The committed track is still at the head until the exit
		// animation resolves
		if frame := sess.Frame(); frame.Track == nil || frame.Track.ID != "A" {
			t.Error("queue must not advance before the exit animation resolves")
		}

		sess.FinishCommit()
		if frame := sess.Frame(); frame.Track == nil || frame.Track.ID != "B" {
			t.Error("expected advance to B after FinishCommit")
		}
		if sess.Phase() != PhaseIdle {
			t.Errorf("expected idle after commit resolves, got %v", sess.Phase())
		}
	})

	t.Run("Gestures Ignored While Committing", func(t *testing.T) {
		svc := &mockService{}
		sess := newTestSession(t, svc, nil)

		first := sess.HandleCommit(models.SwipeRight)
		if first == nil {
			t.Fatal("expected first commit")
		}

		// The card is non-interactive until the controller returns to idle
		if second := sess.HandleCommit(models.SwipeLeft); second != nil {
			t.Error("commit during committing phase must be ignored")
		}

		sess.HandleSample(PointerSample{DX: 50}, 300)
		if sess.Phase() != PhaseCommitting {
			t.Errorf("sample during committing must not change phase, got %v", sess.Phase())
		}

		if release := sess.HandleRelease(PointerSample{DX: 200, Velocity: 900}, 300); release != nil {
			t.Error("release during committing phase must be ignored")
		}

		sess.FinishCommit()
		if next := sess.HandleCommit(models.SwipeLeft); next == nil {
			t.Error("expected commits to resume once idle")
		}
	})

	t.Run("Exactly One Advance Per Commit", func(t *testing.T) {
		svc := &mockService{}
		sess := newTestSession(t, svc, nil)

		sess.HandleCommit(models.SwipeRight)
		sess.FinishCommit()

		// A stray second resolution is a no-op
		sess.FinishCommit()

		if frame := sess.Frame(); frame.QueueLen != 4 {
			t.Errorf("expected one advance, queue length 4, got %d", frame.QueueLen)
		}
	})

	t.Run("Below Threshold Springs Back", func(t *testing.T) {
		sess := newTestSession(t, nil, nil)

		sess.HandleSample(PointerSample{DX: 30}, 300)
		if sess.Phase() != PhaseDragging {
			t.Fatalf("expected dragging, got %v", sess.Phase())
		}

		commit := sess.HandleRelease(PointerSample{DX: 30, Velocity: 100}, 300)
		if commit != nil {
			t.Fatal("sub-threshold release must not commit")
		}
		if sess.Phase() != PhaseResetting {
			t.Errorf("expected resetting, got %v", sess.Phase())
		}

		sess.FinishReset()
		if sess.Phase() != PhaseIdle {
			t.Errorf("expected idle after reset, got %v", sess.Phase())
		}
		if frame := sess.Frame(); frame.Transform != (CardTransform{}) {
			t.Errorf("expected at-rest transform, got %+v", frame.Transform)
		}
	})

	t.Run("Release Above Threshold Commits", func(t *testing.T) {
		svc := &mockService{}
		sess := newTestSession(t, svc, nil)

		sess.HandleSample(PointerSample{DX: -80}, 300)
		commit := sess.HandleRelease(PointerSample{DX: -80, Velocity: 0}, 300)
		if commit == nil {
			t.Fatal("expected commit for past-threshold release")
		}
		if commit.Direction != models.SwipeLeft {
			t.Errorf("expected left commit, got %v", commit.Direction)
		}
	})

	t.Run("Commit Records Swipe Locally", func(t *testing.T) {
		recorder := &mockRecorder{}
		sess := newTestSession(t, nil, recorder)

		sess.HandleCommit(models.SwipeRight)
		if len(recorder.records) != 1 {
			t.Fatalf("expected one recorded swipe, got %d", len(recorder.records))
		}

		record := recorder.records[0]
		if record.TrackID() != "A" || !record.Liked() || record.Rating() != RatingLoved {
			t.Errorf("unexpected record: track=%s liked=%v rating=%v", record.TrackID(), record.Liked(), record.Rating())
		}
		if record.SessionID() != sess.ID() {
			t.Error("record should carry the session id")
		}
	})

	t.Run("Recorder Failure Is Non Fatal", func(t *testing.T) {
		recorder := &mockRecorder{err: errors.New("disk full")}
		sess := newTestSession(t, nil, recorder)

		if commit := sess.HandleCommit(models.SwipeRight); commit == nil {
			t.Error("commit must survive a recorder failure")
		}
	})

	t.Run("Commit Triggers Refill At Low Water", func(t *testing.T) {
		svc := &mockService{}
		sess := newTestSession(t, svc, nil)

		for i := 0; i < 2; i++ {
			sess.HandleCommit(models.SwipeRight)
			if req := sess.FinishCommit(); req != nil {
				t.Fatalf("unexpected refill above low-water mark on advance %d", i+1)
			}
		}

		sess.HandleCommit(models.SwipeLeft)
		req := sess.FinishCommit()
		if req == nil {
			t.Fatal("expected refill request at low-water mark")
		}

		svc.discoverResults = [][]models.Track{tracks("F", "G", "H")}
		fresh, err := sess.FetchRefill(ctx, req)
		if err != nil {
			t.Fatalf("fetch failed: %v", err)
		}
		sess.CompleteRefill(fresh, nil)

		if frame := sess.Frame(); frame.QueueLen != 5 {
			t.Errorf("expected refilled queue of 5, got %d", frame.QueueLen)
		}
	})

	t.Run("Empty Queue Shows Loading Then Empty", func(t *testing.T) {
		svc := &mockService{}
		queue := NewTrackQueue(5, 2, nil)
		sess := NewSession(SessionOpts{
			Queue:   queue,
			Store:   NewPreferenceStore(svc, nil),
			Service: svc,
		})

		req := sess.Mount(ctx)
		if req == nil {
			t.Fatal("expected initial fill request on mount")
		}

		frame := sess.Frame()
		if !frame.Loading || frame.Empty {
			t.Errorf("drained queue mid-fill should be loading, got %+v", frame)
		}

		// EmptyResult: the service had nothing for us
		sess.CompleteRefill(nil, nil)
		frame = sess.Frame()
		if frame.Loading || !frame.Empty {
			t.Errorf("expected empty state after zero-track fill, got %+v", frame)
		}

		if commit := sess.HandleCommit(models.SwipeRight); commit != nil {
			t.Error("commit with no visible card must be ignored")
		}
	})

	t.Run("Dispose Cancels Pending Work", func(t *testing.T) {
		sess := newTestSession(t, nil, nil)

		sess.Dispose()

		if err := sess.Context().Err(); err == nil {
			t.Error("session context should be cancelled on dispose")
		}

		sess.CompleteRefill(tracks("Z"), nil)
		if frame := sess.Frame(); frame.QueueLen != 0 {
			t.Error("late refill must not mutate a disposed session")
		}
		if commit := sess.HandleCommit(models.SwipeRight); commit != nil {
			t.Error("disposed session must ignore gestures")
		}
	})

	t.Run("Haptic Pulse Follows Settings", func(t *testing.T) {
		svc := &mockService{}
		sess := newTestSession(t, svc, nil)

		commit := sess.HandleCommit(models.SwipeRight)
		if commit == nil || !commit.Haptic {
			t.Error("expected haptic pulse with default settings")
		}
		sess.FinishCommit()

		settings := sess.store.Settings()
		settings.HapticFeedback = false
		sess.store.SetSettings(ctx, settings)
		sess.store.Flush()

		commit = sess.HandleCommit(models.SwipeLeft)
		if commit == nil || commit.Haptic {
			t.Error("expected no haptic pulse when disabled")
		}
	})
}
