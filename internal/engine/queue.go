package engine

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sift/internal/models"
)

// QueueState is the consumption state of the look-ahead buffer.
//
// Refilling is tracked separately (see [TrackQueue.Refilling]) because a
// refill overlaps Ready and Draining rather than excluding them: consumption
// continues while fresh tracks are in flight.
type QueueState int

const (
	QueueFilling QueueState = iota
	QueueReady
	QueueDraining
)

func (s QueueState) String() string {
	switch s {
	case QueueFilling:
		return "filling"
	case QueueReady:
		return "ready"
	case QueueDraining:
		return "draining"
	default:
		return ""
	}
}

const (
	DefaultQueueCapacity = 5
	DefaultLowWaterMark  = 2
)

// RefillRequest asks the driver to fetch Count tracks. The queue marks itself
// refilling when it hands one out; the driver executes the fetch and reports
// back through [TrackQueue.CompleteRefill]. The single in-flight flag keeps
// refills idempotent against rapid consecutive Advance calls.
type RefillRequest struct {
	Count int
}

// TrackQueue maintains the bounded look-ahead buffer of candidate tracks.
//
// The queue owns its track window exclusively; every mutation goes through
// Advance/CompleteRefill. It never spawns goroutines itself: Advance returns a
// [RefillRequest] when the low-water mark is crossed and the driver (TUI
// command loop or test) performs the asynchronous fetch, so consumption is
// never blocked on the network.
type TrackQueue struct {
	mu        sync.Mutex
	tracks    []models.Track
	capacity  int
	lowWater  int
	refilling bool
	disposed  bool
	logger    *log.Logger
}

// NewTrackQueue creates an empty queue in the filling state.
// Non-positive capacity or low-water values fall back to the defaults.
func NewTrackQueue(capacity, lowWater int, logger *log.Logger) *TrackQueue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	if lowWater <= 0 || lowWater >= capacity {
		lowWater = DefaultLowWaterMark
	}

	return &TrackQueue{
		tracks:   make([]models.Track, 0, capacity),
		capacity: capacity,
		lowWater: lowWater,
		logger:   logger,
	}
}

// Start returns the initial fill request. The queue stays in the filling
// state until the first refill completes.
func (q *TrackQueue) Start() *RefillRequest {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.disposed || q.refilling {
		return nil
	}

	q.refilling = true
	return &RefillRequest{Count: q.capacity}
}

// Current returns the head of the queue, or nil when the buffer is empty.
// At most one track is ever current.
func (q *TrackQueue) Current() *models.Track {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tracks) == 0 {
		return nil
	}

	head := q.tracks[0]
	return &head
}

// Advance pops the head. When the remaining length crosses the low-water mark
// and no refill is in flight, a RefillRequest is returned for the driver to
// execute; display is never blocked on it. A previously failed refill is
// retried here, on the next low-water crossing, never on a timer.
func (q *TrackQueue) Advance() *RefillRequest {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.disposed {
		return nil
	}

	if len(q.tracks) > 0 {
		q.tracks = q.tracks[1:]
	}

	if len(q.tracks) <= q.lowWater && !q.refilling {
		q.refilling = true
		return &RefillRequest{Count: q.capacity - len(q.tracks)}
	}

	return nil
}

// CompleteRefill appends freshly fetched tracks and clears the in-flight flag.
//
// Fresh tracks are de-duplicated by id against the currently-held window (the
// service does not guarantee uniqueness across calls) and the append is
// clamped to capacity. A nil or failed result only clears the flag; the retry
// happens on the next Advance that crosses the low-water mark. Results that
// arrive after Dispose are dropped.
func (q *TrackQueue) CompleteRefill(fresh []models.Track, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.disposed {
		return
	}

	q.refilling = false

	if err != nil {
		if q.logger != nil {
			q.logger.Warn("refill failed, will retry on next low-water crossing", "error", err)
		}
		return
	}

	held := make(map[string]struct{}, len(q.tracks))
	for _, t := range q.tracks {
		held[t.ID] = struct{}{}
	}

	for _, t := range fresh {
		if len(q.tracks) >= q.capacity {
			break
		}
		if _, dup := held[t.ID]; dup {
			continue
		}
		held[t.ID] = struct{}{}
		q.tracks = append(q.tracks, t)
	}
}

// IsLow reports whether the buffer is at or below the low-water mark.
func (q *TrackQueue) IsLow() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tracks) <= q.lowWater
}

// Len returns the number of buffered tracks.
func (q *TrackQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tracks)
}

// Refilling reports whether a refill is in flight.
func (q *TrackQueue) Refilling() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.refilling
}

// State derives the consumption state from the window contents.
func (q *TrackQueue) State() QueueState {
	q.mu.Lock()
	defer q.mu.Unlock()

	switch {
	case len(q.tracks) == 0 && q.refilling:
		return QueueFilling
	case len(q.tracks) > q.lowWater:
		return QueueReady
	default:
		return QueueDraining
	}
}

// Loading reports whether the surface should show a loading state: the
// buffer fully drained while a refill is still in flight.
func (q *TrackQueue) Loading() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tracks) == 0 && q.refilling
}

// Window returns a copy of the held tracks, head first.
func (q *TrackQueue) Window() []models.Track {
	q.mu.Lock()
	defer q.mu.Unlock()

	window := make([]models.Track, len(q.tracks))
	copy(window, q.tracks)
	return window
}

// Dispose marks the queue dead. Late refill callbacks become no-ops so an
// unmounted surface is never mutated.
func (q *TrackQueue) Dispose() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.disposed = true
	q.tracks = nil
}

// Disposed reports whether Dispose has been called.
func (q *TrackQueue) Disposed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.disposed
}
