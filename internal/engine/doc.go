// Package engine implements the swipe interaction state machine and its track
// look-ahead queue.
//
// Four collaborators make up the engine:
//
//   - Gesture interpretation ([Classify], [Transform]): pure functions from
//     pointer samples to swipe outcomes and render transforms.
//   - [PreferenceStore] : the single write path for the weighted taste vector,
//     with optimistic local updates and fire-and-forget pushes.
//   - [TrackQueue] : the bounded look-ahead buffer with overlapping refill,
//     low-water-mark triggering, and id de-duplication.
//   - [Session] : the controller owning the visible card, the commit/reset
//     transitions, and feedback ordering.
//
// The engine performs no I/O of its own and spawns no goroutines for queue
// work: state transitions return intents ([RefillRequest], [Commit]) that the
// driver (the bubbletea command loop in production, plain function calls in
// tests) executes asynchronously and reports back. This keeps the state
// machine deterministic and independent of any UI technology.
package engine
