// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI renders the swipe surface in three views:
//  1. [CardView] : The current track card, dragged and committed with the keyboard
//  2. [SettingsView] : Session settings and the current taste vector
//  3. [HistoryView] : Previously committed swipes from local history
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Key presses translate into pointer samples for [engine.Session]; the session's
// returned intents (refill requests, feedback dispatch, animation resolution)
// run as tea.Cmd values, so the engine stays free of goroutines and timers.
//
// Keyboard navigation uses vim-style bindings (h/l to drag, y/n to commit, q to quit)
// with contextual help displayed via charmbracelet/bubbles/help.
package ui
