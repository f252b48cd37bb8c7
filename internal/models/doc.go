// Package models defines domain entities and persistence interfaces for the sift discovery client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs exchanged with the discovery service
//   - [Track] : Candidate track with its audio feature subset and opaque playback metadata
//   - [PreferenceVector] / [PreferenceUpdate] : Weighted taste vector and partial updates to it
//   - [Settings] / [RemoteSettings] : User-facing discovery settings and the service's settings payload
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [SwipeRecord] : One committed swipe (track, direction, rating, label)
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
