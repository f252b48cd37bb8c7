package repositories

import (
	"database/sql"
	"testing"

	"github.com/desertthunder/sift/internal/models"
	"github.com/desertthunder/sift/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}

func testTrack(id string) models.Track {
	return models.Track{
		ID:     id,
		Title:  "Track " + id,
		Artist: "Artist " + id,
		Album:  "Album " + id,
	}
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	t.Run("Increments Monotonically", func(t *testing.T) {
		first, err := NextSequence(db, "swipes")
		if err != nil {
			t.Fatalf("failed to get sequence: %v", err)
		}

		second, err := NextSequence(db, "swipes")
		if err != nil {
			t.Fatalf("failed to get sequence: %v", err)
		}

		if second != first+1 {
			t.Errorf("expected sequence %d, got %d", first+1, second)
		}
	})
}

func TestSwipeRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSwipeRepository(db)

		record := models.NewSwipeRecord(testTrack("t1"), models.SwipeRight, 0.8, "loved_it", "session-1")
		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create swipe: %v", err)
		}

		if record.ID() == "" {
			t.Error("expected generated ID")
		}
		if record.Sequence() == 0 {
			t.Error("expected generated sequence")
		}
	})

	t.Run("Create Rejects Invalid Record", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSwipeRepository(db)

		record := models.NewSwipeRecord(testTrack("t1"), models.SwipeDirection("up"), 0.8, "loved_it", "")
		if err := repo.Create(record); err == nil {
			t.Error("expected validation error for invalid direction")
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSwipeRepository(db)

		record := models.NewSwipeRecord(testTrack("t1"), models.SwipeLeft, 0.2, "disliked_it", "session-1")
		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create swipe: %v", err)
		}

		got, err := repo.Get(record.ID())
		if err != nil {
			t.Fatalf("failed to get swipe: %v", err)
		}

		if got.TrackID() != "t1" {
			t.Errorf("expected track id t1, got %s", got.TrackID())
		}
		if got.Direction() != models.SwipeLeft {
			t.Errorf("expected direction left, got %s", got.Direction())
		}
		if got.Rating() != 0.2 || got.Label() != "disliked_it" {
			t.Errorf("expected (0.2, disliked_it), got (%v, %s)", got.Rating(), got.Label())
		}
		if got.Liked() {
			t.Error("left swipe should not report liked")
		}
	})

	t.Run("Get Nonexistent", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSwipeRepository(db)

		if _, err := repo.Get("missing"); err == nil {
			t.Error("expected error for missing swipe")
		}
	})

	t.Run("GetByTrackID Returns Latest", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSwipeRepository(db)

		first := models.NewSwipeRecord(testTrack("t1"), models.SwipeLeft, 0.2, "disliked_it", "session-1")
		if err := repo.Create(first); err != nil {
			t.Fatalf("failed to create swipe: %v", err)
		}

		second := models.NewSwipeRecord(testTrack("t1"), models.SwipeRight, 0.8, "loved_it", "session-2")
		if err := repo.Create(second); err != nil {
			t.Fatalf("failed to create swipe: %v", err)
		}

		got, err := repo.GetByTrackID("t1")
		if err != nil {
			t.Fatalf("failed to get swipe by track: %v", err)
		}

		if got.ID() != second.ID() {
			t.Errorf("expected latest swipe %s, got %s", second.ID(), got.ID())
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSwipeRepository(db)

		record := models.NewSwipeRecord(testTrack("t1"), models.SwipeLeft, 0.2, "disliked_it", "session-1")
		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create swipe: %v", err)
		}

		updated := models.RehydrateSwipeRecord(
			record.ID(), record.Sequence(), record.TrackID(),
			record.Title(), record.Artist(), record.Album(),
			models.SwipeRight, 0.8, "loved_it", record.SessionID(),
			record.CreatedAt(), record.UpdatedAt(), nil,
		)
		if err := repo.Update(updated); err != nil {
			t.Fatalf("failed to update swipe: %v", err)
		}

		got, err := repo.Get(record.ID())
		if err != nil {
			t.Fatalf("failed to get swipe: %v", err)
		}
		if got.Direction() != models.SwipeRight || got.Rating() != 0.8 {
			t.Errorf("expected updated outcome, got (%s, %v)", got.Direction(), got.Rating())
		}
	})

	t.Run("Delete Is Soft", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSwipeRepository(db)

		record := models.NewSwipeRecord(testTrack("t1"), models.SwipeRight, 0.8, "loved_it", "session-1")
		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create swipe: %v", err)
		}

		if err := repo.Delete(record.ID()); err != nil {
			t.Fatalf("failed to delete swipe: %v", err)
		}

		if _, err := repo.Get(record.ID()); err == nil {
			t.Error("expected deleted swipe to be hidden from Get")
		}

		// Row survives the soft delete
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM swipes WHERE id = ?", record.ID()).Scan(&count); err != nil {
			t.Fatalf("failed to count rows: %v", err)
		}
		if count != 1 {
			t.Errorf("expected soft-deleted row to remain, got %d rows", count)
		}

		if err := repo.Delete(record.ID()); err == nil {
			t.Error("expected error deleting an already-deleted swipe")
		}
	})

	t.Run("List With Criteria", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSwipeRepository(db)

		swipes := []*models.SwipeRecord{
			models.NewSwipeRecord(testTrack("t1"), models.SwipeRight, 0.8, "loved_it", "session-1"),
			models.NewSwipeRecord(testTrack("t2"), models.SwipeLeft, 0.2, "disliked_it", "session-1"),
			models.NewSwipeRecord(testTrack("t3"), models.SwipeRight, 0.8, "loved_it", "session-2"),
		}
		for _, s := range swipes {
			if err := repo.Create(s); err != nil {
				t.Fatalf("failed to create swipe: %v", err)
			}
		}

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list swipes: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 swipes, got %d", len(all))
		}

		// Sequence ordering mirrors insertion order
		if all[0].TrackID() != "t1" || all[2].TrackID() != "t3" {
			t.Errorf("expected sequence ordering, got %s..%s", all[0].TrackID(), all[2].TrackID())
		}

		liked, err := repo.List(map[string]any{"liked": true})
		if err != nil {
			t.Fatalf("failed to list liked swipes: %v", err)
		}
		if len(liked) != 2 {
			t.Errorf("expected 2 liked swipes, got %d", len(liked))
		}

		session, err := repo.List(map[string]any{"session_id": "session-2"})
		if err != nil {
			t.Fatalf("failed to list session swipes: %v", err)
		}
		if len(session) != 1 || session[0].TrackID() != "t3" {
			t.Errorf("expected session-2 swipe on t3, got %d records", len(session))
		}

		left, err := repo.List(map[string]any{"direction": "left"})
		if err != nil {
			t.Fatalf("failed to list left swipes: %v", err)
		}
		if len(left) != 1 || left[0].TrackID() != "t2" {
			t.Errorf("expected one left swipe on t2, got %d records", len(left))
		}
	})

	t.Run("List Excludes Deleted", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSwipeRepository(db)

		record := models.NewSwipeRecord(testTrack("t1"), models.SwipeRight, 0.8, "loved_it", "session-1")
		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create swipe: %v", err)
		}
		if err := repo.Delete(record.ID()); err != nil {
			t.Fatalf("failed to delete swipe: %v", err)
		}

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list swipes: %v", err)
		}
		if len(all) != 0 {
			t.Errorf("expected empty list, got %d records", len(all))
		}
	})
}
