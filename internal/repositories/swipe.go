package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/sift/internal/models"
	"github.com/desertthunder/sift/internal/shared"
)

// SwipeRepository implements models.Repository[*models.SwipeRecord] for the
// local swipe history, with soft delete support and direction-based lookups.
//
// Every committed swipe is recorded here so the history commands can list and
// export liked tracks without a network round trip.
type SwipeRepository struct {
	db *sql.DB
}

// NewSwipeRepository creates a new SwipeRepository with the given database connection
func NewSwipeRepository(db *sql.DB) *SwipeRepository {
	return &SwipeRepository{db: db}
}

// Create inserts a new [models.SwipeRecord] into the database with generated ID and sequence
func (r *SwipeRepository) Create(record *models.SwipeRecord) error {
	sequence, err := NextSequence(r.db, "swipes")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	record.SetID(id)
	record.SetSequence(sequence)

	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO swipes (id, sequence, track_id, title, artist, album, direction, rating, label, session_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		record.TrackID(),
		record.Title(),
		record.Artist(),
		record.Album(),
		string(record.Direction()),
		record.Rating(),
		record.Label(),
		record.SessionID(),
		record.CreatedAt(),
		record.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert swipe: %w", err)
	}

	return nil
}

// Get retrieves a swipe by ID, excluding soft-deleted records
func (r *SwipeRepository) Get(id string) (*models.SwipeRecord, error) {
	query := `
		SELECT id, sequence, track_id, title, artist, album, direction, rating, label, session_id, created_at, updated_at, deleted_at
		FROM swipes
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByTrackID retrieves the most recent swipe for a track
func (r *SwipeRepository) GetByTrackID(trackID string) (*models.SwipeRecord, error) {
	query := `
		SELECT id, sequence, track_id, title, artist, album, direction, rating, label, session_id, created_at, updated_at, deleted_at
		FROM swipes
		WHERE track_id = ? AND deleted_at IS NULL
		ORDER BY sequence DESC
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRow(query, trackID))
}

// Update modifies an existing swipe in the database
func (r *SwipeRepository) Update(record *models.SwipeRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	record.Touch()

	query := `
		UPDATE swipes
		SET direction = ?, rating = ?, label = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		string(record.Direction()),
		record.Rating(),
		record.Label(),
		record.UpdatedAt(),
		record.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update swipe: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("swipe not found or already deleted: %s", record.ID())
	}

	return nil
}

// Delete soft-deletes a swipe by ID
func (r *SwipeRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE swipes
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete swipe: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("swipe not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all swipes matching the given criteria, excluding soft-deleted records.
//
// Supported criteria: "direction" (string), "session_id" (string), "liked" (bool).
func (r *SwipeRepository) List(criteria map[string]any) ([]*models.SwipeRecord, error) {
	query := `
		SELECT id, sequence, track_id, title, artist, album, direction, rating, label, session_id, created_at, updated_at, deleted_at
		FROM swipes
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if direction, ok := criteria["direction"].(string); ok && direction != "" {
		query += " AND direction = ?"
		args = append(args, direction)
	}

	if liked, ok := criteria["liked"].(bool); ok && liked {
		query += " AND direction = ?"
		args = append(args, string(models.SwipeRight))
	}

	if sessionID, ok := criteria["session_id"].(string); ok && sessionID != "" {
		query += " AND session_id = ?"
		args = append(args, sessionID)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query swipes: %w", err)
	}
	defer rows.Close()

	var records []*models.SwipeRecord
	for rows.Next() {
		record, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// scanOne scans a single [sql.Row] into a [models.SwipeRecord]
func (r *SwipeRepository) scanOne(row *sql.Row) (*models.SwipeRecord, error) {
	record, err := scanSwipe(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("swipe not found")
	}
	return record, err
}

// scanRow scans the current [sql.Rows] row into a [models.SwipeRecord]
func (r *SwipeRepository) scanRow(rows *sql.Rows) (*models.SwipeRecord, error) {
	return scanSwipe(rows.Scan)
}

func scanSwipe(scan func(dest ...any) error) (*models.SwipeRecord, error) {
	var (
		id        string
		sequence  int
		trackID   string
		title     string
		artist    string
		album     sql.NullString
		direction string
		rating    float64
		label     string
		sessionID sql.NullString
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := scan(&id, &sequence, &trackID, &title, &artist, &album, &direction, &rating, &label, &sessionID, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}

	return models.RehydrateSwipeRecord(
		id,
		sequence,
		trackID,
		title,
		artist,
		album.String,
		models.SwipeDirection(direction),
		rating,
		label,
		sessionID.String,
		createdAt,
		updatedAt,
		deleted,
	), nil
}
