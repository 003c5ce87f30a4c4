package storage

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Registers the sqlite driver

	"pillscout/internal/domain"
)

// Error taxonomy for storage failures. Callers test with errors.Is and
// surface these to the user; no write is ever retried.
var (
	// ErrUnavailable means the database file could not be opened at all.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrSchema means the table bootstrap failed; persistence features are
	// unusable for this session.
	ErrSchema = errors.New("schema initialization failed")
	// ErrWriteFailed means a write was rejected by the engine. Application
	// state is consistent with "the write did not happen".
	ErrWriteFailed = errors.New("write failed")
)

// DB represents a wrapper around the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a database connection and ensures the schema exists.
// The schema statements are all CREATE TABLE IF NOT EXISTS, so Open is safe
// to call on every startup with no effect on existing data. The connection
// is capped at one: all statements execute sequentially through a single
// handle, matching the app's low, user-triggered write volume.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Reset drops and recreates all three tables, discarding every record.
// Destructive; reachable only from an explicit reset invocation, never
// during normal startup.
func (db *DB) Reset() error {
	if _, err := db.conn.Exec(dropTables); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return nil
}

// InsertBookmark appends a bookmark row and returns its id. No uniqueness
// check is performed here; use ToggleBookmark for toggle semantics.
func (db *DB) InsertBookmark(drugName, labeler, imprint string) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO pills_bookmark (drug_name, labeler, mpc_imprint)
		VALUES (?, ?, ?)
	`, drugName, labeler, imprint)
	if err != nil {
		return 0, fmt.Errorf("insert bookmark %s: %w: %v", drugName, ErrWriteFailed, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert bookmark %s: %w: %v", drugName, ErrWriteFailed, err)
	}
	return id, nil
}

// DeleteBookmark removes a bookmark by its surrogate id.
func (db *DB) DeleteBookmark(id int64) error {
	_, err := db.conn.Exec(`DELETE FROM pills_bookmark WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete bookmark %d: %w: %v", id, ErrWriteFailed, err)
	}
	return nil
}

// DeleteBookmarkMatching removes every bookmark matching the exact
// (drug name, labeler, imprint) triple. Some screens only know the triple,
// not the id, so both addressing modes are supported.
func (db *DB) DeleteBookmarkMatching(drugName, labeler, imprint string) error {
	_, err := db.conn.Exec(`
		DELETE FROM pills_bookmark
		WHERE drug_name = ? AND labeler = ? AND mpc_imprint = ?
	`, drugName, labeler, imprint)
	if err != nil {
		return fmt.Errorf("delete bookmark %s: %w: %v", drugName, ErrWriteFailed, err)
	}
	return nil
}

// FindBookmark returns the first bookmark matching the triple, or nil when
// no row matches.
func (db *DB) FindBookmark(drugName, labeler, imprint string) (*domain.Bookmark, error) {
	var b domain.Bookmark
	row := db.conn.QueryRow(`
		SELECT id, drug_name, labeler, mpc_imprint
		FROM pills_bookmark
		WHERE drug_name = ? AND labeler = ? AND mpc_imprint = ?
	`, drugName, labeler, imprint)

	err := row.Scan(&b.ID, &b.DrugName, &b.Labeler, &b.Imprint)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find bookmark %s: %w", drugName, err)
	}
	return &b, nil
}

// ToggleBookmark performs the check-then-act bookmark toggle as one call:
// if any row matches the triple, every matching row is deleted; otherwise a
// new row is inserted. It reports whether the bookmark was added.
func (db *DB) ToggleBookmark(drugName, labeler, imprint string) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, fmt.Errorf("toggle bookmark %s: %w: %v", drugName, ErrWriteFailed, err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRow(`
		SELECT id FROM pills_bookmark
		WHERE drug_name = ? AND labeler = ? AND mpc_imprint = ?
	`, drugName, labeler, imprint).Scan(&id)

	switch {
	case err == sql.ErrNoRows:
		if _, err := tx.Exec(`
			INSERT INTO pills_bookmark (drug_name, labeler, mpc_imprint)
			VALUES (?, ?, ?)
		`, drugName, labeler, imprint); err != nil {
			return false, fmt.Errorf("toggle bookmark %s: %w: %v", drugName, ErrWriteFailed, err)
		}
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("toggle bookmark %s: %w: %v", drugName, ErrWriteFailed, err)
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("toggle bookmark %s: %w", drugName, err)
	default:
		if _, err := tx.Exec(`
			DELETE FROM pills_bookmark
			WHERE drug_name = ? AND labeler = ? AND mpc_imprint = ?
		`, drugName, labeler, imprint); err != nil {
			return false, fmt.Errorf("toggle bookmark %s: %w: %v", drugName, ErrWriteFailed, err)
		}
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("toggle bookmark %s: %w: %v", drugName, ErrWriteFailed, err)
		}
		return false, nil
	}
}

// ListBookmarks returns all bookmarks in insertion order.
func (db *DB) ListBookmarks() ([]domain.Bookmark, error) {
	rows, err := db.conn.Query(`
		SELECT id, drug_name, labeler, mpc_imprint
		FROM pills_bookmark
	`)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []domain.Bookmark
	for rows.Next() {
		var b domain.Bookmark
		if err := rows.Scan(&b.ID, &b.DrugName, &b.Labeler, &b.Imprint); err != nil {
			return nil, fmt.Errorf("scan bookmark row: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

// InsertReminder appends a reminder row and returns its id. The taken flag
// starts false and the created/updated timestamps are set by the engine.
func (db *DB) InsertReminder(r domain.Reminder) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO reminders (drug_name, shape, instructions, shapeimage, time)
		VALUES (?, ?, ?, ?, ?)
	`, r.DrugName, r.Shape, r.Instructions, r.ShapeImage, r.Time)
	if err != nil {
		return 0, fmt.Errorf("insert reminder %s: %w: %v", r.DrugName, ErrWriteFailed, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert reminder %s: %w: %v", r.DrugName, ErrWriteFailed, err)
	}
	return id, nil
}

// ListReminders returns all reminders in insertion order.
func (db *DB) ListReminders() ([]domain.Reminder, error) {
	rows, err := db.conn.Query(`
		SELECT id, drug_name, shape, instructions, shapeimage, time,
		       is_taken, taken_date, created_at, updated_at
		FROM reminders
	`)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	var reminders []domain.Reminder
	for rows.Next() {
		var r domain.Reminder
		var takenDate sql.NullString
		if err := rows.Scan(
			&r.ID,
			&r.DrugName,
			&r.Shape,
			&r.Instructions,
			&r.ShapeImage,
			&r.Time,
			&r.Taken,
			&takenDate,
			&r.CreatedAt,
			&r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reminder row: %w", err)
		}
		r.TakenDate = takenDate.String
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

// MarkReminderTaken records that the reminder was taken at the given time.
// Partial update: only the taken flag, taken date and updated_at change.
func (db *DB) MarkReminderTaken(id int64, takenAt string) error {
	_, err := db.conn.Exec(`
		UPDATE reminders
		SET is_taken = 1, taken_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, takenAt, id)
	if err != nil {
		return fmt.Errorf("mark reminder %d taken: %w: %v", id, ErrWriteFailed, err)
	}
	return nil
}

// DeleteReminder removes a reminder by id.
func (db *DB) DeleteReminder(id int64) error {
	_, err := db.conn.Exec(`DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete reminder %d: %w: %v", id, ErrWriteFailed, err)
	}
	return nil
}

// InsertPrescription appends a prescription row and returns its id.
// Description and back image are stored as empty strings when absent.
func (db *DB) InsertPrescription(p domain.Prescription) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO prescriptions (title, description, image1, image2)
		VALUES (?, ?, ?, ?)
	`, p.Title, p.Description, p.FrontImage, p.BackImage)
	if err != nil {
		return 0, fmt.Errorf("insert prescription %s: %w: %v", p.Title, ErrWriteFailed, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert prescription %s: %w: %v", p.Title, ErrWriteFailed, err)
	}
	return id, nil
}

// ListPrescriptions returns all prescriptions, newest first.
func (db *DB) ListPrescriptions() ([]domain.Prescription, error) {
	rows, err := db.conn.Query(`
		SELECT id, title, description, image1, image2, created_at, updated_at
		FROM prescriptions
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list prescriptions: %w", err)
	}
	defer rows.Close()

	var prescriptions []domain.Prescription
	for rows.Next() {
		var p domain.Prescription
		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Description,
			&p.FrontImage,
			&p.BackImage,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan prescription row: %w", err)
		}
		prescriptions = append(prescriptions, p)
	}
	return prescriptions, rows.Err()
}

// DeletePrescription removes a prescription by id.
func (db *DB) DeletePrescription(id int64) error {
	_, err := db.conn.Exec(`DELETE FROM prescriptions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete prescription %d: %w: %v", id, ErrWriteFailed, err)
	}
	return nil
}
