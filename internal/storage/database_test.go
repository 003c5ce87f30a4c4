package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"pillscout/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "pillscout_test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pillscout_test.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	if _, err := db.InsertBookmark("ASPIRIN", "Bayer", "BAYER"); err != nil {
		t.Fatalf("InsertBookmark failed: %v", err)
	}
	db.Close()

	// Reopening must apply the schema without touching existing rows.
	db2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer db2.Close()

	bookmarks, err := db2.ListBookmarks()
	if err != nil {
		t.Fatalf("ListBookmarks failed: %v", err)
	}
	if len(bookmarks) != 1 {
		t.Errorf("expected 1 bookmark to survive reopen, got %d", len(bookmarks))
	}
}

func TestOpenUnavailable(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "no", "such", "dir", "x.db"))
	if err == nil {
		t.Fatal("expected error opening database in missing directory")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestBookmarkCRUD(t *testing.T) {
	db := openTestDB(t)

	id, err := db.InsertBookmark("IBUPROFEN", "Advil", "ADVIL")
	if err != nil {
		t.Fatalf("InsertBookmark failed: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero id")
	}

	found, err := db.FindBookmark("IBUPROFEN", "Advil", "ADVIL")
	if err != nil {
		t.Fatalf("FindBookmark failed: %v", err)
	}
	if found == nil {
		t.Fatal("expected to find inserted bookmark")
	}
	if found.DrugName != "IBUPROFEN" || found.Labeler != "Advil" || found.Imprint != "ADVIL" {
		t.Errorf("unexpected bookmark: %+v", found)
	}

	missing, err := db.FindBookmark("NOPE", "", "")
	if err != nil {
		t.Fatalf("FindBookmark failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing bookmark, got %+v", missing)
	}

	if err := db.DeleteBookmark(id); err != nil {
		t.Fatalf("DeleteBookmark failed: %v", err)
	}
	bookmarks, err := db.ListBookmarks()
	if err != nil {
		t.Fatalf("ListBookmarks failed: %v", err)
	}
	if len(bookmarks) != 0 {
		t.Errorf("expected empty list after delete, got %d rows", len(bookmarks))
	}
}

func TestDeleteBookmarkMatchingRemovesDuplicatesOnly(t *testing.T) {
	db := openTestDB(t)

	// Duplicates are an allowed state: the store enforces no uniqueness.
	for i := 0; i < 3; i++ {
		if _, err := db.InsertBookmark("M367", "Mallinckrodt", "M367"); err != nil {
			t.Fatalf("InsertBookmark failed: %v", err)
		}
	}
	if _, err := db.InsertBookmark("M367", "Other Labs", "M367"); err != nil {
		t.Fatalf("InsertBookmark failed: %v", err)
	}

	if err := db.DeleteBookmarkMatching("M367", "Mallinckrodt", "M367"); err != nil {
		t.Fatalf("DeleteBookmarkMatching failed: %v", err)
	}

	bookmarks, err := db.ListBookmarks()
	if err != nil {
		t.Fatalf("ListBookmarks failed: %v", err)
	}
	if len(bookmarks) != 1 {
		t.Fatalf("expected only the non-matching row to remain, got %d rows", len(bookmarks))
	}
	if bookmarks[0].Labeler != "Other Labs" {
		t.Errorf("wrong surviving row: %+v", bookmarks[0])
	}
}

func TestToggleBookmark(t *testing.T) {
	db := openTestDB(t)

	added, err := db.ToggleBookmark("ACETAMINOPHEN", "Tylenol", "TY 500")
	if err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	if !added {
		t.Error("first toggle should add the bookmark")
	}

	added, err = db.ToggleBookmark("ACETAMINOPHEN", "Tylenol", "TY 500")
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if added {
		t.Error("second toggle should remove the bookmark")
	}

	bookmarks, err := db.ListBookmarks()
	if err != nil {
		t.Fatalf("ListBookmarks failed: %v", err)
	}
	if len(bookmarks) != 0 {
		t.Errorf("expected no bookmarks after toggle off, got %d", len(bookmarks))
	}
}

func TestReminderLifecycle(t *testing.T) {
	db := openTestDB(t)

	first, err := db.InsertReminder(domain.Reminder{
		DrugName:     "Metformin",
		Shape:        "Tablet",
		Instructions: "After meal",
		Time:         "2026-09-01T08:00:00Z",
	})
	if err != nil {
		t.Fatalf("InsertReminder failed: %v", err)
	}
	second, err := db.InsertReminder(domain.Reminder{
		DrugName:     "Lisinopril",
		Shape:        "Capsules",
		Instructions: "With water",
		Time:         "2026-09-01T20:00:00Z",
	})
	if err != nil {
		t.Fatalf("InsertReminder failed: %v", err)
	}

	if err := db.MarkReminderTaken(first, "2026-09-01T08:05:00Z"); err != nil {
		t.Fatalf("MarkReminderTaken failed: %v", err)
	}

	reminders, err := db.ListReminders()
	if err != nil {
		t.Fatalf("ListReminders failed: %v", err)
	}
	if len(reminders) != 2 {
		t.Fatalf("expected 2 reminders, got %d", len(reminders))
	}

	var taken, untouched *domain.Reminder
	for i := range reminders {
		switch reminders[i].ID {
		case first:
			taken = &reminders[i]
		case second:
			untouched = &reminders[i]
		}
	}
	if taken == nil || untouched == nil {
		t.Fatal("missing expected reminder rows")
	}
	if !taken.Taken || taken.TakenDate != "2026-09-01T08:05:00Z" {
		t.Errorf("taken reminder not updated: %+v", taken)
	}
	if untouched.Taken || untouched.TakenDate != "" {
		t.Errorf("other reminder should be unchanged: %+v", untouched)
	}

	if err := db.DeleteReminder(first); err != nil {
		t.Fatalf("DeleteReminder failed: %v", err)
	}
	reminders, err = db.ListReminders()
	if err != nil {
		t.Fatalf("ListReminders failed: %v", err)
	}
	if len(reminders) != 1 || reminders[0].ID != second {
		t.Errorf("expected only the second reminder to remain, got %+v", reminders)
	}
}

func TestPrescriptionDefaultsAndOrdering(t *testing.T) {
	db := openTestDB(t)

	// Absent description and back image are stored as empty strings.
	id, err := db.InsertPrescription(domain.Prescription{
		Title:      "Dr. Lee - March",
		FrontImage: "file:///scans/front-1.jpg",
	})
	if err != nil {
		t.Fatalf("InsertPrescription failed: %v", err)
	}

	prescriptions, err := db.ListPrescriptions()
	if err != nil {
		t.Fatalf("ListPrescriptions failed: %v", err)
	}
	if len(prescriptions) != 1 {
		t.Fatalf("expected 1 prescription, got %d", len(prescriptions))
	}
	got := prescriptions[0]
	if got.ID != id || got.Title != "Dr. Lee - March" {
		t.Errorf("unexpected prescription: %+v", got)
	}
	if got.Description != "" || got.BackImage != "" {
		t.Errorf("expected empty-string defaults, got description=%q back=%q", got.Description, got.BackImage)
	}
	if got.FrontImage != "file:///scans/front-1.jpg" {
		t.Errorf("front image mismatch: %q", got.FrontImage)
	}

	if err := db.DeletePrescription(id); err != nil {
		t.Fatalf("DeletePrescription failed: %v", err)
	}
	prescriptions, err = db.ListPrescriptions()
	if err != nil {
		t.Fatalf("ListPrescriptions failed: %v", err)
	}
	if len(prescriptions) != 0 {
		t.Errorf("expected empty list after delete, got %d", len(prescriptions))
	}
}

func TestResetDiscardsAllRecords(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.InsertBookmark("A", "B", "C"); err != nil {
		t.Fatalf("InsertBookmark failed: %v", err)
	}
	if _, err := db.InsertReminder(domain.Reminder{
		DrugName: "A", Shape: "Tablet", Instructions: "With water", Time: "t",
	}); err != nil {
		t.Fatalf("InsertReminder failed: %v", err)
	}
	if _, err := db.InsertPrescription(domain.Prescription{Title: "T", FrontImage: "f"}); err != nil {
		t.Fatalf("InsertPrescription failed: %v", err)
	}

	if err := db.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	bookmarks, err := db.ListBookmarks()
	if err != nil {
		t.Fatalf("ListBookmarks failed: %v", err)
	}
	reminders, err := db.ListReminders()
	if err != nil {
		t.Fatalf("ListReminders failed: %v", err)
	}
	prescriptions, err := db.ListPrescriptions()
	if err != nil {
		t.Fatalf("ListPrescriptions failed: %v", err)
	}
	if len(bookmarks)+len(reminders)+len(prescriptions) != 0 {
		t.Errorf("expected all tables empty after reset, got %d/%d/%d rows",
			len(bookmarks), len(reminders), len(prescriptions))
	}
}
