package reminder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"pillscout/internal/storage"
)

type fakeNotifier struct {
	scheduled []string // bodies, in order
	cancelled []string // ids, in order
	lastID    string
	failNext  bool
}

func (f *fakeNotifier) Schedule(ctx context.Context, at time.Time, title, body string) (string, error) {
	if f.failNext {
		return "", context.DeadlineExceeded
	}
	f.lastID = "n-" + body
	f.scheduled = append(f.scheduled, body)
	return f.lastID, nil
}

func (f *fakeNotifier) Cancel(ctx context.Context, id string) error {
	f.cancelled = append(f.cancelled, id)
	return nil
}

func newTestService(t *testing.T) (*Service, *storage.DB, *fakeNotifier) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "reminder_test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	notifier := &fakeNotifier{}
	return NewService(db, notifier), db, notifier
}

func TestCreateSchedulesAndInserts(t *testing.T) {
	svc, db, notifier := newTestService(t)
	at := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	id, err := svc.Create(context.Background(), Input{
		DrugName:     "Metformin",
		Shape:        "Tablet",
		Instructions: "After meal",
		At:           at,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero reminder id")
	}

	if len(notifier.scheduled) != 1 {
		t.Fatalf("expected exactly one scheduled notification, got %d", len(notifier.scheduled))
	}
	if notifier.scheduled[0] != "Take Metformin - After meal" {
		t.Errorf("unexpected notification body %q", notifier.scheduled[0])
	}
	if len(notifier.cancelled) != 0 {
		t.Errorf("nothing should be cancelled on success, got %v", notifier.cancelled)
	}

	reminders, err := db.ListReminders()
	if err != nil {
		t.Fatalf("ListReminders failed: %v", err)
	}
	if len(reminders) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(reminders))
	}
	if reminders[0].Time != at.Format(time.RFC3339) {
		t.Errorf("stored time %q, want %q", reminders[0].Time, at.Format(time.RFC3339))
	}
}

func TestCreateRejectsUnknownVocabulary(t *testing.T) {
	svc, _, notifier := newTestService(t)

	tests := []struct {
		name string
		in   Input
	}{
		{"unknown shape", Input{
			DrugName: "X", Shape: "Hexagon", Instructions: "After meal", At: time.Now(),
		}},
		{"unknown instruction", Input{
			DrugName: "X", Shape: "Tablet", Instructions: "Whenever", At: time.Now(),
		}},
		{"missing drug name", Input{
			Shape: "Tablet", Instructions: "After meal", At: time.Now(),
		}},
		{"missing time", Input{
			DrugName: "X", Shape: "Tablet", Instructions: "After meal",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tt.in); err == nil {
				t.Error("expected validation error")
			}
		})
	}
	if len(notifier.scheduled) != 0 {
		t.Errorf("invalid input must not schedule notifications, got %d", len(notifier.scheduled))
	}
}

func TestCreateCancelsNotificationWhenInsertFails(t *testing.T) {
	svc, db, notifier := newTestService(t)

	// Closing the store makes the insert fail after scheduling succeeded.
	db.Close()

	_, err := svc.Create(context.Background(), Input{
		DrugName:     "Lisinopril",
		Shape:        "Capsules",
		Instructions: "With water",
		At:           time.Now().Add(time.Hour),
	})
	if err == nil {
		t.Fatal("expected insert failure")
	}

	if len(notifier.scheduled) != 1 {
		t.Fatalf("expected one scheduled notification, got %d", len(notifier.scheduled))
	}
	if len(notifier.cancelled) != 1 || notifier.cancelled[0] != notifier.lastID {
		t.Errorf("the scheduled notification must be cancelled, got cancels %v", notifier.cancelled)
	}
}

func TestCreateSchedulingFailureSkipsInsert(t *testing.T) {
	svc, db, notifier := newTestService(t)
	notifier.failNext = true

	_, err := svc.Create(context.Background(), Input{
		DrugName:     "Metformin",
		Shape:        "Tablet",
		Instructions: "After meal",
		At:           time.Now().Add(time.Hour),
	})
	if err == nil {
		t.Fatal("expected scheduling failure")
	}

	reminders, err := db.ListReminders()
	if err != nil {
		t.Fatalf("ListReminders failed: %v", err)
	}
	if len(reminders) != 0 {
		t.Errorf("no row should be inserted when scheduling fails, got %d", len(reminders))
	}
}

func TestMarkTakenRoundTrip(t *testing.T) {
	svc, _, _ := newTestService(t)

	id, err := svc.Create(context.Background(), Input{
		DrugName:     "Metformin",
		Shape:        "Tablet",
		Instructions: "Before meal",
		At:           time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	takenAt := time.Date(2026, 9, 1, 8, 5, 0, 0, time.UTC)
	if err := svc.MarkTaken(id, takenAt); err != nil {
		t.Fatalf("MarkTaken failed: %v", err)
	}

	reminders, err := svc.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(reminders) != 1 || !reminders[0].Taken {
		t.Fatalf("expected the reminder to be taken, got %+v", reminders)
	}
	if reminders[0].TakenDate != takenAt.Format(time.RFC3339) {
		t.Errorf("taken date %q, want %q", reminders[0].TakenDate, takenAt.Format(time.RFC3339))
	}
}

func TestTimerNotifierCancel(t *testing.T) {
	n := NewTimerNotifier()

	id, err := n.Schedule(context.Background(), time.Now().Add(time.Hour), "Pill Reminder", "Take X")
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if err := n.Cancel(context.Background(), id); err != nil {
		t.Errorf("Cancel failed: %v", err)
	}
	if err := n.Cancel(context.Background(), "unknown-id"); err != nil {
		t.Errorf("cancelling an unknown id should not error: %v", err)
	}
}
