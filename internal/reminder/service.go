// Package reminder coordinates reminder rows with their one-shot
// notifications. Creating a reminder is a single operation: schedule the
// notification, insert the row, and cancel the notification again if the
// insert fails, so the two can never silently diverge.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"pillscout/internal/domain"
	"pillscout/internal/storage"
)

// Notifier schedules and cancels one-shot local notifications. It is the
// only collaborator capability the core models directly; implementations
// may wrap a platform notification service or the in-process timer
// notifier in this package.
type Notifier interface {
	Schedule(ctx context.Context, at time.Time, title, body string) (string, error)
	Cancel(ctx context.Context, id string) error
}

// Input is a reminder creation request. Shape and Instructions must come
// from the fixed vocabularies; ShapeImage is an optional captured image URI.
type Input struct {
	DrugName     string    `validate:"required"`
	Shape        string    `validate:"required,doseform"`
	Instructions string    `validate:"required,doseinstruction"`
	ShapeImage   string    `validate:"omitempty,uri"`
	At           time.Time `validate:"required"`
}

// Service owns reminder lifecycle operations.
type Service struct {
	db       *storage.DB
	notifier Notifier
	validate *validator.Validate
}

// NewService wires the store and notifier together.
func NewService(db *storage.DB, notifier Notifier) *Service {
	v := validator.New()
	v.RegisterValidation("doseform", func(fl validator.FieldLevel) bool {
		return domain.IsDoseForm(fl.Field().String())
	})
	v.RegisterValidation("doseinstruction", func(fl validator.FieldLevel) bool {
		return domain.IsDoseInstruction(fl.Field().String())
	})
	return &Service{db: db, notifier: notifier, validate: v}
}

// Create validates the input, schedules the notification and inserts the
// reminder row. If the insert fails the scheduled notification is cancelled
// and the write error returned; a cancel failure on that path is logged,
// not returned, since the write error is what the caller must act on.
func (s *Service) Create(ctx context.Context, in Input) (int64, error) {
	if err := s.validate.Struct(in); err != nil {
		return 0, fmt.Errorf("invalid reminder: %w", err)
	}

	body := fmt.Sprintf("Take %s - %s", in.DrugName, in.Instructions)
	notificationID, err := s.notifier.Schedule(ctx, in.At, "Pill Reminder", body)
	if err != nil {
		return 0, fmt.Errorf("schedule notification: %w", err)
	}

	id, err := s.db.InsertReminder(domain.Reminder{
		DrugName:     in.DrugName,
		Shape:        in.Shape,
		Instructions: in.Instructions,
		ShapeImage:   in.ShapeImage,
		Time:         in.At.Format(time.RFC3339),
	})
	if err != nil {
		if cerr := s.notifier.Cancel(ctx, notificationID); cerr != nil {
			slog.Warn("failed to cancel notification after insert failure",
				"notification_id", notificationID, "error", cerr)
		}
		return 0, err
	}
	return id, nil
}

// List returns all reminders.
func (s *Service) List() ([]domain.Reminder, error) {
	return s.db.ListReminders()
}

// MarkTaken records that the reminder was taken at the given time.
func (s *Service) MarkTaken(id int64, takenAt time.Time) error {
	return s.db.MarkReminderTaken(id, takenAt.Format(time.RFC3339))
}

// Delete removes a reminder by id.
func (s *Service) Delete(id int64) error {
	return s.db.DeleteReminder(id)
}
