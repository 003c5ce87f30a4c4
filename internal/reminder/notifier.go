package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// TimerNotifier is an in-process Notifier backed by timers. When a
// scheduled time arrives it logs the notification; it stands in for a
// platform notification service in the CLI and web companion.
type TimerNotifier struct {
	mu     sync.Mutex
	nextID int
	timers map[string]*time.Timer
}

// NewTimerNotifier returns a ready-to-use TimerNotifier.
func NewTimerNotifier() *TimerNotifier {
	return &TimerNotifier{timers: make(map[string]*time.Timer)}
}

// Schedule registers a one-shot notification and returns its id.
func (n *TimerNotifier) Schedule(ctx context.Context, at time.Time, title, body string) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := fmt.Sprintf("notification-%d", n.nextID)

	n.timers[id] = time.AfterFunc(time.Until(at), func() {
		slog.Info("notification fired", "id", id, "title", title, "body", body)
		n.mu.Lock()
		delete(n.timers, id)
		n.mu.Unlock()
	})
	return id, nil
}

// Cancel stops a scheduled notification. Cancelling an unknown or already
// fired id is not an error.
func (n *TimerNotifier) Cancel(ctx context.Context, id string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if timer, ok := n.timers[id]; ok {
		timer.Stop()
		delete(n.timers, id)
	}
	return nil
}
