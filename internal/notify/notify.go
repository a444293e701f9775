package notify

import (
	"sync"
	"time"

	"github.com/brewpoints/loyalty-backend/internal/logger"
)

// Kind is the visual flavor of a notification
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Modal is a blocking confirmation shown for payment and redemption
// outcomes. Amount is zero when the outcome carries no monetary figure.
type Modal struct {
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Amount    float64   `json:"amount,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier receives transient toasts and blocking modals from the engine.
// Implementations must not block the caller.
type Notifier interface {
	Toast(kind Kind, message string)
	ShowModal(modal Modal)
}

// Compile-time check to ensure LogNotifier implements Notifier
var _ Notifier = (*LogNotifier)(nil)

// LogNotifier writes notifications to the application log. It stands in for
// a real presentation layer when the service runs headless.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Toast logs a transient notification
func (n *LogNotifier) Toast(kind Kind, message string) {
	if kind == KindError {
		n.log.Warnw("toast", "kind", kind, "message", message)
		return
	}
	n.log.Infow("toast", "kind", kind, "message", message)
}

// ShowModal logs a modal notification
func (n *LogNotifier) ShowModal(modal Modal) {
	n.log.Infow("modal",
		"kind", modal.Kind,
		"title", modal.Title,
		"message", modal.Message,
		"amount", modal.Amount,
	)
}

// Compile-time check to ensure Recorder implements Notifier
var _ Notifier = (*Recorder)(nil)

// RecordedToast is one captured toast
type RecordedToast struct {
	Kind    Kind
	Message string
}

// Recorder captures notifications for assertions in tests
type Recorder struct {
	mu     sync.Mutex
	toasts []RecordedToast
	modals []Modal
}

// Toast records a toast
func (r *Recorder) Toast(kind Kind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, RecordedToast{Kind: kind, Message: message})
}

// ShowModal records a modal
func (r *Recorder) ShowModal(modal Modal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modals = append(r.modals, modal)
}

// Toasts returns the captured toasts
func (r *Recorder) Toasts() []RecordedToast {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RecordedToast, len(r.toasts))
	copy(out, r.toasts)
	return out
}

// Modals returns the captured modals
func (r *Recorder) Modals() []Modal {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Modal, len(r.modals))
	copy(out, r.modals)
	return out
}
