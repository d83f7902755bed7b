package testutil

import (
	"sync"

	"github.com/Veraticus/khata/internal/service"
)

// Notification is one recorded message.
type Notification struct {
	Message  string
	Severity service.Severity
}

// RecordingNotifier keeps every notification it receives.
type RecordingNotifier struct {
	got []Notification
	mu  sync.Mutex
}

// Notify implements service.Notifier.
func (r *RecordingNotifier) Notify(message string, severity service.Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, Notification{Message: message, Severity: severity})
}

// All returns the recorded notifications in order.
func (r *RecordingNotifier) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.got...)
}

// Last returns the most recent notification, or the zero value.
func (r *RecordingNotifier) Last() Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.got) == 0 {
		return Notification{}
	}
	return r.got[len(r.got)-1]
}
