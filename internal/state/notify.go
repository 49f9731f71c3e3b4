// Package state holds the console's view-state containers: the current lead
// list, the selected lead detail, the bulk selection, the activity feed and
// the open bulk-job view. Each container owns its slice of state behind a
// mutex and exposes action methods plus a read-only snapshot for rendering.
// Backend errors are converted to notifications here and are not re-thrown.
package state

// Notifier surfaces user-visible notifications. The web layer implements it
// with flash messages; tests use a recording fake.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// nopNotifier is used when no notifier is wired.
type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}

func orNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
