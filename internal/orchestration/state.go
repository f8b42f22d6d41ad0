// Package orchestration owns the per-session lifecycle of a salary
// prediction and of the on-demand panels of the results view.
package orchestration

// State of the salary prediction page
type State int

const (
	StateIdle State = iota
	StateLoading
	StateResult
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateResult:
		return "result"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Event drives a State change
type Event int

const (
	// EventSubmit is a valid form submission or a regenerate request
	EventSubmit Event = iota
	// EventSucceeded is the completion of the current prediction
	EventSucceeded
	// EventFailed is the failure of the current prediction
	EventFailed
	// EventDismiss closes the error notification
	EventDismiss
)

func (e Event) String() string {
	switch e {
	case EventSubmit:
		return "submit"
	case EventSucceeded:
		return "succeeded"
	case EventFailed:
		return "failed"
	case EventDismiss:
		return "dismiss"
	}
	return "unknown"
}

// Transition returns the state after e. Events that do not apply to s leave
// it unchanged; a submit is accepted from every state, including loading,
// where it supersedes the running prediction.
func Transition(s State, e Event) State {
	switch e {
	case EventSubmit:
		return StateLoading
	case EventSucceeded:
		if s == StateLoading {
			return StateResult
		}
	case EventFailed:
		if s == StateLoading {
			return StateError
		}
	case EventDismiss:
		if s == StateError {
			return StateIdle
		}
	}
	return s
}
