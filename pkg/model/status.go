package model

// Status is the lifecycle state of a booking. The lifecycle is strictly
// ordered with one lateral loop between InProgress and Paused.
type Status string

const (
	StatusPending         Status = "pending"
	StatusPicked          Status = "picked"
	StatusInProgress      Status = "in_progress"
	StatusPaused          Status = "paused"
	StatusCompleted       Status = "completed"
	StatusPaymentVerified Status = "payment_verified"
)

// transitions is the authoritative table of allowed status moves.
// Anything not listed here is rejected before a write is even attempted.
var transitions = map[Status][]Status{
	StatusPending:         {StatusPicked},
	StatusPicked:          {StatusInProgress},
	StatusInProgress:      {StatusPaused, StatusCompleted},
	StatusPaused:          {StatusInProgress, StatusCompleted},
	StatusCompleted:       {StatusPaymentVerified},
	StatusPaymentVerified: {},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether the move s -> next is allowed.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == StatusPaymentVerified
}

// IsActive reports whether the assigned cleaner is still working the booking,
// i.e. it has been claimed but payment has not been verified yet.
func (s Status) IsActive() bool {
	switch s {
	case StatusPicked, StatusInProgress, StatusPaused, StatusCompleted:
		return true
	default:
		return false
	}
}

// AllStatuses returns every valid status, in lifecycle order.
func AllStatuses() []Status {
	return []Status{
		StatusPending,
		StatusPicked,
		StatusInProgress,
		StatusPaused,
		StatusCompleted,
		StatusPaymentVerified,
	}
}
