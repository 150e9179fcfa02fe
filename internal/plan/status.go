package plan

import "fmt"

// Status represents the lifecycle state of a task in the plan document
type Status string

const (
	// StatusNotStarted is a task nobody has picked up yet: "- [ ]"
	StatusNotStarted Status = "not_started"
	// StatusInProgress is a task an agent is working on: "- [~]"
	StatusInProgress Status = "in_progress"
	// StatusCompleted is a finished task: "- [x]"
	StatusCompleted Status = "completed"
	// StatusBlocked is a task that cannot proceed: "- [!]"
	StatusBlocked Status = "blocked"
)

// IsValid checks if a status value is valid
func (s Status) IsValid() bool {
	for _, valid := range AllStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// AllStatuses returns all valid status values
func AllStatuses() []Status {
	return []Status{StatusNotStarted, StatusInProgress, StatusCompleted, StatusBlocked}
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// Marker returns the checkbox character used for the status in a task header.
func (s Status) Marker() string {
	switch s {
	case StatusCompleted:
		return "x"
	case StatusInProgress:
		return "~"
	case StatusBlocked:
		return "!"
	default:
		return " "
	}
}

// StatusFromMarker maps a checkbox character back to a status.
func StatusFromMarker(marker string) Status {
	switch marker {
	case "x":
		return StatusCompleted
	case "~":
		return StatusInProgress
	case "!":
		return StatusBlocked
	default:
		return StatusNotStarted
	}
}

// ParseStatus converts user input into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", &InvalidStatusError{Value: s}
	}
	return status, nil
}

// InvalidStatusError is returned for a status value outside AllStatuses.
type InvalidStatusError struct {
	Value string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid status %q (must be one of %v)", e.Value, AllStatuses())
}
