package workprogress

import (
	"errors"
	"time"

	"backend-workhub/internal/shared/calendar"
)

type Status string

const (
	StatusRunning Status = "Running"
	StatusStopped Status = "Stopped"
)

// HoursPolicy decides what Stop writes into TotalWorkHours.
type HoursPolicy string

const (
	// PolicyOverwrite keeps only the latest start→stop interval.
	PolicyOverwrite HoursPolicy = "overwrite"
	// PolicyAccumulate sums every interval tracked during the day.
	PolicyAccumulate HoursPolicy = "accumulate"
)

func ParseHoursPolicy(s string) (HoursPolicy, error) {
	switch HoursPolicy(s) {
	case PolicyOverwrite, "":
		return PolicyOverwrite, nil
	case PolicyAccumulate:
		return PolicyAccumulate, nil
	}
	return "", errors.New("unknown tracker hours policy: " + s)
}

var (
	ErrAlreadyRunning  = errors.New("tracker is already running")
	ErrAlreadyStopped  = errors.New("tracker is already stopped")
	ErrNoActiveSession = errors.New("no tracker found for today")
)

// IsConflict reports whether err is a tracker state violation. These are
// deterministic for the current state and must not be retried.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyRunning) || errors.Is(err, ErrAlreadyStopped) || errors.Is(err, ErrNoActiveSession)
}

// Session is one employee's work record for one calendar day.
type Session struct {
	ID             string     `json:"id"`
	EmployeeID     string     `json:"employeeId"`
	CompanyID      string     `json:"companyId"`
	Date           time.Time  `json:"date"`
	StartTime      *time.Time `json:"startTime,omitempty"`
	EndTime        *time.Time `json:"endTime,omitempty"`
	TotalWorkHours *float64   `json:"totalWorkHours,omitempty"`
	TrackerStatus  Status     `json:"trackerStatus"`
	IsDeleted      bool       `json:"isDeleted"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type StartRequest struct {
	EmployeeID string `json:"employeeId"`
	CompanyID  string `json:"companyId"`
}

type StopRequest struct {
	EmployeeID string `json:"employeeId"`
}

// FilterRequest selects either a single day (Date) or a closed range
// (StartDate..EndDate).
type FilterRequest struct {
	EmployeeID string        `json:"employeeId"`
	Date       *calendar.Day `json:"date"`
	StartDate  *calendar.Day `json:"startDate"`
	EndDate    *calendar.Day `json:"endDate"`
}

// Event is published to the company stream on every tracker transition.
type Event struct {
	Type    string  `json:"type"`
	Session Session `json:"session"`
}

const (
	EventStarted = "tracker.started"
	EventStopped = "tracker.stopped"
)
