package leave

import (
	"time"

	"backend-workhub/internal/shared/calendar"
)

const (
	StatusPending  = "Pending"
	StatusAccepted = "Accepted"
	StatusRejected = "Rejected"
)

var statuses = []string{StatusPending, StatusAccepted, StatusRejected}

type Leave struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	CompanyID  string    `json:"companyId"`
	LeaveApply time.Time `json:"leaveApply"`
	LeaveFrom  time.Time `json:"leaveFrom"`
	LeaveTo    time.Time `json:"leaveTo"`
	LeaveType  string    `json:"leaveType"`
	TotalDays  int       `json:"totalDays"`
	Status     string    `json:"status"`
	IsDeleted  bool      `json:"isDeleted"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type ApplyRequest struct {
	EmployeeID string        `json:"employeeId"`
	CompanyID  string        `json:"companyId"`
	LeaveApply *calendar.Day `json:"leaveApply"`
	LeaveFrom  *calendar.Day `json:"leaveFrom"`
	LeaveTo    *calendar.Day `json:"leaveTo"`
	LeaveType  string        `json:"leaveType"`
	TotalDays  int           `json:"totalDays"`
	Status     string        `json:"status"`
}

// ApplyEnvelope is the request body shape: {"leave": {...}}.
type ApplyEnvelope struct {
	Leave *ApplyRequest `json:"leave"`
}

type StatusRequest struct {
	Status string `json:"status"`
}
