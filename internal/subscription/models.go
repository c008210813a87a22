package subscription

import (
	"time"

	"backend-workhub/internal/shared/calendar"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Subscription struct {
	ID         string    `json:"id"`
	Plan       string    `json:"plan"`
	Services   []string  `json:"services"`
	StartDate  time.Time `json:"startDate"`
	ExpiryDate time.Time `json:"expiryDate"`
	Status     string    `json:"status"`
	Price      float64   `json:"price"`
	IsDeleted  bool      `json:"isDeleted"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Input struct {
	Plan       string        `json:"plan"`
	Services   []string      `json:"services"`
	StartDate  *calendar.Day `json:"startDate"`
	ExpiryDate *calendar.Day `json:"expiryDate"`
	Status     string        `json:"status"`
	Price      *float64      `json:"price"`
}

// Envelope is the request body shape: {"subscription": {...}}.
type Envelope struct {
	Subscription *Input `json:"subscription"`
}
