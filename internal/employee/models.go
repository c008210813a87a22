package employee

import (
	"time"

	"backend-workhub/internal/shared/calendar"
)

var genders = []string{"male", "female", "other"}

type Employee struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	PasswordHash        string    `json:"-"`
	NeedsPasswordChange bool      `json:"needsPasswordChange"`
	Role                string    `json:"role"`
	Designation         string    `json:"designation"`
	CompanyID           string    `json:"companyId"`
	JoiningDate         time.Time `json:"joiningDate"`
	Gender              string    `json:"gender"`
	ProfileImageURL     string    `json:"profileImageUrl"`
	Address             string    `json:"address"`
	ContactNumber       string    `json:"contactNumber"`
	IsDeleted           bool      `json:"isDeleted"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

type CreateRequest struct {
	Name                string        `json:"name"`
	Email               string        `json:"email"`
	Password            string        `json:"password"`
	NeedsPasswordChange bool          `json:"needsPasswordChange"`
	Role                string        `json:"role"`
	Designation         string        `json:"designation"`
	CompanyID           string        `json:"companyId"`
	JoiningDate         *calendar.Day `json:"joiningDate"`
	Gender              string        `json:"gender"`
	ProfileImageURL     string        `json:"profileImageUrl"`
	Address             string        `json:"address"`
	ContactNumber       string        `json:"contactNumber"`
}

// UpdateRequest cannot move an employee to another company.
type UpdateRequest struct {
	Name                *string       `json:"name"`
	Email               *string       `json:"email"`
	NeedsPasswordChange *bool         `json:"needsPasswordChange"`
	Role                *string       `json:"role"`
	Designation         *string       `json:"designation"`
	JoiningDate         *calendar.Day `json:"joiningDate"`
	Gender              *string       `json:"gender"`
	ProfileImageURL     *string       `json:"profileImageUrl"`
	Address             *string       `json:"address"`
	ContactNumber       *string       `json:"contactNumber"`
}
