package company

import "time"

type Company struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	PasswordHash        string    `json:"-"`
	NeedsPasswordChange bool      `json:"needsPasswordChange"`
	Subscription        string    `json:"subscription"`
	ProfileImageURL     string    `json:"profileImageUrl"`
	Address             string    `json:"address"`
	ContactNumber       string    `json:"contactNumber"`
	IsDeleted           bool      `json:"isDeleted"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

type CreateRequest struct {
	Name                string `json:"name"`
	Email               string `json:"email"`
	Password            string `json:"password"`
	NeedsPasswordChange bool   `json:"needsPasswordChange"`
	Subscription        string `json:"subscription"`
	ProfileImageURL     string `json:"profileImageUrl"`
	Address             string `json:"address"`
	ContactNumber       string `json:"contactNumber"`
}

type UpdateRequest struct {
	Name                *string `json:"name"`
	Email               *string `json:"email"`
	NeedsPasswordChange *bool   `json:"needsPasswordChange"`
	Subscription        *string `json:"subscription"`
	ProfileImageURL     *string `json:"profileImageUrl"`
	Address             *string `json:"address"`
	ContactNumber       *string `json:"contactNumber"`
}
