package transport

import "time"

type UpdateProfileRequest struct {
	LastName      string `json:"lastName" validate:"max=50"`
	FirstName     string `json:"firstName" validate:"max=50"`
	LastNameKana  string `json:"lastNameKana" validate:"max=50"`
	FirstNameKana string `json:"firstNameKana" validate:"max=50"`
	BirthDate     string `json:"birthDate" validate:"omitempty,datetime=2006-01-02"`
	Prefecture    string `json:"prefecture" validate:"max=10"`
	PhoneNumber   string `json:"phoneNumber" validate:"max=20"`
}

type ProfileResponse struct {
	ID            string     `json:"id"`
	Email         *string    `json:"email"`
	LastName      *string    `json:"lastName"`
	FirstName     *string    `json:"firstName"`
	LastNameKana  *string    `json:"lastNameKana"`
	FirstNameKana *string    `json:"firstNameKana"`
	BirthDate     *string    `json:"birthDate"`
	Prefecture    *string    `json:"prefecture"`
	PhoneNumber   *string    `json:"phoneNumber"`
	IsAdmin       bool       `json:"isAdmin"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}
