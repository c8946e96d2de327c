package model

import "time"

type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateUserRequest struct {
	ID    string `json:"-" validate:"required,max=64"`
	Name  string `json:"name" validate:"required,max=128"`
	Email string `json:"email" validate:"required,email,max=128"`
	Phone string `json:"phone,omitempty" validate:"omitempty,max=32"`
}

type UpdateUserRequest struct {
	ID    string  `json:"-" validate:"required,max=64"`
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=128"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=32"`
}

type GetUserRequest struct {
	ID string `json:"id" validate:"required,max=64"`
}
