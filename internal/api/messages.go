package api

import "time"

type Empty struct{}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// User never carries credential material.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status,omitempty"`
}

// UpdateTaskRequest is a partial update: nil fields are left as they are.
type UpdateTaskRequest struct {
	ID               string  `json:"id"`
	Title            *string `json:"title,omitempty"`
	Description      *string `json:"description,omitempty"`
	ClearDescription bool    `json:"clear_description,omitempty"`
	Status           *string `json:"status,omitempty"`
}

type TaskIDRequest struct {
	ID string `json:"id"`
}

type ListTasksResponse struct {
	Tasks []*Task `json:"tasks"`
}

type PingResponse struct {
	Status string `json:"status"`
}
