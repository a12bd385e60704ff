package model

import "time"

// Role distinguishes the two user populations.
type Role string

const (
	RoleStudent  Role = "student"
	RoleLecturer Role = "lecturer"
)

// User represents a registered platform user. NIM and attendance number
// are set for students only.
type User struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	NIM              *string   `json:"nim,omitempty"`
	AttendanceNumber *string   `json:"attendance_number,omitempty"`
	Username         string    `json:"username"`
	PasswordHash     string    `json:"-"`
	Role             Role      `json:"role"`
	CreatedAt        time.Time `json:"created_at"`
}

// RegisterStudentRequest is the payload for student self-registration.
type RegisterStudentRequest struct {
	Name                 string `json:"name" binding:"required,min=1,max=100"`
	NIM                  string `json:"nim" binding:"required,min=1,max=30"`
	AttendanceNumber     string `json:"attendance_number" binding:"required,min=1,max=30"`
	Username             string `json:"username" binding:"required,min=3,max=50"`
	Password             string `json:"password" binding:"required,min=6,max=128"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=1,max=50"`
	Password string `json:"password" binding:"required,min=1,max=128"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
