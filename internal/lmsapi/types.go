package lmsapi

import (
	"errors"
	"fmt"
)

// User is the profile record returned by the user endpoints.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResult carries the bearer token and user returned by a successful
// login.
type LoginResult struct {
	Token string
	User  User
}

// RegisterInput is the payload for account registration.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// AttendanceRecord is one row of the attendance list.
type AttendanceRecord struct {
	ID      string `json:"_id"`
	Date    string `json:"date"`
	Status  string `json:"status"`
	Course  string `json:"course"`
	Student string `json:"student"`
}

// AttendanceInput is the payload for creating or updating an attendance
// record.
type AttendanceInput struct {
	Date    string `json:"date"`
	Status  string `json:"status"`
	Course  string `json:"course"`
	Student string `json:"student"`
}

// Assignment is one row of the assignment list.
type Assignment struct {
	ID           string `json:"_id"`
	TeacherName  string `json:"teacherName"`
	TeacherEmail string `json:"teacherEmail"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	DueDate      string `json:"dueDate"`
}

// AssignmentInput is the payload for creating an assignment.
type AssignmentInput struct {
	TeacherName  string `json:"teacherName"`
	TeacherEmail string `json:"teacherEmail"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	DueDate      string `json:"dueDate"`
}

// ErrBadShape reports a response that decoded but is missing fields the
// caller cannot proceed without.
var ErrBadShape = errors.New("unexpected response shape")

// APIError is a non-2xx response from the LMS API. Message holds the
// server-provided message field when the body carried one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("lms api: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("lms api: status %d", e.StatusCode)
}
