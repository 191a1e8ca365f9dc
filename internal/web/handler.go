// Package web serves the portal screens. Every screen follows one shape:
// read the session, fetch from the remote API, render a table, and accept
// form posts that call the API and redirect back to the list
// (POST-redirect-GET, so the view is always a fresh fetch).
package web

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lmsportal/internal/lmsapi"
	"lmsportal/internal/session"
)

// API is the slice of the LMS client the screens depend on.
type API interface {
	Login(ctx context.Context, email, password string) (lmsapi.LoginResult, error)
	Register(ctx context.Context, in lmsapi.RegisterInput) error
	User(ctx context.Context, token, id string) (lmsapi.User, error)
	ListAttendance(ctx context.Context, token string) ([]lmsapi.AttendanceRecord, error)
	CreateAttendance(ctx context.Context, token string, in lmsapi.AttendanceInput) error
	UpdateAttendance(ctx context.Context, token, id string, in lmsapi.AttendanceInput) error
	DeleteAttendance(ctx context.Context, token, id string) error
	ListAssignments(ctx context.Context, token string) ([]lmsapi.Assignment, error)
	CreateAssignment(ctx context.Context, token string, in lmsapi.AssignmentInput) error
	SubmitAssignment(ctx context.Context, token, assignmentID, studentName, studentEmail, filename string, file io.Reader) error
}

// Handler holds the screen handlers' shared dependencies.
type Handler struct {
	api API
	log *zap.Logger
}

// NewHandler creates the screen handlers.
func NewHandler(api API, log *zap.Logger) *Handler {
	return &Handler{api: api, log: log}
}

// Register mounts all portal routes on the engine.
func (h *Handler) Register(r *gin.Engine) {
	r.SetHTMLTemplate(Templates())

	r.GET("/", h.loginPage)
	r.POST("/login", h.login)
	r.GET("/signup", h.signupPage)
	r.POST("/signup", h.signup)
	r.POST("/logout", h.logout)

	r.GET("/dashboard", h.dashboard)
	r.GET("/attendance", h.attendance)
	r.POST("/attendance/save", h.saveAttendance)
	r.POST("/attendance/delete", h.deleteAttendance)
	r.GET("/assignments", h.assignments)
	r.POST("/assignments/create", h.createAssignment)
	r.POST("/assignments/submit", h.submitAssignment)
}

const unauthorizedNotice = "You are not authorized! Please log in again."

// render draws a page, draining queued notices into it.
func (h *Handler) render(c *gin.Context, name string, data gin.H) {
	data["Notices"] = session.TakeNotices(c)
	c.HTML(http.StatusOK, name, data)
}
