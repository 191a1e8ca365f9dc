package lmsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Client calls the remote LMS API. The token is opaque to the client; it is
// attached verbatim as a bearer credential on every authenticated call.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New creates a client with the given request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Login authenticates and returns the bearer token plus the user object.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	payload := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/user/login", "", payload, &out); err != nil {
		return LoginResult{}, err
	}
	if out.Token == "" || out.User.ID == "" {
		return LoginResult{}, fmt.Errorf("login response missing token or user id: %w", ErrBadShape)
	}
	return LoginResult{Token: out.Token, User: out.User}, nil
}

// Register creates a new account. On rejection the returned *APIError
// carries the server message when the body provided one.
func (c *Client) Register(ctx context.Context, in RegisterInput) error {
	return c.doJSON(ctx, http.MethodPost, "/user", "", in, nil)
}

// User fetches a single user profile by id.
func (c *Client) User(ctx context.Context, token, id string) (User, error) {
	var out struct {
		User *User `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/user/"+id, token, nil, &out); err != nil {
		return User{}, err
	}
	if out.User == nil {
		return User{}, fmt.Errorf("user response missing user object: %w", ErrBadShape)
	}
	return *out.User, nil
}

// ListAttendance fetches the attendance list. The endpoint path spelling is
// the API's, not ours.
func (c *Client) ListAttendance(ctx context.Context, token string) ([]AttendanceRecord, error) {
	var out struct {
		Attendance []AttendanceRecord `json:"attendance"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/attendence", token, nil, &out); err != nil {
		return nil, err
	}
	if out.Attendance == nil {
		return []AttendanceRecord{}, nil
	}
	return out.Attendance, nil
}

// CreateAttendance creates an attendance record.
func (c *Client) CreateAttendance(ctx context.Context, token string, in AttendanceInput) error {
	return c.doJSON(ctx, http.MethodPost, "/attendence", token, in, nil)
}

// UpdateAttendance updates the attendance record with the given id.
func (c *Client) UpdateAttendance(ctx context.Context, token, id string, in AttendanceInput) error {
	return c.doJSON(ctx, http.MethodPut, "/attendence/"+id, token, in, nil)
}

// DeleteAttendance deletes the attendance record with the given id.
func (c *Client) DeleteAttendance(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/attendence/"+id, token, nil, nil)
}

// ListAssignments fetches the assignment list. The API serves assignments
// from the same path as attendance under a different response key.
func (c *Client) ListAssignments(ctx context.Context, token string) ([]Assignment, error) {
	var out struct {
		Assignments []Assignment `json:"assignments"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/attendence", token, nil, &out); err != nil {
		return nil, err
	}
	if out.Assignments == nil {
		return []Assignment{}, nil
	}
	return out.Assignments, nil
}

// CreateAssignment creates an assignment.
func (c *Client) CreateAssignment(ctx context.Context, token string, in AssignmentInput) error {
	return c.doJSON(ctx, http.MethodPost, "/attendence/create", token, in, nil)
}

// SubmitAssignment uploads a submission file with the student's details as a
// multipart form.
func (c *Client) SubmitAssignment(ctx context.Context, token, assignmentID, studentName, studentEmail, filename string, file io.Reader) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("lmsapi: create form file failed: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("lmsapi: write file failed: %w", err)
	}
	_ = w.WriteField("studentName", studentName)
	_ = w.WriteField("studentEmail", studentEmail)
	w.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/attendence/submit/"+assignmentID, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("lms api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return apiError(resp)
	}
	return nil
}

// doJSON performs a JSON request and decodes the response into out when out
// is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path, token string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("lmsapi: encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("lms api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return apiError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("lmsapi: decode %s %s response: %w", method, path, err)
		}
	}
	return nil
}

// apiError converts a non-2xx response into an *APIError, pulling the server
// message out of the body when one is present.
func apiError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var body struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw, &body)
	return &APIError{StatusCode: resp.StatusCode, Message: body.Message}
}
