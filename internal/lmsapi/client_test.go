package lmsapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return New(srv.URL, 5*time.Second), srv
}

func TestLogin(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/user/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("login must not carry an Authorization header")
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "a@b.com" || body["password"] != "Passw0rd" {
			t.Errorf("unexpected credentials: %v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": "t1",
			"user":  map[string]string{"_id": "u1", "name": "A", "email": "a@b.com", "role": "student"},
		})
	})
	defer srv.Close()

	res, err := c.Login(context.Background(), "a@b.com", "Passw0rd")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token != "t1" || res.User.ID != "u1" || res.User.Role != "student" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestLoginBadShape(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ok": true}`))
	})
	defer srv.Close()

	_, err := c.Login(context.Background(), "a@b.com", "Passw0rd")
	if !errors.Is(err, ErrBadShape) {
		t.Fatalf("expected ErrBadShape, got %v", err)
	}
}

func TestRegisterSurfacesServerMessage(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/user" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Email already registered"}`))
	})
	defer srv.Close()

	err := c.Register(context.Background(), RegisterInput{Name: "A", Email: "a@b.com", Password: "Passw0rd", Role: "student"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "Email already registered" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}

func TestUserSendsBearerToken(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/u1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer t1" {
			t.Errorf("unexpected Authorization header %q", got)
		}
		_, _ = w.Write([]byte(`{"user":{"_id":"u1","name":"A","email":"a@b.com","role":"student"}}`))
	})
	defer srv.Close()

	user, err := c.User(context.Background(), "t1", "u1")
	if err != nil {
		t.Fatalf("user: %v", err)
	}
	if user.Name != "A" || user.Email != "a@b.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestUserMissingObject(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	defer srv.Close()

	if _, err := c.User(context.Background(), "t1", "u1"); !errors.Is(err, ErrBadShape) {
		t.Fatalf("expected ErrBadShape, got %v", err)
	}
}

// The API serves attendance and assignments from the same path under
// different response keys; each list call must only consume its own key.
func TestSharedListEndpoint(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/attendence" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"attendance":[{"_id":"a1","date":"2024-05-01","status":"Present","course":"Math","student":"u1"}],
			"assignments":[{"_id":"as1","teacherName":"T","title":"Essay","dueDate":"2024-06-01"}]
		}`))
	})
	defer srv.Close()

	att, err := c.ListAttendance(context.Background(), "t1")
	if err != nil {
		t.Fatalf("list attendance: %v", err)
	}
	if len(att) != 1 || att[0].ID != "a1" || att[0].Status != "Present" {
		t.Fatalf("unexpected attendance: %+v", att)
	}

	asg, err := c.ListAssignments(context.Background(), "t1")
	if err != nil {
		t.Fatalf("list assignments: %v", err)
	}
	if len(asg) != 1 || asg[0].ID != "as1" || asg[0].Title != "Essay" {
		t.Fatalf("unexpected assignments: %+v", asg)
	}
}

func TestListMissingKeyIsEmpty(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	defer srv.Close()

	asg, err := c.ListAssignments(context.Background(), "t1")
	if err != nil {
		t.Fatalf("list assignments: %v", err)
	}
	if asg == nil || len(asg) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", asg)
	}
}

func TestAttendanceMutationPaths(t *testing.T) {
	var gotMethod, gotPath string
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
	})
	defer srv.Close()

	ctx := context.Background()
	in := AttendanceInput{Date: "2024-05-01", Status: "Late", Course: "Math", Student: "u1"}

	if err := c.CreateAttendance(ctx, "t1", in); err != nil {
		t.Fatalf("create: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/attendence" {
		t.Fatalf("create hit %s %s", gotMethod, gotPath)
	}

	if err := c.UpdateAttendance(ctx, "t1", "a1", in); err != nil {
		t.Fatalf("update: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/attendence/a1" {
		t.Fatalf("update hit %s %s", gotMethod, gotPath)
	}

	if err := c.DeleteAttendance(ctx, "t1", "a1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/attendence/a1" {
		t.Fatalf("delete hit %s %s", gotMethod, gotPath)
	}
}

func TestCreateAssignmentPath(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/attendence/create" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var in AssignmentInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Title != "Essay" || in.DueDate != "2024-06-01" {
			t.Errorf("unexpected payload: %+v", in)
		}
	})
	defer srv.Close()

	err := c.CreateAssignment(context.Background(), "t1", AssignmentInput{
		TeacherName: "T", TeacherEmail: "t@school.edu", Title: "Essay",
		Description: "Write one", DueDate: "2024-06-01",
	})
	if err != nil {
		t.Fatalf("create assignment: %v", err)
	}
}

func TestSubmitAssignmentMultipart(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/attendence/submit/as1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer t1" {
			t.Errorf("unexpected Authorization header %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if r.FormValue("studentName") != "S" || r.FormValue("studentEmail") != "s@school.edu" {
			t.Errorf("unexpected fields: %v", r.MultipartForm.Value)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "essay.pdf" {
			t.Errorf("unexpected filename %q", header.Filename)
		}
		content, _ := io.ReadAll(file)
		if string(content) != "the essay" {
			t.Errorf("unexpected content %q", content)
		}
	})
	defer srv.Close()

	err := c.SubmitAssignment(context.Background(), "t1", "as1", "S", "s@school.edu", "essay.pdf", strings.NewReader("the essay"))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
}

func TestGenericAPIError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	})
	defer srv.Close()

	err := c.DeleteAttendance(context.Background(), "t1", "a1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError || apiErr.Message != "" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}
