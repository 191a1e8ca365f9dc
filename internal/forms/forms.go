// Package forms declares the portal's form payloads and their field-level
// validation. Validation runs before any remote call; a failing form blocks
// the request and yields the message shown to the user.
package forms

import (
	"errors"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	upperPattern = regexp.MustCompile(`[A-Z]`)
	digitPattern = regexp.MustCompile(`[0-9]`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("email_shape", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("password_strength", func(fl validator.FieldLevel) bool {
		p := fl.Field().String()
		return len(p) >= 8 && upperPattern.MatchString(p) && digitPattern.MatchString(p)
	})
	_ = v.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})
	return v
}

// Login collects credentials for the login screen.
type Login struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

func (f Login) Validate() error {
	if err := validate.Struct(f); err != nil {
		return errors.New("Please enter both email and password!")
	}
	return nil
}

// Signup collects the registration fields.
type Signup struct {
	Name     string `form:"name" validate:"required"`
	Email    string `form:"email" validate:"required,email_shape"`
	Password string `form:"password" validate:"required,password_strength"`
	Role     string `form:"role" validate:"required,oneof=student teacher admin"`
}

func (f Signup) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.New("All fields are required!")
	}
	// Emptiness is checked across all fields before format rules.
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return errors.New("All fields are required!")
		}
	}
	switch verrs[0].Tag() {
	case "email_shape":
		return errors.New("Please enter a valid email address!")
	case "password_strength":
		return errors.New("Password must be at least 8 characters long, include an uppercase letter, and a number.")
	case "oneof":
		return errors.New("Please select a valid role!")
	}
	return errors.New("All fields are required!")
}

// Attendance is the add/edit attendance modal form. An empty ID means
// create, otherwise the record with that id is updated.
type Attendance struct {
	ID     string `form:"id"`
	Date   string `form:"date" validate:"required,calendar_date"`
	Status string `form:"status" validate:"required,oneof=Present Absent Late"`
	Course string `form:"course" validate:"required"`
}

func (f Attendance) Validate() error {
	return firstMessage(validate.Struct(f), map[string]string{
		"Date":   "Please select a date!",
		"Status": "Please select a status!",
		"Course": "Please enter the course!",
	})
}

// Assignment is the create-assignment modal form.
type Assignment struct {
	TeacherName  string `form:"teacherName" validate:"required"`
	TeacherEmail string `form:"teacherEmail" validate:"required"`
	Title        string `form:"title" validate:"required"`
	Description  string `form:"description" validate:"required"`
	DueDate      string `form:"dueDate" validate:"required,calendar_date"`
}

func (f Assignment) Validate() error {
	return firstMessage(validate.Struct(f), map[string]string{
		"TeacherName":  "Please enter the teacher name.",
		"TeacherEmail": "Please enter the teacher email.",
		"Title":        "Please enter the title.",
		"Description":  "Please enter the description.",
		"DueDate":      "Please select the due date.",
	})
}

// Submission is the submit-assignment modal form. FileName is filled from
// the uploaded part's header, so required-ness doubles as a file check.
type Submission struct {
	AssignmentID string `form:"assignmentId" validate:"required"`
	StudentName  string `form:"studentName" validate:"required"`
	StudentEmail string `form:"studentEmail" validate:"required"`
	FileName     string `form:"-" validate:"required"`
}

func (f Submission) Validate() error {
	return firstMessage(validate.Struct(f), map[string]string{
		"AssignmentID": "Missing assignment reference.",
		"StudentName":  "Please enter your name.",
		"StudentEmail": "Please enter your email.",
		"FileName":     "Please upload your assignment.",
	})
}

// firstMessage maps the first validation failure to its per-field message.
func firstMessage(err error, byField map[string]string) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if msg, ok := byField[verrs[0].Field()]; ok {
			return errors.New(msg)
		}
	}
	return errors.New("Invalid input.")
}
