package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lmsportal/internal/forms"
	"lmsportal/internal/lmsapi"
	"lmsportal/internal/session"
)

func (h *Handler) assignments(c *gin.Context) {
	data := gin.H{
		"Active":       "assignments",
		"Assignments":  []lmsapi.Assignment{},
		"CanCreate":    false,
		"Creating":     false,
		"SubmittingID": "",
	}

	sess, ok := session.Get(c)
	if !ok {
		session.Notify(c, "error", unauthorizedNotice)
		h.render(c, "assignments.tmpl", data)
		return
	}

	// Role gating is cosmetic; the API is the authority.
	role := sess.Role
	if role == "" {
		role = "student"
	}
	canCreate := role == "teacher"
	data["CanCreate"] = canCreate

	list, err := h.api.ListAssignments(c.Request.Context(), sess.Token)
	if err != nil {
		h.log.Warn("fetch assignments failed", zap.Error(err))
		session.Notify(c, "error", "Failed to fetch assignments.")
		h.render(c, "assignments.tmpl", data)
		return
	}
	data["Assignments"] = list

	if canCreate && c.Query("create") == "1" {
		data["Creating"] = true
	}
	if id := c.Query("submit"); id != "" {
		for i := range list {
			if list[i].ID == id {
				data["SubmittingID"] = id
				break
			}
		}
	}

	h.render(c, "assignments.tmpl", data)
}

func (h *Handler) createAssignment(c *gin.Context) {
	sess, ok := session.Get(c)
	if !ok {
		session.Notify(c, "error", unauthorizedNotice)
		c.Redirect(http.StatusSeeOther, "/assignments")
		return
	}

	var f forms.Assignment
	_ = c.ShouldBind(&f)
	if err := f.Validate(); err != nil {
		session.Notify(c, "error", err.Error())
		c.Redirect(http.StatusSeeOther, "/assignments")
		return
	}

	err := h.api.CreateAssignment(c.Request.Context(), sess.Token, lmsapi.AssignmentInput{
		TeacherName:  f.TeacherName,
		TeacherEmail: f.TeacherEmail,
		Title:        f.Title,
		Description:  f.Description,
		DueDate:      f.DueDate,
	})
	if err != nil {
		h.log.Warn("create assignment failed", zap.Error(err))
		session.Notify(c, "error", "Failed to create assignment.")
	} else {
		session.Notify(c, "success", "Assignment created successfully.")
	}
	c.Redirect(http.StatusSeeOther, "/assignments")
}

func (h *Handler) submitAssignment(c *gin.Context) {
	sess, ok := session.Get(c)
	if !ok {
		session.Notify(c, "error", unauthorizedNotice)
		c.Redirect(http.StatusSeeOther, "/assignments")
		return
	}

	var f forms.Submission
	_ = c.ShouldBind(&f)

	file, header, ferr := c.Request.FormFile("file")
	if ferr == nil {
		defer file.Close()
		f.FileName = header.Filename
	}

	if err := f.Validate(); err != nil {
		session.Notify(c, "error", err.Error())
		c.Redirect(http.StatusSeeOther, "/assignments")
		return
	}

	err := h.api.SubmitAssignment(c.Request.Context(), sess.Token, f.AssignmentID, f.StudentName, f.StudentEmail, f.FileName, file)
	if err != nil {
		h.log.Warn("submit assignment failed", zap.String("assignment_id", f.AssignmentID), zap.Error(err))
		session.Notify(c, "error", "Failed to submit assignment.")
	} else {
		session.Notify(c, "success", "Assignment submitted successfully.")
	}
	c.Redirect(http.StatusSeeOther, "/assignments")
}
