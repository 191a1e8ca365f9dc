package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lmsportal/internal/forms"
	"lmsportal/internal/lmsapi"
	"lmsportal/internal/session"
)

func (h *Handler) attendance(c *gin.Context) {
	data := gin.H{
		"Active":    "attendance",
		"Records":   []lmsapi.AttendanceRecord{},
		"UserInfo":  (*lmsapi.User)(nil),
		"ModalOpen": false,
		"Editing":   (*lmsapi.AttendanceRecord)(nil),
	}

	sess, ok := session.Get(c)
	if !ok {
		session.Notify(c, "error", unauthorizedNotice)
		h.render(c, "attendance.tmpl", data)
		return
	}

	ctx := c.Request.Context()

	if user, err := h.api.User(ctx, sess.Token, sess.UserID); err != nil {
		h.log.Warn("fetch user failed", zap.String("user_id", sess.UserID), zap.Error(err))
		session.Notify(c, "error", "Failed to fetch user details.")
	} else {
		data["UserInfo"] = &user
	}

	records, err := h.api.ListAttendance(ctx, sess.Token)
	if err != nil {
		h.log.Warn("fetch attendance failed", zap.Error(err))
		session.Notify(c, "error", "Failed to fetch attendance data.")
		h.render(c, "attendance.tmpl", data)
		return
	}
	data["Records"] = records

	if id := c.Query("edit"); id != "" {
		for i := range records {
			if records[i].ID == id {
				data["Editing"] = &records[i]
				data["ModalOpen"] = true
				break
			}
		}
	} else if c.Query("add") == "1" {
		data["ModalOpen"] = true
	}

	h.render(c, "attendance.tmpl", data)
}

func (h *Handler) saveAttendance(c *gin.Context) {
	sess, ok := session.Get(c)
	if !ok {
		session.Notify(c, "error", unauthorizedNotice)
		c.Redirect(http.StatusSeeOther, "/attendance")
		return
	}

	var f forms.Attendance
	_ = c.ShouldBind(&f)
	if err := f.Validate(); err != nil {
		session.Notify(c, "error", err.Error())
		c.Redirect(http.StatusSeeOther, "/attendance")
		return
	}

	in := lmsapi.AttendanceInput{
		Date:    f.Date,
		Status:  f.Status,
		Course:  f.Course,
		Student: sess.UserID,
	}

	ctx := c.Request.Context()
	var err error
	success := "Attendance added successfully."
	if f.ID != "" {
		err = h.api.UpdateAttendance(ctx, sess.Token, f.ID, in)
		success = "Attendance updated successfully."
	} else {
		err = h.api.CreateAttendance(ctx, sess.Token, in)
	}

	if err != nil {
		h.log.Warn("save attendance failed", zap.String("id", f.ID), zap.Error(err))
		session.Notify(c, "error", "Failed to save attendance.")
	} else {
		session.Notify(c, "success", success)
	}
	c.Redirect(http.StatusSeeOther, "/attendance")
}

func (h *Handler) deleteAttendance(c *gin.Context) {
	sess, ok := session.Get(c)
	if !ok {
		session.Notify(c, "error", unauthorizedNotice)
		c.Redirect(http.StatusSeeOther, "/attendance")
		return
	}

	id := c.PostForm("id")
	if err := h.api.DeleteAttendance(c.Request.Context(), sess.Token, id); err != nil {
		h.log.Warn("delete attendance failed", zap.String("id", id), zap.Error(err))
		session.Notify(c, "error", "Failed to delete attendance.")
	} else {
		session.Notify(c, "success", "Attendance deleted successfully.")
	}
	c.Redirect(http.StatusSeeOther, "/attendance")
}
