package web

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lmsportal/internal/lmsapi"
	"lmsportal/internal/session"
)

func (h *Handler) dashboard(c *gin.Context) {
	data := gin.H{
		"Active":  "dashboard",
		"User":    (*lmsapi.User)(nil),
		"Viewing": false,
	}

	sess, ok := session.Get(c)
	if !ok {
		session.Notify(c, "error", unauthorizedNotice)
		h.render(c, "dashboard.tmpl", data)
		return
	}

	user, err := h.api.User(c.Request.Context(), sess.Token, sess.UserID)
	if err != nil {
		h.log.Warn("fetch user failed", zap.String("user_id", sess.UserID), zap.Error(err))
		session.Notify(c, "error", "Failed to fetch user data. Please try again.")
		h.render(c, "dashboard.tmpl", data)
		return
	}

	data["User"] = &user
	data["Viewing"] = c.Query("view") == "1"
	h.render(c, "dashboard.tmpl", data)
}
