package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lmsportal/internal/forms"
	"lmsportal/internal/lmsapi"
	"lmsportal/internal/session"
)

func (h *Handler) loginPage(c *gin.Context) {
	h.render(c, "login.tmpl", gin.H{})
}

func (h *Handler) login(c *gin.Context) {
	var f forms.Login
	_ = c.ShouldBind(&f)
	if err := f.Validate(); err != nil {
		session.Notify(c, "error", err.Error())
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	res, err := h.api.Login(c.Request.Context(), f.Email, f.Password)
	if err != nil {
		h.log.Warn("login failed", zap.Error(err))
		session.Notify(c, "error", "An error occurred. Please try again later.")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	if err := session.Set(c, session.Session{
		Token:  res.Token,
		UserID: res.User.ID,
		Role:   res.User.Role,
	}); err != nil {
		h.log.Error("session save failed", zap.Error(err))
		session.Notify(c, "error", "An error occurred. Please try again later.")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	session.Notify(c, "success", "Successfully logged in")
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *Handler) signupPage(c *gin.Context) {
	h.render(c, "signup.tmpl", gin.H{})
}

func (h *Handler) signup(c *gin.Context) {
	var f forms.Signup
	_ = c.ShouldBind(&f)
	if err := f.Validate(); err != nil {
		session.Notify(c, "error", err.Error())
		c.Redirect(http.StatusSeeOther, "/signup")
		return
	}

	err := h.api.Register(c.Request.Context(), lmsapi.RegisterInput{
		Name:     f.Name,
		Email:    f.Email,
		Password: f.Password,
		Role:     f.Role,
	})
	if err != nil {
		h.log.Warn("signup failed", zap.Error(err))
		msg := "An error occurred. Please try again."
		var apiErr *lmsapi.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		session.Notify(c, "error", msg)
		c.Redirect(http.StatusSeeOther, "/signup")
		return
	}

	// Registration does not authenticate; the user logs in explicitly.
	session.Notify(c, "success", "User registered successfully")
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) logout(c *gin.Context) {
	if err := session.Clear(c); err != nil {
		h.log.Error("session clear failed", zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, "/")
}
