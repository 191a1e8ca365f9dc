// Package session holds the browser session for the portal: the bearer
// token, user id and role handed out at login, plus one-shot notices shown
// on the next rendered page. Everything lives in a signed cookie so it
// survives reloads the way the legacy client's local storage did.
package session

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const (
	cookieName = "lms_session"

	keyToken  = "authToken"
	keyUserID = "userId"
	keyRole   = "role"

	// One year; the stored session has no client-side expiry, the API
	// decides when the token stops working.
	maxAge = 365 * 24 * 60 * 60
)

// Session is the client-held proof of authentication.
type Session struct {
	Token  string
	UserID string
	Role   string
}

// Middleware installs the cookie-backed session store.
func Middleware(secret string, secure bool) gin.HandlerFunc {
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(cookieName, store)
}

// Get reads the session. ok is false when either the token or the user id
// is missing, in which case no authenticated request may be issued.
func Get(c *gin.Context) (Session, bool) {
	s := sessions.Default(c)
	sess := Session{
		Token:  str(s.Get(keyToken)),
		UserID: str(s.Get(keyUserID)),
		Role:   str(s.Get(keyRole)),
	}
	if sess.Token == "" || sess.UserID == "" {
		return Session{}, false
	}
	return sess, true
}

// Set stores the session, overwriting whatever login came before.
func Set(c *gin.Context, sess Session) error {
	s := sessions.Default(c)
	s.Set(keyToken, sess.Token)
	s.Set(keyUserID, sess.UserID)
	s.Set(keyRole, sess.Role)
	return s.Save()
}

// Clear drops the stored credentials. Wired to logout.
func Clear(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	return s.Save()
}

// Notice is a one-shot message rendered on the next page.
type Notice struct {
	Kind string // "success" or "error"
	Text string
}

// Notify queues a notice for the next render.
func Notify(c *gin.Context, kind, text string) {
	s := sessions.Default(c)
	s.AddFlash(kind + "|" + text)
	_ = s.Save()
}

// TakeNotices drains queued notices.
func TakeNotices(c *gin.Context) []Notice {
	s := sessions.Default(c)
	flashes := s.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	_ = s.Save()

	notices := make([]Notice, 0, len(flashes))
	for _, f := range flashes {
		raw, ok := f.(string)
		if !ok {
			continue
		}
		kind, text, found := strings.Cut(raw, "|")
		if !found {
			kind, text = "error", raw
		}
		notices = append(notices, Notice{Kind: kind, Text: text})
	}
	return notices
}

func str(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
