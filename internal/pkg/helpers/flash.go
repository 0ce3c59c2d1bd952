package helpers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Notice levels
const (
	NoticeSuccess = "success"
	NoticeWarning = "warning"
	NoticeError   = "error"
)

const (
	NoticeCookie = "notice"
	NoticeHeader = "X-Notice"
)

// SetNotice attaches a one-shot message for the next page the client renders
func SetNotice(c *gin.Context, level, message string) {
	value := level + "|" + message
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(NoticeCookie, value, 60, "/", "", false, true)
	c.Header(NoticeHeader, value)
}

// RedirectWithNotice sets a notice and answers 303 See Other
func RedirectWithNotice(c *gin.Context, location, level, message string) {
	SetNotice(c, level, message)
	c.Redirect(http.StatusSeeOther, location)
}
