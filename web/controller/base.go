// Package controller provides the HTTP handlers of the house panel: login
// and token flows, the member directory, offices, the room hassle, the
// budget ledger and administration.
package controller

import (
	"net/http"

	"house-panel/logger"
	"house-panel/web/session"

	"github.com/gin-gonic/gin"
)

// BaseController provides the login gate shared by all panel controllers.
type BaseController struct{}

// checkLogin verifies authentication and bounces anonymous requests to the
// login page (or a 401 for ajax).
func (a *BaseController) checkLogin(c *gin.Context) {
	if !session.IsLogin(c) {
		if isAjax(c) {
			pureJsonMsg(c, http.StatusUnauthorized, false, I18nWeb(c, "pages.login.loginAgain"))
		} else {
			c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path"))
		}
		c.Abort()
	} else {
		c.Next()
	}
}

// I18nWeb retrieves a localized message for the web interface.
func I18nWeb(c *gin.Context, name string, params ...string) string {
	anyfunc, funcExists := c.Get("I18n")
	if !funcExists {
		logger.Warning("I18n function not exists in gin context!")
		return ""
	}
	i18nFunc, _ := anyfunc.(func(key string, params ...string) string)
	return i18nFunc(name, params...)
}
