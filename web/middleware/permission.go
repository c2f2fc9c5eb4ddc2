package middleware

import (
	"net/http"

	"house-panel/database/model"
	"house-panel/web/service"
	"house-panel/web/session"

	"github.com/gin-gonic/gin"
)

// PermissionRequired gates a route group on one permission from the session
// snapshot. Admin passes every gate. The snapshot is computed at login, so a
// revoked grant keeps working until the next login; that staleness is
// deliberate.
func PermissionRequired(p model.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		permissions := session.GetPermissions(c)
		if !service.HasPermission(permissions, p) {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}
