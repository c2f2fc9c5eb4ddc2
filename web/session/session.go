package session

import (
	"encoding/gob"

	"house-panel/database/model"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	loginUserKey   = "LOGIN_USER"
	permissionsKey = "PERMISSIONS"
)

func init() {
	gob.Register(model.User{})
	gob.Register([]model.Permission{})
}

func SetLoginUser(c *gin.Context, user *model.User) error {
	s := sessions.Default(c)
	s.Set(loginUserKey, *user)
	return s.Save()
}

// SetPermissions stores the permission set computed at login. The session
// medium forces a sequence; readers must treat it as a set.
func SetPermissions(c *gin.Context, permissions []model.Permission) error {
	s := sessions.Default(c)
	s.Set(permissionsKey, permissions)
	return s.Save()
}

func GetPermissions(c *gin.Context) []model.Permission {
	s := sessions.Default(c)
	if obj := s.Get(permissionsKey); obj != nil {
		if permissions, ok := obj.([]model.Permission); ok {
			return permissions
		}
	}
	return nil
}

func SetMaxAge(c *gin.Context, maxAge int) error {
	s := sessions.Default(c)
	s.Options(sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
	})
	return s.Save()
}

func GetLoginUser(c *gin.Context) *model.User {
	s := sessions.Default(c)
	if obj := s.Get(loginUserKey); obj != nil {
		if user, ok := obj.(model.User); ok {
			return &user
		}
	}
	return nil
}

func IsLogin(c *gin.Context) bool {
	return GetLoginUser(c) != nil
}

func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{
		Path:   "/",
		MaxAge: -1,
	})
	if err := s.Save(); err != nil {
		return err
	}
	c.SetCookie("house-panel", "", -1, "/", "", false, true)
	return nil
}
