package service

import (
	"sort"
	"time"

	"house-panel/database"
	"house-panel/database/model"
)

// PermissionService computes effective permission sets. The result is only
// computed at login; grants changed afterwards take effect at the next login.
type PermissionService struct{}

// GetPermissions returns the union of permissions carried by offices the
// user's member currently holds and permissions granted to the user
// directly. The slice is sorted because the session store can only hold a
// sequence; callers must treat it as a set.
func (s *PermissionService) GetPermissions(username string) ([]model.Permission, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("username = ?", username).
		First(user).
		Error
	if err != nil {
		return nil, err
	}

	set := map[model.Permission]bool{}
	now := time.Now()

	var officePerms []model.Permission
	err = db.Model(model.OfficePermission{}).
		Joins("JOIN office_terms ON office_terms.office_id = office_permissions.office_id").
		Where("office_terms.member_id = ? AND office_terms.start_at <= ? AND office_terms.end_at >= ?",
			user.MemberId, now, now).
		Pluck("office_permissions.permission", &officePerms).
		Error
	if err != nil {
		return nil, err
	}
	for _, p := range officePerms {
		set[p] = true
	}

	var directPerms []model.Permission
	err = db.Model(model.UserPermission{}).
		Where("user_id = ?", user.Id).
		Pluck("permission", &directPerms).
		Error
	if err != nil {
		return nil, err
	}
	for _, p := range directPerms {
		set[p] = true
	}

	permissions := make([]model.Permission, 0, len(set))
	for p := range set {
		permissions = append(permissions, p)
	}
	sort.Slice(permissions, func(i, j int) bool { return permissions[i] < permissions[j] })
	return permissions, nil
}

// HasPermission reports whether the session permission list carries p.
// Admin overrides everything; it is checked first only for readability, the
// check is pure membership either way.
func HasPermission(permissions []model.Permission, p model.Permission) bool {
	for _, held := range permissions {
		if held == model.PermAdmin {
			return true
		}
	}
	for _, held := range permissions {
		if held == p {
			return true
		}
	}
	return false
}

// GrantPermission adds a direct grant to a user. No-op if already granted.
func (s *PermissionService) GrantPermission(userId int, p model.Permission) error {
	db := database.GetDB()
	var count int64
	err := db.Model(model.UserPermission{}).
		Where("user_id = ? AND permission = ?", userId, p).
		Count(&count).
		Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Create(&model.UserPermission{UserId: userId, Permission: p}).Error
}

// RevokePermission removes a direct grant. Office-derived permissions are
// untouched; they end with the office term.
func (s *PermissionService) RevokePermission(userId int, p model.Permission) error {
	db := database.GetDB()
	return db.Where("user_id = ? AND permission = ?", userId, p).
		Delete(&model.UserPermission{}).
		Error
}
