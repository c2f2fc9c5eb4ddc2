package service

import (
	"time"

	"house-panel/database"
	"house-panel/database/model"
	"house-panel/logger"
	"house-panel/util/common"
	"house-panel/util/crypto"

	"gorm.io/gorm"
)

// maxPasswordLength bounds hashing work per attempt. Anything longer is
// rejected before a single digest is computed.
const maxPasswordLength = 128

type UserService struct{}

func (s *UserService) GetUser(username string) (*model.User, error) {
	db := database.GetDB()
	user := &model.User{}
	err := db.Model(model.User{}).
		Where("username = ?", username).
		First(user).
		Error
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUserByMemberId(memberId int) (*model.User, error) {
	db := database.GetDB()
	user := &model.User{}
	err := db.Model(model.User{}).
		Where("member_id = ?", memberId).
		First(user).
		Error
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate decides a login. Every failure path returns nil so the caller
// can only ever report one generic message; a malformed stored hash fails
// closed. On success the verified chain is opportunistically extended to the
// current algorithm and last_login is stamped, both best-effort: bookkeeping
// never turns a correct password into a failed login.
func (s *UserService) Authenticate(username string, password string) *model.User {
	if len(password) > maxPasswordLength {
		return nil
	}

	db := database.GetDB()
	user := &model.User{}
	err := db.Model(model.User{}).
		Where("username = ?", username).
		First(user).
		Error
	if err == gorm.ErrRecordNotFound {
		return nil
	} else if err != nil {
		logger.Warning("check user err:", err)
		return nil
	}

	if user.PasswordHash == "" {
		// pre-provisioned member that never created an account
		return nil
	}

	record, err := crypto.ParseHash(user.PasswordHash)
	if err != nil {
		logger.Warningf("stored password hash for user %d is malformed", user.Id)
		return nil
	}

	if !crypto.Verify(record, password) {
		return nil
	}

	if crypto.NeedsRehash(record) {
		if extended, err := crypto.Extend(record); err != nil {
			logger.Warning("extend legacy hash err:", err)
		} else if err := db.Model(model.User{}).
			Where("id = ?", user.Id).
			Update("password_hash", extended.String()).
			Error; err != nil {
			logger.Warning("persist rehashed password err:", err)
		} else {
			user.PasswordHash = extended.String()
		}
	}

	now := time.Now()
	if err := db.Model(model.User{}).
		Where("id = ?", user.Id).
		Update("last_login", now).
		Error; err != nil {
		logger.Warning("update last login err:", err)
	} else {
		user.LastLogin = &now
	}

	return user
}

// SetPassword replaces the stored hash with a fresh single-stage chain. The
// write is the point of the operation, so unlike the login-side rehash a
// storage failure is surfaced to the caller.
func (s *UserService) SetPassword(username string, password string) error {
	if username == "" {
		return common.NewError("username can not be empty")
	}
	if password == "" {
		return common.NewError("password can not be empty")
	}
	if len(password) > maxPasswordLength {
		return common.NewError("password too long")
	}

	db := database.GetDB()
	result := db.Model(model.User{}).
		Where("username = ?", username).
		Update("password_hash", crypto.NewHash(password).String())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.NewErrorf("no account with username %q", username)
	}
	return nil
}

// CreateAccount binds a username and initial password to a member. The
// member's invitation token is cleared in the same step so the invite can
// not be replayed.
func (s *UserService) CreateAccount(memberId int, username string, password string) (*model.User, error) {
	if username == "" {
		return nil, common.NewError("username can not be empty")
	}
	if password == "" {
		return nil, common.NewError("password can not be empty")
	}
	if len(password) > maxPasswordLength {
		return nil, common.NewError("password too long")
	}

	db := database.GetDB()

	if _, err := s.GetUserByMemberId(memberId); err == nil {
		return nil, common.NewError("member already has an account")
	} else if !database.IsNotFound(err) {
		return nil, err
	}

	if _, err := s.GetUser(username); err == nil {
		return nil, common.NewError("username already taken")
	} else if !database.IsNotFound(err) {
		return nil, err
	}

	user := &model.User{
		MemberId:     memberId,
		Username:     username,
		PasswordHash: crypto.NewHash(password).String(),
	}
	if err := db.Create(user).Error; err != nil {
		return nil, err
	}

	if err := db.Model(model.Member{}).
		Where("id = ?", memberId).
		Update("create_token", "").
		Error; err != nil {
		logger.Warning("clear create token err:", err)
	}

	return user, nil
}

// UpdateUsername renames an account. Administrative action only.
func (s *UserService) UpdateUsername(id int, username string) error {
	if username == "" {
		return common.NewError("username can not be empty")
	}
	db := database.GetDB()
	return db.Model(model.User{}).
		Where("id = ?", id).
		Update("username", username).
		Error
}
