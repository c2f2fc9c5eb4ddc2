package service

import (
	"errors"
	"time"

	"house-panel/database"
	"house-panel/database/model"
	"house-panel/logger"
	"house-panel/util/crypto"
	"house-panel/util/random"
)

const (
	tokenLength  = 32
	tokenRetries = 10
)

// ErrTokenRetries means the uniqueness loop exhausted its retry budget. At
// this token length that only happens when the entropy source is broken.
var ErrTokenRetries = errors.New("could not generate a unique token")

// TokenService issues and validates the single-use tokens gating password
// resets and account-creation invitations.
type TokenService struct {
	settingService SettingService
}

// generate draws random tokens until unique reports no collision, bounded by
// tokenRetries. The loop is defensive; at 32 chars over a 36-rune alphabet
// collisions are not expected at any realistic table size.
func (s *TokenService) generate(unique func(string) (bool, error)) (string, error) {
	for i := 0; i < tokenRetries; i++ {
		token := random.TokenSeq(tokenLength)
		ok, err := unique(token)
		if err != nil {
			return "", err
		}
		if ok {
			return token, nil
		}
		logger.Warning("token collision, regenerating")
	}
	return "", ErrTokenRetries
}

func resetTokenFree(token string) (bool, error) {
	db := database.GetDB()
	var count int64
	err := db.Model(model.User{}).
		Where("reset_token = ?", token).
		Count(&count).
		Error
	return count == 0, err
}

func createTokenFree(token string) (bool, error) {
	db := database.GetDB()
	var count int64
	err := db.Model(model.Member{}).
		Where("create_token = ?", token).
		Count(&count).
		Error
	return count == 0, err
}

// IssueResetToken mints a reset token for an existing account and stamps its
// expiry. Reissuing overwrites any outstanding token for the same user.
func (s *TokenService) IssueResetToken(username string) (string, error) {
	db := database.GetDB()

	user := &model.User{}
	if err := db.Model(model.User{}).
		Where("username = ?", username).
		First(user).
		Error; err != nil {
		return "", err
	}

	token, err := s.generate(resetTokenFree)
	if err != nil {
		return "", err
	}

	ttlMinutes, err := s.settingService.GetResetTokenMinutes()
	if err != nil {
		return "", err
	}
	expiry := time.Now().Add(time.Duration(ttlMinutes) * time.Minute)

	err = db.Model(model.User{}).
		Where("id = ?", user.Id).
		Updates(map[string]any{
			"reset_token":  token,
			"reset_expiry": expiry,
		}).
		Error
	if err != nil {
		return "", err
	}
	return token, nil
}

// ValidateResetToken resolves a presented token to its account, or nil for
// unknown and expired tokens alike. The token is not consumed here; that
// happens via ClearResetToken after the password actually changed.
func (s *TokenService) ValidateResetToken(token string) *model.User {
	if token == "" {
		return nil
	}

	db := database.GetDB()
	user := &model.User{}
	err := db.Model(model.User{}).
		Where("reset_token = ?", token).
		First(user).
		Error
	if err != nil {
		if !database.IsNotFound(err) {
			logger.Warning("reset token lookup err:", err)
		}
		return nil
	}

	// recheck byte-for-byte in constant time so a collation-loose storage
	// comparison can never widen what the token matches
	if !crypto.TimingSafeEquals(user.ResetToken, token) {
		return nil
	}

	if user.ResetExpiry == nil || !time.Now().Before(*user.ResetExpiry) {
		return nil
	}
	return user
}

// ClearResetToken consumes the outstanding reset token. Idempotent, safe to
// call after any reset attempt.
func (s *TokenService) ClearResetToken(username string) error {
	db := database.GetDB()
	return db.Model(model.User{}).
		Where("username = ?", username).
		Updates(map[string]any{
			"reset_token":  "",
			"reset_expiry": nil,
		}).
		Error
}

// IssueCreateToken mints an account-creation invitation for a member that
// does not have an account yet.
func (s *TokenService) IssueCreateToken(memberId int) (string, error) {
	db := database.GetDB()

	member := &model.Member{}
	if err := db.Model(model.Member{}).
		Where("id = ?", memberId).
		First(member).
		Error; err != nil {
		return "", err
	}

	var accounts int64
	if err := db.Model(model.User{}).
		Where("member_id = ?", memberId).
		Count(&accounts).
		Error; err != nil {
		return "", err
	}
	if accounts > 0 {
		return "", errors.New("member already has an account")
	}

	token, err := s.generate(createTokenFree)
	if err != nil {
		return "", err
	}

	err = db.Model(model.Member{}).
		Where("id = ?", memberId).
		Update("create_token", token).
		Error
	if err != nil {
		return "", err
	}
	return token, nil
}

// ValidateCreateToken resolves an invitation token to its member. It fails
// once any account is bound to that member, even for an unexpired token, so
// an invitation can not be replayed after signup.
func (s *TokenService) ValidateCreateToken(token string) *model.Member {
	if token == "" {
		return nil
	}

	db := database.GetDB()
	member := &model.Member{}
	err := db.Model(model.Member{}).
		Where("create_token = ?", token).
		First(member).
		Error
	if err != nil {
		if !database.IsNotFound(err) {
			logger.Warning("create token lookup err:", err)
		}
		return nil
	}

	if !crypto.TimingSafeEquals(member.CreateToken, token) {
		return nil
	}

	var accounts int64
	if err := db.Model(model.User{}).
		Where("member_id = ?", member.Id).
		Count(&accounts).
		Error; err != nil {
		logger.Warning("create token account check err:", err)
		return nil
	}
	if accounts > 0 {
		return nil
	}
	return member
}

// ClearCreateToken revokes a member's outstanding invitation. Idempotent.
func (s *TokenService) ClearCreateToken(memberId int) error {
	db := database.GetDB()
	return db.Model(model.Member{}).
		Where("id = ?", memberId).
		Update("create_token", "").
		Error
}

// ClearExpiredResetTokens nulls every reset token past its expiry. Run from
// the cleanup job.
func (s *TokenService) ClearExpiredResetTokens() (int64, error) {
	db := database.GetDB()
	result := db.Model(model.User{}).
		Where("reset_token <> '' AND reset_expiry <= ?", time.Now()).
		Updates(map[string]any{
			"reset_token":  "",
			"reset_expiry": nil,
		})
	return result.RowsAffected, result.Error
}
