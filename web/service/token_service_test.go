package service

import (
	"testing"
	"time"

	"house-panel/database"
	"house-panel/database/model"

	"github.com/stretchr/testify/assert"
)

func setResetExpiry(t *testing.T, username string, expiry time.Time) {
	db := database.GetDB()
	err := db.Model(model.User{}).
		Where("username = ?", username).
		Update("reset_expiry", expiry).
		Error
	assert.NoError(t, err)
}

func TestResetTokenLifecycle(t *testing.T) {
	setup()
	defer teardown()

	service := TokenService{}
	addAccount(t, "Test Member", "test@example.org", "tester", "hunter2")

	token, err := service.IssueResetToken("tester")
	assert.NoError(t, err)
	assert.Len(t, token, tokenLength)

	user := service.ValidateResetToken(token)
	assert.NotNil(t, user)
	assert.Equal(t, "tester", user.Username)

	assert.Nil(t, service.ValidateResetToken(""))
	assert.Nil(t, service.ValidateResetToken("nosuchtoken"))

	// single use: consumed tokens stop validating
	err = service.ClearResetToken("tester")
	assert.NoError(t, err)
	assert.Nil(t, service.ValidateResetToken(token))

	// clearing again is fine
	assert.NoError(t, service.ClearResetToken("tester"))

	_, err = service.IssueResetToken("nobody")
	assert.Error(t, err)
}

func TestResetTokenExpiry(t *testing.T) {
	setup()
	defer teardown()

	service := TokenService{}
	addAccount(t, "Test Member", "test@example.org", "tester", "hunter2")

	token, err := service.IssueResetToken("tester")
	assert.NoError(t, err)

	// a minute left on the clock still validates
	setResetExpiry(t, "tester", time.Now().Add(time.Minute))
	assert.NotNil(t, service.ValidateResetToken(token))

	// a minute past expiry does not
	setResetExpiry(t, "tester", time.Now().Add(-time.Minute))
	assert.Nil(t, service.ValidateResetToken(token))
}

func TestResetTokenReissueOverwrites(t *testing.T) {
	setup()
	defer teardown()

	service := TokenService{}
	addAccount(t, "Test Member", "test@example.org", "tester", "hunter2")

	first, err := service.IssueResetToken("tester")
	assert.NoError(t, err)
	second, err := service.IssueResetToken("tester")
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)

	assert.Nil(t, service.ValidateResetToken(first))
	assert.NotNil(t, service.ValidateResetToken(second))
}

func TestClearExpiredResetTokens(t *testing.T) {
	setup()
	defer teardown()

	service := TokenService{}
	addAccount(t, "Stale Member", "stale@example.org", "stale", "hunter2")
	addAccount(t, "Fresh Member", "fresh@example.org", "fresh", "hunter2")

	staleToken, err := service.IssueResetToken("stale")
	assert.NoError(t, err)
	freshToken, err := service.IssueResetToken("fresh")
	assert.NoError(t, err)

	setResetExpiry(t, "stale", time.Now().Add(-time.Minute))

	cleared, err := service.ClearExpiredResetTokens()
	assert.NoError(t, err)
	assert.Equal(t, int64(1), cleared)

	assert.Nil(t, service.ValidateResetToken(staleToken))
	assert.NotNil(t, service.ValidateResetToken(freshToken))
}

func TestCreateTokenGuard(t *testing.T) {
	setup()
	defer teardown()

	memberService := MemberService{}
	tokenService := TokenService{}
	userService := UserService{}

	member := &model.Member{Name: "Test Member", Email: "test@example.org"}
	err := memberService.AddMember(member)
	assert.NoError(t, err)

	token, err := tokenService.IssueCreateToken(member.Id)
	assert.NoError(t, err)
	assert.NotNil(t, tokenService.ValidateCreateToken(token))

	_, err = userService.CreateAccount(member.Id, "tester", "hunter2")
	assert.NoError(t, err)

	// even a token forced back into storage must fail once an account exists
	db := database.GetDB()
	err = db.Model(model.Member{}).
		Where("id = ?", member.Id).
		Update("create_token", token).
		Error
	assert.NoError(t, err)
	assert.Nil(t, tokenService.ValidateCreateToken(token))

	_, err = tokenService.IssueCreateToken(member.Id)
	assert.Error(t, err)
}

func TestCreateTokenRevoke(t *testing.T) {
	setup()
	defer teardown()

	memberService := MemberService{}
	tokenService := TokenService{}

	member := &model.Member{Name: "Test Member", Email: "test@example.org"}
	err := memberService.AddMember(member)
	assert.NoError(t, err)

	token, err := tokenService.IssueCreateToken(member.Id)
	assert.NoError(t, err)

	err = tokenService.ClearCreateToken(member.Id)
	assert.NoError(t, err)
	assert.Nil(t, tokenService.ValidateCreateToken(token))

	_, err = tokenService.IssueCreateToken(0)
	assert.Error(t, err)
}
