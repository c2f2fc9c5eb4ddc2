package service

import (
	"strings"
	"testing"

	"house-panel/database/model"

	"github.com/stretchr/testify/assert"
)

func TestMemberLifecycle(t *testing.T) {
	setup()
	defer teardown()

	service := MemberService{}

	member := &model.Member{Name: "Test Member", Email: "test@example.org", Hometown: "Somerville"}
	err := service.AddMember(member)
	assert.NoError(t, err)
	assert.NotEmpty(t, member.Uuid)
	assert.Equal(t, model.StatusActive, member.Status)
	assert.False(t, member.JoinedAt.IsZero())

	assert.Error(t, service.AddMember(&model.Member{Email: "x@example.org"}))
	assert.Error(t, service.AddMember(&model.Member{Name: "No Email"}))

	member.Hometown = "Cambridge"
	err = service.UpdateMember(member)
	assert.NoError(t, err)
	stored, err := service.GetMember(member.Id)
	assert.NoError(t, err)
	assert.Equal(t, "Cambridge", stored.Hometown)

	err = service.DepartMember(member.Id, model.StatusAlum)
	assert.NoError(t, err)
	stored, err = service.GetMember(member.Id)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusAlum, stored.Status)
	assert.NotNil(t, stored.DepartedAt)

	assert.Error(t, service.DepartMember(member.Id, model.StatusActive))

	// departed members drop out of the hassle-eligible list
	active, err := service.ActiveMembers()
	assert.NoError(t, err)
	for _, m := range active {
		assert.NotEqual(t, member.Id, m.Id)
	}
}

func TestImportCSV(t *testing.T) {
	setup()
	defer teardown()

	memberService := MemberService{}
	tokenService := TokenService{}

	csvData := "Alice Example,alice@example.org\n" +
		"Bob Example,bob@example.org,555-0100\n" +
		"rowwithoutemail\n" +
		"Carol Example,carol@example.org\n"

	results, err := memberService.ImportCSV(strings.NewReader(csvData), &tokenService)
	assert.NoError(t, err)
	assert.Len(t, results, 4)

	assert.Equal(t, "Alice Example", results[0].Name)
	assert.NotEmpty(t, results[0].Token)
	assert.Empty(t, results[0].Error)

	assert.Equal(t, "Bob Example", results[1].Name)
	assert.NotEmpty(t, results[1].Token)

	assert.NotEmpty(t, results[2].Error)
	assert.Empty(t, results[2].Token)

	assert.NotEmpty(t, results[3].Token)

	// each issued token resolves to its member
	member := tokenService.ValidateCreateToken(results[1].Token)
	assert.NotNil(t, member)
	assert.Equal(t, "bob@example.org", member.Email)
	assert.Equal(t, "555-0100", member.Phone)

	// seeded admin plus the three imported rows
	members, err := memberService.GetMembers()
	assert.NoError(t, err)
	assert.Len(t, members, 4)
}
