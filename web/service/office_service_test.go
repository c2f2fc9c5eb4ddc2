package service

import (
	"testing"
	"time"

	"house-panel/database/model"

	"github.com/stretchr/testify/assert"
)

func TestOfficesSeeded(t *testing.T) {
	setup()
	defer teardown()

	service := OfficeService{}
	offices, err := service.GetOffices()
	assert.NoError(t, err)
	assert.Len(t, offices, 4)

	names := make([]string, 0, len(offices))
	for _, office := range offices {
		names = append(names, office.Name)
	}
	assert.Contains(t, names, "President")
	assert.Contains(t, names, "Treasurer")
}

func TestOfficeTerms(t *testing.T) {
	setup()
	defer teardown()

	officeService := OfficeService{}
	permissionService := PermissionService{}

	member, _ := addAccount(t, "Test Member", "test@example.org", "tester", "hunter2")
	czar := findOffice(t, "Room Czar")

	err := officeService.SetOfficePermissions(czar.Id, []model.Permission{model.PermHassle})
	assert.NoError(t, err)

	attached, err := officeService.GetOfficePermissions(czar.Id)
	assert.NoError(t, err)
	assert.Equal(t, []model.Permission{model.PermHassle}, attached)

	assert.Error(t, officeService.SetOfficePermissions(czar.Id, []model.Permission{model.Permission(42)}))

	// end before start is rejected
	assert.Error(t, officeService.AddTerm(&model.OfficeTerm{
		OfficeId: czar.Id,
		MemberId: member.Id,
		Start:    time.Now(),
		End:      time.Now().Add(-time.Hour),
	}))

	term := &model.OfficeTerm{
		OfficeId: czar.Id,
		MemberId: member.Id,
		Start:    time.Now().Add(-time.Hour),
		End:      time.Now().Add(180 * 24 * time.Hour),
	}
	assert.NoError(t, officeService.AddTerm(term))

	terms, err := officeService.GetTerms(czar.Id)
	assert.NoError(t, err)
	assert.Len(t, terms, 1)
	memberTerms, err := officeService.GetMemberTerms(member.Id)
	assert.NoError(t, err)
	assert.Len(t, memberTerms, 1)

	permissions, err := permissionService.GetPermissions("tester")
	assert.NoError(t, err)
	assert.Equal(t, []model.Permission{model.PermHassle}, permissions)

	// stepping down closes the term and the permission with it
	assert.NoError(t, officeService.EndTerm(term.Id))
	time.Sleep(10 * time.Millisecond)
	permissions, err = permissionService.GetPermissions("tester")
	assert.NoError(t, err)
	assert.Empty(t, permissions)
}
