package service

import (
	"time"

	"house-panel/database"
	"house-panel/database/model"
	"house-panel/util/common"
)

type OfficeService struct{}

func (s *OfficeService) GetOffices() ([]*model.Office, error) {
	db := database.GetDB()
	offices := make([]*model.Office, 0)
	err := db.Model(model.Office{}).Order("name").Find(&offices).Error
	if err != nil {
		return nil, err
	}
	return offices, nil
}

func (s *OfficeService) AddOffice(office *model.Office) error {
	if office.Name == "" {
		return common.NewError("office name can not be empty")
	}
	db := database.GetDB()
	return db.Create(office).Error
}

func (s *OfficeService) UpdateOffice(office *model.Office) error {
	db := database.GetDB()
	return db.Model(model.Office{}).
		Where("id = ?", office.Id).
		Updates(map[string]any{
			"name":        office.Name,
			"description": office.Description,
		}).
		Error
}

// GetTerms returns every term of one office, newest first.
func (s *OfficeService) GetTerms(officeId int) ([]*model.OfficeTerm, error) {
	db := database.GetDB()
	terms := make([]*model.OfficeTerm, 0)
	err := db.Model(model.OfficeTerm{}).
		Where("office_id = ?", officeId).
		Order("start_at desc").
		Find(&terms).
		Error
	if err != nil {
		return nil, err
	}
	return terms, nil
}

// GetMemberTerms returns a member's office history, newest first.
func (s *OfficeService) GetMemberTerms(memberId int) ([]*model.OfficeTerm, error) {
	db := database.GetDB()
	terms := make([]*model.OfficeTerm, 0)
	err := db.Model(model.OfficeTerm{}).
		Where("member_id = ?", memberId).
		Order("start_at desc").
		Find(&terms).
		Error
	if err != nil {
		return nil, err
	}
	return terms, nil
}

func (s *OfficeService) AddTerm(term *model.OfficeTerm) error {
	if term.End.Before(term.Start) {
		return common.NewError("term end precedes its start")
	}
	db := database.GetDB()
	return db.Create(term).Error
}

// EndTerm closes an office term as of now. A member stepping down loses the
// office's permissions at their next login.
func (s *OfficeService) EndTerm(termId int) error {
	db := database.GetDB()
	return db.Model(model.OfficeTerm{}).
		Where("id = ?", termId).
		Update("end_at", time.Now()).
		Error
}

func (s *OfficeService) GetOfficePermissions(officeId int) ([]model.Permission, error) {
	db := database.GetDB()
	var permissions []model.Permission
	err := db.Model(model.OfficePermission{}).
		Where("office_id = ?", officeId).
		Pluck("permission", &permissions).
		Error
	if err != nil {
		return nil, err
	}
	return permissions, nil
}

// SetOfficePermissions replaces an office's permission attachments.
func (s *OfficeService) SetOfficePermissions(officeId int, permissions []model.Permission) error {
	for _, p := range permissions {
		if !p.Valid() {
			return common.NewError("unknown permission:", p)
		}
	}

	db := database.GetDB()
	err := db.Where("office_id = ?", officeId).
		Delete(&model.OfficePermission{}).
		Error
	if err != nil {
		return err
	}
	for _, p := range permissions {
		err := db.Create(&model.OfficePermission{OfficeId: officeId, Permission: p}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
