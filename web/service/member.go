package service

import (
	"encoding/csv"
	"io"
	"strings"
	"time"

	"house-panel/database"
	"house-panel/database/model"
	"house-panel/util/common"

	"github.com/google/uuid"
)

type MemberService struct{}

// ImportResult reports the outcome of one CSV row.
type ImportResult struct {
	Line  int    `json:"line"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token,omitempty"`
	Error string `json:"error,omitempty"`
}

func (s *MemberService) GetMembers() ([]*model.Member, error) {
	db := database.GetDB()
	members := make([]*model.Member, 0)
	err := db.Model(model.Member{}).Order("name").Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (s *MemberService) GetMember(id int) (*model.Member, error) {
	db := database.GetDB()
	member := &model.Member{}
	err := db.Model(model.Member{}).Where("id = ?", id).First(member).Error
	if err != nil {
		return nil, err
	}
	return member, nil
}

func (s *MemberService) AddMember(member *model.Member) error {
	if member.Name == "" {
		return common.NewError("member name can not be empty")
	}
	if member.Email == "" {
		return common.NewError("member email can not be empty")
	}
	member.Uuid = uuid.NewString()
	if member.Status == "" {
		member.Status = model.StatusActive
	}
	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now()
	}
	db := database.GetDB()
	return db.Create(member).Error
}

func (s *MemberService) UpdateMember(member *model.Member) error {
	db := database.GetDB()
	return db.Model(model.Member{}).
		Where("id = ?", member.Id).
		Updates(map[string]any{
			"name":     member.Name,
			"email":    member.Email,
			"phone":    member.Phone,
			"hometown": member.Hometown,
			"status":   member.Status,
		}).
		Error
}

// DepartMember marks a member moved out. The member row and any account stay;
// deleting history is a separate administrative concern.
func (s *MemberService) DepartMember(id int, status model.MemberStatus) error {
	if status != model.StatusInactive && status != model.StatusAlum {
		return common.NewError("invalid departure status:", status)
	}
	db := database.GetDB()
	now := time.Now()
	return db.Model(model.Member{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":      status,
			"departed_at": now,
		}).
		Error
}

// ActiveMembers returns members eligible for the hassle and for office terms.
func (s *MemberService) ActiveMembers() ([]*model.Member, error) {
	db := database.GetDB()
	members := make([]*model.Member, 0)
	err := db.Model(model.Member{}).
		Where("status = ?", model.StatusActive).
		Order("joined_at, id").
		Find(&members).
		Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// ImportCSV bulk-creates members from "name,email[,phone]" rows and issues
// each an account-creation invitation. Rows that fail are reported
// individually; good rows are not rolled back.
func (s *MemberService) ImportCSV(r io.Reader, tokenService *TokenService) ([]ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	results := make([]ImportResult, 0)
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			results = append(results, ImportResult{Line: line, Error: err.Error()})
			continue
		}
		if len(record) < 2 {
			results = append(results, ImportResult{Line: line, Error: "expected at least name,email"})
			continue
		}

		member := &model.Member{
			Name:  strings.TrimSpace(record[0]),
			Email: strings.TrimSpace(record[1]),
		}
		if len(record) > 2 {
			member.Phone = strings.TrimSpace(record[2])
		}

		result := ImportResult{Line: line, Name: member.Name, Email: member.Email}
		if err := s.AddMember(member); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		token, err := tokenService.IssueCreateToken(member.Id)
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Token = token
		}
		results = append(results, result)
	}
	return results, nil
}
