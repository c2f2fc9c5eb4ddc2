package service

import (
	"house-panel/database"
	"house-panel/database/model"
	"house-panel/logger"
	"house-panel/util/common"
)

// HassleService runs the annual room draft: rooms, rank submissions and the
// seniority-ordered assignment pass.
type HassleService struct {
	settingService SettingService
	memberService  MemberService
}

func (s *HassleService) GetRooms() ([]*model.Room, error) {
	db := database.GetDB()
	rooms := make([]*model.Room, 0)
	err := db.Model(model.Room{}).Order("floor, number").Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (s *HassleService) AddRoom(room *model.Room) error {
	if room.Number == "" {
		return common.NewError("room number can not be empty")
	}
	if room.Capacity <= 0 {
		room.Capacity = 1
	}
	db := database.GetDB()
	return db.Create(room).Error
}

func (s *HassleService) UpdateRoom(room *model.Room) error {
	db := database.GetDB()
	return db.Model(model.Room{}).
		Where("id = ?", room.Id).
		Updates(map[string]any{
			"number":   room.Number,
			"floor":    room.Floor,
			"capacity": room.Capacity,
			"notes":    room.Notes,
		}).
		Error
}

// OpenHassle opens rank submissions for a year. Any previous ranks for that
// year are kept; reopening a year is how a botched draft gets rerun.
func (s *HassleService) OpenHassle(year int) error {
	if year <= 0 {
		return common.NewError("invalid hassle year:", year)
	}
	return s.settingService.SetHassleYear(year)
}

func (s *HassleService) CloseHassle() error {
	return s.settingService.SetHassleYear(0)
}

// SubmitRanks replaces a member's preference list for the open year.
// roomIds is ordered most-wanted first.
func (s *HassleService) SubmitRanks(memberId int, roomIds []int) error {
	year, err := s.settingService.GetHassleYear()
	if err != nil {
		return err
	}
	if year == 0 {
		return common.NewError("no hassle is open")
	}
	if len(roomIds) == 0 {
		return common.NewError("rank list can not be empty")
	}

	seen := map[int]bool{}
	for _, roomId := range roomIds {
		if seen[roomId] {
			return common.NewError("duplicate room in rank list:", roomId)
		}
		seen[roomId] = true
	}

	db := database.GetDB()
	err = db.Where("year = ? AND member_id = ?", year, memberId).
		Delete(&model.RoomRank{}).
		Error
	if err != nil {
		return err
	}

	for i, roomId := range roomIds {
		rank := &model.RoomRank{
			Year:     year,
			MemberId: memberId,
			RoomId:   roomId,
			Rank:     i + 1,
		}
		if err := db.Create(rank).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *HassleService) GetRanks(memberId int, year int) ([]*model.RoomRank, error) {
	db := database.GetDB()
	ranks := make([]*model.RoomRank, 0)
	err := db.Model(model.RoomRank{}).
		Where("year = ? AND member_id = ?", year, memberId).
		Order("rank").
		Find(&ranks).
		Error
	if err != nil {
		return nil, err
	}
	return ranks, nil
}

// RunDraft assigns rooms for a year: members in house-seniority order each
// get their highest-ranked room with capacity left. Members who never
// submitted ranks are skipped. Rerunning replaces the year's assignments.
func (s *HassleService) RunDraft(year int) ([]*model.RoomAssignment, error) {
	if year <= 0 {
		return nil, common.NewError("invalid hassle year:", year)
	}

	db := database.GetDB()

	rooms, err := s.GetRooms()
	if err != nil {
		return nil, err
	}
	capacity := map[int]int{}
	for _, room := range rooms {
		capacity[room.Id] = room.Capacity
	}

	members, err := s.memberService.ActiveMembers()
	if err != nil {
		return nil, err
	}

	err = db.Where("year = ?", year).Delete(&model.RoomAssignment{}).Error
	if err != nil {
		return nil, err
	}

	assignments := make([]*model.RoomAssignment, 0, len(members))
	for _, member := range members {
		ranks, err := s.GetRanks(member.Id, year)
		if err != nil {
			return nil, err
		}
		if len(ranks) == 0 {
			continue
		}

		assigned := false
		for _, rank := range ranks {
			if capacity[rank.RoomId] <= 0 {
				continue
			}
			assignment := &model.RoomAssignment{
				Year:     year,
				RoomId:   rank.RoomId,
				MemberId: member.Id,
			}
			if err := db.Create(assignment).Error; err != nil {
				return nil, err
			}
			capacity[rank.RoomId]--
			assignments = append(assignments, assignment)
			assigned = true
			break
		}
		if !assigned {
			logger.Infof("hassle %d: no ranked room left for member %d", year, member.Id)
		}
	}
	return assignments, nil
}

func (s *HassleService) GetAssignments(year int) ([]*model.RoomAssignment, error) {
	db := database.GetDB()
	assignments := make([]*model.RoomAssignment, 0)
	err := db.Model(model.RoomAssignment{}).
		Where("year = ?", year).
		Find(&assignments).
		Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}
