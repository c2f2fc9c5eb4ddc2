package service

import (
	"testing"
	"time"

	"house-panel/database"
	"house-panel/database/model"

	"github.com/stretchr/testify/assert"
)

func addActiveMember(t *testing.T, name string, joined time.Time) *model.Member {
	memberService := MemberService{}
	member := &model.Member{
		Name:     name,
		Email:    name + "@example.org",
		JoinedAt: joined,
	}
	err := memberService.AddMember(member)
	assert.NoError(t, err)
	return member
}

func TestRooms(t *testing.T) {
	setup()
	defer teardown()

	service := HassleService{}

	err := service.AddRoom(&model.Room{Number: "201", Floor: 2, Capacity: 2})
	assert.NoError(t, err)
	err = service.AddRoom(&model.Room{Number: "101", Floor: 1})
	assert.NoError(t, err)
	assert.Error(t, service.AddRoom(&model.Room{Floor: 3}))

	rooms, err := service.GetRooms()
	assert.NoError(t, err)
	assert.Len(t, rooms, 2)
	// ordered by floor then number
	assert.Equal(t, "101", rooms[0].Number)
	assert.Equal(t, 1, rooms[0].Capacity) // defaulted
	assert.Equal(t, "201", rooms[1].Number)

	rooms[0].Notes = "corner room"
	err = service.UpdateRoom(rooms[0])
	assert.NoError(t, err)
	rooms, err = service.GetRooms()
	assert.NoError(t, err)
	assert.Equal(t, "corner room", rooms[0].Notes)
}

func TestSubmitRanks(t *testing.T) {
	setup()
	defer teardown()

	service := HassleService{}
	member := addActiveMember(t, "alice", time.Now())

	roomA := &model.Room{Number: "A"}
	roomB := &model.Room{Number: "B"}
	assert.NoError(t, service.AddRoom(roomA))
	assert.NoError(t, service.AddRoom(roomB))

	// nothing open yet
	assert.Error(t, service.SubmitRanks(member.Id, []int{roomA.Id}))

	assert.NoError(t, service.OpenHassle(2026))
	assert.Error(t, service.OpenHassle(0))

	assert.Error(t, service.SubmitRanks(member.Id, nil))
	assert.Error(t, service.SubmitRanks(member.Id, []int{roomA.Id, roomA.Id}))

	assert.NoError(t, service.SubmitRanks(member.Id, []int{roomB.Id, roomA.Id}))
	ranks, err := service.GetRanks(member.Id, 2026)
	assert.NoError(t, err)
	assert.Len(t, ranks, 2)
	assert.Equal(t, roomB.Id, ranks[0].RoomId)
	assert.Equal(t, 1, ranks[0].Rank)

	// resubmitting replaces the list
	assert.NoError(t, service.SubmitRanks(member.Id, []int{roomA.Id}))
	ranks, err = service.GetRanks(member.Id, 2026)
	assert.NoError(t, err)
	assert.Len(t, ranks, 1)
	assert.Equal(t, roomA.Id, ranks[0].RoomId)

	assert.NoError(t, service.CloseHassle())
	assert.Error(t, service.SubmitRanks(member.Id, []int{roomA.Id}))
}

func TestRunDraft(t *testing.T) {
	setup()
	defer teardown()

	service := HassleService{}

	single := &model.Room{Number: "301", Capacity: 1}
	double := &model.Room{Number: "302", Capacity: 2}
	assert.NoError(t, service.AddRoom(single))
	assert.NoError(t, service.AddRoom(double))

	// seniority is join order
	senior := addActiveMember(t, "senior", time.Now().Add(-3*365*24*time.Hour))
	middle := addActiveMember(t, "middle", time.Now().Add(-2*365*24*time.Hour))
	junior := addActiveMember(t, "junior", time.Now().Add(-365*24*time.Hour))

	assert.NoError(t, service.OpenHassle(2026))
	assert.NoError(t, service.SubmitRanks(senior.Id, []int{single.Id, double.Id}))
	assert.NoError(t, service.SubmitRanks(middle.Id, []int{single.Id, double.Id}))
	assert.NoError(t, service.SubmitRanks(junior.Id, []int{single.Id, double.Id}))

	assignments, err := service.RunDraft(2026)
	assert.NoError(t, err)
	assert.Len(t, assignments, 3)

	byMember := map[int]int{}
	for _, a := range assignments {
		byMember[a.MemberId] = a.RoomId
	}
	// the senior member gets the contested single, everyone else overflows
	// into the double
	assert.Equal(t, single.Id, byMember[senior.Id])
	assert.Equal(t, double.Id, byMember[middle.Id])
	assert.Equal(t, double.Id, byMember[junior.Id])

	// rerunning replaces the year's assignments instead of stacking them
	again, err := service.RunDraft(2026)
	assert.NoError(t, err)
	assert.Len(t, again, 3)
	stored, err := service.GetAssignments(2026)
	assert.NoError(t, err)
	assert.Len(t, stored, 3)

	_, err = service.RunDraft(0)
	assert.Error(t, err)
}

func TestRunDraftSkipsMembersWithoutRanks(t *testing.T) {
	setup()
	defer teardown()

	service := HassleService{}

	room := &model.Room{Number: "401", Capacity: 1}
	assert.NoError(t, service.AddRoom(room))

	ranked := addActiveMember(t, "ranked", time.Now().Add(-48*time.Hour))
	silent := addActiveMember(t, "silent", time.Now().Add(-72*time.Hour))
	_ = silent

	assert.NoError(t, service.OpenHassle(2026))
	assert.NoError(t, service.SubmitRanks(ranked.Id, []int{room.Id}))

	assignments, err := service.RunDraft(2026)
	assert.NoError(t, err)
	assert.Len(t, assignments, 1)
	assert.Equal(t, ranked.Id, assignments[0].MemberId)

	var count int64
	db := database.GetDB()
	err = db.Model(model.RoomAssignment{}).Where("year = ?", 2026).Count(&count).Error
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
