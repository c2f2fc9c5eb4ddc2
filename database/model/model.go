package model

import "time"

type MemberStatus string

const (
	StatusActive   MemberStatus = "active"
	StatusInactive MemberStatus = "inactive"
	StatusAlum     MemberStatus = "alum"
)

// Member is a person in the house directory. A member is pre-provisioned at
// intake (optionally with a create token inviting them to open an account)
// and exists independently of whether an account was ever created.
type Member struct {
	Id          int          `json:"id" gorm:"primaryKey;autoIncrement"`
	Uuid        string       `json:"uuid" gorm:"uniqueIndex;not null"`
	Name        string       `json:"name" form:"name" gorm:"not null"`
	Email       string       `json:"email" form:"email" gorm:"not null"`
	Phone       string       `json:"phone" form:"phone"`
	Hometown    string       `json:"hometown" form:"hometown"`
	Status      MemberStatus `json:"status" form:"status" gorm:"not null;default:active"`
	JoinedAt    time.Time    `json:"joinedAt"`
	DepartedAt  *time.Time   `json:"departedAt"`
	CreateToken string       `json:"-" gorm:"column:create_token"`
}

// User is a member's login account: username, the serialized password hash
// chain, the outstanding reset token if any, and login bookkeeping.
type User struct {
	Id           int        `json:"id" gorm:"primaryKey;autoIncrement"`
	MemberId     int        `json:"memberId" gorm:"index;not null"`
	Username     string     `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"column:password_hash"`
	ResetToken   string     `json:"-" gorm:"column:reset_token;index"`
	ResetExpiry  *time.Time `json:"-" gorm:"column:reset_expiry"`
	LastLogin    *time.Time `json:"lastLogin"`
}

// Office is a house office (President, Treasurer, ...). Permissions attach
// to the office; members gain them through date-bounded terms.
type Office struct {
	Id          int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string `json:"name" form:"name" gorm:"uniqueIndex;not null"`
	Description string `json:"description" form:"description"`
}

type OfficeTerm struct {
	Id       int       `json:"id" gorm:"primaryKey;autoIncrement"`
	OfficeId int       `json:"officeId" form:"officeId" gorm:"index;not null"`
	MemberId int       `json:"memberId" form:"memberId" gorm:"index;not null"`
	Start    time.Time `json:"start" form:"start" gorm:"column:start_at"`
	End      time.Time `json:"end" form:"end" gorm:"column:end_at"`
}

type OfficePermission struct {
	Id         int        `json:"id" gorm:"primaryKey;autoIncrement"`
	OfficeId   int        `json:"officeId" gorm:"index;not null"`
	Permission Permission `json:"permission" gorm:"not null"`
}

type UserPermission struct {
	Id         int        `json:"id" gorm:"primaryKey;autoIncrement"`
	UserId     int        `json:"userId" gorm:"index;not null"`
	Permission Permission `json:"permission" gorm:"not null"`
}

// Room is a bedroom in the house, drafted each year during the hassle.
type Room struct {
	Id       int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Number   string `json:"number" form:"number" gorm:"uniqueIndex;not null"`
	Floor    int    `json:"floor" form:"floor"`
	Capacity int    `json:"capacity" form:"capacity" gorm:"default:1"`
	Notes    string `json:"notes" form:"notes"`
}

// RoomRank is one member's preference for one room in one hassle year.
// Rank 1 is the most wanted.
type RoomRank struct {
	Id       int `json:"id" gorm:"primaryKey;autoIncrement"`
	Year     int `json:"year" gorm:"index;not null"`
	MemberId int `json:"memberId" gorm:"index;not null"`
	RoomId   int `json:"roomId" gorm:"not null"`
	Rank     int `json:"rank" gorm:"not null"`
}

type RoomAssignment struct {
	Id       int `json:"id" gorm:"primaryKey;autoIncrement"`
	Year     int `json:"year" gorm:"index;not null"`
	RoomId   int `json:"roomId" gorm:"not null"`
	MemberId int `json:"memberId" gorm:"not null"`
}

// BudgetEntry is one ledger line. Amounts are cents, negative for debits.
type BudgetEntry struct {
	Id          int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Semester    string    `json:"semester" form:"semester" gorm:"index;not null"`
	Category    string    `json:"category" form:"category" gorm:"index;not null"`
	Description string    `json:"description" form:"description"`
	AmountCents int64     `json:"amountCents" form:"amountCents" gorm:"not null"`
	EnteredBy   int       `json:"enteredBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Setting struct {
	Id    int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Key   string `json:"key" gorm:"uniqueIndex;not null"`
	Value string `json:"value"`
}
