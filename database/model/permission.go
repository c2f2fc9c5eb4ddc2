package model

// Permission is the closed set of grants the panel understands. Admin
// short-circuits every check.
type Permission int

const (
	PermAdmin Permission = iota + 1
	PermMembership
	PermOffices
	PermHassle
	PermBudget
)

var permissionNames = map[Permission]string{
	PermAdmin:      "Admin",
	PermMembership: "Membership",
	PermOffices:    "Offices",
	PermHassle:     "Room Hassle",
	PermBudget:     "Budget",
}

func (p Permission) String() string {
	if name, ok := permissionNames[p]; ok {
		return name
	}
	return "Unknown"
}

// Valid reports whether p is one of the defined permissions.
func (p Permission) Valid() bool {
	_, ok := permissionNames[p]
	return ok
}

// AllPermissions returns every defined permission in display order.
func AllPermissions() []Permission {
	return []Permission{PermAdmin, PermMembership, PermOffices, PermHassle, PermBudget}
}
