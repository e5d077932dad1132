package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of roles a signed-in user can hold.
type Role string

const (
	RoleStudent    Role = "Student"
	RoleResearcher Role = "Researcher"
	RoleFaculty    Role = "Faculty"
	RoleAdmin      Role = "Admin"
)

// Roles lists every valid role in display order.
func Roles() []Role {
	return []Role{RoleStudent, RoleResearcher, RoleFaculty, RoleAdmin}
}

// ParseRole matches s case-insensitively against the known roles.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	for _, r := range Roles() {
		if strings.EqualFold(s, string(r)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Identity represents the user currently signed in to a session.
type Identity struct {
	ID    string
	Name  string
	Email string
	Role  Role
}

// Notifications holds the notification toggles shown on the settings panel.
type Notifications struct {
	JobComplete    bool
	NewFeatures    bool
	WeeklyReport   bool
	SecurityAlerts bool
}

// Preferences holds display preferences shown on the settings panel.
type Preferences struct {
	Theme       string
	Language    string
	Timezone    string
	DefaultView string
}

// Settings bundles the editable, non-identity part of a profile.
type Settings struct {
	Notifications Notifications
	Preferences   Preferences
}

// DefaultSettings returns the settings every new identity starts with.
func DefaultSettings() Settings {
	return Settings{
		Notifications: Notifications{
			JobComplete:    true,
			NewFeatures:    false,
			WeeklyReport:   true,
			SecurityAlerts: true,
		},
		Preferences: Preferences{
			Theme:       "dark",
			Language:    "en",
			Timezone:    "UTC",
			DefaultView: "dashboard",
		},
	}
}
