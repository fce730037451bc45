package domain

import (
	"strings"
	"time"
)

// User is a registered member of the team as stored in the database.
type User struct {
	ID        string
	ChatID    string
	ChatName  string
	FirstName string
	LastName  string
	Email     string
	IsAdmin   bool
	IsOwner   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity is the normalized caller of a command, resolved once when a
// message enters the dispatcher.
type Identity struct {
	ID         string
	IsOwner    bool
	IsAdmin    bool
	Registered bool
}

// CanManageUsers reports whether the caller may create other users.
func (i Identity) CanManageUsers() bool { return i.IsOwner || i.IsAdmin }

// Identity returns the caller view of a stored user.
func (u *User) Identity() Identity {
	return Identity{ID: u.ChatID, IsOwner: u.IsOwner, IsAdmin: u.IsAdmin, Registered: true}
}

// SplitRealName splits a display name into first and last name. The last
// word is the last name; everything before it is the first name.
func SplitRealName(realName string) (first, last string) {
	words := strings.Fields(realName)
	switch len(words) {
	case 0:
		return "", ""
	case 1:
		return "", words[0]
	default:
		return strings.Join(words[:len(words)-1], " "), words[len(words)-1]
	}
}

// DirectoryEntry is a user as described by the chat platform's directory.
type DirectoryEntry struct {
	ChatID   string
	Name     string
	RealName string
	Email    string
	IsAdmin  bool
	IsOwner  bool
	IsBot    bool
}

// ToUser builds a stored user from a directory entry.
func (e *DirectoryEntry) ToUser(id string) *User {
	first, last := SplitRealName(e.RealName)
	return &User{
		ID:        id,
		ChatID:    e.ChatID,
		ChatName:  e.Name,
		FirstName: first,
		LastName:  last,
		Email:     e.Email,
		IsAdmin:   e.IsAdmin,
		IsOwner:   e.IsOwner,
	}
}
