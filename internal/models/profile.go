package models

import "time"

// Profile carries the display identity and role for a user. It is the
// only place a role is stored; credentials stay on the users table.
type Profile struct {
	ID        string    `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"fullName"`
	Role      UserRole  `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// ProfilePatch holds presence-based partial updates for a profile.
// Nil pointers leave the column untouched.
type ProfilePatch struct {
	FullName *string   `json:"fullName,omitempty"`
	Role     *UserRole `json:"role,omitempty"`
}

// Empty reports whether the patch carries no changes.
func (p ProfilePatch) Empty() bool {
	return p.FullName == nil && p.Role == nil
}
