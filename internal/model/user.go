package model

import "time"

// Role is the privilege tier of a user. The tiers are ordered
// default < admin < root for update purposes, but root may not touch
// other roots (see the update authorizer in the service layer).
type Role int32

const (
	RoleDefault Role = 0
	RoleAdmin   Role = 1
	RoleRoot    Role = 2
)

// Valid reports whether r is one of the three known tiers.
func (r Role) Valid() bool {
	return r == RoleDefault || r == RoleAdmin || r == RoleRoot
}

func (r Role) String() string {
	switch r {
	case RoleDefault:
		return "default"
	case RoleAdmin:
		return "admin"
	case RoleRoot:
		return "root"
	default:
		return "unknown"
	}
}

// User represents a user record in the store
type User struct {
	ID           int64     `json:"id"`
	Account      string    `json:"account"` // unique, immutable for non-privileged roles
	PasswordHash string    `json:"-"`       // Do not expose password hash in JSON responses
	Nickname     *string   `json:"nickname,omitempty"`
	AvatarID     *int64    `json:"avatar_id,omitempty"`
	Gender       int16     `json:"gender"`
	Phone        *string   `json:"phone,omitempty"`
	Email        *string   `json:"email,omitempty"`
	Status       int32     `json:"status"`
	Role         Role      `json:"role"`
	IsDeleted    bool      `json:"-"` // soft-delete flag, never exposed
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SafeUser is the sanitized projection of a User returned to callers:
// no password hash, no delete flag.
type SafeUser struct {
	ID        int64     `json:"id"`
	Account   string    `json:"account"`
	Nickname  *string   `json:"nickname,omitempty"`
	AvatarID  *int64    `json:"avatar_id,omitempty"`
	Gender    int16     `json:"gender"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Status    int32     `json:"status"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Sanitize returns the password-free view of the user.
func (u *User) Sanitize() *SafeUser {
	if u == nil {
		return nil
	}
	return &SafeUser{
		ID:        u.ID,
		Account:   u.Account,
		Nickname:  u.Nickname,
		AvatarID:  u.AvatarID,
		Gender:    u.Gender,
		Phone:     u.Phone,
		Email:     u.Email,
		Status:    u.Status,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// RegisterRequest is the registration payload. Blank-field and format
// checks happen in the service layer so that violations surface as
// param errors rather than binding errors.
type RegisterRequest struct {
	Account       string `json:"account"`
	Password      string `json:"password"`
	CheckPassword string `json:"check_password"`
}

// LoginRequest is the login payload
type LoginRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

// UpdateUserRequest carries a proposed update. Every field is a pointer so
// the authorizer can distinguish "absent" from "set to zero value"; a nil
// field is not part of the update.
type UpdateUserRequest struct {
	ID        int64      `json:"-"` // target user, taken from the URL
	Account   *string    `json:"account,omitempty"`
	Password  *string    `json:"password,omitempty"`
	Nickname  *string    `json:"nickname,omitempty"`
	AvatarID  *int64     `json:"avatar_id,omitempty"`
	Gender    *int16     `json:"gender,omitempty"`
	Phone     *string    `json:"phone,omitempty"`
	Email     *string    `json:"email,omitempty"`
	Status    *int32     `json:"status,omitempty"`
	Role      *Role      `json:"role,omitempty"`
	IsDeleted *bool      `json:"is_deleted,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// UserPage is one page of sanitized search results plus paging metadata.
type UserPage struct {
	Records    []SafeUser `json:"records"`
	Total      int64      `json:"total"`
	TotalPages int64      `json:"total_pages"`
	Page       int64      `json:"page"`
	Size       int64      `json:"size"`
}
