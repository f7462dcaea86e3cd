package model

import "time"

// Role is a user's authorization level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is an identity created on first external login.
type User struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OpenID       string    `gorm:"column:openId;type:varchar(64);not null;uniqueIndex" json:"openId"`
	Name         *string   `gorm:"column:name;type:text" json:"name"`
	Email        *string   `gorm:"column:email;type:varchar(320)" json:"email"`
	LoginMethod  *string   `gorm:"column:loginMethod;type:varchar(64)" json:"loginMethod"`
	Role         Role      `gorm:"column:role;type:varchar(16);not null;default:user" json:"role"`
	CreatedAt    time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updatedAt" json:"updatedAt"`
	LastSignedIn time.Time `gorm:"column:lastSignedIn;not null" json:"lastSignedIn"`
}

func (User) TableName() string { return "users" }

// IsAdmin reports whether u may perform write operations.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserUpsert is the identity payload from a login. Only OpenID is required;
// nil attributes are left untouched on an existing user.
type UserUpsert struct {
	OpenID      string
	Name        *string
	Email       *string
	LoginMethod *string
	Role        *Role
}

// Validate requires OpenID and rejects unknown roles.
func (in UserUpsert) Validate() error {
	var fe fieldErrors
	fe.requireText("openId", &in.OpenID, true)
	if in.Role != nil && !in.Role.Valid() {
		fe.invalidf("role")
	}
	return fe.err()
}
