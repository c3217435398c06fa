package models

import "time"

// User is a community member profile keyed by the client-facing UserID.
type User struct {
	Base
	UserID    string    `gorm:"column:user_id;not null" json:"userId"`
	Name      string    `gorm:"not null;default:''" json:"name"`
	Email     *string   `json:"email"`
	Phone     string    `gorm:"not null;default:''" json:"phone"`
	Location  string    `gorm:"not null;default:''" json:"location"`
	IsActive  bool      `gorm:"not null" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName overrides the default table name.
func (User) TableName() string { return "users" }

// EmailValue returns the stored email or the empty string.
func (u *User) EmailValue() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

// Document projects the user onto its wire document.
func (u *User) Document() map[string]any {
	return map[string]any{
		"_id":       u.RowID,
		"userId":    u.UserID,
		"name":      u.Name,
		"email":     u.EmailValue(),
		"phone":     u.Phone,
		"location":  u.Location,
		"isActive":  u.IsActive,
		"createdAt": u.CreatedAt,
		"updatedAt": u.UpdatedAt,
	}
}
