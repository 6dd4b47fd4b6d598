package models

import "time"

// Permission codenames consumed by the catalog views.
const (
	PermCanMarkReturned = "catalog.can_mark_returned"
	PermCanEditAuthors  = "catalog.can_edit_authors"
)

type UserProfile struct {
	ID        uint      `gorm:"primaryKey;column:id"`
	FirstName string    `gorm:"not null;column:first_name"`
	LastName  string    `gorm:"not null;column:last_name"`
	Email     string    `gorm:"not null;unique;column:email"`
	Password  string    `gorm:"not null;column:password"`
	UserType  string    `gorm:"not null;check:user_type IN ('student', 'faculty', 'staff');column:user_type"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;column:updated_at"`
}

// UserPermission grants one permission codename to one user.
type UserPermission struct {
	ID       uint   `gorm:"primaryKey;column:id"`
	UserID   uint   `gorm:"column:user_id;not null;index:idx_user_codename,unique"`
	Codename string `gorm:"column:codename;type:varchar(100);not null;index:idx_user_codename,unique"`
}
