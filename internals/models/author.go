package models

import "time"

type Author struct {
	ID          uint       `gorm:"primaryKey;column:id"`
	FirstName   string     `gorm:"column:first_name;type:varchar(100);not null"`
	LastName    string     `gorm:"column:last_name;type:varchar(100);not null"`
	DateOfBirth *time.Time `gorm:"column:date_of_birth;type:date"`
	DateOfDeath *time.Time `gorm:"column:date_of_death;type:date"`
	Books       []Book     `gorm:"foreignKey:AuthorID"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;column:created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime;column:updated_at"`
}

// DisplayName renders the catalog listing form "last name, first name".
func (a *Author) DisplayName() string {
	return a.LastName + ", " + a.FirstName
}
