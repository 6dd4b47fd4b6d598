package models

import "time"

type Book struct {
	ID         uint           `gorm:"primaryKey;column:id"`
	Title      string         `gorm:"column:title;type:varchar(200);not null"`
	AuthorID   uint           `gorm:"column:author_id;not null"`
	Author     *Author        `gorm:"foreignKey:AuthorID"`
	Summary    string         `gorm:"column:summary;type:text"`
	IsBn       string         `gorm:"column:isbn;type:varchar(13);unique;not null"`
	Genres     []Genre        `gorm:"many2many:book_genres"`
	LanguageID *uint          `gorm:"column:language_id"`
	Language   *Language      `gorm:"foreignKey:LanguageID"`
	Instances  []BookInstance `gorm:"foreignKey:BookID"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;column:created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime;column:updated_at"`
}
