package models

type Genre struct {
	ID   uint   `gorm:"primaryKey;column:id"`
	Name string `gorm:"column:name;type:varchar(200);unique;not null"`
}
