package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Loan status of a single physical copy.
const (
	StatusMaintenance = "m"
	StatusOnLoan      = "o"
	StatusAvailable   = "a"
	StatusReserved    = "r"
)

// BookInstance is one loanable copy of a Book.
type BookInstance struct {
	ID         uuid.UUID    `gorm:"primaryKey;column:id;type:uuid"`
	BookID     uint         `gorm:"column:book_id;not null;index"`
	Book       *Book        `gorm:"foreignKey:BookID"`
	Imprint    string       `gorm:"column:imprint;type:varchar(200)"`
	DueBack    *time.Time   `gorm:"column:due_back;type:date;index"`
	Status     string       `gorm:"column:status;type:varchar(1);default:'m';check:status IN ('m','o','a','r')"`
	BorrowerID *uint        `gorm:"column:borrower_id;index"`
	Borrower   *UserProfile `gorm:"foreignKey:BorrowerID"`
	CreatedAt  time.Time    `gorm:"autoCreateTime;column:created_at"`
	UpdatedAt  time.Time    `gorm:"autoUpdateTime;column:updated_at"`
}

func (bi *BookInstance) BeforeCreate(tx *gorm.DB) error {
	if bi.ID == uuid.Nil {
		bi.ID = uuid.New()
	}
	return nil
}

func (bi *BookInstance) IsOverdue(today time.Time) bool {
	if bi.DueBack == nil {
		return false
	}
	y, m, d := today.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	return bi.DueBack.Before(midnight)
}
