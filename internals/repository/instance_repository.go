package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"library-catalog/initializers"
	"library-catalog/internals/models"
	logger "library-catalog/loggers"
)

// ListBorrowed returns every copy currently on loan, soonest due first.
func ListBorrowed(page int) (*Page[models.BookInstance], error) {
	return listLoaned(page, 0)
}

// ListBorrowedByUser returns the copies on loan to one borrower, soonest due first.
func ListBorrowedByUser(userID uint, page int) (*Page[models.BookInstance], error) {
	return listLoaned(page, userID)
}

func loanedScope(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("status = ?", models.StatusOnLoan)
		if userID != 0 {
			db = db.Where("borrower_id = ?", userID)
		}
		return db
	}
}

func listLoaned(page int, userID uint) (*Page[models.BookInstance], error) {
	var count int64
	if err := initializers.DB.Model(&models.BookInstance{}).
		Scopes(loanedScope(userID)).
		Count(&count).Error; err != nil {
		return nil, err
	}

	var instances []models.BookInstance
	result := initializers.DB.
		Scopes(loanedScope(userID)).
		Preload("Book").
		Preload("Borrower").
		Order("due_back").
		Limit(PageSize).
		Offset(pageOffset(page)).
		Find(&instances)
	if result.Error != nil {
		logger.Logger.Error("failed to list loaned copies: ", result.Error)
		return nil, result.Error
	}

	return &Page[models.BookInstance]{
		Count:    count,
		Page:     normalizePage(page),
		PageSize: PageSize,
		Results:  instances,
	}, nil
}

func GetInstanceByID(id uuid.UUID) (*models.BookInstance, error) {
	var instance models.BookInstance
	result := initializers.DB.Preload("Book").Preload("Borrower").First(&instance, "id = ?", id)
	if result.Error != nil {
		return nil, result.Error
	}
	return &instance, nil
}

// FirstAvailableCopy returns any available copy of the given book.
func FirstAvailableCopy(bookID uint) (*models.BookInstance, error) {
	var instance models.BookInstance
	result := initializers.DB.
		Where("book_id = ? AND status = ?", bookID, models.StatusAvailable).
		First(&instance)
	if result.Error != nil {
		return nil, result.Error
	}
	return &instance, nil
}

func CreateInstance(instance *models.BookInstance) error {
	result := initializers.DB.Create(instance)
	if result.Error != nil {
		logger.Logger.Error("failed to insert book instance: ", result.Error)
	}
	return result.Error
}

func SaveInstance(instance *models.BookInstance) error {
	result := initializers.DB.Save(instance)
	if result.Error != nil {
		logger.Logger.Error("failed to update book instance: ", result.Error)
	}
	return result.Error
}
