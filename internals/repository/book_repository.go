package repository

import (
	"strings"

	"library-catalog/initializers"
	"library-catalog/internals/models"
	logger "library-catalog/loggers"
)

func ListBooks(page int) (*Page[models.Book], error) {
	var count int64
	if err := initializers.DB.Model(&models.Book{}).Count(&count).Error; err != nil {
		return nil, err
	}

	var books []models.Book
	result := initializers.DB.
		Preload("Author").
		Order("title").
		Limit(PageSize).
		Offset(pageOffset(page)).
		Find(&books)
	if result.Error != nil {
		logger.Logger.Error("failed to list books: ", result.Error)
		return nil, result.Error
	}

	return &Page[models.Book]{
		Count:    count,
		Page:     normalizePage(page),
		PageSize: PageSize,
		Results:  books,
	}, nil
}

func GetBookByID(id uint) (*models.Book, error) {
	var book models.Book
	result := initializers.DB.
		Preload("Author").
		Preload("Genres").
		Preload("Language").
		Preload("Instances").
		First(&book, id)
	if result.Error != nil {
		return nil, result.Error
	}
	return &book, nil
}

// BooksWithTitleContaining matches titles case-insensitively.
func BooksWithTitleContaining(fragment string, limit int) ([]models.Book, error) {
	var books []models.Book
	pattern := "%" + strings.ToLower(fragment) + "%"
	q := initializers.DB.Where("LOWER(title) LIKE ?", pattern).Order("title")
	if limit > 0 {
		q = q.Limit(limit)
	}
	result := q.Find(&books)
	if result.Error != nil {
		return nil, result.Error
	}
	return books, nil
}

func GetGenresByIDs(ids []uint) ([]models.Genre, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var genres []models.Genre
	result := initializers.DB.Find(&genres, ids)
	if result.Error != nil {
		return nil, result.Error
	}
	return genres, nil
}

func CreateBook(book *models.Book) error {
	result := initializers.DB.Create(book)
	if result.Error != nil {
		logger.Logger.Error("failed to insert book: ", result.Error)
	}
	return result.Error
}

func UpdateBook(book *models.Book) error {
	result := initializers.DB.Save(book)
	if result.Error != nil {
		logger.Logger.Error("failed to update book: ", result.Error)
		return result.Error
	}
	// Save does not touch many-to-many rows, sync genres explicitly.
	return initializers.DB.Model(book).Association("Genres").Replace(book.Genres)
}

func DeleteBook(id uint) error {
	return initializers.DB.Delete(&models.Book{}, id).Error
}
