package repository

import (
	"strings"

	"library-catalog/initializers"
	"library-catalog/internals/models"
)

// CatalogCounts is the home page summary.
type CatalogCounts struct {
	Books              int64 `json:"num_books"`
	Instances          int64 `json:"num_instances"`
	InstancesAvailable int64 `json:"num_instances_available"`
	Authors            int64 `json:"num_authors"`
	FantasyBooks       int64 `json:"num_genres_with_fantasy"`
	BooksWithThe       int64 `json:"num_books_with_the"`
}

func CountCatalog() (*CatalogCounts, error) {
	var counts CatalogCounts
	db := initializers.DB

	if err := db.Model(&models.Book{}).Count(&counts.Books).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.BookInstance{}).Count(&counts.Instances).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.BookInstance{}).
		Where("status = ?", models.StatusAvailable).
		Count(&counts.InstancesAvailable).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Author{}).Count(&counts.Authors).Error; err != nil {
		return nil, err
	}
	if err := countBooksWithGenreName("fantasy", &counts.FantasyBooks); err != nil {
		return nil, err
	}
	if err := db.Model(&models.Book{}).
		Where("LOWER(title) LIKE ?", "%the%").
		Count(&counts.BooksWithThe).Error; err != nil {
		return nil, err
	}

	return &counts, nil
}

func countBooksWithGenreName(fragment string, dst *int64) error {
	pattern := "%" + strings.ToLower(fragment) + "%"
	return initializers.DB.Model(&models.Book{}).
		Joins("JOIN book_genres ON book_genres.book_id = books.id").
		Joins("JOIN genres ON genres.id = book_genres.genre_id").
		Where("LOWER(genres.name) LIKE ?", pattern).
		Distinct("books.id").
		Count(dst).Error
}
