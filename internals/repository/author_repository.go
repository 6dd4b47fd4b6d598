package repository

import (
	"library-catalog/initializers"
	"library-catalog/internals/models"
	logger "library-catalog/loggers"
)

func ListAuthors(page int) (*Page[models.Author], error) {
	var count int64
	if err := initializers.DB.Model(&models.Author{}).Count(&count).Error; err != nil {
		return nil, err
	}

	var authors []models.Author
	result := initializers.DB.
		Order("last_name, first_name").
		Limit(PageSize).
		Offset(pageOffset(page)).
		Find(&authors)
	if result.Error != nil {
		logger.Logger.Error("failed to list authors: ", result.Error)
		return nil, result.Error
	}

	return &Page[models.Author]{
		Count:    count,
		Page:     normalizePage(page),
		PageSize: PageSize,
		Results:  authors,
	}, nil
}

func GetAuthorByID(id uint) (*models.Author, error) {
	var author models.Author
	result := initializers.DB.Preload("Books").First(&author, id)
	if result.Error != nil {
		return nil, result.Error
	}
	return &author, nil
}

func CreateAuthor(author *models.Author) error {
	result := initializers.DB.Create(author)
	if result.Error != nil {
		logger.Logger.Error("failed to insert author: ", result.Error)
	}
	return result.Error
}

func UpdateAuthor(author *models.Author) error {
	result := initializers.DB.Save(author)
	if result.Error != nil {
		logger.Logger.Error("failed to update author: ", result.Error)
	}
	return result.Error
}

func DeleteAuthor(id uint) error {
	return initializers.DB.Delete(&models.Author{}, id).Error
}
