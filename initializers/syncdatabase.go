package initializers

import "library-catalog/internals/models"

func SyncDatabase() {
	DB.AutoMigrate(&models.UserProfile{})
	DB.AutoMigrate(&models.UserPermission{})
	DB.AutoMigrate(&models.Author{})
	DB.AutoMigrate(&models.Genre{})
	DB.AutoMigrate(&models.Language{})
	DB.AutoMigrate(&models.Book{})
	DB.AutoMigrate(&models.BookInstance{})
}
