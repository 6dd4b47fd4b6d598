package repository

import (
	"library-catalog/initializers"
	"library-catalog/internals/models"
	logger "library-catalog/loggers"
)

func CreateUser(user *models.UserProfile) error {
	result := initializers.DB.Create(user)
	if result.Error != nil {
		logger.Logger.Error("failed to insert user profile: ", result.Error)
	}
	return result.Error
}

func GetUserByEmail(email string) (*models.UserProfile, error) {
	var user models.UserProfile
	result := initializers.DB.Where("email = ?", email).First(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

// HasPermission reports whether the user holds the permission codename.
func HasPermission(userID uint, codename string) (bool, error) {
	var count int64
	result := initializers.DB.Model(&models.UserPermission{}).
		Where("user_id = ? AND codename = ?", userID, codename).
		Count(&count)
	if result.Error != nil {
		logger.Logger.Error("failed to check permission: ", result.Error)
		return false, result.Error
	}
	return count > 0, nil
}

func GrantPermission(userID uint, codename string) error {
	perm := models.UserPermission{UserID: userID, Codename: codename}
	return initializers.DB.Create(&perm).Error
}
