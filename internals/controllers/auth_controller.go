package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"library-catalog/initializers"
	"library-catalog/internals/middleware"
	"library-catalog/internals/models"
	"library-catalog/internals/repository"
	logger "library-catalog/loggers"
)

type SignUpRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	UserType  string `json:"user_type" binding:"required,oneof=student faculty staff"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrCredentialsNotCached = errors.New("credentials not cached")
)

func SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.BindJSON(&req); err != nil {
		logger.Logger.Error("failed to bind signup request: ", err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 10)
	if err != nil {
		logger.Logger.Error("failed to hash password: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		return
	}

	user := models.UserProfile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  string(hash),
		UserType:  req.UserType,
	}
	if err := repository.CreateUser(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user creation failed"})
		return
	}

	if err := cacheCredentials(c.Request.Context(), user.Email, user.Password); err != nil {
		logger.Logger.Error("failed to cache credentials in redis: ", err)
	}
	c.JSON(http.StatusCreated, gin.H{"message": "user created", "email": user.Email})
}

// Login checks the redis credential cache first and falls back to the
// database, then issues a cookie-borne token pair.
func Login(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var req LoginRequest
	if err := c.BindJSON(&req); err != nil {
		logger.Logger.Error("failed to bind login request: ", err)
		return
	}

	err := authenticateFromCache(ctx, req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials"})
			return
		}
		// cache miss or cache down, the database decides
		if err := authenticateFromDatabase(req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials"})
			return
		}
	}

	if err := middleware.GenerateTokensAndSaveInCookies(c, req.Email); err != nil {
		logger.Logger.Error("failed to create tokens: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged in successfully", "email": req.Email})
}

func Validate(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"message": "authenticated", "email": user.Email})
}

func cacheCredentials(ctx context.Context, email, hashedPassword string) error {
	if initializers.Client == nil {
		return ErrCredentialsNotCached
	}
	userKey := fmt.Sprintf("user:%s", email)
	return initializers.Client.HSet(ctx, userKey, map[string]interface{}{
		"email":    email,
		"password": hashedPassword,
	}).Err()
}

func authenticateFromCache(ctx context.Context, req LoginRequest) error {
	if initializers.Client == nil {
		return ErrCredentialsNotCached
	}
	userKey := fmt.Sprintf("user:%s", req.Email)
	result, err := initializers.Client.HGetAll(ctx, userKey).Result()
	if err != nil {
		logger.Logger.Error("redis credential lookup failed: ", err)
		return err
	}
	hash, ok := result["password"]
	if !ok || hash == "" {
		return ErrCredentialsNotCached
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func authenticateFromDatabase(req LoginRequest) error {
	user, err := repository.GetUserByEmail(req.Email)
	if err != nil {
		return ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}
