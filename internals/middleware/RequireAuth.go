package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"library-catalog/initializers"
	"library-catalog/internals/models"
	"library-catalog/internals/repository"
	logger "library-catalog/loggers"
)

type AccessDetails struct {
	AccessUuid string
	Email      string
}

type RefreshDetails struct {
	RefreshUuid string
	Email       string
}

type TokenPair struct {
	AccessToken  string
	AccessUuid   string
	AtExpires    int64
	RefreshToken string
	RefreshUuid  string
	RtExpires    int64
}

func GenerateTokensAndSaveInCookies(c *gin.Context, email string) error {
	tokenPair, err := CreateTokenPair(email)
	if err != nil {
		logger.Logger.Error("failed to create token pair: ", err)
		return err
	}
	if err := SaveTokenPair(tokenPair, email); err != nil {
		logger.Logger.Error("failed to save tokens in redis: ", err)
		return err
	}
	c.SetCookie("access_token", tokenPair.AccessToken, 3600, "/", "", false, true)
	c.SetCookie("refresh_token", tokenPair.RefreshToken, 7*24*3600, "/", "", false, true)
	return nil
}

func CreateTokenPair(email string) (*TokenPair, error) {
	var err error
	token := &TokenPair{
		AtExpires:   time.Now().Add(time.Minute * 15).Unix(),
		RtExpires:   time.Now().Add(time.Hour * 24 * 7).Unix(),
		AccessUuid:  uuid.New().String(),
		RefreshUuid: uuid.New().String(),
	}

	atClaims := jwt.MapClaims{
		"authorized":  true,
		"access_uuid": token.AccessUuid,
		"email":       email,
		"exp":         token.AtExpires,
	}
	at := jwt.NewWithClaims(jwt.SigningMethodHS256, atClaims)
	token.AccessToken, err = at.SignedString([]byte(initializers.Config().GetString("auth.access_secret")))
	if err != nil {
		logger.Logger.Error("signing of access token failed: ", err)
		return nil, err
	}

	rtClaims := jwt.MapClaims{
		"refresh_uuid": token.RefreshUuid,
		"email":        email,
		"exp":          token.RtExpires,
	}
	rt := jwt.NewWithClaims(jwt.SigningMethodHS256, rtClaims)
	token.RefreshToken, err = rt.SignedString([]byte(initializers.Config().GetString("auth.refresh_secret")))
	if err != nil {
		logger.Logger.Error("signing of refresh token failed: ", err)
		return nil, err
	}
	return token, nil
}

func SaveTokenPair(tokenObj *TokenPair, email string) error {
	at := time.Unix(tokenObj.AtExpires, 0)
	rt := time.Unix(tokenObj.RtExpires, 0)
	now := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := initializers.Client.Set(ctx, tokenObj.AccessUuid, email, at.Sub(now)).Err(); err != nil {
		logger.Logger.Error("failed to insert access token in redis: ", err)
		return err
	}
	if err := initializers.Client.Set(ctx, tokenObj.RefreshUuid, email, rt.Sub(now)).Err(); err != nil {
		logger.Logger.Error("failed to insert refresh token in redis: ", err)
		return err
	}
	return nil
}

// AuthenticateMiddleware guards API endpoints, answering 401 when no
// valid token pair is presented.
func AuthenticateMiddleware(c *gin.Context) {
	user, err := authenticate(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token expired or invalid"})
		return
	}
	setCurrentUser(c, user)
	c.Next()
}

// LoginRequired guards catalog pages, redirecting anonymous visitors
// to the login page.
func LoginRequired(c *gin.Context) {
	user, err := authenticate(c)
	if err != nil {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}
	setCurrentUser(c, user)
	c.Next()
}

// RequirePermission allows the request through only when the
// authenticated user holds the permission codename.
func RequirePermission(codename string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		ok, err := repository.HasPermission(user.ID, codename)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "permission check failed"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}
		c.Next()
	}
}

func setCurrentUser(c *gin.Context, user *models.UserProfile) {
	c.Set("email", user.Email)
	c.Set("user", user)
}

// CurrentUser returns the authenticated user set by the auth middleware,
// or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.UserProfile {
	v, ok := c.Get("user")
	if !ok {
		return nil
	}
	user, _ := v.(*models.UserProfile)
	return user
}

func authenticate(c *gin.Context) (*models.UserProfile, error) {
	email, err := emailFromTokens(c)
	if err != nil {
		return nil, err
	}
	user, err := repository.GetUserByEmail(email)
	if err != nil {
		logger.Logger.Error("authenticated email has no user profile: ", err)
		return nil, err
	}
	return user, nil
}

func emailFromTokens(c *gin.Context) (string, error) {
	tokenString, err := c.Cookie("access_token")
	if err != nil {
		return refreshTokenFlow(c)
	}
	metadata, err := extractAccessTokenMetadata(tokenString)
	if err != nil {
		logger.Logger.Error("access token metadata failed: ", err)
		return refreshTokenFlow(c)
	}
	email, err := FetchAuth(metadata)
	if err != nil {
		return "", err
	}
	return email, nil
}

// refreshTokenFlow mints a fresh token pair from a valid refresh token.
func refreshTokenFlow(c *gin.Context) (string, error) {
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil {
		return "", errors.New("refresh token missing")
	}
	details, err := extractRefreshTokenMetadata(refreshToken)
	if err != nil {
		logger.Logger.Error("failed to extract refresh token metadata: ", err)
		return "", err
	}
	if err := GenerateTokensAndSaveInCookies(c, details.Email); err != nil {
		logger.Logger.Error("failed to create new tokens: ", err)
		return "", err
	}
	return details.Email, nil
}

func extractAccessTokenMetadata(tokenString string) (*AccessDetails, error) {
	secret := initializers.Config().GetString("auth.access_secret")
	if secret == "" {
		return nil, errors.New("auth.access_secret is not set")
	}
	claims, err := extractTokenMetadata(tokenString, secret, []string{"access_uuid", "email"})
	if err != nil {
		return nil, err
	}
	return &AccessDetails{
		AccessUuid: claims["access_uuid"].(string),
		Email:      claims["email"].(string),
	}, nil
}

func extractRefreshTokenMetadata(refreshString string) (*RefreshDetails, error) {
	secret := initializers.Config().GetString("auth.refresh_secret")
	if secret == "" {
		return nil, errors.New("auth.refresh_secret is not set")
	}
	claims, err := extractTokenMetadata(refreshString, secret, []string{"refresh_uuid", "email"})
	if err != nil {
		return nil, err
	}
	return &RefreshDetails{
		RefreshUuid: claims["refresh_uuid"].(string),
		Email:       claims["email"].(string),
	}, nil
}

func extractTokenMetadata(tokenString string, secret string, expectedClaims []string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, errors.New("token has no expiry claim")
	}
	if float64(time.Now().Unix()) > exp {
		return nil, errors.New("token expired")
	}
	for _, claim := range expectedClaims {
		if value, ok := claims[claim].(string); !ok || value == "" {
			return nil, fmt.Errorf("missing required claim: %s", claim)
		}
	}
	return claims, nil
}

// FetchAuth resolves the token uuid to the email stored in redis.
func FetchAuth(metadata *AccessDetails) (string, error) {
	return initializers.Client.Get(context.Background(), metadata.AccessUuid).Result()
}
