package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"library-catalog/internals/models"
	"library-catalog/internals/repository"
	logger "library-catalog/loggers"
)

type AuthorRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	DateOfBirth string `json:"date_of_birth"`
	DateOfDeath string `json:"date_of_death"`
}

type AuthorResponse struct {
	ID          uint                  `json:"id"`
	Name        string                `json:"name"`
	FirstName   string                `json:"first_name"`
	LastName    string                `json:"last_name"`
	DateOfBirth *string               `json:"date_of_birth"`
	DateOfDeath *string               `json:"date_of_death"`
	Books       []BookSummaryResponse `json:"books,omitempty"`
}

func ListAuthors(c *gin.Context) {
	page, err := repository.ListAuthors(parsePage(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch author details"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":     page.Count,
		"page":      page.Page,
		"page_size": page.PageSize,
		"results":   lo.Map(page.Results, func(a models.Author, _ int) AuthorResponse { return toAuthorResponse(&a) }),
	})
}

func GetAuthor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	author, err := repository.GetAuthorByID(id)
	if err != nil {
		abortLookup(c, err)
		return
	}
	c.JSON(http.StatusOK, toAuthorResponse(author))
}

func CreateAuthor(c *gin.Context) {
	var req AuthorRequest
	if err := c.BindJSON(&req); err != nil {
		logger.Logger.Error("failed to bind author request: ", err)
		return
	}
	author, ok := authorFromRequest(c, &req)
	if !ok {
		return
	}
	if err := repository.CreateAuthor(author); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "author creation failed"})
		return
	}
	c.JSON(http.StatusCreated, toAuthorResponse(author))
}

func UpdateAuthor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	existing, err := repository.GetAuthorByID(id)
	if err != nil {
		abortLookup(c, err)
		return
	}

	var req AuthorRequest
	if err := c.BindJSON(&req); err != nil {
		logger.Logger.Error("failed to bind author request: ", err)
		return
	}
	author, ok := authorFromRequest(c, &req)
	if !ok {
		return
	}
	author.ID = existing.ID
	author.CreatedAt = existing.CreatedAt
	if err := repository.UpdateAuthor(author); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "author update failed"})
		return
	}
	c.JSON(http.StatusOK, toAuthorResponse(author))
}

func DeleteAuthor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if _, err := repository.GetAuthorByID(id); err != nil {
		abortLookup(c, err)
		return
	}
	if err := repository.DeleteAuthor(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "author deletion failed"})
		return
	}
	c.Redirect(http.StatusFound, "/catalog/authors")
}

func authorFromRequest(c *gin.Context, req *AuthorRequest) (*models.Author, bool) {
	born, err := parseDate(req.DateOfBirth)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"date_of_birth": "expected YYYY-MM-DD"}})
		return nil, false
	}
	died, err := parseDate(req.DateOfDeath)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"date_of_death": "expected YYYY-MM-DD"}})
		return nil, false
	}
	return &models.Author{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: born,
		DateOfDeath: died,
	}, true
}

func toAuthorResponse(author *models.Author) AuthorResponse {
	return AuthorResponse{
		ID:          author.ID,
		Name:        author.DisplayName(),
		FirstName:   author.FirstName,
		LastName:    author.LastName,
		DateOfBirth: formatDate(author.DateOfBirth),
		DateOfDeath: formatDate(author.DateOfDeath),
		Books:       lo.Map(author.Books, func(b models.Book, _ int) BookSummaryResponse { return toBookSummary(&b) }),
	}
}
