package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"library-catalog/internals/models"
	"library-catalog/internals/repository"
	logger "library-catalog/loggers"
)

type BookRequest struct {
	Title      string `json:"title" binding:"required"`
	AuthorID   uint   `json:"author_id" binding:"required"`
	Summary    string `json:"summary"`
	IsBn       string `json:"isbn" binding:"required"`
	GenreIDs   []uint `json:"genre_ids"`
	LanguageID *uint  `json:"language_id"`
}

type BookSummaryResponse struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author,omitempty"`
	IsBn   string `json:"isbn"`
}

type CopyResponse struct {
	ID      string  `json:"id"`
	Imprint string  `json:"imprint"`
	Status  string  `json:"status"`
	DueBack *string `json:"due_back"`
}

type BookResponse struct {
	ID       uint           `json:"id"`
	Title    string         `json:"title"`
	Author   string         `json:"author"`
	AuthorID uint           `json:"author_id"`
	Summary  string         `json:"summary"`
	IsBn     string         `json:"isbn"`
	Genres   []string       `json:"genres"`
	Language string         `json:"language,omitempty"`
	Copies   []CopyResponse `json:"copies"`
}

// ListBooks returns one page of the catalog plus, like the original list
// view, a short extra list of titles containing "the".
func ListBooks(c *gin.Context) {
	page, err := repository.ListBooks(parsePage(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch book details"})
		return
	}
	extra, err := repository.BooksWithTitleContaining("the", 5)
	if err != nil {
		logger.Logger.Error("failed to fetch extra titles: ", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"count":     page.Count,
		"page":      page.Page,
		"page_size": page.PageSize,
		"results":   lo.Map(page.Results, func(b models.Book, _ int) BookSummaryResponse { return toBookSummary(&b) }),
		"data":      lo.Map(extra, func(b models.Book, _ int) BookSummaryResponse { return toBookSummary(&b) }),
	})
}

func GetBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	book, err := repository.GetBookByID(id)
	if err != nil {
		abortLookup(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookResponse(book))
}

func CreateBook(c *gin.Context) {
	var req BookRequest
	if err := c.BindJSON(&req); err != nil {
		logger.Logger.Error("failed to bind book request: ", err)
		return
	}
	book, ok := bookFromRequest(c, &req)
	if !ok {
		return
	}
	if err := repository.CreateBook(book); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "book creation failed"})
		return
	}
	c.JSON(http.StatusCreated, toBookResponse(book))
}

func UpdateBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	existing, err := repository.GetBookByID(id)
	if err != nil {
		abortLookup(c, err)
		return
	}

	var req BookRequest
	if err := c.BindJSON(&req); err != nil {
		logger.Logger.Error("failed to bind book request: ", err)
		return
	}
	book, ok := bookFromRequest(c, &req)
	if !ok {
		return
	}
	book.ID = existing.ID
	book.CreatedAt = existing.CreatedAt
	if err := repository.UpdateBook(book); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "book update failed"})
		return
	}
	c.JSON(http.StatusOK, toBookResponse(book))
}

func DeleteBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if _, err := repository.GetBookByID(id); err != nil {
		abortLookup(c, err)
		return
	}
	if err := repository.DeleteBook(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "book deletion failed"})
		return
	}
	c.Redirect(http.StatusFound, "/catalog/books")
}

func bookFromRequest(c *gin.Context, req *BookRequest) (*models.Book, bool) {
	genres, err := repository.GetGenresByIDs(req.GenreIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown genre"})
		return nil, false
	}
	return &models.Book{
		Title:      req.Title,
		AuthorID:   req.AuthorID,
		Summary:    req.Summary,
		IsBn:       req.IsBn,
		Genres:     genres,
		LanguageID: req.LanguageID,
	}, true
}

func toBookSummary(book *models.Book) BookSummaryResponse {
	summary := BookSummaryResponse{
		ID:    book.ID,
		Title: book.Title,
		IsBn:  book.IsBn,
	}
	if book.Author != nil {
		summary.Author = book.Author.DisplayName()
	}
	return summary
}

func toBookResponse(book *models.Book) BookResponse {
	response := BookResponse{
		ID:       book.ID,
		Title:    book.Title,
		AuthorID: book.AuthorID,
		Summary:  book.Summary,
		IsBn:     book.IsBn,
		Genres:   lo.Map(book.Genres, func(g models.Genre, _ int) string { return g.Name }),
		Copies:   lo.Map(book.Instances, func(bi models.BookInstance, _ int) CopyResponse { return toCopyResponse(&bi) }),
	}
	if book.Author != nil {
		response.Author = book.Author.DisplayName()
	}
	if book.Language != nil {
		response.Language = book.Language.Name
	}
	return response
}

func toCopyResponse(instance *models.BookInstance) CopyResponse {
	return CopyResponse{
		ID:      instance.ID.String(),
		Imprint: instance.Imprint,
		Status:  instance.Status,
		DueBack: formatDate(instance.DueBack),
	}
}
