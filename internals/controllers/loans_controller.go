package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"library-catalog/internals/middleware"
	"library-catalog/internals/models"
	"library-catalog/internals/repository"
	"library-catalog/internals/service"
	logger "library-catalog/loggers"
)

type LoanResponse struct {
	ID        string  `json:"id"`
	BookID    uint    `json:"book_id"`
	BookTitle string  `json:"book_title"`
	Imprint   string  `json:"imprint"`
	Status    string  `json:"status"`
	DueBack   *string `json:"due_back"`
	Borrower  string  `json:"borrower,omitempty"`
	IsOverdue bool    `json:"is_overdue"`
}

type RenewRequest struct {
	DueBack string `json:"due_back" binding:"required"`
}

type InstanceRequest struct {
	BookID  uint   `json:"book_id" binding:"required"`
	Imprint string `json:"imprint"`
	Status  string `json:"status" binding:"omitempty,oneof=m o a r"`
}

// MyBorrowedBooks lists the copies on loan to the current user,
// soonest due first.
func MyBorrowedBooks(c *gin.Context) {
	user := middleware.CurrentUser(c)
	page, err := repository.ListBorrowedByUser(user.ID, parsePage(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch borrowed copies"})
		return
	}
	respondLoanPage(c, page)
}

// AllBorrowedBooks lists every copy on loan, for librarians.
func AllBorrowedBooks(c *gin.Context) {
	page, err := repository.ListBorrowed(parsePage(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch borrowed copies"})
		return
	}
	respondLoanPage(c, page)
}

// RenewBookGet shows the renewal target with a proposed due date of
// three weeks from today.
func RenewBookGet(c *gin.Context) {
	id, ok := parseInstanceID(c)
	if !ok {
		return
	}
	instance, err := repository.GetInstanceByID(id)
	if err != nil {
		abortLookup(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"book_instance":     toLoanResponse(instance),
		"proposed_due_back": service.ProposedRenewalDate().Format(dateLayout),
	})
}

// RenewBookPost validates and persists the new due date, then sends the
// librarian back to the all-borrowed list.
func RenewBookPost(c *gin.Context) {
	id, ok := parseInstanceID(c)
	if !ok {
		return
	}
	// missing copies 404 before the submitted date is even looked at
	if _, err := repository.GetInstanceByID(id); err != nil {
		abortLookup(c, err)
		return
	}

	var req RenewRequest
	if err := c.BindJSON(&req); err != nil {
		logger.Logger.Error("failed to bind renewal request: ", err)
		return
	}
	dueBack, err := time.Parse(dateLayout, req.DueBack)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"due_back": "expected YYYY-MM-DD"}})
		return
	}

	if _, err := service.RenewLoan(id, dueBack); err != nil {
		switch {
		case errors.Is(err, service.ErrDateInPast), errors.Is(err, service.ErrDateTooFar):
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"due_back": err.Error()}})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "renewal failed"})
		}
		return
	}
	c.Redirect(http.StatusFound, "/catalog/borrowed")
}

// BorrowBook loans an available copy of the book to the current user.
func BorrowBook(c *gin.Context) {
	bookID, ok := parseID(c)
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	instance, err := service.BorrowCopy(bookID, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNoCopy) {
			c.JSON(http.StatusConflict, gin.H{"error": "no available copy"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "borrow failed"})
		return
	}
	c.JSON(http.StatusOK, toLoanResponse(instance))
}

// ReturnBook marks a loaned copy available again.
func ReturnBook(c *gin.Context) {
	id, ok := parseInstanceID(c)
	if !ok {
		return
	}
	instance, err := service.ReturnCopy(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotOnLoan):
			c.JSON(http.StatusConflict, gin.H{"error": "copy is not on loan"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "return failed"})
		}
		return
	}
	c.JSON(http.StatusOK, toLoanResponse(instance))
}

// CreateBookInstance registers a new physical copy, in maintenance
// until a status says otherwise.
func CreateBookInstance(c *gin.Context) {
	var req InstanceRequest
	if err := c.BindJSON(&req); err != nil {
		logger.Logger.Error("failed to bind instance request: ", err)
		return
	}
	status := req.Status
	if status == "" {
		status = models.StatusMaintenance
	}
	instance := models.BookInstance{
		BookID:  req.BookID,
		Imprint: req.Imprint,
		Status:  status,
	}
	if err := repository.CreateInstance(&instance); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "copy creation failed"})
		return
	}
	c.JSON(http.StatusCreated, toLoanResponse(&instance))
}

func parseInstanceID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid copy id"})
		return uuid.Nil, false
	}
	return id, true
}

func respondLoanPage(c *gin.Context, page *repository.Page[models.BookInstance]) {
	c.JSON(http.StatusOK, gin.H{
		"count":     page.Count,
		"page":      page.Page,
		"page_size": page.PageSize,
		"results":   lo.Map(page.Results, func(bi models.BookInstance, _ int) LoanResponse { return toLoanResponse(&bi) }),
	})
}

func toLoanResponse(instance *models.BookInstance) LoanResponse {
	response := LoanResponse{
		ID:        instance.ID.String(),
		BookID:    instance.BookID,
		Imprint:   instance.Imprint,
		Status:    instance.Status,
		DueBack:   formatDate(instance.DueBack),
		IsOverdue: instance.IsOverdue(time.Now()),
	}
	if instance.Book != nil {
		response.BookTitle = instance.Book.Title
	}
	if instance.Borrower != nil {
		response.Borrower = instance.Borrower.Email
	}
	return response
}
