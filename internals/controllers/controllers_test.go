package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"library-catalog/initializers"
	"library-catalog/internals/controllers"
	"library-catalog/internals/middleware"
	"library-catalog/internals/models"
	"library-catalog/internals/repository"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.UserProfile{},
		&models.UserPermission{},
		&models.Author{},
		&models.Genre{},
		&models.Language{},
		&models.Book{},
		&models.BookInstance{},
	))
	initializers.DB = db
	initializers.Client = nil
}

// asUser stands in for the auth middleware in handler tests.
func asUser(user *models.UserProfile) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("email", user.Email)
		c.Set("user", user)
		c.Next()
	}
}

// newRouter mirrors the route table in main.go with a swappable auth layer.
func newRouter(authmw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	catalog := r.Group("/catalog")
	{
		catalog.GET("/", controllers.Index)
		catalog.GET("/books", controllers.ListBooks)
		catalog.GET("/books/:id", controllers.GetBook)
		catalog.GET("/authors", controllers.ListAuthors)
		catalog.GET("/authors/:id", controllers.GetAuthor)
	}

	protected := r.Group("/catalog", authmw)
	{
		protected.GET("/mybooks", controllers.MyBorrowedBooks)
		protected.POST("/books/:id/borrow", controllers.BorrowBook)
		protected.POST("/books", controllers.CreateBook)
		protected.PUT("/books/:id", controllers.UpdateBook)
		protected.DELETE("/books/:id", controllers.DeleteBook)

		librarians := protected.Group("", middleware.RequirePermission(models.PermCanMarkReturned))
		{
			librarians.GET("/borrowed", controllers.AllBorrowedBooks)
			librarians.GET("/book/:id/renew", controllers.RenewBookGet)
			librarians.POST("/book/:id/renew", controllers.RenewBookPost)
			librarians.POST("/book/:id/return", controllers.ReturnBook)
			librarians.POST("/bookinstances", controllers.CreateBookInstance)
		}

		editors := protected.Group("", middleware.RequirePermission(models.PermCanEditAuthors))
		{
			editors.POST("/authors", controllers.CreateAuthor)
			editors.PUT("/authors/:id", controllers.UpdateAuthor)
			editors.DELETE("/authors/:id", controllers.DeleteAuthor)
		}
	}
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	return payload
}

func seedUser(t *testing.T, email string, perms ...string) *models.UserProfile {
	t.Helper()
	user := models.UserProfile{FirstName: "Test", LastName: "Reader", Email: email, Password: "x", UserType: "staff"}
	require.NoError(t, initializers.DB.Create(&user).Error)
	for _, perm := range perms {
		require.NoError(t, repository.GrantPermission(user.ID, perm))
	}
	return &user
}

func seedCatalog(t *testing.T) (*models.Book, *models.Author) {
	t.Helper()
	author := models.Author{FirstName: "Ursula", LastName: "Le Guin"}
	require.NoError(t, initializers.DB.Create(&author).Error)
	fantasy := models.Genre{Name: "Fantasy"}
	require.NoError(t, initializers.DB.Create(&fantasy).Error)
	book := models.Book{Title: "A Wizard of Earthsea", IsBn: "9780547773742", AuthorID: author.ID, Genres: []models.Genre{fantasy}}
	require.NoError(t, initializers.DB.Create(&book).Error)
	return &book, &author
}

func seedLoan(t *testing.T, bookID uint, borrowerID uint, due time.Time) *models.BookInstance {
	t.Helper()
	instance := models.BookInstance{BookID: bookID, Status: models.StatusOnLoan, BorrowerID: &borrowerID, DueBack: &due}
	require.NoError(t, initializers.DB.Create(&instance).Error)
	return &instance
}

func TestHomeCounts(t *testing.T) {
	setupTestDB(t)
	book, _ := seedCatalog(t)
	instance := models.BookInstance{BookID: book.ID, Status: models.StatusAvailable}
	require.NoError(t, initializers.DB.Create(&instance).Error)

	r := newRouter(middleware.LoginRequired)
	w := doJSON(t, r, http.MethodGet, "/catalog/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	payload := decode(t, w)
	assert.EqualValues(t, 1, payload["num_books"])
	assert.EqualValues(t, 1, payload["num_instances"])
	assert.EqualValues(t, 1, payload["num_instances_available"])
	assert.EqualValues(t, 1, payload["num_authors"])
	assert.EqualValues(t, 1, payload["num_genres_with_fantasy"])
	assert.EqualValues(t, 0, payload["num_books_with_the"])
	// no session cache wired in tests
	assert.EqualValues(t, 0, payload["num_visits"])
}

func TestBookListPagination(t *testing.T) {
	setupTestDB(t)
	_, author := seedCatalog(t)
	for i := 0; i < 12; i++ {
		book := models.Book{Title: fmt.Sprintf("The Chronicle %02d", i), IsBn: fmt.Sprintf("97800000000%02d", i), AuthorID: author.ID}
		require.NoError(t, initializers.DB.Create(&book).Error)
	}

	r := newRouter(middleware.LoginRequired)
	w := doJSON(t, r, http.MethodGet, "/catalog/books", nil)
	require.Equal(t, http.StatusOK, w.Code)

	payload := decode(t, w)
	assert.EqualValues(t, 13, payload["count"])
	assert.Len(t, payload["results"], 10)
	// extra context list is capped at five titles
	assert.LessOrEqual(t, len(payload["data"].([]any)), 5)

	w = doJSON(t, r, http.MethodGet, "/catalog/books?page=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["results"], 3)
}

func TestBookDetail(t *testing.T) {
	setupTestDB(t)
	book, _ := seedCatalog(t)

	r := newRouter(middleware.LoginRequired)
	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/catalog/books/%d", book.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	payload := decode(t, w)
	assert.Equal(t, "A Wizard of Earthsea", payload["title"])
	assert.Equal(t, "Le Guin, Ursula", payload["author"])

	w = doJSON(t, r, http.MethodGet, "/catalog/books/9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoginRequiredRedirects(t *testing.T) {
	setupTestDB(t)
	r := newRouter(middleware.LoginRequired)

	for _, path := range []string{"/catalog/mybooks", "/catalog/borrowed"} {
		w := doJSON(t, r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/login", w.Header().Get("Location"), path)
	}
}

func TestMyBorrowedBooksOnlyOwn(t *testing.T) {
	setupTestDB(t)
	book, _ := seedCatalog(t)
	alice := seedUser(t, "alice@example.com")
	bob := seedUser(t, "bob@example.com")
	seedLoan(t, book.ID, alice.ID, time.Now().AddDate(0, 0, 14))
	seedLoan(t, book.ID, bob.ID, time.Now().AddDate(0, 0, 7))

	r := newRouter(asUser(alice))
	w := doJSON(t, r, http.MethodGet, "/catalog/mybooks", nil)
	require.Equal(t, http.StatusOK, w.Code)

	payload := decode(t, w)
	results := payload["results"].([]any)
	require.Len(t, results, 1)
	loan := results[0].(map[string]any)
	assert.Equal(t, "o", loan["status"])
	assert.Equal(t, alice.Email, loan["borrower"])
}

func TestAllBorrowedRequiresPermission(t *testing.T) {
	setupTestDB(t)
	book, _ := seedCatalog(t)
	reader := seedUser(t, "reader@example.com")
	librarian := seedUser(t, "librarian@example.com", models.PermCanMarkReturned)
	seedLoan(t, book.ID, reader.ID, time.Now().AddDate(0, 0, 7))

	w := doJSON(t, newRouter(asUser(reader)), http.MethodGet, "/catalog/borrowed", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, newRouter(asUser(librarian)), http.MethodGet, "/catalog/borrowed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	results := decode(t, w)["results"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, "o", results[0].(map[string]any)["status"])
}

func TestRenewBook(t *testing.T) {
	setupTestDB(t)
	book, _ := seedCatalog(t)
	reader := seedUser(t, "reader@example.com")
	librarian := seedUser(t, "librarian@example.com", models.PermCanMarkReturned)
	loan := seedLoan(t, book.ID, reader.ID, time.Now().AddDate(0, 0, 3))

	r := newRouter(asUser(librarian))

	w := doJSON(t, r, http.MethodGet, "/catalog/book/"+loan.ID.String()+"/renew", nil)
	require.Equal(t, http.StatusOK, w.Code)
	payload := decode(t, w)
	proposed := payload["proposed_due_back"].(string)
	assert.Equal(t, time.Now().AddDate(0, 0, 21).Format("2006-01-02"), proposed)
	assert.Equal(t, reader.Email, payload["book_instance"].(map[string]any)["borrower"])

	// in range: persists and redirects to the all-borrowed list
	w = doJSON(t, r, http.MethodPost, "/catalog/book/"+loan.ID.String()+"/renew",
		gin.H{"due_back": proposed})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/catalog/borrowed", w.Header().Get("Location"))

	var stored models.BookInstance
	require.NoError(t, initializers.DB.First(&stored, "id = ?", loan.ID).Error)
	require.NotNil(t, stored.DueBack)
	assert.Equal(t, proposed, stored.DueBack.Format("2006-01-02"))

	// past date rejected
	w = doJSON(t, r, http.MethodPost, "/catalog/book/"+loan.ID.String()+"/renew",
		gin.H{"due_back": time.Now().AddDate(0, 0, -1).Format("2006-01-02")})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// more than four weeks out rejected
	w = doJSON(t, r, http.MethodPost, "/catalog/book/"+loan.ID.String()+"/renew",
		gin.H{"due_back": time.Now().AddDate(0, 0, 35).Format("2006-01-02")})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// unknown copy
	w = doJSON(t, r, http.MethodPost, "/catalog/book/00000000-0000-0000-0000-000000000001/renew",
		gin.H{"due_back": proposed})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// unknown copy wins over an out-of-range date
	w = doJSON(t, r, http.MethodPost, "/catalog/book/00000000-0000-0000-0000-000000000001/renew",
		gin.H{"due_back": time.Now().AddDate(0, 0, 35).Format("2006-01-02")})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthorCRUDEndpoints(t *testing.T) {
	setupTestDB(t)
	editor := seedUser(t, "editor@example.com", models.PermCanEditAuthors)
	r := newRouter(asUser(editor))

	w := doJSON(t, r, http.MethodPost, "/catalog/authors",
		gin.H{"first_name": "Ursula", "last_name": "Le Guin", "date_of_birth": "1929-10-21"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode(t, w)
	id := fmt.Sprintf("%v", created["id"])
	assert.Equal(t, "Le Guin, Ursula", created["name"])

	w = doJSON(t, r, http.MethodPut, "/catalog/authors/"+id,
		gin.H{"first_name": "Ursula K.", "last_name": "Le Guin"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ursula K.", decode(t, w)["first_name"])

	w = doJSON(t, r, http.MethodDelete, "/catalog/authors/"+id, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/catalog/authors", w.Header().Get("Location"))

	w = doJSON(t, r, http.MethodGet, "/catalog/authors/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthorEditRequiresPermission(t *testing.T) {
	setupTestDB(t)
	reader := seedUser(t, "reader@example.com")
	r := newRouter(asUser(reader))

	w := doJSON(t, r, http.MethodPost, "/catalog/authors",
		gin.H{"first_name": "Ursula", "last_name": "Le Guin"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBorrowAndReturn(t *testing.T) {
	setupTestDB(t)
	book, _ := seedCatalog(t)
	instance := models.BookInstance{BookID: book.ID, Status: models.StatusAvailable}
	require.NoError(t, initializers.DB.Create(&instance).Error)
	librarian := seedUser(t, "librarian@example.com", models.PermCanMarkReturned)

	r := newRouter(asUser(librarian))

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/catalog/books/%d/borrow", book.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	loan := decode(t, w)
	assert.Equal(t, "o", loan["status"])
	assert.Equal(t, time.Now().AddDate(0, 0, 21).Format("2006-01-02"), loan["due_back"])

	// the only copy is gone
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/catalog/books/%d/borrow", book.ID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/catalog/book/"+loan["id"].(string)+"/return", nil)
	require.Equal(t, http.StatusOK, w.Code)
	returned := decode(t, w)
	assert.Equal(t, "a", returned["status"])
	assert.Nil(t, returned["due_back"])
}

func TestCreateBookValidation(t *testing.T) {
	setupTestDB(t)
	_, author := seedCatalog(t)
	staff := seedUser(t, "staff@example.com")
	r := newRouter(asUser(staff))

	// missing required title
	w := doJSON(t, r, http.MethodPost, "/catalog/books",
		gin.H{"author_id": author.ID, "isbn": "9780061054884"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/catalog/books",
		gin.H{"title": "The Dispossessed", "author_id": author.ID, "isbn": "9780061054884"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "The Dispossessed", decode(t, w)["title"])
}
