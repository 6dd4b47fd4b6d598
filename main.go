package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"library-catalog/initializers"
	"library-catalog/internals/controllers"
	"library-catalog/internals/middleware"
	"library-catalog/internals/models"
	logger "library-catalog/loggers"
)

func main() {
	logger.Logger.Info("starting library catalog")

	r := gin.Default()
	registerRoutes(r)
	r.Run(initializers.Config().GetString("server.addr"))
}

func registerRoutes(r *gin.Engine) {
	r.GET("/", hello)
	r.GET("/login", loginPage)
	r.POST("/signup", controllers.SignUp)
	r.POST("/login", controllers.Login)
	r.GET("/validate", middleware.AuthenticateMiddleware, controllers.Validate)

	catalog := r.Group("/catalog")
	{
		catalog.GET("/", controllers.Index)
		catalog.GET("/books", controllers.ListBooks)
		catalog.GET("/books/:id", controllers.GetBook)
		catalog.GET("/authors", controllers.ListAuthors)
		catalog.GET("/authors/:id", controllers.GetAuthor)
	}

	protected := r.Group("/catalog", middleware.LoginRequired)
	{
		protected.GET("/mybooks", controllers.MyBorrowedBooks)
		protected.POST("/books/:id/borrow", controllers.BorrowBook)

		// book records are maintained by any signed-in member of staff
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
}

func hello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "welcome to the library catalog",
	})
}

func loginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "POST credentials to /login to sign in",
	})
}

func init() {
	initializers.Config()
	logger.Init(initializers.Config().GetString("log.level"))
	initializers.ConnectDatabase()
	initializers.ConnectRedis()
	initializers.SyncDatabase()
}
