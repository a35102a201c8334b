package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/book_catalog/internal/middleware/auth"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	ReviewHandler  *ReviewHTTP
	AdminHandler   *AdminHTTP

	Resolver       authmw.Resolver
	LoginLimiter   echo.MiddlewareFunc
	MetricsHandler http.Handler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", d.AdminHandler.Root)
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.AdminHandler.Ready)
	if d.MetricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(d.MetricsHandler))
	}
	e.POST("/setup-database", d.AdminHandler.SetupDatabase)

	requireUser := authmw.RequireUser(d.Resolver)

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	if d.LoginLimiter != nil {
		auth.POST("/login", d.AuthHandler.Login, d.LoginLimiter)
	} else {
		auth.POST("/login", d.AuthHandler.Login)
	}
	auth.GET("/me", d.AuthHandler.Me, requireUser)
	auth.PATCH("/:id", d.AuthHandler.UpdateUser, requireUser)
	auth.DELETE("/:id", d.AuthHandler.DeleteUser, requireUser)

	books := e.Group("/books")
	books.GET("", d.CatalogHandler.ListBooks)
	books.GET("/search", d.CatalogHandler.SearchBooks)
	books.GET("/:id", d.CatalogHandler.GetBook)
	books.GET("/:id/rating", d.CatalogHandler.GetRating)
	books.GET("/:id/reviews", d.ReviewHandler.ListBookReviews)
	books.POST("", d.CatalogHandler.CreateBook, requireUser)
	books.PATCH("/:id", d.CatalogHandler.PatchBook, requireUser)
	books.DELETE("/:id", d.CatalogHandler.DeleteBook, requireUser)

	reviews := e.Group("/reviews")
	reviews.GET("", d.ReviewHandler.ListReviews)
	reviews.POST("", d.ReviewHandler.AddReview, requireUser)
}
