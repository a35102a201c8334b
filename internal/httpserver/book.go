package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/book_catalog/internal/logging"
	"github.com/Skotchmaster/book_catalog/internal/repo"
	"github.com/Skotchmaster/book_catalog/internal/service"
	"github.com/Skotchmaster/book_catalog/internal/transport"
	"github.com/Skotchmaster/book_catalog/internal/util"
)

const bookNotFound = "book not found"

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) CreateBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.create")

	var req transport.CreateBookRequest
	if err := bindValid(c, l, "create_book_error", &req); err != nil {
		return err
	}

	book, err := h.Svc.CreateBook(ctx, service.NewBook{Title: req.Title, Author: req.Author, Genre: req.Genre})
	if err != nil {
		return serviceError(l, "create_book_error", err, bookNotFound)
	}

	l.Info("create_book_success", "book_id", book.ID)
	return c.JSON(http.StatusCreated, transport.BookCreatedResponse{Message: "book added", BookID: book.ID})
}

func (h *CatalogHTTP) ListBooks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.ListBooks(ctx, offset, limit)
	if err != nil {
		return serviceError(l, "list_books_error", err, bookNotFound)
	}

	return c.JSON(http.StatusOK, transport.BooksPage{
		Data: items,
		Meta: util.NewMeta(page, offset, limit, total),
	})
}

func (h *CatalogHTTP) GetBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.get")

	id, err := parseID(c, l, "get_book_error")
	if err != nil {
		return err
	}

	book, err := h.Svc.GetBook(ctx, id)
	if err != nil {
		return serviceError(l, "get_book_error", err, bookNotFound)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *CatalogHTTP) GetRating(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.rating")

	id, err := parseID(c, l, "get_rating_error")
	if err != nil {
		return err
	}

	avg, err := h.Svc.AverageRating(ctx, id)
	if err != nil {
		return serviceError(l, "get_rating_error", err, bookNotFound)
	}
	return c.JSON(http.StatusOK, transport.RatingResponse{BookID: id, AvgRating: avg})
}

func (h *CatalogHTTP) PatchBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.patch")

	id, err := parseID(c, l, "patch_book_error")
	if err != nil {
		return err
	}

	var req transport.PatchBookRequest
	if err := bindValid(c, l, "patch_book_error", &req); err != nil {
		return err
	}

	book, err := h.Svc.PatchBook(ctx, id, repo.BookPatch{Title: req.Title, Author: req.Author, Genre: req.Genre})
	if err != nil {
		return serviceError(l, "patch_book_error", err, bookNotFound)
	}

	l.Info("patch_book_success", "book_id", book.ID)
	return c.JSON(http.StatusOK, transport.NewBookResponse(*book))
}

func (h *CatalogHTTP) DeleteBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.delete")

	id, err := parseID(c, l, "delete_book_error")
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteBook(ctx, id); err != nil {
		return serviceError(l, "delete_book_error", err, bookNotFound)
	}

	l.Info("delete_book_success", "book_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "book deleted"})
}

func (h *CatalogHTTP) SearchBooks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, books, err := h.Svc.SearchBooks(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return serviceError(l, "search_books_error", err, bookNotFound)
	}

	return c.JSON(http.StatusOK, transport.SearchResponse{Total: total, Data: transport.NewBookResponses(books)})
}
