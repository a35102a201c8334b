package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/book_catalog/internal/logging"
	authmw "github.com/Skotchmaster/book_catalog/internal/middleware/auth"
	"github.com/Skotchmaster/book_catalog/internal/service"
	"github.com/Skotchmaster/book_catalog/internal/transport"
)

type ReviewHTTP struct {
	Svc *service.ReviewService
}

func (h *ReviewHTTP) AddReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.add")

	user, ok := authmw.UserFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, credentialsMessage)
	}

	var req transport.CreateReviewRequest
	if err := bindValid(c, l, "add_review_error", &req); err != nil {
		return err
	}

	rv, err := h.Svc.AddReview(ctx, user, service.NewReview{BookID: req.BookID, Text: req.Text, Rating: req.Rating})
	if err != nil {
		return serviceError(l, "add_review_error", err, bookNotFound)
	}

	l.Info("add_review_success", "review_id", rv.ID, "book_id", rv.BookID)
	return c.JSON(http.StatusCreated, transport.ReviewCreatedResponse{Message: "review added", ReviewID: rv.ID})
}

func (h *ReviewHTTP) ListReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.list")

	reviews, err := h.Svc.ListReviews(ctx, nil)
	if err != nil {
		return serviceError(l, "list_reviews_error", err, bookNotFound)
	}
	return c.JSON(http.StatusOK, transport.NewReviewResponses(reviews))
}

func (h *ReviewHTTP) ListBookReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.list_book")

	id, err := parseID(c, l, "list_reviews_error")
	if err != nil {
		return err
	}

	reviews, err := h.Svc.ListReviews(ctx, &id)
	if err != nil {
		return serviceError(l, "list_reviews_error", err, bookNotFound)
	}
	return c.JSON(http.StatusOK, transport.NewReviewResponses(reviews))
}
