package transport

import (
	"github.com/Skotchmaster/book_catalog/internal/models"
	"github.com/Skotchmaster/book_catalog/internal/util"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=8,max=50,nospaces"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=8,max=50,nospaces"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
}

type CreateBookRequest struct {
	Title  string `json:"title"  validate:"required,min=2,max=100"`
	Author string `json:"author" validate:"required,min=2,max=50,fullname"`
	Genre  string `json:"genre"  validate:"required,genre"`
}

type PatchBookRequest struct {
	Title  *string `json:"title"  validate:"omitempty,min=2,max=100"`
	Author *string `json:"author" validate:"omitempty,min=2,max=50,fullname"`
	Genre  *string `json:"genre"  validate:"omitempty,genre"`
}

type CreateReviewRequest struct {
	BookID uint   `json:"book_id" validate:"required"`
	Text   string `json:"text"    validate:"max=500"`
	Rating int    `json:"rating"  validate:"required,min=1,max=10"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type BookCreatedResponse struct {
	Message string `json:"message"`
	BookID  uint   `json:"book_id"`
}

type BookResponse struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
}

type BooksPage struct {
	Data []models.RatedBook `json:"data"`
	Meta util.Meta          `json:"meta"`
}

type SearchResponse struct {
	Total int64          `json:"total"`
	Data  []BookResponse `json:"data"`
}

type RatingResponse struct {
	BookID    uint    `json:"book_id"`
	AvgRating float64 `json:"avg_rating"`
}

type ReviewCreatedResponse struct {
	Message  string `json:"message"`
	ReviewID uint   `json:"review_id"`
}

type ReviewResponse struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	Rating    int    `json:"rating"`
	BookID    uint   `json:"book_id"`
	UserID    uint   `json:"user_id"`
	BookTitle string `json:"book_title"`
	UserTitle string `json:"user_title"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username}
}

func NewBookResponse(b models.Book) BookResponse {
	return BookResponse{ID: b.ID, Title: b.Title, Author: b.Author, Genre: b.Genre}
}

func NewBookResponses(books []models.Book) []BookResponse {
	out := make([]BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, NewBookResponse(b))
	}
	return out
}

func NewReviewResponses(reviews []models.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, ReviewResponse{
			ID:        r.ID,
			Text:      r.Text,
			Rating:    r.Rating,
			BookID:    r.BookID,
			UserID:    r.UserID,
			BookTitle: r.BookTitle(),
			UserTitle: r.UserTitle(),
		})
	}
	return out
}
