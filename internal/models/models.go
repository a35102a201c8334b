package models

import (
	"strings"

	"gorm.io/gorm"
)

const (
	DeletedBookTitle = "book deleted"
	DeletedUserTitle = "user deleted"
)

// Genres lists the genres a book may be filed under.
var Genres = []string{
	"Роман", "Повесть", "Рассказ", "Новелла", "Поэма",
	"Трагедия", "Комедия", "Детектив", "Антиутопия", "Фантастика",
}

type User struct {
	ID           uint     `gorm:"primaryKey;autoIncrement"      json:"id"`
	Username     string   `gorm:"size:50;uniqueIndex;not null"  json:"username"`
	UsernameFold string   `gorm:"size:200;index;not null"       json:"-"`
	PasswordHash string   `gorm:"size:256;not null"             json:"-"`
	Reviews      []Review `gorm:"constraint:OnDelete:CASCADE;"  json:"-"`
}

// FoldUsername is the case-insensitive lookup key for a username. Tokens carry
// the same form as their subject.
func FoldUsername(username string) string {
	return strings.ToLower(username)
}

// BeforeSave keeps UsernameFold in step with Username on every create and save.
func (u *User) BeforeSave(*gorm.DB) error {
	u.UsernameFold = FoldUsername(u.Username)
	return nil
}

type Book struct {
	ID      uint     `gorm:"primaryKey;autoIncrement"      json:"id"`
	Title   string   `gorm:"size:100;not null"             json:"title"`
	Author  string   `gorm:"size:50;not null"              json:"author"`
	Genre   string   `gorm:"size:30;not null"              json:"genre"`
	Reviews []Review `gorm:"constraint:OnDelete:CASCADE;"  json:"-"`
}

type Review struct {
	ID     uint   `gorm:"primaryKey;autoIncrement"                        json:"id"`
	Text   string `gorm:"size:500"                                        json:"text"`
	Rating int    `gorm:"not null;check:rating >= 1 AND rating <= 10"     json:"rating"`
	UserID uint   `gorm:"index;not null"                                  json:"user_id"`
	BookID uint   `gorm:"index;not null"                                  json:"book_id"`
	User   *User  `gorm:"foreignKey:UserID"                               json:"-"`
	Book   *Book  `gorm:"foreignKey:BookID"                               json:"-"`
}

// BookTitle is the title of the reviewed book, or DeletedBookTitle when the
// book row is gone or was not loaded.
func (r Review) BookTitle() string {
	if r.Book == nil || r.Book.ID == 0 {
		return DeletedBookTitle
	}
	return r.Book.Title
}

// UserTitle is the reviewer's username, or DeletedUserTitle when the user
// row is gone or was not loaded.
func (r Review) UserTitle() string {
	if r.User == nil || r.User.ID == 0 {
		return DeletedUserTitle
	}
	return r.User.Username
}

// RatedBook is a book together with the mean of its review scores.
type RatedBook struct {
	ID        uint    `json:"id"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Genre     string  `json:"genre"`
	AvgRating float64 `json:"avg_rating"`
}

func NewRatedBook(b Book, avg float64) RatedBook {
	return RatedBook{ID: b.ID, Title: b.Title, Author: b.Author, Genre: b.Genre, AvgRating: avg}
}
