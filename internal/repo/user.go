package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/book_catalog/internal/models"
)

// UserPatch carries the fields of an update. Nil means unchanged.
type UserPatch struct {
	Username     *string
	PasswordHash *string
}

// CreateUser inserts u unless a user with exactly the same username exists.
func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := usernameTaken(tx, u.Username, 0)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%q: %w", u.Username, ErrUserAlreadyExist)
		}
		if err := tx.Create(u).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%q: %w", u.Username, ErrUserAlreadyExist)
			}
			return err
		}
		return nil
	})
}

func (r *GormRepo) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, fmt.Errorf("user %d: %w", id, err)
	}
	return &user, nil
}

// FindUserByUsernameFold looks a user up ignoring case. Stored usernames are
// unique only case-sensitively, so several rows may match; the oldest wins.
// Folding happens in Go so every backend agrees on non-ASCII names.
func (r *GormRepo) FindUserByUsernameFold(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).
		Where("username_fold = ?", models.FoldUsername(username)).
		Order("id ASC").
		First(&user).Error
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", username, err)
	}
	return &user, nil
}

func (r *GormRepo) UpdateUser(ctx context.Context, id uint, patch UserPatch) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return fmt.Errorf("user %d: %w", id, err)
		}

		if patch.Username != nil && *patch.Username != user.Username {
			taken, err := usernameTaken(tx, *patch.Username, id)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("%q: %w", *patch.Username, ErrUserAlreadyExist)
			}
			user.Username = *patch.Username
		}
		if patch.PasswordHash != nil {
			user.PasswordHash = *patch.PasswordHash
		}

		if err := tx.Save(&user).Error; err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%q: %w", user.Username, ErrUserAlreadyExist)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes the user and every review they wrote.
func (r *GormRepo) DeleteUser(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return fmt.Errorf("user %d: %w", id, err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
}

func usernameTaken(tx *gorm.DB, username string, exceptID uint) (bool, error) {
	q := tx.Model(&models.User{}).Where("username = ?", username)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsNotFound reports whether err means the requested row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
