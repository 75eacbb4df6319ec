package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"tickettrack/internal/model"
)

// ErrDuplicateEmail surfaces the unique index violation on users.email so the
// service layer can report it as a validation problem instead of a 500.
var ErrDuplicateEmail = errors.New("email already registered")

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *model.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create user failed: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by email failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by id failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) GetByResetToken(token string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("reset_token = ?", token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by reset token failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) Save(user *model.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return fmt.Errorf("save user failed: %w", err)
	}
	return nil
}

// isDuplicateError matches the driver-specific duplicate key messages that
// gorm does not translate (MySQL error 1062, SQLite constraint text).
func isDuplicateError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
