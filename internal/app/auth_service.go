package app

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tickettrack/internal/model"
	"tickettrack/internal/repository"
)

var (
	ErrCredentialsRequired = errors.New("email and password are required")
	ErrInvalidCredential   = errors.New("invalid email or password")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidResetToken   = errors.New("invalid or expired reset token")
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

const resetTokenLifetime = time.Hour

// ValidationError carries one message per offending field so the handler can
// report every problem at once instead of just the first.
type ValidationError struct {
	Details map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

type AuthService struct {
	userRepo *repository.UserRepository
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type UpdateProfileInput struct {
	UserID   uint
	Name     *string
	Password *string
}

func NewAuthService(userRepo *repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

func (s *AuthService) Register(input RegisterInput) error {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)

	details := make(map[string]string)
	if name == "" {
		details["name"] = "Name is required."
	}
	switch {
	case email == "":
		details["email"] = "Email is required."
	case !emailPattern.MatchString(email):
		details["email"] = "Invalid email format."
	default:
		existing, err := s.userRepo.GetByEmail(email)
		if err != nil {
			return err
		}
		if existing != nil {
			details["email"] = "Email is already registered."
		}
	}
	if msg := validatePassword(password); msg != "" {
		details["password"] = msg
	}
	if len(details) > 0 {
		return &ValidationError{Details: details}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Active:       true,
	}
	if err := s.userRepo.Create(user); err != nil {
		// Lost a race against a concurrent registration for the same email.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return &ValidationError{Details: map[string]string{"email": "Email is already registered."}}
		}
		return err
	}
	return nil
}

func (s *AuthService) Login(input LoginInput) (*model.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)
	if email == "" || password == "" {
		return nil, ErrCredentialsRequired
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredential
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}
	return user, nil
}

func (s *AuthService) GetUserByID(id uint) (*model.User, error) {
	if id == 0 {
		return nil, nil
	}
	return s.userRepo.GetByID(id)
}

func (s *AuthService) UpdateProfile(input UpdateProfileInput) error {
	details := make(map[string]string)

	var name string
	if input.Name != nil {
		name = strings.TrimSpace(*input.Name)
		if name == "" {
			details["name"] = "Name cannot be empty."
		}
	}
	var password string
	if input.Password != nil {
		password = strings.TrimSpace(*input.Password)
		if len(password) < 8 {
			details["password"] = "Password must be at least 8 characters long."
		}
	}
	if len(details) > 0 {
		return &ValidationError{Details: details}
	}

	user, err := s.userRepo.GetByID(input.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if input.Name != nil {
		user.Name = name
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password failed: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	return s.userRepo.Save(user)
}

// ForgotPassword issues a reset token when the account exists. It reports
// success either way so responses cannot be used to probe for accounts.
func (s *AuthService) ForgotPassword(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return &ValidationError{Details: map[string]string{"email": "Email is required."}}
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	expiry := time.Now().Add(resetTokenLifetime)
	user.ResetToken = uuid.NewString()
	user.ResetTokenExpiry = &expiry
	return s.userRepo.Save(user)
}

func (s *AuthService) ResetPassword(token, password string) error {
	token = strings.TrimSpace(token)
	password = strings.TrimSpace(password)

	details := make(map[string]string)
	if token == "" {
		details["token"] = "Reset token is required."
	}
	if msg := validatePassword(password); msg != "" {
		details["password"] = msg
	}
	if len(details) > 0 {
		return &ValidationError{Details: details}
	}

	user, err := s.userRepo.GetByResetToken(token)
	if err != nil {
		return err
	}
	if user == nil || user.ResetTokenExpiry == nil || time.Now().After(*user.ResetTokenExpiry) {
		return ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password failed: %w", err)
	}
	user.PasswordHash = string(hash)
	user.ResetToken = ""
	user.ResetTokenExpiry = nil
	return s.userRepo.Save(user)
}

// validatePassword enforces the registration password policy: at least eight
// characters and at least two of {lowercase, uppercase, digit}.
func validatePassword(password string) string {
	if password == "" {
		return "Password is required."
	}
	if len(password) < 8 {
		return "Password must be at least 8 characters long."
	}

	var hasLower, hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	classes := 0
	for _, ok := range []bool{hasLower, hasUpper, hasDigit} {
		if ok {
			classes++
		}
	}
	if classes < 2 {
		return "Password must contain at least two of: lowercase letters, uppercase letters, digits."
	}
	return ""
}
